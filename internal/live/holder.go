package live

import (
	"context"
	"sync"
)

type Subscriber interface {
	Subscribe(ctx context.Context, filter Filter, fn func(Snapshot)) *Subscription
}

// Holder owns the current subscription of one view. Changing the filter tears
// the old subscription down before the new one is established, so a view
// never holds two.
type Holder struct {
	hub Subscriber
	fn  func(Snapshot)

	mu      sync.Mutex
	current *Subscription
}

func NewHolder(hub Subscriber, fn func(Snapshot)) *Holder {
	return &Holder{hub: hub, fn: fn}
}

// Set replaces the current subscription. Setting the same filter again keeps
// the existing one.
func (h *Holder) Set(ctx context.Context, filter Filter) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.current != nil {
		if h.current.Filter() == filter {
			return
		}
		h.current.Unsubscribe()
		h.current = nil
	}

	h.current = h.hub.Subscribe(ctx, filter, h.fn)
}

// Filter reports the filter of the current subscription.
func (h *Holder) Filter() (Filter, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.current == nil {
		return Filter{}, false
	}
	return h.current.Filter(), true
}

func (h *Holder) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.current != nil {
		h.current.Unsubscribe()
		h.current = nil
	}
}
