// Package live turns record queries into live subscriptions: every write
// announced through Hub.Notify makes each subscription re-run its query and
// deliver a fresh, complete snapshot.
package live

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"production-tracker/internal/storage"
)

type RecordQuerier interface {
	ListRecords(ctx context.Context, q storage.RecordQuery) ([]storage.Record, error)
}

// Snapshot is one complete, ordered result set or the error that replaced it.
type Snapshot struct {
	Records []storage.Record
	Err     error
	At      time.Time
}

type Hub struct {
	store RecordQuerier
	log   *slog.Logger
	now   func() time.Time

	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]*Subscription
}

// NewHub builds a hub whose periods are evaluated in loc.
func NewHub(store RecordQuerier, log *slog.Logger, loc *time.Location) *Hub {
	return &Hub{
		store: store,
		log:   log,
		now:   func() time.Time { return time.Now().In(loc) },
		subs:  make(map[uint64]*Subscription),
	}
}

// Subscribe runs the filtered query now and again after every Notify until
// the subscription is stopped or ctx is cancelled. fn is never called
// concurrently with itself and must not call Unsubscribe.
func (h *Hub) Subscribe(ctx context.Context, filter Filter, fn func(Snapshot)) *Subscription {
	ctx, cancel := context.WithCancel(ctx)

	h.mu.Lock()
	h.nextID++
	sub := &Subscription{
		id:     h.nextID,
		hub:    h,
		filter: filter,
		fn:     fn,
		cancel: cancel,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	h.subs[sub.id] = sub
	h.mu.Unlock()

	// the first snapshot is owed even without a change
	sub.wake <- struct{}{}

	go sub.run(ctx)

	return sub
}

// Notify tells every live subscription that the record set changed.
func (h *Hub) Notify() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, sub := range h.subs {
		select {
		case sub.wake <- struct{}{}:
		default:
			// a re-query is already pending and will see this change too
		}
	}
}

// Len reports the number of live subscriptions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) remove(id uint64) {
	h.mu.Lock()
	delete(h.subs, id)
	h.mu.Unlock()
}
