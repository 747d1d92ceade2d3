package live

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

type Subscription struct {
	id     uint64
	hub    *Hub
	filter Filter
	fn     func(Snapshot)
	cancel context.CancelFunc
	wake   chan struct{}
	done   chan struct{}

	// mu is held for the whole callback so Unsubscribe can wait it out
	mu     sync.Mutex
	closed bool
	once   sync.Once
}

func (s *Subscription) Filter() Filter {
	return s.filter
}

// Done is closed once the delivery goroutine has exited.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Unsubscribe stops delivery. After it returns fn is never called again.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.cancel()

		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		s.hub.remove(s.id)
	})
}

func (s *Subscription) run(ctx context.Context) {
	defer close(s.done)
	defer s.Unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.wake:
		}

		snap := s.query(ctx)
		if ctx.Err() != nil {
			return
		}
		s.deliver(snap)
	}
}

func (s *Subscription) query(ctx context.Context) Snapshot {
	now := s.hub.now()

	records, err := s.hub.store.ListRecords(ctx, s.filter.Query(now))
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.hub.log.Error("live query failed",
				slog.Uint64("subscription", s.id),
				slog.String("period", string(s.filter.Period)),
				slog.String("operator", s.filter.Operator),
				slog.String("error", err.Error()),
			)
		}
		return Snapshot{Err: err, At: now}
	}

	return Snapshot{Records: records, At: now}
}

func (s *Subscription) deliver(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.fn(snap)
}
