package live

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"production-tracker/internal/storage"
)

// fakeStore filters an in-memory slice the way the SQL store does.
type fakeStore struct {
	mu      sync.Mutex
	records []storage.Record
	err     error
	queries []storage.RecordQuery
}

func (f *fakeStore) ListRecords(_ context.Context, q storage.RecordQuery) ([]storage.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}

	out := make([]storage.Record, 0)
	for i := len(f.records) - 1; i >= 0; i-- {
		r := f.records[i]
		if q.Since != nil && r.Timestamp.Before(*q.Since) {
			continue
		}
		if q.Operator != "" && r.Operator != q.Operator {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeStore) add(r storage.Record) {
	f.mu.Lock()
	f.records = append(f.records, r)
	f.mu.Unlock()
}

func (f *fakeStore) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func newTestHub(store RecordQuerier) *Hub {
	return NewHub(store, slog.New(slog.NewTextHandler(io.Discard, nil)), time.UTC)
}

// collector records snapshots and lets the test wait for the n-th one.
type collector struct {
	mu    sync.Mutex
	snaps []Snapshot
	ch    chan struct{}
}

func newCollector() *collector {
	return &collector{ch: make(chan struct{}, 100)}
}

func (c *collector) fn(s Snapshot) {
	c.mu.Lock()
	c.snaps = append(c.snaps, s)
	c.mu.Unlock()
	c.ch <- struct{}{}
}

func (c *collector) wait(t *testing.T) Snapshot {
	t.Helper()
	select {
	case <-c.ch:
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot delivered")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snaps[len(c.snaps)-1]
}

func (c *collector) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.snaps)
}

func TestHub_DeliversInitialAndChangedSnapshots(t *testing.T) {
	store := &fakeStore{}
	store.add(storage.Record{ID: "1", Operator: "Ali", Timestamp: time.Now()})
	hub := newTestHub(store)
	c := newCollector()

	sub := hub.Subscribe(context.Background(), Filter{Period: PeriodAll, Operator: AllOperators}, c.fn)
	defer sub.Unsubscribe()

	first := c.wait(t)
	require.NoError(t, first.Err)
	assert.Len(t, first.Records, 1)

	store.add(storage.Record{ID: "2", Operator: "Veli", Timestamp: time.Now()})
	hub.Notify()

	second := c.wait(t)
	require.Len(t, second.Records, 2)
	assert.Equal(t, "2", second.Records[0].ID, "snapshots stay newest first")
}

func TestHub_FilterBecomesQuery(t *testing.T) {
	store := &fakeStore{}
	hub := newTestHub(store)
	c := newCollector()

	sub := hub.Subscribe(context.Background(), Filter{Period: PeriodWeek, Operator: "Ali"}, c.fn)
	defer sub.Unsubscribe()
	c.wait(t)

	store.mu.Lock()
	defer store.mu.Unlock()
	require.NotEmpty(t, store.queries)
	q := store.queries[0]
	require.NotNil(t, q.Since)
	assert.Equal(t, time.Monday, q.Since.Weekday())
	assert.Equal(t, "Ali", q.Operator)
}

func TestHub_QueryFailureIsAnErrorSnapshot(t *testing.T) {
	store := &fakeStore{}
	store.setErr(errors.New("connection refused"))
	hub := newTestHub(store)
	c := newCollector()

	sub := hub.Subscribe(context.Background(), Filter{Period: PeriodAll}, c.fn)
	defer sub.Unsubscribe()

	snap := c.wait(t)
	assert.EqualError(t, snap.Err, "connection refused")
	assert.Nil(t, snap.Records)

	store.setErr(nil)
	hub.Notify()
	assert.NoError(t, c.wait(t).Err)
}

func TestSubscription_NoCallbackAfterUnsubscribe(t *testing.T) {
	store := &fakeStore{}
	hub := newTestHub(store)
	c := newCollector()

	sub := hub.Subscribe(context.Background(), Filter{Period: PeriodAll}, c.fn)
	c.wait(t)

	sub.Unsubscribe()
	assert.Equal(t, 0, hub.Len())

	store.add(storage.Record{ID: "late", Timestamp: time.Now()})
	hub.Notify()

	select {
	case <-sub.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("delivery goroutine did not stop")
	}
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, c.count())

	// idempotent
	sub.Unsubscribe()
}

func TestSubscription_ContextCancelStops(t *testing.T) {
	hub := newTestHub(&fakeStore{})
	c := newCollector()
	ctx, cancel := context.WithCancel(context.Background())

	sub := hub.Subscribe(ctx, Filter{Period: PeriodAll}, c.fn)
	c.wait(t)
	cancel()

	select {
	case <-sub.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("subscription survived its context")
	}
	assert.Equal(t, 0, hub.Len())
}

func TestHolder_ReplacesSubscription(t *testing.T) {
	store := &fakeStore{}
	store.add(storage.Record{ID: "1", Operator: "Ali", Timestamp: time.Now()})
	store.add(storage.Record{ID: "2", Operator: "Veli", Timestamp: time.Now()})
	hub := newTestHub(store)
	c := newCollector()

	h := NewHolder(hub, c.fn)
	h.Set(context.Background(), Filter{Period: PeriodAll, Operator: AllOperators})
	assert.Len(t, c.wait(t).Records, 2)

	h.Set(context.Background(), Filter{Period: PeriodAll, Operator: "Veli"})
	snap := c.wait(t)
	require.Len(t, snap.Records, 1)
	assert.Equal(t, "2", snap.Records[0].ID)
	assert.Equal(t, 1, hub.Len(), "old subscription torn down")

	f, ok := h.Filter()
	require.True(t, ok)
	assert.Equal(t, "Veli", f.Operator)

	// same filter keeps the live subscription
	h.Set(context.Background(), Filter{Period: PeriodAll, Operator: "Veli"})
	assert.Equal(t, 1, hub.Len())

	h.Close()
	assert.Equal(t, 0, hub.Len())
	_, ok = h.Filter()
	assert.False(t, ok)
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("", "")
	require.NoError(t, err)
	assert.Equal(t, Filter{Period: PeriodAll, Operator: AllOperators}, f)
	assert.Equal(t, storage.RecordQuery{}, f.Query(time.Now()))

	f, err = ParseFilter("month", "Ali")
	require.NoError(t, err)
	q := f.Query(time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC))
	require.NotNil(t, q.Since)
	assert.True(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC).Equal(*q.Since))
	assert.Equal(t, "Ali", q.Operator)

	_, err = ParseFilter("decade", "")
	assert.Error(t, err)
}

func TestPeriod_Since(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	_, ok := PeriodAll.Since(now)
	assert.False(t, ok)

	day, _ := PeriodDay.Since(now)
	week, _ := PeriodWeek.Since(now)
	year, _ := PeriodYear.Since(now)
	assert.True(t, time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC).Equal(day))
	assert.True(t, time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC).Equal(week))
	assert.True(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Equal(year))
}
