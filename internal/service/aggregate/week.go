package aggregate

import (
	"encoding/json"
	"sort"
	"time"

	"production-tracker/internal/calendar"
	"production-tracker/internal/storage"
)

// WeekBucket holds the records of one Monday-starting week. Key is the
// epoch millisecond of that Monday's local midnight.
type WeekBucket struct {
	Key     int64            `json:"key"`
	Start   time.Time        `json:"start"`
	Records []storage.Record `json:"records"`
}

// WeekGroups is a read-only mapping from week key to records, ordered with the
// most recent week first.
type WeekGroups struct {
	buckets []WeekBucket
	index   map[int64]int
}

// WeekKey returns the bucket key for t, computed in loc.
func WeekKey(t time.Time, loc *time.Location) int64 {
	return calendar.StartOfWeek(t.In(loc)).UnixMilli()
}

// GroupByWeek buckets records by week. Relative input order is kept inside each bucket.
func GroupByWeek(records []storage.Record, loc *time.Location) WeekGroups {
	g := WeekGroups{index: make(map[int64]int)}

	for _, r := range records {
		start := calendar.StartOfWeek(r.Timestamp.In(loc))
		key := start.UnixMilli()

		i, ok := g.index[key]
		if !ok {
			i = len(g.buckets)
			g.index[key] = i
			g.buckets = append(g.buckets, WeekBucket{Key: key, Start: start})
		}
		g.buckets[i].Records = append(g.buckets[i].Records, r)
	}

	sort.Slice(g.buckets, func(i, j int) bool {
		return g.buckets[i].Key > g.buckets[j].Key
	})
	for i, b := range g.buckets {
		g.index[b.Key] = i
	}

	return g
}

func (g WeekGroups) Len() int {
	return len(g.buckets)
}

// Count is the number of records over all buckets.
func (g WeekGroups) Count() int {
	n := 0
	for _, b := range g.buckets {
		n += len(b.Records)
	}
	return n
}

// Buckets returns a copy of the buckets, most recent first.
func (g WeekGroups) Buckets() []WeekBucket {
	out := make([]WeekBucket, len(g.buckets))
	for i, b := range g.buckets {
		out[i] = WeekBucket{
			Key:     b.Key,
			Start:   b.Start,
			Records: append([]storage.Record(nil), b.Records...),
		}
	}
	return out
}

func (g WeekGroups) Lookup(key int64) ([]storage.Record, bool) {
	i, ok := g.index[key]
	if !ok {
		return nil, false
	}
	return append([]storage.Record(nil), g.buckets[i].Records...), true
}

func (g WeekGroups) MarshalJSON() ([]byte, error) {
	if g.buckets == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(g.buckets)
}
