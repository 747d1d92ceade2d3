// Package aggregate derives dashboard metrics and report groupings from a
// record snapshot. Every function is pure and linear in the input size, so it
// is recomputed from scratch on each snapshot and each filter change.
package aggregate

import (
	"sort"
	"time"

	"production-tracker/internal/calendar"
	"production-tracker/internal/storage"
)

// UnknownOperator groups records without an operator.
const UnknownOperator = "Unknown"

type KeyFunc func(storage.Record) string

func ByPart(r storage.Record) string       { return r.Part }
func ByOperator(r storage.Record) string   { return r.Operator }
func BySupervisor(r storage.Record) string { return r.Supervisor }

type Top struct {
	Key   string `json:"key"`
	Total int64  `json:"total"`
}

type NameTotal struct {
	Name  string `json:"name"`
	Total int64  `json:"total"`
}

type ShiftTotal struct {
	Shift storage.Shift `json:"shift"`
	Total int64         `json:"total"`
}

// ShiftTotals always holds the three canonical shifts in canonical order.
type ShiftTotals []ShiftTotal

func (s ShiftTotals) Get(shift storage.Shift) int64 {
	for _, st := range s {
		if st.Shift == shift {
			return st.Total
		}
	}
	return 0
}

func (s ShiftTotals) Sum() int64 {
	var sum int64
	for _, st := range s {
		sum += st.Total
	}
	return sum
}

type DayPoint struct {
	Date  time.Time `json:"date"`
	Label string    `json:"label"`
	Total int64     `json:"total"`
}

func TotalCount(records []storage.Record) int {
	return len(records)
}

// TodayRecords keeps the records stamped at or after local midnight of now.
func TodayRecords(records []storage.Record, now time.Time) []storage.Record {
	start := calendar.StartOfDay(now)

	today := make([]storage.Record, 0)
	for _, r := range records {
		if !r.Timestamp.Before(start) {
			today = append(today, r)
		}
	}
	return today
}

func DailyTotalQuantity(records []storage.Record) int64 {
	var sum int64
	for _, r := range records {
		sum += int64(r.Quantity)
	}
	return sum
}

// TopBy returns the key with the largest summed quantity. Ties go to the key
// seen first in the input.
func TopBy(records []storage.Record, key KeyFunc) (Top, bool) {
	totals := sumBy(records, key)
	if len(totals) == 0 {
		return Top{}, false
	}

	best := totals[0]
	for _, t := range totals[1:] {
		if t.Total > best.Total {
			best = t
		}
	}

	return Top{Key: best.Name, Total: best.Total}, true
}

// TotalsByShift sums quantities per shift, restricted to part when it is not empty.
func TotalsByShift(records []storage.Record, part string) ShiftTotals {
	sums := make(map[storage.Shift]int64, 3)
	for _, r := range records {
		if part != "" && r.Part != part {
			continue
		}
		sums[r.Shift] += int64(r.Quantity)
	}

	shifts := storage.Shifts()
	out := make(ShiftTotals, 0, len(shifts))
	for _, s := range shifts {
		out = append(out, ShiftTotal{Shift: s, Total: sums[s]})
	}
	return out
}

// TotalsByOperator sums quantities per operator, largest first.
func TotalsByOperator(records []storage.Record) []NameTotal {
	totals := sumBy(records, func(r storage.Record) string {
		if r.Operator == "" {
			return UnknownOperator
		}
		return r.Operator
	})

	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Total > totals[j].Total
	})
	return totals
}

// DailySeries returns one point per calendar day for the trailing days ending
// today, oldest first, zero filled.
func DailySeries(records []storage.Record, now time.Time, days int, part string) []DayPoint {
	if days < 1 {
		return nil
	}

	loc := now.Location()
	sums := make(map[string]int64)
	for _, r := range records {
		if part != "" && r.Part != part {
			continue
		}
		sums[calendar.DayKey(r.Timestamp.In(loc))] += int64(r.Quantity)
	}

	today := calendar.StartOfDay(now)
	series := make([]DayPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		series = append(series, DayPoint{
			Date:  day,
			Label: day.Format("02/01"),
			Total: sums[calendar.DayKey(day)],
		})
	}
	return series
}

// sumBy groups in first-encountered order.
func sumBy(records []storage.Record, key KeyFunc) []NameTotal {
	index := make(map[string]int)
	totals := make([]NameTotal, 0)

	for _, r := range records {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(totals)
			index[k] = i
			totals = append(totals, NameTotal{Name: k})
		}
		totals[i].Total += int64(r.Quantity)
	}
	return totals
}
