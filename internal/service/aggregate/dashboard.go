package aggregate

import (
	"fmt"
	"strconv"
	"time"

	"production-tracker/internal/storage"
)

const (
	DefaultSeriesDays = 7
	DefaultLatest     = 5
)

type Options struct {
	// Part narrows the shift totals and the daily series. Empty means all parts.
	Part   string
	Days   int
	Latest int
}

type Dashboard struct {
	TotalCount     int              `json:"total_count"`
	TodayCount     int              `json:"today_count"`
	TodayQuantity  int64            `json:"today_quantity"`
	TopPart        *Top             `json:"top_part"`
	TopOperator    *Top             `json:"top_operator"`
	TopSupervisor  *Top             `json:"top_supervisor"`
	Latest         []storage.Record `json:"latest"`
	ShiftTotals    ShiftTotals      `json:"shift_totals"`
	OperatorTotals []NameTotal      `json:"operator_totals"`
	Series         []DayPoint       `json:"series"`
	GeneratedAt    time.Time        `json:"generated_at"`
}

// ParseOptions reads dashboard options from text. Empty values keep the defaults.
func ParseOptions(part, days, latest string) (Options, error) {
	opts := Options{Part: part}

	var err error
	if opts.Days, err = positive("days", days); err != nil {
		return Options{}, err
	}
	if opts.Latest, err = positive("latest", latest); err != nil {
		return Options{}, err
	}
	return opts, nil
}

func positive(name, raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	return n, nil
}

// Summarize builds every dashboard card from one newest-first snapshot.
func Summarize(records []storage.Record, now time.Time, opts Options) Dashboard {
	if opts.Days < 1 {
		opts.Days = DefaultSeriesDays
	}
	if opts.Latest < 1 {
		opts.Latest = DefaultLatest
	}

	today := TodayRecords(records, now)

	latest := records
	if len(latest) > opts.Latest {
		latest = latest[:opts.Latest]
	}

	return Dashboard{
		TotalCount:     TotalCount(records),
		TodayCount:     TotalCount(today),
		TodayQuantity:  DailyTotalQuantity(today),
		TopPart:        topPtr(TopBy(today, ByPart)),
		TopOperator:    topPtr(TopBy(today, ByOperator)),
		TopSupervisor:  topPtr(TopBy(today, BySupervisor)),
		Latest:         append([]storage.Record{}, latest...),
		ShiftTotals:    TotalsByShift(records, opts.Part),
		OperatorTotals: TotalsByOperator(records),
		Series:         DailySeries(records, now, opts.Days, opts.Part),
		GeneratedAt:    now,
	}
}

func topPtr(t Top, ok bool) *Top {
	if !ok {
		return nil
	}
	return &t
}
