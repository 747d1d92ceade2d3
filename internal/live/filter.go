package live

import (
	"fmt"
	"time"

	"production-tracker/internal/calendar"
	"production-tracker/internal/storage"
)

type Period string

const (
	PeriodAll   Period = "all"
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// AllOperators disables the operator predicate.
const AllOperators = "all"

func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case "":
		return PeriodAll, nil
	case PeriodAll, PeriodDay, PeriodWeek, PeriodMonth, PeriodYear:
		return p, nil
	default:
		return "", fmt.Errorf("unknown period %q", s)
	}
}

// Since returns the inclusive lower bound of the period in now's location.
// The second value is false for PeriodAll.
func (p Period) Since(now time.Time) (time.Time, bool) {
	switch p {
	case PeriodDay:
		return calendar.StartOfDay(now), true
	case PeriodWeek:
		return calendar.StartOfWeek(now), true
	case PeriodMonth:
		return calendar.StartOfMonth(now), true
	case PeriodYear:
		return calendar.StartOfYear(now), true
	default:
		return time.Time{}, false
	}
}

type Filter struct {
	Period   Period `json:"period"`
	Operator string `json:"operator"`
}

// ParseFilter reads the list view's query values. Empty values mean "all".
func ParseFilter(period, operator string) (Filter, error) {
	p, err := ParsePeriod(period)
	if err != nil {
		return Filter{}, err
	}
	if operator == "" {
		operator = AllOperators
	}
	return Filter{Period: p, Operator: operator}, nil
}

// Query turns the filter into a store query evaluated at now.
func (f Filter) Query(now time.Time) storage.RecordQuery {
	var q storage.RecordQuery
	if since, ok := f.Period.Since(now); ok {
		q.Since = &since
	}
	if f.Operator != "" && f.Operator != AllOperators {
		q.Operator = f.Operator
	}
	return q
}
