// Package calendar computes local-time period boundaries. Weeks start on Monday.
package calendar

import (
	"time"

	"github.com/jinzhu/now"
)

// boundaries are taken in the location of the argument
var monday = &now.Config{WeekStartDay: time.Monday}

func StartOfDay(t time.Time) time.Time {
	return monday.With(t).BeginningOfDay()
}

func StartOfWeek(t time.Time) time.Time {
	return monday.With(t).BeginningOfWeek()
}

func StartOfMonth(t time.Time) time.Time {
	return monday.With(t).BeginningOfMonth()
}

func StartOfYear(t time.Time) time.Time {
	return monday.With(t).BeginningOfYear()
}

// DayKey identifies the calendar date of t in its own location.
func DayKey(t time.Time) string {
	return t.Format(time.DateOnly)
}
