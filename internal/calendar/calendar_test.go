package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func istanbul(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Istanbul")
	require.NoError(t, err)
	return loc
}

func TestStartOfWeek_Monday(t *testing.T) {
	loc := istanbul(t)

	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"sunday belongs to previous monday", time.Date(2026, 10, 18, 23, 59, 0, 0, loc), time.Date(2026, 10, 12, 0, 0, 0, 0, loc)},
		{"monday is its own start", time.Date(2026, 10, 12, 0, 0, 0, 0, loc), time.Date(2026, 10, 12, 0, 0, 0, 0, loc)},
		{"wednesday", time.Date(2026, 10, 14, 13, 5, 0, 0, loc), time.Date(2026, 10, 12, 0, 0, 0, 0, loc)},
		{"crosses year", time.Date(2027, 1, 1, 8, 0, 0, 0, loc), time.Date(2026, 12, 28, 0, 0, 0, 0, loc)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(StartOfWeek(tt.in)), "got %s", StartOfWeek(tt.in))
		})
	}
}

func TestStartOfWeek_UsesLocalDate(t *testing.T) {
	loc := istanbul(t)

	// Sunday 22:30 UTC is already Monday 01:30 in Istanbul
	instant := time.Date(2026, 10, 18, 22, 30, 0, 0, time.UTC)

	assert.True(t, time.Date(2026, 10, 19, 0, 0, 0, 0, loc).Equal(StartOfWeek(instant.In(loc))))
	assert.True(t, time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC).Equal(StartOfWeek(instant)))
}

func TestStartOfMonthAndYear(t *testing.T) {
	loc := istanbul(t)
	now := time.Date(2026, 10, 18, 15, 0, 0, 0, loc)

	assert.True(t, time.Date(2026, 10, 1, 0, 0, 0, 0, loc).Equal(StartOfMonth(now)))
	assert.True(t, time.Date(2026, 1, 1, 0, 0, 0, 0, loc).Equal(StartOfYear(now)))
	assert.Equal(t, "2026-10-18", DayKey(now))
}

func TestStartOfDay_KeepsLocation(t *testing.T) {
	loc := istanbul(t)
	in := time.Date(2026, 3, 29, 23, 59, 59, 0, loc)

	got := StartOfDay(in)
	assert.True(t, time.Date(2026, 3, 29, 0, 0, 0, 0, loc).Equal(got))
	assert.Equal(t, loc, got.Location())
}
