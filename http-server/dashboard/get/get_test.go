package get

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"production-tracker/internal/live"
	"production-tracker/internal/service/aggregate"
	"production-tracker/internal/storage"
)

type MockRecordLister struct {
	mock.Mock
}

func (m *MockRecordLister) List(ctx context.Context, filter live.Filter) ([]storage.Record, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.Record), args.Error(1)
}

func TestGetDashboard(t *testing.T) {
	now := time.Now()
	lister := new(MockRecordLister)
	lister.On("List", mock.Anything, live.Filter{Period: live.PeriodAll, Operator: live.AllOperators}).
		Return([]storage.Record{
			{ID: "r-3", Part: "A", Quantity: 2, Operator: "Ali", Shift: storage.ShiftAfternoon, Timestamp: now},
			{ID: "r-2", Part: "B", Quantity: 3, Operator: "Ayşe", Shift: storage.ShiftMorning, Timestamp: now},
			{ID: "r-1", Part: "A", Quantity: 5, Operator: "Ali", Shift: storage.ShiftMorning, Timestamp: now},
		}, nil)

	rr := httptest.NewRecorder()
	GetDashboard(slog.Default(), lister, time.Local).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/dashboard?days=14&part=A", nil))

	require.Equal(t, http.StatusOK, rr.Code)

	var dash aggregate.Dashboard
	require.NoError(t, render.DecodeJSON(rr.Body, &dash))
	assert.Equal(t, 3, dash.TotalCount)
	require.NotNil(t, dash.TopPart)
	assert.Equal(t, "A", dash.TopPart.Key)
	assert.Equal(t, int64(7), dash.TopPart.Total)
	assert.Equal(t, int64(5), dash.ShiftTotals.Get(storage.ShiftMorning))
	assert.Len(t, dash.Series, 14)
}

func TestGetDashboard_BadDays(t *testing.T) {
	lister := new(MockRecordLister)

	rr := httptest.NewRecorder()
	GetDashboard(slog.Default(), lister, time.UTC).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/dashboard?days=-2", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	lister.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}
