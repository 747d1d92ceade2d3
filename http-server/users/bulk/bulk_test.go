package bulk

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"production-tracker/internal/service/users"
	"production-tracker/internal/storage"
)

type MockBulkUpdater struct {
	mock.Mock
}

func (m *MockBulkUpdater) BulkSetRole(ctx context.Context, uids []string, role storage.Role) (users.BulkResult, error) {
	args := m.Called(ctx, uids, role)
	return args.Get(0).(users.BulkResult), args.Error(1)
}

func (m *MockBulkUpdater) BulkDelete(ctx context.Context, uids []string) (users.BulkResult, error) {
	args := m.Called(ctx, uids)
	return args.Get(0).(users.BulkResult), args.Error(1)
}

func post(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/users/bulk", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rr, req)
	return rr
}

// Частичный сбой: ответ 200 и список неудачных
func TestBulkRole_PartialFailure(t *testing.T) {
	updater := new(MockBulkUpdater)
	updater.On("BulkSetRole", mock.Anything, []string{"u-1", "u-2"}, storage.RoleSupervisor).
		Return(users.BulkResult{
			Succeeded: []string{"u-1"},
			Failed:    []users.Failure{{UID: "u-2", Error: "not found"}},
		}, nil)

	rr := post(BulkRole(slog.Default(), updater), `{"uids":["u-1","u-2"],"role":"supervisor"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var res users.BulkResult
	require.NoError(t, render.DecodeJSON(rr.Body, &res))
	assert.Equal(t, []string{"u-1"}, res.Succeeded)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "u-2", res.Failed[0].UID)
}

func TestBulkDelete_Errors(t *testing.T) {
	updater := new(MockBulkUpdater)
	updater.On("BulkDelete", mock.Anything, []string(nil)).
		Return(users.BulkResult{}, fmt.Errorf("x: %w", users.ErrNoSelection))
	updater.On("BulkDelete", mock.Anything, []string{"u-1"}).
		Return(users.BulkResult{}, errors.New("boom"))

	assert.Equal(t, http.StatusBadRequest, post(BulkDelete(slog.Default(), updater), `{}`).Code)
	assert.Equal(t, http.StatusInternalServerError, post(BulkDelete(slog.Default(), updater), `{"uids":["u-1"]}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(BulkDelete(slog.Default(), updater), `nope`).Code)
}

func TestBulkRole_UnknownRole(t *testing.T) {
	updater := new(MockBulkUpdater)
	updater.On("BulkSetRole", mock.Anything, []string{"u-1"}, storage.Role("boss")).
		Return(users.BulkResult{}, fmt.Errorf("x: %w", users.ErrUnknownRole))

	assert.Equal(t, http.StatusBadRequest, post(BulkRole(slog.Default(), updater), `{"uids":["u-1"],"role":"boss"}`).Code)
}
