package get

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"production-tracker/internal/service/reference"
	"production-tracker/internal/storage"
)

type MockReferenceLoader struct {
	mock.Mock
}

func (m *MockReferenceLoader) Load(ctx context.Context, kind storage.ReferenceKind) ([]storage.ReferenceEntry, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.ReferenceEntry), args.Error(1)
}

func (m *MockReferenceLoader) LoadAll(ctx context.Context) (storage.ReferenceLists, error) {
	args := m.Called(ctx)
	return args.Get(0).(storage.ReferenceLists), args.Error(1)
}

func router(loader ReferenceLoader) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/reference", GetAllReference(slog.Default(), loader))
	r.Get("/api/reference/{kind}", GetReference(slog.Default(), loader))
	return r
}

func TestGetAllReference(t *testing.T) {
	loader := new(MockReferenceLoader)
	loader.On("LoadAll", mock.Anything).Return(storage.ReferenceLists{
		Shifts: []storage.ReferenceEntry{{ID: "1", Name: "Sabah"}},
	}, nil)

	rr := httptest.NewRecorder()
	router(loader).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/reference", nil))

	require.Equal(t, http.StatusOK, rr.Code)

	var got storage.ReferenceLists
	require.NoError(t, render.DecodeJSON(rr.Body, &got))
	assert.Equal(t, "Sabah", got.Shifts[0].Name)
}

func TestGetReference(t *testing.T) {
	loader := new(MockReferenceLoader)
	loader.On("Load", mock.Anything, storage.KindMachines).Return([]storage.ReferenceEntry{{ID: "1", Name: "CNC-1"}}, nil)
	loader.On("Load", mock.Anything, storage.ReferenceKind("records")).
		Return(nil, fmt.Errorf("service.reference.Load: %w", reference.ErrUnknownKind))

	rr := httptest.NewRecorder()
	router(loader).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/reference/machines", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "CNC-1")

	rr = httptest.NewRecorder()
	router(loader).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/reference/records", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
