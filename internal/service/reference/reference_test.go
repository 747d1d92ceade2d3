package reference

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"production-tracker/internal/storage"
)

type MockReferenceStorage struct {
	mock.Mock
}

func (m *MockReferenceStorage) ListReference(ctx context.Context, kind storage.ReferenceKind) ([]storage.ReferenceEntry, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.ReferenceEntry), args.Error(1)
}

func entries(names ...string) []storage.ReferenceEntry {
	out := make([]storage.ReferenceEntry, 0, len(names))
	for _, n := range names {
		out = append(out, storage.ReferenceEntry{ID: "id-" + n, Name: n})
	}
	return out
}

func TestLoader_Load(t *testing.T) {
	store := new(MockReferenceStorage)
	store.On("ListReference", mock.Anything, storage.KindMachines).Return(entries("CNC-1", "CNC-2"), nil)
	store.On("ListReference", mock.Anything, storage.KindParts).Return(nil, nil)

	l := NewLoader(store)

	got, err := l.Load(context.Background(), storage.KindMachines)
	require.NoError(t, err)
	assert.Equal(t, []string{"CNC-1", "CNC-2"}, []string{got[0].Name, got[1].Name})

	got, err = l.Load(context.Background(), storage.KindParts)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	_, err = l.Load(context.Background(), "records")
	assert.ErrorIs(t, err, ErrUnknownKind)
	store.AssertNotCalled(t, "ListReference", mock.Anything, storage.ReferenceKind("records"))
}

func TestLoader_LoadAll(t *testing.T) {
	store := new(MockReferenceStorage)
	store.On("ListReference", mock.Anything, storage.KindParts).Return(entries("Flanş"), nil)
	store.On("ListReference", mock.Anything, storage.KindMachines).Return(entries("CNC-1"), nil)
	store.On("ListReference", mock.Anything, storage.KindOperators).Return(entries("Ali", "Ayşe"), nil)
	store.On("ListReference", mock.Anything, storage.KindSupervisors).Return(entries("Mehmet"), nil)
	store.On("ListReference", mock.Anything, storage.KindShifts).Return(entries("Akşam", "Sabah", "Öğle"), nil)

	lists, err := NewLoader(store).LoadAll(context.Background())
	require.NoError(t, err)

	assert.Len(t, lists.Parts, 1)
	assert.Len(t, lists.Machines, 1)
	assert.Len(t, lists.Operators, 2)
	assert.Len(t, lists.Supervisors, 1)
	assert.Len(t, lists.Shifts, 3)
	store.AssertExpectations(t)
}

func TestLoader_LoadAllFailure(t *testing.T) {
	store := new(MockReferenceStorage)
	store.On("ListReference", mock.Anything, storage.KindOperators).Return(nil, errors.New("connection reset"))
	store.On("ListReference", mock.Anything, mock.Anything).Return(entries("x"), nil)

	_, err := NewLoader(store).LoadAll(context.Background())
	assert.ErrorContains(t, err, "connection reset")
}
