package users

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"production-tracker/internal/storage"
)

type MockUserStorage struct {
	mock.Mock
}

func (m *MockUserStorage) ListUsers(ctx context.Context) ([]storage.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.User), args.Error(1)
}

func (m *MockUserStorage) UpdateUserRole(ctx context.Context, uid string, role storage.Role) error {
	return m.Called(ctx, uid, role).Error(0)
}

func (m *MockUserStorage) SetUserActive(ctx context.Context, uid string, active bool) error {
	return m.Called(ctx, uid, active).Error(0)
}

func (m *MockUserStorage) DeleteUser(ctx context.Context, uid string) error {
	return m.Called(ctx, uid).Error(0)
}

func newService(store UserStorage) *Service {
	return NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), store)
}

func emails(us []storage.User) []string {
	out := make([]string, 0, len(us))
	for _, u := range us {
		out = append(out, u.Email)
	}
	return out
}

func TestService_List(t *testing.T) {
	store := new(MockUserStorage)
	store.On("ListUsers", mock.Anything).Return([]storage.User{
		{UID: "3", Email: "zeynep@example.com", Role: storage.RoleOperator},
		{UID: "1", Email: "Ali@example.com", Role: storage.RoleAdmin},
		{UID: "2", Email: "mehmet@example.com", Role: storage.RoleSupervisor},
	}, nil)

	svc := newService(store)

	got, err := svc.List(context.Background(), ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ali@example.com", "mehmet@example.com", "zeynep@example.com"}, emails(got))

	got, err = svc.List(context.Background(), ListOptions{Sort: SortByRole, Desc: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"mehmet@example.com", "zeynep@example.com", "Ali@example.com"}, emails(got))

	got, err = svc.List(context.Background(), ListOptions{Search: "ALI"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ali@example.com"}, emails(got))

	got, err = svc.List(context.Background(), ListOptions{Search: "oper"})
	require.NoError(t, err)
	assert.Equal(t, []string{"zeynep@example.com"}, emails(got))

	_, err = svc.List(context.Background(), ListOptions{Sort: "uid"})
	assert.ErrorIs(t, err, ErrUnknownSort)
}

func TestService_SetRole(t *testing.T) {
	store := new(MockUserStorage)
	store.On("UpdateUserRole", mock.Anything, "u-1", storage.RoleSupervisor).Return(nil)

	svc := newService(store)

	require.NoError(t, svc.SetRole(context.Background(), "u-1", storage.RoleSupervisor))

	err := svc.SetRole(context.Background(), "u-1", "root")
	assert.ErrorIs(t, err, ErrUnknownRole)
	store.AssertNumberOfCalls(t, "UpdateUserRole", 1)
}

// Тест: сбой одного элемента не останавливает массовую операцию
func TestService_BulkDeleteContinuesPastFailures(t *testing.T) {
	store := new(MockUserStorage)
	store.On("DeleteUser", mock.Anything, "a").Return(nil)
	store.On("DeleteUser", mock.Anything, "b").Return(storage.ErrNotFound)
	store.On("DeleteUser", mock.Anything, "c").Return(nil)

	res, err := newService(store).BulkDelete(context.Background(), []string{"a", "b", "a", " ", "c"})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "c"}, res.Succeeded)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "b", res.Failed[0].UID)
	store.AssertNumberOfCalls(t, "DeleteUser", 3)
}

func TestService_BulkSetRole(t *testing.T) {
	store := new(MockUserStorage)
	store.On("UpdateUserRole", mock.Anything, "a", storage.RoleAdmin).Return(errors.New("lock wait timeout"))
	store.On("UpdateUserRole", mock.Anything, "b", storage.RoleAdmin).Return(nil)

	svc := newService(store)

	res, err := svc.BulkSetRole(context.Background(), []string{"a", "b"}, storage.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, res.Succeeded)
	assert.Equal(t, "a", res.Failed[0].UID)

	_, err = svc.BulkSetRole(context.Background(), []string{"a"}, "boss")
	assert.ErrorIs(t, err, ErrUnknownRole)

	_, err = svc.BulkSetRole(context.Background(), nil, storage.RoleAdmin)
	assert.ErrorIs(t, err, ErrNoSelection)
}

func TestService_BulkStopsOnCancelledContext(t *testing.T) {
	store := new(MockUserStorage)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := newService(store).BulkDelete(ctx, []string{"a", "b"})
	require.NoError(t, err)
	assert.Empty(t, res.Succeeded)
	assert.Len(t, res.Failed, 2)
	store.AssertNotCalled(t, "DeleteUser", mock.Anything, mock.Anything)
}
