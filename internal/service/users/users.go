package users

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"production-tracker/internal/storage"
)

var (
	ErrUnknownRole = errors.New("unknown role")
	ErrUnknownSort = errors.New("unknown sort field")
	ErrNoSelection = errors.New("no users selected")
)

type UserStorage interface {
	ListUsers(ctx context.Context) ([]storage.User, error)
	UpdateUserRole(ctx context.Context, uid string, role storage.Role) error
	SetUserActive(ctx context.Context, uid string, active bool) error
	DeleteUser(ctx context.Context, uid string) error
}

type SortField string

const (
	SortByEmail SortField = "email"
	SortByRole  SortField = "role"
)

type ListOptions struct {
	Search string
	Sort   SortField
	Desc   bool
}

// Failure is one id a bulk operation could not process.
type Failure struct {
	UID   string `json:"uid"`
	Error string `json:"error"`
}

// BulkResult reports every id of a bulk operation. Items already processed
// stay processed when a later one fails.
type BulkResult struct {
	Succeeded []string  `json:"succeeded"`
	Failed    []Failure `json:"failed"`
}

type Service struct {
	log     *slog.Logger
	storage UserStorage
}

func NewService(log *slog.Logger, storage UserStorage) *Service {
	return &Service{log: log, storage: storage}
}

// List filters by a case-insensitive substring of the email or role and sorts
// by the requested field.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]storage.User, error) {
	const op = "service.users.List"

	if opts.Sort == "" {
		opts.Sort = SortByEmail
	}
	if opts.Sort != SortByEmail && opts.Sort != SortByRole {
		return nil, fmt.Errorf("%s: %q: %w", op, opts.Sort, ErrUnknownSort)
	}

	all, err := s.storage.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	needle := strings.ToLower(strings.TrimSpace(opts.Search))
	out := make([]storage.User, 0, len(all))
	for _, u := range all {
		if needle == "" ||
			strings.Contains(strings.ToLower(u.Email), needle) ||
			strings.Contains(strings.ToLower(string(u.Role)), needle) {
			out = append(out, u)
		}
	}

	slices.SortStableFunc(out, func(a, b storage.User) int {
		var c int
		if opts.Sort == SortByRole {
			c = cmp.Compare(strings.ToLower(string(a.Role)), strings.ToLower(string(b.Role)))
		} else {
			c = cmp.Compare(strings.ToLower(a.Email), strings.ToLower(b.Email))
		}
		if opts.Desc {
			c = -c
		}
		if c == 0 {
			c = cmp.Compare(a.UID, b.UID)
		}
		return c
	})

	return out, nil
}

func (s *Service) SetRole(ctx context.Context, uid string, role storage.Role) error {
	const op = "service.users.SetRole"

	if !role.Known() {
		return fmt.Errorf("%s: %q: %w", op, role, ErrUnknownRole)
	}
	if err := s.storage.UpdateUserRole(ctx, uid, role); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("role changed", slog.String("uid", uid), slog.String("role", string(role)))
	return nil
}

func (s *Service) SetActive(ctx context.Context, uid string, active bool) error {
	const op = "service.users.SetActive"

	if err := s.storage.SetUserActive(ctx, uid, active); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("active flag changed", slog.String("uid", uid), slog.Bool("active", active))
	return nil
}

// Delete removes the profile only. The credentials stay, so the principal can
// still sign in but has no role.
func (s *Service) Delete(ctx context.Context, uid string) error {
	const op = "service.users.Delete"

	if err := s.storage.DeleteUser(ctx, uid); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("profile deleted", slog.String("uid", uid))
	return nil
}

func (s *Service) BulkSetRole(ctx context.Context, uids []string, role storage.Role) (BulkResult, error) {
	const op = "service.users.BulkSetRole"

	if !role.Known() {
		return BulkResult{}, fmt.Errorf("%s: %q: %w", op, role, ErrUnknownRole)
	}
	return s.each(ctx, op, uids, func(uid string) error {
		return s.SetRole(ctx, uid, role)
	})
}

func (s *Service) BulkDelete(ctx context.Context, uids []string) (BulkResult, error) {
	const op = "service.users.BulkDelete"

	return s.each(ctx, op, uids, func(uid string) error {
		return s.Delete(ctx, uid)
	})
}

// each applies fn to every distinct uid in order and keeps going on failure.
// Only a cancelled context stops it early; the remaining ids are reported as failed.
func (s *Service) each(ctx context.Context, op string, uids []string, fn func(uid string) error) (BulkResult, error) {
	uids = dedupe(uids)
	if len(uids) == 0 {
		return BulkResult{}, fmt.Errorf("%s: %w", op, ErrNoSelection)
	}

	res := BulkResult{Succeeded: []string{}, Failed: []Failure{}}
	for _, uid := range uids {
		if err := ctx.Err(); err != nil {
			res.Failed = append(res.Failed, Failure{UID: uid, Error: err.Error()})
			continue
		}
		if err := fn(uid); err != nil {
			s.log.Warn("bulk item failed", slog.String("op", op), slog.String("uid", uid), slog.String("error", err.Error()))
			res.Failed = append(res.Failed, Failure{UID: uid, Error: err.Error()})
			continue
		}
		res.Succeeded = append(res.Succeeded, uid)
	}

	return res, nil
}

func dedupe(uids []string) []string {
	seen := make(map[string]struct{}, len(uids))
	out := make([]string, 0, len(uids))
	for _, uid := range uids {
		uid = strings.TrimSpace(uid)
		if uid == "" {
			continue
		}
		if _, ok := seen[uid]; ok {
			continue
		}
		seen[uid] = struct{}{}
		out = append(out, uid)
	}
	return out
}
