package identity

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"production-tracker/internal/storage"
)

type ProfileStore interface {
	UserByUID(ctx context.Context, uid string) (storage.User, error)
}

type Principal struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// State is what the rest of the application knows about the caller. An empty
// Role means no profile: authenticated, but with no authorization.
type State struct {
	Principal *Principal
	Role      storage.Role
	Loading   bool
}

func (s State) Authenticated() bool {
	return s.Principal != nil
}

func (s State) MarshalJSON() ([]byte, error) {
	var role *storage.Role
	if s.Role != "" {
		role = &s.Role
	}
	return json.Marshal(struct {
		Principal *Principal    `json:"principal"`
		Role      *storage.Role `json:"role"`
		Loading   bool          `json:"loading"`
	}{s.Principal, role, s.Loading})
}

type Resolver struct {
	log      *slog.Logger
	tokens   *TokenManager
	profiles ProfileStore
	deadline time.Duration
}

func NewResolver(log *slog.Logger, tokens *TokenManager, profiles ProfileStore, deadline time.Duration) *Resolver {
	return &Resolver{
		log:      log,
		tokens:   tokens,
		profiles: profiles,
		deadline: deadline,
	}
}

// Resolve maps a session token to a State. It reports Loading when the
// profile lookup did not finish within the deadline.
func (r *Resolver) Resolve(ctx context.Context, token string) State {
	const op = "identity.Resolver.Resolve"

	if token == "" {
		return State{}
	}

	claims, err := r.tokens.Parse(token)
	if err != nil {
		r.log.Debug("session token rejected", slog.String("op", op), slog.String("error", err.Error()))
		return State{}
	}

	principal := &Principal{UID: claims.UID, Email: claims.Email}

	if r.deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.deadline)
		defer cancel()
	}

	profile, err := r.profiles.UserByUID(ctx, claims.UID)
	switch {
	case err == nil:
		return State{Principal: principal, Role: profile.Role}
	case errors.Is(err, storage.ErrNotFound):
		return State{Principal: principal}
	case errors.Is(err, context.DeadlineExceeded):
		r.log.Warn("profile lookup still pending", slog.String("op", op), slog.String("uid", claims.UID))
		return State{Loading: true}
	default:
		// no role is the least privileged answer
		r.log.Error("profile lookup failed", slog.String("op", op), slog.String("uid", claims.UID), slog.String("error", err.Error()))
		return State{Principal: principal}
	}
}
