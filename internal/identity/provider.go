// Package identity signs principals in and resolves them, together with their
// authorization role, from a session token.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"production-tracker/internal/storage"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type AccountStore interface {
	CreateAccount(ctx context.Context, acc storage.Account, profile storage.User) error
	AccountByEmail(ctx context.Context, email string) (storage.Account, error)
}

type Session struct {
	Token     string    `json:"token"`
	UID       string    `json:"uid"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Provider struct {
	log      *slog.Logger
	store    AccountStore
	tokens   *TokenManager
	validate *validator.Validate
}

func NewProvider(log *slog.Logger, store AccountStore, tokens *TokenManager) *Provider {
	return &Provider{
		log:      log,
		store:    store,
		tokens:   tokens,
		validate: NewValidator(),
	}
}

// SignUp creates the identity and its operator profile, then signs it in.
func (p *Provider) SignUp(ctx context.Context, in SignUpInput) (Session, error) {
	const op = "identity.Provider.SignUp"

	in.Email = normalizeEmail(in.Email)
	if err := validateSignUp(p.validate, in); err != nil {
		return Session{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, fmt.Errorf("%s: hash password: %w", op, err)
	}

	uid := uuid.NewString()
	acc := storage.Account{UID: uid, Email: in.Email, PasswordHash: string(hash)}
	profile := storage.User{UID: uid, Email: in.Email, Role: storage.RoleOperator, Active: true}

	if err := p.store.CreateAccount(ctx, acc, profile); err != nil {
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}

	p.log.Info("account registered", slog.String("uid", uid))

	return p.session(uid, in.Email)
}

func (p *Provider) SignIn(ctx context.Context, email, password string) (Session, error) {
	const op = "identity.Provider.SignIn"

	acc, err := p.store.AccountByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	return p.session(acc.UID, acc.Email)
}

// SignOut revokes the token. Unknown or expired tokens are ignored.
func (p *Provider) SignOut(token string) {
	claims, err := p.tokens.Parse(token)
	if err != nil {
		return
	}
	p.tokens.Revoke(claims)
}

func (p *Provider) session(uid, email string) (Session, error) {
	token, err := p.tokens.Issue(uid, email)
	if err != nil {
		return Session{}, err
	}

	return Session{
		Token:     token,
		UID:       uid,
		Email:     email,
		ExpiresAt: p.tokens.now().Add(p.tokens.ttl),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
