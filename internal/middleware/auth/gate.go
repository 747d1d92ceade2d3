// Package auth decides, per request, whether the caller may reach a route.
package auth

import (
	"context"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/render"

	"production-tracker/internal/identity"
	"production-tracker/internal/storage"
)

type Decision int

const (
	Loading Decision = iota
	Unauthenticated
	Authorized
	Forbidden
)

func (d Decision) String() string {
	switch d {
	case Loading:
		return "loading"
	case Unauthenticated:
		return "unauthenticated"
	case Authorized:
		return "authorized"
	case Forbidden:
		return "forbidden"
	default:
		return "decision(" + strconv.Itoa(int(d)) + ")"
	}
}

// Rule describes what a route needs. An empty AllowedRoles admits any role,
// including none.
type Rule struct {
	RequirePrincipal bool
	AllowedRoles     []storage.Role
}

var (
	Public = Rule{}
	Signed = Rule{RequirePrincipal: true}
	Staff  = Rule{RequirePrincipal: true, AllowedRoles: []storage.Role{storage.RoleSupervisor, storage.RoleAdmin}}
	// StaffOnly skips the principal check: a caller without one has no role
	// and lands on the dashboard, which in turn sends them to the login page.
	StaffOnly = Rule{AllowedRoles: []storage.Role{storage.RoleSupervisor, storage.RoleAdmin}}
)

const (
	LoginPath   = "/login"
	LandingPath = "/dashboard"

	// RetryAfterSeconds is sent with 503 while the caller's role is still loading.
	RetryAfterSeconds = 1
)

func Evaluate(st identity.State, rule Rule) Decision {
	if st.Loading {
		return Loading
	}
	if rule.RequirePrincipal && !st.Authenticated() {
		return Unauthenticated
	}
	if len(rule.AllowedRoles) > 0 && !slices.Contains(rule.AllowedRoles, st.Role) {
		return Forbidden
	}
	return Authorized
}

type StateResolver interface {
	Resolve(ctx context.Context, token string) identity.State
}

type TokenSource interface {
	Token(r *http.Request) string
}

type ctxKey struct{}

// Resolve attaches a freshly resolved identity.State to every request.
func Resolve(resolver StateResolver, tokens TokenSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			st := resolver.Resolve(r.Context(), tokens.Token(r))
			next.ServeHTTP(w, r.WithContext(WithState(r.Context(), st)))
		})
	}
}

// Checker runs a rule again for a request that outlives its first check, such
// as an event stream. Every call resolves the caller afresh.
type Checker struct {
	resolver StateResolver
	tokens   TokenSource
}

func NewChecker(resolver StateResolver, tokens TokenSource) *Checker {
	return &Checker{resolver: resolver, tokens: tokens}
}

func (c *Checker) Check(r *http.Request, rule Rule) Decision {
	return Evaluate(c.resolver.Resolve(r.Context(), c.tokens.Token(r)), rule)
}

func WithState(ctx context.Context, st identity.State) context.Context {
	return context.WithValue(ctx, ctxKey{}, st)
}

// StateFromContext returns the zero State when Resolve did not run.
func StateFromContext(ctx context.Context) identity.State {
	st, _ := ctx.Value(ctxKey{}).(identity.State)
	return st
}

// Page guards HTML routes: callers are redirected instead of seeing an error.
func Page(rule Rule) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch Evaluate(StateFromContext(r.Context()), rule) {
			case Authorized:
				next.ServeHTTP(w, r)
			case Unauthenticated:
				http.Redirect(w, r, LoginPath, http.StatusFound)
			case Forbidden:
				http.Redirect(w, r, LandingPath, http.StatusFound)
			default:
				w.Header().Set("Retry-After", strconv.Itoa(RetryAfterSeconds))
				http.Error(w, "Yükleniyor...", http.StatusServiceUnavailable)
			}
		})
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// API guards JSON routes with status codes.
func API(rule Rule) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := Evaluate(StateFromContext(r.Context()), rule)
			switch decision {
			case Authorized:
				next.ServeHTTP(w, r)
				return
			case Unauthenticated:
				render.Status(r, http.StatusUnauthorized)
			case Forbidden:
				render.Status(r, http.StatusForbidden)
			default:
				w.Header().Set("Retry-After", strconv.Itoa(RetryAfterSeconds))
				render.Status(r, http.StatusServiceUnavailable)
			}
			render.JSON(w, r, errorResponse{Error: decision.String()})
		})
	}
}
