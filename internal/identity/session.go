package identity

import (
	"crypto/sha256"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/sessions"
)

const (
	sessionName = "tracker-session"
	sessionKey  = "token"
)

// Sessions keeps the JWT in a signed cookie for page navigation. API clients
// may send it as a bearer token instead.
type Sessions struct {
	store *sessions.CookieStore
}

func NewSessions(secret string, secure bool, maxAge time.Duration) *Sessions {
	key := sha256.Sum256([]byte(secret))

	store := sessions.NewCookieStore(key[:])
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}

	return &Sessions{store: store}
}

func (s *Sessions) Save(w http.ResponseWriter, r *http.Request, token string) error {
	sess, err := s.store.Get(r, sessionName)
	if err != nil {
		// a cookie signed with an old key still yields a usable new session
		sess, _ = s.store.New(r, sessionName)
	}
	sess.Values[sessionKey] = token
	return sess.Save(r, w)
}

func (s *Sessions) Clear(w http.ResponseWriter, r *http.Request) error {
	sess, _ := s.store.Get(r, sessionName)
	if sess == nil {
		return nil
	}
	sess.Options.MaxAge = -1
	delete(sess.Values, sessionKey)
	return sess.Save(r, w)
}

// Token extracts the session token from the Authorization header or the cookie.
func (s *Sessions) Token(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}

	sess, err := s.store.Get(r, sessionName)
	if err != nil {
		return ""
	}
	token, _ := sess.Values[sessionKey].(string)
	return token
}
