package logout

import (
	"log/slog"
	"net/http"
)

type SignOuter interface {
	SignOut(token string)
}

type SessionStore interface {
	Token(r *http.Request) string
	Clear(w http.ResponseWriter, r *http.Request) error
}

func Logout(log *slog.Logger, provider SignOuter, sessions SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.auth.Logout"

		if token := sessions.Token(r); token != "" {
			provider.SignOut(token)
		}

		if err := sessions.Clear(w, r); err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Warn("Failed to clear session cookie")
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
