package login

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"production-tracker/internal/identity"
)

type SignInner interface {
	SignIn(ctx context.Context, email, password string) (identity.Session, error)
}

type SessionSaver interface {
	Save(w http.ResponseWriter, r *http.Request, token string) error
}

type Request struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Login(log *slog.Logger, provider SignInner, sessions SessionSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.auth.Login"

		var req Request
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.Email == "" || req.Password == "" {
			http.Error(w, "Email and password are required", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		sess, err := provider.SignIn(ctx, req.Email, req.Password)
		if err != nil {
			if errors.Is(err, identity.ErrInvalidCredentials) {
				log.With(slog.String("op", op)).Info("Rejected sign in")
				http.Error(w, "Invalid email or password", http.StatusUnauthorized)
				return
			}
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to sign in")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		if err := sessions.Save(w, r, sess.Token); err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to save session cookie")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, sess)
	}
}
