package register

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"production-tracker/internal/identity"
	"production-tracker/internal/storage"
)

type SignUpper interface {
	SignUp(ctx context.Context, in identity.SignUpInput) (identity.Session, error)
}

type SessionSaver interface {
	Save(w http.ResponseWriter, r *http.Request, token string) error
}

func Register(log *slog.Logger, provider SignUpper, sessions SessionSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.auth.Register"

		var req identity.SignUpInput
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.With(slog.String("op", op)).Warn("Invalid request body", slog.String("error", err.Error()))
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		sess, err := provider.SignUp(ctx, req)
		if err != nil {
			switch {
			case errors.Is(err, identity.ErrInvalidEmail),
				errors.Is(err, identity.ErrWeakPassword),
				errors.Is(err, identity.ErrPasswordMismatch):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, storage.ErrEmailTaken):
				http.Error(w, "Email already registered", http.StatusConflict)
			default:
				log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to register")
				http.Error(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		if err := sessions.Save(w, r, sess.Token); err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to save session cookie")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, sess)
	}
}
