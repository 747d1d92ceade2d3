package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"production-tracker/internal/service/users"
	"production-tracker/internal/storage"
)

type UserUpdater interface {
	SetRole(ctx context.Context, uid string, role storage.Role) error
	SetActive(ctx context.Context, uid string, active bool) error
}

type RoleRequest struct {
	Role storage.Role `json:"role"`
}

type ActiveRequest struct {
	Active *bool `json:"active"`
}

func UpdateRole(log *slog.Logger, updater UserUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.users.UpdateRole"

		uid := chi.URLParam(r, "uid")

		var req RoleRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		err := updater.SetRole(ctx, uid, req.Role)
		if !writeError(w, log.With(slog.String("op", op), slog.String("uid", uid)), err) {
			w.WriteHeader(http.StatusNoContent)
		}
	}
}

func UpdateActive(log *slog.Logger, updater UserUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.users.UpdateActive"

		uid := chi.URLParam(r, "uid")

		var req ActiveRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil || req.Active == nil {
			http.Error(w, "Body must be {\"active\": true|false}", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		err := updater.SetActive(ctx, uid, *req.Active)
		if !writeError(w, log.With(slog.String("op", op), slog.String("uid", uid)), err) {
			w.WriteHeader(http.StatusNoContent)
		}
	}
}

// writeError reports whether err was written as a response.
func writeError(w http.ResponseWriter, log *slog.Logger, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, users.ErrUnknownRole):
		http.Error(w, "Role must be operator, supervisor or admin", http.StatusBadRequest)
	case errors.Is(err, storage.ErrNotFound):
		http.Error(w, "User not found", http.StatusNotFound)
	default:
		log.Error("Failed to update user", slog.String("error", err.Error()))
		http.Error(w, "Failed to update user", http.StatusInternalServerError)
	}
	return true
}
