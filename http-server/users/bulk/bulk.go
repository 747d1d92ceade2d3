package bulk

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"production-tracker/internal/service/users"
	"production-tracker/internal/storage"
)

type BulkUpdater interface {
	BulkSetRole(ctx context.Context, uids []string, role storage.Role) (users.BulkResult, error)
	BulkDelete(ctx context.Context, uids []string) (users.BulkResult, error)
}

type Request struct {
	UIDs []string     `json:"uids"`
	Role storage.Role `json:"role,omitempty"`
}

// BulkRole answers 200 with a per-user outcome even when some users failed.
func BulkRole(log *slog.Logger, updater BulkUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.users.BulkRole"

		var req Request
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		res, err := updater.BulkSetRole(ctx, req.UIDs, req.Role)
		respond(w, r, log.With(slog.String("op", op)), res, err)
	}
}

func BulkDelete(log *slog.Logger, updater BulkUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.users.BulkDelete"

		var req Request
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		res, err := updater.BulkDelete(ctx, req.UIDs)
		respond(w, r, log.With(slog.String("op", op)), res, err)
	}
}

func respond(w http.ResponseWriter, r *http.Request, log *slog.Logger, res users.BulkResult, err error) {
	switch {
	case err == nil:
		if len(res.Failed) > 0 {
			log.Warn("Bulk operation partially failed", slog.Int("succeeded", len(res.Succeeded)), slog.Int("failed", len(res.Failed)))
		}
		render.JSON(w, r, res)
	case errors.Is(err, users.ErrNoSelection):
		http.Error(w, "Select at least one user", http.StatusBadRequest)
	case errors.Is(err, users.ErrUnknownRole):
		http.Error(w, "Role must be operator, supervisor or admin", http.StatusBadRequest)
	default:
		log.Error("Bulk operation failed", slog.String("error", err.Error()))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
