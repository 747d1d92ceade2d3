package save

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"production-tracker/internal/middleware/auth"
	"production-tracker/internal/service/records"
	"production-tracker/internal/storage"
)

type RecordCreator interface {
	Create(ctx context.Context, user string, in storage.RecordInput) (storage.Record, error)
}

// SaveRecord stores a record for the signed-in principal. The timestamp is
// assigned by the server.
func SaveRecord(log *slog.Logger, creator RecordCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.records.SaveRecord"

		st := auth.StateFromContext(r.Context())
		if !st.Authenticated() {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var req storage.RecordInput
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.With(slog.String("op", op)).Warn("Invalid request body", slog.String("error", err.Error()))
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		rec, err := creator.Create(ctx, st.Principal.Email, req)
		if err != nil {
			if errors.Is(err, records.ErrInvalidRecord) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to save record")
			http.Error(w, "Failed to save record", http.StatusInternalServerError)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, rec)
	}
}
