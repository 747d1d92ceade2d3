package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"production-tracker/internal/service/records"
	"production-tracker/internal/storage"
)

type RecordUpdater interface {
	Update(ctx context.Context, id string, in storage.RecordInput) (storage.Record, error)
}

func UpdateRecord(log *slog.Logger, updater RecordUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.records.UpdateRecord"

		id := chi.URLParam(r, "id")

		var req storage.RecordInput
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		rec, err := updater.Update(ctx, id, req)
		if err != nil {
			switch {
			case errors.Is(err, records.ErrInvalidRecord):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, storage.ErrNotFound):
				http.Error(w, "Record not found", http.StatusNotFound)
			default:
				log.With(slog.String("op", op), slog.String("id", id), slog.String("error", err.Error())).Error("Failed to update record")
				http.Error(w, "Failed to update record", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, r, rec)
	}
}
