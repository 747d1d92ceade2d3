package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"production-tracker/internal/live"
	"production-tracker/internal/storage"
)

type RecordReader interface {
	Get(ctx context.Context, id string) (storage.Record, error)
	List(ctx context.Context, filter live.Filter) ([]storage.Record, error)
}

type ListResponse struct {
	Filter  live.Filter      `json:"filter"`
	Total   int              `json:"total"`
	Records []storage.Record `json:"records"`
}

// GetRecords lists records newest first, filtered by ?period= and ?operator=.
func GetRecords(log *slog.Logger, records RecordReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.records.GetRecords"

		filter, err := live.ParseFilter(r.URL.Query().Get("period"), r.URL.Query().Get("operator"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := records.List(ctx, filter)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to list records")
			http.Error(w, "Failed to list records", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, ListResponse{Filter: filter, Total: len(list), Records: list})
	}
}

func GetRecord(log *slog.Logger, records RecordReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.records.GetRecord"

		id := chi.URLParam(r, "id")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		rec, err := records.Get(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "Record not found", http.StatusNotFound)
				return
			}
			log.With(slog.String("op", op), slog.String("id", id), slog.String("error", err.Error())).Error("Failed to fetch record")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, rec)
	}
}
