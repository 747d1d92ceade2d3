package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"production-tracker/internal/service/reference"
	"production-tracker/internal/storage"
)

type ReferenceLoader interface {
	Load(ctx context.Context, kind storage.ReferenceKind) ([]storage.ReferenceEntry, error)
	LoadAll(ctx context.Context) (storage.ReferenceLists, error)
}

// GetAllReference returns the five lists the record forms need.
func GetAllReference(log *slog.Logger, loader ReferenceLoader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.reference.GetAllReference"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		lists, err := loader.LoadAll(ctx)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to load reference lists")
			http.Error(w, "Failed to load reference lists", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, lists)
	}
}

func GetReference(log *slog.Logger, loader ReferenceLoader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.reference.GetReference"

		kind := storage.ReferenceKind(chi.URLParam(r, "kind"))

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		entries, err := loader.Load(ctx, kind)
		if err != nil {
			if errors.Is(err, reference.ErrUnknownKind) {
				http.Error(w, "Unknown reference list", http.StatusNotFound)
				return
			}
			log.With(slog.String("op", op), slog.String("kind", string(kind)), slog.String("error", err.Error())).Error("Failed to load reference list")
			http.Error(w, "Failed to load reference list", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, entries)
	}
}
