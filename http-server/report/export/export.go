package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"production-tracker/internal/live"
	"production-tracker/internal/service/report"
	"production-tracker/internal/storage"
)

type RecordLister interface {
	List(ctx context.Context, filter live.Filter) ([]storage.Record, error)
}

type Exporter interface {
	Export(format report.Format, records []storage.Record) (report.File, error)
}

// ExportRecords downloads the list view's records as csv, pdf or excel.
// It takes the same ?period= and ?operator= as the list.
func ExportRecords(log *slog.Logger, records RecordLister, exporter Exporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.report.ExportRecords"

		format := report.Format(chi.URLParam(r, "format"))

		filter, err := live.ParseFilter(r.URL.Query().Get("period"), r.URL.Query().Get("operator"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		list, err := records.List(ctx, filter)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to load records")
			http.Error(w, "Failed to load records", http.StatusInternalServerError)
			return
		}

		file, err := exporter.Export(format, list)
		if err != nil {
			if errors.Is(err, report.ErrUnknownFormat) {
				http.Error(w, "Unknown export format", http.StatusNotFound)
				return
			}
			log.With(slog.String("op", op), slog.String("format", string(format)), slog.String("error", err.Error())).Error("Failed to generate report")
			http.Error(w, "Failed to generate report", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", file.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
		w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(file.Data); err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Warn("Failed to write report")
		}
	}
}
