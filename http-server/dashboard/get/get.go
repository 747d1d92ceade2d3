package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"production-tracker/internal/live"
	"production-tracker/internal/service/aggregate"
	"production-tracker/internal/storage"
)

type RecordLister interface {
	List(ctx context.Context, filter live.Filter) ([]storage.Record, error)
}

// GetDashboard computes the dashboard once over all records. Days are
// evaluated in loc.
func GetDashboard(log *slog.Logger, records RecordLister, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.dashboard.GetDashboard"

		q := r.URL.Query()
		opts, err := aggregate.ParseOptions(q.Get("part"), q.Get("days"), q.Get("latest"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		all, err := records.List(ctx, live.Filter{Period: live.PeriodAll, Operator: live.AllOperators})
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to load records")
			http.Error(w, "Failed to load records", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, aggregate.Summarize(all, time.Now().In(loc), opts))
	}
}
