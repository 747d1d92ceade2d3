package get

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

type UserLister interface {
	List(ctx context.Context, opts users.ListOptions) ([]storage.User, error)
}

// GetUsers lists profiles. Query: ?search=, ?sort=email|role, ?dir=asc|desc.
func GetUsers(log *slog.Logger, lister UserLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.users.GetUsers"

		q := r.URL.Query()
		dir := q.Get("dir")
		if dir != "" && dir != "asc" && dir != "desc" {
			http.Error(w, "dir must be asc or desc", http.StatusBadRequest)
			return
		}

		opts := users.ListOptions{
			Search: q.Get("search"),
			Sort:   users.SortField(q.Get("sort")),
			Desc:   dir == "desc",
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := lister.List(ctx, opts)
		if err != nil {
			if errors.Is(err, users.ErrUnknownSort) {
				http.Error(w, "sort must be email or role", http.StatusBadRequest)
				return
			}
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to list users")
			http.Error(w, "Failed to list users", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, list)
	}
}
