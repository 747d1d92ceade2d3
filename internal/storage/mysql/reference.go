package mysql

import (
	"context"
	"fmt"

	"production-tracker/internal/storage"
)

// ListReference reads one lookup table ordered by name.
func (s *Storage) ListReference(ctx context.Context, kind storage.ReferenceKind) ([]storage.ReferenceEntry, error) {
	const op = "storage.mysql.ListReference"

	// the table name comes from a closed set, never from the request
	if !kind.Valid() {
		return nil, fmt.Errorf("%s: unknown reference kind %q", op, kind)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM `+string(kind)+` ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query %s: %w", op, kind, err)
	}
	defer rows.Close()

	entries := make([]storage.ReferenceEntry, 0)
	for rows.Next() {
		var e storage.ReferenceEntry
		if err := rows.Scan(&e.ID, &e.Name); err != nil {
			return nil, fmt.Errorf("%s: failed to scan %s: %w", op, kind, err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration: %w", op, err)
	}

	return entries, nil
}
