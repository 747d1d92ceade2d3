package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"production-tracker/internal/storage"
)

const recordColumns = `id, part, quantity, machine, operator, supervisor, shift, recorded_by, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (storage.Record, error) {
	var r storage.Record
	err := row.Scan(&r.ID, &r.Part, &r.Quantity, &r.Machine, &r.Operator, &r.Supervisor, &r.Shift, &r.User, &r.Timestamp)
	return r, err
}

// CreateRecord inserts a record stamped with the server clock and returns it as stored.
func (s *Storage) CreateRecord(ctx context.Context, user string, in storage.RecordInput) (storage.Record, error) {
	const op = "storage.mysql.CreateRecord"

	id := uuid.NewString()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO records (id, part, quantity, machine, operator, supervisor, shift, recorded_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP(6))`,
		id, in.Part, in.Quantity, in.Machine, in.Operator, in.Supervisor, in.Shift, user,
	)
	if err != nil {
		return storage.Record{}, fmt.Errorf("%s: failed to insert record: %w", op, err)
	}

	rec, err := s.GetRecord(ctx, id)
	if err != nil {
		return storage.Record{}, fmt.Errorf("%s: failed to read back record id=%s: %w", op, id, err)
	}

	return rec, nil
}

func (s *Storage) GetRecord(ctx context.Context, id string) (storage.Record, error) {
	const op = "storage.mysql.GetRecord"

	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM records WHERE id = ?`, id)

	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Record{}, fmt.Errorf("%s: record id=%s: %w", op, id, storage.ErrNotFound)
		}
		return storage.Record{}, fmt.Errorf("%s: failed to scan record id=%s: %w", op, id, err)
	}

	return rec, nil
}

// UpdateRecord replaces every editable field. Timestamp and author stay as written.
func (s *Storage) UpdateRecord(ctx context.Context, id string, in storage.RecordInput) (storage.Record, error) {
	const op = "storage.mysql.UpdateRecord"

	res, err := s.db.ExecContext(ctx, `
		UPDATE records
		SET part = ?, quantity = ?, machine = ?, operator = ?, supervisor = ?, shift = ?
		WHERE id = ?`,
		in.Part, in.Quantity, in.Machine, in.Operator, in.Supervisor, in.Shift, id,
	)
	if err != nil {
		return storage.Record{}, fmt.Errorf("%s: failed to update record id=%s: %w", op, id, err)
	}

	if err := expectRows(res); err != nil {
		return storage.Record{}, fmt.Errorf("%s: record id=%s: %w", op, id, err)
	}

	return s.GetRecord(ctx, id)
}

func (s *Storage) DeleteRecord(ctx context.Context, id string) error {
	const op = "storage.mysql.DeleteRecord"

	res, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%s: failed to delete record id=%s: %w", op, id, err)
	}

	if err := expectRows(res); err != nil {
		return fmt.Errorf("%s: record id=%s: %w", op, id, err)
	}

	return nil
}

// ListRecords returns every matching record, newest first.
func (s *Storage) ListRecords(ctx context.Context, q storage.RecordQuery) ([]storage.Record, error) {
	const op = "storage.mysql.ListRecords"

	var (
		where []string
		args  []any
	)

	if q.Since != nil {
		where = append(where, "created_at >= ?")
		args = append(args, q.Since.UTC())
	}
	if q.Operator != "" {
		where = append(where, "operator = ?")
		args = append(args, q.Operator)
	}

	query := `SELECT ` + recordColumns + ` FROM records`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query records: %w", op, err)
	}
	defer rows.Close()

	records := make([]storage.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to scan record: %w", op, err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration: %w", op, err)
	}

	return records, nil
}

func expectRows(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
