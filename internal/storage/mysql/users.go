package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"production-tracker/internal/storage"
)

// CreateAccount stores credentials and the initial profile in one transaction.
func (s *Storage) CreateAccount(ctx context.Context, acc storage.Account, profile storage.User) error {
	const op = "storage.mysql.CreateAccount"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO accounts (uid, email, password_hash) VALUES (?, ?, ?)`,
		acc.UID, acc.Email, acc.PasswordHash,
	)
	if err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrEmailTaken)
		}
		return fmt.Errorf("%s: failed to insert account: %w", op, err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO users (uid, email, role, active) VALUES (?, ?, ?, ?)`,
		profile.UID, profile.Email, profile.Role, profile.Active,
	)
	if err != nil {
		return fmt.Errorf("%s: failed to insert profile uid=%s: %w", op, profile.UID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit transaction: %w", op, err)
	}

	return nil
}

func (s *Storage) AccountByEmail(ctx context.Context, email string) (storage.Account, error) {
	const op = "storage.mysql.AccountByEmail"

	var acc storage.Account
	err := s.db.QueryRowContext(ctx,
		`SELECT uid, email, password_hash, created_at FROM accounts WHERE email = ?`, email,
	).Scan(&acc.UID, &acc.Email, &acc.PasswordHash, &acc.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Account{}, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return storage.Account{}, fmt.Errorf("%s: failed to scan account: %w", op, err)
	}

	return acc, nil
}

func (s *Storage) UserByUID(ctx context.Context, uid string) (storage.User, error) {
	const op = "storage.mysql.UserByUID"

	var u storage.User
	err := s.db.QueryRowContext(ctx,
		`SELECT uid, email, role, active FROM users WHERE uid = ?`, uid,
	).Scan(&u.UID, &u.Email, &u.Role, &u.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.User{}, fmt.Errorf("%s: uid=%s: %w", op, uid, storage.ErrNotFound)
		}
		return storage.User{}, fmt.Errorf("%s: failed to scan profile uid=%s: %w", op, uid, err)
	}

	return u, nil
}

func (s *Storage) ListUsers(ctx context.Context) ([]storage.User, error) {
	const op = "storage.mysql.ListUsers"

	rows, err := s.db.QueryContext(ctx, `SELECT uid, email, role, active FROM users`)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query users: %w", op, err)
	}
	defer rows.Close()

	users := make([]storage.User, 0)
	for rows.Next() {
		var u storage.User
		if err := rows.Scan(&u.UID, &u.Email, &u.Role, &u.Active); err != nil {
			return nil, fmt.Errorf("%s: failed to scan user: %w", op, err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration: %w", op, err)
	}

	return users, nil
}

func (s *Storage) UpdateUserRole(ctx context.Context, uid string, role storage.Role) error {
	const op = "storage.mysql.UpdateUserRole"

	res, err := s.db.ExecContext(ctx, `UPDATE users SET role = ? WHERE uid = ?`, role, uid)
	if err != nil {
		return fmt.Errorf("%s: failed to update role uid=%s: %w", op, uid, err)
	}

	if err := expectRows(res); err != nil {
		return fmt.Errorf("%s: uid=%s: %w", op, uid, err)
	}

	return nil
}

func (s *Storage) SetUserActive(ctx context.Context, uid string, active bool) error {
	const op = "storage.mysql.SetUserActive"

	res, err := s.db.ExecContext(ctx, `UPDATE users SET active = ? WHERE uid = ?`, active, uid)
	if err != nil {
		return fmt.Errorf("%s: failed to update active uid=%s: %w", op, uid, err)
	}

	if err := expectRows(res); err != nil {
		return fmt.Errorf("%s: uid=%s: %w", op, uid, err)
	}

	return nil
}

// DeleteUser removes the profile only. The account can still sign in but
// resolves without a role.
func (s *Storage) DeleteUser(ctx context.Context, uid string) error {
	const op = "storage.mysql.DeleteUser"

	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE uid = ?`, uid)
	if err != nil {
		return fmt.Errorf("%s: failed to delete user uid=%s: %w", op, uid, err)
	}

	if err := expectRows(res); err != nil {
		return fmt.Errorf("%s: uid=%s: %w", op, uid, err)
	}

	return nil
}
