package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/corso/puplog/internal/model"
)

// OpenSession implements SessionStore. The primary key on (user, action)
// enforces at most one open interval per pair.
func (s *SQLiteStore) OpenSession(ctx context.Context, user int64, action model.Action, start time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (user, action, start) VALUES (?, ?, ?)`,
		user, string(action), model.FormatTime(start))
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	return nil
}

// TakeSession implements SessionStore: the select and delete run in one
// transaction so a doubled button press cannot close the interval twice.
func (s *SQLiteStore) TakeSession(ctx context.Context, user int64, action model.Action) (time.Time, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return time.Time{}, err
	}
	defer tx.Rollback()

	var start string
	err = tx.QueryRowContext(ctx,
		`SELECT start FROM sessions WHERE user = ? AND action = ?`,
		user, string(action)).Scan(&start)
	if err == sql.ErrNoRows {
		return time.Time{}, ErrNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("query session: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM sessions WHERE user = ? AND action = ?`, user, string(action)); err != nil {
		return time.Time{}, fmt.Errorf("delete session: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return time.Time{}, err
	}

	t, err := model.ParseTime(start)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse session start: %w", err)
	}
	return t, nil
}
