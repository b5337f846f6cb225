package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/corso/puplog/internal/model"
)

// Commands implements CommandStore, ordered by name.
func (s *SQLiteStore) Commands(ctx context.Context) ([]model.Command, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, description FROM commands ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("query commands: %w", err)
	}
	defer rows.Close()

	var cmds []model.Command
	for rows.Next() {
		var c model.Command
		if err := rows.Scan(&c.Name, &c.Description); err != nil {
			return nil, err
		}
		cmds = append(cmds, c)
	}
	return cmds, rows.Err()
}

// GetCommand implements CommandStore.
func (s *SQLiteStore) GetCommand(ctx context.Context, name string) (model.Command, error) {
	var c model.Command
	err := s.db.QueryRowContext(ctx,
		`SELECT name, description FROM commands WHERE name = ?`, name).Scan(&c.Name, &c.Description)
	if err == sql.ErrNoRows {
		return model.Command{}, ErrNotFound
	}
	if err != nil {
		return model.Command{}, fmt.Errorf("query command: %w", err)
	}
	return c, nil
}

// UpsertCommand implements CommandStore.
func (s *SQLiteStore) UpsertCommand(ctx context.Context, c model.Command) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO commands (name, description) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET description = excluded.description`,
		c.Name, c.Description)
	if err != nil {
		return fmt.Errorf("upsert command: %w", err)
	}
	return nil
}

// DeleteCommand implements CommandStore.
func (s *SQLiteStore) DeleteCommand(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM commands WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete command: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
