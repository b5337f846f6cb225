package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/corso/puplog/internal/model"
)

// Settings implements SettingsStore. A missing or unreadable row degrades
// to the default schedule with a warning instead of an error.
func (s *SQLiteStore) Settings(ctx context.Context) model.Settings {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM settings WHERE id = 1`).Scan(&data)
	if err == sql.ErrNoRows {
		return model.DefaultSettings()
	}
	if err != nil {
		slog.Warn("reading settings, using defaults", "err", err)
		return model.DefaultSettings()
	}

	var out model.Settings
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		slog.Warn("corrupt settings row, using defaults", "err", err)
		return model.DefaultSettings()
	}
	if out.FeedingsPerDay <= 0 || len(out.Meals) == 0 {
		return model.DefaultSettings()
	}
	return out
}

// SaveSettings implements SettingsStore.
func (s *SQLiteStore) SaveSettings(ctx context.Context, in model.Settings) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO settings (id, data) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data`, string(data))
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
