package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/corso/puplog/internal/model"
)

// SQLiteStore implements the storage interfaces on a single SQLite database
// with one table per collection.
type SQLiteStore struct {
	db      *sql.DB
	path    string
	opts    Options
	entropy *rand.Rand

	mu sync.Mutex // serializes id minting and rotation
}

// NewSQLiteStore opens or creates the database at the given path.
func NewSQLiteStore(path string, opts Options) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		path:    path,
		opts:    opts.withDefaults(),
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id     TEXT PRIMARY KEY,
		action TEXT NOT NULL,
		time   TEXT NOT NULL,
		user   INTEGER NOT NULL,
		note   TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_events_time ON events(time);
	CREATE INDEX IF NOT EXISTS idx_events_action_time ON events(action, time DESC);

	CREATE TABLE IF NOT EXISTS settings (
		id   INTEGER PRIMARY KEY CHECK (id = 1),
		data TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS commands (
		name        TEXT PRIMARY KEY,
		description TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sessions (
		user   INTEGER NOT NULL,
		action TEXT NOT NULL,
		start  TEXT NOT NULL,
		PRIMARY KEY (user, action)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append implements EventStore. The inserts and the retention trim run in
// one transaction so two callers can never interleave a read-modify-write.
func (s *SQLiteStore) Append(ctx context.Context, recs ...model.Record) ([]model.Record, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	for i := range recs {
		if recs[i].ID == "" {
			recs[i].ID = s.newID()
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO events (id, action, time, user, note) VALUES (?, ?, ?, ?, ?)`,
			recs[i].ID, string(recs[i].Action), model.FormatTime(recs[i].Time),
			recs[i].User, string(recs[i].Note))
		if err != nil {
			return nil, fmt.Errorf("insert event: %w", err)
		}
	}

	cutoff := time.Now().AddDate(0, 0, -s.opts.RetentionDays)
	_, err = tx.ExecContext(ctx, `DELETE FROM events WHERE time < ?`, model.FormatTime(cutoff))
	if err != nil {
		return nil, fmt.Errorf("trim events: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return recs, nil
}

// Since implements EventStore.
func (s *SQLiteStore) Since(ctx context.Context, cutoff time.Time) ([]model.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, action, time, user, note FROM events WHERE time >= ? ORDER BY time ASC, id ASC`,
		model.FormatTime(cutoff))
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// Recent implements EventStore.
func (s *SQLiteStore) Recent(ctx context.Context, action model.Action, limit int) ([]model.Record, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, action, time, user, note FROM events WHERE action = ? ORDER BY time DESC, id DESC LIMIT ?`,
		string(action), limit)
	if err != nil {
		return nil, fmt.Errorf("query recent: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// SetTime implements EventStore.
func (s *SQLiteStore) SetTime(ctx context.Context, id string, t time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE events SET time = ? WHERE id = ?`, model.FormatTime(t), id)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete implements EventStore.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// HasToday implements EventStore.
func (s *SQLiteStore) HasToday(ctx context.Context, action model.Action, now time.Time) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM events WHERE action = ? AND time LIKE ? LIMIT 1`,
		string(action), now.Format("2006-01-02")+"%").Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query today: %w", err)
	}
	return true, nil
}

// CheckRotation implements EventStore.
func (s *SQLiteStore) CheckRotation(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := os.Stat(s.path)
	if err != nil || info.Size() <= s.opts.RotateBytes {
		return nil
	}

	cutoff := time.Now().AddDate(0, 0, -s.opts.RotateDays)
	if _, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE time < ?`, model.FormatTime(cutoff)); err != nil {
		return fmt.Errorf("rotate trim: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `VACUUM`); err != nil {
		return fmt.Errorf("rotate vacuum: %w", err)
	}
	slog.Info("rotated event log", "path", s.path, "size", info.Size(), "keep_days", s.opts.RotateDays)
	return nil
}

// Path returns the database file path (sent as the backup document).
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close closes the store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func scanRecords(rows *sql.Rows) ([]model.Record, error) {
	var recs []model.Record
	for rows.Next() {
		var (
			r              model.Record
			action, t, note string
		)
		if err := rows.Scan(&r.ID, &action, &t, &r.User, &note); err != nil {
			return nil, err
		}
		parsed, err := model.ParseTime(t)
		if err != nil {
			// A mangled row never blocks the user; skip it.
			slog.Warn("skipping unparseable event row", "id", r.ID, "time", t)
			continue
		}
		r.Action = model.Action(action)
		r.Time = parsed
		r.Note = model.Note(note)
		recs = append(recs, r)
	}
	return recs, rows.Err()
}
