// Package store provides SQLite persistence for activity records,
// feeding settings, learned commands and open interval sessions.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/corso/puplog/internal/model"
)

// ErrNotFound is returned when a record, command or session does not exist.
var ErrNotFound = errors.New("not found")

// Options tunes retention and rotation.
type Options struct {
	// RetentionDays is the horizon applied on every append (default 120).
	RetentionDays int
	// RotateDays is the shorter horizon applied when the database file
	// exceeds RotateBytes (defaults 20 days, 10 MiB).
	RotateDays  int
	RotateBytes int64
}

func (o Options) withDefaults() Options {
	if o.RetentionDays <= 0 {
		o.RetentionDays = 120
	}
	if o.RotateDays <= 0 {
		o.RotateDays = 20
	}
	if o.RotateBytes <= 0 {
		o.RotateBytes = 10 << 20
	}
	return o
}

// EventStore is the record persistence surface consumed by the bot,
// the flows and the reminder engine.
type EventStore interface {
	// Append inserts the given records in one transaction, minting ids
	// for records without one, and trims entries past the retention
	// horizon. Returns the records with ids filled in.
	Append(ctx context.Context, recs ...model.Record) ([]model.Record, error)

	// Since returns records with time >= cutoff, oldest first.
	Since(ctx context.Context, cutoff time.Time) ([]model.Record, error)

	// Recent returns up to limit records for an action, newest first.
	Recent(ctx context.Context, action model.Action, limit int) ([]model.Record, error)

	// SetTime rewrites the timestamp of the record with the given id.
	SetTime(ctx context.Context, id string, t time.Time) error

	// Delete removes the record with the given id.
	Delete(ctx context.Context, id string) error

	// HasToday reports whether any record of the action exists on now's day.
	HasToday(ctx context.Context, action model.Action, now time.Time) (bool, error)

	// CheckRotation re-trims to the short horizon when the database file
	// has outgrown the size threshold.
	CheckRotation(ctx context.Context) error
}

// SessionStore persists open interval sessions across restarts.
type SessionStore interface {
	// OpenSession records an open interval for (user, action).
	OpenSession(ctx context.Context, user int64, action model.Action, start time.Time) error

	// TakeSession removes and returns the open interval for (user, action).
	// Returns ErrNotFound when none is open.
	TakeSession(ctx context.Context, user int64, action model.Action) (time.Time, error)
}

// SettingsStore persists the feeding settings.
type SettingsStore interface {
	// Settings returns the stored settings, or defaults when missing
	// or unreadable.
	Settings(ctx context.Context) model.Settings

	SaveSettings(ctx context.Context, s model.Settings) error
}

// CommandStore persists learned commands.
type CommandStore interface {
	Commands(ctx context.Context) ([]model.Command, error)
	GetCommand(ctx context.Context, name string) (model.Command, error)
	UpsertCommand(ctx context.Context, c model.Command) error
	DeleteCommand(ctx context.Context, name string) error
}
