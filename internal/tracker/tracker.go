// Package tracker implements toggle start/stop semantics for interval
// actions on top of persisted open sessions.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/corso/puplog/internal/model"
	"github.com/corso/puplog/internal/store"
)

// StaleAfter bounds how old an open session may grow before a close
// discards it instead of producing a nonsense interval. Sessions survive
// restarts, so a forgotten toggle from last week must not pair with today.
const StaleAfter = 12 * time.Hour

// Result describes the outcome of a toggle.
type Result struct {
	// Started is true when a new interval was opened.
	Started bool
	// Stale is true when the open session was too old and was discarded.
	Stale bool
	// Start is the interval's opening time.
	Start time.Time
	// Duration is the closed interval's length (zero unless closed).
	Duration time.Duration
}

// Tracker pairs toggle presses into start/end record pairs.
type Tracker struct {
	events   store.EventStore
	sessions store.SessionStore
}

// New returns a Tracker writing through the given stores.
func New(events store.EventStore, sessions store.SessionStore) *Tracker {
	return &Tracker{events: events, sessions: sessions}
}

// Toggle opens an interval for (user, action) when none is open, and
// otherwise closes the open one, appending the paired start/end records
// in a single store write.
func (t *Tracker) Toggle(ctx context.Context, user int64, action model.Action, now time.Time) (Result, error) {
	start, err := t.sessions.TakeSession(ctx, user, action)
	if errors.Is(err, store.ErrNotFound) {
		if err := t.sessions.OpenSession(ctx, user, action, now); err != nil {
			return Result{}, fmt.Errorf("open %s: %w", action, err)
		}
		return Result{Started: true, Start: now}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("take %s session: %w", action, err)
	}

	if now.Sub(start) > StaleAfter {
		return Result{Stale: true, Start: start}, nil
	}

	_, err = t.events.Append(ctx,
		model.Record{Action: action, Time: start, User: user, Note: model.NoteStart},
		model.Record{Action: action, Time: now, User: user, Note: model.NoteEnd},
	)
	if err != nil {
		return Result{}, fmt.Errorf("close %s: %w", action, err)
	}
	return Result{Start: start, Duration: now.Sub(start)}, nil
}
