// Package remind decides when to nudge the owners: history-derived
// reminders with an idempotence check, schedule-derived daily reminders,
// and the one-shot follow-up after a feeding.
package remind

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/corso/puplog/internal/model"
	"github.com/corso/puplog/internal/sched"
	"github.com/corso/puplog/internal/stats"
	"github.com/corso/puplog/internal/store"
)

// Tunables shared by both strategies.
const (
	// HistoryDays is the trailing window used to learn an action's
	// average clock time.
	HistoryDays = 5

	// The trigger window: a history-derived reminder may fire between 6
	// and 10 minutes past the learned average. Narrow on purpose, so a
	// 5-minute poll lands in it at most twice and the fired-set plus the
	// has-today check keep it to once.
	triggerFromMin = 6
	triggerToMin   = 10

	// Offsets for schedule-derived reminders relative to each meal time.
	feedLeadMin = 5
	walkLeadMin = 70

	// FeedFollowUpDelay is the one-shot delay after a feeding record.
	FeedFollowUpDelay = 4 * time.Minute
)

// historyActions are the actions watched by the history-derived strategy.
var historyActions = []model.Action{model.Feed, model.Walk}

// Engine evaluates reminder conditions against the event store.
type Engine struct {
	events   store.EventStore
	settings store.SettingsStore
	users    []int64
	notify   func(user int64, text string)
	poll     time.Duration

	mu    sync.Mutex
	fired map[string]string // reminder key -> day it last fired
}

// New returns an Engine notifying the given users. poll is the interval
// Tick is driven at; it bounds the schedule-derived firing window.
func New(events store.EventStore, settings store.SettingsStore, users []int64, poll time.Duration, notify func(user int64, text string)) *Engine {
	return &Engine{
		events:   events,
		settings: settings,
		users:    users,
		notify:   notify,
		poll:     poll,
		fired:    make(map[string]string),
	}
}

// Tick evaluates both reminder strategies at the given instant. It is
// safe to call from a timer goroutine.
func (e *Engine) Tick(ctx context.Context, now time.Time) {
	e.tickHistory(ctx, now)
	e.tickSchedule(ctx, now)
}

func (e *Engine) tickHistory(ctx context.Context, now time.Time) {
	recs, err := e.events.Since(ctx, now.AddDate(0, 0, -HistoryDays))
	if err != nil {
		slog.Warn("reminder poll: reading events", "err", err)
		return
	}

	for _, action := range historyActions {
		avg, ok := stats.AverageMinutes(recs, action, HistoryDays, now)
		if !ok {
			// No history yet: skip silently, try again tomorrow.
			continue
		}
		delta := model.MinuteOfDay(now) - avg
		if delta < triggerFromMin || delta > triggerToMin {
			continue
		}
		done, err := e.events.HasToday(ctx, action, now)
		if err != nil {
			slog.Warn("reminder poll: has-today check", "action", action, "err", err)
			continue
		}
		if done || !e.markFired("history/"+string(action), now) {
			continue
		}
		text := model.Emoji[action] + " Time for " + strings.ToLower(string(action)) + "!\n" +
			"Usually around " + model.FormatClock(avg) + ", now " + now.Format(model.ClockLayout)
		e.broadcast(text)
	}
}

func (e *Engine) tickSchedule(ctx context.Context, now time.Time) {
	set := e.settings.Settings(ctx)
	pollMin := int(e.poll / time.Minute)
	if pollMin < 1 {
		pollMin = 1
	}
	nowMin := model.MinuteOfDay(now)

	for _, meal := range set.Meals {
		at, err := model.ParseClock(meal.At)
		if err != nil {
			slog.Warn("reminder poll: bad meal time", "meal", meal.Name, "at", meal.At)
			continue
		}
		targets := []struct {
			key, text string
			at        int
		}{
			{"feed/" + meal.Name, model.Emoji[model.Feed] + " " + meal.Name + " is coming up at " + meal.At, at - feedLeadMin},
			{"walk/" + meal.Name, model.Emoji[model.Walk] + " Time for a walk before " + meal.Name, at - walkLeadMin},
		}
		for _, t := range targets {
			due := (t.at + 24*60) % (24 * 60)
			if nowMin < due || nowMin >= due+pollMin {
				continue
			}
			if !e.markFired(t.key, now) {
				continue
			}
			e.broadcast(t.text)
		}
	}
}

// AfterFeed schedules the one-shot elimination-walk nudge for the caller
// who just logged a feeding.
func (e *Engine) AfterFeed(ctx context.Context, user int64) {
	sched.RunOnce(ctx, FeedFollowUpDelay, func(time.Time) {
		e.notify(user, model.Emoji[model.BioWalk]+" Time for an elimination walk!")
	})
}

// markFired records that key fired on now's day. Returns false when it
// already fired that day.
func (e *Engine) markFired(key string, now time.Time) bool {
	day := now.Format("2006-01-02")
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.fired[key] == day {
		return false
	}
	e.fired[key] = day
	return true
}

func (e *Engine) broadcast(text string) {
	for _, u := range e.users {
		e.notify(u, text)
	}
}
