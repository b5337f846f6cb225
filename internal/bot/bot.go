// Package bot routes inbound messages: access gate first, then the
// caller's active flow, then the single-shot menu commands.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/corso/puplog/internal/flow"
	"github.com/corso/puplog/internal/model"
	"github.com/corso/puplog/internal/remind"
	"github.com/corso/puplog/internal/stats"
	"github.com/corso/puplog/internal/store"
	"github.com/corso/puplog/internal/tracker"
)

// Messenger is the outbound transport collaborator.
type Messenger interface {
	SendMessage(chat int64, text string, keyboard [][]string) error
	SendDocument(chat int64, path, caption string) error
}

// Bot wires the stores, tracker, flows and reminder engine behind one
// message handler.
type Bot struct {
	msgr     Messenger
	events   store.EventStore
	settings store.SettingsStore
	commands store.CommandStore
	track    *tracker.Tracker
	flows    *flow.Manager
	remind   *remind.Engine
	allowed  map[int64]bool
	dbPath   string
	now      func() time.Time
}

// Config collects the Bot's collaborators.
type Config struct {
	Messenger Messenger
	Events    store.EventStore
	Settings  store.SettingsStore
	Commands  store.CommandStore
	Tracker   *tracker.Tracker
	Reminder  *remind.Engine
	Allowed   []int64
	DBPath    string
	Now       func() time.Time
}

// New builds the router.
func New(cfg Config) *Bot {
	allowed := make(map[int64]bool, len(cfg.Allowed))
	for _, id := range cfg.Allowed {
		allowed[id] = true
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Bot{
		msgr:     cfg.Messenger,
		events:   cfg.Events,
		settings: cfg.Settings,
		commands: cfg.Commands,
		track:    cfg.Tracker,
		flows:    flow.NewManager(),
		remind:   cfg.Reminder,
		allowed:  allowed,
		dbPath:   cfg.DBPath,
		now:      now,
	}
}

func (b *Bot) deps() flow.Deps {
	return flow.Deps{
		Events:   b.events,
		Settings: b.settings,
		Commands: b.commands,
		Now:      b.now,
	}
}

// HandleMessage processes one inbound (caller, text) pair.
func (b *Bot) HandleMessage(ctx context.Context, user int64, text string) {
	if !b.allowed[user] {
		b.send(user, "⛔ Access denied.", nil)
		return
	}
	text = strings.TrimSpace(text)

	// An active flow takes routing priority over everything else,
	// including flow-starting buttons.
	if reply, handled, err := b.flows.Handle(ctx, user, text); handled {
		if err != nil {
			slog.Error("flow step failed", "user", user, "err", err)
			b.send(user, "Something went wrong, flow aborted.", MainMenu)
			return
		}
		b.sendReply(user, reply)
		return
	}

	switch {
	case text == "/start":
		b.send(user, "Hi! I keep track of the puppy's routine 🐶", MainMenu)
	case strings.HasPrefix(text, "/last"):
		b.slashLast(ctx, user, text)
	case flow.IsCancel(text):
		b.send(user, "Nothing to cancel.", MainMenu)

	case text == buttonSleep:
		b.toggle(ctx, user, model.Sleep)
	case text == buttonWalk:
		b.toggle(ctx, user, model.Walk)
	case text == buttonBioWalk:
		b.toggle(ctx, user, model.BioWalk)

	case text == buttonFeed:
		b.instant(ctx, user, model.Feed)
	case text == buttonPlay:
		b.instant(ctx, user, model.Play)

	case text == buttonStats:
		b.send(user, "Pick a period:", statsMenu)
	case text == period2 || text == period5 || text == period10:
		days, _ := strconv.Atoi(strings.Fields(text)[0])
		b.sendStats(ctx, user, days)

	case text == buttonBackup:
		if err := b.msgr.SendDocument(user, b.dbPath, "📦 Backup"); err != nil {
			slog.Error("backup send failed", "user", user, "err", err)
		}

	case text == buttonToilet:
		h, reply := flow.NewToilet(b.deps(), user)
		b.startFlow(user, h, reply)
	case text == buttonManual:
		h, reply := flow.NewPostfact(b.deps(), user)
		b.startFlow(user, h, reply)
	case text == buttonEdit:
		h, reply := flow.NewEdit(b.deps(), user)
		b.startFlow(user, h, reply)
	case text == buttonLast:
		h, reply := flow.NewLast(b.deps(), user)
		b.startFlow(user, h, reply)
	case text == buttonCommands:
		h, reply := flow.NewCommands(b.deps(), user)
		b.startFlow(user, h, reply)
	case text == buttonSchedule:
		h, reply := flow.NewSchedule(ctx, b.deps(), user)
		b.startFlow(user, h, reply)
	case text == buttonFeedings:
		h, reply := flow.NewFeedings(ctx, b.deps(), user)
		b.startFlow(user, h, reply)

	default:
		b.send(user, "Pick an action from the menu.", MainMenu)
	}
}

func (b *Bot) startFlow(user int64, h flow.Handler, reply flow.Reply) {
	b.flows.Start(user, h)
	b.sendReply(user, reply)
}

// toggle starts or stops an interval action.
func (b *Bot) toggle(ctx context.Context, user int64, action model.Action) {
	res, err := b.track.Toggle(ctx, user, action, b.now())
	if err != nil {
		slog.Error("toggle failed", "user", user, "action", action, "err", err)
		b.send(user, "Something went wrong, try again.", MainMenu)
		return
	}
	emoji := model.Emoji[action]
	switch {
	case res.Started:
		b.send(user, fmt.Sprintf("%s %s started.", emoji, action), MainMenu)
	case res.Stale:
		b.send(user, fmt.Sprintf("%s An old session from %s was discarded. Press again to start fresh.",
			emoji, model.FormatTime(res.Start)), MainMenu)
	default:
		mins := int(res.Duration / time.Minute)
		b.send(user, fmt.Sprintf("%s %s finished: %s", emoji, action, model.FormatDuration(mins)), MainMenu)
	}
}

// instant records an instantaneous action at now.
func (b *Bot) instant(ctx context.Context, user int64, action model.Action) {
	if err := b.events.CheckRotation(ctx); err != nil {
		slog.Warn("rotation check failed", "err", err)
	}
	now := b.now()
	if _, err := b.events.Append(ctx, model.Record{Action: action, Time: now, User: user}); err != nil {
		slog.Error("append failed", "user", user, "action", action, "err", err)
		b.send(user, "Something went wrong, try again.", MainMenu)
		return
	}
	b.send(user, fmt.Sprintf("✅ %s %s at %s", model.Emoji[action], action, model.FormatTime(now)), MainMenu)

	if action == model.Feed && b.remind != nil {
		b.remind.AfterFeed(ctx, user)
	}
}

func (b *Bot) sendStats(ctx context.Context, user int64, days int) {
	now := b.now()
	recs, err := b.events.Since(ctx, now.AddDate(0, 0, -days))
	if err != nil {
		slog.Warn("stats read failed, reporting empty window", "err", err)
		recs = nil
	}
	b.send(user, stats.Report(recs, b.settings.Settings(ctx), days, now), MainMenu)
}

// slashLast handles "/last <action> <count>".
func (b *Bot) slashLast(ctx context.Context, user int64, text string) {
	fields := strings.Fields(text)
	if len(fields) < 3 {
		b.send(user, "Usage: /last <action> <count>", MainMenu)
		return
	}
	n, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil || n < 1 {
		b.send(user, "Usage: /last <action> <count>", MainMenu)
		return
	}
	action := model.Action(strings.Join(fields[1:len(fields)-1], " "))
	if !model.Known(action) {
		b.send(user, "Unknown action.", MainMenu)
		return
	}
	recs, err := b.events.Recent(ctx, action, n)
	if err != nil {
		slog.Warn("recent read failed", "err", err)
		recs = nil
	}
	b.send(user, flow.FormatRecent(action, recs), MainMenu)
}

// SendBackups sends the database file to every allowed caller. Driven by
// the daily backup job.
func (b *Bot) SendBackups(caption string) {
	for id := range b.allowed {
		if err := b.msgr.SendDocument(id, b.dbPath, caption); err != nil {
			slog.Error("backup send failed", "user", id, "err", err)
		}
	}
}

func (b *Bot) sendReply(user int64, reply flow.Reply) {
	kb := reply.Keyboard
	if kb == nil {
		kb = MainMenu
	}
	b.send(user, reply.Text, kb)
}

func (b *Bot) send(user int64, text string, keyboard [][]string) {
	if err := b.msgr.SendMessage(user, text, keyboard); err != nil {
		slog.Error("send failed", "user", user, "err", err)
	}
}
