package cli

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/corso/puplog/internal/bot"
	"github.com/corso/puplog/internal/remind"
	"github.com/corso/puplog/internal/sched"
	"github.com/corso/puplog/internal/telegram"
	"github.com/corso/puplog/internal/tracker"
)

const reminderPoll = 5 * time.Minute

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the bot",
		Run:   runServe,
	}
	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	if err := cfg.Validate(); err != nil {
		exitErr("config", err)
	}

	st, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer st.Close()

	tg, err := telegram.New(cfg.Token)
	if err != nil {
		exitErr("telegram", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine := remind.New(st, st, cfg.AllowedIDs, reminderPoll, func(user int64, text string) {
		if err := tg.SendMessage(user, text, nil); err != nil {
			slog.Error("reminder send failed", "user", user, "err", err)
		}
	})

	b := bot.New(bot.Config{
		Messenger: tg,
		Events:    st,
		Settings:  st,
		Commands:  st,
		Tracker:   tracker.New(st, st),
		Reminder:  engine,
		Allowed:   cfg.AllowedIDs,
		DBPath:    st.Path(),
	})

	sched.RunRepeating(ctx, reminderPoll, reminderPoll, func(now time.Time) {
		engine.Tick(ctx, now)
	})
	sched.RunDaily(ctx, 23, 59, func(time.Time) {
		b.SendBackups("📦 Daily backup")
	})

	slog.Info("puplog started", "bot", tg.Username(), "db", cfg.DBPath, "users", len(cfg.AllowedIDs))
	tg.Listen(ctx, func(user int64, text string) {
		b.HandleMessage(ctx, user, text)
	})
	slog.Info("puplog stopped")
}
