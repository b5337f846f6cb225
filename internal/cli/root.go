// Package cli implements the puplog CLI commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/corso/puplog/internal/config"
	"github.com/corso/puplog/internal/store"
)

var dbFlag string

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "puplog",
	Short: "Dog routine tracker bot",
	Long:  "Tracks a dog's sleep, feeding, play, walks and elimination through a chat interface, with rolling statistics and reminders.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbFlag, "db", "d", "", "Database path (default: $PUPLOG_DB or ~/.puplog/puplog.db)")
}

// loadConfig merges the environment config with the --db override.
func loadConfig() config.Config {
	cfg := config.Load()
	if dbFlag != "" {
		cfg.DBPath = dbFlag
	}
	return cfg
}

func openStore(cfg config.Config) (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(cfg.DBPath, store.Options{
		RetentionDays: cfg.RetentionDays,
		RotateDays:    cfg.RotateDays,
		RotateBytes:   cfg.RotateBytes,
	})
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
