// Package config loads the runtime configuration from PUPLOG_* environment
// variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config is everything serve needs to start.
type Config struct {
	// Token is the bot API token. Required for serve.
	Token string
	// AllowedIDs is the caller allow-list. Required for serve.
	AllowedIDs []int64
	// DBPath is the SQLite database location.
	DBPath string
	// Retention and rotation knobs, see store.Options.
	RetentionDays int
	RotateDays    int
	RotateBytes   int64
}

// Load reads configuration from the environment.
func Load() Config {
	v := viper.New()
	v.SetEnvPrefix("PUPLOG")
	v.AutomaticEnv()
	v.SetDefault("db", defaultDBPath())
	v.SetDefault("retention_days", 120)
	v.SetDefault("rotate_days", 20)
	v.SetDefault("rotate_bytes", int64(10<<20))

	return Config{
		Token:         v.GetString("token"),
		AllowedIDs:    parseIDs(v.GetString("allowed_ids")),
		DBPath:        v.GetString("db"),
		RetentionDays: v.GetInt("retention_days"),
		RotateDays:    v.GetInt("rotate_days"),
		RotateBytes:   v.GetInt64("rotate_bytes"),
	}
}

// Validate checks the fields serve cannot run without.
func (c Config) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("PUPLOG_TOKEN is required")
	}
	if len(c.AllowedIDs) == 0 {
		return fmt.Errorf("PUPLOG_ALLOWED_IDS is required (comma-separated caller ids)")
	}
	return nil
}

func parseIDs(s string) []int64 {
	var out []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out
}

func defaultDBPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".puplog", "puplog.db")
}
