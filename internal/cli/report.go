package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/corso/puplog/internal/stats"
)

func init() {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a statistics report without starting the bot",
		Run:   runReport,
	}
	cmd.Flags().IntP("days", "n", 2, "Trailing window in days")
	RootCmd.AddCommand(cmd)
}

func runReport(cmd *cobra.Command, args []string) {
	days, _ := cmd.Flags().GetInt("days")

	s, err := openStore(loadConfig())
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	now := time.Now()
	recs, err := s.Since(cmd.Context(), now.AddDate(0, 0, -days))
	if err != nil {
		exitErr("read events", err)
	}
	fmt.Println(stats.Report(recs, s.Settings(cmd.Context()), days, now))
}
