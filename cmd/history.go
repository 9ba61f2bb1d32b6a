package cmd

import (
	"fmt"
	"time"

	"github.com/Ramesh0708/trafficbot-pro/internal/cache"
	"github.com/Ramesh0708/trafficbot-pro/internal/config"
	"github.com/spf13/cobra"
)

var (
	flagHistoryLimit   int
	flagPruneOlderThan string
)

const defaultRetention = 30 * 24 * time.Hour

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded runs",
	Long: `List runs recorded with --record (or record_history: true), newest first.

Only run outcomes are stored; articles are never kept between runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := dbPath()
		db, err := cache.Open(path)
		if err != nil {
			return fmt.Errorf("opening history: %w", err)
		}
		defer db.Close()

		runs, err := db.Runs(flagHistoryLimit)
		if err != nil {
			return fmt.Errorf("reading history: %w", err)
		}

		out := cmd.OutOrStdout()
		count, size, err := db.Stats(path)
		if err == nil {
			fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("%s • %d run(s) • %s", path, count, formatBytes(size))))
		}

		if len(runs) == 0 {
			fmt.Fprintln(out, "No runs recorded.")
			return nil
		}
		for _, r := range runs {
			line := fmt.Sprintf("%s  %-10s fetched=%-3d fresh=%-3d shown=%-2d %s",
				r.RanAt.Local().Format("2006-01-02 15:04"), r.City, r.Fetched, r.Fresh, r.Shown, r.Status)
			if r.Error != "" {
				line += "  " + errorStyle.Render(r.Error)
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old runs from the history database",
	Long: `Delete recorded runs older than the retention period and reclaim disk space.

Defaults to 30d unless overridden with --older-than.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		retention := defaultRetention
		if flagPruneOlderThan != "" {
			d, err := config.ParseDuration(flagPruneOlderThan)
			if err != nil {
				return fmt.Errorf("invalid --older-than value: %w", err)
			}
			retention = d
		}

		db, err := cache.Open(dbPath())
		if err != nil {
			return fmt.Errorf("opening history: %w", err)
		}
		defer db.Close()

		deleted, err := db.Prune(retention)
		if err != nil {
			return fmt.Errorf("pruning: %w", err)
		}

		out := cmd.OutOrStdout()
		if deleted == 0 {
			fmt.Fprintln(out, "Nothing to prune.")
		} else {
			fmt.Fprintf(out, "Pruned %d run(s) older than %s.\n", deleted, formatDuration(retention))
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "number of runs to show")
	pruneCmd.Flags().StringVar(&flagPruneOlderThan, "older-than", "", "override retention period (e.g., 7d, 72h)")
}

func formatDuration(d time.Duration) string {
	h := d.Hours()
	days := int(h / 24)
	if days > 0 {
		return fmt.Sprintf("%dd", days)
	}
	return fmt.Sprintf("%dh", int(h))
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
