package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagCity    string
	flagWebhook string
	flagConfig  string
	flagDB      string
	flagDryRun  bool
	flagRecord  bool
	flagCheck   bool
)

var rootCmd = &cobra.Command{
	Use:   "trafficbot",
	Short: "Traffic news digest for a city",
	Long: `trafficbot collects the last day of traffic headlines for a city, marks each
by severity, and posts a short digest to a Teams webhook.

Without TEAMS_WEBHOOK_URL the digest is printed instead.`,
	SilenceUsage: true,
	RunE:         runDigest,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "path to the run history database")

	rootCmd.Flags().StringVar(&flagCity, "city", "", "city to report on (overrides CITY)")
	rootCmd.Flags().StringVar(&flagWebhook, "webhook", "", "webhook URL (overrides TEAMS_WEBHOOK_URL)")
	rootCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "print the digest instead of posting it")
	rootCmd.Flags().BoolVar(&flagRecord, "record", false, "record this run in the history database")

	versionCmd.Flags().BoolVar(&flagCheck, "check", false, "check GitHub for a newer release")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(mapCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(pruneCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "trafficbot %s (commit: %s, built: %s)\n", version, commit, date)
		if !flagCheck {
			return
		}
		if res := newChecker().Check(cmd.Context(), version); res != nil {
			fmt.Fprintln(out, noticeStyle.Render(fmt.Sprintf("A newer release is available: %s %s", res.LatestVersion, res.URL)))
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
