package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/Ramesh0708/trafficbot-pro/internal/briefing"
	"github.com/Ramesh0708/trafficbot-pro/internal/cache"
	"github.com/Ramesh0708/trafficbot-pro/internal/config"
	"github.com/Ramesh0708/trafficbot-pro/internal/delivery"
	"github.com/Ramesh0708/trafficbot-pro/internal/feed"
	"github.com/Ramesh0708/trafficbot-pro/internal/summary"
	"github.com/Ramesh0708/trafficbot-pro/internal/update"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// newChecker is swapped in tests.
var newChecker = update.NewChecker

// loadConfig reads .env (if any), the config file, then applies flags.
func loadConfig() (*config.Config, error) {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagCity != "" {
		cfg.City = flagCity
	}
	if flagWebhook != "" {
		cfg.WebhookURL = flagWebhook
	}
	if flagRecord {
		cfg.RecordHistory = true
	}
	return cfg, nil
}

func dbPath() string {
	if flagDB != "" {
		return flagDB
	}
	return config.CachePath()
}

// runDigest fetches, composes and delivers one digest. Only a bad config
// fails the command; feed and webhook problems are reported and the run
// still succeeds.
func runDigest(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	now := time.Now()
	fetcher := feed.NewRSSFetcher("trafficbot/" + version)
	result := feed.FetchAll(cmd.Context(), fetcher, cfg.FeedURLs(), now)
	for _, e := range result.Errors {
		fmt.Fprintln(errOut, warnStyle.Render(fmt.Sprintf("  [warn] %v", e)))
	}

	fresh := feed.Fresh(result.Articles, now, cfg.FreshnessDuration())

	opts := briefing.Opts{
		City:        cfg.City,
		MaxArticles: cfg.GetMaxArticles(),
		Facts:       cfg.Facts,
		MapURL:      cfg.LiveMap(),
		Location:    cfg.Location(),
		Summarizer:  summary.New(cfg.City),
	}
	digest := briefing.Prepare(opts, fresh, now)
	msg, err := briefing.Render(digest)
	if err != nil {
		return err
	}

	webhook := cfg.WebhookURL
	if flagDryRun {
		webhook = ""
	}
	status, sendErr := delivery.New(webhook, out).Send(cmd.Context(), msg)
	switch status {
	case delivery.Posted:
		fmt.Fprintln(out, okStyle.Render("✔ Posted to Teams"))
	case delivery.Failed:
		fmt.Fprintln(errOut, errorStyle.Render(fmt.Sprintf("❗ Error posting: %v", sendErr)))
	}

	if cfg.RecordHistory {
		run := cache.Run{
			RanAt:   now,
			City:    cfg.City,
			Fetched: len(result.Articles),
			Fresh:   len(fresh),
			Shown:   len(digest.Lines),
			Status:  string(status),
		}
		if sendErr != nil {
			run.Error = sendErr.Error()
		}
		recordRun(errOut, run)
	}
	return nil
}

func recordRun(errOut io.Writer, run cache.Run) {
	db, err := cache.Open(dbPath())
	if err != nil {
		fmt.Fprintln(errOut, warnStyle.Render(fmt.Sprintf("  [warn] opening history: %v", err)))
		return
	}
	defer db.Close()

	if _, err := db.RecordRun(run); err != nil {
		fmt.Fprintln(errOut, warnStyle.Render(fmt.Sprintf("  [warn] %v", err)))
	}
}
