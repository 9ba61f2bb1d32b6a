package cmd

import (
	"fmt"

	"github.com/Ramesh0708/trafficbot-pro/internal/browser"
	"github.com/spf13/cobra"
)

var flagPrintOnly bool

// openURL is swapped in tests.
var openURL = browser.Open

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Open the live traffic map for the city",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		u := cfg.LiveMap()
		fmt.Fprintf(cmd.OutOrStdout(), "🗺️ Live Traffic Map: %s\n", u)
		if flagPrintOnly {
			return nil
		}
		if err := openURL(u); err != nil {
			return fmt.Errorf("opening map: %w", err)
		}
		return nil
	},
}

func init() {
	mapCmd.Flags().BoolVar(&flagPrintOnly, "print", false, "print the URL without opening a browser")
	mapCmd.Flags().StringVar(&flagCity, "city", "", "city to show (overrides CITY)")
}
