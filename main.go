package main

import (
	"fmt"
	"os"

	"github.com/Innayatullahh/skydragon-test/config"
	"github.com/Innayatullahh/skydragon-test/utils"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "meetings",
	Short: "Meetings service for the CRM",
	Long: `Serves the meetings API over MongoDB.

Examples:
  meetings serve                  # Start the HTTP server
  meetings migrate                # Create collection indexes
  meetings token --user <id>      # Mint an access token for local testing`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, tokenCmd)
}

// loadConfig reads and validates configuration and builds the root logger.
func loadConfig() (*config.Config, hclog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, utils.NewLogger("meetings", cfg.Log), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
