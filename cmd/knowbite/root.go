package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/knowbite/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "knowbite",
	Short: "Submit content to a knowbite server from the terminal",
	Long: `knowbite sends PDFs, audio files and YouTube links to a knowbite server
for summarization and shows a loading overlay while the server works.

The progress shown is simulated: the server gives no feedback until it
redirects to the finished summary, so the bar advances on a randomized curve
that never reaches 100% until the answer arrives.

Configuration is read from ~/.config/knowbite/config.yaml, a project
.knowbite.yaml, and the KNOWBITE_SERVER_URL / KNOWBITE_SESSION_COOKIE
environment variables.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: layered user/project config)")

	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(youtubeCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the --config file if given, otherwise the layered config,
// and validates the result.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFromPath(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
