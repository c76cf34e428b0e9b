// Package cli holds the homescreen command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/homescreen/homescreen/internal/config"
	"github.com/homescreen/homescreen/internal/logger"
)

const defaultConfigFile = "Config.toml"

// NewRootCmd builds the command tree. Running the root command serves the API.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "homescreen",
		Short: "Bookmark backend for the homescreen start page",
		Long: `homescreen stores start page bookmarks grouped into Code, Fun and Editing
sections and serves them over a small REST API.

Configuration is read from Config.toml (or --config) and HOMESCREEN_* environment
variables. The database_url scheme selects the store: sqlite://, mysql://,
redis:// or memory://.`,
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.PersistentFlags().StringP("config", "c", defaultConfigFile, "Path to the config file (TOML or YAML)")

	root.AddCommand(newServeCmd(), newMigrateCmd(), newImportCmd(), newVersionCmd())
	return root
}

// Execute runs the CLI and exits non-zero on failure.
// This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "homescreen:", err)
		os.Exit(1)
	}
}

// loadConfig reads the config named by --config and builds the logger.
// The default file may be absent when the environment carries the settings.
func loadConfig(cmd *cobra.Command) (*config.Config, logger.Logger, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read --config: %w", err)
	}
	if !cmd.Flags().Changed("config") {
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) && os.Getenv(config.EnvPrefix+"_DATABASE_URL") != "" {
			path = ""
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger.New(cfg.LogLevel, cfg.PrettyLog), nil
}
