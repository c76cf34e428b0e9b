package cli

import (
	"github.com/spf13/cobra"

	"github.com/homescreen/homescreen/internal/app"
	"github.com/homescreen/homescreen/internal/logger"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Migrate the store and serve the REST API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	a, err := app.New(cmd.Context(), cfg, log)
	if err != nil {
		log.Error("startup failed", logger.Error(err))
		return err
	}
	return a.Run(cmd.Context())
}
