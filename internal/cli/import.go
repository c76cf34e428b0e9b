package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/homescreen/homescreen/internal/scheduler"
	"github.com/homescreen/homescreen/internal/store"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <bookmarks.yaml>",
		Short: "Upsert the websites of a homepage bookmarks file",
		Long: `Reads a homepage-style bookmarks.yaml and upserts every bookmark whose category
is Code, Fun or Editing. Existing websites missing from the file are kept.`,
		Example: "  homescreen import ./bookmarks.yaml",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			handle, err := store.Open(cmd.Context(), cfg, log)
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer func() { _ = handle.Close() }()

			im := scheduler.NewImporter(args[0], handle, log.Named("importer"), 0, nil)
			stats, err := im.Import(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d, skipped %d, failed %d\n",
				stats.Imported, stats.Skipped, stats.Failed)
			return err
		},
	}
}
