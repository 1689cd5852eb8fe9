package cli

import (
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/hpml/pkg/errors"
	"github.com/YuminosukeSato/hpml/registry"
)

func newRunsCommand(cfgFile func() string) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded training runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig(cmd, cfgFile(), "")
			if err != nil {
				return err
			}
			if cfg.RegistryPath == "" {
				return errors.NewValidationError("registry_path", "set --registry or registry_path to list runs", "")
			}
			store, err := registry.Open(cfg.RegistryPath)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			printRuns(cmd.OutOrStdout(), runs)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show (0 for all)")
	return cmd
}
