package cli

import (
	"fmt"

	"github.com/migrakit/migrakit/internal/adapters/outbound/config"
	"github.com/migrakit/migrakit/internal/domain"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	var (
		force   bool
		dataset string
	)

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Generate a .migrakit.yaml configuration file",
		Long:  "Create a .migrakit.yaml holding the default thresholds, readiness checks and output settings.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := projectPath(args)
			if err != nil {
				return err
			}

			cfg := domain.DefaultConfig()
			if dataset != "" {
				cfg.Source.Driver = domain.DriverDataset
				cfg.Source.Dataset = dataset
			}

			if _, err := config.New().Write(absPath, cfg, force); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", config.FileName)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing .migrakit.yaml")
	cmd.Flags().StringVar(&dataset, "dataset", "", "Use a dataset file as the record source")

	return cmd
}
