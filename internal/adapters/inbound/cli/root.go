package cli

import (
	"context"
	"log/slog"

	"github.com/migrakit/migrakit/internal/log"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "migrakit",
		Short: "Go/No-Go checks before a CRM data migration",
		Long: "migrakit validates a CRM dataset against the constraints of its target schema, scores its data quality " +
			"and decides whether a migration may proceed.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(slog.LevelDebug)
			}
		},
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newEvaluateCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newQualityCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newMCPCmd())
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}

// ExecuteContext runs the root command with ctx, so cancelling ctx stops a
// running evaluation.
func ExecuteContext(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}
