package cli

import (
	"fmt"

	"github.com/migrakit/migrakit/internal/adapters/outbound/progress"
	"github.com/migrakit/migrakit/internal/adapters/outbound/tui"
	"github.com/migrakit/migrakit/internal/domain"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history [path]",
		Short: "Show past Go/No-Go decisions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := projectPath(args)
			if err != nil {
				return err
			}

			entries, err := NewReadinessService("", progress.NoOp{}).History(absPath)
			if err != nil {
				return err
			}

			if jsonOutput {
				if entries == nil {
					entries = []domain.DecisionEntry{}
				}
				return writeEncoded(cmd.OutOrStdout(), entries, domain.FormatJSON)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderHistory(entries))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output history as JSON")

	return cmd
}
