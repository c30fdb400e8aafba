package cli

import (
	"fmt"

	"github.com/migrakit/migrakit/internal/adapters/outbound/progress"
	"github.com/migrakit/migrakit/internal/adapters/outbound/tui"
	"github.com/migrakit/migrakit/internal/domain"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	var (
		format  string
		dataset string
	)

	cmd := &cobra.Command{
		Use:   "validate <referential|unique|required> [path]",
		Short: "Run a single constraint validator",
		Long:  "Run one constraint validator and print its report. Exits 1 when the report is FAILED.",
		Args:  cobra.RangeArgs(1, 2),
		ValidArgs: []string{
			"referential", "unique", "required",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return evaluationFailed(err)
			}
			absPath, err := projectPath(args[1:])
			if err != nil {
				return evaluationFailed(err)
			}

			svc := NewReadinessService(dataset, progress.NoOp{})
			report, err := svc.Validate(cmd.Context(), absPath, args[0])
			if err != nil {
				return evaluationFailed(err)
			}

			if format == formatText {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderValidation(report))
			} else if err := writeEncoded(cmd.OutOrStdout(), report, format); err != nil {
				return evaluationFailed(err)
			}

			if report.Status == domain.StatusFailed {
				return &ExitError{Code: domain.ExitRetryable}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "Output format (text, json, yaml)")
	cmd.Flags().StringVar(&dataset, "dataset", "", "Validate a YAML or JSON dataset file instead of the configured source")

	return cmd
}
