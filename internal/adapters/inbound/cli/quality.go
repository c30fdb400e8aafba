package cli

import (
	"fmt"

	"github.com/migrakit/migrakit/internal/adapters/outbound/progress"
	"github.com/migrakit/migrakit/internal/adapters/outbound/tui"
	"github.com/spf13/cobra"
)

func newQualityCmd() *cobra.Command {
	var (
		format  string
		dataset string
	)

	cmd := &cobra.Command{
		Use:   "quality [path]",
		Short: "Score data quality",
		Long:  "Score completeness, accuracy, consistency and validity of the dataset and print the weighted quality report.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return evaluationFailed(err)
			}
			absPath, err := projectPath(args)
			if err != nil {
				return evaluationFailed(err)
			}

			svc := NewReadinessService(dataset, progress.NoOp{})
			report, err := svc.AssessQuality(cmd.Context(), absPath)
			if err != nil {
				return evaluationFailed(err)
			}

			if format == formatText {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderQuality(report))
				return nil
			}
			return writeEncoded(cmd.OutOrStdout(), report, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "Output format (text, json, yaml)")
	cmd.Flags().StringVar(&dataset, "dataset", "", "Assess a YAML or JSON dataset file instead of the configured source")

	return cmd
}
