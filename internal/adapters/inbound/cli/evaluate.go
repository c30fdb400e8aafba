package cli

import (
	"fmt"
	"path/filepath"

	"github.com/migrakit/migrakit/internal/adapters/outbound/progress"
	"github.com/migrakit/migrakit/internal/adapters/outbound/tui"
	"github.com/migrakit/migrakit/internal/application"
	"github.com/migrakit/migrakit/internal/domain"
	"github.com/spf13/cobra"
)

func newEvaluateCmd() *cobra.Command {
	var (
		format     string
		dataset    string
		parallel   bool
		noSave     bool
		noProgress bool
	)

	cmd := &cobra.Command{
		Use:   "evaluate [path]",
		Short: "Decide whether the migration may proceed",
		Long: "Run the constraint validators, the data quality assessor and the readiness probe, then print a Go/No-Go decision.\n\n" +
			"Exit codes: 0 GO or PROCEED_WITH_CAUTION, 1 DELAY, 2 BLOCK, 3 evaluation error.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return evaluationFailed(err)
			}
			absPath, err := projectPath(args)
			if err != nil {
				return evaluationFailed(err)
			}

			pm := progress.New(!noProgress && format == formatText)
			svc := NewReadinessService(dataset, pm)

			result, err := svc.Evaluate(cmd.Context(), absPath, application.EvaluateOptions{
				Parallel: parallel,
				NoSave:   noSave,
			})
			if result != nil && result.Report != nil {
				if perr := printReadiness(cmd, result.Report, format); perr != nil {
					return evaluationFailed(perr)
				}
			}
			if err != nil {
				return evaluationFailed(err)
			}

			if result.ReportPath != "" && format == formatText {
				shown := result.ReportPath
				if rel, err := filepath.Rel(absPath, shown); err == nil {
					shown = rel
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Report saved to %s\n", shown)
			}

			if code := result.Report.Decision.Recommendation.ExitCode(); code != domain.ExitSuccess {
				return &ExitError{Code: code}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "Output format (text, json, yaml)")
	cmd.Flags().StringVar(&dataset, "dataset", "", "Evaluate a YAML or JSON dataset file instead of the configured source")
	cmd.Flags().BoolVar(&parallel, "parallel", false, "Run validators, assessor and probe concurrently")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not write the report file or history entry")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Hide the progress bar")

	return cmd
}

func printReadiness(cmd *cobra.Command, report *domain.ReadinessReport, format string) error {
	if format == formatText {
		fmt.Fprint(cmd.OutOrStdout(), tui.RenderDecision(report))
		return nil
	}
	return writeEncoded(cmd.OutOrStdout(), report, format)
}
