package commands

import (
	"github.com/spf13/cobra"

	"github.com/driftlabs/driftguard/internal/cli/output"
	"github.com/driftlabs/driftguard/internal/pipeline"
	"github.com/driftlabs/driftguard/pkg/quality"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Run the data quality gate on the current dataset",
		Long: `Evaluate the declarative expectation set against the current dataset.

Expectations are derived from the reference dataset: required columns,
a binary target, no all-null columns, and minimum distinct values in
numeric columns. Every expectation is evaluated even after a failure,
so one run reports all problems at once.

Exit codes:
  0  all expectations passed
  1  at least one expectation failed
  3  dataset could not be read`,
		Example: `  # Validate with defaults
  driftguard validate

  # Validate a specific file
  driftguard validate --current data/incoming.csv

  # Machine-readable result
  driftguard validate -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd)
		},
	}
	return cmd
}

func runValidate(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	reference, current, err := loadSnapshots(cfg)
	if err != nil {
		return &ExitError{Code: pipeline.ExitError, Msg: err.Error()}
	}

	gate := quality.DefaultGate(reference, qualityOptions(cfg, cmdCtx.Logger))
	verdict := gate.Evaluate(current)

	renderVerdict(r, verdict)

	if !verdict.Overall {
		return &ExitError{Code: pipeline.ExitQualityFailed, Msg: ""}
	}
	return nil
}

func renderVerdict(r *output.Renderer, verdict quality.Verdict) {
	if r.EffectiveMode() == output.ModeJSON {
		_ = r.JSON(verdict)
		return
	}

	rows := make([][]string, 0, len(verdict.Results))
	for _, res := range verdict.Results {
		status := "pass"
		if !res.Passed {
			status = "FAIL"
		}
		rows = append(rows, []string{res.Name, status, res.Detail})
	}
	r.Table([]string{"Expectation", "Status", "Detail"}, rows)

	if verdict.Overall {
		r.Success("All expectations passed")
	} else {
		r.Printf("%d of %d expectations failed\n", len(verdict.Failures()), len(verdict.Results))
	}
}
