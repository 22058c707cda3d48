package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/driftlabs/driftguard/internal/cli/output"
	"github.com/driftlabs/driftguard/internal/pipeline"
	"github.com/driftlabs/driftguard/pkg/drift"
)

// Drift report statuses.
const (
	reportStatusOK        = "ok"
	reportStatusRetrain   = "retrain"
	reportStatusNoNumeric = "no_numeric_columns"
)

// DriftOptions holds options for the drift command.
type DriftOptions struct {
	Threshold float64 // PSI retrain threshold
	Report    string  // Optional path for a JSON report file
}

// driftReport is the machine-readable detection summary.
type driftReport struct {
	Timestamp         string                             `json:"timestamp"`
	Threshold         float64                            `json:"threshold"`
	MaxPSI            float64                            `json:"max_psi"`
	TriggeringFeature string                             `json:"triggering_feature,omitempty"`
	Status            string                             `json:"status"`
	PerFeature        map[string]drift.FeatureComparison `json:"per_feature"`
}

// NewDriftCommand creates the drift command.
func NewDriftCommand() *cobra.Command {
	opts := &DriftOptions{}
	cmd := &cobra.Command{
		Use:   "drift",
		Short: "Detect distribution drift between reference and current datasets",
		Long: `Compare every numeric feature shared by the reference and current
datasets: Population Stability Index over reference quantile bins, plus
the two-sample Kolmogorov-Smirnov test. Drift is declared when the
maximum PSI reaches the threshold.

Exit codes:
  0  distributions stable
  2  drift detected (retraining recommended)
  3  dataset could not be read`,
		Example: `  # Detect with defaults
  driftguard drift

  # Stricter threshold, report file for downstream tooling
  driftguard drift --threshold 0.1 --report drift_report.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDrift(cmd, opts)
		},
	}

	cmd.Flags().Float64Var(&opts.Threshold, "threshold", 0, "PSI retrain threshold (default from config)")
	cmd.Flags().StringVar(&opts.Report, "report", "", "Write a JSON drift report to this path")

	return cmd
}

func runDrift(cmd *cobra.Command, opts *DriftOptions) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	threshold := cfg.Drift.Threshold
	if cmd.Flags().Changed("threshold") {
		threshold = opts.Threshold
	}

	reference, current, err := loadSnapshots(cfg)
	if err != nil {
		return &ExitError{Code: pipeline.ExitError, Msg: err.Error()}
	}

	engine := drift.NewEngine(driftOptions(cfg), cmdCtx.Logger)
	verdict, err := engine.Detect(cmd.Context(), reference, current, threshold)
	if err != nil {
		return &ExitError{Code: pipeline.ExitError, Msg: err.Error()}
	}

	report := buildDriftReport(verdict)
	if opts.Report != "" {
		if err := writeDriftReport(opts.Report, report); err != nil {
			return &ExitError{Code: pipeline.ExitError, Msg: err.Error()}
		}
	}

	renderDriftReport(r, verdict, report)

	if verdict.Decision == drift.DecisionDrift {
		return &ExitError{Code: pipeline.ExitDriftTriggered, Msg: ""}
	}
	return nil
}

func buildDriftReport(verdict *drift.Verdict) driftReport {
	report := driftReport{
		Timestamp:         time.Now().UTC().Format(time.RFC3339),
		Threshold:         verdict.Threshold,
		MaxPSI:            verdict.MaxPSI,
		TriggeringFeature: verdict.TriggeringFeature,
		Status:            reportStatusOK,
		PerFeature:        make(map[string]drift.FeatureComparison, len(verdict.Features)),
	}
	for _, fc := range verdict.Features {
		report.PerFeature[fc.Feature] = fc
	}
	switch {
	case len(verdict.Features) == 0:
		report.Status = reportStatusNoNumeric
	case verdict.Decision == drift.DecisionDrift:
		report.Status = reportStatusRetrain
	}
	return report
}

func writeDriftReport(path string, report driftReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write drift report: %w", err)
	}
	return nil
}

func renderDriftReport(r *output.Renderer, verdict *drift.Verdict, report driftReport) {
	if r.EffectiveMode() == output.ModeJSON {
		_ = r.JSON(report)
		return
	}

	rows := make([][]string, 0, len(verdict.Features))
	for _, fc := range verdict.Features {
		rows = append(rows, []string{
			fc.Feature,
			fmt.Sprintf("%.4f", fc.PSI),
			fmt.Sprintf("%.4f", fc.KSStatistic),
			fmt.Sprintf("%.4f", fc.KSPValue),
		})
	}
	r.Table([]string{"Feature", "PSI", "KS", "p-value"}, rows)

	switch report.Status {
	case reportStatusNoNumeric:
		r.Warning("no numeric columns shared by both datasets")
	case reportStatusRetrain:
		r.Printf("Drift detected: max PSI %.4f >= %.4f (feature %s)\n",
			verdict.MaxPSI, verdict.Threshold, verdict.TriggeringFeature)
	default:
		r.Success(fmt.Sprintf("Distributions stable: max PSI %.4f < %.4f", verdict.MaxPSI, verdict.Threshold))
	}
}
