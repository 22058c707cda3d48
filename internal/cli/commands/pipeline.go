package commands

import (
	"github.com/spf13/cobra"

	"github.com/driftlabs/driftguard/internal/cli/output"
	"github.com/driftlabs/driftguard/internal/pipeline"
	"github.com/driftlabs/driftguard/pkg/drift"
)

// PipelineOptions holds options for the pipeline command.
type PipelineOptions struct {
	Threshold float64  // PSI retrain threshold
	Retrain   []string // Retrain collaborator argv
	Publish   []string // Publish collaborator argv
	NoHistory bool     // Skip the run ledger
}

// NewPipelineCommand creates the pipeline command.
func NewPipelineCommand() *cobra.Command {
	opts := &PipelineOptions{}
	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Run the full monitoring pipeline",
		Long: `Sequence the monitoring stages against the configured datasets:
validate the current dataset, detect drift against the reference, and
on a positive drift decision hand off to the retrain and publish
collaborators. Collaborators are external commands judged solely by
their exit code: zero is success, anything else halts the pipeline.

Exit codes:
  0  quality passed and distributions stable
  1  data quality gate failed
  2  drift detected (collaborators ran, or none configured)
  3  unreadable input or collaborator failure`,
		Example: `  # Monitor with defaults, no hand-off
  driftguard pipeline

  # Hand off to external retraining on drift
  driftguard pipeline --retrain "make,retrain" --publish "make,publish"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPipeline(cmd, opts)
		},
	}

	cmd.Flags().Float64Var(&opts.Threshold, "threshold", 0, "PSI retrain threshold (default from config)")
	cmd.Flags().StringSliceVar(&opts.Retrain, "retrain", nil, "Retrain collaborator argv")
	cmd.Flags().StringSliceVar(&opts.Publish, "publish", nil, "Publish collaborator argv")
	cmd.Flags().BoolVar(&opts.NoHistory, "no-history", false, "Skip recording the run in the local ledger")

	return cmd
}

func runPipeline(cmd *cobra.Command, opts *PipelineOptions) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	threshold := cfg.Drift.Threshold
	if cmd.Flags().Changed("threshold") {
		threshold = opts.Threshold
	}
	retrain := cfg.Pipeline.Retrain
	if cmd.Flags().Changed("retrain") {
		retrain = opts.Retrain
	}
	publish := cfg.Pipeline.Publish
	if cmd.Flags().Changed("publish") {
		publish = opts.Publish
	}

	pipeCfg := pipeline.Config{
		ReferencePath: cfg.ReferencePath,
		CurrentPath:   cfg.CurrentPath,
		Quality:       qualityOptions(cfg, cmdCtx.Logger),
		Comparator:    driftOptions(cfg),
		Threshold:     threshold,
		Retrain:       pipeline.Collaborator{Name: "retrain", Command: retrain},
		Publish:       pipeline.Collaborator{Name: "publish", Command: publish},
	}

	var store = openStore(cfg, cmdCtx.Logger)
	if opts.NoHistory {
		closeStore(store)
		store = nil
	}
	defer closeStore(store)

	p := pipeline.New(pipeCfg, store, cmdCtx.Logger)
	result, err := p.Run(cmd.Context())

	renderPipelineResult(r, result, err)

	if err != nil {
		return &ExitError{Code: pipeline.ExitError, Msg: ""}
	}
	if code := result.Status.ExitCode(); code != pipeline.ExitPass {
		return &ExitError{Code: code, Msg: ""}
	}
	return nil
}

func renderPipelineResult(r *output.Renderer, result *pipeline.Result, err error) {
	if r.EffectiveMode() == output.ModeJSON {
		_ = r.JSON(result)
		if err != nil {
			r.Warning(err.Error())
		}
		return
	}

	if err != nil {
		r.Warning(err.Error())
	}
	if result == nil {
		return
	}

	if result.Gate != nil && !result.Gate.Overall {
		renderVerdict(r, *result.Gate)
	}
	if result.Drift != nil {
		switch result.Drift.Decision {
		case drift.DecisionDrift:
			r.Printf("Drift detected: max PSI %.4f >= %.4f (feature %s)\n",
				result.Drift.MaxPSI, result.Drift.Threshold, result.Drift.TriggeringFeature)
		default:
			r.Printf("Distributions stable: max PSI %.4f < %.4f\n",
				result.Drift.MaxPSI, result.Drift.Threshold)
		}
	}
	r.Printf("Pipeline result: %s (exit %d)\n", result.Status, result.Status.ExitCode())
	if result.RunID != "" {
		r.Printf("Run recorded: %s\n", result.RunID)
	}
}
