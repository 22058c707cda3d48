package pipeline

// pipeline.go - in-process stage sequencing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/driftlabs/driftguard/internal/state"
	"github.com/driftlabs/driftguard/pkg/dataset"
	"github.com/driftlabs/driftguard/pkg/drift"
	"github.com/driftlabs/driftguard/pkg/quality"
)

// Config holds everything a pipeline invocation needs. All inputs are flat
// files at the configured paths; there is no shared in-memory state between
// stages.
type Config struct {
	// ReferencePath is the trained-baseline dataset.
	ReferencePath string
	// CurrentPath is the incoming dataset under scrutiny.
	CurrentPath string

	// Quality configures the gate's expectation set.
	Quality quality.Options

	// Comparator carries the PSI bin count and proportion floor.
	Comparator drift.Options
	// Threshold is the PSI retrain threshold, passed explicitly so the
	// engine stays pure. Zero is honored and, the comparison being
	// inclusive, triggers on any drift signal; negative selects the
	// default.
	Threshold float64

	// Retrain and Publish are the external collaborators invoked after a
	// positive drift decision. Either may be left unconfigured, in which
	// case the pipeline stops at drift_triggered and the exit code carries
	// the hand-off.
	Retrain Collaborator
	Publish Collaborator
}

// Result is the typed equivalent of the exit-code vocabulary, for callers
// composing stages in one process.
type Result struct {
	Status Status           `json:"status"`
	Gate   *quality.Verdict `json:"gate,omitempty"`
	Drift  *drift.Verdict   `json:"drift,omitempty"`
	RunID  string           `json:"run_id,omitempty"`
}

// Pipeline sequences the stages for one invocation.
type Pipeline struct {
	cfg    Config
	store  state.Store
	logger *slog.Logger
}

// New creates a pipeline. The store is optional; when nil no run history is
// recorded.
func New(cfg Config, store state.Store, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{cfg: cfg, store: store, logger: logger}
}

// Run executes Validating -> Comparing -> Retraining -> Publishing. The
// returned error is non-nil only for StatusError outcomes; quality failures
// and drift decisions are documented results, not faults.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	result := &Result{Status: StatusError}
	runID := p.startRun()
	result.RunID = runID
	defer func() { p.completeRun(runID, result) }()

	// Unreadable inputs halt before any stage runs.
	reference, err := dataset.Load(p.cfg.ReferencePath, p.targetColumn())
	if err != nil {
		return result, err
	}
	current, err := dataset.Load(p.cfg.CurrentPath, p.targetColumn())
	if err != nil {
		return result, err
	}

	// Validating
	p.logger.Info("stage started", "stage", "validating")
	gate := quality.DefaultGate(reference, p.withLogger(p.cfg.Quality))
	verdict := gate.Evaluate(current)
	result.Gate = &verdict
	if !verdict.Overall {
		// Hard short-circuit: comparing distributions on invalid data is
		// meaningless.
		result.Status = StatusQualityFailed
		p.logger.Info("pipeline halted", "status", string(StatusQualityFailed), "failures", len(verdict.Failures()))
		return result, nil
	}

	// Comparing
	p.logger.Info("stage started", "stage", "comparing")
	engine := drift.NewEngine(p.cfg.Comparator, p.logger)
	dv, err := engine.Detect(ctx, reference, current, p.threshold())
	if err != nil {
		return result, fmt.Errorf("drift detection failed: %w", err)
	}
	result.Drift = dv
	if dv.Decision == drift.DecisionStable {
		result.Status = StatusStable
		return result, nil
	}
	result.Status = StatusDriftTriggered

	// Retraining / Publishing hand-offs. Either collaborator may be left
	// unconfigured; a publish-only setup still runs after a retrain-less
	// drift decision. Without any collaborators the drift_triggered exit
	// code is the hand-off.
	if p.cfg.Retrain.Configured() {
		p.logger.Info("stage started", "stage", "retraining")
		if err := p.cfg.Retrain.Run(ctx, p.logger); err != nil {
			result.Status = StatusError
			return result, err
		}
	}
	if p.cfg.Publish.Configured() {
		p.logger.Info("stage started", "stage", "publishing")
		if err := p.cfg.Publish.Run(ctx, p.logger); err != nil {
			result.Status = StatusError
			return result, err
		}
	}

	return result, nil
}

func (p *Pipeline) targetColumn() string {
	if p.cfg.Quality.TargetColumn != "" {
		return p.cfg.Quality.TargetColumn
	}
	return quality.DefaultTargetColumn
}

func (p *Pipeline) threshold() float64 {
	if p.cfg.Threshold < 0 {
		return drift.DefaultThreshold
	}
	return p.cfg.Threshold
}

func (p *Pipeline) withLogger(opts quality.Options) quality.Options {
	if opts.Logger == nil {
		opts.Logger = p.logger
	}
	return opts
}

// startRun records the invocation in the ledger. Ledger trouble is logged
// and otherwise ignored; history is observability, not control flow.
func (p *Pipeline) startRun() string {
	if p.store == nil {
		return ""
	}
	run, err := p.store.CreateRun(p.cfg.ReferencePath, p.cfg.CurrentPath)
	if err != nil {
		p.logger.Warn("failed to record run start", "error", err)
		return ""
	}
	return run.ID
}

func (p *Pipeline) completeRun(runID string, result *Result) {
	if p.store == nil || runID == "" {
		return
	}
	outcome := state.Outcome{Status: string(result.Status)}
	if result.Drift != nil {
		psi := result.Drift.MaxPSI
		outcome.MaxPSI = &psi
		outcome.TriggeringFeature = result.Drift.TriggeringFeature
	}
	if result.Gate != nil && !result.Gate.Overall {
		failures := result.Gate.Failures()
		if len(failures) > 0 {
			outcome.Detail = failures[0].Detail
		}
	}
	if err := p.store.CompleteRun(runID, outcome); err != nil {
		p.logger.Warn("failed to record run outcome", "error", err)
	}
}
