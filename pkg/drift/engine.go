package drift

// engine.go - cross-feature drift detection and the aggregate decision

import (
	"context"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/driftlabs/driftguard/pkg/dataset"
)

// Decision is the aggregate drift classification.
type Decision string

const (
	// DecisionStable means no feature's PSI reached the threshold.
	DecisionStable Decision = "stable"
	// DecisionDrift means at least one feature's PSI reached the threshold.
	DecisionDrift Decision = "drift"
)

// Verdict aggregates per-feature comparisons into one decision. It is
// created once per (reference, current) pair and never mutated.
type Verdict struct {
	MaxPSI            float64             `json:"max_psi"`
	TriggeringFeature string              `json:"triggering_feature,omitempty"`
	Features          []FeatureComparison `json:"per_feature"`
	Decision          Decision            `json:"decision"`
	Threshold         float64             `json:"threshold"`
}

// Engine runs the comparator across all eligible features of a snapshot
// pair.
type Engine struct {
	opts    Options
	workers int
	logger  *slog.Logger
}

// NewEngine creates a drift engine. The comparator options carry the bin
// count and proportion floor; the threshold is passed per invocation to keep
// Detect pure.
func NewEngine(opts Options, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		opts:    opts,
		workers: runtime.GOMAXPROCS(0),
		logger:  logger,
	}
}

// EligibleFeatures returns the numeric columns present in both snapshots by
// name, in alphabetical order. Columns present in only one snapshot are
// excluded silently; the gate owns schema mismatches.
func EligibleFeatures(reference, current *dataset.Snapshot) []string {
	var eligible []string
	for _, name := range reference.NumericColumnNames() {
		if col, ok := current.Column(name); ok && col.Type() == dataset.ColumnNumeric {
			eligible = append(eligible, name)
		}
	}
	return eligible
}

// Detect compares every eligible feature and aggregates to one verdict:
// drift iff max PSI >= threshold (inclusive). With no eligible features the
// verdict is max_psi 0, decision stable. Per-feature comparisons run in
// parallel; each depends only on its own column's two samples.
func (e *Engine) Detect(ctx context.Context, reference, current *dataset.Snapshot, threshold float64) (*Verdict, error) {
	eligible := EligibleFeatures(reference, current)
	e.logger.Debug("detecting drift", "features", len(eligible), "threshold", threshold)

	features := make([]FeatureComparison, len(eligible))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, name := range eligible {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			refCol, _ := reference.Column(name)
			curCol, _ := current.Column(name)
			fc := Compare(refCol.Floats(), curCol.Floats(), e.opts)
			fc.Feature = name
			features[i] = fc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	verdict := &Verdict{Features: features, Threshold: threshold, Decision: DecisionStable}
	if len(features) > 0 {
		verdict.MaxPSI = features[0].PSI
		verdict.TriggeringFeature = features[0].Feature
		for _, fc := range features[1:] {
			// Strict comparison keeps the first maximizer in sort order on ties.
			if fc.PSI > verdict.MaxPSI {
				verdict.MaxPSI = fc.PSI
				verdict.TriggeringFeature = fc.Feature
			}
		}
	}
	if verdict.MaxPSI >= threshold {
		verdict.Decision = DecisionDrift
	}

	e.logger.Info("drift detection completed",
		"max_psi", verdict.MaxPSI,
		"triggering_feature", verdict.TriggeringFeature,
		"decision", string(verdict.Decision),
	)
	return verdict, nil
}
