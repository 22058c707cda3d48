package quality

// gate.go - gate construction and evaluation

import (
	"log/slog"

	"github.com/driftlabs/driftguard/pkg/dataset"
)

// DefaultTargetColumn is the conventional name of the prediction target.
const DefaultTargetColumn = "target"

// Options configures the default expectation set. Zero values select the
// documented defaults.
type Options struct {
	// TargetColumn is the binary target column name (default "target").
	TargetColumn string

	// MinDistinct is the distinct-value requirement for numeric columns
	// (default 2).
	MinDistinct int

	// RequiredColumns overrides the expected column set. When nil, the set
	// comes from the reference snapshot, else DefaultRequiredColumns.
	RequiredColumns []string

	// Disabled lists expectation names to skip.
	Disabled []string

	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
}

// Gate evaluates an ordered expectation set against a snapshot.
type Gate struct {
	expectations []Expectation
	logger       *slog.Logger
}

// NewGate builds a gate over an explicit expectation list, evaluated in the
// given order.
func NewGate(expectations []Expectation, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Gate{expectations: expectations, logger: logger}
}

// DefaultGate builds a gate with the default expectation set. The reference
// snapshot, when non-nil, supplies the required column set.
func DefaultGate(reference *dataset.Snapshot, opts Options) *Gate {
	target := opts.TargetColumn
	if target == "" {
		target = DefaultTargetColumn
	}

	required := RequiredColumnsFrom(reference)
	if opts.RequiredColumns != nil {
		required = RequiredColumns{Columns: opts.RequiredColumns}
	}

	defaults := []Expectation{
		required,
		BinaryTarget{Column: target},
		NoAllNullColumn{},
		NumericDiversity{MinDistinct: opts.MinDistinct},
	}

	disabled := make(map[string]struct{}, len(opts.Disabled))
	for _, name := range opts.Disabled {
		disabled[name] = struct{}{}
	}

	var expectations []Expectation
	for _, e := range defaults {
		if _, skip := disabled[e.Name()]; skip {
			continue
		}
		expectations = append(expectations, e)
	}

	return NewGate(expectations, opts.Logger)
}

// Expectations returns the gate's expectation list in evaluation order.
func (g *Gate) Expectations() []Expectation { return g.expectations }

// Evaluate runs every expectation in declaration order, without
// short-circuiting, so one run yields complete diagnostics. The snapshot is
// never mutated.
func (g *Gate) Evaluate(s *dataset.Snapshot) Verdict {
	results := make([]Result, 0, len(g.expectations))
	for _, e := range g.expectations {
		r := e.Evaluate(s)
		if !r.Passed {
			g.logger.Debug("expectation failed", "name", r.Name, "detail", r.Detail)
		}
		results = append(results, r)
	}

	verdict := newVerdict(results)
	g.logger.Info("gate evaluated", "checks", len(results), "passed", verdict.Overall)
	return verdict
}
