// Package quality provides the data quality gate: declarative column-level
// expectations evaluated against a dataset snapshot before any distribution
// comparison is trusted.
package quality

import (
	"github.com/driftlabs/driftguard/pkg/dataset"
)

// Expectation is a pure, deterministic predicate over a snapshot. New checks
// are added by implementing this interface; the gate never needs changes.
type Expectation interface {
	// Name returns the unique check name, e.g. "required_columns".
	Name() string

	// Description returns a human-readable description.
	Description() string

	// Evaluate checks the snapshot and returns a single result. It must not
	// mutate the snapshot.
	Evaluate(s *dataset.Snapshot) Result
}

// Result is the outcome of one expectation.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}

// Verdict is the ordered outcome of one gate evaluation. It is created fresh
// per invocation and never mutated afterwards.
type Verdict struct {
	Results []Result `json:"results"`
	Overall bool     `json:"overall"`
}

// newVerdict seals results into a verdict; overall is true iff every result
// passed.
func newVerdict(results []Result) Verdict {
	overall := true
	for _, r := range results {
		if !r.Passed {
			overall = false
		}
	}
	return Verdict{Results: results, Overall: overall}
}

// Failures returns the failed results in evaluation order.
func (v Verdict) Failures() []Result {
	var failed []Result
	for _, r := range v.Results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

func pass(name string) Result {
	return Result{Name: name, Passed: true}
}

func fail(name, detail string) Result {
	return Result{Name: name, Passed: false, Detail: detail}
}
