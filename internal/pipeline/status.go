// Package pipeline sequences Gate -> Engine -> Retrain -> Publish as a
// cross-process state machine. Stages share nothing but flat files and exit
// codes; any stage can be re-run independently from its inputs on disk.
package pipeline

// Status is the closed set of cross-process outcomes. It is the only
// information a pipeline invocation exports, encoded as an exit code.
type Status string

const (
	// StatusQualityFailed means the data quality gate rejected the current
	// dataset; no distribution comparison was attempted.
	StatusQualityFailed Status = "quality_failed"

	// StatusStable means the gate passed and no feature drifted past the
	// threshold.
	StatusStable Status = "stable"

	// StatusDriftTriggered means at least one feature's PSI reached the
	// threshold; retraining is warranted.
	StatusDriftTriggered Status = "drift_triggered"

	// StatusError means an invocation failed outside the documented
	// vocabulary: unreadable input, a collaborator exiting with an unknown
	// code, or a collaborator killed before reporting one.
	StatusError Status = "error"
)

// The documented exit codes. The gate and drift stages deliberately use
// distinct non-zero codes so a single integer disambiguates bad data from
// real drift.
const (
	// ExitPass is gate pass / drift stable / pipeline done.
	ExitPass = 0
	// ExitQualityFailed is the gate's failure code.
	ExitQualityFailed = 1
	// ExitDriftTriggered is the drift stage's positive code.
	ExitDriftTriggered = 2
	// ExitError is the pipeline's code for faults outside the vocabulary.
	ExitError = 3
)

// ExitCode maps a status to its documented process exit code.
func (s Status) ExitCode() int {
	switch s {
	case StatusStable:
		return ExitPass
	case StatusQualityFailed:
		return ExitQualityFailed
	case StatusDriftTriggered:
		return ExitDriftTriggered
	default:
		return ExitError
	}
}
