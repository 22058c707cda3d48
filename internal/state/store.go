// Package state records pipeline run history in a local SQLite ledger.
// The ledger is observability only: stages signal each other through exit
// codes and flat files, never through this database.
package state

import "time"

// RunStatusRunning marks a run that has not completed yet.
const RunStatusRunning = "running"

// Run is one recorded pipeline invocation.
type Run struct {
	ID                string     `json:"id"`
	ReferencePath     string     `json:"reference_path"`
	CurrentPath       string     `json:"current_path"`
	Status            string     `json:"status"`
	MaxPSI            *float64   `json:"max_psi,omitempty"`
	TriggeringFeature string     `json:"triggering_feature,omitempty"`
	Detail            string     `json:"detail,omitempty"`
	StartedAt         time.Time  `json:"started_at"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
}

// Outcome is what CompleteRun records for a finished run.
type Outcome struct {
	Status            string
	MaxPSI            *float64
	TriggeringFeature string
	Detail            string
}

// Store persists pipeline run history.
type Store interface {
	// CreateRun records the start of a pipeline invocation.
	CreateRun(referencePath, currentPath string) (*Run, error)

	// CompleteRun records the terminal outcome of a run.
	CompleteRun(id string, outcome Outcome) error

	// GetRun retrieves a run by ID.
	GetRun(id string) (*Run, error)

	// ListRuns retrieves the most recent runs up to the given limit.
	ListRuns(limit int) ([]*Run, error)

	// Close releases the underlying database.
	Close() error
}
