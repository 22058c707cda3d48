// Package train implements the retraining collaborator: it fits a binary
// classifier on a dataset snapshot and persists the model artifact plus
// metadata at well-known paths for the serving collaborator to load.
package train

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"
)

// Feature kinds in a model artifact.
const (
	FeatureNumeric     = "numeric"
	FeatureCategorical = "categorical"
)

// MissingCategory is the one-hot category that absorbs missing categorical
// cells.
const MissingCategory = "missing"

// FeatureSpec describes one encoded model input. Numeric columns produce one
// spec carrying imputation and scaling parameters; categorical columns
// produce one spec per observed category.
type FeatureSpec struct {
	Column   string  `json:"column"`
	Kind     string  `json:"kind"`
	Median   float64 `json:"median,omitempty"`
	Mean     float64 `json:"mean,omitempty"`
	Std      float64 `json:"std,omitempty"`
	Category string  `json:"category,omitempty"`
}

// Model is the persisted artifact: a logistic model over encoded features.
type Model struct {
	Target   string        `json:"target"`
	Features []FeatureSpec `json:"features"`
	Weights  []float64     `json:"weights"`
	Bias     float64       `json:"bias"`
}

// PredictProba returns the positive-class probability for each encoded row.
func (m *Model) PredictProba(rows [][]float64) []float64 {
	if len(rows) == 0 {
		return nil
	}
	out := make([]float64, len(rows))
	for i, row := range rows {
		sum := m.Bias
		for j, v := range row {
			sum += m.Weights[j] * v
		}
		out[i] = sigmoid(sum)
	}
	return out
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// Metadata is the sidecar written next to the model artifact.
type Metadata struct {
	RunID        string    `json:"run_id"`
	Experiment   string    `json:"experiment"`
	Timestamp    time.Time `json:"timestamp"`
	Target       string    `json:"target"`
	FeatureCols  []string  `json:"feature_cols"`
	CVAUCMean    float64   `json:"cv_auc_mean"`
	CVAUCStd     float64   `json:"cv_auc_std"`
	NSamples     int       `json:"n_samples"`
	NNumeric     int       `json:"n_numeric"`
	NCategorical int       `json:"n_categorical"`
}

// SaveModel writes the artifact as indented JSON, creating the directory if
// needed.
func SaveModel(m *Model, path string) error {
	return writeJSON(path, m)
}

// LoadModel reads a persisted model artifact.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact %s: %w", path, err)
	}
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse model artifact %s: %w", path, err)
	}
	if len(m.Weights) != len(m.Features) {
		return nil, fmt.Errorf("model artifact %s: %d weights for %d features", path, len(m.Weights), len(m.Features))
	}
	return &m, nil
}

// SaveMetadata writes the metadata sidecar.
func SaveMetadata(md *Metadata, path string) error {
	return writeJSON(path, md)
}

func writeJSON(path string, v any) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
