// Package config loads DriftGuard configuration from file, environment and
// flags. Precedence (highest to lowest): flags > env vars > config file >
// defaults.
package config

// Config holds all CLI configuration options. Dataset, artifact and ledger
// locations are plain files at fixed, documented paths; every stage is
// re-derivable from them plus this configuration.
type Config struct {
	ReferencePath string `koanf:"reference"`
	CurrentPath   string `koanf:"current"`
	StatePath     string `koanf:"state_path"`
	Verbose       bool   `koanf:"verbose"`
	OutputFormat  string `koanf:"output"`

	Quality  QualityConfig  `koanf:"quality"`
	Drift    DriftConfig    `koanf:"drift"`
	Train    TrainConfig    `koanf:"train"`
	Serve    ServeConfig    `koanf:"serve"`
	Pipeline PipelineConfig `koanf:"pipeline"`
}

// QualityConfig configures the data quality gate.
type QualityConfig struct {
	// Target is the binary target column name.
	Target string `koanf:"target"`
	// MinDistinct is the distinct-value requirement for numeric columns.
	MinDistinct int `koanf:"min_distinct"`
	// RequiredColumns overrides the reference-derived required set.
	RequiredColumns []string `koanf:"required_columns"`
	// Disabled lists expectation names to skip.
	Disabled []string `koanf:"disabled"`
}

// DriftConfig configures the drift engine. The threshold, bin count and
// proportion floor are policy constants kept configurable on purpose.
type DriftConfig struct {
	Threshold float64 `koanf:"threshold"`
	Bins      int     `koanf:"bins"`
	Floor     float64 `koanf:"floor"`
}

// TrainConfig configures the training collaborator.
type TrainConfig struct {
	ModelPath    string   `koanf:"model_path"`
	MetadataPath string   `koanf:"metadata_path"`
	Experiment   string   `koanf:"experiment"`
	Exclude      []string `koanf:"exclude"`
	Epochs       int      `koanf:"epochs"`
	BatchSize    int      `koanf:"batch_size"`
	LearningRate float64  `koanf:"learning_rate"`
	Folds        int      `koanf:"folds"`
}

// ServeConfig configures the model server.
type ServeConfig struct {
	Port  int  `koanf:"port"`
	Watch bool `koanf:"watch"`
}

// PipelineConfig configures the orchestrator's external hand-offs.
type PipelineConfig struct {
	// Retrain is the argv of the retraining collaborator.
	Retrain []string `koanf:"retrain"`
	// Publish is the argv of the publish collaborator.
	Publish []string `koanf:"publish"`
	// History enables the local run ledger.
	History bool `koanf:"history"`
}
