package config

import (
	"fmt"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.ReferencePath == "" {
		return fmt.Errorf("reference is required")
	}
	if c.CurrentPath == "" {
		return fmt.Errorf("current is required")
	}
	if c.Drift.Threshold < 0 {
		return fmt.Errorf("drift.threshold must be non-negative, got %v", c.Drift.Threshold)
	}
	if c.Drift.Bins < 1 {
		return fmt.Errorf("drift.bins must be at least 1, got %d", c.Drift.Bins)
	}
	if c.Drift.Floor <= 0 {
		return fmt.Errorf("drift.floor must be positive, got %v", c.Drift.Floor)
	}
	if c.Quality.MinDistinct < 1 {
		return fmt.Errorf("quality.min_distinct must be at least 1, got %d", c.Quality.MinDistinct)
	}
	if c.Train.Folds < 2 {
		return fmt.Errorf("train.folds must be at least 2, got %d", c.Train.Folds)
	}
	if c.Serve.Port < 1 || c.Serve.Port > 65535 {
		return fmt.Errorf("serve.port must be between 1 and 65535, got %d", c.Serve.Port)
	}
	return nil
}
