// Package commands implements the driftguard subcommands.
package commands

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/driftlabs/driftguard/internal/cli/config"
	"github.com/driftlabs/driftguard/internal/cli/output"
	"github.com/driftlabs/driftguard/internal/state"
	"github.com/driftlabs/driftguard/pkg/dataset"
	"github.com/driftlabs/driftguard/pkg/drift"
	"github.com/driftlabs/driftguard/pkg/quality"
)

// ExitError carries a documented exit code through cobra's error path.
// Collaborating processes read the outcome from the exit code alone, so the
// code is part of the contract, not a detail.
type ExitError struct {
	Code int
	Msg  string
}

func (e *ExitError) Error() string {
	return e.Msg
}

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext resolves config, logger and renderer for a command.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// getConfig returns the current configuration, falling back to defaults when
// no configuration was loaded (tests invoking commands directly).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return &config.Config{
		ReferencePath: config.DefaultReferencePath,
		CurrentPath:   config.DefaultCurrentPath,
		StatePath:     config.DefaultStateFile,
		OutputFormat:  config.DefaultOutput,
		Quality: config.QualityConfig{
			Target:      config.DefaultTargetColumn,
			MinDistinct: config.DefaultMinDistinct,
		},
		Drift: config.DriftConfig{
			Threshold: config.DefaultThreshold,
			Bins:      config.DefaultBins,
			Floor:     config.DefaultFloor,
		},
		Train: config.TrainConfig{
			ModelPath:    config.DefaultModelPath,
			MetadataPath: config.DefaultMetadataPath,
			Experiment:   config.DefaultExperiment,
		},
		Serve: config.ServeConfig{
			Port: config.DefaultServePort,
		},
		Pipeline: config.PipelineConfig{History: true},
	}
}

// qualityOptions maps config onto the gate's option set.
func qualityOptions(cfg *config.Config, logger *slog.Logger) quality.Options {
	return quality.Options{
		TargetColumn:    cfg.Quality.Target,
		MinDistinct:     cfg.Quality.MinDistinct,
		RequiredColumns: cfg.Quality.RequiredColumns,
		Disabled:        cfg.Quality.Disabled,
		Logger:          logger,
	}
}

// driftOptions maps config onto the comparator's option set.
func driftOptions(cfg *config.Config) drift.Options {
	return drift.Options{
		Bins:  cfg.Drift.Bins,
		Floor: cfg.Drift.Floor,
	}
}

// loadSnapshots reads the reference and current datasets.
func loadSnapshots(cfg *config.Config) (reference, current *dataset.Snapshot, err error) {
	reference, err = dataset.Load(cfg.ReferencePath, cfg.Quality.Target)
	if err != nil {
		return nil, nil, err
	}
	current, err = dataset.Load(cfg.CurrentPath, cfg.Quality.Target)
	if err != nil {
		return nil, nil, err
	}
	return reference, current, nil
}

// ensureStateDir creates the ledger's parent directory.
func ensureStateDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0750)
}

// openStore opens the run ledger. Ledger trouble never fails a command: the
// store degrades to nil and history is simply not recorded.
func openStore(cfg *config.Config, logger *slog.Logger) state.Store {
	if !cfg.Pipeline.History || cfg.StatePath == "" {
		return nil
	}
	if err := ensureStateDir(cfg.StatePath); err != nil {
		logger.Warn("failed to create state directory", "path", cfg.StatePath, "error", err)
		return nil
	}
	store, err := state.Open(cfg.StatePath)
	if err != nil {
		logger.Warn("failed to open run ledger", "path", cfg.StatePath, "error", err)
		return nil
	}
	return store
}

func closeStore(store state.Store) {
	if store != nil {
		_ = store.Close()
	}
}
