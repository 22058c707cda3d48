package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/driftlabs/driftguard/internal/cli/output"
	"github.com/driftlabs/driftguard/internal/pipeline"
	"github.com/driftlabs/driftguard/internal/train"
)

// TrainOptions holds options for the train command.
type TrainOptions struct {
	Input      string // Training dataset path
	Experiment string // Experiment label for metadata
	Seed       int64  // RNG seed for reproducible fits
}

// NewTrainCommand creates the train command.
func NewTrainCommand() *cobra.Command {
	opts := &TrainOptions{}
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Fit a model on the reference dataset",
		Long: `Fit a logistic regression on the reference dataset with k-fold
cross-validation, then persist the model artifact and its metadata as
plain JSON files. The artifact is self-contained: the encoder's feature
specs travel with the weights so serving needs nothing else.`,
		Example: `  # Train on the configured reference dataset
  driftguard train

  # Train on a specific file under a named experiment
  driftguard train --input data/processed/reference.csv --experiment flight-delay-v2`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTrain(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Input, "input", "", "Training dataset (default: configured reference)")
	cmd.Flags().StringVar(&opts.Experiment, "experiment", "", "Experiment label (default from config)")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "RNG seed for reproducible fits")

	return cmd
}

func runTrain(cmd *cobra.Command, opts *TrainOptions) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	input := cfg.ReferencePath
	if opts.Input != "" {
		input = opts.Input
	}
	experiment := cfg.Train.Experiment
	if opts.Experiment != "" {
		experiment = opts.Experiment
	}

	// Ensure the artifact directory exists before the fit runs.
	modelsDir := filepath.Dir(cfg.Train.ModelPath)
	if modelsDir != "." && modelsDir != "" {
		if err := os.MkdirAll(modelsDir, 0750); err != nil {
			return &ExitError{Code: pipeline.ExitError, Msg: fmt.Sprintf("failed to create models directory: %v", err)}
		}
	}

	md, err := train.Run(train.Config{
		InputPath:    input,
		Target:       cfg.Quality.Target,
		Experiment:   experiment,
		ModelPath:    cfg.Train.ModelPath,
		MetadataPath: cfg.Train.MetadataPath,
		Exclude:      cfg.Train.Exclude,
		Epochs:       cfg.Train.Epochs,
		BatchSize:    cfg.Train.BatchSize,
		LearningRate: cfg.Train.LearningRate,
		Folds:        cfg.Train.Folds,
		Seed:         opts.Seed,
		Logger:       cmdCtx.Logger,
	})
	if err != nil {
		return &ExitError{Code: pipeline.ExitError, Msg: err.Error()}
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(md)
	}

	r.Table([]string{"Metric", "Value"}, [][]string{
		{"Run ID", md.RunID},
		{"Experiment", md.Experiment},
		{"Samples", fmt.Sprintf("%d", md.NSamples)},
		{"Numeric features", fmt.Sprintf("%d", md.NNumeric)},
		{"Categorical features", fmt.Sprintf("%d", md.NCategorical)},
		{"CV AUC", fmt.Sprintf("%.4f ± %.4f", md.CVAUCMean, md.CVAUCStd)},
	})
	r.Success(fmt.Sprintf("Model saved to %s", cfg.Train.ModelPath))
	return nil
}
