package train

// trainer.go - logistic regression fitting with k-fold cross-validation

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/driftlabs/driftguard/pkg/dataset"
)

// Defaults for the fitting procedure.
const (
	DefaultEpochs       = 50
	DefaultBatchSize    = 32
	DefaultLearningRate = 0.1
	DefaultFolds        = 5
)

// DefaultExclude lists columns dropped from the feature set besides the
// target. The raw flight exports carry these bookkeeping columns.
var DefaultExclude = []string{"flight_date", "year"}

// Config holds one training invocation.
type Config struct {
	// InputPath is the training dataset (header-row CSV).
	InputPath string
	// Target is the binary target column name.
	Target string
	// Experiment labels the run in metadata.
	Experiment string

	// ModelPath and MetadataPath are where the artifact lands.
	ModelPath    string
	MetadataPath string

	// Exclude lists non-feature columns besides the target.
	Exclude []string

	// Fitting hyperparameters; zero values select the defaults.
	Epochs       int
	BatchSize    int
	LearningRate float64
	Folds        int
	Seed         int64

	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
}

func (c Config) epochs() int {
	if c.Epochs <= 0 {
		return DefaultEpochs
	}
	return c.Epochs
}

func (c Config) batchSize() int {
	if c.BatchSize <= 0 {
		return DefaultBatchSize
	}
	return c.BatchSize
}

func (c Config) learningRate() float64 {
	if c.LearningRate <= 0 {
		return DefaultLearningRate
	}
	return c.LearningRate
}

func (c Config) folds() int {
	if c.Folds <= 1 {
		return DefaultFolds
	}
	return c.Folds
}

// Run loads the dataset, cross-validates, fits on the full data and
// persists the model artifact plus metadata.
func Run(cfg Config) (*Metadata, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	target := cfg.Target
	if target == "" {
		target = "target"
	}
	exclude := cfg.Exclude
	if exclude == nil {
		exclude = DefaultExclude
	}

	snapshot, err := dataset.Load(cfg.InputPath, target)
	if err != nil {
		return nil, err
	}
	if !snapshot.HasColumn(target) {
		return nil, fmt.Errorf("target column %q not in data; columns: %s",
			target, strings.Join(snapshot.ColumnNames(), ", "))
	}

	encoder, err := NewEncoder(snapshot, target, exclude)
	if err != nil {
		return nil, err
	}
	x, err := encoder.Encode(snapshot)
	if err != nil {
		return nil, err
	}
	y, err := targetLabels(snapshot, target)
	if err != nil {
		return nil, err
	}

	logger.Info("training started",
		"input", cfg.InputPath,
		"samples", len(x),
		"features", len(encoder.Specs()),
		"folds", cfg.folds(),
	)

	seed := cfg.Seed
	if seed == 0 {
		seed = 42
	}
	rng := rand.New(rand.NewSource(seed))

	aucMean, aucStd := crossValidate(cfg, rng, x, y)

	// Fit on the full data.
	model := fitLogistic(cfg, rng, x, y)
	model.Target = target
	model.Features = encoder.Specs()

	if err := SaveModel(model, cfg.ModelPath); err != nil {
		return nil, err
	}

	nNumeric, nCategorical := 0, 0
	seen := make(map[string]struct{})
	for _, spec := range encoder.Specs() {
		if _, ok := seen[spec.Column]; ok {
			continue
		}
		seen[spec.Column] = struct{}{}
		if spec.Kind == FeatureNumeric {
			nNumeric++
		} else {
			nCategorical++
		}
	}

	md := &Metadata{
		RunID:        uuid.New().String(),
		Experiment:   cfg.Experiment,
		Timestamp:    time.Now().UTC(),
		Target:       target,
		FeatureCols:  encoder.FeatureColumns(),
		CVAUCMean:    aucMean,
		CVAUCStd:     aucStd,
		NSamples:     len(x),
		NNumeric:     nNumeric,
		NCategorical: nCategorical,
	}
	if err := SaveMetadata(md, cfg.MetadataPath); err != nil {
		return nil, err
	}

	logger.Info("training completed",
		"cv_auc_mean", aucMean,
		"cv_auc_std", aucStd,
		"model", cfg.ModelPath,
		"metadata", cfg.MetadataPath,
	)
	return md, nil
}

// targetLabels parses the target column into 0/1 labels. Missing target
// rows are rejected; the gate should have caught them upstream.
func targetLabels(s *dataset.Snapshot, target string) ([]float64, error) {
	col, _ := s.Column(target)
	labels := make([]float64, 0, col.Len())
	for i := 0; i < col.Len(); i++ {
		cell, present := col.Cell(i)
		if !present {
			return nil, fmt.Errorf("row %d: missing target value", i+1)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil || (f != 0 && f != 1) {
			return nil, fmt.Errorf("row %d: target value %q is not binary", i+1, cell)
		}
		labels = append(labels, f)
	}
	return labels, nil
}

// crossValidate estimates out-of-sample ROC-AUC over shuffled folds. Folds
// whose held-out slice is single-class contribute nothing.
func crossValidate(cfg Config, rng *rand.Rand, x [][]float64, y []float64) (meanAUC, stdAUC float64) {
	k := cfg.folds()
	if len(x) < k {
		k = len(x)
	}
	if k < 2 {
		return 0, 0
	}

	idx := rng.Perm(len(x))
	var scores []float64
	for fold := 0; fold < k; fold++ {
		var trainX, testX [][]float64
		var trainY, testY []float64
		for pos, i := range idx {
			if pos%k == fold {
				testX = append(testX, x[i])
				testY = append(testY, y[i])
			} else {
				trainX = append(trainX, x[i])
				trainY = append(trainY, y[i])
			}
		}
		if singleClass(testY) || singleClass(trainY) {
			continue
		}
		model := fitLogistic(cfg, rng, trainX, trainY)
		scores = append(scores, rocAUC(testY, model.PredictProba(testX)))
	}

	if len(scores) == 0 {
		return 0, 0
	}
	return mean(scores), std(scores)
}

// fitLogistic trains logistic regression with minibatch SGD on the log
// loss.
func fitLogistic(cfg Config, rng *rand.Rand, x [][]float64, y []float64) *Model {
	nFeatures := 0
	if len(x) > 0 {
		nFeatures = len(x[0])
	}

	w := make([]float64, nFeatures)
	for i := range w {
		w[i] = rng.NormFloat64() * 0.01
	}
	b := 0.0

	lr := cfg.learningRate()
	batch := cfg.batchSize()
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}

	gw := make([]float64, nFeatures)
	for epoch := 0; epoch < cfg.epochs(); epoch++ {
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		for start := 0; start < len(idx); start += batch {
			end := start + batch
			if end > len(idx) {
				end = len(idx)
			}

			for j := range gw {
				gw[j] = 0
			}
			gb := 0.0
			for _, i := range idx[start:end] {
				row := x[i]
				z := b
				for j, v := range row {
					z += w[j] * v
				}
				g := sigmoid(z) - y[i]
				for j, v := range row {
					gw[j] += g * v
				}
				gb += g
			}

			scale := lr / float64(end-start)
			for j := range w {
				w[j] -= scale * gw[j]
			}
			b -= scale * gb
		}
	}

	return &Model{Weights: w, Bias: b}
}

// rocAUC computes the area under the ROC curve by the rank method, with
// average ranks for tied scores.
func rocAUC(labels, scores []float64) float64 {
	type pair struct {
		score float64
		label float64
	}
	pairs := make([]pair, len(labels))
	for i := range labels {
		pairs[i] = pair{scores[i], labels[i]}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].score < pairs[j].score })

	nPos, nNeg := 0.0, 0.0
	rankSum := 0.0
	i := 0
	for i < len(pairs) {
		j := i
		for j < len(pairs) && pairs[j].score == pairs[i].score {
			j++
		}
		avgRank := float64(i+j+1) / 2 // ranks are 1-based
		for k := i; k < j; k++ {
			if pairs[k].label == 1 {
				rankSum += avgRank
				nPos++
			} else {
				nNeg++
			}
		}
		i = j
	}
	if nPos == 0 || nNeg == 0 {
		return math.NaN()
	}
	return (rankSum - nPos*(nPos+1)/2) / (nPos * nNeg)
}

func singleClass(y []float64) bool {
	if len(y) == 0 {
		return true
	}
	first := y[0]
	for _, v := range y[1:] {
		if v != first {
			return false
		}
	}
	return true
}
