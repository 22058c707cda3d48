package config

// Default dataset and artifact locations. Every stage reads and writes
// plain files at these paths so that any step can be re-run in isolation.
const (
	DefaultReferencePath = "data/processed/reference.csv"
	DefaultCurrentPath   = "data/processed/current.csv"
	DefaultModelPath     = "models/model.json"
	DefaultMetadataPath  = "models/metadata.json"
	DefaultStateFile     = ".driftguard/state.db"
)

// Default quality gate policy.
const (
	DefaultTargetColumn = "target"
	DefaultMinDistinct  = 2
)

// Default drift policy.
const (
	DefaultThreshold = 0.25
	DefaultBins      = 10
	DefaultFloor     = 1e-4
)

// Default training hyperparameters.
const (
	DefaultExperiment   = "driftguard"
	DefaultEpochs       = 50
	DefaultBatchSize    = 32
	DefaultLearningRate = 0.1
	DefaultFolds        = 5
)

// DefaultTrainExclude lists columns never used as features.
var DefaultTrainExclude = []string{"flight_date", "year"}

// DefaultServePort is the model server's listen port.
const DefaultServePort = 8000

// DefaultOutput is the default output format (auto-detect based on TTY).
const DefaultOutput = "auto"
