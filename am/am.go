// Package am loads psam's configuration: learner defaults, evaluation
// settings, run history storage and logging.
//
// Values cascade from built-in defaults < /etc/psam/am.toml < ~/.psam/am.toml
// < the nearest am.toml found walking up from the working directory
// < PSAM_* environment variables. Command-line flags override all of these.
package am

// Config represents the psam configuration
type Config struct {
	Eval     EvalConfig     `mapstructure:"eval"`
	KNN      KNNConfig      `mapstructure:"knn"`
	ID3      ID3Config      `mapstructure:"id3"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
}

// EvalConfig configures the evaluation driver
type EvalConfig struct {
	CrossVal *int   `mapstructure:"crossval"` // nil = single 50/50 split, 0 = leave-one-out
	Seed     uint64 `mapstructure:"seed"`     // shuffle seed, 0 = random
	Format   string `mapstructure:"format"`   // text, table or json
}

// KNNConfig configures the nearest-neighbor learner
type KNNConfig struct {
	K int `mapstructure:"k"` // neighbors consulted per vote (default: 5)
}

// ID3Config configures decision-tree pre-pruning. Unset thresholds are off.
type ID3Config struct {
	MinGain      *float64 `mapstructure:"min_gain"`
	MinChiSquare *float64 `mapstructure:"min_chisquare"`
	Significance *float64 `mapstructure:"significance"` // converted to a chi-square threshold
}

// DatabaseConfig configures the run history database
type DatabaseConfig struct {
	Path   string `mapstructure:"path"`
	Record bool   `mapstructure:"record"` // record every evaluation without --record
}

// LogConfig configures diagnostic logging on stderr
type LogConfig struct {
	JSON  bool   `mapstructure:"json"`
	Theme string `mapstructure:"theme"` // gruvbox or everforest
}

// File system constants
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)
