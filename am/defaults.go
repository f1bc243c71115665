package am

import (
	"fmt"

	"github.com/spf13/viper"
)

// Default values
const (
	DefaultDatabasePath = "psam.db"
	DefaultFormat       = "text"
	DefaultK            = 5
	DefaultLogTheme     = "everforest"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("eval.seed", 0) // random, reported so runs can be repeated
	v.SetDefault("eval.format", DefaultFormat)

	v.SetDefault("knn.k", DefaultK)

	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("database.record", false)

	v.SetDefault("log.json", false)
	v.SetDefault("log.theme", DefaultLogTheme)
}

// BindEnvVars binds keys that have no default, so AutomaticEnv alone would
// not surface them during Unmarshal
func BindEnvVars(v *viper.Viper) {
	v.BindEnv("eval.crossval", "PSAM_EVAL_CROSSVAL")
	v.BindEnv("id3.min_gain", "PSAM_ID3_MIN_GAIN")
	v.BindEnv("id3.min_chisquare", "PSAM_ID3_MIN_CHISQUARE")
	v.BindEnv("id3.significance", "PSAM_ID3_SIGNIFICANCE")
}

// GetDatabasePath returns the configured database path
func (c *Config) GetDatabasePath() string {
	if c.Database.Path == "" {
		return DefaultDatabasePath
	}
	return c.Database.Path
}

// GetK returns the configured neighbor count (default: 5)
func (c *Config) GetK() int {
	if c.KNN.K == 0 {
		return DefaultK
	}
	return c.KNN.K
}

// String returns a string representation of the config
func (c *Config) String() string {
	cv := "50/50"
	if c.Eval.CrossVal != nil {
		cv = fmt.Sprint(*c.Eval.CrossVal)
	}
	return fmt.Sprintf("Config{Eval: {CrossVal: %s, Seed: %d, Format: %s}, KNN: {K: %d}, Database: %s}",
		cv, c.Eval.Seed, c.Eval.Format, c.KNN.K, c.Database.Path)
}
