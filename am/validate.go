package am

import (
	"math"
	"slices"

	"github.com/teranos/psam/errors"
)

var validFormats = []string{"text", "table", "json"}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	// Crossval: nil = 50/50 split, 0 = leave-one-out, negative = invalid
	if c.Eval.CrossVal != nil && *c.Eval.CrossVal < 0 {
		return errors.Newf("eval.crossval must be >= 0, got %d (omit for a 50/50 split)", *c.Eval.CrossVal)
	}
	if c.Eval.Format != "" && !slices.Contains(validFormats, c.Eval.Format) {
		return errors.Newf("eval.format must be one of text, table, json, got %q", c.Eval.Format)
	}

	// k = 0 falls back to the default
	if c.KNN.K < 0 {
		return errors.Newf("knn.k must be >= 1, got %d", c.KNN.K)
	}

	if c.ID3.MinGain != nil && (*c.ID3.MinGain < 0 || math.IsNaN(*c.ID3.MinGain)) {
		return errors.Newf("id3.min_gain must be >= 0, got %v", *c.ID3.MinGain)
	}
	if c.ID3.MinChiSquare != nil && (*c.ID3.MinChiSquare < 0 || math.IsNaN(*c.ID3.MinChiSquare)) {
		return errors.Newf("id3.min_chisquare must be >= 0, got %v", *c.ID3.MinChiSquare)
	}
	if s := c.ID3.Significance; s != nil && !(*s > 0 && *s < 1) {
		return errors.Newf("id3.significance must be between 0 and 1, got %v", *s)
	}
	if c.ID3.MinChiSquare != nil && c.ID3.Significance != nil {
		return errors.New("id3.min_chisquare and id3.significance are mutually exclusive")
	}

	if c.Database.Record && c.Database.Path == "" {
		return errors.New("database.path cannot be empty when database.record is set")
	}

	return nil
}
