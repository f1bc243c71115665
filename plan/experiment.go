package plan

import (
	"fmt"
	"slices"
	"strings"

	"github.com/teranos/psam/errors"
	"github.com/teranos/psam/learn"
	"github.com/teranos/psam/learn/id3"
	"github.com/teranos/psam/learn/knn"
	"github.com/teranos/psam/learn/nbayes"
)

// Algorithms lists the learner names an experiment may use.
var Algorithms = []string{nbayes.Name, knn.Name, id3.Name}

// Experiment is one learner configuration evaluated over a corpus.
// Unset fields inherit from the plan or fall back to learner defaults.
type Experiment struct {
	Name         string   `toml:"name"`
	Algorithm    string   `toml:"algorithm"`
	Corpus       string   `toml:"corpus"`
	CrossVal     *int     `toml:"crossval"`
	Seed         *uint64  `toml:"seed"`
	K            *int     `toml:"k"`
	MinGain      *float64 `toml:"min_gain"`
	MinChiSquare *float64 `toml:"min_chisquare"`
	Significance *float64 `toml:"significance"`
}

// Label is the experiment name, or a description built from its parameters.
func (e Experiment) Label() string {
	if e.Name != "" {
		return e.Name
	}
	params := e.Params()
	parts := []string{e.Algorithm}
	for _, k := range sortedKeys(params) {
		parts = append(parts, fmt.Sprintf("%s=%g", k, params[k]))
	}
	return strings.Join(parts, " ")
}

// Validate checks the algorithm is known and that only parameters it uses
// are set.
func (e Experiment) Validate() error {
	if !slices.Contains(Algorithms, e.Algorithm) {
		return errors.WithHintf(
			errors.Wrapf(errors.ErrInvalidParameter, "unknown algorithm %q", e.Algorithm),
			"algorithm must be one of: %s", strings.Join(Algorithms, ", "))
	}
	if e.CrossVal != nil && *e.CrossVal < 0 {
		return errors.Wrapf(errors.ErrInvalidParameter, "crossval %d must be >= 0", *e.CrossVal)
	}

	if e.Algorithm != knn.Name && e.K != nil {
		return errors.Wrapf(errors.ErrInvalidParameter, "k applies to knn, not %s", e.Algorithm)
	}
	if e.K != nil && *e.K < 1 {
		return errors.Wrapf(errors.ErrInvalidParameter, "k %d must be >= 1", *e.K)
	}

	if e.Algorithm != id3.Name && (e.MinGain != nil || e.MinChiSquare != nil || e.Significance != nil) {
		return errors.Wrapf(errors.ErrInvalidParameter,
			"min_gain, min_chisquare and significance apply to id3, not %s", e.Algorithm)
	}
	if e.MinChiSquare != nil && e.Significance != nil {
		return errors.WithHint(
			errors.Wrap(errors.ErrInvalidParameter, "min_chisquare and significance are mutually exclusive"),
			"significance is converted to a chi-square threshold; set only one")
	}
	if e.Significance != nil {
		if _, err := id3.SignificanceThreshold(*e.Significance); err != nil {
			return err
		}
	}
	return id3.Options{MinGain: e.MinGain, MinChiSquare: e.MinChiSquare}.Validate()
}

// Options resolves the ID3 pruning options, converting a significance level
// to its chi-square threshold.
func (e Experiment) Options() (id3.Options, error) {
	opts := id3.Options{MinGain: e.MinGain, MinChiSquare: e.MinChiSquare}
	if e.Significance != nil {
		threshold, err := id3.SignificanceThreshold(*e.Significance)
		if err != nil {
			return id3.Options{}, err
		}
		opts.MinChiSquare = &threshold
	}
	return opts, nil
}

// Trainer builds the configured learner.
func (e Experiment) Trainer() (learn.Trainer, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	switch e.Algorithm {
	case nbayes.Name:
		return nbayes.New(), nil
	case knn.Name:
		k := knn.DefaultK
		if e.K != nil {
			k = *e.K
		}
		return knn.New(k), nil
	default:
		opts, err := e.Options()
		if err != nil {
			return nil, err
		}
		return id3.New(opts), nil
	}
}

// Params returns the learner parameters that were set, keyed by their plan
// names, for display and run history.
func (e Experiment) Params() map[string]float64 {
	params := map[string]float64{}
	if e.K != nil {
		params["k"] = float64(*e.K)
	}
	if e.MinGain != nil {
		params["min_gain"] = *e.MinGain
	}
	if e.MinChiSquare != nil {
		params["min_chisquare"] = *e.MinChiSquare
	}
	if e.Significance != nil {
		params["significance"] = *e.Significance
	}
	return params
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
