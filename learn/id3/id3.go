// Package id3 induces binary decision trees by recursive information-gain
// splitting, with optional minimum-gain and chi-square pre-pruning.
package id3

import (
	"math"

	"github.com/emirpasic/gods/sets/hashset"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/teranos/psam/errors"
	"github.com/teranos/psam/learn"
)

// Name is the algorithm identifier used on the command line and in run history.
const Name = "id3"

// Options are the optional pre-pruning thresholds. A nil threshold is off.
type Options struct {
	// MinGain stops splitting when the best information gain is below it.
	MinGain *float64
	// MinChiSquare stops splitting when the node's label counts are not
	// significantly different from an even split.
	MinChiSquare *float64
}

// Validate rejects thresholds that can never be meaningful.
func (o Options) Validate() error {
	if o.MinGain != nil && (math.IsNaN(*o.MinGain) || *o.MinGain < 0) {
		return errors.Wrapf(errors.ErrInvalidParameter, "min gain %v must be >= 0", *o.MinGain)
	}
	if o.MinChiSquare != nil && (math.IsNaN(*o.MinChiSquare) || *o.MinChiSquare < 0) {
		return errors.Wrapf(errors.ErrInvalidParameter, "min chi-square %v must be >= 0", *o.MinChiSquare)
	}
	return nil
}

// SignificanceThreshold returns the chi-square critical value with one
// degree of freedom for significance level p, e.g. 0.05 -> 3.841.
func SignificanceThreshold(p float64) (float64, error) {
	if math.IsNaN(p) || p <= 0 || p >= 1 {
		return 0, errors.WithHint(
			errors.Wrapf(errors.ErrInvalidParameter, "significance %v", p),
			"significance must be strictly between 0 and 1, e.g. 0.05")
	}
	return distuv.ChiSquared{K: 1}.Quantile(1 - p), nil
}

// Trainer builds decision trees with fixed pruning options.
type Trainer struct {
	Options Options
}

// New returns an ID3 trainer.
func New(opts Options) Trainer {
	return Trainer{Options: opts}
}

// Name implements learn.Trainer.
func (Trainer) Name() string {
	return Name
}

// Train implements learn.Trainer.
func (t Trainer) Train(insts []*learn.Instance) (learn.Model, error) {
	m, err := Train(insts, t.Options)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Model is a trained decision tree.
type Model struct {
	root node
}

// Train grows a tree over insts.
func Train(insts []*learn.Instance, opts Options) (*Model, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	nfeatures, err := learn.CheckTrainingSet(insts)
	if err != nil {
		return nil, err
	}
	b := &builder{nfeatures: nfeatures, opts: opts}
	return &Model{root: b.build(insts, hashset.New(), entropy(insts))}, nil
}

// Classify implements learn.Model by walking the tree.
func (m *Model) Classify(inst *learn.Instance) bool {
	return m.root.classify(inst)
}

// Stats returns the depth and node counts of the tree.
func (m *Model) Stats() Stats {
	return stats(m.root)
}
