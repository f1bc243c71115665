// Package nbayes implements a naive Bayes classifier over binary features
// with add-0.5 (Laplace-style) smoothing.
package nbayes

import (
	"math"

	"github.com/teranos/psam/errors"
	"github.com/teranos/psam/learn"
)

// Name is the algorithm identifier used on the command line and in run history.
const Name = "nbayes"

// Trainer builds naive Bayes models. It has no parameters.
type Trainer struct{}

// New returns a naive Bayes trainer.
func New() Trainer {
	return Trainer{}
}

// Name implements learn.Trainer.
func (Trainer) Name() string {
	return Name
}

// Train implements learn.Trainer.
func (Trainer) Train(insts []*learn.Instance) (learn.Model, error) {
	m, err := Train(insts)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Model holds per-label and per-label/feature/value occurrence counts.
type Model struct {
	ntraining int
	// nsH[label] is the number of training instances with that label.
	nsH [2]int
	// nEH[label][feature][value] counts instances with that label whose
	// feature has that value.
	nEH [2][][2]int
}

// Train counts label and feature occurrences. Feature values must be 0 or 1
// since they index a two-slot table.
func Train(insts []*learn.Instance) (*Model, error) {
	nfeatures, err := learn.CheckTrainingSet(insts)
	if err != nil {
		return nil, err
	}

	m := &Model{ntraining: len(insts)}
	for label := range m.nEH {
		m.nEH[label] = make([][2]int, nfeatures)
	}

	for _, inst := range insts {
		if !inst.Label.Valid() {
			return nil, errors.Wrapf(errors.ErrInvalidLabel, "instance %q has label %d", inst.Name, inst.Label)
		}
		m.nsH[inst.Label]++
		counts := m.nEH[inst.Label]
		for f, v := range inst.Features {
			if v > 1 {
				return nil, errors.WithHint(
					errors.Wrapf(errors.ErrFeatureValue, "instance %q feature %d has value %d", inst.Name, f, v),
					"naive Bayes requires feature values of 0 or 1")
			}
			counts[f][v]++
		}
	}
	return m, nil
}

// score computes the prior-weighted smoothed log-likelihood of label.
//
// Note this multiplies the summed log-likelihood by the prior instead of
// adding log(prior) as the textbook MAP rule would. Kept as-is so results
// match earlier psam runs; changing it changes predictions.
func (m *Model) score(inst *learn.Instance, label learn.Label) float64 {
	t := float64(m.nsH[label])
	counts := m.nEH[label]
	var logprEH float64
	for f, v := range inst.Features {
		c := float64(counts[f][v])
		logprEH += math.Log2((c + 0.5) / (t + 0.5))
	}
	prH := t / float64(m.ntraining)
	return logprEH * prH
}

// Classify implements learn.Model. The instance must have the training
// feature count and binary values; corpus loading guarantees both.
func (m *Model) Classify(inst *learn.Instance) bool {
	return m.score(inst, learn.Positive) > m.score(inst, learn.Negative)
}

// Counts returns the number of training instances per label.
func (m *Model) Counts() (neg, pos int) {
	return m.nsH[learn.Negative], m.nsH[learn.Positive]
}
