package eval

import (
	"github.com/teranos/psam/errors"
	"github.com/teranos/psam/learn"
	"github.com/teranos/psam/learn/partition"
)

// Split is one training/test division of the corpus.
type Split struct {
	Training []*learn.Instance
	Test     []*learn.Instance
}

// Splits builds the training/test divisions for insts.
//
// A nil crossval gives a single split: the first half (rounded down) is the
// test set and the rest trains. A positive n gives n-way cross-validation and
// zero gives leave-one-out. Fold i tests on partition i and trains on every
// other partition in order.
func Splits(insts []*learn.Instance, crossval *int) ([]Split, error) {
	if crossval == nil {
		if len(insts) < 2 {
			return nil, errors.WithHint(
				errors.Wrapf(errors.ErrEmptyCorpus, "a 50/50 split needs at least 2 instances, have %d", len(insts)),
				"add instances to the corpus")
		}
		half := len(insts) / 2
		return []Split{{Training: insts[half:], Test: insts[:half]}}, nil
	}

	n := *crossval
	if n < 0 {
		return nil, errors.WithHint(
			errors.Wrapf(errors.ErrInvalidParameter, "crossval %d", n),
			"use a positive fold count, or 0 for leave-one-out")
	}
	if n == 0 {
		n = len(insts)
	}

	chunks, err := partition.Split(insts, n)
	if err != nil {
		return nil, errors.WithHint(err, "crossval cannot exceed the number of instances")
	}

	splits := make([]Split, len(chunks))
	for i, test := range chunks {
		training := make([]*learn.Instance, 0, len(insts)-len(test))
		for j, chunk := range chunks {
			if j != i {
				training = append(training, chunk...)
			}
		}
		splits[i] = Split{Training: training, Test: test}
	}
	return splits, nil
}
