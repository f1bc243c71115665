// Package knn implements a k-nearest-neighbor classifier over binary
// features. Feature vectors are packed into bitsets so Hamming distance is a
// popcount of the XOR, whatever the feature count.
package knn

import (
	"slices"

	"github.com/bits-and-blooms/bitset"

	"github.com/teranos/psam/errors"
	"github.com/teranos/psam/learn"
)

// Name is the algorithm identifier used on the command line and in run history.
const Name = "knn"

// DefaultK is the neighbor count used when none is configured.
const DefaultK = 5

// Trainer builds KNN models with a fixed neighbor count.
type Trainer struct {
	K int
}

// New returns a KNN trainer voting over k neighbors.
func New(k int) Trainer {
	return Trainer{K: k}
}

// Name implements learn.Trainer.
func (Trainer) Name() string {
	return Name
}

// Train implements learn.Trainer.
func (t Trainer) Train(insts []*learn.Instance) (learn.Model, error) {
	m, err := Train(t.K, insts)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// packed is an instance with its features compiled to a bitset.
type packed struct {
	label    learn.Label
	features *bitset.BitSet
}

// Model stores the compiled training instances.
type Model struct {
	// k is the number of neighbors that vote.
	k         int
	instances []packed
}

// pack sets bit i iff feature i is on.
func pack(features []uint8) *bitset.BitSet {
	b := bitset.New(uint(len(features)))
	for i, f := range features {
		if f > 0 {
			b.Set(uint(i))
		}
	}
	return b
}

// Train compiles every training instance. k must be at least 1.
func Train(k int, insts []*learn.Instance) (*Model, error) {
	if k < 1 {
		return nil, errors.WithHint(
			errors.Wrapf(errors.ErrInvalidParameter, "k = %d", k),
			"k must be at least 1")
	}
	if _, err := learn.CheckTrainingSet(insts); err != nil {
		return nil, err
	}

	compiled := make([]packed, len(insts))
	for i, inst := range insts {
		compiled[i] = packed{
			label:    inst.Label,
			features: pack(inst.Features),
		}
	}
	return &Model{k: k, instances: compiled}, nil
}

type neighbor struct {
	label    learn.Label
	distance uint
}

// Classify implements learn.Model: a majority vote over the k nearest stored
// instances by Hamming distance. Equal distances keep training order; a tied
// vote predicts label 0.
func (m *Model) Classify(inst *learn.Instance) bool {
	query := pack(inst.Features)

	neighbors := make([]neighbor, len(m.instances))
	for i, p := range m.instances {
		neighbors[i] = neighbor{
			label:    p.label,
			distance: p.features.SymmetricDifferenceCardinality(query),
		}
	}
	slices.SortStableFunc(neighbors, func(a, b neighbor) int {
		switch {
		case a.distance < b.distance:
			return -1
		case a.distance > b.distance:
			return 1
		default:
			return 0
		}
	})

	var votes [2]int
	for _, n := range neighbors[:min(m.k, len(neighbors))] {
		votes[n.label]++
	}
	return votes[learn.Positive] > votes[learn.Negative]
}

// K returns the neighbor count.
func (m *Model) K() int {
	return m.k
}

// Size returns the number of stored training instances.
func (m *Model) Size() int {
	return len(m.instances)
}
