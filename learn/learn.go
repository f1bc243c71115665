// Package learn defines the contracts shared by the binary-feature learners:
// the labeled Instance, the trained Model and the Trainer that produces it.
//
// Learners borrow instances as []*Instance and never mutate them. Each
// Trainer.Train call is independent and returns a fresh, immutable Model.
package learn

import (
	"github.com/teranos/psam/errors"
)

// Label is a binary classification label, 0 or 1.
type Label uint8

const (
	Negative Label = 0
	Positive Label = 1
)

// Bool reports whether the label is Positive.
func (l Label) Bool() bool {
	return l == Positive
}

// Valid reports whether the label is 0 or 1.
func (l Label) Valid() bool {
	return l == Negative || l == Positive
}

// LabelFromBool converts a prediction back into a Label.
func LabelFromBool(b bool) Label {
	if b {
		return Positive
	}
	return Negative
}

// Instance is a labeled fixed-length binary feature vector.
type Instance struct {
	// Name is opaque and used for diagnostics only.
	Name     string
	Label    Label
	Features []uint8
}

// NumFeatures returns the length of the feature vector.
func (i *Instance) NumFeatures() int {
	return len(i.Features)
}

// Validate checks the label and that the instance has exactly nfeatures
// binary feature values.
func (i *Instance) Validate(nfeatures int) error {
	if !i.Label.Valid() {
		return errors.Wrapf(errors.ErrInvalidLabel, "instance %q has label %d", i.Name, i.Label)
	}
	if len(i.Features) != nfeatures {
		return errors.Wrapf(errors.ErrFeatureCount,
			"instance %q has %d features, expected %d", i.Name, len(i.Features), nfeatures)
	}
	for f, v := range i.Features {
		if v > 1 {
			return errors.Wrapf(errors.ErrFeatureValue,
				"instance %q feature %d has value %d", i.Name, f, v)
		}
	}
	return nil
}

// Model is the result of training: it predicts a label for an instance.
// A Model is immutable after construction.
type Model interface {
	// Classify returns true when the instance is predicted to carry label 1.
	// inst must have the feature count the model was trained on; other
	// widths may panic.
	Classify(inst *Instance) bool
}

// Trainer builds a Model from training instances.
type Trainer interface {
	// Name identifies the algorithm (nbayes, knn, id3).
	Name() string
	// Train builds a model. Training on an empty set fails with
	// errors.ErrEmptyTrainingSet.
	Train(insts []*Instance) (Model, error)
}

// CheckTrainingSet verifies the preconditions every learner shares:
// a non-empty set whose instances all have the same feature count.
// It returns that feature count.
func CheckTrainingSet(insts []*Instance) (int, error) {
	if len(insts) == 0 {
		return 0, errors.WithHint(errors.ErrEmptyTrainingSet,
			"cross-validation needs at least two partitions; check --crossval")
	}
	nfeatures := insts[0].NumFeatures()
	for _, inst := range insts[1:] {
		if inst.NumFeatures() != nfeatures {
			return 0, errors.Wrapf(errors.ErrFeatureCount,
				"instance %q has %d features, expected %d", inst.Name, inst.NumFeatures(), nfeatures)
		}
	}
	return nfeatures, nil
}

// CountLabels returns the number of positive and negative instances.
func CountLabels(insts []*Instance) (npos, nneg int) {
	for _, inst := range insts {
		if inst.Label == Positive {
			npos++
		}
	}
	return npos, len(insts) - npos
}

// Refs returns pointers to each element of insts, in order.
func Refs(insts []Instance) []*Instance {
	refs := make([]*Instance, len(insts))
	for i := range insts {
		refs[i] = &insts[i]
	}
	return refs
}
