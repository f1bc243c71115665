// Package eval trains a learner on each training/test split of a corpus and
// tallies how its predictions compare with the true labels.
package eval

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/teranos/psam/errors"
	"github.com/teranos/psam/learn"
	"github.com/teranos/psam/logger"
)

// Prediction is a single classified test instance.
type Prediction struct {
	Name      string `json:"name"`
	Actual    bool   `json:"actual"`
	Predicted bool   `json:"predicted"`
}

// FoldResult is the outcome of training and testing on one split.
type FoldResult struct {
	Fold        int           `json:"fold"`
	Training    int           `json:"training"`
	Test        int           `json:"test"`
	Confusion   Confusion     `json:"confusion"`
	Accuracy    float64       `json:"accuracy"`
	Duration    time.Duration `json:"duration_ns"`
	Predictions []Prediction  `json:"-"`
}

// Evaluate trains on split.Training and classifies every test instance.
func Evaluate(trainer learn.Trainer, split Split) (FoldResult, error) {
	start := time.Now()
	model, err := trainer.Train(split.Training)
	if err != nil {
		return FoldResult{}, errors.Wrapf(err, "%s training on %d instances", trainer.Name(), len(split.Training))
	}

	res := FoldResult{
		Training:    len(split.Training),
		Test:        len(split.Test),
		Predictions: make([]Prediction, 0, len(split.Test)),
	}
	for _, inst := range split.Test {
		actual := inst.Label.Bool()
		predicted := model.Classify(inst)
		res.Confusion.Add(actual, predicted)
		res.Predictions = append(res.Predictions, Prediction{Name: inst.Name, Actual: actual, Predicted: predicted})
	}
	res.Accuracy = res.Confusion.Accuracy()
	res.Duration = time.Since(start)
	return res, nil
}

// Options configure Run.
type Options struct {
	// CrossVal selects the split scheme; see Splits.
	CrossVal *int
	// OnFold, when set, is called after each fold completes.
	OnFold func(FoldResult)
	// Logger receives progress; defaults to the "eval" component logger.
	Logger *zap.SugaredLogger
}

// Result aggregates every fold of one evaluation.
type Result struct {
	Algorithm      string       `json:"algorithm"`
	Folds          []FoldResult `json:"folds"`
	Total          Confusion    `json:"total"`
	MeanAccuracy   float64      `json:"mean_accuracy"`
	StdDevAccuracy float64      `json:"stddev_accuracy"`
}

// Run evaluates trainer over every split of insts in order. ctx is checked
// between folds; a cancelled run returns the context error.
func Run(ctx context.Context, trainer learn.Trainer, insts []*learn.Instance, opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = logger.ComponentLogger("eval")
	}

	splits, err := Splits(insts, opts.CrossVal)
	if err != nil {
		return nil, err
	}

	log.Debugw("Starting evaluation",
		logger.FieldAlgorithm, trainer.Name(),
		logger.FieldInstances, len(insts),
		logger.FieldFolds, len(splits))

	res := &Result{Algorithm: trainer.Name(), Folds: make([]FoldResult, 0, len(splits))}
	for i, split := range splits {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrapf(err, "evaluation stopped before fold %d of %d", i+1, len(splits))
		}

		fold, err := Evaluate(trainer, split)
		if err != nil {
			return nil, errors.Wrapf(err, "fold %d", i+1)
		}
		fold.Fold = i + 1

		log.Debugw("Fold complete",
			logger.FieldFold, fold.Fold,
			logger.FieldTraining, fold.Training,
			logger.FieldTest, fold.Test,
			logger.FieldAccuracy, fold.Accuracy,
			logger.FieldDurationMS, fold.Duration.Milliseconds())

		res.Folds = append(res.Folds, fold)
		res.Total.Merge(fold.Confusion)
		if opts.OnFold != nil {
			opts.OnFold(fold)
		}
	}

	res.MeanAccuracy, res.StdDevAccuracy = Summarize(res.Folds)
	return res, nil
}

// Summarize returns the mean and sample standard deviation of fold
// accuracies. A single fold has zero deviation.
func Summarize(folds []FoldResult) (mean, stddev float64) {
	if len(folds) == 0 {
		return 0, 0
	}
	acc := make([]float64, len(folds))
	for i, f := range folds {
		acc[i] = f.Accuracy
	}
	if len(acc) == 1 {
		return acc[0], 0
	}
	return stat.MeanStdDev(acc, nil)
}
