package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/teranos/psam/am"
	"github.com/teranos/psam/corpus"
	"github.com/teranos/psam/display"
	"github.com/teranos/psam/errors"
	"github.com/teranos/psam/eval"
	"github.com/teranos/psam/history"
	"github.com/teranos/psam/learn"
	"github.com/teranos/psam/learn/id3"
	"github.com/teranos/psam/learn/knn"
	"github.com/teranos/psam/learn/nbayes"
	"github.com/teranos/psam/logger"
	"github.com/teranos/psam/plan"
	"github.com/teranos/psam/sym"
	"github.com/teranos/psam/version"
)

// AddEvalFlags registers the evaluation flags shared by every learner command.
func AddEvalFlags(root *cobra.Command) {
	flags := root.PersistentFlags()
	flags.Int("crossval", 0, "N-way cross-validation; 0 = leave-one-out; unset = single 50/50 split")
	flags.Uint64("seed", 0, "Shuffle seed; 0 = random (the seed used is logged with -v)")
	flags.String("format", am.DefaultFormat, "Result format: text, table, json")
	flags.Bool("record", false, "Record the run in the history database")
}

// NBayesCmd evaluates the naive Bayes learner
var NBayesCmd = &cobra.Command{
	Use:   "nbayes [features.csv]",
	Short: sym.NBayes + " Evaluate the naive Bayes learner",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEvaluation(cmd, args, plan.Experiment{Algorithm: nbayes.Name})
	},
}

// KNNCmd evaluates the k-nearest-neighbor learner
var KNNCmd = &cobra.Command{
	Use:   "knn [features.csv]",
	Short: sym.KNN + " Evaluate the k-nearest-neighbor learner",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		k := cfg.GetK()
		if cmd.Flags().Changed("k") {
			k, _ = cmd.Flags().GetInt("k")
		}
		return runEvaluation(cmd, args, plan.Experiment{Algorithm: knn.Name, K: &k})
	},
}

// ID3Cmd evaluates the decision-tree learner
var ID3Cmd = &cobra.Command{
	Use:   "id3 [features.csv]",
	Short: sym.ID3 + " Evaluate the ID3 decision-tree learner",
	Long: sym.ID3 + ` id3 - decision tree with optional pre-pruning.

Without thresholds the tree grows until every leaf is pure or no feature
adds information. --min-gain stops at splits gaining less than the given
number of bits. --min-chisquare stops at nodes whose label counts are not
significantly different from an even split; --significance gives the same
threshold as a p-value instead (0.05 corresponds to 3.841).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		exp := plan.Experiment{
			Algorithm:    id3.Name,
			MinGain:      cfg.ID3.MinGain,
			MinChiSquare: cfg.ID3.MinChiSquare,
			Significance: cfg.ID3.Significance,
		}
		if cmd.Flags().Changed("min-gain") {
			g, _ := cmd.Flags().GetFloat64("min-gain")
			exp.MinGain = &g
		}
		// A threshold given on the command line replaces either configured form
		if cmd.Flags().Changed("min-chisquare") {
			c, _ := cmd.Flags().GetFloat64("min-chisquare")
			exp.MinChiSquare, exp.Significance = &c, nil
		}
		if cmd.Flags().Changed("significance") {
			p, _ := cmd.Flags().GetFloat64("significance")
			exp.Significance = &p
			if !cmd.Flags().Changed("min-chisquare") {
				exp.MinChiSquare = nil
			}
		}
		return runEvaluation(cmd, args, exp)
	},
}

func init() {
	KNNCmd.Flags().IntP("k", "k", knn.DefaultK, "Number of neighbors that vote")

	ID3Cmd.Flags().Float64P("min-gain", "g", 0, "Minimum information gain (bits) to split")
	ID3Cmd.Flags().Float64P("min-chisquare", "c", 0, "Minimum chi-square statistic to split")
	ID3Cmd.Flags().Float64("significance", 0, "Chi-square pruning at this significance level, e.g. 0.05")
}

func loadConfig() (*am.Config, error) {
	cfg, err := am.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.WithHint(errors.Wrap(err, "invalid configuration"), "check with: psam am validate")
	}
	return cfg, nil
}

// evalSettings are the shared evaluation flags resolved against config.
type evalSettings struct {
	crossval  *int
	seed      uint64
	format    display.Format
	record    bool
	verbosity int
	dbPath    string
}

func resolveSettings(cmd *cobra.Command) (*evalSettings, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()

	s := &evalSettings{
		crossval: cfg.Eval.CrossVal,
		seed:     cfg.Eval.Seed,
		record:   cfg.Database.Record,
		dbPath:   cfg.GetDatabasePath(),
	}
	if flags.Changed("crossval") {
		n, _ := flags.GetInt("crossval")
		s.crossval = &n
	}
	if flags.Changed("seed") {
		s.seed, _ = flags.GetUint64("seed")
	}
	if flags.Changed("record") {
		s.record, _ = flags.GetBool("record")
	}
	s.verbosity, _ = flags.GetCount("verbose")

	format := cfg.Eval.Format
	if flags.Changed("format") {
		format, _ = flags.GetString("format")
	}
	if s.format, err = display.ParseFormat(format); err != nil {
		return nil, err
	}
	return s, nil
}

// modelInfoTrainer logs the shape of each trained model.
type modelInfoTrainer struct {
	learn.Trainer
	log *zap.SugaredLogger
}

func (t modelInfoTrainer) Train(insts []*learn.Instance) (learn.Model, error) {
	m, err := t.Trainer.Train(insts)
	if err != nil {
		return nil, err
	}
	switch model := m.(type) {
	case *id3.Model:
		s := model.Stats()
		t.log.Debugw("Trained tree", "depth", s.Depth, "branches", s.Branches, "leaves", s.Leaves)
	case *knn.Model:
		t.log.Debugw("Trained neighbors", "k", model.K(), "stored", model.Size())
	case *nbayes.Model:
		neg, pos := model.Counts()
		t.log.Debugw("Trained naive Bayes", "negative", neg, "positive", pos)
	}
	return m, nil
}

func runEvaluation(cmd *cobra.Command, args []string, exp plan.Experiment) error {
	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	trainer, err := exp.Trainer()
	if err != nil {
		return err
	}
	log := logger.ComponentLogger("eval")

	path := corpus.Stdin
	if len(args) == 1 {
		path = args[0]
	}
	c, err := corpus.Open(path)
	if err != nil {
		return err
	}
	insts := c.Refs()
	seed := corpus.Shuffle(insts, settings.seed)

	if logger.ShouldOutput(settings.verbosity, logger.OutputCorpus) {
		log.Infow("Corpus loaded",
			logger.FieldFile, c.Source,
			logger.FieldInstances, c.Len(),
			logger.FieldFeatures, c.NumFeatures,
			logger.FieldSeed, seed)
	}
	if logger.ShouldOutput(settings.verbosity, logger.OutputConfig) {
		log.Debugw("Learner configured",
			logger.FieldAlgorithm, trainer.Name(),
			"params", display.FormatParams(exp.Params()),
			logger.FieldCrossVal, settings.crossval)
	}
	if logger.ShouldOutput(settings.verbosity, logger.OutputModelInfo) {
		trainer = modelInfoTrainer{Trainer: trainer, log: log}
	}

	out := cmd.OutOrStdout()
	res, err := eval.Run(cmd.Context(), trainer, insts, eval.Options{
		CrossVal: settings.crossval,
		Logger:   log,
		OnFold:   foldPrinter(out, settings, log),
	})
	if err != nil {
		return err
	}

	run := newRun(exp, c, seed, settings.crossval, res)
	if settings.record {
		if err := recordRun(cmd, settings.dbPath, run); err != nil {
			return err
		}
	}

	switch settings.format {
	case display.FormatTable:
		return display.FoldTable(out, res.Algorithm, res.Folds, res.MeanAccuracy, res.StdDevAccuracy)
	case display.FormatJSON:
		return display.OutputJSON(out, run)
	}
	if logger.ShouldOutput(settings.verbosity, logger.OutputProgress) && len(res.Folds) > 1 {
		log.Infow("Evaluation complete",
			logger.FieldFolds, len(res.Folds),
			logger.FieldAccuracy, fmt.Sprintf("%.3f ± %.3f", res.MeanAccuracy, res.StdDevAccuracy))
	}
	return nil
}

// foldPrinter streams text-format fold lines as folds finish and emits the
// per-fold diagnostics the verbosity asks for.
func foldPrinter(out io.Writer, settings *evalSettings, log *zap.SugaredLogger) func(eval.FoldResult) {
	return func(f eval.FoldResult) {
		if settings.format == display.FormatText {
			if err := display.FoldLine(out, f); err != nil {
				log.Warnw("Failed to write fold", logger.FieldFold, f.Fold, logger.FieldError, err)
			}
		}
		if logger.ShouldOutput(settings.verbosity, logger.OutputTiming) {
			log.Debugw("Fold timing", logger.FieldFold, f.Fold, logger.FieldDurationMS, f.Duration.Milliseconds())
		}
		if logger.ShouldOutput(settings.verbosity, logger.OutputPredictions) {
			for _, p := range f.Predictions {
				log.Debugw("Prediction",
					logger.FieldFold, f.Fold,
					logger.FieldInstance, p.Name,
					"actual", learn.LabelFromBool(p.Actual),
					"predicted", learn.LabelFromBool(p.Predicted))
			}
		}
	}
}

func newRun(exp plan.Experiment, c *corpus.Corpus, seed uint64, crossval *int, res *eval.Result) *history.Run {
	return &history.Run{
		Algorithm:      res.Algorithm,
		Params:         exp.Params(),
		CrossVal:       crossval,
		Seed:           seed,
		Corpus:         c.Source,
		Instances:      c.Len(),
		Features:       c.NumFeatures,
		Folds:          res.Folds,
		MeanAccuracy:   res.MeanAccuracy,
		StdDevAccuracy: res.StdDevAccuracy,
		Version:        version.Version,
	}
}
