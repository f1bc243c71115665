// Package plan runs batches of experiments described in a TOML file.
//
//	corpus = "features.csv"
//	seed = 7
//
//	[[experiment]]
//	name = "knn-3"
//	algorithm = "knn"
//	k = 3
//	crossval = 10
//
//	[[experiment]]
//	algorithm = "id3"
//	min_gain = 0.05
//	significance = 0.05
//
// Top-level corpus, seed and crossval are defaults that each experiment may
// override. Relative corpus paths resolve against the plan file's directory.
package plan

import (
	"context"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"

	"github.com/teranos/psam/corpus"
	"github.com/teranos/psam/errors"
	"github.com/teranos/psam/eval"
	"github.com/teranos/psam/logger"
)

// Plan is a decoded plan file.
type Plan struct {
	Corpus      string       `toml:"corpus"`
	Seed        uint64       `toml:"seed"`
	CrossVal    *int         `toml:"crossval"`
	Experiments []Experiment `toml:"experiment"`

	// dir is where relative corpus paths resolve from.
	dir string
}

// Load decodes and validates the plan at path.
func Load(path string) (*Plan, error) {
	var p Plan
	md, err := toml.DecodeFile(path, &p)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse plan %s", path)
	}
	if err := checkUndecoded(md); err != nil {
		return nil, errors.Wrapf(err, "plan %s", path)
	}
	p.dir = filepath.Dir(path)
	if err := p.Validate(); err != nil {
		return nil, errors.Wrapf(err, "plan %s", path)
	}
	return &p, nil
}

// Decode reads a plan from r. Relative corpus paths resolve against dir.
func Decode(r io.Reader, dir string) (*Plan, error) {
	var p Plan
	md, err := toml.NewDecoder(r).Decode(&p)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse plan")
	}
	if err := checkUndecoded(md); err != nil {
		return nil, err
	}
	p.dir = dir
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func checkUndecoded(md toml.MetaData) error {
	undecoded := md.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}
	keys := make([]string, len(undecoded))
	for i, k := range undecoded {
		keys[i] = k.String()
	}
	sort.Strings(keys)
	return errors.WithHint(
		errors.Wrapf(errors.ErrInvalidRequest, "unknown keys: %s", strings.Join(keys, ", ")),
		"experiments accept name, algorithm, corpus, crossval, seed, k, min_gain, min_chisquare, significance")
}

// Validate checks every experiment and that each has a corpus to run on.
func (p *Plan) Validate() error {
	if len(p.Experiments) == 0 {
		return errors.WithHint(
			errors.Wrap(errors.ErrInvalidRequest, "plan has no experiments"),
			"add at least one [[experiment]] table")
	}
	if p.CrossVal != nil && *p.CrossVal < 0 {
		return errors.Wrapf(errors.ErrInvalidParameter, "crossval %d must be >= 0", *p.CrossVal)
	}
	for i, e := range p.Experiments {
		if err := e.Validate(); err != nil {
			return errors.Wrapf(err, "experiment %d", i+1)
		}
		if e.Corpus == "" && p.Corpus == "" {
			return errors.WithHint(
				errors.Wrapf(errors.ErrInvalidRequest, "experiment %d has no corpus", i+1),
				"set corpus at the top of the plan or in the experiment")
		}
	}
	return nil
}

// Resolved returns the experiments with plan-level defaults filled in and
// corpus paths made absolute relative to the plan.
func (p *Plan) Resolved() []Experiment {
	out := make([]Experiment, len(p.Experiments))
	for i, e := range p.Experiments {
		if e.Corpus == "" {
			e.Corpus = p.Corpus
		}
		if e.Corpus != corpus.Stdin && !filepath.IsAbs(e.Corpus) {
			e.Corpus = filepath.Join(p.dir, e.Corpus)
		}
		if e.CrossVal == nil {
			e.CrossVal = p.CrossVal
		}
		if e.Seed == nil {
			seed := p.Seed
			e.Seed = &seed
		}
		out[i] = e
	}
	return out
}

// Outcome is the evaluation of one experiment.
type Outcome struct {
	Experiment Experiment
	Corpus     *corpus.Corpus
	Seed       uint64
	Result     *eval.Result
}

// Run evaluates each experiment in order. Corpora are read once and shared
// between experiments that name the same file. OnOutcome, when set, is called
// as each experiment completes.
func (p *Plan) Run(ctx context.Context, log *zap.SugaredLogger, onOutcome func(Outcome)) ([]Outcome, error) {
	if log == nil {
		log = logger.ComponentLogger("plan")
	}

	loaded := map[string]*corpus.Corpus{}
	var outcomes []Outcome
	for i, e := range p.Resolved() {
		trainer, err := e.Trainer()
		if err != nil {
			return outcomes, errors.Wrapf(err, "experiment %d", i+1)
		}

		c, ok := loaded[e.Corpus]
		if !ok {
			c, err = corpus.Open(e.Corpus)
			if err != nil {
				return outcomes, errors.Wrapf(err, "experiment %d", i+1)
			}
			loaded[e.Corpus] = c
		}

		insts := c.Refs()
		seed := corpus.Shuffle(insts, *e.Seed)
		log.Infow("Running experiment",
			"experiment", e.Label(),
			logger.FieldFile, e.Corpus,
			logger.FieldSeed, seed,
			logger.FieldInstances, len(insts))

		res, err := eval.Run(ctx, trainer, insts, eval.Options{CrossVal: e.CrossVal, Logger: log})
		if err != nil {
			return outcomes, errors.Wrapf(err, "experiment %d (%s)", i+1, e.Label())
		}

		out := Outcome{Experiment: e, Corpus: c, Seed: seed, Result: res}
		outcomes = append(outcomes, out)
		if onOutcome != nil {
			onOutcome(out)
		}
	}
	return outcomes, nil
}
