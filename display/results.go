package display

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/teranos/psam/eval"
	"github.com/teranos/psam/history"
	"github.com/teranos/psam/plan"
	"github.com/teranos/psam/sym"
	"github.com/teranos/psam/version"
)

func pct(f float64) string {
	return strconv.FormatFloat(f, 'f', 3, 64)
}

// FoldLine writes the plain-text line for one fold.
func FoldLine(w io.Writer, fold eval.FoldResult) error {
	_, err := fmt.Fprintln(w, fold.Confusion.String())
	return err
}

func renderTable(w io.Writer, data pterm.TableData) error {
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

// FoldTable writes every fold with its confusion counts and rates, followed
// by the mean and standard deviation of accuracy.
func FoldTable(w io.Writer, algorithm string, folds []eval.FoldResult, mean, stddev float64) error {
	data := pterm.TableData{{"fold", "train", "test", "n00", "n01", "n10", "n11", "acc", "fpr", "fnr"}}
	for _, f := range folds {
		c := f.Confusion
		data = append(data, []string{
			strconv.Itoa(f.Fold), strconv.Itoa(f.Training), strconv.Itoa(f.Test),
			strconv.Itoa(c[0]), strconv.Itoa(c[1]), strconv.Itoa(c[2]), strconv.Itoa(c[3]),
			pct(c.Accuracy()), pct(c.FalsePositiveRate()), pct(c.FalseNegativeRate()),
		})
	}
	if err := renderTable(w, data); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s %s %s ± %s over %d folds\n",
		sym.Eval, glyphed(algorithm), pct(mean), pct(stddev), len(folds))
	return err
}

func glyphed(algorithm string) string {
	if g := sym.ForCommand(algorithm); g != "" {
		return g + " " + algorithm
	}
	return algorithm
}

// FormatParams renders parameters as sorted key=value pairs.
func FormatParams(params map[string]float64) string {
	keys := slices.Sorted(maps.Keys(params))
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%g", k, params[k])
	}
	return strings.Join(parts, " ")
}

func crossvalString(cv *int) string {
	switch {
	case cv == nil:
		return "50/50"
	case *cv == 0:
		return "loo"
	default:
		return strconv.Itoa(*cv)
	}
}

// OutcomesTable summarizes a plan run, one row per experiment.
func OutcomesTable(w io.Writer, outcomes []plan.Outcome) error {
	data := pterm.TableData{{"experiment", "algorithm", "crossval", "seed", "instances", "folds", "mean acc", "stddev"}}
	for _, o := range outcomes {
		data = append(data, []string{
			o.Experiment.Label(),
			glyphed(o.Result.Algorithm),
			crossvalString(o.Experiment.CrossVal),
			strconv.FormatUint(o.Seed, 10),
			strconv.Itoa(o.Corpus.Len()),
			strconv.Itoa(len(o.Result.Folds)),
			pct(o.Result.MeanAccuracy),
			pct(o.Result.StdDevAccuracy),
		})
	}
	return renderTable(w, data)
}

// RunsTable lists recorded runs. Runs recorded by a different major version
// than current are marked with "*".
func RunsTable(w io.Writer, runs []history.Run, current string) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, pterm.Info.Sprint("No recorded runs"))
		return err
	}
	data := pterm.TableData{{"id", "created", "algorithm", "params", "crossval", "corpus", "mean acc", "version"}}
	for _, r := range runs {
		v := r.Version
		if !version.SameMajor(r.Version, current) {
			v += " *"
		}
		data = append(data, []string{
			r.ID,
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			glyphed(r.Algorithm),
			FormatParams(r.Params),
			crossvalString(r.CrossVal),
			r.Corpus,
			pct(r.MeanAccuracy),
			v,
		})
	}
	return renderTable(w, data)
}

// RunDetail writes a run's header followed by its fold table.
func RunDetail(w io.Writer, run *history.Run) error {
	_, err := fmt.Fprintf(w, "%s run %s\n  algorithm: %s %s\n  corpus:    %s (%d instances, %d features)\n  crossval:  %s  seed: %d\n  version:   %s  recorded: %s\n\n",
		sym.History, run.ID,
		glyphed(run.Algorithm), FormatParams(run.Params),
		run.Corpus, run.Instances, run.Features,
		crossvalString(run.CrossVal), run.Seed,
		run.Version, run.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	if err != nil {
		return err
	}
	return FoldTable(w, run.Algorithm, run.Folds, run.MeanAccuracy, run.StdDevAccuracy)
}
