package display

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/psam/corpus"
	"github.com/teranos/psam/errors"
	"github.com/teranos/psam/eval"
	"github.com/teranos/psam/history"
	"github.com/teranos/psam/internal/util"
	"github.com/teranos/psam/learn"
	"github.com/teranos/psam/plan"
)

func init() {
	pterm.DisableColor()
}


var folds = []eval.FoldResult{
	{Fold: 1, Training: 4, Test: 4, Confusion: eval.Confusion{2, 1, 0, 1}, Accuracy: 0.75},
	{Fold: 2, Training: 4, Test: 4, Confusion: eval.Confusion{2, 0, 0, 2}, Accuracy: 1},
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatText, "text": FormatText, "TABLE": FormatTable, "json": FormatJSON} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("xml")
	assert.True(t, errors.IsInvalidRequestError(err))
}

func TestFormatFromCommand(t *testing.T) {
	root := &cobra.Command{Use: "psam"}
	root.PersistentFlags().String("format", "text", "")
	child := &cobra.Command{Use: "knn", Run: func(*cobra.Command, []string) {}}
	root.AddCommand(child)

	require.NoError(t, root.PersistentFlags().Set("format", "json"))
	got, err := FormatFromCommand(child)
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, got)

	got, err = FormatFromCommand(nil)
	require.NoError(t, err)
	assert.Equal(t, FormatText, got)
}

func TestFoldLine(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FoldLine(&buf, folds[0]))
	assert.Equal(t, "[2, 1, 0, 1] 0.750\n", buf.String())
}

func TestFoldTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FoldTable(&buf, "knn", folds, 0.875, 0.177))
	out := buf.String()
	for _, want := range []string{"fold", "fpr", "0.750", "0.250", "1.000", "0.875 ± 0.177 over 2 folds", "knn"} {
		assert.Contains(t, out, want)
	}
}

func TestFormatParams(t *testing.T) {
	assert.Equal(t, "k=3", FormatParams(map[string]float64{"k": 3}))
	assert.Equal(t, "min_gain=0.05 significance=0.01",
		FormatParams(map[string]float64{"significance": 0.01, "min_gain": 0.05}))
	assert.Equal(t, "", FormatParams(nil))
}

func TestRunsTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RunsTable(&buf, nil, "1.0.0"))
	assert.Contains(t, buf.String(), "No recorded runs")

	runs := []history.Run{
		{ID: "run-a", Algorithm: "id3", Params: map[string]float64{"min_gain": 0.1}, Corpus: "a.csv",
			MeanAccuracy: 0.9, Version: "1.2.0", CreatedAt: time.Now()},
		{ID: "run-b", Algorithm: "knn", CrossVal: util.Ptr(0), Corpus: "b.csv",
			MeanAccuracy: 0.5, Version: "2.0.0", CreatedAt: time.Now()},
	}
	buf.Reset()
	require.NoError(t, RunsTable(&buf, runs, "1.4.0"))
	out := buf.String()

	lines := strings.Split(out, "\n")
	var a, b string
	for _, l := range lines {
		if strings.Contains(l, "run-a") {
			a = l
		}
		if strings.Contains(l, "run-b") {
			b = l
		}
	}
	assert.Contains(t, a, "min_gain=0.1")
	assert.Contains(t, a, "50/50")
	assert.NotContains(t, a, "*")
	assert.Contains(t, b, "loo")
	assert.Contains(t, b, "2.0.0 *")
}

func TestOutcomesTable(t *testing.T) {
	c := &corpus.Corpus{Instances: make([]learn.Instance, 6)}
	outcomes := []plan.Outcome{{
		Experiment: plan.Experiment{Name: "knn-1", Algorithm: "knn", CrossVal: util.Ptr(3)},
		Corpus:     c,
		Seed:       42,
		Result:     &eval.Result{Algorithm: "knn", Folds: folds, MeanAccuracy: 0.875},
	}}

	var buf bytes.Buffer
	require.NoError(t, OutcomesTable(&buf, outcomes))
	for _, want := range []string{"knn-1", "42", "6", "0.875"} {
		assert.Contains(t, buf.String(), want)
	}
}

func TestRunDetail(t *testing.T) {
	run := &history.Run{
		ID: "run-x", Algorithm: "nbayes", Corpus: "c.csv", Instances: 8, Features: 3,
		Seed: 9, Folds: folds, MeanAccuracy: 0.875, Version: "dev",
	}
	var buf bytes.Buffer
	require.NoError(t, RunDetail(&buf, run))
	out := buf.String()
	assert.Contains(t, out, "run-x")
	assert.Contains(t, out, "c.csv (8 instances, 3 features)")
	assert.Contains(t, out, "seed: 9")
	assert.Contains(t, out, "0.750")
}

func TestOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, OutputJSON(&buf, map[string]int{"folds": 2}))
	assert.Equal(t, "{\n  \"folds\": 2\n}\n", buf.String())

	assert.Error(t, OutputJSON(&buf, func() {}))
}
