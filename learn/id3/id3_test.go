package id3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/psam/errors"
	"github.com/teranos/psam/learn"
)

func ptr(f float64) *float64 { return &f }

func inst(label learn.Label, features ...uint8) learn.Instance {
	return learn.Instance{Label: label, Features: features}
}

// truthTable labels every vector of width n with fn.
func truthTable(n int, fn func(f []uint8) bool) []learn.Instance {
	var insts []learn.Instance
	for v := 0; v < 1<<n; v++ {
		f := make([]uint8, n)
		for i := range f {
			f[i] = uint8(v >> i & 1)
		}
		insts = append(insts, learn.Instance{Label: learn.LabelFromBool(fn(f)), Features: f})
	}
	return insts
}

func TestTrain_PerfectSplit(t *testing.T) {
	insts := []learn.Instance{
		inst(1, 1, 0),
		inst(1, 1, 1),
		inst(0, 0, 0),
		inst(0, 0, 1),
	}
	m, err := Train(learn.Refs(insts), Options{})
	require.NoError(t, err)

	root, ok := m.root.(*branch)
	require.True(t, ok, "root should be a branch")
	assert.Equal(t, 0, root.feature)
	assert.Equal(t, Stats{Depth: 1, Branches: 1, Leaves: 2}, m.Stats())

	for _, in := range insts {
		assert.Equal(t, in.Label.Bool(), m.Classify(&in))
	}
	assert.True(t, m.Classify(&learn.Instance{Features: []uint8{1, 0}}))
	assert.False(t, m.Classify(&learn.Instance{Features: []uint8{0, 1}}))
}

func TestTrain_TieGoesToLowestIndex(t *testing.T) {
	// Features 1 and 2 are identical and equally informative.
	insts := []learn.Instance{
		inst(1, 0, 1, 1),
		inst(1, 1, 1, 1),
		inst(0, 0, 0, 0),
		inst(0, 1, 0, 0),
	}
	m, err := Train(learn.Refs(insts), Options{})
	require.NoError(t, err)

	root, ok := m.root.(*branch)
	require.True(t, ok)
	assert.Equal(t, 1, root.feature)
}

func TestTrain_ConsistentDataFitsExactly(t *testing.T) {
	insts := truthTable(4, func(f []uint8) bool {
		return f[0] == 1 || (f[1] == 1 && f[2] == 1)
	})
	m, err := Train(learn.Refs(insts), Options{})
	require.NoError(t, err)

	for _, in := range insts {
		assert.Equal(t, in.Label.Bool(), m.Classify(&in), "features %v", in.Features)
	}
	assert.LessOrEqual(t, m.Stats().Depth, 4)
}

func TestTrain_NoGainGivesMajorityLeaf(t *testing.T) {
	// XOR over the full truth table: no single feature has positive gain.
	insts := truthTable(2, func(f []uint8) bool { return f[0] != f[1] })
	m, err := Train(learn.Refs(insts), Options{})
	require.NoError(t, err)

	assert.Equal(t, Stats{Leaves: 1}, m.Stats())
	// Two positives, two negatives: ties predict negative.
	for _, in := range insts {
		assert.False(t, m.Classify(&in))
	}
}

func TestTrain_EvenSplitPrunedByChiSquare(t *testing.T) {
	var insts []learn.Instance
	for i := 0; i < 50; i++ {
		insts = append(insts, inst(1, 1, uint8(i%2)))
		insts = append(insts, inst(0, 0, uint8(i%2)))
	}

	for _, threshold := range []float64{0, 0.5, 3.841} {
		m, err := Train(learn.Refs(insts), Options{MinChiSquare: ptr(threshold)})
		require.NoError(t, err)
		assert.Equal(t, Stats{Leaves: 1}, m.Stats(), "threshold %v", threshold)
		for _, in := range insts {
			assert.False(t, m.Classify(&in))
		}
	}

	// Without pruning feature 0 separates the classes.
	m, err := Train(learn.Refs(insts), Options{})
	require.NoError(t, err)
	assert.True(t, m.Classify(&learn.Instance{Features: []uint8{1, 0}}))
}

func TestTrain_ChiSquareBoundary(t *testing.T) {
	insts := []learn.Instance{
		inst(1, 1),
		inst(1, 1),
		inst(1, 1),
		inst(0, 0),
	}
	// chi for (3,1) is exactly 1.
	m, err := Train(learn.Refs(insts), Options{MinChiSquare: ptr(1)})
	require.NoError(t, err)
	assert.Equal(t, Stats{Leaves: 1}, m.Stats())
	assert.True(t, m.Classify(&learn.Instance{Features: []uint8{0}}))

	m, err = Train(learn.Refs(insts), Options{MinChiSquare: ptr(0.5)})
	require.NoError(t, err)
	assert.Equal(t, 1, m.Stats().Branches)
	assert.False(t, m.Classify(&learn.Instance{Features: []uint8{0}}))
}

func TestTrain_MinGain(t *testing.T) {
	insts := []learn.Instance{
		inst(1, 1, 0),
		inst(1, 1, 1),
		inst(1, 0, 1),
		inst(0, 0, 0),
	}

	m, err := Train(learn.Refs(insts), Options{MinGain: ptr(2)})
	require.NoError(t, err)
	assert.Equal(t, Stats{Leaves: 1}, m.Stats())
	assert.True(t, m.Classify(&learn.Instance{Features: []uint8{0, 0}}))

	m, err = Train(learn.Refs(insts), Options{MinGain: ptr(0.1)})
	require.NoError(t, err)
	assert.Greater(t, m.Stats().Branches, 0)
	assert.False(t, m.Classify(&learn.Instance{Features: []uint8{0, 0}}))
}

func TestTrain_Deterministic(t *testing.T) {
	insts := truthTable(5, func(f []uint8) bool {
		return (f[0]+f[2]+f[4])%2 == 0 || f[3] == 1
	})
	a, err := Train(learn.Refs(insts), Options{})
	require.NoError(t, err)
	b, err := Train(learn.Refs(insts), Options{})
	require.NoError(t, err)

	assert.Equal(t, a.Stats(), b.Stats())
	for _, in := range insts {
		assert.Equal(t, a.Classify(&in), b.Classify(&in))
	}
}

func TestTrain_FeatureUsedOncePerPath(t *testing.T) {
	insts := truthTable(3, func(f []uint8) bool { return f[0] == 1 && f[1] == 1 && f[2] == 1 })
	m, err := Train(learn.Refs(insts), Options{})
	require.NoError(t, err)

	var walk func(n node, seen map[int]bool)
	walk = func(n node, seen map[int]bool) {
		b, ok := n.(*branch)
		if !ok {
			return
		}
		require.False(t, seen[b.feature], "feature %d reused on a path", b.feature)
		next := map[int]bool{b.feature: true}
		for f := range seen {
			next[f] = true
		}
		walk(b.pos, next)
		walk(b.neg, next)
	}
	walk(m.root, map[int]bool{})
	assert.LessOrEqual(t, m.Stats().Depth, 3)
}

func TestTrain_Errors(t *testing.T) {
	_, err := Train(nil, Options{})
	assert.True(t, errors.Is(err, errors.ErrEmptyTrainingSet))

	ragged := []learn.Instance{inst(1, 1, 0), inst(0, 1)}
	_, err = Train(learn.Refs(ragged), Options{})
	assert.True(t, errors.Is(err, errors.ErrFeatureCount))

	_, err = Train(learn.Refs(ragged[:1]), Options{MinGain: ptr(-1)})
	assert.True(t, errors.Is(err, errors.ErrInvalidParameter))
}

func TestEntropy(t *testing.T) {
	tests := []struct {
		name   string
		labels []learn.Label
		want   float64
	}{
		{"pure positive", []learn.Label{1, 1, 1}, 0},
		{"pure negative", []learn.Label{0, 0}, 0},
		{"even", []learn.Label{1, 0, 1, 0}, 1},
		{"three to one", []learn.Label{1, 1, 1, 0}, 0.8112781244591328},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var insts []learn.Instance
			for _, l := range tt.labels {
				insts = append(insts, inst(l, 0))
			}
			assert.InDelta(t, tt.want, entropy(learn.Refs(insts)), 1e-12)
		})
	}
}

func TestChiSquare(t *testing.T) {
	assert.Equal(t, 0.0, chiSquare(50, 50))
	assert.Equal(t, 1.0, chiSquare(3, 1))
	assert.Equal(t, 4.0, chiSquare(4, 0))
}

func TestSignificanceThreshold(t *testing.T) {
	got, err := SignificanceThreshold(0.05)
	require.NoError(t, err)
	assert.InDelta(t, 3.841, got, 1e-3)

	got, err = SignificanceThreshold(0.01)
	require.NoError(t, err)
	assert.InDelta(t, 6.635, got, 1e-3)

	for _, p := range []float64{0, 1, -0.5, 2} {
		_, err := SignificanceThreshold(p)
		assert.True(t, errors.Is(err, errors.ErrInvalidParameter), "p=%v", p)
	}
}

func TestTrainer(t *testing.T) {
	tr := New(Options{MinGain: ptr(0.05)})
	assert.Equal(t, "id3", tr.Name())

	var _ learn.Trainer = tr
	m, err := tr.Train(learn.Refs([]learn.Instance{inst(1, 1), inst(0, 0)}))
	require.NoError(t, err)
	assert.True(t, m.Classify(&learn.Instance{Features: []uint8{1}}))
}
