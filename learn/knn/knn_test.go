package knn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/psam/errors"
	"github.com/teranos/psam/learn"
)

func TestClassify_ExactMatchK1(t *testing.T) {
	insts := []learn.Instance{{Name: "a", Label: 1, Features: []uint8{1, 0, 1}}}
	m, err := Train(1, learn.Refs(insts))
	require.NoError(t, err)

	assert.True(t, m.Classify(&learn.Instance{Features: []uint8{1, 0, 1}}))
}

func TestClassify_NearestWins(t *testing.T) {
	insts := []learn.Instance{
		{Name: "far", Label: 0, Features: []uint8{0, 0, 0, 0}},
		{Name: "near", Label: 1, Features: []uint8{1, 1, 1, 0}},
	}
	m, err := Train(1, learn.Refs(insts))
	require.NoError(t, err)

	assert.True(t, m.Classify(&learn.Instance{Features: []uint8{1, 1, 1, 1}}))
	assert.False(t, m.Classify(&learn.Instance{Features: []uint8{0, 0, 0, 1}}))
}

func TestClassify_StableTieBreak(t *testing.T) {
	// Both stored instances are at distance 1; the first stored one votes.
	insts := []learn.Instance{
		{Name: "first", Label: 1, Features: []uint8{1, 0}},
		{Name: "second", Label: 0, Features: []uint8{0, 1}},
	}
	m, err := Train(1, learn.Refs(insts))
	require.NoError(t, err)
	assert.True(t, m.Classify(&learn.Instance{Features: []uint8{0, 0}}))

	reversed := []learn.Instance{insts[1], insts[0]}
	m, err = Train(1, learn.Refs(reversed))
	require.NoError(t, err)
	assert.False(t, m.Classify(&learn.Instance{Features: []uint8{0, 0}}))
}

func TestClassify_TiedVotePredictsNegative(t *testing.T) {
	insts := []learn.Instance{
		{Label: 1, Features: []uint8{1, 1}},
		{Label: 0, Features: []uint8{1, 1}},
	}
	m, err := Train(2, learn.Refs(insts))
	require.NoError(t, err)
	assert.False(t, m.Classify(&learn.Instance{Features: []uint8{1, 1}}))
}

func TestClassify_KLargerThanTrainingSet(t *testing.T) {
	insts := []learn.Instance{
		{Label: 1, Features: []uint8{1, 0}},
		{Label: 1, Features: []uint8{1, 1}},
		{Label: 0, Features: []uint8{0, 0}},
	}
	m, err := Train(DefaultK, learn.Refs(insts))
	require.NoError(t, err)
	assert.Equal(t, 3, m.Size())
	assert.True(t, m.Classify(&learn.Instance{Features: []uint8{0, 0}}))
}

func TestClassify_WideFeatureVectors(t *testing.T) {
	const width = 200
	on := make([]uint8, width)
	off := make([]uint8, width)
	for i := range on {
		on[i] = 1
	}
	almostOn := append([]uint8(nil), on...)
	almostOn[3] = 0
	almostOn[150] = 0

	insts := []learn.Instance{
		{Label: 0, Features: off},
		{Label: 1, Features: on},
	}
	m, err := Train(1, learn.Refs(insts))
	require.NoError(t, err)
	assert.True(t, m.Classify(&learn.Instance{Features: almostOn}))

	// Differences beyond the first machine word must count.
	highOnly := make([]uint8, width)
	for i := 130; i < width; i++ {
		highOnly[i] = 1
	}
	assert.False(t, m.Classify(&learn.Instance{Features: highOnly}))
}

func TestPack_TreatsPositiveAsOn(t *testing.T) {
	b := pack([]uint8{0, 3, 1, 0})
	assert.False(t, b.Test(0))
	assert.True(t, b.Test(1))
	assert.True(t, b.Test(2))
	assert.Equal(t, uint(2), b.Count())
}

func TestTrain_Errors(t *testing.T) {
	insts := learn.Refs([]learn.Instance{{Label: 1, Features: []uint8{1}}})

	_, err := Train(0, insts)
	assert.True(t, errors.Is(err, errors.ErrInvalidParameter))

	_, err = Train(3, nil)
	assert.True(t, errors.Is(err, errors.ErrEmptyTrainingSet))
}

func TestTrainer(t *testing.T) {
	tr := New(3)
	assert.Equal(t, "knn", tr.Name())
	m, err := tr.Train(learn.Refs([]learn.Instance{{Label: 1, Features: []uint8{1}}}))
	require.NoError(t, err)
	assert.Equal(t, 3, m.(*Model).K())
}
