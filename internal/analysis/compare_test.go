package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/concord/pkg/types"
)

// saveFreq records a word-frequency analysis with the given pairs and
// returns its ID.
func saveFreq(t *testing.T, tracker *Tracker, pairs []types.WordCount) string {
	t.Helper()
	id, err := tracker.SaveWordFrequency(pairs, types.VocabStats{}, types.ScopeBook, nil, 1, nil)
	require.NoError(t, err)
	return id
}

func TestCompare(t *testing.T) {
	st := testStore(t)
	tracker := NewTracker(st, "", "")

	first := saveFreq(t, tracker, []types.WordCount{
		{Word: "love", Count: 10},
		{Word: "faith", Count: 5},
	})
	second := saveFreq(t, tracker, []types.WordCount{
		{Word: "love", Count: 12},
		{Word: "hope", Count: 3},
	})

	t.Run("set diff with counts and deltas", func(t *testing.T) {
		cmp, err := tracker.Compare(first, second)
		require.NoError(t, err)
		require.NotNil(t, cmp)

		assert.Equal(t, first, cmp.FirstID)
		assert.Equal(t, second, cmp.SecondID)
		assert.Equal(t, []types.CommonWord{{Word: "love", Count1: 10, Count2: 12}}, cmp.CommonWords)
		assert.Equal(t, []types.WordCount{{Word: "faith", Count: 5}}, cmp.UniqueToFirst)
		assert.Equal(t, []types.WordCount{{Word: "hope", Count: 3}}, cmp.UniqueToSecond)
		assert.Equal(t, []types.FrequencyChange{{Word: "love", Count1: 10, Count2: 12, Delta: 2}}, cmp.FrequencyChanges)
	})

	t.Run("deltas ordered by absolute magnitude", func(t *testing.T) {
		a := saveFreq(t, tracker, []types.WordCount{
			{Word: "small", Count: 10},
			{Word: "big", Count: 10},
			{Word: "down", Count: 10},
		})
		b := saveFreq(t, tracker, []types.WordCount{
			{Word: "small", Count: 11},
			{Word: "big", Count: 30},
			{Word: "down", Count: 2},
		})

		cmp, err := tracker.Compare(a, b)
		require.NoError(t, err)
		require.NotNil(t, cmp)
		require.Len(t, cmp.FrequencyChanges, 3)
		assert.Equal(t, "big", cmp.FrequencyChanges[0].Word)
		assert.Equal(t, 20, cmp.FrequencyChanges[0].Delta)
		assert.Equal(t, "down", cmp.FrequencyChanges[1].Word)
		assert.Equal(t, -8, cmp.FrequencyChanges[1].Delta)
		assert.Equal(t, "small", cmp.FrequencyChanges[2].Word)
	})

	t.Run("missing analysis yields nil", func(t *testing.T) {
		cmp, err := tracker.Compare(first, "missing1")
		require.NoError(t, err)
		assert.Nil(t, cmp)
	})

	t.Run("analysis without word frequencies yields nil", func(t *testing.T) {
		phrasesID, err := tracker.SavePhrases(
			[]types.WordCount{{Word: "love hope", Count: 1}}, nil,
			types.ScopeBook, nil, 1, nil,
		)
		require.NoError(t, err)

		cmp, err := tracker.Compare(first, phrasesID)
		require.NoError(t, err)
		assert.Nil(t, cmp)
	})
}
