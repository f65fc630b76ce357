package analysis

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/concord/pkg/types"
)

func verses(texts ...string) []types.Verse {
	vs := make([]types.Verse, len(texts))
	for i, text := range texts {
		vs[i] = types.Verse{BookName: "John", Chapter: 3, Verse: i + 1, Text: text}
	}
	return vs
}

func TestTokenize(t *testing.T) {
	a := NewWordFrequencyAnalyzer()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"lowercases and splits", "Love LOVE love", []string{"love", "love", "love"}},
		{"stop words removed", "the love of the world", []string{"love", "world"}},
		{"contractions kept whole", "don't it's", []string{"don't", "it's"}},
		{"punctuation and digits ignored", "love, world! 316", []string{"love", "world"}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.Tokenize(tt.in)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTopWords(t *testing.T) {
	a := NewWordFrequencyAnalyzer()

	t.Run("counts across verses, most frequent first", func(t *testing.T) {
		vs := verses("love hope love", "love hope faith")
		got := a.TopWords(vs, 10)
		require.Len(t, got, 3)
		assert.Equal(t, types.WordCount{Word: "love", Count: 3}, got[0])
		assert.Equal(t, types.WordCount{Word: "hope", Count: 2}, got[1])
		assert.Equal(t, types.WordCount{Word: "faith", Count: 1}, got[2])
	})

	t.Run("ties keep first-appearance order", func(t *testing.T) {
		got := a.TopWords(verses("zebra apple zebra apple"), 10)
		require.Len(t, got, 2)
		assert.Equal(t, "zebra", got[0].Word)
		assert.Equal(t, "apple", got[1].Word)
	})

	t.Run("topN truncates", func(t *testing.T) {
		got := a.TopWords(verses("one two three four"), 2)
		assert.Len(t, got, 2)
	})

	t.Run("no verses", func(t *testing.T) {
		assert.Empty(t, a.TopWords(nil, 10))
	})
}

func TestVocabStats(t *testing.T) {
	a := NewWordFrequencyAnalyzer()

	t.Run("computes totals and ratio", func(t *testing.T) {
		stats, ok := a.VocabStats(verses("love hope love hope love faith"))
		require.True(t, ok)
		assert.Equal(t, 6, stats.TotalTokens)
		assert.Equal(t, 3, stats.VocabularySize)
		assert.InDelta(t, 0.5, stats.TypeTokenRatio, 1e-9)
	})

	t.Run("ratio rounded to three decimals", func(t *testing.T) {
		stats, ok := a.VocabStats(verses("love love love"))
		require.True(t, ok)
		assert.InDelta(t, 0.333, stats.TypeTokenRatio, 1e-9)
	})

	t.Run("no verses", func(t *testing.T) {
		_, ok := a.VocabStats(nil)
		assert.False(t, ok)
	})

	t.Run("only stop words yields zero stats", func(t *testing.T) {
		stats, ok := a.VocabStats(verses("the and of"))
		require.True(t, ok)
		assert.Zero(t, stats.TotalTokens)
		assert.Zero(t, stats.TypeTokenRatio)
	})
}

func TestLoadStopWords(t *testing.T) {
	t.Run("normalizes entries", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "stop_words.json")
		require.NoError(t, os.WriteFile(path, []byte(`["The", " and ", "", "of"]`), 0o644))

		words, err := LoadStopWords(path)
		require.NoError(t, err)
		assert.Len(t, words, 3)
		_, ok := words["the"]
		assert.True(t, ok)
		_, ok = words["and"]
		assert.True(t, ok)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadStopWords(filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})

	t.Run("invalid json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
		_, err := LoadStopWords(path)
		assert.Error(t, err)
	})
}

func TestNewWordFrequencyAnalyzerFromFile(t *testing.T) {
	t.Run("custom stop words applied", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "stop_words.json")
		require.NoError(t, os.WriteFile(path, []byte(`["love"]`), 0o644))

		a := NewWordFrequencyAnalyzerFromFile(path)
		got := a.Tokenize("the love of hope")
		// Custom set replaces the built-in one entirely.
		assert.Equal(t, []string{"the", "of", "hope"}, got)
	})

	t.Run("unreadable file falls back to built-ins", func(t *testing.T) {
		a := NewWordFrequencyAnalyzerFromFile(filepath.Join(t.TempDir(), "nope.json"))
		got := a.Tokenize("the love")
		assert.Equal(t, []string{"love"}, got)
	})
}
