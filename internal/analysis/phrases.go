package analysis

import (
	"strings"

	"github.com/mesh-intelligence/concord/pkg/types"
)

// PhraseAnalyzer finds the most common word pairs and three-word
// phrases across verses. N-grams never span the stop words removed by
// the underlying tokenizer, matching the frequency analyzer's view of
// the text.
type PhraseAnalyzer struct {
	words *WordFrequencyAnalyzer
}

// NewPhraseAnalyzer returns a PhraseAnalyzer backed by the given word
// analyzer; nil uses a default one.
func NewPhraseAnalyzer(words *WordFrequencyAnalyzer) *PhraseAnalyzer {
	if words == nil {
		words = NewWordFrequencyAnalyzer()
	}
	return &PhraseAnalyzer{words: words}
}

// TopBigrams returns the topN most frequent word pairs, formatted as
// "word1 word2", most frequent first.
func (p *PhraseAnalyzer) TopBigrams(verses []types.Verse, topN int) []types.WordCount {
	return p.topNgrams(verses, 2, topN)
}

// TopTrigrams returns the topN most frequent three-word phrases,
// formatted as "word1 word2 word3", most frequent first.
func (p *PhraseAnalyzer) TopTrigrams(verses []types.Verse, topN int) []types.WordCount {
	return p.topNgrams(verses, 3, topN)
}

func (p *PhraseAnalyzer) topNgrams(verses []types.Verse, n, topN int) []types.WordCount {
	text := versesText(verses)
	if text == "" {
		return nil
	}
	tokens := p.words.Tokenize(text)
	if len(tokens) < n {
		return nil
	}
	grams := make([]string, 0, len(tokens)-n+1)
	for i := 0; i+n <= len(tokens); i++ {
		grams = append(grams, strings.Join(tokens[i:i+n], " "))
	}
	return topCounts(grams, topN)
}
