package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mesh-intelligence/concord/pkg/types"
)

// wordPattern matches English words including contractions.
const wordPattern = `[a-zA-Z']+`

// defaultStopWords is the built-in fallback when no stop-word file is
// configured or loading one fails.
var defaultStopWords = map[string]struct{}{
	"the": {}, "and": {}, "of": {}, "to": {}, "in": {}, "a": {},
	"that": {}, "it": {}, "is": {}, "for": {}, "on": {}, "with": {},
	"as": {}, "was": {}, "but": {}, "be": {}, "by": {}, "he": {},
	"she": {}, "they": {}, "we": {}, "you": {}, "i": {}, "at": {},
	"from": {}, "or": {}, "this": {}, "an": {}, "not": {}, "are": {},
	"have": {}, "has": {}, "had": {}, "his": {}, "her": {}, "their": {},
	"them": {}, "him": {}, "who": {}, "what": {}, "which": {},
	"when": {}, "where": {}, "why": {},
}

// WordFrequencyAnalyzer tokenizes verse text, drops stop words, and
// computes frequency and vocabulary statistics.
type WordFrequencyAnalyzer struct {
	pattern   *regexp.Regexp
	stopWords map[string]struct{}
}

// NewWordFrequencyAnalyzer returns an analyzer with the built-in stop
// word set.
func NewWordFrequencyAnalyzer() *WordFrequencyAnalyzer {
	return &WordFrequencyAnalyzer{
		pattern:   regexp.MustCompile(wordPattern),
		stopWords: defaultStopWords,
	}
}

// NewWordFrequencyAnalyzerFromFile returns an analyzer with stop words
// loaded from a JSON array file. On any load failure it warns and falls
// back to the built-in set.
func NewWordFrequencyAnalyzerFromFile(path string) *WordFrequencyAnalyzer {
	a := NewWordFrequencyAnalyzer()
	if path == "" {
		return a
	}
	words, err := LoadStopWords(path)
	if err != nil {
		log.Warn("falling back to built-in stop words", "path", path, "err", err)
		return a
	}
	log.Info("loaded stop words", "path", path, "count", len(words))
	a.stopWords = words
	return a
}

// LoadStopWords reads a JSON array of strings and returns the set of
// trimmed, lowercased, non-empty entries.
func LoadStopWords(path string) (map[string]struct{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading stop words: %w", err)
	}
	var words []string
	if err := json.Unmarshal(data, &words); err != nil {
		return nil, fmt.Errorf("parsing stop words: %w", err)
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return set, nil
}

// versesText joins verse texts with single spaces. Empty string means
// there is nothing to analyze.
func versesText(verses []types.Verse) string {
	if len(verses) == 0 {
		return ""
	}
	parts := make([]string, len(verses))
	for i, v := range verses {
		parts[i] = v.Text
	}
	return strings.Join(parts, " ")
}

// Tokenize lowercases the text, extracts word tokens, and removes stop
// words.
func (a *WordFrequencyAnalyzer) Tokenize(text string) []string {
	matches := a.pattern.FindAllString(strings.ToLower(text), -1)
	tokens := matches[:0]
	for _, m := range matches {
		if _, stop := a.stopWords[m]; !stop {
			tokens = append(tokens, m)
		}
	}
	return tokens
}

// TopWords returns the topN most frequent non-stop words across the
// verses, most frequent first. Words with equal counts keep their order
// of first appearance. Empty input yields an empty result.
func (a *WordFrequencyAnalyzer) TopWords(verses []types.Verse, topN int) []types.WordCount {
	text := versesText(verses)
	if text == "" {
		return nil
	}
	return topCounts(a.Tokenize(text), topN)
}

// VocabStats computes token count, vocabulary size, and type-token
// ratio over the verses. The second result is false when there is no
// text to analyze.
func (a *WordFrequencyAnalyzer) VocabStats(verses []types.Verse) (types.VocabStats, bool) {
	text := versesText(verses)
	if text == "" {
		return types.VocabStats{}, false
	}
	tokens := a.Tokenize(text)
	unique := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		unique[t] = struct{}{}
	}
	var ratio float64
	if len(tokens) > 0 {
		ratio = float64(len(unique)) / float64(len(tokens))
	}
	return types.VocabStats{
		TotalTokens:    len(tokens),
		VocabularySize: len(unique),
		TypeTokenRatio: math.Round(ratio*1000) / 1000,
	}, true
}

// topCounts tallies tokens and returns the topN by count, descending,
// with first-appearance order breaking ties.
func topCounts(tokens []string, topN int) []types.WordCount {
	if len(tokens) == 0 || topN <= 0 {
		return nil
	}
	counts := make(map[string]int, len(tokens))
	firstSeen := make(map[string]int, len(tokens))
	for i, t := range tokens {
		if _, ok := counts[t]; !ok {
			firstSeen[t] = i
		}
		counts[t]++
	}
	ranked := make([]types.WordCount, 0, len(counts))
	for word, count := range counts {
		ranked = append(ranked, types.WordCount{Word: word, Count: count})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return firstSeen[ranked[i].Word] < firstSeen[ranked[j].Word]
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}
