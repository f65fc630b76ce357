package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// Analysis types recorded in history.
const (
	AnalysisWordFrequency         = "word_frequency"
	AnalysisPhrases               = "phrase_analysis"
	AnalysisTranslationComparison = "translation_comparison"
)

// Scope types describing the breadth of verses an analysis ran over.
const (
	ScopeQuery      = "query"
	ScopeSession    = "session"
	ScopeBook       = "book"
	ScopeBooks      = "books"
	ScopeMultiQuery = "multi_query"
)

// Result types stored per analysis run.
const (
	ResultWordFreq              = "word_freq"
	ResultVocabStats            = "vocab_stats"
	ResultBigram                = "bigram"
	ResultTrigram               = "trigram"
	ResultTranslationComparison = "translation_comparison"
)

// UnknownUser is stored in analysis history when no user is associated.
// The user_name column is NOT NULL so history stays human-readable even
// for anonymous runs.
const UnknownUser = "Unknown"

// WordCount is one (word, count) frequency pair. It serializes as a
// two-element JSON array, the wire shape of stored result payloads.
type WordCount struct {
	Word  string
	Count int
}

// MarshalJSON encodes the pair as ["word", count].
func (w WordCount) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{w.Word, w.Count})
}

// UnmarshalJSON decodes a ["word", count] pair.
func (w *WordCount) UnmarshalJSON(data []byte) error {
	var pair [2]json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if err := json.Unmarshal(pair[0], &w.Word); err != nil {
		return fmt.Errorf("word element: %w", err)
	}
	if err := json.Unmarshal(pair[1], &w.Count); err != nil {
		return fmt.Errorf("count element: %w", err)
	}
	return nil
}

// VocabStats summarizes vocabulary diversity over a set of verses.
type VocabStats struct {
	TotalTokens    int     `json:"total_tokens"`
	VocabularySize int     `json:"vocabulary_size"`
	TypeTokenRatio float64 `json:"type_token_ratio"`
}

// AnalysisRecord is one analysis history row.
type AnalysisRecord struct {
	ID           string
	UserID       string
	SessionID    string
	UserName     string
	AnalysisType string
	ScopeType    string
	ScopeDetails map[string]any
	VerseCount   int
	CreatedAt    time.Time
}

// ResultData is a deserialized analysis result payload. Exactly one of
// Pairs and Mapping is populated, dispatched on the result type: word
// frequency and n-gram results are pair lists, vocabulary stats and
// translation comparisons are mappings.
type ResultData struct {
	Pairs   []WordCount
	Mapping map[string]any
}

// AnalysisDetail is a history row joined with all of its results,
// deserialized, plus chart paths keyed by result type.
type AnalysisDetail struct {
	AnalysisRecord
	Results    map[string]ResultData
	ChartPaths map[string]string
}
