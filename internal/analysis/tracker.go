// Package analysis persists analytics runs to the store and retrieves
// them for historical review and comparison. It also provides the
// word-frequency and phrase analyzers whose output the tracker stores.
package analysis

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/mesh-intelligence/concord/internal/store"
	"github.com/mesh-intelligence/concord/pkg/types"
)

// Tracker records analysis runs for one user and, optionally, one
// session. A zero userID records runs anonymously under the "Unknown"
// display name; history lookups are then unscoped.
type Tracker struct {
	store     *store.Store
	userID    string
	sessionID string
}

// NewTracker returns a Tracker attributing runs to userID and sessionID,
// either of which may be empty.
func NewTracker(st *store.Store, userID, sessionID string) *Tracker {
	return &Tracker{store: st, userID: userID, sessionID: sessionID}
}

// SaveWordFrequency persists a word-frequency run: one history row plus
// word_freq and vocab_stats result rows, all in one transaction.
// chartPaths may carry a path per result type; nil is fine.
// Returns the analysis ID.
func (t *Tracker) SaveWordFrequency(
	wordFreq []types.WordCount,
	vocab types.VocabStats,
	scopeType string,
	scopeDetails map[string]any,
	verseCount int,
	chartPaths map[string]string,
) (string, error) {
	freqData, err := json.Marshal(wordFreq)
	if err != nil {
		return "", fmt.Errorf("serializing word frequencies: %w", err)
	}
	vocabData, err := json.Marshal(vocab)
	if err != nil {
		return "", fmt.Errorf("serializing vocab stats: %w", err)
	}

	id, err := t.save(types.AnalysisWordFrequency, scopeType, scopeDetails, verseCount,
		[]store.AnalysisResultRow{
			{Type: types.ResultWordFreq, Data: freqData, ChartPath: chartPaths[types.ResultWordFreq]},
			{Type: types.ResultVocabStats, Data: vocabData, ChartPath: chartPaths[types.ResultVocabStats]},
		})
	if err != nil {
		return "", err
	}
	log.Info("saved word frequency analysis", "analysis", id)
	return id, nil
}

// SavePhrases persists a phrase run: one history row plus bigram and
// trigram result rows, all in one transaction. Returns the analysis ID.
func (t *Tracker) SavePhrases(
	bigrams, trigrams []types.WordCount,
	scopeType string,
	scopeDetails map[string]any,
	verseCount int,
	chartPaths map[string]string,
) (string, error) {
	bigramData, err := json.Marshal(bigrams)
	if err != nil {
		return "", fmt.Errorf("serializing bigrams: %w", err)
	}
	trigramData, err := json.Marshal(trigrams)
	if err != nil {
		return "", fmt.Errorf("serializing trigrams: %w", err)
	}

	id, err := t.save(types.AnalysisPhrases, scopeType, scopeDetails, verseCount,
		[]store.AnalysisResultRow{
			{Type: types.ResultBigram, Data: bigramData, ChartPath: chartPaths[types.ResultBigram]},
			{Type: types.ResultTrigram, Data: trigramData, ChartPath: chartPaths[types.ResultTrigram]},
		})
	if err != nil {
		return "", err
	}
	log.Info("saved phrase analysis", "analysis", id)
	return id, nil
}

// SaveTranslationComparison persists a side-by-side translation
// comparison as a single mapping result. Returns the analysis ID.
func (t *Tracker) SaveTranslationComparison(
	comparison map[string]any,
	scopeType string,
	scopeDetails map[string]any,
	verseCount int,
) (string, error) {
	data, err := json.Marshal(comparison)
	if err != nil {
		return "", fmt.Errorf("serializing comparison: %w", err)
	}

	id, err := t.save(types.AnalysisTranslationComparison, scopeType, scopeDetails, verseCount,
		[]store.AnalysisResultRow{
			{Type: types.ResultTranslationComparison, Data: data},
		})
	if err != nil {
		return "", err
	}
	log.Info("saved translation comparison", "analysis", id)
	return id, nil
}

func (t *Tracker) save(analysisType, scopeType string, scopeDetails map[string]any, verseCount int, results []store.AnalysisResultRow) (string, error) {
	return t.store.SaveAnalysis(types.AnalysisRecord{
		UserID:       t.userID,
		SessionID:    t.sessionID,
		UserName:     t.userName(),
		AnalysisType: analysisType,
		ScopeType:    scopeType,
		ScopeDetails: scopeDetails,
		VerseCount:   verseCount,
	}, results)
}

// userName resolves the tracker's display name, falling back to the
// "Unknown" sentinel when no user is set or the row is gone.
func (t *Tracker) userName() string {
	if t.userID == "" {
		return types.UnknownUser
	}
	user, err := t.store.UserByID(t.userID)
	if err != nil {
		log.Warn("user lookup failed", "user", t.userID, "err", err)
		return types.UnknownUser
	}
	if user == nil {
		return types.UnknownUser
	}
	return user.Name
}

// History returns past runs, newest first, with optional filters
// AND-combined. Runs are always scoped to the tracker's user when one is
// set. A limit <= 0 uses the store default.
func (t *Tracker) History(limit int, analysisType, scopeType, sessionID string) ([]types.AnalysisRecord, error) {
	return t.store.AnalysisHistory(store.AnalysisFilter{
		Limit:        limit,
		UserID:       t.userID,
		SessionID:    sessionID,
		AnalysisType: analysisType,
		ScopeType:    scopeType,
	})
}

// Results returns a run with all of its result payloads deserialized,
// or nil when the ID is unknown.
func (t *Tracker) Results(id string) (*types.AnalysisDetail, error) {
	return t.store.AnalysisDetail(id)
}
