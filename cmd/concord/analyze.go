// Analyze commands run analytics over saved verses and record the
// results in analysis history.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/concord/internal/analysis"
	"github.com/mesh-intelligence/concord/internal/store"
	"github.com/mesh-intelligence/concord/pkg/types"
)

var (
	flagAnalyzeQuery   string
	flagAnalyzeQueries []string
	flagAnalyzeBook    string
	flagAnalyzeSession bool
	flagAnalyzeTop     int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run analytics over saved verses",
	Long: `Analyze runs word-frequency or phrase analytics over a chosen set
of verses and records the run in analysis history.

Scope is chosen with exactly one of --query, --queries, --book, or
--session; history entries record which scope was used.`,
}

func init() {
	for _, c := range []*cobra.Command{analyzeWordsCmd, analyzePhrasesCmd} {
		c.Flags().StringVar(&flagAnalyzeQuery, "query", "", "analyze one saved query")
		c.Flags().StringSliceVar(&flagAnalyzeQueries, "queries", nil, "analyze several saved queries")
		c.Flags().StringVar(&flagAnalyzeBook, "book", "", "analyze all saved verses of a book")
		c.Flags().BoolVar(&flagAnalyzeSession, "session", false, "analyze the active session's verses")
		c.Flags().IntVar(&flagAnalyzeTop, "top", 20, "number of top entries to report")
	}
	analyzeCmd.AddCommand(analyzeWordsCmd)
	analyzeCmd.AddCommand(analyzePhrasesCmd)
}

// analysisScope resolves the scope flags to verses plus the scope
// metadata recorded in history.
func analysisScope(st *store.Store, sessionID string) ([]types.Verse, string, map[string]any, error) {
	switch {
	case flagAnalyzeQuery != "":
		rec, err := st.GetQuery(flagAnalyzeQuery)
		if err != nil {
			return nil, "", nil, err
		}
		if rec == nil {
			return nil, "", nil, fmt.Errorf("no query with id %q", flagAnalyzeQuery)
		}
		return rec.Verses, types.ScopeQuery, map[string]any{"query_id": rec.ID, "reference": rec.Reference}, nil

	case len(flagAnalyzeQueries) > 0:
		verses, err := st.VersesForQueries(flagAnalyzeQueries)
		if err != nil {
			return nil, "", nil, err
		}
		return verses, types.ScopeMultiQuery, map[string]any{"query_ids": flagAnalyzeQueries}, nil

	case flagAnalyzeBook != "":
		verses, err := st.VersesByBook(flagAnalyzeBook)
		if err != nil {
			return nil, "", nil, err
		}
		return verses, types.ScopeBook, map[string]any{"book": flagAnalyzeBook}, nil

	case flagAnalyzeSession:
		if sessionID == "" {
			return nil, "", nil, types.ErrNoSession
		}
		verses, err := st.SessionVerses(sessionID)
		if err != nil {
			return nil, "", nil, err
		}
		return verses, types.ScopeSession, map[string]any{"session_id": sessionID}, nil

	default:
		return nil, "", nil, fmt.Errorf("choose a scope: --query, --queries, --book, or --session")
	}
}

var analyzeWordsCmd = &cobra.Command{
	Use:   "words",
	Short: "Word frequency and vocabulary statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx, err := currentContext(st)
		if err != nil {
			return err
		}
		verses, scopeType, scopeDetails, err := analysisScope(st, ctx.SessionID)
		if err != nil {
			return err
		}
		if len(verses) == 0 {
			fmt.Println("No verses in scope")
			return nil
		}

		analyzer := newAnalyzer()
		top := analyzer.TopWords(verses, flagAnalyzeTop)
		vocab, ok := analyzer.VocabStats(verses)
		if !ok {
			fmt.Println("No text to analyze")
			return nil
		}

		printWordCounts("Word", top)
		fmt.Printf("Tokens: %d  Vocabulary: %d  Type-token ratio: %.3f\n",
			vocab.TotalTokens, vocab.VocabularySize, vocab.TypeTokenRatio)

		tracker := analysis.NewTracker(st, ctx.UserID, ctx.SessionID)
		id, err := tracker.SaveWordFrequency(top, vocab, scopeType, scopeDetails, len(verses), nil)
		if err != nil {
			return err
		}
		fmt.Printf("Recorded as analysis %s\n", id)
		return nil
	},
}

var analyzePhrasesCmd = &cobra.Command{
	Use:   "phrases",
	Short: "Common word pairs and three-word phrases",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx, err := currentContext(st)
		if err != nil {
			return err
		}
		verses, scopeType, scopeDetails, err := analysisScope(st, ctx.SessionID)
		if err != nil {
			return err
		}
		if len(verses) == 0 {
			fmt.Println("No verses in scope")
			return nil
		}

		phrases := analysis.NewPhraseAnalyzer(newAnalyzer())
		bigrams := phrases.TopBigrams(verses, flagAnalyzeTop)
		trigrams := phrases.TopTrigrams(verses, flagAnalyzeTop)

		printWordCounts("Bigram", bigrams)
		printWordCounts("Trigram", trigrams)

		tracker := analysis.NewTracker(st, ctx.UserID, ctx.SessionID)
		id, err := tracker.SavePhrases(bigrams, trigrams, scopeType, scopeDetails, len(verses), nil)
		if err != nil {
			return err
		}
		fmt.Printf("Recorded as analysis %s\n", id)
		return nil
	},
}
