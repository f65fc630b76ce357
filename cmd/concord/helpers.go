// Shared helpers for concord CLI commands.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/mesh-intelligence/concord/internal/analysis"
	"github.com/mesh-intelligence/concord/internal/fetch"
	"github.com/mesh-intelligence/concord/internal/session"
	"github.com/mesh-intelligence/concord/internal/store"
	"github.com/mesh-intelligence/concord/pkg/types"
)

const dbFileName = "concord.db"

// openStore resolves the data directory and opens the study database.
// The caller must defer st.Close().
func openStore() (*store.Store, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}
	st, err := store.Open(filepath.Join(dataDir, dbFileName))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// currentContext builds the caller's session context. User precedence:
// --user flag > config user > persisted sign-in. A flag or config user
// is created on first use.
func currentContext(st *store.Store) (*session.Context, error) {
	ctx := &session.Context{SessionID: cliState.SessionID}

	name := flagUser
	if name == "" {
		name = configUser
	}
	if name != "" {
		id, err := st.EnsureUser(name)
		if err != nil {
			return nil, err
		}
		ctx.UserID = id
		return ctx, nil
	}

	ctx.UserID = cliState.UserID
	return ctx, nil
}

// newFetcher returns the bible-api.com client, honoring a base URL
// override for local testing.
func newFetcher() fetch.Fetcher {
	return fetch.NewClient(os.Getenv("CONCORD_API_URL"))
}

// newDiscoverer returns a bound discoverer paced by the configured
// request delay and backed by the store's bound cache.
func newDiscoverer(st *store.Store) *fetch.Discoverer {
	delay := time.Duration(configRequestDelay) * time.Second
	return fetch.NewDiscoverer(newFetcher(), st, delay)
}

// newAnalyzer returns a word-frequency analyzer honoring the configured
// stop-word file.
func newAnalyzer() *analysis.WordFrequencyAnalyzer {
	return analysis.NewWordFrequencyAnalyzerFromFile(configStopWords)
}

// newTable returns a writer with the shared CLI table style.
func newTable(header ...any) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(header)
	return t
}

// printVerses renders verses as a reference-and-text table.
func printVerses(verses []types.Verse) {
	t := newTable("Reference", "Text")
	for _, v := range verses {
		t.AppendRow(table.Row{fmt.Sprintf("%s %d:%d", v.BookName, v.Chapter, v.Verse), v.Text})
	}
	t.Render()
}

// printWordCounts renders (word, count) pairs under the given column
// name.
func printWordCounts(label string, counts []types.WordCount) {
	t := newTable(label, "Count")
	for _, wc := range counts {
		t.AppendRow(table.Row{wc.Word, wc.Count})
	}
	t.Render()
}

// formatTime renders timestamps for table output.
func formatTime(ts time.Time) string {
	return ts.Local().Format("2006-01-02 15:04")
}
