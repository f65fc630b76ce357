package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/concord/internal/store"
	"github.com/mesh-intelligence/concord/pkg/types"
)

// useTestDataDir points the CLI at a temp data directory and resets the
// globals the commands read.
func useTestDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	flagDataDir = dir
	t.Cleanup(func() {
		flagDataDir = ""
		cliState = state{}
	})
	return dir
}

// seedStore opens the CLI's database for seeding and closes it again so
// the command under test gets a clean handle.
func seedStore(t *testing.T, dataDir string, seed func(st *store.Store)) {
	t.Helper()
	st, err := store.Open(filepath.Join(dataDir, dbFileName))
	require.NoError(t, err)
	seed(st)
	require.NoError(t, st.Close())
}

func john316Payload() types.VersePayload {
	return types.VersePayload{
		Reference: "John 3:16",
		Verses: []types.Verse{
			{BookName: "John", Chapter: 3, Verse: 16, Text: "For God so loved the world"},
		},
		TranslationID:   "web",
		TranslationName: "World English Bible",
	}
}

func TestRunFetch(t *testing.T) {
	// No server listens here, so any path that reaches the network
	// fails. The short-circuit paths must succeed anyway.
	deadAPI := "http://127.0.0.1:1"

	t.Run("saved query skips the network", func(t *testing.T) {
		dataDir := useTestDataDir(t)
		t.Setenv("CONCORD_API_URL", deadAPI)
		seedStore(t, dataDir, func(st *store.Store) {
			_, err := st.SaveQuery(john316Payload())
			require.NoError(t, err)
		})

		err := runFetch(fetchCmd, []string{"John", "3", "16"})
		assert.NoError(t, err)
	})

	t.Run("session cache skips the network", func(t *testing.T) {
		dataDir := useTestDataDir(t)
		t.Setenv("CONCORD_API_URL", deadAPI)
		seedStore(t, dataDir, func(st *store.Store) {
			userID, err := st.EnsureUser("alice")
			require.NoError(t, err)
			sessID, err := st.CreateSession(userID, "study", "", false)
			require.NoError(t, err)
			_, err = st.CacheQuery(sessID, john316Payload())
			require.NoError(t, err)
			cliState = state{UserID: userID, SessionID: sessID}
		})

		err := runFetch(fetchCmd, []string{"John", "3", "16"})
		assert.NoError(t, err)
	})

	t.Run("network failure surfaces without a stored copy", func(t *testing.T) {
		useTestDataDir(t)
		t.Setenv("CONCORD_API_URL", deadAPI)

		err := runFetch(fetchCmd, []string{"John", "3", "16"})
		assert.Error(t, err)
	})
}
