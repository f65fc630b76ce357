package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/concord/pkg/types"
)

// seedUser creates a user and returns their ID.
func seedUser(t *testing.T, st *Store, name string) string {
	t.Helper()
	id, err := st.CreateUser(name)
	require.NoError(t, err)
	return id
}

func TestCreateSession(t *testing.T) {
	st := testStore(t)
	userID := seedUser(t, st, "alice")

	t.Run("permanent by default", func(t *testing.T) {
		id, err := st.CreateSession(userID, "romans study", "Romans", false)
		require.NoError(t, err)

		sess, err := st.GetSession(id)
		require.NoError(t, err)
		require.NotNil(t, sess)
		assert.True(t, sess.IsSaved)
		assert.Equal(t, userID, sess.UserID)
		assert.Equal(t, "romans study", sess.Name)
	})

	t.Run("temporary starts unsaved", func(t *testing.T) {
		id, err := st.CreateSession(userID, "scratch", "", true)
		require.NoError(t, err)

		sess, err := st.GetSession(id)
		require.NoError(t, err)
		require.NotNil(t, sess)
		assert.False(t, sess.IsSaved)
	})

	t.Run("requires user", func(t *testing.T) {
		_, err := st.CreateSession("", "x", "", false)
		assert.ErrorIs(t, err, types.ErrInvalidData)
	})
}

func TestGetSession(t *testing.T) {
	st := testStore(t)

	sess, err := st.GetSession("missing1")
	require.NoError(t, err)
	assert.Nil(t, sess)

	sess, err = st.GetSession("")
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestListSessions(t *testing.T) {
	st := testStore(t)
	alice := seedUser(t, st, "alice")
	bob := seedUser(t, st, "bob")

	first, err := st.CreateSession(alice, "one", "", false)
	require.NoError(t, err)
	second, err := st.CreateSession(alice, "two", "", false)
	require.NoError(t, err)
	_, err = st.CreateSession(bob, "other", "", false)
	require.NoError(t, err)

	t.Run("filtered to user, newest first", func(t *testing.T) {
		sessions, err := st.ListSessions(alice)
		require.NoError(t, err)
		require.Len(t, sessions, 2)
		assert.Equal(t, second, sessions[0].ID)
		assert.Equal(t, first, sessions[1].ID)
	})

	t.Run("empty user lists all", func(t *testing.T) {
		sessions, err := st.ListSessions("")
		require.NoError(t, err)
		assert.Len(t, sessions, 3)
	})
}

func TestLinkQuery(t *testing.T) {
	st := testStore(t)
	userID := seedUser(t, st, "alice")
	sessID, err := st.CreateSession(userID, "study", "", false)
	require.NoError(t, err)
	queryID, err := st.SaveQuery(testPayload())
	require.NoError(t, err)

	require.NoError(t, st.LinkQuery(sessID, queryID))
	// Linking the same pair again must be a no-op, not an error.
	require.NoError(t, st.LinkQuery(sessID, queryID))

	entries, err := st.SessionQueries(sessID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, types.SourceSaved, entries[0].Source)
	assert.Equal(t, queryID, entries[0].Record.ID)
}

func TestMarkSessionSaved(t *testing.T) {
	st := testStore(t)
	userID := seedUser(t, st, "alice")
	id, err := st.CreateSession(userID, "scratch", "", true)
	require.NoError(t, err)

	require.NoError(t, st.MarkSessionSaved(id))
	require.NoError(t, st.MarkSessionSaved(id)) // idempotent

	sess, err := st.GetSession(id)
	require.NoError(t, err)
	assert.True(t, sess.IsSaved)
}

func TestDeleteSession(t *testing.T) {
	st := testStore(t)
	userID := seedUser(t, st, "alice")
	sessID, err := st.CreateSession(userID, "study", "", false)
	require.NoError(t, err)
	queryID, err := st.SaveQuery(testPayload())
	require.NoError(t, err)
	require.NoError(t, st.LinkQuery(sessID, queryID))
	_, err = st.CacheQuery(sessID, testPayload())
	require.NoError(t, err)

	deleted, err := st.DeleteSession(sessID)
	require.NoError(t, err)
	assert.True(t, deleted)

	sess, err := st.GetSession(sessID)
	require.NoError(t, err)
	assert.Nil(t, sess)

	// Links and cache go with the session; the query itself survives.
	cached, err := st.CachedQueries(sessID)
	require.NoError(t, err)
	assert.Empty(t, cached)
	rec, err := st.GetQuery(queryID)
	require.NoError(t, err)
	assert.NotNil(t, rec)

	t.Run("deleting again reports false", func(t *testing.T) {
		deleted, err := st.DeleteSession(sessID)
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}

func TestCacheQuery(t *testing.T) {
	st := testStore(t)
	userID := seedUser(t, st, "alice")
	sessID, err := st.CreateSession(userID, "study", "", false)
	require.NoError(t, err)

	id, err := st.CacheQuery(sessID, testPayload())
	require.NoError(t, err)
	assert.Len(t, id, 8)

	cached, err := st.CachedQueries(sessID)
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, "John 3:16-17", cached[0].Reference)
	assert.Len(t, cached[0].Payload.Verses, 2)

	t.Run("corrupt payload returned empty, not dropped", func(t *testing.T) {
		_, err := st.db.Exec(
			"INSERT INTO session_queries_cache (id, session_id, reference, verse_data, created_at) VALUES (?, ?, ?, ?, ?)",
			"corrupt1", sessID, "Bad 1:1", "{not json", now(),
		)
		require.NoError(t, err)

		cached, err := st.CachedQueries(sessID)
		require.NoError(t, err)
		require.Len(t, cached, 2)
		for _, cq := range cached {
			if cq.ID == "corrupt1" {
				assert.True(t, cq.Payload.Empty())
			}
		}
	})
}

func TestCachedQueryByReference(t *testing.T) {
	st := testStore(t)
	userID := seedUser(t, st, "alice")
	sessID, err := st.CreateSession(userID, "study", "", false)
	require.NoError(t, err)
	_, err = st.CacheQuery(sessID, testPayload())
	require.NoError(t, err)

	t.Run("found", func(t *testing.T) {
		p, err := st.CachedQueryByReference("John 3:16-17", "", sessID)
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Len(t, p.Verses, 2)
	})

	t.Run("translation match is case-insensitive", func(t *testing.T) {
		p, err := st.CachedQueryByReference("John 3:16-17", "WEB", sessID)
		require.NoError(t, err)
		assert.NotNil(t, p)
	})

	t.Run("translation mismatch yields nil", func(t *testing.T) {
		p, err := st.CachedQueryByReference("John 3:16-17", "kjv", sessID)
		require.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("other session yields nil", func(t *testing.T) {
		p, err := st.CachedQueryByReference("John 3:16-17", "", "other123")
		require.NoError(t, err)
		assert.Nil(t, p)
	})
}

func TestClearSessionCache(t *testing.T) {
	st := testStore(t)
	userID := seedUser(t, st, "alice")
	sessID, err := st.CreateSession(userID, "study", "", false)
	require.NoError(t, err)

	cleared, err := st.ClearSessionCache(sessID)
	require.NoError(t, err)
	assert.False(t, cleared, "empty cache reports false")

	_, err = st.CacheQuery(sessID, testPayload())
	require.NoError(t, err)

	cleared, err = st.ClearSessionCache(sessID)
	require.NoError(t, err)
	assert.True(t, cleared)
}

func TestSessionVerses(t *testing.T) {
	st := testStore(t)
	userID := seedUser(t, st, "alice")
	sessID, err := st.CreateSession(userID, "study", "", false)
	require.NoError(t, err)

	queryID, err := st.SaveQuery(testPayload())
	require.NoError(t, err)
	require.NoError(t, st.LinkQuery(sessID, queryID))

	cachedPayload := types.VersePayload{
		Reference: "Psalms 23:1",
		Verses:    []types.Verse{{BookName: "Psalms", Chapter: 23, Verse: 1, Text: "The LORD is my shepherd"}},
	}
	_, err = st.CacheQuery(sessID, cachedPayload)
	require.NoError(t, err)

	verses, err := st.SessionVerses(sessID)
	require.NoError(t, err)
	require.Len(t, verses, 3)
	// Saved verses come first, cached payload verses appended after.
	assert.Equal(t, "John", verses[0].BookName)
	assert.Equal(t, "Psalms", verses[2].BookName)
}
