package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/concord/internal/store"
	"github.com/mesh-intelligence/concord/pkg/types"
)

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "John_3-16.md", exportFileName("John 3:16"))
	assert.Equal(t, "Psalms_23.md", exportFileName("Psalms 23"))
	assert.Equal(t, "Romans_8-28-39.md", exportFileName("Romans 8:28-39"))
}

func TestFormatQueryMarkdown(t *testing.T) {
	rec := &types.QueryRecord{
		ID:              "q1",
		Reference:       "Psalms 23:6-24:1",
		CreatedAt:       time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		TranslationID:   "web",
		TranslationName: "World English Bible",
		TranslationNote: "Public Domain",
		Verses: []types.Verse{
			{BookName: "Psalms", Chapter: 23, Verse: 6, Text: "Surely goodness and loving kindness shall follow me "},
			{BookName: "Psalms", Chapter: 24, Verse: 1, Text: "The earth is Yahweh's, with its fullness"},
		},
	}

	md := formatQueryMarkdown(rec)
	assert.Contains(t, md, "# Psalms 23:6-24:1\n\n")
	assert.Contains(t, md, "**Translation:** World English Bible web\n")
	assert.Contains(t, md, "*Public Domain*\n")
	assert.Contains(t, md, "\n---\n\n")
	assert.Contains(t, md, "## Chapter 23\n\n")
	assert.Contains(t, md, "## Chapter 24\n\n")
	// Verse text is trimmed and tagged with its number.
	assert.Contains(t, md, "[**6**] Surely goodness and loving kindness shall follow me\n\n")
	assert.Contains(t, md, "[**1**] The earth is Yahweh's, with its fullness\n\n")
}

func TestFormatQueryMarkdownWithoutTranslation(t *testing.T) {
	rec := &types.QueryRecord{
		ID:        "q2",
		Reference: "John 3:16",
		Verses: []types.Verse{
			{BookName: "John", Chapter: 3, Verse: 16, Text: "For God so loved the world"},
		},
	}

	md := formatQueryMarkdown(rec)
	assert.NotContains(t, md, "**Translation:**")
	assert.NotContains(t, md, "**Saved**:")
	assert.Contains(t, md, "## Chapter 3\n\n")
}

func TestRunExport(t *testing.T) {
	dataDir := useTestDataDir(t)

	var queryID string
	seedStore(t, dataDir, func(st *store.Store) {
		id, err := st.SaveQuery(john316Payload())
		require.NoError(t, err)
		queryID = id
	})

	t.Run("writes under the exports directory", func(t *testing.T) {
		require.NoError(t, runExport(exportCmd, []string{queryID}))

		content, err := os.ReadFile(filepath.Join(dataDir, exportDirName, "John_3-16.md"))
		require.NoError(t, err)
		assert.Contains(t, string(content), "# John 3:16")
		assert.Contains(t, string(content), "[**16**] For God so loved the world")
	})

	t.Run("honors an output name", func(t *testing.T) {
		flagExportOut = "study.md"
		t.Cleanup(func() { flagExportOut = "" })

		require.NoError(t, runExport(exportCmd, []string{queryID}))
		_, err := os.Stat(filepath.Join(dataDir, exportDirName, "study.md"))
		assert.NoError(t, err)
	})

	t.Run("unknown query errors", func(t *testing.T) {
		err := runExport(exportCmd, []string{"missing1"})
		assert.Error(t, err)
	})
}
