// Package store implements the SQLite persistence layer for concord:
// the record store for queries and verses, user and session tables, the
// chapter/verse bound cache, and analysis history.
package store

// Schema DDL. Tables are created in dependency order: core tables with no
// foreign keys first, then query, session, and analysis tables.
const (
	createTranslations = `CREATE TABLE IF NOT EXISTS translations (
    id TEXT PRIMARY KEY,
    abbr TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL UNIQUE,
    note TEXT
);`

	createBooks = `CREATE TABLE IF NOT EXISTS books (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE
);`

	createUsers = `CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    created_at TEXT NOT NULL
);`

	createChapterCache = `CREATE TABLE IF NOT EXISTS book_chapter_cache (
    book_name TEXT NOT NULL,
    translation TEXT NOT NULL,
    max_chapter INTEGER NOT NULL,
    last_updated TEXT NOT NULL,
    PRIMARY KEY (book_name, translation)
);`

	createVerseCache = `CREATE TABLE IF NOT EXISTS book_verse_cache (
    book_name TEXT NOT NULL,
    chapter INTEGER NOT NULL,
    translation TEXT NOT NULL,
    max_verse INTEGER NOT NULL,
    last_updated TEXT NOT NULL,
    PRIMARY KEY (book_name, chapter, translation)
);`

	createQueries = `CREATE TABLE IF NOT EXISTS queries (
    id TEXT PRIMARY KEY,
    reference TEXT NOT NULL,
    created_at TEXT NOT NULL,
    translation_id TEXT,
    FOREIGN KEY (translation_id) REFERENCES translations(id)
);`

	createVerses = `CREATE TABLE IF NOT EXISTS verses (
    id TEXT PRIMARY KEY,
    query_id TEXT NOT NULL,
    book_id TEXT NOT NULL,
    chapter INTEGER NOT NULL,
    verse INTEGER NOT NULL,
    text TEXT NOT NULL,
    snippet TEXT,
    FOREIGN KEY (query_id) REFERENCES queries(id),
    FOREIGN KEY (book_id) REFERENCES books(id)
);`

	createSessions = `CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    name TEXT,
    scope TEXT,
    created_at TEXT NOT NULL,
    is_saved INTEGER NOT NULL DEFAULT 0,
    FOREIGN KEY (user_id) REFERENCES users(id)
);`

	createSessionQueries = `CREATE TABLE IF NOT EXISTS session_queries (
    session_id TEXT NOT NULL,
    query_id TEXT NOT NULL,
    PRIMARY KEY (session_id, query_id),
    FOREIGN KEY (session_id) REFERENCES sessions(id),
    FOREIGN KEY (query_id) REFERENCES queries(id)
);`

	createSessionQueriesCache = `CREATE TABLE IF NOT EXISTS session_queries_cache (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL,
    reference TEXT NOT NULL,
    verse_data TEXT,
    created_at TEXT NOT NULL
);`

	// user_id and session_id are soft references: history outlives user
	// and session deletion, with user_name keeping rows readable.
	createAnalysisHistory = `CREATE TABLE IF NOT EXISTS analysis_history (
    id TEXT PRIMARY KEY,
    user_id TEXT,
    session_id TEXT,
    user_name TEXT NOT NULL,
    analysis_type TEXT NOT NULL,
    scope_type TEXT NOT NULL,
    scope_details TEXT,
    verse_count INTEGER,
    created_at TEXT NOT NULL
);`

	createAnalysisResults = `CREATE TABLE IF NOT EXISTS analysis_results (
    id TEXT PRIMARY KEY,
    analysis_id TEXT NOT NULL,
    result_type TEXT NOT NULL,
    result_data TEXT NOT NULL,
    chart_path TEXT,
    created_at TEXT NOT NULL,
    FOREIGN KEY (analysis_id) REFERENCES analysis_history(id)
);`
)

// Index DDL for history filtering and result lookups.
const (
	idxAnalysisUser    = `CREATE INDEX IF NOT EXISTS idx_analysis_user ON analysis_history(user_id);`
	idxAnalysisType    = `CREATE INDEX IF NOT EXISTS idx_analysis_type ON analysis_history(analysis_type);`
	idxAnalysisSession = `CREATE INDEX IF NOT EXISTS idx_analysis_session ON analysis_history(session_id);`
	idxAnalysisDate    = `CREATE INDEX IF NOT EXISTS idx_analysis_date ON analysis_history(created_at);`
	idxResultsAnalysis = `CREATE INDEX IF NOT EXISTS idx_results_analysis ON analysis_results(analysis_id);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createTranslations,
	createBooks,
	createUsers,
	createChapterCache,
	createVerseCache,
	createQueries,
	createVerses,
	createSessions,
	createSessionQueries,
	createSessionQueriesCache,
	createAnalysisHistory,
	createAnalysisResults,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxAnalysisUser,
	idxAnalysisType,
	idxAnalysisSession,
	idxAnalysisDate,
	idxResultsAnalysis,
}

// dropDDL lists DROP TABLE statements in reverse dependency order, child
// tables first. Used by Reset.
var dropDDL = []string{
	`DROP TABLE IF EXISTS analysis_results;`,
	`DROP TABLE IF EXISTS analysis_history;`,
	`DROP TABLE IF EXISTS session_queries;`,
	`DROP TABLE IF EXISTS session_queries_cache;`,
	`DROP TABLE IF EXISTS verses;`,
	`DROP TABLE IF EXISTS sessions;`,
	`DROP TABLE IF EXISTS queries;`,
	`DROP TABLE IF EXISTS book_verse_cache;`,
	`DROP TABLE IF EXISTS book_chapter_cache;`,
	`DROP TABLE IF EXISTS books;`,
	`DROP TABLE IF EXISTS translations;`,
	`DROP TABLE IF EXISTS users;`,
}
