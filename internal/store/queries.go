package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mesh-intelligence/concord/pkg/types"
)

// snippetWidth is the maximum display length of a verse snippet,
// including the ellipsis.
const snippetWidth = 160

// snippet collapses whitespace runs (including newlines) to single spaces
// and elides the text at a word boundary beyond snippetWidth characters.
func snippet(text string) string {
	collapsed := strings.Join(strings.Fields(text), " ")
	runes := []rune(collapsed)
	if len(runes) <= snippetWidth {
		return collapsed
	}
	truncated := string(runes[:snippetWidth-len("...")])
	if i := strings.LastIndex(truncated, " "); i > 0 {
		truncated = truncated[:i]
	}
	return truncated + "..."
}

// SaveQuery persists a fetched payload: the query row, its translation
// (resolved or created), and every verse with its book, all in a single
// transaction. No partial query is ever visible to readers. Returns the
// new query ID.
func (s *Store) SaveQuery(p types.VersePayload) (string, error) {
	reference := strings.TrimSpace(p.Reference)

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var translationID sql.NullString
	if p.TranslationName != "" || p.TranslationID != "" {
		id, err := ensureTranslationTx(tx, p.TranslationName, p.TranslationID, p.TranslationNote)
		if err != nil {
			return "", err
		}
		translationID = sql.NullString{String: id, Valid: true}
	}

	queryID := newID()
	_, err = tx.Exec(
		"INSERT INTO queries (id, reference, created_at, translation_id) VALUES (?, ?, ?, ?)",
		queryID, reference, now(), translationID,
	)
	if err != nil {
		return "", fmt.Errorf("inserting query %q: %w", reference, err)
	}

	for _, v := range p.Verses {
		if v.BookName == "" {
			return "", fmt.Errorf("verse %d:%d has no book name: %w", v.Chapter, v.Verse, types.ErrInvalidData)
		}
		bookID, err := ensureBookTx(tx, v.BookName)
		if err != nil {
			return "", err
		}
		_, err = tx.Exec(
			`INSERT INTO verses (id, query_id, book_id, chapter, verse, text, snippet)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			newID(), queryID, bookID, v.Chapter, v.Verse, v.Text, snippet(v.Text),
		)
		if err != nil {
			return "", fmt.Errorf("inserting verse %s %d:%d: %w", v.BookName, v.Chapter, v.Verse, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing query %q: %w", reference, err)
	}

	log.Info("saved query", "reference", reference, "verses", len(p.Verses))
	return queryID, nil
}

// EnsureBook returns the ID of the book with the given name, creating the
// row if it does not exist.
func (s *Store) EnsureBook(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("book name: %w", types.ErrInvalidData)
	}
	_, err := s.db.Exec(
		"INSERT INTO books (id, name) VALUES (?, ?) ON CONFLICT(name) DO NOTHING",
		newID(), name,
	)
	if err != nil {
		return "", fmt.Errorf("ensuring book %q: %w", name, err)
	}
	var id string
	if err := s.db.QueryRow("SELECT id FROM books WHERE name = ?", name).Scan(&id); err != nil {
		return "", fmt.Errorf("looking up book %q: %w", name, err)
	}
	return id, nil
}

// ensureBookTx is EnsureBook inside an open transaction, so verse inserts
// and their book rows commit together.
func ensureBookTx(tx *sql.Tx, name string) (string, error) {
	_, err := tx.Exec(
		"INSERT INTO books (id, name) VALUES (?, ?) ON CONFLICT(name) DO NOTHING",
		newID(), name,
	)
	if err != nil {
		return "", fmt.Errorf("ensuring book %q: %w", name, err)
	}
	var id string
	if err := tx.QueryRow("SELECT id FROM books WHERE name = ?", name).Scan(&id); err != nil {
		return "", fmt.Errorf("looking up book %q: %w", name, err)
	}
	return id, nil
}

// ensureTranslationTx resolves a translation by its (name, abbr) pair,
// inserting a new row when the pair is unseen.
func ensureTranslationTx(tx *sql.Tx, name, abbr, note string) (string, error) {
	var id string
	err := tx.QueryRow(
		"SELECT id FROM translations WHERE name = ? AND abbr = ?", name, abbr,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("looking up translation %q: %w", abbr, err)
	}

	id = newID()
	var noteVal sql.NullString
	if note != "" {
		noteVal = sql.NullString{String: note, Valid: true}
	}
	_, err = tx.Exec(
		"INSERT INTO translations (id, name, abbr, note) VALUES (?, ?, ?, ?)",
		id, name, abbr, noteVal,
	)
	if err != nil {
		return "", fmt.Errorf("inserting translation %q: %w", abbr, err)
	}
	return id, nil
}

// GetQuery returns a query with its verses ordered by (chapter, verse)
// and translation fields when a translation is attached. Nil if absent.
func (s *Store) GetQuery(id string) (*types.QueryRecord, error) {
	if id == "" {
		return nil, nil
	}
	return s.queryRecord(
		`SELECT q.id, q.reference, q.created_at,
		        t.id, t.abbr, t.name, t.note
		 FROM queries q
		 LEFT JOIN translations t ON q.translation_id = t.id
		 WHERE q.id = ?`, id)
}

// QueryByReference returns the saved query matching the reference text,
// optionally narrowed to a translation abbreviation. Nil if absent.
func (s *Store) QueryByReference(reference, translation string) (*types.QueryRecord, error) {
	if reference == "" {
		return nil, nil
	}
	query := `SELECT q.id, q.reference, q.created_at,
	                 t.id, t.abbr, t.name, t.note
	          FROM queries q
	          LEFT JOIN translations t ON q.translation_id = t.id
	          WHERE q.reference = ?`
	args := []any{reference}
	if translation != "" {
		query += " AND LOWER(t.abbr) = ?"
		args = append(args, strings.ToLower(translation))
	}
	query += " LIMIT 1"
	return s.queryRecord(query, args...)
}

// queryRecord scans a single joined query row and loads its verses.
func (s *Store) queryRecord(query string, args ...any) (*types.QueryRecord, error) {
	var rec types.QueryRecord
	var createdAt string
	var tID, tAbbr, tName, tNote sql.NullString

	err := s.db.QueryRow(query, args...).Scan(
		&rec.ID, &rec.Reference, &createdAt, &tID, &tAbbr, &tName, &tNote,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning query: %w", err)
	}
	if rec.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if tID.Valid {
		rec.TranslationID = tAbbr.String
		rec.TranslationName = tName.String
		rec.TranslationNote = tNote.String
	}

	rec.Verses, err = s.queryVerses(rec.ID)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) queryVerses(queryID string) ([]types.Verse, error) {
	rows, err := s.db.Query(
		`SELECT b.name, v.chapter, v.verse, v.text
		 FROM verses v
		 JOIN books b ON v.book_id = b.id
		 WHERE v.query_id = ?
		 ORDER BY v.chapter, v.verse`, queryID)
	if err != nil {
		return nil, fmt.Errorf("querying verses: %w", err)
	}
	defer rows.Close()
	return scanVerses(rows)
}

func scanVerses(rows *sql.Rows) ([]types.Verse, error) {
	var verses []types.Verse
	for rows.Next() {
		var v types.Verse
		if err := rows.Scan(&v.BookName, &v.Chapter, &v.Verse, &v.Text); err != nil {
			return nil, fmt.Errorf("scanning verse: %w", err)
		}
		verses = append(verses, v)
	}
	return verses, rows.Err()
}

// ListQueries returns all saved queries with their verse counts, newest
// first. Ties on created_at keep insertion order via the rowid tiebreak.
func (s *Store) ListQueries() ([]types.QuerySummary, error) {
	rows, err := s.db.Query(
		`SELECT q.id, q.reference, q.created_at, COUNT(v.id)
		 FROM queries q
		 LEFT JOIN verses v ON q.id = v.query_id
		 GROUP BY q.id
		 ORDER BY q.created_at DESC, q.rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing queries: %w", err)
	}
	defer rows.Close()

	var summaries []types.QuerySummary
	for rows.Next() {
		var qs types.QuerySummary
		var createdAt string
		if err := rows.Scan(&qs.ID, &qs.Reference, &createdAt, &qs.VerseCount); err != nil {
			return nil, fmt.Errorf("scanning query summary: %w", err)
		}
		if qs.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		summaries = append(summaries, qs)
	}
	return summaries, rows.Err()
}

// SearchWord finds verses containing the word, case-insensitively. The
// verse text is padded with boundary spaces so a bare substring cannot
// falsely match inside a longer word when the caller searches with its
// own surrounding spaces. Ordered by (book, chapter, verse).
func (s *Store) SearchWord(word string) ([]types.SearchMatch, error) {
	pattern := "%" + strings.ToLower(word) + "%"
	rows, err := s.db.Query(
		`SELECT b.name, v.chapter, v.verse, v.text
		 FROM verses v
		 JOIN books b ON b.id = v.book_id
		 WHERE LOWER(' ' || v.text || ' ') LIKE ?
		 ORDER BY b.name, v.chapter, v.verse`, pattern)
	if err != nil {
		return nil, fmt.Errorf("searching for %q: %w", word, err)
	}
	defer rows.Close()

	var matches []types.SearchMatch
	for rows.Next() {
		var m types.SearchMatch
		if err := rows.Scan(&m.Book, &m.Chapter, &m.Verse, &m.Text); err != nil {
			return nil, fmt.Errorf("scanning search match: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// TotalVerseCount returns the count of all saved verses.
func (s *Store) TotalVerseCount() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM verses").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting verses: %w", err)
	}
	return count, nil
}

// UniqueBooks returns all book names, alphabetically.
func (s *Store) UniqueBooks() ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT name FROM books ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("listing books: %w", err)
	}
	defer rows.Close()

	var books []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning book: %w", err)
		}
		books = append(books, name)
	}
	return books, rows.Err()
}

// UniqueChapters returns all distinct (book, chapter) pairs with saved
// verses, ordered by book then chapter.
func (s *Store) UniqueChapters() ([]types.BookChapter, error) {
	rows, err := s.db.Query(
		`SELECT DISTINCT b.name, v.chapter
		 FROM verses v
		 JOIN books b ON v.book_id = b.id
		 ORDER BY b.name, v.chapter`)
	if err != nil {
		return nil, fmt.Errorf("listing chapters: %w", err)
	}
	defer rows.Close()

	var chapters []types.BookChapter
	for rows.Next() {
		var bc types.BookChapter
		if err := rows.Scan(&bc.Book, &bc.Chapter); err != nil {
			return nil, fmt.Errorf("scanning chapter: %w", err)
		}
		chapters = append(chapters, bc)
	}
	return chapters, rows.Err()
}

// BookDistribution returns verse counts per book, most verses first.
func (s *Store) BookDistribution() ([]types.BookCount, error) {
	rows, err := s.db.Query(
		`SELECT b.name, COUNT(v.id)
		 FROM verses v
		 JOIN books b ON v.book_id = b.id
		 GROUP BY b.name
		 ORDER BY COUNT(v.id) DESC`)
	if err != nil {
		return nil, fmt.Errorf("book distribution: %w", err)
	}
	defer rows.Close()

	var counts []types.BookCount
	for rows.Next() {
		var bc types.BookCount
		if err := rows.Scan(&bc.Book, &bc.Count); err != nil {
			return nil, fmt.Errorf("scanning book count: %w", err)
		}
		counts = append(counts, bc)
	}
	return counts, rows.Err()
}

// ChapterDistribution returns verse counts per (book, chapter), most
// verses first, ties ordered by book then chapter.
func (s *Store) ChapterDistribution() ([]types.ChapterCount, error) {
	rows, err := s.db.Query(
		`SELECT b.name, v.chapter, COUNT(v.id)
		 FROM verses v
		 JOIN books b ON v.book_id = b.id
		 GROUP BY b.name, v.chapter
		 ORDER BY COUNT(v.id) DESC, b.name, v.chapter`)
	if err != nil {
		return nil, fmt.Errorf("chapter distribution: %w", err)
	}
	defer rows.Close()

	var counts []types.ChapterCount
	for rows.Next() {
		var cc types.ChapterCount
		if err := rows.Scan(&cc.Book, &cc.Chapter, &cc.Count); err != nil {
			return nil, fmt.Errorf("scanning chapter count: %w", err)
		}
		counts = append(counts, cc)
	}
	return counts, rows.Err()
}

// VersesByBook returns all saved verses for a book, ordered by
// (chapter, verse).
func (s *Store) VersesByBook(book string) ([]types.Verse, error) {
	rows, err := s.db.Query(
		`SELECT b.name, v.chapter, v.verse, v.text
		 FROM verses v
		 JOIN books b ON v.book_id = b.id
		 WHERE b.name = ?
		 ORDER BY v.chapter, v.verse`, book)
	if err != nil {
		return nil, fmt.Errorf("verses for book %q: %w", book, err)
	}
	defer rows.Close()
	return scanVerses(rows)
}

// VersesForQueries returns the distinct verses across the given query
// IDs, ordered by (book, chapter, verse).
func (s *Store) VersesForQueries(queryIDs []string) ([]types.Verse, error) {
	if len(queryIDs) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(queryIDs)), ",")
	args := make([]any, len(queryIDs))
	for i, id := range queryIDs {
		args[i] = id
	}
	rows, err := s.db.Query(
		`SELECT DISTINCT b.name, v.chapter, v.verse, v.text
		 FROM verses v
		 JOIN books b ON v.book_id = b.id
		 WHERE v.query_id IN (`+placeholders+`)
		 ORDER BY b.name, v.chapter, v.verse`, args...)
	if err != nil {
		return nil, fmt.Errorf("verses for queries: %w", err)
	}
	defer rows.Close()
	return scanVerses(rows)
}
