package store

import (
	"database/sql"
	"fmt"
	"strings"
)

// The bound cache memoizes discovered "maximum chapter" and "maximum
// verse" values per book and translation, so callers can skip the paced
// probe sequence against the remote service. Values are plain upserts:
// a later write may raise or lower a cached bound. Translation keys are
// lowercased on both read and write.

// MaxChapter returns the cached maximum chapter for (book, translation).
// The second result reports whether a value was cached.
func (s *Store) MaxChapter(book, translation string) (int, bool, error) {
	var max int
	err := s.db.QueryRow(
		"SELECT max_chapter FROM book_chapter_cache WHERE book_name = ? AND translation = ?",
		book, strings.ToLower(translation),
	).Scan(&max)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("reading chapter bound for %s/%s: %w", book, translation, err)
	}
	return max, true, nil
}

// SetMaxChapter caches the maximum chapter for (book, translation),
// overwriting any previous value.
func (s *Store) SetMaxChapter(book, translation string, max int) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO book_chapter_cache (book_name, translation, max_chapter, last_updated)
		 VALUES (?, ?, ?, ?)`,
		book, strings.ToLower(translation), max, now(),
	)
	if err != nil {
		return fmt.Errorf("caching chapter bound for %s/%s: %w", book, translation, err)
	}
	return nil
}

// MaxVerse returns the cached maximum verse for (book, chapter,
// translation). The second result reports whether a value was cached.
func (s *Store) MaxVerse(book string, chapter int, translation string) (int, bool, error) {
	var max int
	err := s.db.QueryRow(
		"SELECT max_verse FROM book_verse_cache WHERE book_name = ? AND chapter = ? AND translation = ?",
		book, chapter, strings.ToLower(translation),
	).Scan(&max)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("reading verse bound for %s %d/%s: %w", book, chapter, translation, err)
	}
	return max, true, nil
}

// SetMaxVerse caches the maximum verse for (book, chapter, translation),
// overwriting any previous value.
func (s *Store) SetMaxVerse(book string, chapter int, translation string, max int) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO book_verse_cache (book_name, chapter, translation, max_verse, last_updated)
		 VALUES (?, ?, ?, ?, ?)`,
		book, chapter, strings.ToLower(translation), max, now(),
	)
	if err != nil {
		return fmt.Errorf("caching verse bound for %s %d/%s: %w", book, chapter, translation, err)
	}
	return nil
}
