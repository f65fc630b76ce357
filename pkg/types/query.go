package types

import "time"

// QueryRecord is a persisted fetch result with its verses and, when one
// was attached at save time, translation metadata.
type QueryRecord struct {
	ID              string
	Reference       string
	CreatedAt       time.Time
	TranslationID   string // translation abbreviation, empty when none attached
	TranslationName string
	TranslationNote string
	Verses          []Verse
}

// QuerySummary is a query row with its verse count, used by listings.
type QuerySummary struct {
	ID         string
	Reference  string
	CreatedAt  time.Time
	VerseCount int
}

// SearchMatch is one verse matching a word search.
type SearchMatch struct {
	Book    string
	Chapter int
	Verse   int
	Text    string
}

// BookChapter identifies one chapter of one book.
type BookChapter struct {
	Book    string
	Chapter int
}

// BookCount is a book name with its saved verse count.
type BookCount struct {
	Book  string
	Count int
}

// ChapterCount is a chapter with its saved verse count.
type ChapterCount struct {
	Book    string
	Chapter int
	Count   int
}
