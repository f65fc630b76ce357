package types

// Verse is a single verse of scripture text.
type Verse struct {
	BookName string `json:"book_name"`
	Chapter  int    `json:"chapter"`
	Verse    int    `json:"verse"`
	Text     string `json:"text"`
}

// VersePayload is the structured result of one reference fetch: a verse,
// a verse range, or a whole chapter. The translation fields are optional;
// TranslationID carries the translation abbreviation (e.g. "web").
type VersePayload struct {
	Reference       string  `json:"reference"`
	Verses          []Verse `json:"verses"`
	TranslationID   string  `json:"translation_id,omitempty"`
	TranslationName string  `json:"translation_name,omitempty"`
	TranslationNote string  `json:"translation_note,omitempty"`
}

// Empty reports whether the payload carries no verses.
func (p VersePayload) Empty() bool {
	return len(p.Verses) == 0
}
