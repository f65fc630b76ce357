package types

import "time"

// Session groups queries into one research unit of work. IsSaved=false
// marks the session as temporary, eligible for future cleanup. A session
// is owned by exactly one user; ownership never changes after creation.
type Session struct {
	ID        string
	UserID    string
	Name      string
	Scope     string
	CreatedAt time.Time
	IsSaved   bool
}

// CachedQuery is a query result attached to a session without being
// promoted to a permanent query row.
type CachedQuery struct {
	ID        string
	Reference string
	Payload   VersePayload
	CreatedAt time.Time
}

// Sources for entries returned by session query listings.
const (
	SourceSaved = "saved"
	SourceCache = "cache"
)

// SessionEntry is one query attached to a session, either a permanently
// saved record or a cached payload. Exactly one of Record and Cached is
// set, per Source.
type SessionEntry struct {
	Source string
	Record *QueryRecord
	Cached *CachedQuery
}
