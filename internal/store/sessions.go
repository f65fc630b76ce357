package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mesh-intelligence/concord/pkg/types"
)

// CreateSession inserts a session owned by userID. Temporary sessions are
// created with is_saved = 0 and can be promoted later by MarkSessionSaved.
// Returns the new session ID.
func (s *Store) CreateSession(userID, name, scope string, temporary bool) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("session user: %w", types.ErrInvalidData)
	}
	id := newID()
	saved := 1
	if temporary {
		saved = 0
	}
	_, err := s.db.Exec(
		"INSERT INTO sessions (id, user_id, name, scope, created_at, is_saved) VALUES (?, ?, ?, ?, ?, ?)",
		id, userID, name, scope, now(), saved,
	)
	if err != nil {
		return "", fmt.Errorf("creating session %q: %w", name, err)
	}
	return id, nil
}

// GetSession returns the session with the given ID, or nil if absent.
func (s *Store) GetSession(id string) (*types.Session, error) {
	if id == "" {
		return nil, nil
	}
	var sess types.Session
	var createdAt string
	var saved int
	err := s.db.QueryRow(
		"SELECT id, user_id, name, scope, created_at, is_saved FROM sessions WHERE id = ?", id,
	).Scan(&sess.ID, &sess.UserID, &sess.Name, &sess.Scope, &createdAt, &saved)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning session: %w", err)
	}
	if sess.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	sess.IsSaved = saved != 0
	return &sess, nil
}

// ListSessions returns sessions newest first, filtered to one user when
// userID is non-empty.
func (s *Store) ListSessions(userID string) ([]types.Session, error) {
	query := "SELECT id, user_id, name, scope, created_at, is_saved FROM sessions"
	var args []any
	if userID != "" {
		query += " WHERE user_id = ?"
		args = append(args, userID)
	}
	query += " ORDER BY created_at DESC, rowid DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var sessions []types.Session
	for rows.Next() {
		var sess types.Session
		var createdAt string
		var saved int
		if err := rows.Scan(&sess.ID, &sess.UserID, &sess.Name, &sess.Scope, &createdAt, &saved); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		if sess.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		sess.IsSaved = saved != 0
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// LinkQuery links a saved query to a session. Linking the same pair twice
// is a no-op, not an error.
func (s *Store) LinkQuery(sessionID, queryID string) error {
	if sessionID == "" || queryID == "" {
		return fmt.Errorf("session link: %w", types.ErrInvalidData)
	}
	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO session_queries (session_id, query_id) VALUES (?, ?)",
		sessionID, queryID,
	)
	if err != nil {
		return fmt.Errorf("linking query %s to session %s: %w", queryID, sessionID, err)
	}
	return nil
}

// MarkSessionSaved flips the session's is_saved flag on. Idempotent.
func (s *Store) MarkSessionSaved(id string) error {
	if id == "" {
		return fmt.Errorf("session id: %w", types.ErrInvalidData)
	}
	_, err := s.db.Exec("UPDATE sessions SET is_saved = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("saving session %s: %w", id, err)
	}
	return nil
}

// DeleteSession removes a session, its query links, and its cached
// queries in one transaction. Reports whether a session row was deleted.
func (s *Store) DeleteSession(id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM session_queries WHERE session_id = ?", id); err != nil {
		return false, fmt.Errorf("deleting session links: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM session_queries_cache WHERE session_id = ?", id); err != nil {
		return false, fmt.Errorf("deleting session cache: %w", err)
	}
	res, err := tx.Exec("DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("deleting session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting session: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing session deletion: %w", err)
	}
	return affected > 0, nil
}

// CacheQuery stores a payload in the session cache without promoting it
// to a permanent query row. Returns the cache entry ID.
func (s *Store) CacheQuery(sessionID string, p types.VersePayload) (string, error) {
	if sessionID == "" {
		return "", fmt.Errorf("session id: %w", types.ErrInvalidData)
	}
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("serializing payload: %w", err)
	}
	id := newID()
	_, err = s.db.Exec(
		"INSERT INTO session_queries_cache (id, session_id, reference, verse_data, created_at) VALUES (?, ?, ?, ?, ?)",
		id, sessionID, strings.TrimSpace(p.Reference), string(data), now(),
	)
	if err != nil {
		return "", fmt.Errorf("caching query for session %s: %w", sessionID, err)
	}
	return id, nil
}

// CachedQueries returns all cache entries for a session. Entries whose
// payload fails to deserialize are returned with an empty payload rather
// than dropped.
func (s *Store) CachedQueries(sessionID string) ([]types.CachedQuery, error) {
	if sessionID == "" {
		return nil, nil
	}
	rows, err := s.db.Query(
		"SELECT id, reference, verse_data, created_at FROM session_queries_cache WHERE session_id = ?",
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying session cache: %w", err)
	}
	defer rows.Close()

	var cached []types.CachedQuery
	for rows.Next() {
		var cq types.CachedQuery
		var data sql.NullString
		var createdAt string
		if err := rows.Scan(&cq.ID, &cq.Reference, &data, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning cache entry: %w", err)
		}
		if cq.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if data.Valid {
			if err := json.Unmarshal([]byte(data.String), &cq.Payload); err != nil {
				log.Warn("discarding corrupt cached payload", "entry", cq.ID, "err", err)
				cq.Payload = types.VersePayload{}
			}
		}
		cached = append(cached, cq)
	}
	return cached, rows.Err()
}

// CachedQueryByReference returns the newest cached payload matching the
// reference, optionally narrowed to one session and one translation
// abbreviation. Nil if absent or if the translation does not match.
func (s *Store) CachedQueryByReference(reference, translation, sessionID string) (*types.VersePayload, error) {
	if reference == "" {
		return nil, nil
	}
	query := "SELECT verse_data FROM session_queries_cache WHERE reference = ?"
	args := []any{reference}
	if sessionID != "" {
		query += " AND session_id = ?"
		args = append(args, sessionID)
	}
	query += " ORDER BY created_at DESC, rowid DESC LIMIT 1"

	var data sql.NullString
	err := s.db.QueryRow(query, args...).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up cached query %q: %w", reference, err)
	}
	if !data.Valid {
		return nil, nil
	}

	var p types.VersePayload
	if err := json.Unmarshal([]byte(data.String), &p); err != nil {
		return nil, fmt.Errorf("deserializing cached query %q: %w", reference, err)
	}
	if translation != "" && !strings.EqualFold(p.TranslationID, translation) {
		return nil, nil
	}
	return &p, nil
}

// SessionQueries returns every query attached to a session: permanently
// saved records first, then cache entries.
func (s *Store) SessionQueries(sessionID string) ([]types.SessionEntry, error) {
	if sessionID == "" {
		return nil, nil
	}
	rows, err := s.db.Query(
		"SELECT query_id FROM session_queries WHERE session_id = ?", sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying session links: %w", err)
	}
	var queryIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning session link: %w", err)
		}
		queryIDs = append(queryIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var entries []types.SessionEntry
	for _, id := range queryIDs {
		rec, err := s.GetQuery(id)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			entries = append(entries, types.SessionEntry{Source: types.SourceSaved, Record: rec})
		}
	}

	cached, err := s.CachedQueries(sessionID)
	if err != nil {
		return nil, err
	}
	for i := range cached {
		entries = append(entries, types.SessionEntry{Source: types.SourceCache, Cached: &cached[i]})
	}
	return entries, nil
}

// ClearSessionCache removes all cache entries for a session. Reports
// whether any entry was removed.
func (s *Store) ClearSessionCache(sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}
	res, err := s.db.Exec("DELETE FROM session_queries_cache WHERE session_id = ?", sessionID)
	if err != nil {
		return false, fmt.Errorf("clearing session cache: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("clearing session cache: %w", err)
	}
	return affected > 0, nil
}

// SessionVerses returns the distinct verses across every query attached
// to a session, saved records first (ordered by book, chapter, verse),
// then cached payloads in insertion order.
func (s *Store) SessionVerses(sessionID string) ([]types.Verse, error) {
	rows, err := s.db.Query(
		`SELECT DISTINCT b.name, v.chapter, v.verse, v.text
		 FROM session_queries sq
		 JOIN verses v ON sq.query_id = v.query_id
		 JOIN books b ON v.book_id = b.id
		 WHERE sq.session_id = ?
		 ORDER BY b.name, v.chapter, v.verse`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying session verses: %w", err)
	}
	defer rows.Close()

	verses, err := scanVerses(rows)
	if err != nil {
		return nil, err
	}

	cached, err := s.CachedQueries(sessionID)
	if err != nil {
		return nil, err
	}
	for _, cq := range cached {
		verses = append(verses, cq.Payload.Verses...)
	}
	return verses, nil
}
