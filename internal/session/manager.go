// Package session implements the state machine over the process-wide
// "current session" pointer. A Manager coordinates the in-process Context
// with the store's session tables and enforces ownership: every
// session-accepting operation re-verifies that the caller owns the
// target session before touching it.
package session

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/mesh-intelligence/concord/internal/store"
	"github.com/mesh-intelligence/concord/pkg/types"
)

// Context is the caller's identity and active session. It is passed
// explicitly to every operation; there is no hidden global, so tests can
// simulate multiple callers side by side.
type Context struct {
	UserID    string
	SessionID string
}

// Authenticated reports whether a user is signed in.
func (c *Context) Authenticated() bool { return c.UserID != "" }

// HasSession reports whether a session is active.
func (c *Context) HasSession() bool { return c.SessionID != "" }

// Clear resets both pointers, e.g. on sign-out.
func (c *Context) Clear() {
	c.UserID = ""
	c.SessionID = ""
}

// Manager drives the session lifecycle for one Context.
//
// Mutating operations (Start, Resume, Delete) fail with
// ErrNotAuthenticated when no user is signed in; read-style operations
// (List, End) silently return empty or false instead. Calling UI code
// relies on that asymmetry to decide when to redirect to a login flow.
type Manager struct {
	store *store.Store
	ctx   *Context
}

// NewManager returns a Manager operating on behalf of ctx.
func NewManager(st *store.Store, ctx *Context) *Manager {
	return &Manager{store: st, ctx: ctx}
}

// Start creates a session owned by the current user and makes it active.
// Temporary sessions are created unsaved; Save promotes them later.
// Returns the new session ID.
func (m *Manager) Start(name, scope string, temporary bool) (string, error) {
	if !m.ctx.Authenticated() {
		return "", types.ErrNotAuthenticated
	}
	id, err := m.store.CreateSession(m.ctx.UserID, name, scope, temporary)
	if err != nil {
		return "", fmt.Errorf("starting session: %w", err)
	}
	m.ctx.SessionID = id
	log.Info("session started", "session", id, "name", name)
	return id, nil
}

// Resume makes an existing session active. Returns the session, or nil
// when it does not exist. Resuming a session owned by another user fails
// with ErrNotOwner and leaves the active session unchanged.
func (m *Manager) Resume(id string) (*types.Session, error) {
	if !m.ctx.Authenticated() {
		return nil, types.ErrNotAuthenticated
	}
	sess, err := m.store.GetSession(id)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, nil
	}
	if sess.UserID != m.ctx.UserID {
		return nil, types.ErrNotOwner
	}
	m.ctx.SessionID = sess.ID
	return sess, nil
}

// End clears the active-session pointer. Stored rows are untouched.
// Returns false when no session was active.
func (m *Manager) End() bool {
	if !m.ctx.HasSession() {
		return false
	}
	m.ctx.SessionID = ""
	return true
}

// Save marks the active session as permanent. Idempotent. Returns the
// session, or nil when no session is active.
func (m *Manager) Save() (*types.Session, error) {
	if !m.ctx.HasSession() {
		return nil, nil
	}
	if err := m.store.MarkSessionSaved(m.ctx.SessionID); err != nil {
		return nil, err
	}
	return m.store.GetSession(m.ctx.SessionID)
}

// Delete removes a session after re-verifying ownership. Reports whether
// a session was deleted. If the deleted session was the active one, the
// active-session pointer is cleared; otherwise state is unchanged.
func (m *Manager) Delete(id string) (bool, error) {
	if !m.ctx.Authenticated() {
		return false, types.ErrNotAuthenticated
	}
	sess, err := m.store.GetSession(id)
	if err != nil {
		return false, err
	}
	if sess == nil {
		return false, nil
	}
	if sess.UserID != m.ctx.UserID {
		return false, types.ErrNotOwner
	}
	deleted, err := m.store.DeleteSession(id)
	if err != nil {
		return false, err
	}
	if deleted && m.ctx.SessionID == id {
		m.ctx.SessionID = ""
	}
	return deleted, nil
}

// List returns the current user's sessions, newest first. An
// unauthenticated caller gets an empty list, not an error.
func (m *Manager) List() ([]types.Session, error) {
	if !m.ctx.Authenticated() {
		return nil, nil
	}
	return m.store.ListSessions(m.ctx.UserID)
}

// Current returns the active session, or nil when none is active.
func (m *Manager) Current() (*types.Session, error) {
	if !m.ctx.HasSession() {
		return nil, nil
	}
	return m.store.GetSession(m.ctx.SessionID)
}

// AddQuery links a saved query to the active session. Linking the same
// query twice is a no-op.
func (m *Manager) AddQuery(queryID string) error {
	if !m.ctx.HasSession() {
		return types.ErrNoSession
	}
	return m.store.LinkQuery(m.ctx.SessionID, queryID)
}

// CacheQuery attaches a payload to the active session without promoting
// it to a permanent query. Returns the cache entry ID.
func (m *Manager) CacheQuery(p types.VersePayload) (string, error) {
	if !m.ctx.HasSession() {
		return "", types.ErrNoSession
	}
	return m.store.CacheQuery(m.ctx.SessionID, p)
}

// Queries returns every query attached to the active session, saved and
// cached. Empty when no session is active.
func (m *Manager) Queries() ([]types.SessionEntry, error) {
	if !m.ctx.HasSession() {
		return nil, nil
	}
	return m.store.SessionQueries(m.ctx.SessionID)
}

// ClearCache drops the active session's cached queries. Reports whether
// anything was removed; false when no session is active.
func (m *Manager) ClearCache() (bool, error) {
	if !m.ctx.HasSession() {
		return false, nil
	}
	return m.store.ClearSessionCache(m.ctx.SessionID)
}
