package types

import "errors"

// Sentinel errors returned by the store and session manager.
var (
	// ErrNotAuthenticated is returned by mutating session operations when
	// no user is signed in. Read-style operations never return it; they
	// return empty results instead.
	ErrNotAuthenticated = errors.New("authentication required")

	// ErrNotOwner is returned when a session operation targets a session
	// owned by a different user.
	ErrNotOwner = errors.New("session belongs to another user")

	// ErrNoSession is returned by session operations that require an
	// active session when none is set.
	ErrNoSession = errors.New("no active session")

	// ErrInvalidData is returned when a payload fails validation before
	// any row is written.
	ErrInvalidData = errors.New("invalid data")
)
