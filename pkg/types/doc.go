// Package types defines the domain types shared across concord packages:
// fetched verse payloads, persisted query records, sessions, users, and
// analysis history shapes, together with the sentinel errors returned by
// the store and the session manager.
package types
