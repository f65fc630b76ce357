package types

import "time"

// User is the root of ownership for sessions and analyses.
type User struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
