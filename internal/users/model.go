package users

import "time"

// User is the account record, keyed by email. CreatedAt is set once at
// signup and never changes; ImageURL may be rewritten any number of times.
type User struct {
	Email        string
	PasswordHash string
	ProfileName  string
	ImageURL     string
	CreatedAt    time.Time
}
