package users

import "context"

// Repository is the persistence contract for account records.
//
// Create is an upsert: signing up again with an existing email overwrites
// the credential and profile fields (last write wins) but leaves the
// original creation timestamp in place. UpdateImageURL is unconditional
// and silently does nothing when no record exists for the email.
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateImageURL(ctx context.Context, email string, imageURL string) error
}
