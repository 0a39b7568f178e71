package auth

import "context"

// Store is the persistence boundary for admin users.
type Store interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	Insert(ctx context.Context, user *User) error
	Count(ctx context.Context) (int, error)
}
