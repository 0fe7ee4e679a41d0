package userRepo

import (
	"context"
	"errors"

	"skillswap/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	// ErrStaleStats means the optimistic rating update lost a race; callers
	// should re-read and retry.
	ErrStaleStats = errors.New("rating stats changed concurrently")
)

// UserRepository defines methods for user profile data access.
type UserRepository interface {
	// GetByID retrieves a user by its unique ID.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// Create inserts a new user record.
	Create(ctx context.Context, user *models.User) error
	// Update modifies an existing user record.
	Update(ctx context.Context, user *models.User) error
	// ApplyRatingStats writes new reputation aggregates, guarded on the
	// rating count the caller computed them from.
	ApplyRatingStats(ctx context.Context, userID string, prevCount int, newAverage float64, incrementTaught bool) error
	// EnsureIndexes creates the collection indexes.
	EnsureIndexes() error
}
