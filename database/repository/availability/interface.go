package availabilityRepo

import (
	"context"
	"errors"

	"skillswap/models"
)

var ErrWindowNotFound = errors.New("availability window not found")

// AvailabilityRepository defines data access for teacher availability windows.
type AvailabilityRepository interface {
	// GetByID retrieves a window by its unique ID.
	GetByID(ctx context.Context, id string) (*models.AvailabilityWindow, error)
	// GetForTeacher retrieves all of a teacher's windows.
	GetForTeacher(ctx context.Context, teacherID string) ([]models.AvailabilityWindow, error)
	// ReplaceForTeacher atomically swaps a teacher's declared windows.
	ReplaceForTeacher(ctx context.Context, teacherID string, windows []models.AvailabilityWindow) error
	// EnsureIndexes creates the collection indexes.
	EnsureIndexes() error
}
