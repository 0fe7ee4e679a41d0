package availability

import (
	"context"
	"time"

	availabilityRepo "skillswap/database/repository/availability"
	userRepo "skillswap/database/repository/user"
	"skillswap/models"

	"go.uber.org/zap"
)

// Service owns teacher-declared bookable time. It decides which windows apply
// to a calendar date and whether a requested interval is offered at all; the
// booking conflict check is a separate concern layered on top.
type Service interface {
	// SetWindows replaces a teacher's declared windows after validation.
	SetWindows(ctx context.Context, teacherID string, windows []models.AvailabilityWindow) error
	// WindowsForTeacher returns the teacher's raw declared windows.
	WindowsForTeacher(ctx context.Context, teacherID string) ([]models.AvailabilityWindow, error)
	// ResolveForDate picks the window governing the given instant: a
	// specific-date window wins over a recurring weekday window.
	ResolveForDate(ctx context.Context, teacherID string, at time.Time) (*models.AvailabilityWindow, error)
	// FindSlot locates the declared slot covering [start, start+duration), or
	// reports that the interval is not offered.
	FindSlot(ctx context.Context, teacherID string, start time.Time, durationMinutes int) (*models.AvailabilityWindow, *models.BookableSlot, error)
}

// DefaultAvailabilityService implements Service.
type DefaultAvailabilityService struct {
	Repo   availabilityRepo.AvailabilityRepository
	Users  userRepo.UserRepository
	Logger *zap.Logger
}
