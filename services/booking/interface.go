package booking

import (
	"context"
	"time"

	bookingRepo "skillswap/database/repository/booking"
	userRepo "skillswap/database/repository/user"
	"skillswap/models"
	"skillswap/services/availability"
	"skillswap/services/identity"
	"skillswap/services/ledger"
	"skillswap/services/notification"
	"skillswap/services/video"

	"go.uber.org/zap"
)

// Deadlines evaluated at call time against the wall clock.
const (
	// CancellationCutoff is how long before the scheduled start a
	// cancellation must arrive.
	CancellationCutoff = 24 * time.Hour
	// JoinEarlyWindow is how early a participant may join.
	JoinEarlyWindow = 15 * time.Minute
)

// CreateRequest describes a booking attempt.
type CreateRequest struct {
	TeacherID       string
	LearnerID       string
	StartTime       time.Time
	DurationMinutes int
	PriceTokens     int64
	IsSkillExchange bool
}

// JoinResult carries the committed booking state and the join credential for
// the video room.
type JoinResult struct {
	Booking    *models.Booking
	Credential string
}

// BookingService is the session state machine: scheduled -> in-progress ->
// completed, with cancelled and no-show as alternate terminal paths, coupled
// to the ledger for charge, refund and payout.
type BookingService interface {
	Create(ctx context.Context, req CreateRequest) (*models.Booking, error)
	Cancel(ctx context.Context, bookingID, actorID, reason string) (*models.Booking, error)
	Join(ctx context.Context, bookingID, actorID string) (*JoinResult, error)
	Complete(ctx context.Context, bookingID string) (*models.Booking, error)
	MarkNoShow(ctx context.Context, bookingID string) (*models.Booking, error)
	Rate(ctx context.Context, bookingID, actorID string, value int, review string) (*models.Booking, error)
	GetByID(ctx context.Context, bookingID, actorID string) (*models.Booking, error)
	ListForUser(ctx context.Context, userID string, limit int64) ([]models.Booking, error)
}

// DefaultBookingService implements BookingService. Collaborators arrive as
// explicit dependencies; nothing is reached through ambient globals.
type DefaultBookingService struct {
	Bookings     bookingRepo.BookingRepository
	Users        userRepo.UserRepository
	Identity     identity.Provider
	Ledger       ledger.Service
	Availability availability.Service
	Video        video.CredentialProvider
	Dispatcher   *notification.Dispatcher
	Logger       *zap.Logger
	// Clock is injectable so deadline guards are testable; nil means
	// time.Now.
	Clock func() time.Time
}

func (s *DefaultBookingService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}
