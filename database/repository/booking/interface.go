package bookingRepo

import (
	"context"
	"errors"
	"time"

	"skillswap/models"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
	// ErrNotApplicable means a guarded write matched nothing: the booking is
	// no longer in the state the write requires (lost race or stale caller).
	ErrNotApplicable = errors.New("booking not in required state")
	ErrSlotTaken     = errors.New("slot already booked")
	// ErrOverlap is returned by CreateWithSlotClaim when the in-transaction
	// recheck finds an active booking overlapping the new one.
	ErrOverlap = errors.New("booking overlaps an active booking")
)

// BookingRepository defines the data access methods used by the booking state
// machine. Guarded writes carry their state precondition in the query filter
// so concurrent transitions cannot both land.
type BookingRepository interface {
	// GetByID retrieves a booking by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// ListForUser retrieves bookings where the user is teacher or learner,
	// newest first.
	ListForUser(ctx context.Context, userID string, limit int64) ([]models.Booking, error)
	// FindActiveOverlapping returns scheduled/in-progress bookings involving
	// the teacher or the learner whose interval overlaps [start, end).
	FindActiveOverlapping(ctx context.Context, teacherID, learnerID string, start, end time.Time) ([]models.Booking, error)
	// CreateWithSlotClaim inserts the booking and flips its availability slot
	// to booked in one transaction, rechecking overlaps under a
	// per-participant lock; fails with ErrSlotTaken if the slot is already
	// claimed and ErrOverlap if a concurrent booking got there first.
	CreateWithSlotClaim(ctx context.Context, booking *models.Booking) error
	// MarkCancelled transitions scheduled -> cancelled and releases the slot.
	MarkCancelled(ctx context.Context, id string, c models.Cancellation) error
	// MarkJoined stamps a participant's join time; on the first join it also
	// transitions scheduled -> in-progress and stamps actual_start_time.
	MarkJoined(ctx context.Context, id string, teacher bool, joinedAt time.Time, firstJoin bool) error
	// MarkCompleted transitions in-progress -> completed.
	MarkCompleted(ctx context.Context, id string) error
	// MarkNoShow transitions scheduled -> no-show and releases the slot.
	MarkNoShow(ctx context.Context, id string) error
	// SetTeacherRating writes the teacher-rates-learner record once.
	SetTeacherRating(ctx context.Context, id string, r models.Rating) error
	// SetLearnerRating writes the learner-rates-teacher record once.
	SetLearnerRating(ctx context.Context, id string, r models.Rating) error
	// SetSummary stores the generated report once per booking.
	SetSummary(ctx context.Context, id string, s models.SessionSummary) error
	// EnsureIndexes creates the collection indexes.
	EnsureIndexes() error
}
