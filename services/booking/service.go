package booking

import (
	"context"
	"errors"

	bookingRepo "skillswap/database/repository/booking"
	"skillswap/models"
)

func (s *DefaultBookingService) getBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if errors.Is(err, bookingRepo.ErrBookingNotFound) {
		return nil, errBookingNotFound()
	}
	return b, err
}

// GetByID returns the booking, visible only to its participants.
func (s *DefaultBookingService) GetByID(ctx context.Context, bookingID, actorID string) (*models.Booking, error) {
	b, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.IsParticipant(actorID) {
		return nil, errNotParticipant()
	}
	return b, nil
}

func (s *DefaultBookingService) ListForUser(ctx context.Context, userID string, limit int64) ([]models.Booking, error) {
	return s.Bookings.ListForUser(ctx, userID, limit)
}
