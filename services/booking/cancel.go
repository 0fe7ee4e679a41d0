package booking

import (
	"context"
	"errors"

	bookingRepo "skillswap/database/repository/booking"
	"skillswap/models"
	"skillswap/services/ledger"

	"go.uber.org/zap"
)

// Cancel transitions scheduled -> cancelled, refunding the learner in full
// when tokens were charged. Only a participant may cancel, only while the
// booking is still scheduled, and only before the 24-hour cutoff.
func (s *DefaultBookingService) Cancel(ctx context.Context, bookingID, actorID, reason string) (*models.Booking, error) {
	b, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.IsParticipant(actorID) {
		return nil, errNotParticipant()
	}
	if b.Status != models.StatusScheduled {
		return nil, errInvalidTransition("only scheduled bookings can be cancelled")
	}

	now := s.now()
	if !now.Before(b.StartTime.Add(-CancellationCutoff)) {
		return nil, errDeadlinePassed("cancellation is only possible more than 24 hours before the session starts")
	}

	refunded := s.shouldCharge(b)
	cancellation := models.Cancellation{
		CancelledBy: actorID,
		Reason:      reason,
		CancelledAt: now,
		Refunded:    refunded,
	}

	// The refund moves before the status commit, same ordering as the charge
	// on creation. If the commit below fails with an infrastructure error the
	// booking stays scheduled and a retried cancel re-drives both steps; the
	// refund: key collapses the second credit.
	freshRefund := false
	if refunded {
		_, err := s.Ledger.Credit(ctx, ledger.EntryRequest{
			UserID:         b.LearnerID,
			Amount:         b.TokensCharged,
			Reason:         models.ReasonRefund,
			BookingID:      b.ID,
			IdempotencyKey: "refund:" + b.ID,
		})
		switch {
		case errors.Is(err, ledger.ErrAlreadyApplied):
			// A retried cancel; only the status commit is missing.
		case err != nil:
			return nil, err
		default:
			freshRefund = true
		}
	}

	if err := s.Bookings.MarkCancelled(ctx, bookingID, cancellation); err != nil {
		if errors.Is(err, bookingRepo.ErrNotApplicable) {
			if freshRefund {
				s.compensateRefund(ctx, b)
			}
			return nil, errInvalidTransition("only scheduled bookings can be cancelled")
		}
		return nil, err
	}

	b.Status = models.StatusCancelled
	b.Cancellation = &cancellation

	s.Logger.Info("booking cancelled",
		zap.String("bookingId", b.ID),
		zap.String("cancelledBy", actorID),
		zap.Bool("refunded", refunded),
	)
	s.dispatchBookingCancelled(b, actorID, refunded)
	return b, nil
}

// MarkNoShow records that a scheduled session never happened. Status change
// only; no tokens move.
func (s *DefaultBookingService) MarkNoShow(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != models.StatusScheduled {
		return nil, errInvalidTransition("only scheduled bookings can be marked as no-show")
	}
	if err := s.Bookings.MarkNoShow(ctx, bookingID); err != nil {
		if errors.Is(err, bookingRepo.ErrNotApplicable) {
			return nil, errInvalidTransition("only scheduled bookings can be marked as no-show")
		}
		return nil, err
	}
	b.Status = models.StatusNoShow
	return b, nil
}
