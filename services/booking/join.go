package booking

import (
	"context"
	"errors"
	"time"

	bookingRepo "skillswap/database/repository/booking"
	"skillswap/models"

	"go.uber.org/zap"
)

// Join admits a participant into the session. The first join transitions
// scheduled -> in-progress and stamps actual_start_time; each participant's
// own join timestamp is stamped at most once. The video credential is issued
// before the state commit, so a credential failure leaves the booking
// untouched rather than stranding it in-progress without a ticket.
func (s *DefaultBookingService) Join(ctx context.Context, bookingID, actorID string) (*JoinResult, error) {
	b, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.IsParticipant(actorID) {
		return nil, errNotParticipant()
	}
	if b.Status != models.StatusScheduled && b.Status != models.StatusInProgress {
		return nil, errInvalidTransition("this session cannot be joined in its current state")
	}

	now := s.now()
	opens := b.StartTime.Add(-JoinEarlyWindow)
	closes := b.StartTime.Add(time.Duration(b.DurationMinutes) * time.Minute)
	if now.Before(opens) || now.After(closes) {
		return nil, errDeadlinePassed("the join window for this session is closed")
	}

	ttl := closes.Sub(now)
	credential, err := s.Video.JoinCredential(ctx, bookingID, actorID, ttl)
	if err != nil {
		return nil, err
	}

	isTeacher := actorID == b.TeacherID
	alreadyStamped := (isTeacher && b.TeacherJoinedAt != nil) || (!isTeacher && b.LearnerJoinedAt != nil)
	if !alreadyStamped {
		firstJoin := b.Status == models.StatusScheduled
		err := s.Bookings.MarkJoined(ctx, bookingID, isTeacher, now, firstJoin)
		if errors.Is(err, bookingRepo.ErrNotApplicable) && firstJoin {
			// The other participant won the scheduled -> in-progress race;
			// stamp our side only.
			err = s.Bookings.MarkJoined(ctx, bookingID, isTeacher, now, false)
		}
		if err != nil && !errors.Is(err, bookingRepo.ErrNotApplicable) {
			return nil, err
		}
	}

	b, err = s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	s.Logger.Info("participant joined",
		zap.String("bookingId", bookingID),
		zap.String("userId", actorID),
		zap.String("status", b.Status),
	)
	return &JoinResult{Booking: b, Credential: credential}, nil
}

// Complete is the explicit end-of-session operation invoked by a collaborator
// (operator action or call-duration timer). Rating opens once it lands.
func (s *DefaultBookingService) Complete(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != models.StatusInProgress {
		return nil, errInvalidTransition("only in-progress sessions can be completed")
	}
	if err := s.Bookings.MarkCompleted(ctx, bookingID); err != nil {
		if errors.Is(err, bookingRepo.ErrNotApplicable) {
			return nil, errInvalidTransition("only in-progress sessions can be completed")
		}
		return nil, err
	}
	b.Status = models.StatusCompleted

	s.Logger.Info("session completed", zap.String("bookingId", bookingID))
	return b, nil
}
