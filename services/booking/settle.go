package booking

import (
	"context"
	"errors"
	"time"

	bookingRepo "skillswap/database/repository/booking"
	userRepo "skillswap/database/repository/user"
	"skillswap/models"
	"skillswap/services/ledger"

	"go.uber.org/zap"
)

const statsRetryAttempts = 3

// Rate records a write-once review from one participant about the other, and
// settles the teacher's earnings. Payout is deliberately gated on the
// learner's rating rather than on completion: a teacher earns nothing until
// the learner leaves feedback. That is the business rule, not an oversight.
func (s *DefaultBookingService) Rate(ctx context.Context, bookingID, actorID string, value int, review string) (*models.Booking, error) {
	if value < 1 || value > 5 {
		return nil, errValidation("rating must be between 1 and 5")
	}

	b, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.IsParticipant(actorID) {
		return nil, errNotParticipant()
	}
	if b.Status != models.StatusCompleted {
		return nil, errInvalidTransition("only completed sessions can be rated")
	}

	rating := models.Rating{Value: value, Review: review, CreatedAt: s.now()}

	if actorID == b.TeacherID {
		return s.rateAsTeacher(ctx, b, rating)
	}
	return s.rateAsLearner(ctx, b, rating)
}

// rateAsTeacher stores the teacher's review of the learner and updates the
// learner's reputation. No tokens move on this path.
func (s *DefaultBookingService) rateAsTeacher(ctx context.Context, b *models.Booking, rating models.Rating) (*models.Booking, error) {
	if b.TeacherRating != nil {
		return nil, errInvalidTransition("the teacher has already rated this session")
	}
	if err := s.Bookings.SetTeacherRating(ctx, b.ID, rating); err != nil {
		if errors.Is(err, bookingRepo.ErrNotApplicable) {
			return nil, errInvalidTransition("the teacher has already rated this session")
		}
		return nil, err
	}
	b.TeacherRating = &rating

	if err := s.updateRatingStats(ctx, b.LearnerID, rating.Value, false); err != nil {
		s.Logger.Error("failed to update learner reputation", zap.String("userId", b.LearnerID), zap.Error(err))
	}

	s.Logger.Info("session rated",
		zap.String("bookingId", b.ID),
		zap.String("ratedBy", b.TeacherID),
		zap.Int("value", rating.Value),
	)
	s.dispatchSessionRated(b, b.TeacherID, b.LearnerID, rating.Value, false)
	return b, nil
}

// rateAsLearner stores the learner's review of the teacher and performs the
// settlement: the payout credit, the taught-session counter, and the
// teacher's running average.
func (s *DefaultBookingService) rateAsLearner(ctx context.Context, b *models.Booking, rating models.Rating) (*models.Booking, error) {
	if b.LearnerRating != nil {
		return nil, errInvalidTransition("the learner has already rated this session")
	}

	// The payout moves first: its key is the booking id and its amount and
	// recipient do not depend on which rating attempt wins, so a failure
	// here leaves the rating unwritten and a plain retry re-drives both.
	paidOut := false
	if s.shouldCharge(b) {
		_, err := s.Ledger.Credit(ctx, ledger.EntryRequest{
			UserID:         b.TeacherID,
			Amount:         b.TokensCharged,
			Reason:         models.ReasonSessionTeaching,
			BookingID:      b.ID,
			IdempotencyKey: "payout:" + b.ID,
		})
		switch {
		case errors.Is(err, ledger.ErrAlreadyApplied):
			// An earlier attempt paid out; only the rating is missing.
		case err != nil:
			return nil, err
		default:
			paidOut = true
		}
	}

	if err := s.Bookings.SetLearnerRating(ctx, b.ID, rating); err != nil {
		if errors.Is(err, bookingRepo.ErrNotApplicable) {
			return nil, errInvalidTransition("the learner has already rated this session")
		}
		return nil, err
	}
	b.LearnerRating = &rating

	if err := s.updateRatingStats(ctx, b.TeacherID, rating.Value, true); err != nil {
		s.Logger.Error("failed to update teacher reputation", zap.String("userId", b.TeacherID), zap.Error(err))
	}

	s.Logger.Info("session rated",
		zap.String("bookingId", b.ID),
		zap.String("ratedBy", b.LearnerID),
		zap.Int("value", rating.Value),
		zap.Bool("paidOut", paidOut),
	)
	s.dispatchSessionRated(b, b.LearnerID, b.TeacherID, rating.Value, paidOut)
	return b, nil
}

// updateRatingStats folds one rating into the user's running mean:
// (old*count + new) / (count+1). Optimistic, retried on concurrent bumps.
func (s *DefaultBookingService) updateRatingStats(ctx context.Context, userID string, value int, taught bool) error {
	var err error
	for attempt := 0; attempt < statsRetryAttempts; attempt++ {
		var u *models.User
		u, err = s.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		newAverage := (u.AverageRating*float64(u.RatingCount) + float64(value)) / float64(u.RatingCount+1)
		err = s.Users.ApplyRatingStats(ctx, userID, u.RatingCount, newAverage, taught)
		if !errors.Is(err, userRepo.ErrStaleStats) {
			return err
		}
		time.Sleep(time.Duration(attempt+1) * 10 * time.Millisecond)
	}
	return err
}
