package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "skillswap/database/repository/booking"
	"skillswap/models"
	"skillswap/services/ledger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Create validates the request against identity, availability, conflicts and
// balance, charges the learner, and inserts the booking while claiming its
// slot. The debit happens before the insert; if the slot claim then loses a
// race, the charge is compensated with a refund entry.
func (s *DefaultBookingService) Create(ctx context.Context, req CreateRequest) (*models.Booking, error) {
	if err := s.validateCreate(req); err != nil {
		return nil, err
	}

	teacher, err := s.Identity.Lookup(ctx, req.TeacherID)
	if err != nil {
		return nil, err
	}
	if !teacher.IsTeacher || !teacher.Active {
		return nil, errValidation("the requested user does not teach on this platform")
	}
	learner, err := s.Identity.Lookup(ctx, req.LearnerID)
	if err != nil {
		return nil, err
	}
	if !learner.Active {
		return nil, errValidation("learner account is deactivated")
	}

	end := req.StartTime.Add(time.Duration(req.DurationMinutes) * time.Minute)

	// The teacher must actually offer this time.
	window, slot, err := s.Availability.FindSlot(ctx, req.TeacherID, req.StartTime, req.DurationMinutes)
	if err != nil {
		return nil, err
	}
	if slot.Booked {
		return nil, errConflict("the requested slot is already booked")
	}

	// Neither participant may hold an overlapping active booking.
	overlapping, err := s.Bookings.FindActiveOverlapping(ctx, req.TeacherID, req.LearnerID, req.StartTime, end)
	if err != nil {
		return nil, err
	}
	if len(overlapping) > 0 {
		return nil, errConflict("the requested time overlaps an existing booking")
	}

	now := s.now()
	b := &models.Booking{
		ID:              uuid.New().String(),
		TeacherID:       req.TeacherID,
		LearnerID:       req.LearnerID,
		StartTime:       req.StartTime,
		EndTime:         end,
		DurationMinutes: req.DurationMinutes,
		TokensCharged:   req.PriceTokens,
		IsSkillExchange: req.IsSkillExchange,
		Status:          models.StatusScheduled,
		WindowID:        window.ID,
		SlotID:          slot.ID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	charged := s.shouldCharge(b)
	if charged {
		if _, err := s.Ledger.Debit(ctx, ledger.EntryRequest{
			UserID:         req.LearnerID,
			Amount:         req.PriceTokens,
			Reason:         models.ReasonSessionLearning,
			BookingID:      b.ID,
			IdempotencyKey: "charge:" + b.ID,
		}); err != nil {
			return nil, err
		}
	}

	if err := s.Bookings.CreateWithSlotClaim(ctx, b); err != nil {
		if charged {
			s.compensateCharge(ctx, b)
		}
		if errors.Is(err, bookingRepo.ErrSlotTaken) {
			return nil, errConflict("the requested slot is already booked")
		}
		if errors.Is(err, bookingRepo.ErrOverlap) {
			return nil, errConflict("the requested time overlaps an existing booking")
		}
		return nil, err
	}

	s.Logger.Info("booking created",
		zap.String("bookingId", b.ID),
		zap.String("teacherId", b.TeacherID),
		zap.String("learnerId", b.LearnerID),
		zap.Time("startTime", b.StartTime),
		zap.Int64("tokensCharged", b.TokensCharged),
	)
	s.dispatchBookingCreated(b, charged)
	return b, nil
}

func (s *DefaultBookingService) validateCreate(req CreateRequest) error {
	if req.TeacherID == "" || req.LearnerID == "" {
		return errValidation("teacher and learner are required")
	}
	if req.TeacherID == req.LearnerID {
		return errValidation("a user cannot book a session with themselves")
	}
	if req.DurationMinutes <= 0 {
		return errValidation("duration must be positive")
	}
	if req.PriceTokens < 0 {
		return errValidation("price cannot be negative")
	}
	if !req.StartTime.After(s.now()) {
		return errValidation("start time must be in the future")
	}
	return nil
}

// shouldCharge reports whether tokens move for this booking: skill exchanges
// swap in kind and never touch the ledger, whatever price is recorded.
func (s *DefaultBookingService) shouldCharge(b *models.Booking) bool {
	return !b.IsSkillExchange && b.TokensCharged > 0
}

// compensateCharge refunds the creation debit after a failed insert. Keyed on
// the booking id so a double compensation is impossible.
func (s *DefaultBookingService) compensateCharge(ctx context.Context, b *models.Booking) {
	_, err := s.Ledger.Credit(ctx, ledger.EntryRequest{
		UserID:         b.LearnerID,
		Amount:         b.TokensCharged,
		Reason:         models.ReasonRefund,
		BookingID:      b.ID,
		IdempotencyKey: "chargeback:" + b.ID,
	})
	if err != nil && !errors.Is(err, ledger.ErrAlreadyApplied) {
		// The debit stands without its booking; surface loudly for the
		// reconciliation runbook.
		s.Logger.Error(fmt.Sprintf("failed to compensate charge for booking %s", b.ID), zap.Error(err))
	}
}

// compensateRefund claws back a cancellation refund after the status commit
// lost its race, for instance to a join on the other side.
func (s *DefaultBookingService) compensateRefund(ctx context.Context, b *models.Booking) {
	_, err := s.Ledger.Debit(ctx, ledger.EntryRequest{
		UserID:         b.LearnerID,
		Amount:         b.TokensCharged,
		Reason:         models.ReasonAdminAdjustment,
		BookingID:      b.ID,
		IdempotencyKey: "refundback:" + b.ID,
	})
	if err != nil && !errors.Is(err, ledger.ErrAlreadyApplied) {
		s.Logger.Error(fmt.Sprintf("failed to claw back refund for booking %s", b.ID), zap.Error(err))
	}
}
