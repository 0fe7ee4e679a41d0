package summary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bookingRepo "skillswap/database/repository/booking"
	"skillswap/models"
	"skillswap/services/tasks"
	"skillswap/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Request validates the booking is in a summarizable state and enqueues the
// generation task. The actual model call happens on the worker.
func (s *DefaultSummaryService) Request(ctx context.Context, bookingID, transcript string) error {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if errors.Is(err, bookingRepo.ErrBookingNotFound) {
		return utils.NewServiceError(utils.CodeNotFound, "booking does not exist")
	}
	if err != nil {
		return err
	}
	if b.Status != models.StatusCompleted {
		return utils.NewServiceError(utils.CodeInvalidTransition, "summaries are only generated for completed sessions")
	}
	if b.Summary != nil {
		return utils.NewServiceError(utils.CodeInvalidTransition, "a summary already exists for this session")
	}

	task, opts, err := tasks.NewSummaryTask(models.SummaryPayload{
		BookingID:  bookingID,
		Transcript: transcript,
	})
	if err != nil {
		return fmt.Errorf("failed to build summary task: %w", err)
	}
	if _, err := s.Queue.Enqueue(task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue summary task: %w", err)
	}

	s.Logger.Info("summary requested", zap.String("bookingId", bookingID))
	return nil
}

// HandleGenerateTask is the asynq handler: call the provider, persist the
// report, notify the participants. Returning an error lets asynq retry; a
// booking whose summary landed meanwhile is treated as done.
func (s *DefaultSummaryService) HandleGenerateTask(ctx context.Context, task *asynq.Task) error {
	var p models.SummaryPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		s.Logger.Error("invalid summary payload", zap.Error(err))
		return err
	}

	b, err := s.Bookings.GetByID(ctx, p.BookingID)
	if err != nil {
		return err
	}
	if b.Summary != nil {
		return nil
	}

	text, err := s.Provider.Summarize(ctx, p.Transcript)
	if err != nil {
		return fmt.Errorf("summary generation failed for booking %s: %w", p.BookingID, err)
	}

	report := models.SessionSummary{Text: text, GeneratedAt: time.Now()}
	if err := s.Bookings.SetSummary(ctx, p.BookingID, report); err != nil {
		if errors.Is(err, bookingRepo.ErrNotApplicable) {
			// Lost the race against another worker; the report exists.
			return nil
		}
		return err
	}

	if s.Dispatcher != nil {
		now := time.Now()
		events := make([]models.Event, 0, 2)
		for _, userID := range []string{b.TeacherID, b.LearnerID} {
			events = append(events, models.Event{
				Type:      models.EventSummaryReady,
				UserID:    userID,
				Title:     "Your session summary is ready",
				Body:      "The recap of your tutoring session has been generated.",
				Data:      map[string]string{"bookingId": b.ID},
				CreatedAt: now,
			})
		}
		s.Dispatcher.Dispatch(events)
	}

	s.Logger.Info("summary stored", zap.String("bookingId", p.BookingID))
	return nil
}
