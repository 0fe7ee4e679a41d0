package booking

import (
	"fmt"
	"strconv"

	"skillswap/models"
)

// Effect emission. Events are built after the transaction commits and handed
// to the dispatcher, which delivers them best-effort off the request path.

func (s *DefaultBookingService) dispatch(events []models.Event) {
	if s.Dispatcher != nil {
		s.Dispatcher.Dispatch(events)
	}
}

func (s *DefaultBookingService) dispatchBookingCreated(b *models.Booking, charged bool) {
	now := s.now()
	data := map[string]string{"bookingId": b.ID}
	events := []models.Event{
		{
			Type:      models.EventBookingCreated,
			UserID:    b.TeacherID,
			Title:     "New session booked",
			Body:      fmt.Sprintf("A learner booked a %d-minute session starting %s.", b.DurationMinutes, b.StartTime.Format("Jan 2, 15:04")),
			Data:      data,
			CreatedAt: now,
		},
		{
			Type:      models.EventBookingCreated,
			UserID:    b.LearnerID,
			Title:     "Booking confirmed",
			Body:      fmt.Sprintf("Your session on %s is confirmed.", b.StartTime.Format("Jan 2, 15:04")),
			Data:      data,
			CreatedAt: now,
		},
	}
	if charged {
		events = append(events, models.Event{
			Type:      models.EventTokensDebited,
			UserID:    b.LearnerID,
			Title:     "Tokens spent",
			Body:      fmt.Sprintf("%d tokens were charged for your booking.", b.TokensCharged),
			Data:      map[string]string{"bookingId": b.ID, "amount": strconv.FormatInt(b.TokensCharged, 10)},
			CreatedAt: now,
		})
	}
	s.dispatch(events)
}

func (s *DefaultBookingService) dispatchBookingCancelled(b *models.Booking, actorID string, refunded bool) {
	now := s.now()
	data := map[string]string{"bookingId": b.ID}
	var events []models.Event
	for _, userID := range []string{b.TeacherID, b.LearnerID} {
		events = append(events, models.Event{
			Type:      models.EventBookingCancelled,
			UserID:    userID,
			Title:     "Session cancelled",
			Body:      fmt.Sprintf("The session on %s was cancelled.", b.StartTime.Format("Jan 2, 15:04")),
			Data:      data,
			CreatedAt: now,
		})
	}
	if refunded {
		events = append(events, models.Event{
			Type:      models.EventTokensCredited,
			UserID:    b.LearnerID,
			Title:     "Tokens refunded",
			Body:      fmt.Sprintf("%d tokens were returned to your balance.", b.TokensCharged),
			Data:      map[string]string{"bookingId": b.ID, "amount": strconv.FormatInt(b.TokensCharged, 10)},
			CreatedAt: now,
		})
	}
	s.dispatch(events)
}

func (s *DefaultBookingService) dispatchSessionRated(b *models.Booking, raterID, ratedID string, value int, paidOut bool) {
	now := s.now()
	events := []models.Event{
		{
			Type:      models.EventSessionRated,
			UserID:    ratedID,
			Title:     "You received a rating",
			Body:      fmt.Sprintf("Your session was rated %d out of 5.", value),
			Data:      map[string]string{"bookingId": b.ID, "ratedBy": raterID},
			CreatedAt: now,
		},
	}
	if paidOut {
		events = append(events, models.Event{
			Type:      models.EventTokensCredited,
			UserID:    b.TeacherID,
			Title:     "Session earnings released",
			Body:      fmt.Sprintf("%d tokens were credited for your session.", b.TokensCharged),
			Data:      map[string]string{"bookingId": b.ID, "amount": strconv.FormatInt(b.TokensCharged, 10)},
			CreatedAt: now,
		})
	}
	s.dispatch(events)
}
