package models

import "time"

// Event types emitted to the notifier after a core operation commits.
const (
	EventBookingCreated   = "booking_created"
	EventBookingCancelled = "booking_cancelled"
	EventSessionRated     = "session_rated"
	EventTokensCredited   = "tokens_credited"
	EventTokensDebited    = "tokens_debited"
	EventSummaryReady     = "summary_ready"
)

// Event is a post-commit side effect handed to the notifier. Delivery is
// best-effort: a failed push never fails the operation that produced it.
type Event struct {
	Type      string            `json:"type"`
	UserID    string            `json:"user_id"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Data      map[string]string `json:"data,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// PurchaseEvent is what the payment-gateway event source delivers: a user
// bought tokens, or the charge failed.
type PurchaseEvent struct {
	EventID   string `json:"event_id"`
	UserID    string `json:"user_id"`
	Tokens    int64  `json:"tokens"`
	Succeeded bool   `json:"succeeded"`
}

// SummaryPayload is the asynq task payload for the summary pipeline.
type SummaryPayload struct {
	BookingID  string `json:"booking_id"`
	Transcript string `json:"transcript,omitempty"`
}
