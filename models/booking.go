package models

import "time"

// Booking statuses.
const (
	StatusScheduled  = "scheduled"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
	StatusNoShow     = "no-show"
)

// Rating is a write-once review left by one participant about the other.
type Rating struct {
	Value     int       `bson:"value" json:"value"` // 1..5
	Review    string    `bson:"review,omitempty" json:"review,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Cancellation records who cancelled a booking and when.
type Cancellation struct {
	CancelledBy string    `bson:"cancelled_by" json:"cancelled_by"`
	Reason      string    `bson:"reason,omitempty" json:"reason,omitempty"`
	CancelledAt time.Time `bson:"cancelled_at" json:"cancelled_at"`
	Refunded    bool      `bson:"refunded" json:"refunded"`
}

// SessionSummary is the structured report produced by the summary pipeline for
// a completed session.
type SessionSummary struct {
	Text        string    `bson:"text" json:"text"`
	GeneratedAt time.Time `bson:"generated_at" json:"generated_at"`
}

// Booking ties a teacher, a learner, a time window and a price together and
// carries the session through its lifecycle. EndTime is denormalized from
// StartTime + Duration so overlap queries stay index-friendly.
type Booking struct {
	ID              string          `bson:"id" json:"id"`
	TeacherID       string          `bson:"teacher_id" json:"teacher_id"`
	LearnerID       string          `bson:"learner_id" json:"learner_id"`
	StartTime       time.Time       `bson:"start_time" json:"start_time"`
	EndTime         time.Time       `bson:"end_time" json:"end_time"`
	DurationMinutes int             `bson:"duration_minutes" json:"duration_minutes"`
	TokensCharged   int64           `bson:"tokens_charged" json:"tokens_charged"`
	IsSkillExchange bool            `bson:"is_skill_exchange" json:"is_skill_exchange"`
	Status          string          `bson:"status" json:"status"`
	SlotID          string          `bson:"slot_id,omitempty" json:"slot_id,omitempty"`
	WindowID        string          `bson:"window_id,omitempty" json:"window_id,omitempty"`
	ActualStartTime *time.Time      `bson:"actual_start_time,omitempty" json:"actual_start_time,omitempty"`
	TeacherJoinedAt *time.Time      `bson:"teacher_joined_at,omitempty" json:"teacher_joined_at,omitempty"`
	LearnerJoinedAt *time.Time      `bson:"learner_joined_at,omitempty" json:"learner_joined_at,omitempty"`
	Cancellation    *Cancellation   `bson:"cancellation,omitempty" json:"cancellation,omitempty"`
	TeacherRating   *Rating         `bson:"teacher_rating,omitempty" json:"teacher_rating,omitempty"` // teacher rates learner
	LearnerRating   *Rating         `bson:"learner_rating,omitempty" json:"learner_rating,omitempty"` // learner rates teacher
	Summary         *SessionSummary `bson:"summary,omitempty" json:"summary,omitempty"`
	CreatedAt       time.Time       `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `bson:"updated_at" json:"updated_at"`
}

// IsParticipant reports whether userID is the booking's teacher or learner.
func (b *Booking) IsParticipant(userID string) bool {
	return userID == b.TeacherID || userID == b.LearnerID
}

// IsActive reports whether the booking still occupies its time window for
// conflict purposes.
func (b *Booking) IsActive() bool {
	return b.Status == StatusScheduled || b.Status == StatusInProgress
}
