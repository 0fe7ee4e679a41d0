package models

import "time"

// User is a platform profile. Role flags and reputation aggregates live here;
// the token balance lives on the Account and is only reachable through the
// ledger.
type User struct {
	ID             string    `bson:"id" json:"id"`
	Name           string    `bson:"name" json:"name"`
	Email          string    `bson:"email" json:"email"`
	IsTeacher      bool      `bson:"is_teacher" json:"is_teacher"`
	AverageRating  float64   `bson:"average_rating" json:"average_rating"`
	RatingCount    int       `bson:"rating_count" json:"rating_count"`
	SessionsTaught int       `bson:"sessions_taught" json:"sessions_taught"`
	FCMToken       string    `bson:"fcm_token,omitempty" json:"-"`
	Active         bool      `bson:"active" json:"active"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}
