package models

import "time"

// Account holds a user's token balance. The balance is derived state: it must
// always equal TotalEarned - TotalSpent, and it only moves through ledger-backed
// credit/debit operations.
type Account struct {
	ID          string    `bson:"id" json:"id"`
	UserID      string    `bson:"user_id" json:"user_id"`
	Balance     int64     `bson:"balance" json:"balance"`
	TotalEarned int64     `bson:"total_earned" json:"total_earned"`
	TotalSpent  int64     `bson:"total_spent" json:"total_spent"`
	Active      bool      `bson:"active" json:"active"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}
