package models

import "time"

// Ledger entry directions.
const (
	DirectionCredit = "credit"
	DirectionDebit  = "debit"
)

// Ledger entry reasons.
const (
	ReasonPurchase        = "purchase"
	ReasonSessionTeaching = "session_teaching"
	ReasonSessionLearning = "session_learning"
	ReasonReferral        = "referral"
	ReasonAdminAdjustment = "admin_adjustment"
	ReasonRefund          = "refund"
	ReasonWelcomeBonus    = "welcome_bonus"
)

// LedgerEntry is one immutable, reason-tagged record of a balance change.
// Entries are append-only: never updated, never deleted.
type LedgerEntry struct {
	ID             string    `bson:"id" json:"id"`
	AccountID      string    `bson:"account_id" json:"account_id"`
	Direction      string    `bson:"direction" json:"direction"`
	Amount         int64     `bson:"amount" json:"amount"`
	Reason         string    `bson:"reason" json:"reason"`
	BookingID      string    `bson:"booking_id,omitempty" json:"booking_id,omitempty"`
	BalanceBefore  int64     `bson:"balance_before" json:"balance_before"`
	BalanceAfter   int64     `bson:"balance_after" json:"balance_after"`
	IdempotencyKey string    `bson:"idempotency_key,omitempty" json:"idempotency_key,omitempty"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
}

// LedgerFilter narrows a history query. Zero values mean "no constraint".
type LedgerFilter struct {
	Reason    string
	Direction string
	From      time.Time
	To        time.Time
	Limit     int64
}
