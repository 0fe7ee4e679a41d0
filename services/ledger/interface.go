package ledger

import (
	"context"

	accountRepo "skillswap/database/repository/account"
	"skillswap/models"

	"go.uber.org/zap"
)

// Service is the only path by which a token balance changes. Every change is
// attributable (reason-tagged) and replayable from the entry sequence.
type Service interface {
	// OpenAccount creates the user's account and records the welcome bonus.
	OpenAccount(ctx context.Context, userID string) (*models.Account, error)
	// GetAccount returns the user's current account state.
	GetAccount(ctx context.Context, userID string) (*models.Account, error)
	// Credit adds tokens; returns the committed ledger entry.
	Credit(ctx context.Context, req EntryRequest) (*models.LedgerEntry, error)
	// Debit removes tokens, rejecting when the balance cannot cover the
	// amount; returns the committed ledger entry.
	Debit(ctx context.Context, req EntryRequest) (*models.LedgerEntry, error)
	// History returns the account's entries, newest first.
	History(ctx context.Context, userID string, filter models.LedgerFilter) ([]models.LedgerEntry, error)
}

// EntryRequest describes one balance change. IdempotencyKey, when set, makes
// the change at-most-once: a retry with the same key yields ErrAlreadyApplied.
type EntryRequest struct {
	UserID         string
	Amount         int64
	Reason         string
	BookingID      string
	IdempotencyKey string
}

// DefaultLedgerService implements Service.
type DefaultLedgerService struct {
	Accounts     accountRepo.AccountRepository
	WelcomeBonus int64
	Logger       *zap.Logger
}
