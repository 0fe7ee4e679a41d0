package accountRepo

import (
	"context"
	"errors"

	"skillswap/models"
)

// Sentinel errors surfaced by the repository; services translate them into
// caller-visible rejections.
var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrAccountExists       = errors.New("account already exists")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrDuplicateEntry      = errors.New("ledger entry already applied")
)

// AccountRepository is the only write path to accounts and ledger entries.
// Apply-methods persist the entry and the matching balance mutation as one
// atomic unit: both land or neither does.
type AccountRepository interface {
	// Create inserts a new account record.
	Create(ctx context.Context, account *models.Account) error
	// GetByUserID retrieves the account owned by the given user.
	GetByUserID(ctx context.Context, userID string) (*models.Account, error)
	// ApplyCredit increments balance and total_earned and appends the entry.
	// The entry's BalanceBefore/BalanceAfter are filled in from the committed
	// account state.
	ApplyCredit(ctx context.Context, userID string, entry *models.LedgerEntry) error
	// ApplyDebit decrements balance and increments total_spent, rejecting with
	// ErrInsufficientBalance when the balance cannot cover the amount.
	ApplyDebit(ctx context.Context, userID string, entry *models.LedgerEntry) error
	// ListEntries returns the account's ledger history, newest first.
	ListEntries(ctx context.Context, accountID string, filter models.LedgerFilter) ([]models.LedgerEntry, error)
	// EnsureIndexes creates the collection indexes.
	EnsureIndexes() error
}
