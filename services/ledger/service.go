package ledger

import (
	"context"
	"errors"
	"time"

	accountRepo "skillswap/database/repository/account"
	"skillswap/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OpenAccount creates the account and, when a welcome bonus is configured,
// records it as the first ledger entry. The account is born with a zero
// balance so the bonus is replayable like any other change.
func (s *DefaultLedgerService) OpenAccount(ctx context.Context, userID string) (*models.Account, error) {
	now := time.Now()
	acc := &models.Account{
		ID:        uuid.New().String(),
		UserID:    userID,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Accounts.Create(ctx, acc); err != nil {
		if errors.Is(err, accountRepo.ErrAccountExists) {
			return nil, errAccountExists()
		}
		return nil, err
	}

	if s.WelcomeBonus > 0 {
		entry, err := s.Credit(ctx, EntryRequest{
			UserID:         userID,
			Amount:         s.WelcomeBonus,
			Reason:         models.ReasonWelcomeBonus,
			IdempotencyKey: "welcome:" + userID,
		})
		if err != nil && !errors.Is(err, ErrAlreadyApplied) {
			return nil, err
		}
		if entry != nil {
			acc.Balance = entry.BalanceAfter
			acc.TotalEarned = entry.Amount
		}
	}

	s.Logger.Info("account opened",
		zap.String("userId", userID),
		zap.Int64("welcomeBonus", s.WelcomeBonus),
	)
	return acc, nil
}

func (s *DefaultLedgerService) GetAccount(ctx context.Context, userID string) (*models.Account, error) {
	acc, err := s.Accounts.GetByUserID(ctx, userID)
	if errors.Is(err, accountRepo.ErrAccountNotFound) {
		return nil, errAccountNotFound()
	}
	return acc, err
}

func (s *DefaultLedgerService) Credit(ctx context.Context, req EntryRequest) (*models.LedgerEntry, error) {
	entry, err := s.buildEntry(req, models.DirectionCredit)
	if err != nil {
		return nil, err
	}
	if err := s.Accounts.ApplyCredit(ctx, req.UserID, entry); err != nil {
		return nil, s.translate(err)
	}
	s.Logger.Info("tokens credited",
		zap.String("userId", req.UserID),
		zap.Int64("amount", req.Amount),
		zap.String("reason", req.Reason),
		zap.Int64("balanceAfter", entry.BalanceAfter),
	)
	return entry, nil
}

func (s *DefaultLedgerService) Debit(ctx context.Context, req EntryRequest) (*models.LedgerEntry, error) {
	entry, err := s.buildEntry(req, models.DirectionDebit)
	if err != nil {
		return nil, err
	}
	if err := s.Accounts.ApplyDebit(ctx, req.UserID, entry); err != nil {
		return nil, s.translate(err)
	}
	s.Logger.Info("tokens debited",
		zap.String("userId", req.UserID),
		zap.Int64("amount", req.Amount),
		zap.String("reason", req.Reason),
		zap.Int64("balanceAfter", entry.BalanceAfter),
	)
	return entry, nil
}

func (s *DefaultLedgerService) History(ctx context.Context, userID string, filter models.LedgerFilter) ([]models.LedgerEntry, error) {
	acc, err := s.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.Accounts.ListEntries(ctx, acc.ID, filter)
}

func (s *DefaultLedgerService) buildEntry(req EntryRequest, direction string) (*models.LedgerEntry, error) {
	if req.Amount <= 0 {
		return nil, errInvalidAmount()
	}
	return &models.LedgerEntry{
		ID:             uuid.New().String(),
		Direction:      direction,
		Amount:         req.Amount,
		Reason:         req.Reason,
		BookingID:      req.BookingID,
		IdempotencyKey: req.IdempotencyKey,
		CreatedAt:      time.Now(),
	}, nil
}

func (s *DefaultLedgerService) translate(err error) error {
	switch {
	case errors.Is(err, accountRepo.ErrInsufficientBalance):
		return errInsufficientFunds()
	case errors.Is(err, accountRepo.ErrAccountNotFound):
		return errAccountNotFound()
	case errors.Is(err, accountRepo.ErrDuplicateEntry):
		return ErrAlreadyApplied
	default:
		return err
	}
}
