package identity

import (
	"context"
	"errors"

	userRepo "skillswap/database/repository/user"
	"skillswap/services/ledger"
	"skillswap/utils"
)

// Identity is the read-only view of a user the booking core consumes: role
// flags and current balance, nothing else.
type Identity struct {
	UserID    string
	IsTeacher bool
	Active    bool
	Balance   int64
}

// Provider answers "who is this user" lookups. The core never writes through
// this interface.
type Provider interface {
	Lookup(ctx context.Context, userID string) (*Identity, error)
}

// DefaultProvider resolves identities from the user profile store and the
// ledger's account view.
type DefaultProvider struct {
	Users  userRepo.UserRepository
	Ledger ledger.Service
}

func (p *DefaultProvider) Lookup(ctx context.Context, userID string) (*Identity, error) {
	u, err := p.Users.GetByID(ctx, userID)
	if errors.Is(err, userRepo.ErrUserNotFound) {
		return nil, utils.NewServiceError(utils.CodeNotFound, "user does not exist")
	}
	if err != nil {
		return nil, err
	}

	id := &Identity{UserID: u.ID, IsTeacher: u.IsTeacher, Active: u.Active}
	acc, err := p.Ledger.GetAccount(ctx, userID)
	if err == nil {
		id.Balance = acc.Balance
	}
	return id, nil
}
