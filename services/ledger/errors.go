package ledger

import (
	"errors"

	"skillswap/utils"
)

// ErrAlreadyApplied signals that an idempotency-keyed entry was committed by
// an earlier attempt. Callers treating the operation as at-most-once swallow
// it.
var ErrAlreadyApplied = errors.New("ledger entry already applied")

func errInsufficientFunds() error {
	return utils.NewServiceError(utils.CodeInsufficientFunds, "balance does not cover the requested amount")
}

func errAccountExists() error {
	return utils.NewServiceError(utils.CodeConflict, "an account already exists for this user")
}

func errAccountNotFound() error {
	return utils.NewServiceError(utils.CodeNotFound, "account does not exist")
}

func errInvalidAmount() error {
	return utils.NewServiceError(utils.CodeValidation, "amount must be a positive number of tokens")
}
