package moneybook

import "errors"

// Domain errors shared by the ledger, the registry and the scheduler.
// Operations failing with one of these abort without mutating any state.
var (
	// ErrNotFound reports an unknown account, transaction or recurring payment id.
	ErrNotFound = errors.New("not found")

	// ErrInvalidAmount reports a non-positive amount.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrTransferAccountMismatch reports a transfer whose source equals its
	// target, or whose source or target account is missing.
	ErrTransferAccountMismatch = errors.New("invalid transfer accounts")

	// ErrAlreadyProcessedToday is the scheduler's idempotency short-circuit:
	// the payment was already materialized on this calendar day. It is a
	// no-op signal, not a failure.
	ErrAlreadyProcessedToday = errors.New("already processed today")
)
