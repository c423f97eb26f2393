package domain

import "errors"

// Sentinel errors returned by the ledger and wager components. Callers match
// them with errors.Is; the HTTP layer maps them to user-visible responses.
var (
	// ErrInsufficientFunds is returned when a debit would take an account
	// balance below zero. No mutation is performed.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAccountNotFound is returned when the referenced account does not exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrBetNotFound is returned when the referenced bet does not exist.
	ErrBetNotFound = errors.New("bet not found")

	// ErrAlreadySettled is returned when settling a bet that has already left
	// the pending state. The current bet record accompanies it; callers treat
	// it as an idempotent success, not a failure.
	ErrAlreadySettled = errors.New("bet already settled")

	// ErrInvalidStake is returned when a bet amount or odds fall outside the
	// game's allowed bounds.
	ErrInvalidStake = errors.New("invalid stake")

	// ErrGameUnavailable is returned when the referenced game is missing or
	// not accepting bets.
	ErrGameUnavailable = errors.New("game unavailable")

	// ErrDuplicateReference is returned when a reference id collides with an
	// existing transaction of a different amount or type. This signals a
	// caller bug, distinct from an idempotent replay.
	ErrDuplicateReference = errors.New("duplicate transaction reference")

	// ErrStorageConflict is returned when an atomic write lost a race with a
	// concurrent mutation. The operation left no partial state and is safe to
	// retry in full.
	ErrStorageConflict = errors.New("storage conflict")
)
