package interfaces

import (
	"context"

	"bookie/domain/entities"
	"bookie/domain/events"
)

// LedgerService is the single authority for mutating account balances.
// Every balance change is paired with an append-only transaction record
// inside the same storage transaction.
type LedgerService interface {
	// ApplyDelta applies a signed balance change and records it. A non-empty
	// referenceID makes the call idempotent: a replay returns the original
	// transaction without a second mutation.
	ApplyDelta(ctx context.Context, accountID int64, amount int64, txType entities.TransactionType, referenceID string) (*entities.Transaction, error)

	// GetBalance returns the current balance for an account
	GetBalance(ctx context.Context, accountID int64) (int64, error)
}

// WagerService owns bet placement and settlement
type WagerService interface {
	// PlaceBet validates the stake against the game, debits it through the
	// ledger, and persists the bet in the pending state. All-or-nothing.
	PlaceBet(ctx context.Context, userID, gameID int64, amount int64, odds float64, betType entities.BetType) (*entities.Bet, error)

	// SettleBet drives a pending bet into a terminal state and applies the
	// corresponding payout or refund. Settling a bet that already left the
	// pending state returns the current record with domain.ErrAlreadySettled.
	SettleBet(ctx context.Context, betID int64, outcome entities.BetOutcome) (*entities.Bet, error)
}

// EventPublisher publishes domain events for interested collaborators.
// Publishing is best-effort; failures never roll back committed state.
type EventPublisher interface {
	Publish(event events.Event) error
}

// TransactionalEventPublisher stages events during a storage transaction and
// releases them only after the transaction commits
type TransactionalEventPublisher interface {
	EventPublisher

	// Flush publishes all staged events after a successful commit
	Flush(ctx context.Context) error

	// Discard drops all staged events after a rollback
	Discard()
}
