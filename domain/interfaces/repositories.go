package interfaces

import (
	"context"

	"bookie/domain/entities"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	// GetByID retrieves an account by its ID, or nil if it does not exist
	GetByID(ctx context.Context, id int64) (*entities.Account, error)

	// Create creates a new account with a zero balance
	Create(ctx context.Context, id int64) (*entities.Account, error)

	// UpdateBalance writes a new balance guarded by the optimistic version
	// check. Returns domain.ErrStorageConflict when the version moved under
	// the caller, and domain.ErrAccountNotFound when the account is missing.
	UpdateBalance(ctx context.Context, id int64, newBalance int64, expectedVersion int64) error
}

// TransactionRepository defines the interface for the append-only transaction log
type TransactionRepository interface {
	// Create appends a transaction record and fills in its ID and created_at.
	// A reference id collision surfaces as domain.ErrStorageConflict so the
	// whole operation can be retried and resolved idempotently.
	Create(ctx context.Context, txn *entities.Transaction) error

	// GetByReference retrieves a transaction by its reference id, or nil
	GetByReference(ctx context.Context, referenceID string) (*entities.Transaction, error)

	// GetByAccount returns transactions for an account, newest first
	GetByAccount(ctx context.Context, accountID int64, limit, offset int) ([]*entities.Transaction, error)

	// SumAmountsByAccount returns the sum of completed deltas for an account
	SumAmountsByAccount(ctx context.Context, accountID int64) (int64, error)
}

// BetRepository defines the interface for bet data access
type BetRepository interface {
	// Create creates a new bet record and fills in its ID and placed_at
	Create(ctx context.Context, bet *entities.Bet) error

	// GetByID retrieves a bet by its ID, or nil if it does not exist
	GetByID(ctx context.Context, id int64) (*entities.Bet, error)

	// GetByIDForUpdate retrieves a bet and locks its row for the duration of
	// the surrounding transaction, serializing concurrent settlements
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.Bet, error)

	// Update persists the settlement fields of a pending bet. Returns
	// domain.ErrStorageConflict when the bet already left the pending state.
	Update(ctx context.Context, bet *entities.Bet) error

	// GetByUser returns bets for a user, newest first
	GetByUser(ctx context.Context, userID int64, limit int) ([]*entities.Bet, error)
}

// GameRepository defines the interface for game lookup and administration
type GameRepository interface {
	// GetByID retrieves a game by its ID, or nil if it does not exist
	GetByID(ctx context.Context, id int64) (*entities.Game, error)

	// Create creates a new game definition
	Create(ctx context.Context, game *entities.Game) error

	// Update overwrites a game definition
	Update(ctx context.Context, game *entities.Game) error

	// List returns all games
	List(ctx context.Context) ([]*entities.Game, error)
}
