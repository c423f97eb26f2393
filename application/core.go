package application

import (
	"context"
	"errors"
	"fmt"

	"bookie/domain"
	"bookie/domain/entities"
	"bookie/domain/events"
	"bookie/domain/interfaces"
	"bookie/domain/services"
	"bookie/infrastructure/observability"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// maxAttempts bounds the internal retry on storage conflicts. Every attempt
// runs in a fresh unit of work, so a retried operation never observes
// partial state from a failed one.
const maxAttempts = 3

const defaultPageSize = 50

// Core is the surface the routing/auth layer calls. It owns the unit-of-work
// lifecycle around the ledger and wager services and retries whole operations
// when an atomic write loses a race.
type Core struct {
	uowFactory UnitOfWorkFactory
	games      interfaces.GameRepository
}

// NewCore creates the application core. The game repository is read-mostly
// and deliberately not transaction-scoped; wrap it in a cache where needed.
func NewCore(uowFactory UnitOfWorkFactory, games interfaces.GameRepository) *Core {
	return &Core{
		uowFactory: uowFactory,
		games:      games,
	}
}

// PlaceBet debits the stake and records a pending bet, all-or-nothing
func (c *Core) PlaceBet(ctx context.Context, userID, gameID int64, amount int64, odds float64, betType entities.BetType) (*entities.Bet, error) {
	timer := observability.StartOperation("place_bet")
	defer timer.Done()

	var bet *entities.Bet
	err := c.withRetry(ctx, func(uow UnitOfWork) error {
		wagers := c.wagerService(uow)
		var err error
		bet, err = wagers.PlaceBet(ctx, userID, gameID, amount, odds, betType)
		return err
	})
	if err != nil {
		return nil, err
	}

	observability.RecordBetPlaced(amount)
	return bet, nil
}

// SettleBet resolves a pending bet to a terminal outcome. Settling an already
// terminal bet is an idempotent no-op returning the current record.
func (c *Core) SettleBet(ctx context.Context, betID int64, outcome entities.BetOutcome) (*entities.Bet, error) {
	timer := observability.StartOperation("settle_bet")
	defer timer.Done()

	var bet *entities.Bet
	err := c.withRetry(ctx, func(uow UnitOfWork) error {
		wagers := c.wagerService(uow)
		var err error
		bet, err = wagers.SettleBet(ctx, betID, outcome)
		return err
	})
	if errors.Is(err, domain.ErrAlreadySettled) {
		log.WithFields(log.Fields{
			"betID":  betID,
			"status": bet.Status,
		}).Info("Duplicate settlement request ignored")
		return bet, nil
	}
	if err != nil {
		return nil, err
	}

	observability.RecordBetSettled(string(bet.Status), bet.ActualPayout)
	return bet, nil
}

// Deposit credits an account. An empty referenceID gets a generated one so
// even ad-hoc deposits stay replay-safe.
func (c *Core) Deposit(ctx context.Context, accountID int64, amount int64, referenceID string) (*entities.Transaction, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("deposit amount must be positive")
	}
	if referenceID == "" {
		referenceID = "dep:" + uuid.NewString()
	}
	return c.applyDelta(ctx, accountID, amount, entities.TransactionTypeDeposit, referenceID)
}

// Withdraw debits an account, failing with ErrInsufficientFunds rather than
// overdrawing
func (c *Core) Withdraw(ctx context.Context, accountID int64, amount int64, referenceID string) (*entities.Transaction, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("withdrawal amount must be positive")
	}
	if referenceID == "" {
		referenceID = "wd:" + uuid.NewString()
	}
	return c.applyDelta(ctx, accountID, -amount, entities.TransactionTypeWithdrawal, referenceID)
}

func (c *Core) applyDelta(ctx context.Context, accountID int64, amount int64, txType entities.TransactionType, referenceID string) (*entities.Transaction, error) {
	timer := observability.StartOperation(string(txType))
	defer timer.Done()

	var txn *entities.Transaction
	err := c.withRetry(ctx, func(uow UnitOfWork) error {
		ledger := c.ledgerService(uow)
		var err error
		txn, err = ledger.ApplyDelta(ctx, accountID, amount, txType, referenceID)
		return err
	})
	if err != nil {
		return nil, err
	}

	observability.RecordTransaction(string(txType))
	return txn, nil
}

// CreateAccount registers a zero-balance account for a user. Funds arrive
// through Deposit so the audit trail stays complete from the first unit.
func (c *Core) CreateAccount(ctx context.Context, accountID int64) (*entities.Account, error) {
	var account *entities.Account
	err := c.withRetry(ctx, func(uow UnitOfWork) error {
		var err error
		account, err = uow.AccountRepository().Create(ctx, accountID)
		if err != nil {
			return err
		}
		if pubErr := uow.EventBus().Publish(events.AccountCreatedEvent{AccountID: accountID}); pubErr != nil {
			log.WithField("accountID", accountID).WithError(pubErr).Warn("Failed to stage account created event")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// GetBalance returns the current committed balance for an account
func (c *Core) GetBalance(ctx context.Context, accountID int64) (int64, error) {
	uow := c.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}
	defer uow.Rollback()

	return c.ledgerService(uow).GetBalance(ctx, accountID)
}

// ListTransactions returns a page of the account's audit trail, newest first
func (c *Core) ListTransactions(ctx context.Context, accountID int64, limit, offset int) ([]*entities.Transaction, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	uow := c.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	return uow.TransactionRepository().GetByAccount(ctx, accountID, limit, offset)
}

// ListBets returns a user's bets, newest first
func (c *Core) ListBets(ctx context.Context, userID int64, limit int) ([]*entities.Bet, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}

	uow := c.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	return uow.BetRepository().GetByUser(ctx, userID, limit)
}

// CreateGame registers a game definition for the admin collaborator
func (c *Core) CreateGame(ctx context.Context, game *entities.Game) error {
	return c.games.Create(ctx, game)
}

// UpdateGame overwrites a game definition
func (c *Core) UpdateGame(ctx context.Context, game *entities.Game) error {
	return c.games.Update(ctx, game)
}

// ListGames returns all game definitions
func (c *Core) ListGames(ctx context.Context) ([]*entities.Game, error) {
	return c.games.List(ctx)
}

func (c *Core) ledgerService(uow UnitOfWork) interfaces.LedgerService {
	return services.NewLedgerService(uow.AccountRepository(), uow.TransactionRepository(), uow.EventBus())
}

func (c *Core) wagerService(uow UnitOfWork) interfaces.WagerService {
	return services.NewWagerService(uow.BetRepository(), c.games, c.ledgerService(uow), uow.EventBus())
}

// withRetry runs fn inside a fresh unit of work, committing on success and
// retrying the whole operation on storage conflicts. Any other error rolls
// back and surfaces verbatim.
func (c *Core) withRetry(ctx context.Context, fn func(uow UnitOfWork) error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		uow := c.uowFactory.Create()
		if err := uow.Begin(ctx); err != nil {
			return err
		}

		if err := fn(uow); err != nil {
			if rbErr := uow.Rollback(); rbErr != nil {
				log.WithError(rbErr).Error("Rollback failed")
			}
			if errors.Is(err, domain.ErrStorageConflict) {
				lastErr = err
				observability.RecordConflictRetry()
				log.WithFields(log.Fields{
					"attempt": attempt,
					"error":   err,
				}).Debug("Storage conflict, retrying operation")
				continue
			}
			return err
		}

		if err := uow.Commit(); err != nil {
			return err
		}
		return nil
	}
	return fmt.Errorf("operation failed after %d attempts: %w", maxAttempts, lastErr)
}
