package services

import (
	"context"
	"fmt"

	"bookie/domain"
	"bookie/domain/entities"
	"bookie/domain/events"
	"bookie/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

type ledgerService struct {
	accounts     interfaces.AccountRepository
	transactions interfaces.TransactionRepository
	publisher    interfaces.EventPublisher
}

// NewLedgerService creates a new ledger service bound to repositories scoped
// to the current unit of work
func NewLedgerService(accounts interfaces.AccountRepository, transactions interfaces.TransactionRepository, publisher interfaces.EventPublisher) interfaces.LedgerService {
	return &ledgerService{
		accounts:     accounts,
		transactions: transactions,
		publisher:    publisher,
	}
}

func (s *ledgerService) ApplyDelta(ctx context.Context, accountID int64, amount int64, txType entities.TransactionType, referenceID string) (*entities.Transaction, error) {
	if amount == 0 {
		return nil, fmt.Errorf("delta amount must be nonzero")
	}

	// Idempotent replay: a known reference returns the original transaction
	// untouched. A reference reused with a different delta is a caller bug.
	if referenceID != "" {
		existing, err := s.transactions.GetByReference(ctx, referenceID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up reference %q: %w", referenceID, err)
		}
		if existing != nil {
			if !existing.Matches(accountID, amount, txType) {
				return nil, fmt.Errorf("reference %q already used by transaction %d: %w", referenceID, existing.ID, domain.ErrDuplicateReference)
			}
			log.WithFields(log.Fields{
				"accountID":     accountID,
				"referenceID":   referenceID,
				"transactionID": existing.ID,
			}).Debug("Idempotent replay, returning existing transaction")
			return existing, nil
		}
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account %d: %w", accountID, err)
	}
	if account == nil {
		return nil, fmt.Errorf("account %d: %w", accountID, domain.ErrAccountNotFound)
	}

	newBalance := account.CalculateNewBalance(amount)
	if newBalance < 0 {
		return nil, fmt.Errorf("account %d balance %d cannot absorb delta %d: %w",
			accountID, account.Balance, amount, domain.ErrInsufficientFunds)
	}

	// The version check serializes concurrent mutations per account without
	// blocking other accounts. A lost race surfaces as ErrStorageConflict
	// and the whole operation is retried by the caller.
	if err := s.accounts.UpdateBalance(ctx, accountID, newBalance, account.Version); err != nil {
		return nil, fmt.Errorf("failed to update balance for account %d: %w", accountID, err)
	}

	txn := &entities.Transaction{
		AccountID:     accountID,
		Type:          txType,
		Amount:        amount,
		BalanceBefore: account.Balance,
		BalanceAfter:  newBalance,
		Status:        entities.TransactionStatusCompleted,
	}
	if referenceID != "" {
		txn.ReferenceID = &referenceID
	}

	if err := s.transactions.Create(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to record transaction for account %d: %w", accountID, err)
	}

	if err := s.publisher.Publish(events.BalanceChangeEvent{
		AccountID:       accountID,
		TransactionID:   txn.ID,
		TransactionType: txType,
		ChangeAmount:    amount,
		BalanceBefore:   account.Balance,
		BalanceAfter:    newBalance,
	}); err != nil {
		log.WithFields(log.Fields{
			"accountID": accountID,
			"error":     err,
		}).Warn("Failed to stage balance change event")
	}

	return txn, nil
}

func (s *ledgerService) GetBalance(ctx context.Context, accountID int64) (int64, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("failed to get account %d: %w", accountID, err)
	}
	if account == nil {
		return 0, fmt.Errorf("account %d: %w", accountID, domain.ErrAccountNotFound)
	}
	return account.Balance, nil
}
