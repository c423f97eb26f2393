package application

import (
	"context"

	"bookie/domain/interfaces"
)

// UnitOfWork scopes a set of repositories to one storage transaction.
// Events published through EventBus during the transaction are released only
// after Commit succeeds.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	AccountRepository() interfaces.AccountRepository
	TransactionRepository() interfaces.TransactionRepository
	BetRepository() interfaces.BetRepository

	EventBus() interfaces.EventPublisher
}

// UnitOfWorkFactory creates fresh units of work, one per operation attempt
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
