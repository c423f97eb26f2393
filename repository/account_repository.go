package repository

import (
	"context"
	"fmt"

	"bookie/database"
	"bookie/domain"
	"bookie/domain/entities"

	"github.com/jackc/pgx/v5"
)

type accountRepository struct {
	q Queryable
}

// NewAccountRepository creates a new account repository backed by the pool
func NewAccountRepository(db *database.DB) *accountRepository {
	return &accountRepository{q: db.Pool}
}

// newAccountRepository creates an account repository scoped to a transaction
func newAccountRepository(tx Queryable) *accountRepository {
	return &accountRepository{q: tx}
}

func (r *accountRepository) GetByID(ctx context.Context, id int64) (*entities.Account, error) {
	query := `
		SELECT id, balance, version, created_at, updated_at
		FROM accounts
		WHERE id = $1`

	var account entities.Account
	err := r.q.QueryRow(ctx, query, id).Scan(
		&account.ID,
		&account.Balance,
		&account.Version,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %d: %w", id, err)
	}

	return &account, nil
}

func (r *accountRepository) Create(ctx context.Context, id int64) (*entities.Account, error) {
	query := `
		INSERT INTO accounts (id, balance, version)
		VALUES ($1, 0, 0)
		RETURNING created_at, updated_at`

	account := &entities.Account{ID: id}
	err := r.q.QueryRow(ctx, query, id).Scan(&account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("account %d already exists: %w", id, domain.ErrStorageConflict)
		}
		return nil, fmt.Errorf("failed to create account %d: %w", id, err)
	}

	return account, nil
}

// UpdateBalance writes the new balance only if the version has not moved
// since the caller read the account. Zero rows affected means a concurrent
// mutation won the race.
func (r *accountRepository) UpdateBalance(ctx context.Context, id int64, newBalance int64, expectedVersion int64) error {
	query := `
		UPDATE accounts
		SET balance = $1, version = version + 1, updated_at = NOW()
		WHERE id = $2 AND version = $3`

	result, err := r.q.Exec(ctx, query, newBalance, id, expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to update balance for account %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		// Distinguish a lost race from a missing account.
		exists, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if exists == nil {
			return fmt.Errorf("account %d: %w", id, domain.ErrAccountNotFound)
		}
		return fmt.Errorf("account %d version %d is stale: %w", id, expectedVersion, domain.ErrStorageConflict)
	}

	return nil
}
