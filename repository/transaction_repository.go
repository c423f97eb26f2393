package repository

import (
	"context"
	"fmt"

	"bookie/database"
	"bookie/domain"
	"bookie/domain/entities"

	"github.com/jackc/pgx/v5"
)

type transactionRepository struct {
	q Queryable
}

// NewTransactionRepository creates a new transaction repository backed by the pool
func NewTransactionRepository(db *database.DB) *transactionRepository {
	return &transactionRepository{q: db.Pool}
}

// newTransactionRepository creates a transaction repository scoped to a transaction
func newTransactionRepository(tx Queryable) *transactionRepository {
	return &transactionRepository{q: tx}
}

func (r *transactionRepository) Create(ctx context.Context, txn *entities.Transaction) error {
	query := `
		INSERT INTO transactions (account_id, transaction_type, amount, balance_before, balance_after, status, reference_id, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := r.q.QueryRow(ctx, query,
		txn.AccountID,
		txn.Type,
		txn.Amount,
		txn.BalanceBefore,
		txn.BalanceAfter,
		txn.Status,
		txn.ReferenceID,
		txn.Metadata,
	).Scan(&txn.ID, &txn.CreatedAt)

	if err != nil {
		// Two writers raced the same reference id. Retrying the whole
		// operation resolves this as an idempotent replay.
		if isUniqueViolation(err) {
			return fmt.Errorf("reference %q already recorded: %w", txn.Reference(), domain.ErrStorageConflict)
		}
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

func (r *transactionRepository) GetByReference(ctx context.Context, referenceID string) (*entities.Transaction, error) {
	query := `
		SELECT id, account_id, transaction_type, amount, balance_before, balance_after, status, reference_id, metadata, created_at
		FROM transactions
		WHERE reference_id = $1`

	txn, err := scanTransaction(r.q.QueryRow(ctx, query, referenceID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction by reference %q: %w", referenceID, err)
	}

	return txn, nil
}

func (r *transactionRepository) GetByAccount(ctx context.Context, accountID int64, limit, offset int) ([]*entities.Transaction, error) {
	query := `
		SELECT id, account_id, transaction_type, amount, balance_before, balance_after, status, reference_id, metadata, created_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.q.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for account %d: %w", accountID, err)
	}
	defer rows.Close()

	var txns []*entities.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return txns, nil
}

func (r *transactionRepository) SumAmountsByAccount(ctx context.Context, accountID int64) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE account_id = $1 AND status = 'completed'`

	var sum int64
	if err := r.q.QueryRow(ctx, query, accountID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("failed to sum transactions for account %d: %w", accountID, err)
	}

	return sum, nil
}

func scanTransaction(row pgx.Row) (*entities.Transaction, error) {
	var txn entities.Transaction
	err := row.Scan(
		&txn.ID,
		&txn.AccountID,
		&txn.Type,
		&txn.Amount,
		&txn.BalanceBefore,
		&txn.BalanceAfter,
		&txn.Status,
		&txn.ReferenceID,
		&txn.Metadata,
		&txn.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &txn, nil
}
