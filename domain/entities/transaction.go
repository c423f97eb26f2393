package entities

import (
	"encoding/json"
	"errors"
	"time"
)

// TransactionType represents the type of balance change
type TransactionType string

// All transaction types supported by the ledger
const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	TransactionTypeBetPlaced  TransactionType = "bet_placed"
	TransactionTypeBetWon     TransactionType = "bet_won"
	TransactionTypeBetRefund  TransactionType = "bet_refund"
	TransactionTypeBonus      TransactionType = "bonus"
	TransactionTypeCommission TransactionType = "commission"
)

// TransactionStatus represents the lifecycle state of a transaction record
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

// Transaction is one append-only entry in the audit trail. Completed rows are
// never mutated; balance_after must equal balance_before + amount.
type Transaction struct {
	ID            int64             `db:"id"`
	AccountID     int64             `db:"account_id"`
	Type          TransactionType   `db:"transaction_type"`
	Amount        int64             `db:"amount"`
	BalanceBefore int64             `db:"balance_before"`
	BalanceAfter  int64             `db:"balance_after"`
	Status        TransactionStatus `db:"status"`
	ReferenceID   *string           `db:"reference_id"`
	Metadata      json.RawMessage   `db:"metadata"`
	CreatedAt     time.Time         `db:"created_at"`
}

// IsBetRelated returns true if the transaction type moves bet money
func (tt TransactionType) IsBetRelated() bool {
	return tt == TransactionTypeBetPlaced ||
		tt == TransactionTypeBetWon ||
		tt == TransactionTypeBetRefund
}

// IsCredit returns true for types that only ever increase a balance
func (tt TransactionType) IsCredit() bool {
	return tt == TransactionTypeDeposit ||
		tt == TransactionTypeBetWon ||
		tt == TransactionTypeBetRefund ||
		tt == TransactionTypeBonus
}

// String returns the string representation of the transaction type
func (tt TransactionType) String() string {
	return string(tt)
}

// IsCompleted returns true if the transaction has been applied to a balance
func (t *Transaction) IsCompleted() bool {
	return t.Status == TransactionStatusCompleted
}

// Reference returns the reference id or an empty string when unset
func (t *Transaction) Reference() string {
	if t.ReferenceID == nil {
		return ""
	}
	return *t.ReferenceID
}

// Matches reports whether an incoming delta describes the same operation as
// this transaction. Used to tell an idempotent replay apart from a reference
// collision.
func (t *Transaction) Matches(accountID int64, amount int64, txType TransactionType) bool {
	return t.AccountID == accountID && t.Amount == amount && t.Type == txType
}

// Validate performs basic consistency checks on the transaction
func (t *Transaction) Validate() error {
	if t.Amount == 0 {
		return errors.New("transaction amount cannot be zero")
	}
	if t.BalanceAfter != t.BalanceBefore+t.Amount {
		return errors.New("balance calculation is inconsistent")
	}
	if t.BalanceAfter < 0 {
		return errors.New("transaction would leave a negative balance")
	}
	return nil
}
