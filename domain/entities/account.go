package entities

import (
	"errors"
	"time"
)

// Account holds a user's monetary balance in minor currency units.
// Balances are mutated only through the ledger; the version column backs the
// optimistic concurrency check on every balance write.
type Account struct {
	ID        int64     `db:"id"`
	Balance   int64     `db:"balance"`
	Version   int64     `db:"version"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// CanAfford checks if the account has sufficient balance for a debit
func (a *Account) CanAfford(amount int64) bool {
	return a.Balance >= amount
}

// CalculateNewBalance calculates what the balance would be after a signed change
func (a *Account) CalculateNewBalance(changeAmount int64) int64 {
	return a.Balance + changeAmount
}

// ValidateDebit checks if a debit amount is valid and affordable
func (a *Account) ValidateDebit(amount int64) error {
	if amount <= 0 {
		return errors.New("debit amount must be positive")
	}
	if !a.CanAfford(amount) {
		return errors.New("insufficient balance")
	}
	return nil
}
