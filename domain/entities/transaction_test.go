package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransaction_Validate(t *testing.T) {
	valid := &Transaction{Amount: -2000, BalanceBefore: 10000, BalanceAfter: 8000}
	assert.NoError(t, valid.Validate())

	zero := &Transaction{Amount: 0, BalanceBefore: 10000, BalanceAfter: 10000}
	assert.Error(t, zero.Validate())

	inconsistent := &Transaction{Amount: -2000, BalanceBefore: 10000, BalanceAfter: 9000}
	assert.Error(t, inconsistent.Validate())

	negative := &Transaction{Amount: -2000, BalanceBefore: 1000, BalanceAfter: -1000}
	assert.Error(t, negative.Validate())
}

func TestTransaction_Matches(t *testing.T) {
	txn := &Transaction{AccountID: 42, Amount: -2000, Type: TransactionTypeBetPlaced}

	assert.True(t, txn.Matches(42, -2000, TransactionTypeBetPlaced))
	assert.False(t, txn.Matches(43, -2000, TransactionTypeBetPlaced))
	assert.False(t, txn.Matches(42, -1000, TransactionTypeBetPlaced))
	assert.False(t, txn.Matches(42, -2000, TransactionTypeWithdrawal))
}

func TestTransaction_Reference(t *testing.T) {
	assert.Equal(t, "", (&Transaction{}).Reference())

	ref := "bet:9:stake"
	assert.Equal(t, "bet:9:stake", (&Transaction{ReferenceID: &ref}).Reference())
}

func TestTransactionType_IsBetRelated(t *testing.T) {
	assert.True(t, TransactionTypeBetPlaced.IsBetRelated())
	assert.True(t, TransactionTypeBetWon.IsBetRelated())
	assert.True(t, TransactionTypeBetRefund.IsBetRelated())
	assert.False(t, TransactionTypeDeposit.IsBetRelated())
	assert.False(t, TransactionTypeWithdrawal.IsBetRelated())
	assert.False(t, TransactionTypeBonus.IsBetRelated())
}

func TestTransactionType_IsCredit(t *testing.T) {
	assert.True(t, TransactionTypeDeposit.IsCredit())
	assert.True(t, TransactionTypeBetWon.IsCredit())
	assert.True(t, TransactionTypeBetRefund.IsCredit())
	assert.True(t, TransactionTypeBonus.IsCredit())
	assert.False(t, TransactionTypeWithdrawal.IsCredit())
	assert.False(t, TransactionTypeBetPlaced.IsCredit())
	assert.False(t, TransactionTypeCommission.IsCredit())
}
