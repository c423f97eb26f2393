package repository

import (
	"context"
	"testing"

	"bookie/domain"
	"bookie/domain/entities"
	"bookie/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionRepository(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	testDB := testutil.SetupTestDatabase(t)
	accounts := NewAccountRepository(testDB.DB)
	repo := NewTransactionRepository(testDB.DB)

	_, err := accounts.Create(ctx, 42)
	require.NoError(t, err)

	t.Run("create assigns id and timestamp", func(t *testing.T) {
		txn := testutil.NewTestTransaction(42, 6000, entities.TransactionTypeDeposit)
		require.NoError(t, repo.Create(ctx, txn))
		assert.NotZero(t, txn.ID)
		assert.False(t, txn.CreatedAt.IsZero())
	})

	t.Run("reference lookup round trips", func(t *testing.T) {
		ref := "dep:lookup"
		txn := testutil.NewTestTransaction(42, 3000, entities.TransactionTypeDeposit)
		txn.ReferenceID = &ref
		require.NoError(t, repo.Create(ctx, txn))

		fetched, err := repo.GetByReference(ctx, ref)
		require.NoError(t, err)
		require.NotNil(t, fetched)
		assert.Equal(t, txn.ID, fetched.ID)
		assert.Equal(t, int64(3000), fetched.Amount)
		assert.Equal(t, entities.TransactionTypeDeposit, fetched.Type)
	})

	t.Run("unknown reference returns nil", func(t *testing.T) {
		fetched, err := repo.GetByReference(ctx, "dep:missing")
		require.NoError(t, err)
		assert.Nil(t, fetched)
	})

	t.Run("duplicate reference conflicts", func(t *testing.T) {
		ref := "dep:dup"
		first := testutil.NewTestTransaction(42, 1000, entities.TransactionTypeDeposit)
		first.ReferenceID = &ref
		require.NoError(t, repo.Create(ctx, first))

		second := testutil.NewTestTransaction(42, 1000, entities.TransactionTypeDeposit)
		second.ReferenceID = &ref
		err := repo.Create(ctx, second)
		assert.ErrorIs(t, err, domain.ErrStorageConflict)
	})

	t.Run("nil references do not collide", func(t *testing.T) {
		first := testutil.NewTestTransaction(42, 500, entities.TransactionTypeBonus)
		second := testutil.NewTestTransaction(42, 500, entities.TransactionTypeBonus)
		require.NoError(t, repo.Create(ctx, first))
		require.NoError(t, repo.Create(ctx, second))
	})

	t.Run("list newest first with paging", func(t *testing.T) {
		_, err := accounts.Create(ctx, 43)
		require.NoError(t, err)

		for _, amount := range []int64{100, 200, 300} {
			txn := testutil.NewTestTransaction(43, amount, entities.TransactionTypeDeposit)
			require.NoError(t, repo.Create(ctx, txn))
		}

		page, err := repo.GetByAccount(ctx, 43, 2, 0)
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, int64(300), page[0].Amount)
		assert.Equal(t, int64(200), page[1].Amount)

		rest, err := repo.GetByAccount(ctx, 43, 2, 2)
		require.NoError(t, err)
		require.Len(t, rest, 1)
		assert.Equal(t, int64(100), rest[0].Amount)
	})

	t.Run("sum covers completed rows only", func(t *testing.T) {
		_, err := accounts.Create(ctx, 44)
		require.NoError(t, err)

		credit := testutil.NewTestTransaction(44, 900, entities.TransactionTypeDeposit)
		require.NoError(t, repo.Create(ctx, credit))

		debit := testutil.NewTestTransaction(44, -400, entities.TransactionTypeWithdrawal)
		require.NoError(t, repo.Create(ctx, debit))

		failed := testutil.NewTestTransaction(44, 5000, entities.TransactionTypeDeposit)
		failed.Status = entities.TransactionStatusFailed
		require.NoError(t, repo.Create(ctx, failed))

		sum, err := repo.SumAmountsByAccount(ctx, 44)
		require.NoError(t, err)
		assert.Equal(t, int64(500), sum)
	})
}
