package repository

import (
	"context"
	"testing"

	"bookie/domain"
	"bookie/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	testDB := testutil.SetupTestDatabase(t)
	repo := NewAccountRepository(testDB.DB)

	t.Run("create and get", func(t *testing.T) {
		account, err := repo.Create(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, int64(100), account.ID)
		assert.False(t, account.CreatedAt.IsZero())

		fetched, err := repo.GetByID(ctx, 100)
		require.NoError(t, err)
		require.NotNil(t, fetched)
		assert.Equal(t, int64(0), fetched.Balance)
		assert.Equal(t, int64(0), fetched.Version)
	})

	t.Run("get missing account returns nil", func(t *testing.T) {
		account, err := repo.GetByID(ctx, 999)
		require.NoError(t, err)
		assert.Nil(t, account)
	})

	t.Run("create duplicate id conflicts", func(t *testing.T) {
		_, err := repo.Create(ctx, 101)
		require.NoError(t, err)

		_, err = repo.Create(ctx, 101)
		assert.ErrorIs(t, err, domain.ErrStorageConflict)
	})

	t.Run("update balance bumps version", func(t *testing.T) {
		_, err := repo.Create(ctx, 102)
		require.NoError(t, err)

		err = repo.UpdateBalance(ctx, 102, 5000, 0)
		require.NoError(t, err)

		account, err := repo.GetByID(ctx, 102)
		require.NoError(t, err)
		assert.Equal(t, int64(5000), account.Balance)
		assert.Equal(t, int64(1), account.Version)
	})

	t.Run("stale version conflicts", func(t *testing.T) {
		_, err := repo.Create(ctx, 103)
		require.NoError(t, err)

		err = repo.UpdateBalance(ctx, 103, 5000, 0)
		require.NoError(t, err)

		// Second write with the already-consumed version loses the race
		err = repo.UpdateBalance(ctx, 103, 7000, 0)
		assert.ErrorIs(t, err, domain.ErrStorageConflict)

		account, err := repo.GetByID(ctx, 103)
		require.NoError(t, err)
		assert.Equal(t, int64(5000), account.Balance)
	})

	t.Run("update missing account", func(t *testing.T) {
		err := repo.UpdateBalance(ctx, 999, 5000, 0)
		assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	})
}
