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

func TestGameRepository(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	testDB := testutil.SetupTestDatabase(t)
	repo := NewGameRepository(testDB.DB)

	t.Run("create and get", func(t *testing.T) {
		game := testutil.NewTestGameWithBounds("blackjack", 500, 50000)
		require.NoError(t, repo.Create(ctx, game))
		assert.NotZero(t, game.ID)

		fetched, err := repo.GetByID(ctx, game.ID)
		require.NoError(t, err)
		require.NotNil(t, fetched)
		assert.Equal(t, "blackjack", fetched.Name)
		assert.Equal(t, int64(500), fetched.MinBet)
		assert.Equal(t, int64(50000), fetched.MaxBet)
		assert.Equal(t, entities.GameStatusActive, fetched.Status)
	})

	t.Run("get missing game returns nil", func(t *testing.T) {
		game, err := repo.GetByID(ctx, 9999)
		require.NoError(t, err)
		assert.Nil(t, game)
	})

	t.Run("create rejects invalid definition", func(t *testing.T) {
		game := testutil.NewTestGameWithBounds("broken", 1000, 100)
		assert.Error(t, repo.Create(ctx, game))
	})

	t.Run("update", func(t *testing.T) {
		game := testutil.NewTestGame("poker-night")
		require.NoError(t, repo.Create(ctx, game))

		game.Status = entities.GameStatusMaintenance
		game.MaxBet = 2000000
		require.NoError(t, repo.Update(ctx, game))

		fetched, err := repo.GetByID(ctx, game.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.GameStatusMaintenance, fetched.Status)
		assert.Equal(t, int64(2000000), fetched.MaxBet)
	})

	t.Run("update missing game", func(t *testing.T) {
		game := testutil.NewTestGame("ghost")
		game.ID = 9999
		err := repo.Update(ctx, game)
		assert.ErrorIs(t, err, domain.ErrGameUnavailable)
	})

	t.Run("list ordered by id", func(t *testing.T) {
		games, err := repo.List(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, games)
		for i := 1; i < len(games); i++ {
			assert.Greater(t, games[i].ID, games[i-1].ID)
		}
	})
}
