package application_test

import (
	"context"
	"sync"
	"testing"

	"bookie/application"
	"bookie/domain"
	"bookie/domain/entities"
	"bookie/domain/interfaces"
	"bookie/infrastructure"
	"bookie/repository"
	"bookie/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCore(t *testing.T) (*application.Core, *testutil.TestDatabase) {
	testDB := testutil.SetupTestDatabase(t)

	uowFactory := repository.NewUnitOfWorkFactory(testDB.DB, func() interfaces.TransactionalEventPublisher {
		return infrastructure.NewTransactionalPublisher(infrastructure.NewNoopEventPublisher())
	})
	games := repository.NewGameRepository(testDB.DB)

	return application.NewCore(uowFactory, games), testDB
}

func setupFundedAccount(t *testing.T, core *application.Core, accountID, balance int64) {
	ctx := context.Background()
	_, err := core.CreateAccount(ctx, accountID)
	require.NoError(t, err)
	if balance > 0 {
		_, err = core.Deposit(ctx, accountID, balance, "")
		require.NoError(t, err)
	}
}

func setupGame(t *testing.T, core *application.Core) *entities.Game {
	game := testutil.NewTestGame("roulette")
	require.NoError(t, core.CreateGame(context.Background(), game))
	return game
}

func TestCore_PlaceBet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	core, _ := setupCore(t)
	game := setupGame(t, core)
	setupFundedAccount(t, core, 42, 10000)

	bet, err := core.PlaceBet(ctx, 42, game.ID, 2000, 3.0, entities.BetTypeSingle)
	require.NoError(t, err)
	assert.Equal(t, entities.BetStatusPending, bet.Status)
	assert.Equal(t, int64(6000), bet.PotentialPayout)
	assert.Equal(t, int64(0), bet.ActualPayout)

	balance, err := core.GetBalance(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(8000), balance)

	txns, err := core.ListTransactions(ctx, 42, 10, 0)
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, entities.TransactionTypeBetPlaced, txns[0].Type)
	assert.Equal(t, int64(-2000), txns[0].Amount)
	assert.Equal(t, bet.StakeReference(), txns[0].Reference())
	assert.Equal(t, int64(10000), txns[0].BalanceBefore)
	assert.Equal(t, int64(8000), txns[0].BalanceAfter)
}

func TestCore_PlaceBet_InsufficientFundsLeavesNothing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	core, _ := setupCore(t)
	game := setupGame(t, core)
	setupFundedAccount(t, core, 42, 1000)

	_, err := core.PlaceBet(ctx, 42, game.ID, 2000, 3.0, entities.BetTypeSingle)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	// The failed placement rolls back both the bet row and the debit
	balance, err := core.GetBalance(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), balance)

	bets, err := core.ListBets(ctx, 42, 10)
	require.NoError(t, err)
	assert.Empty(t, bets)

	txns, err := core.ListTransactions(ctx, 42, 10, 0)
	require.NoError(t, err)
	assert.Len(t, txns, 1) // only the funding deposit
}

func TestCore_PlaceBet_GameUnavailable(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	core, _ := setupCore(t)
	setupFundedAccount(t, core, 42, 10000)

	game := testutil.NewTestGame("closed-table")
	game.Status = entities.GameStatusInactive
	require.NoError(t, core.CreateGame(ctx, game))

	_, err := core.PlaceBet(ctx, 42, game.ID, 2000, 2.0, entities.BetTypeSingle)
	assert.ErrorIs(t, err, domain.ErrGameUnavailable)

	_, err = core.PlaceBet(ctx, 42, 9999, 2000, 2.0, entities.BetTypeSingle)
	assert.ErrorIs(t, err, domain.ErrGameUnavailable)
}

func TestCore_SettleBet_Won(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	core, _ := setupCore(t)
	game := setupGame(t, core)
	setupFundedAccount(t, core, 42, 10000)

	bet, err := core.PlaceBet(ctx, 42, game.ID, 2000, 3.0, entities.BetTypeSingle)
	require.NoError(t, err)

	settled, err := core.SettleBet(ctx, bet.ID, entities.BetOutcomeWon)
	require.NoError(t, err)
	assert.Equal(t, entities.BetStatusWon, settled.Status)
	assert.Equal(t, int64(6000), settled.ActualPayout)
	require.NotNil(t, settled.SettledAt)
	assert.False(t, settled.SettledAt.Before(settled.PlacedAt))

	balance, err := core.GetBalance(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(14000), balance)

	txns, err := core.ListTransactions(ctx, 42, 10, 0)
	require.NoError(t, err)
	require.Len(t, txns, 3)
	assert.Equal(t, entities.TransactionTypeBetWon, txns[0].Type)
	assert.Equal(t, int64(6000), txns[0].Amount)
	assert.Equal(t, bet.SettleReference(), txns[0].Reference())
}

func TestCore_SettleBet_Lost(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	core, _ := setupCore(t)
	game := setupGame(t, core)
	setupFundedAccount(t, core, 42, 10000)

	bet, err := core.PlaceBet(ctx, 42, game.ID, 2000, 3.0, entities.BetTypeSingle)
	require.NoError(t, err)

	settled, err := core.SettleBet(ctx, bet.ID, entities.BetOutcomeLost)
	require.NoError(t, err)
	assert.Equal(t, entities.BetStatusLost, settled.Status)
	assert.Equal(t, int64(0), settled.ActualPayout)

	// Stake left at placement; losing moves nothing further
	balance, err := core.GetBalance(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(8000), balance)

	txns, err := core.ListTransactions(ctx, 42, 10, 0)
	require.NoError(t, err)
	assert.Len(t, txns, 2)
}

func TestCore_SettleBet_Refunded(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	core, _ := setupCore(t)
	game := setupGame(t, core)
	setupFundedAccount(t, core, 42, 10000)

	bet, err := core.PlaceBet(ctx, 42, game.ID, 2000, 3.0, entities.BetTypeSingle)
	require.NoError(t, err)

	settled, err := core.SettleBet(ctx, bet.ID, entities.BetOutcomeRefunded)
	require.NoError(t, err)
	assert.Equal(t, entities.BetStatusRefunded, settled.Status)

	balance, err := core.GetBalance(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), balance)
}

func TestCore_SettleBet_DuplicateSettlementIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	core, _ := setupCore(t)
	game := setupGame(t, core)
	setupFundedAccount(t, core, 42, 10000)

	bet, err := core.PlaceBet(ctx, 42, game.ID, 2000, 3.0, entities.BetTypeSingle)
	require.NoError(t, err)

	first, err := core.SettleBet(ctx, bet.ID, entities.BetOutcomeWon)
	require.NoError(t, err)
	assert.Equal(t, entities.BetStatusWon, first.Status)

	// Replays succeed without paying again, whatever outcome they carry
	second, err := core.SettleBet(ctx, bet.ID, entities.BetOutcomeWon)
	require.NoError(t, err)
	assert.Equal(t, entities.BetStatusWon, second.Status)
	assert.Equal(t, int64(6000), second.ActualPayout)

	third, err := core.SettleBet(ctx, bet.ID, entities.BetOutcomeLost)
	require.NoError(t, err)
	assert.Equal(t, entities.BetStatusWon, third.Status)

	balance, err := core.GetBalance(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(14000), balance)

	txns, err := core.ListTransactions(ctx, 42, 10, 0)
	require.NoError(t, err)
	assert.Len(t, txns, 3)
}

func TestCore_SettleBet_NotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	core, _ := setupCore(t)

	_, err := core.SettleBet(ctx, 9999, entities.BetOutcomeWon)
	assert.ErrorIs(t, err, domain.ErrBetNotFound)
}

func TestCore_DepositWithdraw(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	core, _ := setupCore(t)
	setupFundedAccount(t, core, 42, 0)

	txn, err := core.Deposit(ctx, 42, 10000, "dep:first")
	require.NoError(t, err)
	assert.Equal(t, int64(0), txn.BalanceBefore)
	assert.Equal(t, int64(10000), txn.BalanceAfter)

	// Replaying the same reference returns the original transaction
	replay, err := core.Deposit(ctx, 42, 10000, "dep:first")
	require.NoError(t, err)
	assert.Equal(t, txn.ID, replay.ID)

	balance, err := core.GetBalance(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), balance)

	// Same reference with a different amount is a caller bug
	_, err = core.Deposit(ctx, 42, 5000, "dep:first")
	assert.ErrorIs(t, err, domain.ErrDuplicateReference)

	_, err = core.Withdraw(ctx, 42, 4000, "")
	require.NoError(t, err)

	_, err = core.Withdraw(ctx, 42, 7000, "")
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	balance, err = core.GetBalance(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(6000), balance)
}

func TestCore_GetBalance_AccountNotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	core, _ := setupCore(t)

	_, err := core.GetBalance(ctx, 9999)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestCore_CreateAccount_Duplicate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	core, _ := setupCore(t)

	_, err := core.CreateAccount(ctx, 42)
	require.NoError(t, err)

	_, err = core.CreateAccount(ctx, 42)
	assert.Error(t, err)
}

func TestCore_ConcurrentDeltasConserveMoney(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	core, _ := setupCore(t)
	setupFundedAccount(t, core, 42, 100000)

	const workers = 4
	const opsPerWorker = 3
	const delta = int64(1000)

	var mu sync.Mutex
	var succeeded int64

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < opsPerWorker; i++ {
				if _, err := core.Deposit(ctx, 42, delta, ""); err == nil {
					mu.Lock()
					succeeded++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	// Every deposit either fully landed or fully failed; the balance is the
	// sum of the ones that landed.
	balance, err := core.GetBalance(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(100000)+succeeded*delta, balance)

	txns, err := core.ListTransactions(ctx, 42, 50, 0)
	require.NoError(t, err)
	assert.Len(t, txns, int(succeeded)+1)
}

func TestCore_ConcurrentSettlementPaysOnce(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	core, _ := setupCore(t)
	game := setupGame(t, core)
	setupFundedAccount(t, core, 42, 10000)

	bet, err := core.PlaceBet(ctx, 42, game.ID, 2000, 3.0, entities.BetTypeSingle)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			settled, err := core.SettleBet(ctx, bet.ID, entities.BetOutcomeWon)
			assert.NoError(t, err)
			assert.Equal(t, entities.BetStatusWon, settled.Status)
		}()
	}
	wg.Wait()

	balance, err := core.GetBalance(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(14000), balance)
}
