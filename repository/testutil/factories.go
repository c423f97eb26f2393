package testutil

import (
	"bookie/domain/entities"
)

// NewTestGame creates an active game with default stake bounds
func NewTestGame(name string) *entities.Game {
	return &entities.Game{
		Name:      name,
		GameType:  entities.GameTypeCasino,
		MinBet:    100,
		MaxBet:    1000000,
		HouseEdge: 2.0,
		Status:    entities.GameStatusActive,
	}
}

// NewTestGameWithBounds creates an active game with specific stake bounds
func NewTestGameWithBounds(name string, minBet, maxBet int64) *entities.Game {
	game := NewTestGame(name)
	game.MinBet = minBet
	game.MaxBet = maxBet
	return game
}

// NewTestBet creates a pending bet with default values
func NewTestBet(userID, gameID int64) *entities.Bet {
	bet := &entities.Bet{
		UserID:  userID,
		GameID:  gameID,
		Amount:  2000,
		Odds:    3.0,
		BetType: entities.BetTypeSingle,
		Status:  entities.BetStatusPending,
	}
	bet.PotentialPayout = bet.CalculatePotentialPayout()
	return bet
}

// NewTestTransaction creates a completed transaction with consistent balances
func NewTestTransaction(accountID int64, amount int64, txType entities.TransactionType) *entities.Transaction {
	before := int64(10000)
	return &entities.Transaction{
		AccountID:     accountID,
		Type:          txType,
		Amount:        amount,
		BalanceBefore: before,
		BalanceAfter:  before + amount,
		Status:        entities.TransactionStatusCompleted,
	}
}
