package entities

import (
	"errors"
	"time"
)

// GameStatus represents whether a game is accepting bets
type GameStatus string

const (
	GameStatusActive      GameStatus = "active"
	GameStatusInactive    GameStatus = "inactive"
	GameStatusMaintenance GameStatus = "maintenance"
)

// GameType categorizes games for reporting
type GameType string

const (
	GameTypeLottery GameType = "lottery"
	GameTypeCasino  GameType = "casino"
	GameTypeSports  GameType = "sports"
	GameTypePoker   GameType = "poker"
)

// Game holds the stake bounds and availability the wager engine validates
// against. Games are owned by administrative collaborators; the core only
// reads them.
type Game struct {
	ID        int64      `db:"id"`
	Name      string     `db:"name"`
	GameType  GameType   `db:"game_type"`
	MinBet    int64      `db:"min_bet"`
	MaxBet    int64      `db:"max_bet"`
	HouseEdge float64    `db:"house_edge"`
	Status    GameStatus `db:"status"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
}

// IsActive returns true if the game accepts new bets
func (g *Game) IsActive() bool {
	return g.Status == GameStatusActive
}

// AllowsStake checks whether an amount falls within the game's bet bounds
func (g *Game) AllowsStake(amount int64) bool {
	return amount >= g.MinBet && amount <= g.MaxBet
}

// Validate performs basic validation on the game definition
func (g *Game) Validate() error {
	if g.Name == "" {
		return errors.New("game name is required")
	}
	if g.MinBet <= 0 {
		return errors.New("minimum bet must be positive")
	}
	if g.MaxBet < g.MinBet {
		return errors.New("maximum bet cannot be below minimum bet")
	}
	if g.HouseEdge < 0 || g.HouseEdge >= 100 {
		return errors.New("house edge must be a percentage below 100")
	}
	return nil
}
