package entities

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
)

// BetStatus represents the lifecycle state of a bet
type BetStatus string

const (
	BetStatusPending   BetStatus = "pending"
	BetStatusWon       BetStatus = "won"
	BetStatusLost      BetStatus = "lost"
	BetStatusCancelled BetStatus = "cancelled"
	BetStatusRefunded  BetStatus = "refunded"
)

// BetType represents how a bet combines selections
type BetType string

const (
	BetTypeSingle   BetType = "single"
	BetTypeMultiple BetType = "multiple"
	BetTypeSystem   BetType = "system"
)

// BetOutcome is the terminal result a settlement drives a pending bet into
type BetOutcome string

const (
	BetOutcomeWon       BetOutcome = "won"
	BetOutcomeLost      BetOutcome = "lost"
	BetOutcomeCancelled BetOutcome = "cancelled"
	BetOutcomeRefunded  BetOutcome = "refunded"
)

// Bet represents a stake placed against a game. A bet leaves the pending
// state exactly once and is never deleted.
type Bet struct {
	ID              int64           `db:"id"`
	UserID          int64           `db:"user_id"`
	GameID          int64           `db:"game_id"`
	Amount          int64           `db:"amount"`
	Odds            float64         `db:"odds"`
	PotentialPayout int64           `db:"potential_payout"`
	ActualPayout    int64           `db:"actual_payout"`
	BetType         BetType         `db:"bet_type"`
	Status          BetStatus       `db:"status"`
	BetData         json.RawMessage `db:"bet_data"`
	PlacedAt        time.Time       `db:"placed_at"`
	SettledAt       *time.Time      `db:"settled_at"`
}

// IsValid reports whether the outcome names a known terminal state
func (o BetOutcome) IsValid() bool {
	switch o {
	case BetOutcomeWon, BetOutcomeLost, BetOutcomeCancelled, BetOutcomeRefunded:
		return true
	}
	return false
}

// Status returns the bet status corresponding to this outcome
func (o BetOutcome) Status() BetStatus {
	return BetStatus(o)
}

// IsTerminal returns true once the bet has left the pending state
func (s BetStatus) IsTerminal() bool {
	return s != BetStatusPending
}

// CalculatePotentialPayout derives the payout owed if the bet wins,
// rounded down to whole minor units. Fixed at placement time.
func (b *Bet) CalculatePotentialPayout() int64 {
	if b.Odds <= 0 {
		return 0
	}
	return int64(math.Floor(float64(b.Amount) * b.Odds))
}

// IsPending returns true while the bet awaits settlement
func (b *Bet) IsPending() bool {
	return b.Status == BetStatusPending
}

// NetProfit returns the net profit or loss from this bet so far
func (b *Bet) NetProfit() int64 {
	switch b.Status {
	case BetStatusWon:
		return b.ActualPayout - b.Amount
	case BetStatusLost:
		return -b.Amount
	default:
		return 0
	}
}

// StakeReference is the ledger idempotency key for the placement debit
func (b *Bet) StakeReference() string {
	return fmt.Sprintf("bet:%d:stake", b.ID)
}

// SettleReference is the ledger idempotency key for the winning payout
func (b *Bet) SettleReference() string {
	return fmt.Sprintf("bet:%d:settle", b.ID)
}

// RefundReference is the ledger idempotency key for a stake refund
func (b *Bet) RefundReference() string {
	return fmt.Sprintf("bet:%d:refund", b.ID)
}

// Validate performs basic validation on the bet
func (b *Bet) Validate() error {
	if b.Amount <= 0 {
		return errors.New("bet amount must be positive")
	}
	if b.Odds <= 0 {
		return errors.New("bet odds must be positive")
	}
	if b.Status == BetStatusWon && b.ActualPayout <= 0 {
		return errors.New("winning bet must have a positive payout")
	}
	if b.Status != BetStatusWon && b.ActualPayout != 0 {
		return errors.New("only winning bets carry a payout")
	}
	if b.Status.IsTerminal() && b.SettledAt == nil {
		return errors.New("terminal bet must have a settlement time")
	}
	return nil
}
