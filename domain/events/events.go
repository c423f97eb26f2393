package events

import (
	"bookie/domain/entities"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange  EventType = "balance_change"
	EventTypeAccountCreated EventType = "account_created"
	EventTypeBetPlaced      EventType = "bet_placed"
	EventTypeBetSettled     EventType = "bet_settled"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a committed balance change
type BalanceChangeEvent struct {
	AccountID       int64                    `json:"account_id"`
	TransactionID   int64                    `json:"transaction_id"`
	TransactionType entities.TransactionType `json:"transaction_type"`
	ChangeAmount    int64                    `json:"change_amount"`
	BalanceBefore   int64                    `json:"balance_before"`
	BalanceAfter    int64                    `json:"balance_after"`
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// AccountCreatedEvent represents a new account creation
type AccountCreatedEvent struct {
	AccountID int64 `json:"account_id"`
}

func (e AccountCreatedEvent) Type() EventType {
	return EventTypeAccountCreated
}

// BetPlacedEvent represents a bet that entered the pending state
type BetPlacedEvent struct {
	BetID           int64 `json:"bet_id"`
	UserID          int64 `json:"user_id"`
	GameID          int64 `json:"game_id"`
	Amount          int64 `json:"amount"`
	PotentialPayout int64 `json:"potential_payout"`
}

func (e BetPlacedEvent) Type() EventType {
	return EventTypeBetPlaced
}

// BetSettledEvent represents a bet transitioning into a terminal state
type BetSettledEvent struct {
	BetID        int64              `json:"bet_id"`
	UserID       int64              `json:"user_id"`
	GameID       int64              `json:"game_id"`
	Outcome      entities.BetStatus `json:"outcome"`
	ActualPayout int64              `json:"actual_payout"`
}

func (e BetSettledEvent) Type() EventType {
	return EventTypeBetSettled
}
