package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"

	"bookie/domain/entities"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

// resultsSubject carries game result notifications from external providers
const resultsSubject = "bookie.results"

// BetSettler is the slice of the application core the consumer needs
type BetSettler interface {
	SettleBet(ctx context.Context, betID int64, outcome entities.BetOutcome) (*entities.Bet, error)
}

// resultMessage is the wire format of an external settlement trigger
type resultMessage struct {
	BetID   int64  `json:"bet_id"`
	Outcome string `json:"outcome"`
}

// SettlementConsumer subscribes to game result notifications and drives bet
// settlement. Duplicate deliveries are safe: settlement is idempotent.
type SettlementConsumer struct {
	client  *NATSClient
	settler BetSettler
	sub     *nats.Subscription
}

// NewSettlementConsumer creates a consumer for external settlement triggers
func NewSettlementConsumer(client *NATSClient, settler BetSettler) *SettlementConsumer {
	return &SettlementConsumer{
		client:  client,
		settler: settler,
	}
}

// Start subscribes to the results subject
func (c *SettlementConsumer) Start(ctx context.Context) error {
	if c.client.nc == nil {
		return fmt.Errorf("NATS client not connected")
	}

	sub, err := c.client.nc.Subscribe(resultsSubject, func(msg *nats.Msg) {
		c.handleMessage(ctx, msg.Data)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", resultsSubject, err)
	}

	c.sub = sub
	log.WithField("subject", resultsSubject).Info("Settlement consumer started")
	return nil
}

func (c *SettlementConsumer) handleMessage(ctx context.Context, data []byte) {
	var result resultMessage
	if err := json.Unmarshal(data, &result); err != nil {
		log.WithError(err).Error("Failed to decode result message")
		return
	}

	bet, err := c.settler.SettleBet(ctx, result.BetID, entities.BetOutcome(result.Outcome))
	if err != nil {
		log.WithFields(log.Fields{
			"betID":   result.BetID,
			"outcome": result.Outcome,
			"error":   err,
		}).Error("Failed to settle bet from result message")
		return
	}

	log.WithFields(log.Fields{
		"betID":  bet.ID,
		"status": bet.Status,
		"payout": bet.ActualPayout,
	}).Info("Bet settled from result message")
}

// Stop unsubscribes from the results subject
func (c *SettlementConsumer) Stop() error {
	if c.sub == nil {
		return nil
	}
	if err := c.sub.Unsubscribe(); err != nil {
		return fmt.Errorf("failed to unsubscribe: %w", err)
	}
	c.sub = nil
	return nil
}
