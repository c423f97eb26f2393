package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bookie/domain/events"
	"bookie/domain/interfaces"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// subjectPrefix namespaces all notification subjects
const subjectPrefix = "bookie.events."

// eventEnvelope is the wire format for published notifications. The payload
// is the JSON-encoded domain event.
type eventEnvelope struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// NATSEventPublisher implements the EventPublisher interface using NATS
type NATSEventPublisher struct {
	client *NATSClient
}

// NewNATSEventPublisher creates a new NATS event publisher
func NewNATSEventPublisher(client *NATSClient) interfaces.EventPublisher {
	return &NATSEventPublisher{client: client}
}

// Publish sends an event to its subject. Failures are returned but callers
// treat notification delivery as best-effort.
func (p *NATSEventPublisher) Publish(event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	envelope := eventEnvelope{
		EventID:   uuid.NewString(),
		EventType: string(event.Type()),
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	subject := subjectPrefix + string(event.Type())
	if err := p.client.Publish(context.Background(), subject, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	log.WithFields(log.Fields{
		"eventType": event.Type(),
		"eventId":   envelope.EventID,
		"subject":   subject,
	}).Debug("Published event to NATS")

	return nil
}
