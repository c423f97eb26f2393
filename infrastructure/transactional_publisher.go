package infrastructure

import (
	"context"

	"bookie/domain/events"
	"bookie/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// TransactionalPublisher holds events until Flush, keeping notification
// delivery consistent with the database transaction that produced them
type TransactionalPublisher struct {
	realPublisher interfaces.EventPublisher
	pending       []events.Event
}

// NewTransactionalPublisher creates a publisher staging events for the real one
func NewTransactionalPublisher(realPublisher interfaces.EventPublisher) interfaces.TransactionalEventPublisher {
	return &TransactionalPublisher{
		realPublisher: realPublisher,
		pending:       make([]events.Event, 0),
	}
}

// Publish stores an event in the pending queue without delivering it
func (p *TransactionalPublisher) Publish(event events.Event) error {
	p.pending = append(p.pending, event)
	return nil
}

// Flush delivers all pending events. Called after a successful commit; a
// delivery failure is logged and skipped so one bad event cannot block the rest.
func (p *TransactionalPublisher) Flush(ctx context.Context) error {
	for _, event := range p.pending {
		if err := p.realPublisher.Publish(event); err != nil {
			log.WithFields(log.Fields{
				"eventType": event.Type(),
				"error":     err,
			}).Error("Failed to publish event during flush")
		}
	}
	p.pending = p.pending[:0]
	return nil
}

// Discard drops all pending events. Called on rollback.
func (p *TransactionalPublisher) Discard() {
	p.pending = p.pending[:0]
}

// NoopEventPublisher is an event publisher that does nothing. Useful for
// tests and administrative paths that must not emit notifications.
type NoopEventPublisher struct{}

// NewNoopEventPublisher creates a new no-op event publisher
func NewNoopEventPublisher() *NoopEventPublisher {
	return &NoopEventPublisher{}
}

// Publish does nothing with the event
func (n *NoopEventPublisher) Publish(event events.Event) error {
	return nil
}
