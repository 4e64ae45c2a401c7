package notify

import (
	"context"

	"fleetbook/pkg/kafka"
	"fleetbook/pkg/logger"
)

// Publisher enqueues notifications after a successful commit. Implementations
// are fire-and-forget: a publish failure is logged, never returned, so it can
// never turn a committed state change into a reported failure.
type Publisher interface {
	Notify(ctx context.Context, event Event)
}

type kafkaPublisher struct {
	producer *kafka.Producer
	source   string
	log      *logger.Logger
}

func NewKafkaPublisher(producer *kafka.Producer, source string, log *logger.Logger) Publisher {
	return &kafkaPublisher{
		producer: producer,
		source:   source,
		log:      log,
	}
}

func (p *kafkaPublisher) Notify(ctx context.Context, event Event) {
	key := event.BookingID
	if key == "" {
		key = string(event.Recipient)
	}

	msg, err := kafka.NewMessage().
		WithKey(key).
		WithEventType(event.Kind).
		WithSource(p.source).
		WithValue(event).
		Build()
	if err != nil {
		p.log.Error("Failed to build notification message",
			"kind", event.Kind,
			"booking_id", event.BookingID,
			"error", err,
		)
		return
	}

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Error("Failed to publish notification",
			"kind", event.Kind,
			"booking_id", event.BookingID,
			"error", err,
		)
	}
}

// NopPublisher discards events. Used where no broker is wired, e.g. tests.
type NopPublisher struct{}

func (NopPublisher) Notify(context.Context, Event) {}
