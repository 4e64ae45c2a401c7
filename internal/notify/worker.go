package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"fleetbook/pkg/kafka"
	kafka_config "fleetbook/pkg/kafka/config"
	"fleetbook/pkg/logger"
)

// Messenger delivers a notification over the outbound transport (LINE,
// Telegram, ...). No return value is relied upon for correctness beyond
// retry classification.
type Messenger interface {
	SendToUser(ctx context.Context, identity, text string) error
	SendToAdminChannel(ctx context.Context, text string) error
}

// Worker consumes the notifications topic and delivers each event through
// the Messenger. Retries and DLQ routing come from the consumer policy.
type Worker struct {
	consumer  *kafka.Consumer
	messenger Messenger
	log       *logger.Logger
}

func NewWorker(cfg *kafka_config.Config, topic, groupID, dlqTopic string, messenger Messenger, log *logger.Logger) (*Worker, error) {
	w := &Worker{
		messenger: messenger,
		log:       log,
	}

	consumer, err := kafka.NewConsumer(cfg, topic, groupID, dlqTopic, w.handle, log)
	if err != nil {
		return nil, err
	}
	w.consumer = consumer
	return w, nil
}

func (w *Worker) handle(ctx context.Context, msg kafka.Message) error {
	var event Event
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("invalid message: %w", err)
	}

	switch event.Recipient {
	case RecipientUser:
		if event.Identity == "" {
			return fmt.Errorf("invalid message: user notification without identity")
		}
		if err := w.messenger.SendToUser(ctx, event.Identity, event.Text); err != nil {
			return err
		}
	case RecipientAdminChannel:
		if err := w.messenger.SendToAdminChannel(ctx, event.Text); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid message: unknown recipient %q", event.Recipient)
	}

	w.log.Info("Notification delivered",
		"kind", event.Kind,
		"recipient", event.Recipient,
		"booking_id", event.BookingID,
	)
	return nil
}

func (w *Worker) Run(ctx context.Context) error {
	w.log.Info("Notification worker started")
	return w.consumer.Start(ctx)
}

func (w *Worker) Close() error {
	return w.consumer.Close()
}

// LogMessenger writes notifications to the log instead of a real messaging
// provider. Stands in for the LINE/Telegram transports during development.
type LogMessenger struct {
	Log *logger.Logger
}

func (m LogMessenger) SendToUser(_ context.Context, identity, text string) error {
	m.Log.Info("Outbound user message", "identity", identity, "text", text)
	return nil
}

func (m LogMessenger) SendToAdminChannel(_ context.Context, text string) error {
	m.Log.Info("Outbound admin message", "text", text)
	return nil
}
