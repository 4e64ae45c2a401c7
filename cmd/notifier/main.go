package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"fleetbook/internal/notify"
	"fleetbook/pkg/config"
	kafka_config "fleetbook/pkg/kafka/config"
)

const ServiceName = "notifier"

func main() {
	cfg := config.Load(ServiceName)

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}

	worker, err := notify.NewWorker(
		kafkaCfg,
		cfg.NotificationsTopic,
		cfg.NotifierGroupID,
		cfg.NotificationsDLQTopic,
		notify.LogMessenger{Log: cfg.Log},
		cfg.Log,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create notification worker", "error", err)
	}
	defer func() {
		if err := worker.Close(); err != nil {
			cfg.Log.Error("Failed to close worker", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Notification worker started", "topic", cfg.NotificationsTopic, "group", cfg.NotifierGroupID)
	if err := worker.Run(ctx); err != nil && ctx.Err() == nil {
		cfg.Log.Fatal("Notification worker failed", "error", err)
	}
	cfg.Log.Info("Notification worker stopped")
}
