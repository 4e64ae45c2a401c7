package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"fleetbook/internal/bookings/repository"
	"fleetbook/internal/notify"
	"fleetbook/internal/reports"
	"fleetbook/pkg/config"
	"fleetbook/pkg/kafka"
	kafka_config "fleetbook/pkg/kafka/config"
)

const ServiceName = "reporter"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	producer, err := kafka.NewProducer(kafkaCfg, cfg.NotificationsTopic, cfg.NotificationsDLQTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create producer", "error", err)
	}
	defer func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close producer", "error", err)
		}
	}()

	bookingRepo := repository.NewMongoBookingRepository(cfg)
	aggregator := reports.NewAggregator(bookingRepo, cfg.Log)
	settings := reports.NewMongoSettingsRepository(cfg)
	publisher := notify.NewKafkaPublisher(producer, ServiceName, cfg.Log)

	scheduler, err := reports.NewScheduler(aggregator, settings, publisher, cfg)
	if err != nil {
		cfg.Log.Fatal("Failed to create report scheduler", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler.Run(ctx)
}
