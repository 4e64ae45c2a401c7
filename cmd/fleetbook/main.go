package main

import (
	"fleetbook/internal/bookings/handler"
	"fleetbook/internal/bookings/repository"
	"fleetbook/internal/bookings/service"
	"fleetbook/internal/bookings/validator"
	"fleetbook/internal/notify"
	"fleetbook/pkg/app"
	"fleetbook/pkg/config"
	"fleetbook/pkg/kafka"
	kafka_config "fleetbook/pkg/kafka/config"
)

const ServiceName = "fleetbook"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting booking service")

	publisher, producer := initPublisher(cfg)
	if producer != nil {
		defer func() {
			if err := producer.Close(); err != nil {
				cfg.Log.Error("Failed to close producer", "error", err)
			}
		}()
	}

	bookingService := initServices(cfg, publisher)
	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewBookingHandler(bookingService, cfg.Log))
	serverApp.Run()
}

// initPublisher wires the post-commit notification path. A broker outage at
// startup degrades to a no-op publisher; bookings still work without
// notifications.
func initPublisher(cfg *config.Config) (notify.Publisher, *kafka.Producer) {
	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Warn("Kafka configuration invalid, notifications disabled", "error", err)
		return notify.NopPublisher{}, nil
	}

	producer, err := kafka.NewProducer(kafkaCfg, cfg.NotificationsTopic, cfg.NotificationsDLQTopic, cfg.Log)
	if err != nil {
		cfg.Log.Warn("Kafka producer unavailable, notifications disabled", "error", err)
		return notify.NopPublisher{}, nil
	}

	return notify.NewKafkaPublisher(producer, ServiceName, cfg.Log), producer
}

func initServices(cfg *config.Config, publisher notify.Publisher) service.BookingService {
	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	lockRepo := repository.NewVehicleLockRepository(cfg)
	customerRepo := repository.NewMongoCustomerRepository(cfg)
	driverRepo := repository.NewMongoDriverRepository(cfg)

	bookingService := service.NewBookingService(
		bookingRepo,
		lockRepo,
		customerRepo,
		driverRepo,
		bookingValidator,
		publisher,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}
