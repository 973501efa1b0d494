package main

import (
	"context"
	"os"

	"github.com/thisisgagangupta/dev-kiosk/internal/notify"
	queuehandler "github.com/thisisgagangupta/dev-kiosk/internal/queue/handler"
	queuerepository "github.com/thisisgagangupta/dev-kiosk/internal/queue/repository"
	queueservice "github.com/thisisgagangupta/dev-kiosk/internal/queue/service"
	"github.com/thisisgagangupta/dev-kiosk/internal/queue/validator"
	slotshandler "github.com/thisisgagangupta/dev-kiosk/internal/slots/handler"
	slotsrepository "github.com/thisisgagangupta/dev-kiosk/internal/slots/repository"
	slotsservice "github.com/thisisgagangupta/dev-kiosk/internal/slots/service"
	"github.com/thisisgagangupta/dev-kiosk/pkg/app"
	"github.com/thisisgagangupta/dev-kiosk/pkg/client"
	"github.com/thisisgagangupta/dev-kiosk/pkg/config"
	"github.com/thisisgagangupta/dev-kiosk/pkg/kafka"
	kafka_config "github.com/thisisgagangupta/dev-kiosk/pkg/kafka/config"
	kafka_middleware "github.com/thisisgagangupta/dev-kiosk/pkg/kafka/middleware"
)

const ServiceName = "queue"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	if err := queuerepository.EnsureTokenIndexes(context.Background(), cfg); err != nil {
		cfg.Log.Fatal("Failed to create token indexes", "error", err)
	}

	notifier, producer := initNotifier(cfg)
	if producer != nil {
		defer func() {
			if err := producer.Close(); err != nil {
				cfg.Log.Error("Failed to close Kafka producer", "error", err)
			}
		}()
	}

	cfg.Log.Info("Starting Queue service")

	slotService := slotsservice.NewSlotLockService(slotsrepository.NewMongoSlotLockRepository(cfg), cfg)
	tokenService, wallboardService := initQueueServices(cfg, slotService, notifier)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg,
		queuehandler.NewQueueHandler(tokenService, wallboardService, cfg.Log),
		slotshandler.NewSlotHandler(slotService, cfg.Log),
	)
	serverApp.Run()
}

func initQueueServices(cfg *config.Config, slots slotsservice.SlotLockService, notifier notify.CheckInNotifier) (queueservice.TokenService, queueservice.WallboardService) {
	tokenRepo := queuerepository.NewMongoTokenRepository(cfg)
	lanes := queueservice.NewLaneRouter(cfg.QueueLanes)

	var identity client.IdentityResolver
	if cfg.IdentityBaseURL != "" {
		identity = client.NewIdentityClient(cfg.IdentityBaseURL)
	}

	tokenService := queueservice.NewTokenService(
		tokenRepo,
		queuerepository.NewMongoSequenceRepository(cfg),
		lanes,
		queueservice.NewEstimator(cfg.ConsultAvgMin),
		validator.NewCheckinValidator(cfg.Log),
		client.NewAppointmentClient(cfg.AppointmentsBaseURL),
		identity,
		slots,
		notifier,
		cfg,
	)
	wallboardService := queueservice.NewWallboardService(tokenRepo, lanes, cfg)

	cfg.Log.Info("Queue services initialized", "database", cfg.MongoDatabaseName, "lanes", len(cfg.QueueLanes))
	return tokenService, wallboardService
}

// initNotifier wires the check-in confirmation producer. Without an
// explicit broker list the service runs with confirmations disabled,
// which is the normal mode for local development.
func initNotifier(cfg *config.Config) (notify.CheckInNotifier, *kafka.Producer) {
	if os.Getenv(kafka_config.EnvKafkaBrokers) == "" {
		cfg.Log.Info("Kafka brokers not configured, check-in confirmations disabled")
		return notify.NoopNotifier{}, nil
	}

	producer, err := kafka.NewProducer(kafka_config.Load(), cfg.CheckinTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))

	cfg.Log.Info("Check-in confirmation producer initialized", "topic", cfg.CheckinTopic)
	return notify.NewKafkaNotifier(producer), producer
}
