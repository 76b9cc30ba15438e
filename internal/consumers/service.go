package consumers

import (
	"context"
	"log/slog"
	"time"

	"stagedoor/internal/config"
	"stagedoor/internal/database"
	"stagedoor/internal/messaging"
	"stagedoor/internal/models"
	"stagedoor/internal/repository"
)

// ackGrace is added on top of the hold duration when computing the ack
// deadline, so a timer that fires exactly on time still acks before
// redelivery kicks in.
const ackGrace = 2 * time.Minute

type ConsumerService struct {
	db       *database.DB
	nats     *messaging.NATSClient
	repos    *repository.Repositories
	handlers *Handlers
	ackWait  time.Duration
}

func NewConsumerService(cfg *config.Config) (*ConsumerService, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		return nil, err
	}

	repos := repository.NewRepositories(db)
	handlers := NewHandlers(repos.Reservations)

	return &ConsumerService{
		db:       db,
		nats:     natsClient,
		repos:    repos,
		handlers: handlers,
		ackWait:  cfg.HoldDuration + ackGrace,
	}, nil
}

func (cs *ConsumerService) Start() error {
	slog.Info("Starting NATS consumers...")

	// The expiry subscription waits out the full hold before acking, so its
	// ack deadline must outlive the hold duration.
	_, err := cs.nats.SubscribeQueue(models.EventReservationCreated, "consumers", cs.ackWait, cs.handlers.HandleReservationCreated)
	if err != nil {
		return err
	}

	_, err = cs.nats.SubscribeQueue(models.EventReservationReleased, "consumers", 30*time.Second, cs.handlers.HandleReservationReleased)
	if err != nil {
		return err
	}

	_, err = cs.nats.SubscribeQueue(models.EventBookingConfirmed, "consumers", 30*time.Second, cs.handlers.HandleBookingConfirmed)
	if err != nil {
		return err
	}

	slog.Info("All consumers started successfully")
	return nil
}

// Repos exposes the repositories so the sweep job can share the connection pool.
func (cs *ConsumerService) Repos() *repository.Repositories {
	return cs.repos
}

// NATS exposes the messaging client for components that publish.
func (cs *ConsumerService) NATS() *messaging.NATSClient {
	return cs.nats
}

func (cs *ConsumerService) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down consumer service...")

	if cs.nats != nil {
		if err := cs.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
		}
	}

	if cs.db != nil {
		if err := cs.db.Close(); err != nil {
			slog.Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
