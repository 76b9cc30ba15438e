package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stagedoor/cmd/consumers/jobs"
	"stagedoor/internal/config"
	"stagedoor/internal/consumers"
	"stagedoor/internal/logger"
	"stagedoor/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	log.Println("Starting consumers service...")

	cfg := config.Load()
	cfg.NATS.ClientID = "stagedoor-consumers"
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	consumerService, err := consumers.NewConsumerService(cfg)
	if err != nil {
		log.Fatalf("Failed to create consumer service: %v", err)
	}

	if err := consumerService.Start(); err != nil {
		log.Fatalf("Failed to start consumers: %v", err)
	}

	// The sweep job shares the consumer's pool and connection. It backstops
	// the per-reservation scheduler running in the same process.
	reservationService := service.NewReservationService(
		consumerService.Repos().Reservations,
		consumerService.NATS(),
		cfg.HoldDuration,
	)
	sweepJob := jobs.NewReservationSweepJob(reservationService, cfg.SweepInterval)
	sweepJob.Start(context.Background())

	log.Println("Consumers service started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down consumers service...")

	sweepJob.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := consumerService.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Consumers service stopped")
}
