package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/email"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/logger"
	"github.com/joho/godotenv"
)

// The worker reads reservation events from the notifications topic and
// hands each one to the email sender.
func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.Events.NotificationsTopic == "" || len(cfg.Kafka.Brokers) == 0 {
		log.Fatalf("worker needs events.notifications_topic and kafka.brokers")
	}

	lg := logger.New(cfg.Log.Service+"-worker", cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Events.NotificationsTopic, lg)
	defer consumer.Close()

	sender := email.NewSender(lg)

	lg.Info("worker started", slog.String("topic", cfg.Events.NotificationsTopic))
	if err := consumer.ConsumeReservations(ctx, sender.Send); err != nil {
		lg.Error("consumer stopped", slog.Any("error", err))
		os.Exit(1)
	}
	lg.Info("worker stopped")
}
