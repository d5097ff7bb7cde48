package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/flightbooking/api"
	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/auth"
	"github.com/Domenick1991/flightbooking/internal/bootstrap"
	"github.com/Domenick1991/flightbooking/internal/cache"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/logger"
	"github.com/Domenick1991/flightbooking/internal/rabbitmq"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

type eventPublisher interface {
	Publish(ctx context.Context, topic, key string, payload any) error
	Close() error
}

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

	lg := logger.New(cfg.Log.Service, cfg.Log.Level)
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	credentials, err := auth.NewCredentialStoreFromConfig(cfg.Auth.Users, cfg.Auth.BcryptCost)
	if err != nil {
		log.Fatalf("load users: %v", err)
	}
	tokens := auth.NewTokenService(cfg.Auth.SecretKey)
	gate := auth.NewGate(tokens, credentials)
	authenticator := auth.NewAuthenticator(credentials, tokens, time.Duration(cfg.Auth.AccessTTLMinute)*time.Minute)

	flightOpts := []flights.FlightServiceOption{
		flights.WithGuardConfirmCancelled(cfg.Flights.GuardConfirmCancelled),
		flights.WithLogger(lg),
	}
	bookingOpts := []booking.BookingManagerOption{booking.WithLogger(lg)}

	if publisher := newPublisher(cfg, lg); publisher != nil {
		defer publisher.Close()
		flightOpts = append(flightOpts, flights.WithProducer(publisher, cfg.Events.FlightsTopic))
		bookingOpts = append(bookingOpts,
			booking.WithProducer(publisher, cfg.Events.ReservationsTopic),
			booking.WithNotificationsTopic(cfg.Events.NotificationsTopic),
		)
	}

	// A nil *RedisCache must not reach the service as a non-nil interface.
	var flightCache flights.FlightCache
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Flights.CacheTTLSeconds)*time.Second)
		defer redisCache.Close()
		if err := redisCache.Ping(ctx); err != nil {
			lg.Warn("redis unavailable, flights cache disabled", slog.Any("error", err))
		} else {
			flightCache = redisCache
		}
	}

	flightService := flights.NewFlightService(repository.NewFlightRepository(), flightCache, flightOpts...)
	bookingManager := booking.NewBookingManager(repository.NewReservationRepository(), bookingOpts...)

	router := api.NewRouter(api.RouterConfig{
		Auth:       api.NewAuthHandler(authenticator, lg),
		Flights:    api.NewFlightHandler(flightService, lg),
		Bookings:   api.NewBookingHandler(bookingManager, lg),
		Gate:       gate,
		Logger:     lg,
		SwaggerDir: cfg.HTTP.SwaggerDir,
	})

	if err := bootstrap.Run(ctx, cfg.HTTP.Address, router, lg); err != nil {
		lg.Error("server error", slog.Any("error", err))
		os.Exit(1)
	}
}

// newPublisher returns nil when events are disabled or the broker cannot be
// reached; the API keeps serving without events in that case.
func newPublisher(cfg *config.Config, lg *slog.Logger) eventPublisher {
	switch cfg.Events.Broker {
	case config.BrokerKafka:
		producer := kafka.NewProducer(cfg.Kafka.Brokers, lg)
		checkCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := producer.CheckConnection(checkCtx); err != nil {
			lg.Warn("kafka is not reachable yet", slog.Any("error", err))
		}
		return producer
	case config.BrokerRabbitMQ:
		publisher, err := rabbitmq.NewPublisher(cfg.Rabbit.URL, lg)
		if err != nil {
			lg.Warn("rabbitmq unavailable, events disabled", slog.Any("error", err))
			return nil
		}
		return publisher
	default:
		return nil
	}
}
