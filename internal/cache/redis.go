package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisCache keeps a snapshot of the flight list. Flights live in process
// memory, so every cache gets its own key: a restarted process or another
// instance on the same Redis never reads this one's snapshot.
type RedisCache struct {
	client     redis.UniversalClient
	flightsTTL time.Duration
	namespace  string
}

type flightsSnapshot struct {
	Generation uint64          `json:"generation"`
	Flights    []domain.Flight `json:"flights"`
}

func NewRedisCache(cfg config.RedisConfig, flightsTTL time.Duration) *RedisCache {
	return NewRedisCacheWithClient(
		redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		flightsTTL,
	)
}

func NewRedisCacheWithClient(client redis.UniversalClient, flightsTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, flightsTTL: flightsTTL, namespace: uuid.NewString()}
}

// GetFlights returns nil, nil on a miss or when the stored snapshot was
// taken at another generation.
func (c *RedisCache) GetFlights(ctx context.Context, generation uint64) ([]domain.Flight, error) {
	data, err := c.client.Get(ctx, c.flightsKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var snap flightsSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	if snap.Generation != generation {
		return nil, nil
	}
	if snap.Flights == nil {
		snap.Flights = []domain.Flight{}
	}
	return snap.Flights, nil
}

func (c *RedisCache) SetFlights(ctx context.Context, generation uint64, flights []domain.Flight) error {
	payload, err := json.Marshal(flightsSnapshot{Generation: generation, Flights: flights})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.flightsKey(), payload, c.flightsTTL).Err()
}

func (c *RedisCache) InvalidateFlights(ctx context.Context) error {
	return c.client.Del(ctx, c.flightsKey()).Err()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) flightsKey() string {
	return "cache:flights:" + c.namespace
}
