package cache

import (
	"context"
	"testing"
	"time"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewRedisCacheWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func sampleFlights() []domain.Flight {
	return []domain.Flight{
		{
			FlightID:       "F1",
			Destination:    "LED",
			Departure:      "SVO",
			FlightType:     "domestic",
			Aircraft:       "A320",
			Seats:          180,
			FlightDatetime: time.Date(2026, 11, 1, 10, 0, 0, 0, time.UTC),
			State:          domain.FlightStateConfirmed,
		},
		{FlightID: "F2", Seats: 0, State: domain.FlightStateReserved},
	}
}

func TestNewRedisCache(t *testing.T) {
	c := NewRedisCache(config.RedisConfig{Addr: "localhost:6379"}, time.Minute)
	assert.NotNil(t, c)
	assert.Equal(t, time.Minute, c.flightsTTL)
	assert.NoError(t, c.Close())
}

func TestRedisCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	got, err := c.GetFlights(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)

	flights := sampleFlights()
	require.NoError(t, c.SetFlights(ctx, 1, flights))
	assert.True(t, mr.Exists(c.flightsKey()))
	assert.Equal(t, time.Minute, mr.TTL(c.flightsKey()))

	got, err = c.GetFlights(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, flights, got)

	require.NoError(t, c.InvalidateFlights(ctx))
	assert.False(t, mr.Exists(c.flightsKey()))

	got, err = c.GetFlights(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisCache_EmptyListIsAHit(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	require.NoError(t, c.SetFlights(ctx, 0, []domain.Flight{}))

	got, err := c.GetFlights(ctx, 0)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRedisCache_OtherGenerationIsAMiss(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	require.NoError(t, c.SetFlights(ctx, 4, sampleFlights()))

	got, err := c.GetFlights(ctx, 5)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisCache_InstancesDoNotShareSnapshots(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	first := NewRedisCacheWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute)
	defer first.Close()
	second := NewRedisCacheWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute)
	defer second.Close()

	require.NoError(t, first.SetFlights(ctx, 0, sampleFlights()))

	got, err := second.GetFlights(ctx, 0)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NotEqual(t, first.flightsKey(), second.flightsKey())
}

func TestRedisCache_CorruptSnapshot(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	require.NoError(t, mr.Set(c.flightsKey(), "{not json"))

	_, err := c.GetFlights(ctx, 0)
	assert.Error(t, err)
}

func TestRedisCache_UnreachableServer(t *testing.T) {
	// Port 1 is never a redis server; every call must surface an error.
	c := NewRedisCache(config.RedisConfig{Addr: "127.0.0.1:1"}, time.Minute)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := c.GetFlights(ctx, 0)
	assert.Error(t, err)
	assert.Error(t, c.SetFlights(ctx, 0, nil))
	assert.Error(t, c.InvalidateFlights(ctx))
	assert.Error(t, c.Ping(ctx))
}
