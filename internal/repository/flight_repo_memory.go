package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Domenick1991/flightbooking/internal/domain"
)

type FlightRepository interface {
	Create(ctx context.Context, flight domain.Flight) error
	GetByID(ctx context.Context, flightID string) (*domain.Flight, error)
	List(ctx context.Context) ([]domain.Flight, error)
	// Apply runs mutate on a copy of the stored flight and stores the copy
	// only when mutate returns nil. The whole sequence holds the write lock.
	Apply(ctx context.Context, flightID string, mutate func(*domain.Flight) error) (*domain.Flight, error)
	// Generation changes on every successful write. A List result taken
	// while Generation stayed the same reflects that generation exactly.
	Generation() uint64
}

type MemoryFlightRepository struct {
	mu         sync.RWMutex
	flights    map[string]domain.Flight
	generation uint64
}

func NewFlightRepository() FlightRepository {
	return &MemoryFlightRepository{flights: make(map[string]domain.Flight)}
}

func (r *MemoryFlightRepository) Create(_ context.Context, flight domain.Flight) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.flights[flight.FlightID]; ok {
		return fmt.Errorf("flight %s: %w", flight.FlightID, domain.ErrConflict)
	}
	r.flights[flight.FlightID] = flight
	r.generation++
	return nil
}

func (r *MemoryFlightRepository) GetByID(_ context.Context, flightID string) (*domain.Flight, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.flights[flightID]
	if !ok {
		return nil, fmt.Errorf("flight %s: %w", flightID, domain.ErrNotFound)
	}
	return &f, nil
}

// List returns flights ordered by flight id.
func (r *MemoryFlightRepository) List(_ context.Context) ([]domain.Flight, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	flights := make([]domain.Flight, 0, len(r.flights))
	for _, f := range r.flights {
		flights = append(flights, f)
	}
	sort.Slice(flights, func(i, j int) bool { return flights[i].FlightID < flights[j].FlightID })
	return flights, nil
}

func (r *MemoryFlightRepository) Apply(_ context.Context, flightID string, mutate func(*domain.Flight) error) (*domain.Flight, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.flights[flightID]
	if !ok {
		return nil, fmt.Errorf("flight %s: %w", flightID, domain.ErrNotFound)
	}
	if err := mutate(&f); err != nil {
		return nil, err
	}
	f.FlightID = flightID
	r.flights[flightID] = f
	r.generation++
	return &f, nil
}

func (r *MemoryFlightRepository) Generation() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.generation
}

var _ FlightRepository = (*MemoryFlightRepository)(nil)
