package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Domenick1991/flightbooking/internal/domain"
)

type ReservationRepository interface {
	Create(ctx context.Context, reservation domain.Reservation) error
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	// Update replaces the stored reservation as a whole.
	Update(ctx context.Context, reservation domain.Reservation) error
	UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) (*domain.Reservation, error)
	List(ctx context.Context) ([]domain.Reservation, error)
}

type MemoryReservationRepository struct {
	mu           sync.RWMutex
	reservations map[int64]domain.Reservation
}

func NewReservationRepository() ReservationRepository {
	return &MemoryReservationRepository{reservations: make(map[int64]domain.Reservation)}
}

func (r *MemoryReservationRepository) Create(_ context.Context, reservation domain.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.reservations[reservation.ID]; ok {
		return fmt.Errorf("reservation %d: %w", reservation.ID, domain.ErrConflict)
	}
	r.reservations[reservation.ID] = cloneReservation(reservation)
	return nil
}

func (r *MemoryReservationRepository) GetByID(_ context.Context, id int64) (*domain.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.reservations[id]
	if !ok {
		return nil, fmt.Errorf("reservation %d: %w", id, domain.ErrNotFound)
	}
	res = cloneReservation(res)
	return &res, nil
}

func (r *MemoryReservationRepository) Update(_ context.Context, reservation domain.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.reservations[reservation.ID]; !ok {
		return fmt.Errorf("reservation %d: %w", reservation.ID, domain.ErrNotFound)
	}
	r.reservations[reservation.ID] = cloneReservation(reservation)
	return nil
}

func (r *MemoryReservationRepository) UpdateStatus(_ context.Context, id int64, status domain.ReservationStatus) (*domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, ok := r.reservations[id]
	if !ok {
		return nil, fmt.Errorf("reservation %d: %w", id, domain.ErrNotFound)
	}
	res.Status = status
	r.reservations[id] = res
	res = cloneReservation(res)
	return &res, nil
}

// List returns reservations ordered by id.
func (r *MemoryReservationRepository) List(_ context.Context) ([]domain.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Reservation, 0, len(r.reservations))
	for _, res := range r.reservations {
		out = append(out, cloneReservation(res))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// SeatNumber is a pointer; copy it so callers never share it with the map.
func cloneReservation(r domain.Reservation) domain.Reservation {
	if r.SeatNumber != nil {
		seat := *r.SeatNumber
		r.SeatNumber = &seat
	}
	return r
}

var _ ReservationRepository = (*MemoryReservationRepository)(nil)
