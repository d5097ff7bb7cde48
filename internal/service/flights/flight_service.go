package flights

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/google/uuid"
)

const (
	MessageConfirmed          = "Flight confirmed."
	MessageCancelled          = "Flight cancelled."
	MessageCannotCancelFlight = "Cannot cancel a confirmed flight."
)

type FlightUseCase interface {
	Create(ctx context.Context, flight domain.Flight) (*domain.Flight, error)
	Update(ctx context.Context, update domain.FlightUpdate) (*domain.Flight, error)
	Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error)
	List(ctx context.Context) ([]domain.Flight, error)
	Confirm(ctx context.Context, flightID string) (*TransitionResult, error)
	Cancel(ctx context.Context, flightID string) (*TransitionResult, error)
}

// TransitionResult describes a confirm or cancel call. Applied is false when
// the call succeeded without changing state, as when cancelling a confirmed
// flight.
type TransitionResult struct {
	Flight  domain.Flight
	Applied bool
	Message string
}

// FlightCache stores list snapshots tagged with the repository generation
// they were read at. GetFlights returns nil for a miss or for a snapshot of
// any other generation.
type FlightCache interface {
	GetFlights(ctx context.Context, generation uint64) ([]domain.Flight, error)
	SetFlights(ctx context.Context, generation uint64, flights []domain.Flight) error
	InvalidateFlights(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

type FlightService struct {
	repo                  repository.FlightRepository
	cache                 FlightCache
	producer              Producer
	flightsTopic          string
	guardConfirmCancelled bool
	logger                *slog.Logger
	now                   func() time.Time
}

type FlightServiceOption func(*FlightService)

func WithProducer(producer Producer, topic string) FlightServiceOption {
	return func(s *FlightService) {
		s.producer = producer
		s.flightsTopic = topic
	}
}

// WithGuardConfirmCancelled makes Confirm reject cancelled flights with
// domain.ErrInvalidTransition.
func WithGuardConfirmCancelled(guard bool) FlightServiceOption {
	return func(s *FlightService) {
		s.guardConfirmCancelled = guard
	}
}

func WithLogger(logger *slog.Logger) FlightServiceOption {
	return func(s *FlightService) {
		s.logger = logger
	}
}

// NewFlightService accepts a nil cache.
func NewFlightService(repo repository.FlightRepository, cache FlightCache, opts ...FlightServiceOption) *FlightService {
	s := &FlightService{
		repo:   repo,
		cache:  cache,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FlightService) Create(ctx context.Context, flight domain.Flight) (*domain.Flight, error) {
	flight.State = domain.FlightStateReserved
	if err := s.repo.Create(ctx, flight); err != nil {
		return nil, err
	}
	s.changed(ctx, kafka.EventFlightCreated, flight)
	return &flight, nil
}

func (s *FlightService) Update(ctx context.Context, update domain.FlightUpdate) (*domain.Flight, error) {
	updated, err := s.repo.Apply(ctx, update.FlightID, func(f *domain.Flight) error {
		update.ApplyTo(f)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.changed(ctx, kafka.EventFlightUpdated, *updated)
	return updated, nil
}

// Search returns domain.ErrNotFound when nothing matches.
func (s *FlightService) Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]domain.Flight, 0, len(all))
	for _, f := range all {
		if filter.Match(f) {
			matched = append(matched, f)
		}
	}
	if len(matched) == 0 {
		return nil, fmt.Errorf("no flight matches the search: %w", domain.ErrNotFound)
	}
	return matched, nil
}

// List serves a cached snapshot only when it matches the current repository
// generation. A snapshot is written back only if no write happened while
// the repository was being read.
func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	if s.cache == nil {
		return s.repo.List(ctx)
	}

	generation := s.repo.Generation()
	cached, err := s.cache.GetFlights(ctx, generation)
	if err != nil {
		s.logger.WarnContext(ctx, "flights cache read failed", slog.Any("error", err))
	} else if cached != nil {
		return cached, nil
	}

	flights, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.repo.Generation() != generation {
		return flights, nil
	}
	if err := s.cache.SetFlights(ctx, generation, flights); err != nil {
		s.logger.WarnContext(ctx, "flights cache write failed", slog.Any("error", err))
	}
	return flights, nil
}

func (s *FlightService) Confirm(ctx context.Context, flightID string) (*TransitionResult, error) {
	updated, err := s.repo.Apply(ctx, flightID, func(f *domain.Flight) error {
		if s.guardConfirmCancelled && f.State == domain.FlightStateCancelled {
			return fmt.Errorf("flight %s is cancelled: %w", flightID, domain.ErrInvalidTransition)
		}
		f.State = domain.FlightStateConfirmed
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.changed(ctx, kafka.EventFlightConfirmed, *updated)
	return &TransitionResult{Flight: *updated, Applied: true, Message: MessageConfirmed}, nil
}

// Cancel refuses confirmed flights without returning an error.
func (s *FlightService) Cancel(ctx context.Context, flightID string) (*TransitionResult, error) {
	refused := false
	updated, err := s.repo.Apply(ctx, flightID, func(f *domain.Flight) error {
		if f.State == domain.FlightStateConfirmed {
			refused = true
			return nil
		}
		f.State = domain.FlightStateCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}
	if refused {
		return &TransitionResult{Flight: *updated, Applied: false, Message: MessageCannotCancelFlight}, nil
	}
	s.changed(ctx, kafka.EventFlightCancelled, *updated)
	return &TransitionResult{Flight: *updated, Applied: true, Message: MessageCancelled}, nil
}

// changed drops the cached list and publishes an event. Both are best effort.
func (s *FlightService) changed(ctx context.Context, eventType string, flight domain.Flight) {
	if s.cache != nil {
		if err := s.cache.InvalidateFlights(ctx); err != nil {
			s.logger.WarnContext(ctx, "flights cache invalidation failed", slog.Any("error", err))
		}
	}
	if s.producer == nil || s.flightsTopic == "" {
		return
	}
	event := kafka.FlightEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		FlightID:   flight.FlightID,
		State:      string(flight.State),
		OccurredAt: s.now().UTC(),
	}
	if err := s.producer.Publish(ctx, s.flightsTopic, flight.FlightID, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish flight event",
			slog.String("type", eventType),
			slog.String("flight_id", flight.FlightID),
			slog.Any("error", err),
		)
	}
}

var _ FlightUseCase = (*FlightService)(nil)
