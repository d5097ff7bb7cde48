package booking

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/google/uuid"
)

type BookingUseCase interface {
	CreateReservation(ctx context.Context, reservation domain.Reservation) (*domain.Reservation, error)
	UpdateReservation(ctx context.Context, reservation domain.Reservation) (*domain.Reservation, error)
	CancelReservation(ctx context.Context, id int64) (*domain.Reservation, error)
	ListReservations(ctx context.Context) ([]domain.Reservation, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

// BookingManager is a thin facade over the reservation repository. It adds
// no rules beyond forcing the initial status and publishing events.
type BookingManager struct {
	reservations       repository.ReservationRepository
	producer           Producer
	reservationsTopic  string
	notificationsTopic string
	logger             *slog.Logger
	now                func() time.Time
}

type BookingManagerOption func(*BookingManager)

func WithProducer(producer Producer, topic string) BookingManagerOption {
	return func(m *BookingManager) {
		m.producer = producer
		m.reservationsTopic = topic
	}
}

func WithNotificationsTopic(topic string) BookingManagerOption {
	return func(m *BookingManager) {
		m.notificationsTopic = topic
	}
}

func WithLogger(logger *slog.Logger) BookingManagerOption {
	return func(m *BookingManager) {
		m.logger = logger
	}
}

func NewBookingManager(reservations repository.ReservationRepository, opts ...BookingManagerOption) *BookingManager {
	m := &BookingManager{
		reservations: reservations,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *BookingManager) CreateReservation(ctx context.Context, reservation domain.Reservation) (*domain.Reservation, error) {
	reservation.Status = domain.ReservationStatusReserved
	if err := m.reservations.Create(ctx, reservation); err != nil {
		return nil, err
	}
	m.publish(ctx, kafka.EventReservationCreated, &reservation)
	return &reservation, nil
}

// UpdateReservation replaces the stored reservation. An empty status keeps
// the reservation reserved.
func (m *BookingManager) UpdateReservation(ctx context.Context, reservation domain.Reservation) (*domain.Reservation, error) {
	if reservation.Status == "" {
		reservation.Status = domain.ReservationStatusReserved
	}
	if err := m.reservations.Update(ctx, reservation); err != nil {
		return nil, err
	}
	m.publish(ctx, kafka.EventReservationUpdated, &reservation)
	return &reservation, nil
}

func (m *BookingManager) CancelReservation(ctx context.Context, id int64) (*domain.Reservation, error) {
	cancelled, err := m.reservations.UpdateStatus(ctx, id, domain.ReservationStatusCancelled)
	if err != nil {
		return nil, err
	}
	m.publish(ctx, kafka.EventReservationCancelled, cancelled)
	return cancelled, nil
}

func (m *BookingManager) ListReservations(ctx context.Context) ([]domain.Reservation, error) {
	return m.reservations.List(ctx)
}

// publish is best effort: failures are logged and never returned.
func (m *BookingManager) publish(ctx context.Context, eventType string, r *domain.Reservation) {
	if m.producer == nil || m.reservationsTopic == "" {
		return
	}
	event := kafka.ReservationEvent{
		ID:             uuid.NewString(),
		Type:           eventType,
		ReservationID:  r.ID,
		FlightID:       r.FlightID,
		PassengerEmail: r.PassengerEmail,
		Status:         string(r.Status),
		OccurredAt:     m.now().UTC(),
	}
	if r.SeatNumber != nil {
		event.SeatNumber = *r.SeatNumber
	}

	key := strconv.FormatInt(r.ID, 10)
	topics := []string{m.reservationsTopic}
	if m.notificationsTopic != "" {
		topics = append(topics, m.notificationsTopic)
	}
	for _, topic := range topics {
		if err := m.producer.Publish(ctx, topic, key, event); err != nil {
			m.logger.WarnContext(ctx, "failed to publish reservation event",
				slog.String("type", eventType),
				slog.String("topic", topic),
				slog.Int64("reservation_id", r.ID),
				slog.Any("error", err),
			)
		}
	}
}

var _ BookingUseCase = (*BookingManager)(nil)
