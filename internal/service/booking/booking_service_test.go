package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) Create(ctx context.Context, reservation domain.Reservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

func (m *MockReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) Update(ctx context.Context, reservation domain.Reservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

func (m *MockReservationRepository) UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) (*domain.Reservation, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) List(ctx context.Context) ([]domain.Reservation, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value any) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

func newReservation(id int64) domain.Reservation {
	return domain.Reservation{ID: id, PassengerEmail: "a@b.com", FlightID: "F1"}
}

func TestBookingManager_CreateReservation(t *testing.T) {
	ctx := context.Background()
	m := NewBookingManager(repository.NewReservationRepository())

	in := newReservation(1)
	in.Status = domain.ReservationStatusCancelled

	created, err := m.CreateReservation(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationStatusReserved, created.Status)

	_, err = m.CreateReservation(ctx, newReservation(1))
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestBookingManager_DanglingFlightIDIsAccepted(t *testing.T) {
	m := NewBookingManager(repository.NewReservationRepository())

	r := newReservation(42)
	r.FlightID = "does-not-exist"
	_, err := m.CreateReservation(context.Background(), r)
	assert.NoError(t, err)
}

func TestBookingManager_UpdateReservation(t *testing.T) {
	ctx := context.Background()
	m := NewBookingManager(repository.NewReservationRepository())

	_, err := m.UpdateReservation(ctx, newReservation(9))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = m.CreateReservation(ctx, newReservation(9))
	require.NoError(t, err)

	seat := "3C"
	updated, err := m.UpdateReservation(ctx, domain.Reservation{ID: 9, PassengerEmail: "x@y.com", FlightID: "F2", SeatNumber: &seat})
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationStatusReserved, updated.Status)

	list, err := m.ListReservations(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "x@y.com", list[0].PassengerEmail)
	assert.Equal(t, "F2", list[0].FlightID)
	assert.Equal(t, "3C", *list[0].SeatNumber)
}

func TestBookingManager_CancelReservation(t *testing.T) {
	ctx := context.Background()
	m := NewBookingManager(repository.NewReservationRepository())

	_, err := m.CancelReservation(ctx, 5)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = m.CreateReservation(ctx, newReservation(5))
	require.NoError(t, err)
	_, err = m.CreateReservation(ctx, newReservation(6))
	require.NoError(t, err)

	cancelled, err := m.CancelReservation(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationStatusCancelled, cancelled.Status)

	list, err := m.ListReservations(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, domain.ReservationStatusCancelled, list[0].Status)
	assert.Equal(t, domain.ReservationStatusReserved, list[1].Status)
}

func TestBookingManager_CancelUsesAtomicStatusUpdate(t *testing.T) {
	mockRepo := &MockReservationRepository{}
	m := NewBookingManager(mockRepo)
	ctx := context.Background()

	cancelled := newReservation(5)
	cancelled.Status = domain.ReservationStatusCancelled
	mockRepo.On("UpdateStatus", ctx, int64(5), domain.ReservationStatusCancelled).Return(&cancelled, nil).Once()

	got, err := m.CancelReservation(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, &cancelled, got)

	mockRepo.AssertExpectations(t)
	mockRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestBookingManager_ListRepositoryError(t *testing.T) {
	mockRepo := &MockReservationRepository{}
	m := NewBookingManager(mockRepo)
	ctx := context.Background()

	expectedErr := errors.New("storage error")
	mockRepo.On("List", ctx).Return([]domain.Reservation(nil), expectedErr).Once()

	_, err := m.ListReservations(ctx)
	assert.Equal(t, expectedErr, err)
}

func TestBookingManager_PublishesToBothTopics(t *testing.T) {
	mockProducer := &MockProducer{}
	m := NewBookingManager(
		repository.NewReservationRepository(),
		WithProducer(mockProducer, "reservations"),
		WithNotificationsTopic("notifications"),
	)
	ctx := context.Background()

	isCreated := mock.MatchedBy(func(e kafka.ReservationEvent) bool {
		return e.Type == kafka.EventReservationCreated && e.ReservationID == 42 &&
			e.PassengerEmail == "a@b.com" && e.Status == string(domain.ReservationStatusReserved)
	})
	mockProducer.On("Publish", ctx, "reservations", "42", isCreated).Return(nil).Once()
	mockProducer.On("Publish", ctx, "notifications", "42", isCreated).Return(errors.New("broker down")).Once()

	_, err := m.CreateReservation(ctx, newReservation(42))
	require.NoError(t, err)

	mockProducer.AssertExpectations(t)
}

func TestBookingManager_NoEventOnFailure(t *testing.T) {
	mockProducer := &MockProducer{}
	m := NewBookingManager(repository.NewReservationRepository(), WithProducer(mockProducer, "reservations"))

	_, err := m.CancelReservation(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	mockProducer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
