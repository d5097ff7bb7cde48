package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFlightUseCase struct {
	mock.Mock
}

func (m *MockFlightUseCase) Create(ctx context.Context, flight domain.Flight) (*domain.Flight, error) {
	args := m.Called(ctx, flight)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) Update(ctx context.Context, update domain.FlightUpdate) (*domain.Flight, error) {
	args := m.Called(ctx, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) List(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) Confirm(ctx context.Context, flightID string) (*flights.TransitionResult, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*flights.TransitionResult), args.Error(1)
}

func (m *MockFlightUseCase) Cancel(ctx context.Context, flightID string) (*flights.TransitionResult, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*flights.TransitionResult), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFlightHandler_list(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService, discardLogger())

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/flights/get_all", nil)

	list := []domain.Flight{{FlightID: "F1", Destination: "LED", State: domain.FlightStateReserved}}
	mockService.On("List", c.Request.Context()).Return(list, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"flights":[{"flight_id":"F1","destination":"LED","departure":"","flight_type":"","aircraft":"","seats":0,"flight_datetime":"0001-01-01T00:00:00Z","state":"reserved"}]}`, w.Body.String())
	mockService.AssertExpectations(t)
}

func TestFlightHandler_listInternalError(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService, discardLogger())

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/flights/get_all", nil)

	mockService.On("List", c.Request.Context()).Return([]domain.Flight(nil), errors.New("storage down"))

	handler.list(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, w.Body.String())
}

func TestFlightHandler_cancelRefused(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService, discardLogger())

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "flight_id", Value: "F1"}}
	c.Request = httptest.NewRequest(http.MethodPost, "/flights/cancel/F1", nil)

	mockService.On("Cancel", c.Request.Context(), "F1").Return(&flights.TransitionResult{
		Flight:  domain.Flight{FlightID: "F1", State: domain.FlightStateConfirmed},
		Applied: false,
		Message: flights.MessageCannotCancelFlight,
	}, nil)

	handler.cancel(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Cannot cancel a confirmed flight.","state":"confirmed"}`, w.Body.String())
	mockService.AssertExpectations(t)
}

func TestFlightHandler_searchBadQuery(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService, discardLogger())
	gin.SetMode(gin.TestMode)

	for _, q := range []string{"seats=-1", "seats=abc", "flight_datetime=yesterday"} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/flights/search?"+q, nil)

		handler.search(c)

		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
	mockService.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestFlightHandler_searchEmptyParamsAreAbsent(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService, discardLogger())

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/flights/search?destination=&aircraft=A320&seats=180", nil)

	mockService.On("Search", c.Request.Context(), mock.MatchedBy(func(f domain.FlightFilter) bool {
		return f.Destination == nil && f.Aircraft != nil && *f.Aircraft == "A320" &&
			f.Seats != nil && *f.Seats == 180 && f.FlightID == nil
	})).Return([]domain.Flight{{FlightID: "F1"}}, nil)

	handler.search(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	for _, raw := range []string{
		"2024-05-01T10:00:00Z",
		"2024-05-01T13:00:00+03:00",
		"2024-05-01T10:00:00",
		"2024-05-01T10:00:00.000",
		"2024-05-01 10:00:00",
		"2024-05-01T10:00",
	} {
		got, err := parseTimestamp(raw)
		require.NoError(t, err, raw)
		assert.True(t, want.Equal(got), raw)
	}

	for _, raw := range []string{"", "yesterday", "2024-13-01T10:00:00", "01/05/2024"} {
		_, err := parseTimestamp(raw)
		assert.Error(t, err, raw)
	}
}
