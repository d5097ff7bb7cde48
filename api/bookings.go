package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

// BookingHandler serves the reservation endpoints. They carry no auth gate.
type BookingHandler struct {
	service booking.BookingUseCase
	logger  *slog.Logger
}

type createReservationRequest struct {
	ID             *int64  `json:"id" binding:"required"`
	PassengerEmail string  `json:"passenger_email" binding:"required,email"`
	FlightID       string  `json:"flight_id" binding:"required"`
	SeatNumber     *string `json:"seat_number"`
}

type updateReservationRequest struct {
	PassengerEmail string                   `json:"passenger_email" binding:"required,email"`
	FlightID       string                   `json:"flight_id" binding:"required"`
	SeatNumber     *string                  `json:"seat_number"`
	Status         domain.ReservationStatus `json:"status" binding:"omitempty,oneof=reserved cancelled"`
}

func NewBookingHandler(service booking.BookingUseCase, logger *slog.Logger) *BookingHandler {
	return &BookingHandler{service: service, logger: logger}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/reservations", h.create)
	router.GET("/reservations", h.list)
	router.PUT("/reservations/:id", h.update)
	router.POST("/reservations/:id/cancel", h.cancel)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	created, err := h.service.CreateReservation(c.Request.Context(), domain.Reservation{
		ID:             *req.ID,
		PassengerEmail: req.PassengerEmail,
		FlightID:       req.FlightID,
		SeatNumber:     req.SeatNumber,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, created)
}

func (h *BookingHandler) update(c *gin.Context) {
	id, ok := reservationID(c)
	if !ok {
		return
	}
	var req updateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	updated, err := h.service.UpdateReservation(c.Request.Context(), domain.Reservation{
		ID:             id,
		PassengerEmail: req.PassengerEmail,
		FlightID:       req.FlightID,
		SeatNumber:     req.SeatNumber,
		Status:         req.Status,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *BookingHandler) cancel(c *gin.Context) {
	id, ok := reservationID(c)
	if !ok {
		return
	}
	if _, err := h.service.CancelReservation(c.Request.Context(), id); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reservation cancelled."})
}

func (h *BookingHandler) list(c *gin.Context) {
	all, err := h.service.ListReservations(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, all)
}

func reservationID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
