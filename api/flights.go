package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
	logger  *slog.Logger
}

type createFlightRequest struct {
	FlightID       string     `json:"flight_id" binding:"required"`
	Destination    string     `json:"destination" binding:"required"`
	Departure      string     `json:"departure" binding:"required"`
	FlightType     string     `json:"flight_type" binding:"required"`
	Aircraft       string     `json:"aircraft" binding:"required"`
	Seats          *int       `json:"seats" binding:"required,gte=0"`
	FlightDatetime *timestamp `json:"flight_datetime" binding:"required"`
	// State is accepted for compatibility and ignored; new flights are reserved.
	State *string `json:"state"`
}

// updateFlightRequest fields left out or sent as null are not touched.
type updateFlightRequest struct {
	FlightID       string     `json:"flight_id" binding:"required"`
	Destination    *string    `json:"destination"`
	Departure      *string    `json:"departure"`
	FlightType     *string    `json:"flight_type"`
	Aircraft       *string    `json:"aircraft"`
	Seats          *int       `json:"seats" binding:"omitempty,gte=0"`
	FlightDatetime *timestamp `json:"flight_datetime"`
}

// timestampLayouts are tried in order. Layouts without an offset are read
// as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
}

func parseTimestamp(raw string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q is not an ISO 8601 timestamp", raw)
}

// timestamp accepts RFC 3339 and offset-less ISO 8601 date-times.
type timestamp time.Time

func (t *timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("flight_datetime must be a string: %w", err)
	}
	parsed, err := parseTimestamp(raw)
	if err != nil {
		return err
	}
	*t = timestamp(parsed)
	return nil
}

func (t *timestamp) value() *time.Time {
	if t == nil {
		return nil
	}
	v := time.Time(*t)
	return &v
}

type flightListResponse struct {
	Flights []domain.Flight `json:"flights"`
}

type transitionResponse struct {
	Message string             `json:"message"`
	State   domain.FlightState `json:"state"`
}

func NewFlightHandler(service flights.FlightUseCase, logger *slog.Logger) *FlightHandler {
	return &FlightHandler{service: service, logger: logger}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.POST("/create", h.create)
	router.GET("/search", h.search)
	router.PUT("/update", h.update)
	router.GET("/get_all", h.list)
	router.POST("/confirm/:flight_id", h.confirm)
	router.POST("/cancel/:flight_id", h.cancel)
}

func (h *FlightHandler) create(c *gin.Context) {
	var req createFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), domain.Flight{
		FlightID:       req.FlightID,
		Destination:    req.Destination,
		Departure:      req.Departure,
		FlightType:     req.FlightType,
		Aircraft:       req.Aircraft,
		Seats:          *req.Seats,
		FlightDatetime: *req.FlightDatetime.value(),
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Flight %s created successfully.", created.FlightID)})
}

func (h *FlightHandler) search(c *gin.Context) {
	filter, err := parseFlightFilter(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	found, err := h.service.Search(c.Request.Context(), filter)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

func (h *FlightHandler) update(c *gin.Context) {
	var req updateFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	updated, err := h.service.Update(c.Request.Context(), domain.FlightUpdate{
		FlightID:       req.FlightID,
		Destination:    req.Destination,
		Departure:      req.Departure,
		FlightType:     req.FlightType,
		Aircraft:       req.Aircraft,
		Seats:          req.Seats,
		FlightDatetime: req.FlightDatetime.value(),
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Flight %s updated successfully.", updated.FlightID)})
}

func (h *FlightHandler) list(c *gin.Context) {
	all, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, flightListResponse{Flights: all})
}

func (h *FlightHandler) confirm(c *gin.Context) {
	res, err := h.service.Confirm(c.Request.Context(), c.Param("flight_id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, transitionResponse{Message: res.Message, State: res.Flight.State})
}

// cancel answers 200 even when a confirmed flight refuses cancellation; the
// message tells the two outcomes apart.
func (h *FlightHandler) cancel(c *gin.Context) {
	res, err := h.service.Cancel(c.Request.Context(), c.Param("flight_id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, transitionResponse{Message: res.Message, State: res.Flight.State})
}

// parseFlightFilter reads the optional search parameters. Empty values are
// treated as absent.
func parseFlightFilter(c *gin.Context) (domain.FlightFilter, error) {
	var f domain.FlightFilter
	f.FlightID = optionalQuery(c, "flight_id")
	f.Destination = optionalQuery(c, "destination")
	f.Departure = optionalQuery(c, "departure")
	f.FlightType = optionalQuery(c, "flight_type")
	f.Aircraft = optionalQuery(c, "aircraft")

	if raw := optionalQuery(c, "seats"); raw != nil {
		seats, err := strconv.Atoi(*raw)
		if err != nil || seats < 0 {
			return f, fmt.Errorf("seats must be a non-negative integer")
		}
		f.Seats = &seats
	}
	if raw := optionalQuery(c, "flight_datetime"); raw != nil {
		when, err := parseTimestamp(*raw)
		if err != nil {
			return f, fmt.Errorf("flight_datetime: %w", err)
		}
		f.FlightDatetime = &when
	}
	return f, nil
}

func optionalQuery(c *gin.Context, key string) *string {
	v := c.Query(key)
	if v == "" {
		return nil
	}
	return &v
}
