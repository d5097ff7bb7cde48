package kafka

import "time"

// Event types published on the reservations and flights topics.
const (
	EventReservationCreated   = "reservation_created"
	EventReservationUpdated   = "reservation_updated"
	EventReservationCancelled = "reservation_cancelled"
	EventFlightCreated        = "flight_created"
	EventFlightUpdated        = "flight_updated"
	EventFlightConfirmed      = "flight_confirmed"
	EventFlightCancelled      = "flight_cancelled"
)

type ReservationEvent struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	ReservationID  int64     `json:"reservation_id"`
	FlightID       string    `json:"flight_id"`
	PassengerEmail string    `json:"passenger_email"`
	SeatNumber     string    `json:"seat_number,omitempty"`
	Status         string    `json:"status"`
	OccurredAt     time.Time `json:"occurred_at"`
}

type FlightEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	FlightID   string    `json:"flight_id"`
	State      string    `json:"state"`
	OccurredAt time.Time `json:"occurred_at"`
}
