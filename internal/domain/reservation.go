package domain

type ReservationStatus string

const (
	ReservationStatusReserved  ReservationStatus = "reserved"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

// Reservation.FlightID is not checked against the flight repository.
type Reservation struct {
	ID             int64             `json:"id"`
	PassengerEmail string            `json:"passenger_email"`
	FlightID       string            `json:"flight_id"`
	SeatNumber     *string           `json:"seat_number"`
	Status         ReservationStatus `json:"status"`
}
