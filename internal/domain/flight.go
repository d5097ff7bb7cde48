package domain

import "time"

type FlightState string

const (
	FlightStateReserved  FlightState = "reserved"
	FlightStateConfirmed FlightState = "confirmed"
	FlightStateCancelled FlightState = "cancelled"
)

type Flight struct {
	FlightID       string      `json:"flight_id"`
	Destination    string      `json:"destination"`
	Departure      string      `json:"departure"`
	FlightType     string      `json:"flight_type"`
	Aircraft       string      `json:"aircraft"`
	Seats          int         `json:"seats"`
	FlightDatetime time.Time   `json:"flight_datetime"`
	State          FlightState `json:"state"`
}

// FlightUpdate is a partial update. A nil field leaves the stored value as is.
type FlightUpdate struct {
	FlightID       string
	Destination    *string
	Departure      *string
	FlightType     *string
	Aircraft       *string
	Seats          *int
	FlightDatetime *time.Time
}

// ApplyTo overwrites the fields of f that are set in u.
func (u FlightUpdate) ApplyTo(f *Flight) {
	if u.Destination != nil {
		f.Destination = *u.Destination
	}
	if u.Departure != nil {
		f.Departure = *u.Departure
	}
	if u.FlightType != nil {
		f.FlightType = *u.FlightType
	}
	if u.Aircraft != nil {
		f.Aircraft = *u.Aircraft
	}
	if u.Seats != nil {
		f.Seats = *u.Seats
	}
	if u.FlightDatetime != nil {
		f.FlightDatetime = *u.FlightDatetime
	}
}

// FlightFilter is an exact-match conjunction over the fields that are set.
type FlightFilter struct {
	FlightID       *string
	Destination    *string
	Departure      *string
	FlightType     *string
	Aircraft       *string
	Seats          *int
	FlightDatetime *time.Time
}

func (q FlightFilter) Match(f Flight) bool {
	switch {
	case q.FlightID != nil && f.FlightID != *q.FlightID:
		return false
	case q.Destination != nil && f.Destination != *q.Destination:
		return false
	case q.Departure != nil && f.Departure != *q.Departure:
		return false
	case q.FlightType != nil && f.FlightType != *q.FlightType:
		return false
	case q.Aircraft != nil && f.Aircraft != *q.Aircraft:
		return false
	case q.Seats != nil && f.Seats != *q.Seats:
		return false
	case q.FlightDatetime != nil && !f.FlightDatetime.Equal(*q.FlightDatetime):
		return false
	}
	return true
}
