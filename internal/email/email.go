package email

import (
	"context"
	"log/slog"

	"github.com/Domenick1991/flightbooking/internal/kafka"
)

// Sender delivers reservation notifications. Delivery is a structured log
// line; there is no SMTP transport.
type Sender struct {
	logger *slog.Logger
}

func NewSender(logger *slog.Logger) *Sender {
	return &Sender{logger: logger}
}

func (s *Sender) Send(ctx context.Context, event kafka.ReservationEvent) error {
	if event.PassengerEmail == "" {
		s.logger.WarnContext(ctx, "skip notification without recipient", slog.Int64("reservation_id", event.ReservationID))
		return nil
	}
	s.logger.InfoContext(ctx, "send email",
		slog.String("to", event.PassengerEmail),
		slog.String("type", event.Type),
		slog.Int64("reservation_id", event.ReservationID),
		slog.String("flight_id", event.FlightID),
		slog.String("seat_number", event.SeatNumber),
	)
	return nil
}
