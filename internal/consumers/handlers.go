package consumers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"stagedoor/internal/models"
	"stagedoor/internal/monitoring"

	"github.com/nats-io/stan.go"
)

// ReservationExpirer is the slice of the reservation repository the expiry
// scheduler needs. DeleteIfExpired re-checks the deadline inside the delete,
// so firing it against a released or promoted reservation is harmless.
type ReservationExpirer interface {
	DeleteIfExpired(ctx context.Context, id int64, now time.Time) (bool, error)
}

type Handlers struct {
	reservations ReservationExpirer
}

func NewHandlers(reservations ReservationExpirer) *Handlers {
	return &Handlers{reservations: reservations}
}

// HandleReservationCreated arms a one-shot expiry timer for the reservation.
// The message is acked only after the timer fires, so a consumer crash mid
// wait leads to redelivery rather than a lost deadline.
func (h *Handlers) HandleReservationCreated(m *stan.Msg) {
	var event models.ReservationCreatedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal reservation created event", "error", err)
		m.Ack()
		return
	}

	h.scheduleExpiry(event, func() {
		if err := m.Ack(); err != nil {
			slog.Error("Failed to ack reservation created event",
				"error", err, "reservation_id", event.ReservationID)
		}
	})
}

func (h *Handlers) scheduleExpiry(event models.ReservationCreatedEvent, ack func()) {
	delay := time.Until(event.ReservedUntil)
	if delay <= 0 {
		// Deadline already passed, e.g. a redelivery after a restart.
		h.expire(event)
		ack()
		return
	}

	slog.Debug("Scheduled reservation expiry",
		"reservation_id", event.ReservationID, "fires_in", delay.String())

	time.AfterFunc(delay, func() {
		h.expire(event)
		ack()
	})
}

func (h *Handlers) expire(event models.ReservationCreatedEvent) {
	deleted, err := h.reservations.DeleteIfExpired(context.Background(), event.ReservationID, time.Now())
	if err != nil {
		// The sweep job reclaims anything left behind.
		slog.Error("Failed to expire reservation",
			"error", err, "reservation_id", event.ReservationID)
		return
	}

	if deleted {
		monitoring.ReservationsExpired("scheduler", 1)
		slog.Info("Expired reservation",
			"reservation_id", event.ReservationID,
			"show_id", event.ShowID,
			"seat_id", event.SeatID)
	} else {
		slog.Debug("Reservation already gone at expiry",
			"reservation_id", event.ReservationID)
	}
}

// HandleReservationReleased is informational only; the seat is already free.
func (h *Handlers) HandleReservationReleased(m *stan.Msg) {
	var event models.ReservationReleasedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal reservation released event", "error", err)
		m.Ack()
		return
	}

	slog.Info("Reservation released",
		"reservation_id", event.ReservationID,
		"show_id", event.ShowID,
		"seat_id", event.SeatID,
		"reason", event.Reason)

	m.Ack()
}

// HandleBookingConfirmed logs the confirmation. Ticket delivery (email and
// the like) would hang off this event.
func (h *Handlers) HandleBookingConfirmed(m *stan.Msg) {
	var event models.BookingConfirmedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal booking confirmed event", "error", err)
		m.Ack()
		return
	}

	slog.Info("Booking confirmed",
		"booking_id", event.BookingID,
		"ticket_code", event.TicketCode,
		"show_id", event.ShowID,
		"email", event.Email)

	m.Ack()
}
