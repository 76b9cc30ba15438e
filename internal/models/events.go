package models

import "time"

// NATS Event Types
const (
	EventReservationCreated  = "reservation.created"
	EventReservationReleased = "reservation.released"
	EventBookingConfirmed    = "booking.confirmed"
)

// ReservationCreatedEvent arms the expiry scheduler: the consumer re-checks
// the reservation at ReservedUntil and deletes it if it is still there.
type ReservationCreatedEvent struct {
	ReservationID int64     `json:"reservation_id"`
	ShowID        int64     `json:"show_id"`
	SeatID        int64     `json:"seat_id"`
	ReservedUntil time.Time `json:"reserved_until"`
	Timestamp     time.Time `json:"timestamp"`
}

// ReservationReleasedEvent is informational: a hold was given up before its
// deadline, either by the holder or by group cancellation.
type ReservationReleasedEvent struct {
	ReservationID int64     `json:"reservation_id"`
	ShowID        int64     `json:"show_id"`
	SeatID        int64     `json:"seat_id"`
	Reason        string    `json:"reason"`
	Timestamp     time.Time `json:"timestamp"`
}

// BookingConfirmedEvent is emitted once per ticket after a successful
// promotion. Delivery (email, etc.) is an external consumer's concern.
type BookingConfirmedEvent struct {
	BookingID  int64     `json:"booking_id"`
	TicketID   int64     `json:"ticket_id"`
	TicketCode string    `json:"ticket_code"`
	ShowID     int64     `json:"show_id"`
	Email      string    `json:"email"`
	Timestamp  time.Time `json:"timestamp"`
}
