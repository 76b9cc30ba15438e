package models

import "time"

// CreateHoldRequest - request to place a temporary hold on a set of seats
type CreateHoldRequest struct {
	ShowID  int64   `json:"show_id" binding:"required"`
	SeatIDs []int64 `json:"seat_ids" binding:"required,min=1"`
}

// CreateHoldResponse - created reservation ids and their shared deadline
type CreateHoldResponse struct {
	ReservationIDs []int64   `json:"reservation_ids"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// ReservationResponseItem - one active hold, as returned to its holder
type ReservationResponseItem struct {
	ID            int64     `json:"id"`
	ShowID        int64     `json:"show_id"`
	SeatID        int64     `json:"seat_id"`
	Token         string    `json:"reservation_token"`
	ReservedUntil time.Time `json:"reserved_until"`
}

// SeatAvailabilityItem - derived status of one seat for the requesting viewer
type SeatAvailabilityItem struct {
	SeatID     int64   `json:"seat_id"`
	RowID      *int64  `json:"row_id"`
	SeatNumber *int    `json:"seat_number"`
	Label      *string `json:"label"`
	Status     string  `json:"status"`
}

// ContactInfo - purchaser details recorded on the booking
type ContactInfo struct {
	Name    string `json:"name" binding:"required,max=100"`
	Address string `json:"address" binding:"required,max=100"`
	City    string `json:"city" binding:"required,max=100"`
	Zip     string `json:"zip" binding:"required,max=20"`
	Country string `json:"country" binding:"required,max=100"`
	Email   string `json:"email" binding:"required,email,max=255"`
}

// CreateBookingRequest - request to promote reservations into a booking
type CreateBookingRequest struct {
	ReservationIDs []int64 `json:"reservation_ids" binding:"required,min=1"`
	ContactInfo
}

// CreateBookingResponse - the booking id and one ticket code per seat
type CreateBookingResponse struct {
	BookingID   int64    `json:"booking_id"`
	TicketCodes []string `json:"ticket_codes"`
}

// BookingResponseItem - element of the caller's booking list
type BookingResponseItem struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Tickets   []Ticket  `json:"tickets,omitempty"`
}

// CreateShowRequest - provision a concert show with a rows x seats grid
type CreateShowRequest struct {
	Artist      string    `json:"artist" binding:"required,max=100"`
	Location    string    `json:"location" binding:"required,max=100"`
	StartsAt    time.Time `json:"starts_at" binding:"required"`
	EndsAt      time.Time `json:"ends_at" binding:"required"`
	Rows        int       `json:"rows" binding:"required,min=1"`
	SeatsPerRow int       `json:"seats_per_row" binding:"required,min=1"`
}

// CreateShowResponse - created show id and seat count
type CreateShowResponse struct {
	ShowID     int64 `json:"show_id"`
	TotalSeats int   `json:"total_seats"`
}

// SweepResponse - result of one expired-reservation sweep
type SweepResponse struct {
	Deleted int64 `json:"deleted"`
}
