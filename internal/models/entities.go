package models

import (
	"time"
)

// User represents an account that can hold reservations and own bookings
type User struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    string    `json:"first_name" db:"first_name"`
	Surname      string    `json:"surname" db:"surname"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	RegisteredAt time.Time `json:"registered_at" db:"registered_at"`
}

// Location represents a venue hosting concerts
type Location struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Concert represents an artist's engagement at a location
type Concert struct {
	ID         int64  `json:"id" db:"id"`
	Artist     string `json:"artist" db:"artist"`
	LocationID int64  `json:"location_id" db:"location_id"`
}

// Show represents one dated performance of a concert. Its start instant
// drives both reservation availability and the cancellation cutoff.
type Show struct {
	ID        int64     `json:"id" db:"id"`
	ConcertID int64     `json:"concert_id" db:"concert_id"`
	StartsAt  time.Time `json:"starts_at" db:"starts_at"`
	EndsAt    time.Time `json:"ends_at" db:"ends_at"`
}

// Row groups seats within a show
type Row struct {
	ID     int64  `json:"id" db:"id"`
	ShowID int64  `json:"show_id" db:"show_id"`
	Name   string `json:"name" db:"name"`
	Order  int    `json:"order" db:"ord"`
}

// Seat is immutable once created. It references its show and row by id only;
// availability is always derived, never stored on the seat.
type Seat struct {
	ID         int64   `json:"id" db:"id"`
	ShowID     int64   `json:"show_id" db:"show_id"`
	RowID      *int64  `json:"row_id" db:"row_id"`
	SeatNumber *int    `json:"seat_number" db:"seat_number"`
	Label      *string `json:"label" db:"label"`
}

// Reservation is a temporary exclusive hold on one seat. It is never mutated
// in place: holds are not extended, only deleted and re-created. A hold is
// live while reserved_until has not passed.
type Reservation struct {
	ID            int64     `json:"id" db:"id"`
	ShowID        int64     `json:"show_id" db:"show_id"`
	SeatID        int64     `json:"seat_id" db:"seat_id"`
	UserID        *int64    `json:"user_id" db:"user_id"`
	Token         string    `json:"reservation_token" db:"reservation_token"`
	ReservedUntil time.Time `json:"reserved_until" db:"reserved_until"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// Live reports whether the reservation still holds its seat at the given instant.
func (r *Reservation) Live(now time.Time) bool {
	return !r.ReservedUntil.Before(now)
}

// Booking is a purchase record owning one ticket per seat
type Booking struct {
	ID        int64     `json:"id" db:"id"`
	UserID    *int64    `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Address   string    `json:"address" db:"address"`
	City      string    `json:"city" db:"city"`
	Zip       string    `json:"zip" db:"zip"`
	Country   string    `json:"country" db:"country"`
	Email     string    `json:"email" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Tickets   []Ticket  `json:"tickets,omitempty"` // Not from DB, filled separately
}

// Ticket permanently allocates one seat on one show to a booking.
// A seat is never released once ticketed.
type Ticket struct {
	ID        int64     `json:"id" db:"id"`
	BookingID int64     `json:"booking_id" db:"booking_id"`
	ShowID    int64     `json:"show_id" db:"show_id"`
	SeatID    int64     `json:"seat_id" db:"seat_id"`
	Code      string    `json:"code" db:"code"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Derived seat statuses. Recomputed from reservation/ticket rows on every
// read, never persisted.
const (
	SeatStatusAvailable       = "available"
	SeatStatusReserved        = "reserved"
	SeatStatusYourReservation = "your-reservation"
	SeatStatusBooked          = "booked"
	SeatStatusYourBooking     = "your-booking"
)
