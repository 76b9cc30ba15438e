package repository

import (
	"stagedoor/internal/database"
)

type Repositories struct {
	Reservations *ReservationRepository
	Bookings     *BookingRepository
	Seats        *SeatRepository
	Shows        *ShowRepository
	Users        *UserRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Reservations: NewReservationRepository(db),
		Bookings:     NewBookingRepository(db),
		Seats:        NewSeatRepository(db),
		Shows:        NewShowRepository(db),
		Users:        NewUserRepository(db),
	}
}
