package service

import (
	"time"

	"stagedoor/internal/messaging"
	"stagedoor/internal/repository"
)

// Publisher is the slice of the messaging client the services need.
// messaging.NATSClient satisfies it; tests substitute a recorder.
type Publisher interface {
	Publish(subject string, data interface{}) error
}

type Services struct {
	Reservations *ReservationService
	Bookings     *BookingService
	Seats        *SeatService
	Shows        *ShowService
}

func NewServices(repos *repository.Repositories, natsClient *messaging.NATSClient, holdDuration, cancelCutoff time.Duration) *Services {
	return &Services{
		Reservations: NewReservationService(repos.Reservations, natsClient, holdDuration),
		Bookings:     NewBookingService(repos.Bookings, natsClient, cancelCutoff),
		Seats:        NewSeatService(repos.Seats, repos.Shows),
		Shows:        NewShowService(repos.Shows),
	}
}
