package errors

import "errors"

// Domain errors surfaced by the reservation ledger, booking promoter and
// cancellation gate. All of them describe a rejected operation, never a
// process failure; handlers translate them to HTTP statuses.
var (
	ErrSeatUnavailable             = errors.New("one or more selected seats are already reserved or booked")
	ErrDuplicateShowTicket         = errors.New("user already has tickets for this show")
	ErrInvalidOrExpiredReservation = errors.New("one or more reservations are invalid or expired")
	ErrReservationNotFound         = errors.New("reservation not found")
	ErrForbidden                   = errors.New("operation is forbidden for user")
	ErrCancellationWindowClosed    = errors.New("cannot cancel bookings less than 24 hours before the show")
	ErrNotFound                    = errors.New("not found")
)
