package service

import (
	"context"
	"fmt"
	"time"

	"stagedoor/internal/database"
	apperrors "stagedoor/internal/errors"
	"stagedoor/internal/logger"
	"stagedoor/internal/models"
	"stagedoor/internal/monitoring"
	"stagedoor/internal/policy"
)

// BookingStore is the persistence contract of the booking promoter.
type BookingStore interface {
	CreateWithTickets(ctx context.Context, contact models.ContactInfo, requesterID *int64, reservationIDs []int64, now time.Time) (*models.Booking, error)
	GetByID(ctx context.Context, id int64) (*models.Booking, error)
	GetByUserID(ctx context.Context, userID int64) ([]models.Booking, error)
	GetTickets(ctx context.Context, bookingID int64) ([]models.Ticket, error)
	ShowStarts(ctx context.Context, bookingID int64) ([]time.Time, error)
	DeleteWithTickets(ctx context.Context, id int64) error
}

// BookingService promotes reservations into bookings and gates cancellation.
type BookingService struct {
	store        BookingStore
	pub          Publisher
	cancelCutoff time.Duration
	now          func() time.Time
}

func NewBookingService(store BookingStore, pub Publisher, cancelCutoff time.Duration) *BookingService {
	return &BookingService{
		store:        store,
		pub:          pub,
		cancelCutoff: cancelCutoff,
		now:          time.Now,
	}
}

// Promote converts the named reservations into one booking with one ticket
// per seat. The whole conversion is a single storage transaction: if any
// reservation is missing, expired, or held by someone else, no tickets are
// created and the valid reservations are left untouched.
func (s *BookingService) Promote(ctx context.Context, req *models.CreateBookingRequest, requesterID *int64) (*models.Booking, error) {
	if len(req.ReservationIDs) == 0 {
		return nil, fmt.Errorf("no reservations supplied")
	}

	start := time.Now()

	booking, err := s.store.CreateWithTickets(ctx, req.ContactInfo, requesterID, req.ReservationIDs, s.now())
	if err != nil && database.IsRetryable(err) {
		booking, err = s.store.CreateWithTickets(ctx, req.ContactInfo, requesterID, req.ReservationIDs, s.now())
	}
	if err != nil {
		if database.IsRetryable(err) {
			err = apperrors.ErrSeatUnavailable
		}
		return nil, err
	}

	monitoring.BookingPromoted(len(booking.Tickets))
	monitoring.ObservePromotionDuration(time.Since(start).Seconds())

	// One confirmation event per ticket; delivery is somebody else's job.
	for _, ticket := range booking.Tickets {
		event := models.BookingConfirmedEvent{
			BookingID:  booking.ID,
			TicketID:   ticket.ID,
			TicketCode: ticket.Code,
			ShowID:     ticket.ShowID,
			Email:      booking.Email,
			Timestamp:  s.now(),
		}
		if err := s.pub.Publish(models.EventBookingConfirmed, event); err != nil {
			logger.WithContext(ctx).Error("Failed to publish booking confirmed event",
				"error", err,
				"booking_id", booking.ID,
				"ticket_id", ticket.ID,
				"event_type", models.EventBookingConfirmed)
		}
	}

	return booking, nil
}

// Get returns the booking with its tickets, owner only.
func (s *BookingService) Get(ctx context.Context, bookingID int64, requesterID *int64) (*models.Booking, error) {
	booking, err := s.store.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, apperrors.ErrNotFound
	}

	if d := policy.OwnsBooking(booking.UserID, requesterID); !d.Allowed {
		return nil, apperrors.ErrForbidden
	}

	tickets, err := s.store.GetTickets(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tickets: %w", err)
	}
	booking.Tickets = tickets

	return booking, nil
}

// List returns the caller's bookings, newest first, tickets included.
func (s *BookingService) List(ctx context.Context, userID int64) ([]models.BookingResponseItem, error) {
	bookings, err := s.store.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	result := make([]models.BookingResponseItem, len(bookings))
	for i, booking := range bookings {
		tickets, err := s.store.GetTickets(ctx, booking.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get tickets: %w", err)
		}
		result[i] = models.BookingResponseItem{
			ID:        booking.ID,
			CreatedAt: booking.CreatedAt,
			Tickets:   tickets,
		}
	}

	return result, nil
}

// Cancel rescinds a booking and its tickets. Denied for non-owners and for
// bookings with any show starting inside the cancellation cutoff.
func (s *BookingService) Cancel(ctx context.Context, bookingID int64, requesterID *int64) error {
	booking, err := s.store.GetByID(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return apperrors.ErrNotFound
	}

	if d := policy.OwnsBooking(booking.UserID, requesterID); !d.Allowed {
		return apperrors.ErrForbidden
	}

	starts, err := s.store.ShowStarts(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("failed to get show starts: %w", err)
	}

	if d := policy.CanCancelBooking(starts, s.now(), s.cancelCutoff); !d.Allowed {
		return apperrors.ErrCancellationWindowClosed
	}

	if err := s.store.DeleteWithTickets(ctx, bookingID); err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}

	logger.WithContext(ctx).Info("Booking cancelled", "booking_id", bookingID)
	return nil
}
