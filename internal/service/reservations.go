package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stagedoor/internal/database"
	apperrors "stagedoor/internal/errors"
	"stagedoor/internal/logger"
	"stagedoor/internal/models"
	"stagedoor/internal/monitoring"
	"stagedoor/internal/policy"
)

// ReservationStore is the persistence contract of the reservation ledger.
// All mutations of reservation rows go through it; no other code path may
// touch the table.
type ReservationStore interface {
	CreateBatch(ctx context.Context, showID int64, seatIDs []int64, holderID *int64, now, reservedUntil time.Time) ([]models.Reservation, error)
	GetByID(ctx context.Context, id int64) (*models.Reservation, error)
	DeleteGroup(ctx context.Context, showID int64, holderID *int64, now time.Time) ([]models.Reservation, error)
	DeleteByID(ctx context.Context, id int64) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	ActiveByShowAndHolder(ctx context.Context, showID, holderID int64, now time.Time) ([]models.Reservation, error)
}

// ReservationService is the reservation ledger: it grants time-limited holds
// on seats, releases them, and sweeps out expired rows.
type ReservationService struct {
	store        ReservationStore
	pub          Publisher
	holdDuration time.Duration
	now          func() time.Time
}

func NewReservationService(store ReservationStore, pub Publisher, holdDuration time.Duration) *ReservationService {
	return &ReservationService{
		store:        store,
		pub:          pub,
		holdDuration: holdDuration,
		now:          time.Now,
	}
}

// CreateHold places a hold on every requested seat or on none of them.
// A transient storage conflict (lost race on the seat uniqueness constraint,
// serialization failure) is retried once; if the conflict persists the seats
// really are contended and the caller gets ErrSeatUnavailable.
func (s *ReservationService) CreateHold(ctx context.Context, showID int64, seatIDs []int64, holderID *int64) ([]models.Reservation, time.Time, error) {
	if len(seatIDs) == 0 {
		return nil, time.Time{}, fmt.Errorf("no seats requested")
	}

	now := s.now()
	reservedUntil := now.Add(s.holdDuration)

	reservations, err := s.store.CreateBatch(ctx, showID, seatIDs, holderID, now, reservedUntil)
	if err != nil && database.IsRetryable(err) {
		reservations, err = s.store.CreateBatch(ctx, showID, seatIDs, holderID, now, reservedUntil)
	}
	if err != nil {
		if database.IsRetryable(err) {
			err = apperrors.ErrSeatUnavailable
		}
		switch {
		case errors.Is(err, apperrors.ErrSeatUnavailable):
			monitoring.HoldRejected("seat_unavailable")
		case errors.Is(err, apperrors.ErrDuplicateShowTicket):
			monitoring.HoldRejected("duplicate_show_ticket")
		}
		return nil, time.Time{}, err
	}

	monitoring.HoldsCreated(len(reservations))

	// Arm the expiry scheduler. Publish failures are logged, not fatal:
	// the periodic sweep reclaims anything the scheduler never hears about.
	for _, res := range reservations {
		event := models.ReservationCreatedEvent{
			ReservationID: res.ID,
			ShowID:        res.ShowID,
			SeatID:        res.SeatID,
			ReservedUntil: res.ReservedUntil,
			Timestamp:     now,
		}
		if err := s.pub.Publish(models.EventReservationCreated, event); err != nil {
			logger.WithContext(ctx).Error("Failed to publish reservation created event",
				"error", err,
				"reservation_id", res.ID,
				"event_type", models.EventReservationCreated)
		}
	}

	return reservations, reservedUntil, nil
}

// ReleaseHold gives up a hold before its deadline. Only the holder may
// release; releasing a reservation that is already gone is a no-op success.
// Releasing one reservation of a multi-seat hold releases all live siblings
// for the same (show, holder) pair.
func (s *ReservationService) ReleaseHold(ctx context.Context, reservationID int64, requesterID *int64) error {
	res, err := s.store.GetByID(ctx, reservationID)
	if err != nil {
		return fmt.Errorf("failed to get reservation: %w", err)
	}
	if res == nil {
		// Already expired, promoted or released. Idempotent success.
		return nil
	}

	if d := policy.OwnsReservation(res.UserID, requesterID); !d.Allowed {
		return apperrors.ErrForbidden
	}

	now := s.now()

	if res.UserID == nil || !res.Live(now) {
		// Anonymous holds have no group to cancel, and an expired row is
		// just cleanup either way.
		if _, err := s.store.DeleteByID(ctx, res.ID); err != nil {
			return fmt.Errorf("failed to delete reservation: %w", err)
		}
		s.publishReleased(ctx, []models.Reservation{*res}, "released by holder")
		return nil
	}

	released, err := s.store.DeleteGroup(ctx, res.ShowID, res.UserID, now)
	if err != nil {
		return fmt.Errorf("failed to release reservations: %w", err)
	}

	s.publishReleased(ctx, released, "released by holder")
	return nil
}

// LookupActive returns all live holds for a holder on a show.
func (s *ReservationService) LookupActive(ctx context.Context, showID, holderID int64) ([]models.Reservation, error) {
	reservations, err := s.store.ActiveByShowAndHolder(ctx, showID, holderID, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to look up reservations: %w", err)
	}
	return reservations, nil
}

// SweepExpired deletes every reservation past its deadline. It backstops the
// per-reservation scheduler and is safe to run at any frequency.
func (s *ReservationService) SweepExpired(ctx context.Context) (int64, error) {
	count, err := s.store.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired reservations: %w", err)
	}

	if count > 0 {
		monitoring.ReservationsExpired("sweep", count)
		logger.WithContext(ctx).Info("Swept expired reservations", "count", count)
	}

	return count, nil
}

func (s *ReservationService) publishReleased(ctx context.Context, released []models.Reservation, reason string) {
	now := s.now()
	for _, res := range released {
		event := models.ReservationReleasedEvent{
			ReservationID: res.ID,
			ShowID:        res.ShowID,
			SeatID:        res.SeatID,
			Reason:        reason,
			Timestamp:     now,
		}
		if err := s.pub.Publish(models.EventReservationReleased, event); err != nil {
			logger.WithContext(ctx).Error("Failed to publish reservation released event",
				"error", err,
				"reservation_id", res.ID,
				"event_type", models.EventReservationReleased)
		}
	}
}
