package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"stagedoor/internal/database"
	apperrors "stagedoor/internal/errors"
	"stagedoor/internal/models"

	"github.com/lib/pq"
)

type ReservationRepository struct {
	db *database.DB
}

func NewReservationRepository(db *database.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// CreateBatch creates one reservation per seat inside a single serializable
// transaction. All precondition checks happen in the same transaction, so a
// failure of any seat aborts the whole batch:
//
//  1. every seat must belong to the show,
//  2. the holder must not already hold a ticket for the show,
//  3. expired holds on the requested seats are reclaimed (lazy expiry),
//  4. no seat may carry a ticket or a surviving (live) reservation.
//
// The UNIQUE(seat_id) constraint backs the check against concurrent writers:
// of two racing transactions exactly one commits, the other surfaces a
// retryable unique violation.
func (r *ReservationRepository) CreateBatch(ctx context.Context, showID int64, seatIDs []int64, holderID *int64, now, reservedUntil time.Time) ([]models.Reservation, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var seatCount int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM seats WHERE show_id = $1 AND id = ANY($2)`,
		showID, pq.Array(seatIDs),
	).Scan(&seatCount)
	if err != nil {
		return nil, err
	}
	if seatCount != len(seatIDs) {
		return nil, apperrors.ErrNotFound
	}

	if holderID != nil {
		var ticketCount int
		err = tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM tickets t
			 JOIN bookings b ON b.id = t.booking_id
			 WHERE t.show_id = $1 AND b.user_id = $2`,
			showID, *holderID,
		).Scan(&ticketCount)
		if err != nil {
			return nil, err
		}
		if ticketCount > 0 {
			return nil, apperrors.ErrDuplicateShowTicket
		}
	}

	// Lazy reclaim: an expired hold must not block a new one even before the
	// scheduler or sweep got to it.
	_, err = tx.ExecContext(ctx,
		`DELETE FROM reservations WHERE seat_id = ANY($1) AND reserved_until < $2`,
		pq.Array(seatIDs), now,
	)
	if err != nil {
		return nil, err
	}

	var takenCount int
	err = tx.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM tickets WHERE seat_id = ANY($1))
		      + (SELECT COUNT(*) FROM reservations WHERE seat_id = ANY($1))`,
		pq.Array(seatIDs),
	).Scan(&takenCount)
	if err != nil {
		return nil, err
	}
	if takenCount > 0 {
		return nil, apperrors.ErrSeatUnavailable
	}

	reservations := make([]models.Reservation, 0, len(seatIDs))
	for _, seatID := range seatIDs {
		token, err := randomToken(32)
		if err != nil {
			return nil, fmt.Errorf("failed to generate reservation token: %w", err)
		}

		res := models.Reservation{
			ShowID:        showID,
			SeatID:        seatID,
			UserID:        holderID,
			Token:         token,
			ReservedUntil: reservedUntil,
		}

		err = tx.QueryRowContext(ctx,
			`INSERT INTO reservations (show_id, seat_id, user_id, reservation_token, reserved_until)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id, created_at`,
			showID, seatID, holderID, token, reservedUntil,
		).Scan(&res.ID, &res.CreatedAt)
		if err != nil {
			return nil, err
		}

		reservations = append(reservations, res)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return reservations, nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*models.Reservation, error) {
	res := &models.Reservation{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, show_id, seat_id, user_id, reservation_token, reserved_until, created_at
		 FROM reservations
		 WHERE id = $1`,
		id,
	).Scan(&res.ID, &res.ShowID, &res.SeatID, &res.UserID, &res.Token, &res.ReservedUntil, &res.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return res, err
}

// DeleteGroup deletes every still-live reservation for the (show, holder)
// pair and returns the deleted rows. Multi-seat holds are released together.
func (r *ReservationRepository) DeleteGroup(ctx context.Context, showID int64, holderID *int64, now time.Time) ([]models.Reservation, error) {
	var rows *sql.Rows
	var err error

	if holderID == nil {
		return nil, fmt.Errorf("anonymous holds are released individually, not by group")
	}

	rows, err = r.db.QueryContext(ctx,
		`DELETE FROM reservations
		 WHERE show_id = $1 AND user_id = $2 AND reserved_until >= $3
		 RETURNING id, show_id, seat_id, user_id, reservation_token, reserved_until, created_at`,
		showID, *holderID, now,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReservations(rows)
}

// DeleteByID deletes a single reservation and reports whether a row existed.
func (r *ReservationRepository) DeleteByID(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// DeleteIfExpired deletes the reservation only if its deadline has passed.
// A reservation that was already promoted or released is simply gone, which
// is success, not an error. Used by the expiry scheduler's one-shot re-check.
func (r *ReservationRepository) DeleteIfExpired(ctx context.Context, id int64, now time.Time) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM reservations WHERE id = $1 AND reserved_until < $2`,
		id, now,
	)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// DeleteExpired removes every reservation past its deadline. This is the
// periodic sweep backstop covering timer loss across process restarts.
func (r *ReservationRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM reservations WHERE reserved_until < $1`,
		now,
	)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

// ActiveByShowAndHolder returns all live holds a holder has on a show, used
// to reconstruct a multi-seat hold after a redirect.
func (r *ReservationRepository) ActiveByShowAndHolder(ctx context.Context, showID, holderID int64, now time.Time) ([]models.Reservation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, show_id, seat_id, user_id, reservation_token, reserved_until, created_at
		 FROM reservations
		 WHERE show_id = $1 AND user_id = $2 AND reserved_until >= $3
		 ORDER BY id`,
		showID, holderID, now,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReservations(rows)
}

func scanReservations(rows *sql.Rows) ([]models.Reservation, error) {
	var reservations []models.Reservation
	for rows.Next() {
		var res models.Reservation
		err := rows.Scan(
			&res.ID,
			&res.ShowID,
			&res.SeatID,
			&res.UserID,
			&res.Token,
			&res.ReservedUntil,
			&res.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}

	return reservations, rows.Err()
}
