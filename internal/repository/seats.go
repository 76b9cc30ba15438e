package repository

import (
	"context"
	"database/sql"
	"time"

	"stagedoor/internal/database"
	"stagedoor/internal/models"
)

type SeatRepository struct {
	db *database.DB
}

func NewSeatRepository(db *database.DB) *SeatRepository {
	return &SeatRepository{db: db}
}

// AvailabilityByShow computes the derived status of every seat in a show at
// the given instant. Statuses are never stored; they fall out of joining the
// seat against its live reservation (if any) and its ticket (if any).
func (r *SeatRepository) AvailabilityByShow(ctx context.Context, showID int64, viewerID *int64, now time.Time) ([]models.SeatAvailabilityItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT se.id, se.row_id, se.seat_number, se.label,
		        r.id, r.user_id,
		        t.id, b.user_id
		 FROM seats se
		 LEFT JOIN reservations r ON r.seat_id = se.id AND r.reserved_until >= $2
		 LEFT JOIN tickets t ON t.seat_id = se.id
		 LEFT JOIN bookings b ON b.id = t.booking_id
		 WHERE se.show_id = $1
		 ORDER BY se.row_id NULLS FIRST, se.seat_number, se.id`,
		showID, now,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.SeatAvailabilityItem
	for rows.Next() {
		var item models.SeatAvailabilityItem
		var reservationID, holderID, ticketID, bookingOwnerID sql.NullInt64

		err := rows.Scan(
			&item.SeatID,
			&item.RowID,
			&item.SeatNumber,
			&item.Label,
			&reservationID,
			&holderID,
			&ticketID,
			&bookingOwnerID,
		)
		if err != nil {
			return nil, err
		}

		item.Status = deriveStatus(reservationID, holderID, ticketID, bookingOwnerID, viewerID)
		items = append(items, item)
	}

	return items, rows.Err()
}

// deriveStatus ranks ticket over reservation: a ticketed seat is booked no
// matter what stale reservation row might still be around.
func deriveStatus(reservationID, holderID, ticketID, bookingOwnerID sql.NullInt64, viewerID *int64) string {
	if ticketID.Valid {
		if bookingOwnerID.Valid && viewerID != nil && bookingOwnerID.Int64 == *viewerID {
			return models.SeatStatusYourBooking
		}
		return models.SeatStatusBooked
	}

	if reservationID.Valid {
		// Anonymous holds are never reported as "yours": there is no identity
		// to match one anonymous viewer against another.
		if holderID.Valid && viewerID != nil && holderID.Int64 == *viewerID {
			return models.SeatStatusYourReservation
		}
		return models.SeatStatusReserved
	}

	return models.SeatStatusAvailable
}
