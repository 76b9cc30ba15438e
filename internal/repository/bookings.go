package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"stagedoor/internal/database"
	apperrors "stagedoor/internal/errors"
	"stagedoor/internal/models"
	"stagedoor/internal/policy"

	"github.com/lib/pq"
)

type BookingRepository struct {
	db *database.DB
}

func NewBookingRepository(db *database.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// CreateWithTickets promotes a set of reservations into a booking with one
// ticket per seat, atomically. The reservations are locked, validated against
// the requester and the clock, and deleted in the same transaction that
// inserts the tickets, so a seat moves hold -> ticket without ever appearing
// available in between. Any validation failure aborts the whole promotion.
func (r *BookingRepository) CreateWithTickets(ctx context.Context, contact models.ContactInfo, requesterID *int64, reservationIDs []int64, now time.Time) (*models.Booking, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		`SELECT id, show_id, seat_id, user_id, reservation_token, reserved_until, created_at
		 FROM reservations
		 WHERE id = ANY($1)
		 FOR UPDATE`,
		pq.Array(reservationIDs),
	)
	if err != nil {
		return nil, err
	}
	reservations, err := scanReservations(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}

	if len(reservations) != len(reservationIDs) {
		return nil, apperrors.ErrReservationNotFound
	}

	for i := range reservations {
		res := &reservations[i]
		if !policy.SameHolder(res.UserID, requesterID) || !res.Live(now) {
			return nil, apperrors.ErrInvalidOrExpiredReservation
		}
	}

	booking := &models.Booking{
		UserID:  requesterID,
		Name:    contact.Name,
		Address: contact.Address,
		City:    contact.City,
		Zip:     contact.Zip,
		Country: contact.Country,
		Email:   contact.Email,
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO bookings (user_id, name, address, city, zip, country, email)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		requesterID, contact.Name, contact.Address, contact.City, contact.Zip, contact.Country, contact.Email,
	).Scan(&booking.ID, &booking.CreatedAt)
	if err != nil {
		return nil, err
	}

	booking.Tickets = make([]models.Ticket, 0, len(reservations))
	for _, res := range reservations {
		code, err := ticketCode(8)
		if err != nil {
			return nil, err
		}

		ticket := models.Ticket{
			BookingID: booking.ID,
			ShowID:    res.ShowID,
			SeatID:    res.SeatID,
			Code:      code,
			Name:      contact.Name,
		}

		err = tx.QueryRowContext(ctx,
			`INSERT INTO tickets (booking_id, show_id, seat_id, code, name)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id, created_at`,
			booking.ID, res.ShowID, res.SeatID, code, contact.Name,
		).Scan(&ticket.ID, &ticket.CreatedAt)
		if err != nil {
			return nil, err
		}

		booking.Tickets = append(booking.Tickets, ticket)
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM reservations WHERE id = ANY($1)`,
		pq.Array(reservationIDs),
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return booking, nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*models.Booking, error) {
	booking := &models.Booking{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, address, city, zip, country, email, created_at
		 FROM bookings
		 WHERE id = $1`,
		id,
	).Scan(
		&booking.ID,
		&booking.UserID,
		&booking.Name,
		&booking.Address,
		&booking.City,
		&booking.Zip,
		&booking.Country,
		&booking.Email,
		&booking.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return booking, err
}

func (r *BookingRepository) GetByUserID(ctx context.Context, userID int64) ([]models.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, address, city, zip, country, email, created_at
		 FROM bookings
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var booking models.Booking
		err := rows.Scan(
			&booking.ID,
			&booking.UserID,
			&booking.Name,
			&booking.Address,
			&booking.City,
			&booking.Zip,
			&booking.Country,
			&booking.Email,
			&booking.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

func (r *BookingRepository) GetTickets(ctx context.Context, bookingID int64) ([]models.Ticket, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, booking_id, show_id, seat_id, code, name, created_at
		 FROM tickets
		 WHERE booking_id = $1
		 ORDER BY id`,
		bookingID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []models.Ticket
	for rows.Next() {
		var ticket models.Ticket
		err := rows.Scan(
			&ticket.ID,
			&ticket.BookingID,
			&ticket.ShowID,
			&ticket.SeatID,
			&ticket.Code,
			&ticket.Name,
			&ticket.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}

	return tickets, rows.Err()
}

// ShowStarts returns the start instants of every show ticketed under the
// booking, for the cancellation gate.
func (r *BookingRepository) ShowStarts(ctx context.Context, bookingID int64) ([]time.Time, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT s.starts_at
		 FROM tickets t
		 JOIN shows s ON s.id = t.show_id
		 WHERE t.booking_id = $1`,
		bookingID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var starts []time.Time
	for rows.Next() {
		var start time.Time
		if err := rows.Scan(&start); err != nil {
			return nil, err
		}
		starts = append(starts, start)
	}

	return starts, rows.Err()
}

// DeleteWithTickets removes the booking; tickets go with it via the cascade.
func (r *BookingRepository) DeleteWithTickets(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}
