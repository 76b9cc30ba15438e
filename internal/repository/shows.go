package repository

import (
	"context"
	"database/sql"
	"fmt"

	"stagedoor/internal/database"
	"stagedoor/internal/models"
)

type ShowRepository struct {
	db *database.DB
}

func NewShowRepository(db *database.DB) *ShowRepository {
	return &ShowRepository{db: db}
}

func (r *ShowRepository) GetByID(ctx context.Context, id int64) (*models.Show, error) {
	show := &models.Show{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, concert_id, starts_at, ends_at FROM shows WHERE id = $1`,
		id,
	).Scan(&show.ID, &show.ConcertID, &show.StartsAt, &show.EndsAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return show, err
}

// CreateWithSeats provisions a location, concert, show and a rows x seats
// grid in one transaction. This is the minimal setup surface; full catalog
// management lives outside the engine.
func (r *ShowRepository) CreateWithSeats(ctx context.Context, req *models.CreateShowRequest) (int64, int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var locationID int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO locations (name) VALUES ($1) RETURNING id`,
		req.Location,
	).Scan(&locationID)
	if err != nil {
		return 0, 0, err
	}

	var concertID int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO concerts (artist, location_id) VALUES ($1, $2) RETURNING id`,
		req.Artist, locationID,
	).Scan(&concertID)
	if err != nil {
		return 0, 0, err
	}

	var showID int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO shows (concert_id, starts_at, ends_at) VALUES ($1, $2, $3) RETURNING id`,
		concertID, req.StartsAt, req.EndsAt,
	).Scan(&showID)
	if err != nil {
		return 0, 0, err
	}

	for row := 1; row <= req.Rows; row++ {
		var rowID int64
		err = tx.QueryRowContext(ctx,
			`INSERT INTO rows (show_id, name, ord) VALUES ($1, $2, $3) RETURNING id`,
			showID, fmt.Sprintf("Row %d", row), row,
		).Scan(&rowID)
		if err != nil {
			return 0, 0, err
		}

		for seat := 1; seat <= req.SeatsPerRow; seat++ {
			label := fmt.Sprintf("%d-%d", row, seat)
			_, err = tx.ExecContext(ctx,
				`INSERT INTO seats (show_id, row_id, seat_number, label) VALUES ($1, $2, $3, $4)`,
				showID, rowID, seat, label,
			)
			if err != nil {
				return 0, 0, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, err
	}

	return showID, req.Rows * req.SeatsPerRow, nil
}
