package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createUsersTable,
		createLocationsTable,
		createConcertsTable,
		createShowsTable,
		createRowsTable,
		createSeatsTable,
		createReservationsTable,
		createBookingsTable,
		createTicketsTable,
		createReservationExpiryIndex,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
    id SERIAL PRIMARY KEY,
    email VARCHAR(255) UNIQUE NOT NULL,
    password_hash VARCHAR(64) NOT NULL,
    first_name VARCHAR(100) NOT NULL,
    surname VARCHAR(100) NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    registered_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

const createLocationsTable = `
CREATE TABLE IF NOT EXISTS locations (
    id SERIAL PRIMARY KEY,
    name VARCHAR(100) NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

const createConcertsTable = `
CREATE TABLE IF NOT EXISTS concerts (
    id SERIAL PRIMARY KEY,
    artist VARCHAR(100) NOT NULL,
    location_id INTEGER NOT NULL REFERENCES locations(id) ON DELETE CASCADE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

const createShowsTable = `
CREATE TABLE IF NOT EXISTS shows (
    id SERIAL PRIMARY KEY,
    concert_id INTEGER NOT NULL REFERENCES concerts(id) ON DELETE CASCADE,
    starts_at TIMESTAMPTZ NOT NULL,
    ends_at TIMESTAMPTZ NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

const createRowsTable = `
CREATE TABLE IF NOT EXISTS rows (
    id SERIAL PRIMARY KEY,
    show_id INTEGER NOT NULL REFERENCES shows(id) ON DELETE CASCADE,
    name VARCHAR(50) NOT NULL,
    ord INTEGER NOT NULL,

    UNIQUE(show_id, name),
    UNIQUE(show_id, ord)
);`

const createSeatsTable = `
CREATE TABLE IF NOT EXISTS seats (
    id SERIAL PRIMARY KEY,
    show_id INTEGER NOT NULL REFERENCES shows(id) ON DELETE CASCADE,
    row_id INTEGER REFERENCES rows(id) ON DELETE CASCADE,
    seat_number INTEGER,
    label VARCHAR(50),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    UNIQUE(show_id, row_id, seat_number),
    UNIQUE(show_id, label)
);`

// UNIQUE(seat_id) on reservations is the mutual-exclusion guarantee for
// holds: two transactions racing to reserve the same seat cannot both commit.
// Expired rows are reclaimed inside the hold-creation transaction and by the
// sweep, so the constraint only ever blocks on live reservations.
const createReservationsTable = `
CREATE TABLE IF NOT EXISTS reservations (
    id SERIAL PRIMARY KEY,
    show_id INTEGER NOT NULL REFERENCES shows(id) ON DELETE CASCADE,
    seat_id INTEGER NOT NULL UNIQUE REFERENCES seats(id) ON DELETE CASCADE,
    user_id INTEGER REFERENCES users(id) ON DELETE SET NULL,
    reservation_token VARCHAR(64) NOT NULL,
    reserved_until TIMESTAMPTZ NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

const createBookingsTable = `
CREATE TABLE IF NOT EXISTS bookings (
    id SERIAL PRIMARY KEY,
    user_id INTEGER REFERENCES users(id) ON DELETE SET NULL,
    name VARCHAR(100) NOT NULL,
    address VARCHAR(100) NOT NULL,
    city VARCHAR(100) NOT NULL,
    zip VARCHAR(20) NOT NULL,
    country VARCHAR(100) NOT NULL,
    email VARCHAR(255) NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

const createTicketsTable = `
CREATE TABLE IF NOT EXISTS tickets (
    id SERIAL PRIMARY KEY,
    booking_id INTEGER NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
    show_id INTEGER NOT NULL REFERENCES shows(id) ON DELETE CASCADE,
    seat_id INTEGER NOT NULL UNIQUE REFERENCES seats(id) ON DELETE CASCADE,
    code VARCHAR(10) UNIQUE NOT NULL,
    name VARCHAR(100) NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

const createReservationExpiryIndex = `
CREATE INDEX IF NOT EXISTS reservations_reserved_until_idx
ON reservations (reserved_until);`
