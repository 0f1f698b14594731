package db

import (
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const postgresUniqueValueViolationErrorCode = "23505"

func InitializeDatabaseSchema(db *sqlx.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS customers (
			customer_id UUID PRIMARY KEY,
			name VARCHAR NOT NULL,
			email VARCHAR NOT NULL UNIQUE,
			phone_number VARCHAR NOT NULL
		);

		CREATE TABLE IF NOT EXISTS flights (
			flight_id UUID PRIMARY KEY,
			number VARCHAR NOT NULL UNIQUE,
			departure VARCHAR NOT NULL,
			destination VARCHAR NOT NULL
		);

		CREATE TABLE IF NOT EXISTS bookings (
			booking_id UUID PRIMARY KEY,
			customer_id UUID NOT NULL,
			flight_id UUID NOT NULL,
			flight_date TIMESTAMPTZ NOT NULL,
			UNIQUE (flight_id, flight_date)
		);

		CREATE TABLE IF NOT EXISTS travel_bookings (
			travel_booking_id UUID PRIMARY KEY,
			payload JSONB NOT NULL
		);

		CREATE TABLE IF NOT EXISTS events (
			event_id UUID PRIMARY KEY,
			published_at TIMESTAMPTZ NOT NULL,
			event_name VARCHAR NOT NULL,
			event_payload JSONB NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("could not initialize database schema: %w", err)
	}

	return nil
}

func IsUniqueViolation(err error) bool {
	var psqlErr *pq.Error
	return errors.As(err, &psqlErr) && psqlErr.Code == postgresUniqueValueViolationErrorCode
}
