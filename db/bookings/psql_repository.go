package bookings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"travelagent/db"
	"travelagent/entity"
)

type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	if db == nil {
		panic("db must be set")
	}

	return &PostgresRepository{db: db}
}

// Create inserts a booking. A second booking for the same flight and date is
// rejected with entity.ErrConflict; the travel agent saga relies on this to
// detect duplicate legs.
func (r *PostgresRepository) Create(ctx context.Context, booking entity.Booking) (entity.Booking, error) {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO bookings (booking_id, customer_id, flight_id, flight_date)
		VALUES (:booking_id, :customer_id, :flight_id, :flight_date)
	`, booking)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return entity.Booking{}, entity.ErrConflict
		}
		return entity.Booking{}, fmt.Errorf("could not insert booking: %w", err)
	}

	return booking, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, bookingID string) (entity.Booking, error) {
	var booking entity.Booking
	err := r.db.GetContext(ctx, &booking, `
		SELECT booking_id, customer_id, flight_id, flight_date
		FROM bookings
		WHERE booking_id = $1
	`, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Booking{}, entity.ErrNotFound
		}
		return entity.Booking{}, fmt.Errorf("could not get booking: %w", err)
	}

	return booking, nil
}

func (r *PostgresRepository) FindAll(ctx context.Context) ([]entity.Booking, error) {
	var bookings []entity.Booking
	err := r.db.SelectContext(ctx, &bookings, `
		SELECT booking_id, customer_id, flight_id, flight_date FROM bookings
	`)
	if err != nil {
		return nil, fmt.Errorf("could not list bookings: %w", err)
	}

	return bookings, nil
}

func (r *PostgresRepository) Update(ctx context.Context, booking entity.Booking) (entity.Booking, error) {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE bookings
		SET customer_id = :customer_id, flight_id = :flight_id, flight_date = :flight_date
		WHERE booking_id = :booking_id
	`, booking)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return entity.Booking{}, entity.ErrConflict
		}
		return entity.Booking{}, fmt.Errorf("could not update booking: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return entity.Booking{}, fmt.Errorf("could not get affected rows: %w", err)
	}
	if affected == 0 {
		return entity.Booking{}, entity.ErrNotFound
	}

	return booking, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, bookingID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE booking_id = $1`, bookingID)
	if err != nil {
		return fmt.Errorf("could not delete booking: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get affected rows: %w", err)
	}
	if affected == 0 {
		return entity.ErrNotFound
	}

	return nil
}
