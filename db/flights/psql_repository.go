package flights

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

// Create inserts a flight. Flight numbers are unique.
func (r *PostgresRepository) Create(ctx context.Context, flight entity.Flight) (entity.Flight, error) {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO flights (flight_id, number, departure, destination)
		VALUES (:flight_id, :number, :departure, :destination)
	`, flight)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return entity.Flight{}, entity.ErrConflict
		}
		return entity.Flight{}, fmt.Errorf("could not insert flight: %w", err)
	}

	return flight, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, flightID string) (entity.Flight, error) {
	var flight entity.Flight
	err := r.db.GetContext(ctx, &flight, `
		SELECT flight_id, number, departure, destination
		FROM flights
		WHERE flight_id = $1
	`, flightID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Flight{}, entity.ErrNotFound
		}
		return entity.Flight{}, fmt.Errorf("could not get flight: %w", err)
	}

	return flight, nil
}

func (r *PostgresRepository) FindAll(ctx context.Context) ([]entity.Flight, error) {
	var flights []entity.Flight
	err := r.db.SelectContext(ctx, &flights, `
		SELECT flight_id, number, departure, destination FROM flights
	`)
	if err != nil {
		return nil, fmt.Errorf("could not list flights: %w", err)
	}

	return flights, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, flightID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM flights WHERE flight_id = $1`, flightID)
	if err != nil {
		return fmt.Errorf("could not delete flight: %w", err)
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
