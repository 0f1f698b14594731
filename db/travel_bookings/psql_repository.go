package travel_bookings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"travelagent/db"
	"travelagent/entity"
	"travelagent/pubsub/bus"
	"travelagent/pubsub/outbox"
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

// Create assigns an id and stores the travel booking. The
// TravelBookingCreated_v1 event goes through the outbox in the same
// transaction, so it is published if and only if the booking is stored.
func (r *PostgresRepository) Create(ctx context.Context, travelBooking entity.TravelBooking) (entity.TravelBooking, error) {
	travelBooking.TravelBookingID = uuid.NewString()

	payload, err := json.Marshal(travelBooking)
	if err != nil {
		return entity.TravelBooking{}, fmt.Errorf("could not marshal travel booking: %w", err)
	}

	err = db.UpdateInTx(
		ctx,
		r.db,
		sql.LevelRepeatableRead,
		func(ctx context.Context, tx *sqlx.Tx) error {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO travel_bookings (travel_booking_id, payload)
				VALUES ($1, $2)
			`, travelBooking.TravelBookingID, payload)
			if err != nil {
				return fmt.Errorf("could not insert travel booking: %w", err)
			}

			outboxPublisher, err := outbox.NewPublisherForDb(ctx, tx)
			if err != nil {
				return fmt.Errorf("could not create outbox publisher: %w", err)
			}

			eventBus, err := bus.NewEventBus(outboxPublisher)
			if err != nil {
				return fmt.Errorf("could not create event bus: %w", err)
			}

			return eventBus.Publish(ctx, entity.TravelBookingCreated_v1{
				Header:          entity.NewEventHeader(),
				TravelBookingID: travelBooking.TravelBookingID,
				CustomerEmail:   travelBooking.Customer.Email,
				FlightBookingID: travelBooking.FlightBooking.BookingID,
				TaxiBookingID:   travelBooking.TaxiBookingID,
				HotelBookingID:  travelBooking.HotelBookingID,
			})
		},
	)
	if err != nil {
		return entity.TravelBooking{}, err
	}

	return travelBooking, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, travelBookingID string) (entity.TravelBooking, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT payload FROM travel_bookings WHERE travel_booking_id = $1
	`, travelBookingID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.TravelBooking{}, entity.ErrNotFound
		}
		return entity.TravelBooking{}, fmt.Errorf("could not get travel booking: %w", err)
	}

	var travelBooking entity.TravelBooking
	if err := json.Unmarshal(payload, &travelBooking); err != nil {
		return entity.TravelBooking{}, fmt.Errorf("could not unmarshal travel booking: %w", err)
	}

	return travelBooking, nil
}

func (r *PostgresRepository) FindAll(ctx context.Context) ([]entity.TravelBooking, error) {
	var payloads [][]byte
	err := r.db.SelectContext(ctx, &payloads, `SELECT payload FROM travel_bookings`)
	if err != nil {
		return nil, fmt.Errorf("could not list travel bookings: %w", err)
	}

	travelBookings := make([]entity.TravelBooking, 0, len(payloads))
	for _, payload := range payloads {
		var travelBooking entity.TravelBooking
		if err := json.Unmarshal(payload, &travelBooking); err != nil {
			return nil, fmt.Errorf("could not unmarshal travel booking: %w", err)
		}
		travelBookings = append(travelBookings, travelBooking)
	}

	return travelBookings, nil
}

// Delete removes the travel booking record and publishes
// TravelBookingDeleted_v1 through the outbox in the same transaction.
func (r *PostgresRepository) Delete(ctx context.Context, travelBookingID string) error {
	return db.UpdateInTx(
		ctx,
		r.db,
		sql.LevelRepeatableRead,
		func(ctx context.Context, tx *sqlx.Tx) error {
			var payload []byte
			err := tx.QueryRowContext(ctx, `
				SELECT payload FROM travel_bookings WHERE travel_booking_id = $1
			`, travelBookingID).Scan(&payload)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return entity.ErrNotFound
				}
				return fmt.Errorf("could not get travel booking: %w", err)
			}

			var travelBooking entity.TravelBooking
			if err := json.Unmarshal(payload, &travelBooking); err != nil {
				return fmt.Errorf("could not unmarshal travel booking: %w", err)
			}

			_, err = tx.ExecContext(ctx, `
				DELETE FROM travel_bookings WHERE travel_booking_id = $1
			`, travelBookingID)
			if err != nil {
				return fmt.Errorf("could not delete travel booking: %w", err)
			}

			outboxPublisher, err := outbox.NewPublisherForDb(ctx, tx)
			if err != nil {
				return fmt.Errorf("could not create outbox publisher: %w", err)
			}

			eventBus, err := bus.NewEventBus(outboxPublisher)
			if err != nil {
				return fmt.Errorf("could not create event bus: %w", err)
			}

			return eventBus.Publish(ctx, entity.TravelBookingDeleted_v1{
				Header:          entity.NewEventHeader(),
				TravelBookingID: travelBookingID,
				CustomerEmail:   travelBooking.Customer.Email,
			})
		},
	)
}
