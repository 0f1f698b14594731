package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbutils "travelagent/db"
	"travelagent/entity"
)

func TestPostgresRepository_Create_flight_date_uniqueness(t *testing.T) {
	ctx := context.Background()
	container, url := dbutils.StartPostgresContainer()
	defer container.Terminate(ctx)

	t.Setenv("POSTGRES_URL", url)
	repo := NewPostgresRepository(dbutils.GetDb(t))

	booking := entity.Booking{
		BookingID:  uuid.NewString(),
		CustomerID: uuid.NewString(),
		FlightID:   uuid.NewString(),
		Date:       time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC),
	}

	_, err := repo.Create(ctx, booking)
	require.NoError(t, err)

	// same flight and date, different customer: the seat is taken
	duplicate := entity.Booking{
		BookingID:  uuid.NewString(),
		CustomerID: uuid.NewString(),
		FlightID:   booking.FlightID,
		Date:       booking.Date,
	}
	_, err = repo.Create(ctx, duplicate)
	assert.ErrorIs(t, err, entity.ErrConflict)

	// same flight on another day is fine
	shifted := duplicate
	shifted.Date = booking.Date.AddDate(0, 0, 1)
	_, err = repo.Create(ctx, shifted)
	assert.NoError(t, err)

	found, err := repo.FindByID(ctx, booking.BookingID)
	require.NoError(t, err)
	assert.Equal(t, booking.BookingID, found.BookingID)
	assert.True(t, found.Date.Equal(booking.Date))

	err = repo.Delete(ctx, booking.BookingID)
	require.NoError(t, err)

	err = repo.Delete(ctx, booking.BookingID)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}
