package travel_bookings

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbutils "travelagent/db"
	"travelagent/entity"
	"travelagent/pubsub/outbox"
)

func TestPostgresRepository_lifecycle(t *testing.T) {
	ctx := context.Background()
	container, url := dbutils.StartPostgresContainer()
	defer container.Terminate(ctx)

	t.Setenv("POSTGRES_URL", url)
	db := dbutils.GetDb(t)

	// Create publishes through the outbox, its tables must exist
	err := outbox.InitializeSchema(db.DB, watermill.NopLogger{})
	require.NoError(t, err)

	repo := NewPostgresRepository(db)

	travelBooking, err := entity.NewTravelBooking(
		entity.Customer{
			CustomerID:  uuid.NewString(),
			Name:        "Jan Kowalski",
			Email:       "jan@travelagent.io",
			PhoneNumber: "0048123456789",
		},
		entity.Booking{
			BookingID:  uuid.NewString(),
			CustomerID: uuid.NewString(),
			FlightID:   uuid.NewString(),
			Date:       time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC),
		},
		uuid.NewString(),
		uuid.NewString(),
	)
	require.NoError(t, err)

	created, err := repo.Create(ctx, *travelBooking)
	require.NoError(t, err)
	assert.NotEmpty(t, created.TravelBookingID)

	found, err := repo.FindByID(ctx, created.TravelBookingID)
	require.NoError(t, err)
	assert.Equal(t, created, found)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Contains(t, all, created)

	err = repo.Delete(ctx, created.TravelBookingID)
	require.NoError(t, err)

	_, err = repo.FindByID(ctx, created.TravelBookingID)
	assert.ErrorIs(t, err, entity.ErrNotFound)

	err = repo.Delete(ctx, created.TravelBookingID)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}
