package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelagent/entity"
)

func TestNewTravelBooking_requires_all_references(t *testing.T) {
	customer := entity.Customer{Email: "jan@travelagent.io"}
	flightBooking := entity.Booking{BookingID: "flight-1"}

	travelBooking, err := entity.NewTravelBooking(customer, flightBooking, "taxi-1", "hotel-1")
	require.NoError(t, err)
	assert.Equal(t, "taxi-1", travelBooking.TaxiBookingID)
	assert.Equal(t, "hotel-1", travelBooking.HotelBookingID)

	_, err = entity.NewTravelBooking(entity.Customer{}, flightBooking, "taxi-1", "hotel-1")
	assert.Error(t, err)

	_, err = entity.NewTravelBooking(customer, entity.Booking{}, "taxi-1", "hotel-1")
	assert.Error(t, err)

	_, err = entity.NewTravelBooking(customer, flightBooking, "", "hotel-1")
	assert.Error(t, err)

	_, err = entity.NewTravelBooking(customer, flightBooking, "taxi-1", "")
	assert.Error(t, err)
}
