package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelagent/entity"
)

func TestBookingServiceClient_maps_remote_statuses(t *testing.T) {
	ctx := context.Background()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bookings":
			var request entity.BookingRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&request))

			w.WriteHeader(http.StatusCreated)
			require.NoError(t, json.NewEncoder(w).Encode(entity.Booking{
				BookingID:  "b-1",
				CustomerID: request.CustomerID,
				FlightID:   request.FlightID,
				Date:       request.Date,
			}))
		case "/bookings/taken":
			w.WriteHeader(http.StatusConflict)
		case "/bookings/missing":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	client := NewBookingServiceClient(server.URL, time.Second)

	booking, err := client.CreateBooking(ctx, entity.BookingRequest{
		CustomerID: "c-1",
		FlightID:   "f-1",
		Date:       time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "b-1", booking.BookingID)
	assert.Equal(t, "f-1", booking.FlightID)

	_, err = client.UpdateBooking(ctx, "taken", entity.BookingRequest{})
	assert.ErrorIs(t, err, entity.ErrConflict)

	_, err = client.GetBookingByID(ctx, "missing")
	assert.ErrorIs(t, err, entity.ErrNotFound)

	_, err = client.FindCustomerByEmail(ctx, "jan@travelagent.io")
	var remoteErr *RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, http.StatusInternalServerError, remoteErr.Status)
}
