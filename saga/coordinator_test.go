package saga_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelagent/entity"
	"travelagent/gateway"
	"travelagent/pubsub/bus"
	"travelagent/saga"
)

type capturingPublisher struct {
	lock      sync.Mutex
	published map[string][]*message.Message
}

func (p *capturingPublisher) Publish(topic string, messages ...*message.Message) error {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.published == nil {
		p.published = make(map[string][]*message.Message)
	}
	p.published[topic] = append(p.published[topic], messages...)

	return nil
}

func (p *capturingPublisher) Close() error {
	return nil
}

func (p *capturingPublisher) Published(topic string) []*message.Message {
	p.lock.Lock()
	defer p.lock.Unlock()

	return p.published[topic]
}

func newTestCustomer() entity.Customer {
	return entity.Customer{
		Name:        "Jan Kowalski",
		Email:       "jan@travelagent.io",
		PhoneNumber: "0048123456789",
	}
}

func newTestFlightRequest() entity.BookingRequest {
	return entity.BookingRequest{
		FlightID: "11111111-1111-1111-1111-111111111111",
		Date:     time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestCoordinator_CreateTravelBooking(t *testing.T) {
	ctx := context.Background()

	flightService := &gateway.BookingServiceMock{}
	taxiService := &gateway.BookingServiceMock{}
	hotelService := &gateway.BookingServiceMock{}
	repo := &travelBookingRepoMock{}

	coordinator := saga.NewCoordinator(flightService, taxiService, hotelService, repo, nil)

	flightRequest := newTestFlightRequest()
	travelBooking, err := coordinator.CreateTravelBooking(ctx, newTestCustomer(), flightRequest)
	require.NoError(t, err)

	assert.NotEmpty(t, travelBooking.TravelBookingID)
	assert.Equal(t, "jan@travelagent.io", travelBooking.Customer.Email)
	assert.NotEmpty(t, travelBooking.FlightBooking.BookingID)
	assert.NotEmpty(t, travelBooking.TaxiBookingID)
	assert.NotEmpty(t, travelBooking.HotelBookingID)

	stored, err := repo.FindByID(ctx, travelBooking.TravelBookingID)
	require.NoError(t, err)
	assert.Equal(t, travelBooking, stored)

	taxiBooking, err := taxiService.GetBookingByID(ctx, travelBooking.TaxiBookingID)
	require.NoError(t, err)
	hotelBooking, err := hotelService.GetBookingByID(ctx, travelBooking.HotelBookingID)
	require.NoError(t, err)

	// derived dates must collide neither with the flight date nor each other
	assert.True(t, taxiBooking.Date.Equal(flightRequest.Date.AddDate(0, 0, 1)))
	assert.True(t, hotelBooking.Date.Equal(flightRequest.Date.AddDate(0, 0, 2)))

	// taxi and hotel services know the travel agent as a customer
	_, err = taxiService.FindCustomerByEmail(ctx, entity.TravelAgentIdentity().Email)
	assert.NoError(t, err)
	_, err = hotelService.FindCustomerByEmail(ctx, entity.TravelAgentIdentity().Email)
	assert.NoError(t, err)
}

func TestCoordinator_CreateTravelBooking_flight_rejected(t *testing.T) {
	ctx := context.Background()

	flightService := &gateway.BookingServiceMock{FailCreateBooking: entity.ErrConflict}
	taxiService := &gateway.BookingServiceMock{}
	hotelService := &gateway.BookingServiceMock{}
	repo := &travelBookingRepoMock{}

	coordinator := saga.NewCoordinator(flightService, taxiService, hotelService, repo, nil)

	_, err := coordinator.CreateTravelBooking(ctx, newTestCustomer(), newTestFlightRequest())

	var rejected *saga.BookingRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, saga.LegFlight, rejected.Leg)
	assert.Nil(t, rejected.Compensation)
	assert.ErrorIs(t, err, entity.ErrConflict)

	assert.Empty(t, taxiService.Bookings())
	assert.Empty(t, hotelService.Bookings())

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCoordinator_CreateTravelBooking_taxi_rejected_rolls_back_flight(t *testing.T) {
	ctx := context.Background()

	flightService := &gateway.BookingServiceMock{}
	taxiService := &gateway.BookingServiceMock{FailCreateBooking: entity.ErrConflict}
	hotelService := &gateway.BookingServiceMock{}
	repo := &travelBookingRepoMock{}

	coordinator := saga.NewCoordinator(flightService, taxiService, hotelService, repo, nil)

	_, err := coordinator.CreateTravelBooking(ctx, newTestCustomer(), newTestFlightRequest())

	var rejected *saga.BookingRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, saga.LegTaxi, rejected.Leg)
	assert.Nil(t, rejected.Compensation)

	assert.Empty(t, flightService.Bookings(), "flight booking should be compensated")
	assert.Len(t, flightService.DeletedBookingIDs, 1)
	assert.Empty(t, hotelService.Bookings())

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCoordinator_CreateTravelBooking_hotel_rejected_rolls_back_taxi_and_flight(t *testing.T) {
	ctx := context.Background()

	flightService := &gateway.BookingServiceMock{}
	taxiService := &gateway.BookingServiceMock{}
	hotelService := &gateway.BookingServiceMock{FailCreateBooking: entity.ErrConflict}
	repo := &travelBookingRepoMock{}

	coordinator := saga.NewCoordinator(flightService, taxiService, hotelService, repo, nil)

	_, err := coordinator.CreateTravelBooking(ctx, newTestCustomer(), newTestFlightRequest())

	var rejected *saga.BookingRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, saga.LegHotel, rejected.Leg)
	assert.Nil(t, rejected.Compensation)

	assert.Empty(t, flightService.Bookings())
	assert.Empty(t, taxiService.Bookings())
	assert.Len(t, taxiService.DeletedBookingIDs, 1)
	assert.Len(t, flightService.DeletedBookingIDs, 1)
}

func TestCoordinator_CreateTravelBooking_failed_compensation_reports_orphans(t *testing.T) {
	ctx := context.Background()

	flightService := &gateway.BookingServiceMock{FailDeleteBooking: errors.New("service unavailable")}
	taxiService := &gateway.BookingServiceMock{}
	hotelService := &gateway.BookingServiceMock{FailCreateBooking: entity.ErrConflict}
	repo := &travelBookingRepoMock{}

	coordinator := saga.NewCoordinator(flightService, taxiService, hotelService, repo, nil)

	_, err := coordinator.CreateTravelBooking(ctx, newTestCustomer(), newTestFlightRequest())

	var rejected *saga.BookingRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, saga.LegHotel, rejected.Leg)
	require.NotNil(t, rejected.Compensation)

	// the flight booking could not be deleted and is reported as orphaned
	flightBookings := flightService.Bookings()
	require.Len(t, flightBookings, 1)
	assert.Equal(t, []string{flightBookings[0].BookingID}, rejected.Compensation.OrphanedBookingIDs())

	// the taxi delete was still attempted despite the flight delete failing
	assert.Empty(t, taxiService.Bookings())
}

func TestCoordinator_CreateTravelBooking_commit_failure_rolls_back_all_legs(t *testing.T) {
	ctx := context.Background()

	flightService := &gateway.BookingServiceMock{}
	taxiService := &gateway.BookingServiceMock{}
	hotelService := &gateway.BookingServiceMock{}
	repo := &travelBookingRepoMock{FailCreate: errors.New("connection refused")}

	coordinator := saga.NewCoordinator(flightService, taxiService, hotelService, repo, nil)

	_, err := coordinator.CreateTravelBooking(ctx, newTestCustomer(), newTestFlightRequest())

	var commitErr *saga.CommitError
	require.ErrorAs(t, err, &commitErr)
	assert.Nil(t, commitErr.Compensation)

	assert.Empty(t, flightService.Bookings())
	assert.Empty(t, taxiService.Bookings())
	assert.Empty(t, hotelService.Bookings())
}

func TestCoordinator_CreateTravelBooking_commit_failure_publishes_failure_event(t *testing.T) {
	ctx := context.Background()

	publisher := &capturingPublisher{}
	eventBus, err := bus.NewEventBus(publisher)
	require.NoError(t, err)

	flightService := &gateway.BookingServiceMock{}
	taxiService := &gateway.BookingServiceMock{}
	hotelService := &gateway.BookingServiceMock{}
	repo := &travelBookingRepoMock{FailCreate: errors.New("connection refused")}

	coordinator := saga.NewCoordinator(flightService, taxiService, hotelService, repo, eventBus)

	_, err = coordinator.CreateTravelBooking(ctx, newTestCustomer(), newTestFlightRequest())

	var commitErr *saga.CommitError
	require.ErrorAs(t, err, &commitErr)

	published := publisher.Published("events")
	require.Len(t, published, 1)
	assert.Contains(t, published[0].Metadata.Get("name"), "TravelBookingCreationFailed_v1")
	assert.Contains(t, string(published[0].Payload), `"failed_leg":"commit"`)
	assert.Contains(t, string(published[0].Payload), `"compensated":true`)
}

func TestCoordinator_CreateTravelBooking_concurrent_runs_do_not_share_state(t *testing.T) {
	ctx := context.Background()

	flightService := &gateway.BookingServiceMock{}
	taxiService := &gateway.BookingServiceMock{}
	hotelService := &gateway.BookingServiceMock{}
	repo := &travelBookingRepoMock{}

	coordinator := saga.NewCoordinator(flightService, taxiService, hotelService, repo, nil)

	first, err := coordinator.CreateTravelBooking(ctx, newTestCustomer(), newTestFlightRequest())
	require.NoError(t, err)

	secondRequest := newTestFlightRequest()
	secondRequest.Date = secondRequest.Date.AddDate(0, 1, 0)
	second, err := coordinator.CreateTravelBooking(ctx, newTestCustomer(), secondRequest)
	require.NoError(t, err)

	assert.NotEqual(t, first.TravelBookingID, second.TravelBookingID)
	assert.NotEqual(t, first.FlightBooking.BookingID, second.FlightBooking.BookingID)
	assert.NotEqual(t, first.TaxiBookingID, second.TaxiBookingID)
	assert.NotEqual(t, first.HotelBookingID, second.HotelBookingID)
}
