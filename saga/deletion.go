package saga

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"

	"travelagent/entity"
	"travelagent/metrics"
)

// DeletionCoordinator tears down the three remote bookings of a travel
// package, then removes the composite record. Teardown is best effort:
// every remote delete is attempted regardless of the others' outcome, and
// any failure is reported as an inconsistency instead of being repaired.
type DeletionCoordinator struct {
	flightService BookingClient
	taxiService   BookingClient
	hotelService  BookingClient
	repo          entity.TravelBookingRepository
}

func NewDeletionCoordinator(
	flightService BookingClient,
	taxiService BookingClient,
	hotelService BookingClient,
	repo entity.TravelBookingRepository,
) *DeletionCoordinator {
	if flightService == nil || taxiService == nil || hotelService == nil {
		panic("booking clients must be set")
	}
	if repo == nil {
		panic("repo must be set")
	}

	return &DeletionCoordinator{
		flightService: flightService,
		taxiService:   taxiService,
		hotelService:  hotelService,
		repo:          repo,
	}
}

// DeleteTravelBooking deletes the taxi, hotel and flight bookings of the
// given travel package. If any remote delete fails the composite record is
// left in place and an InconsistentDeleteError names the failed legs; only
// a fully successful teardown removes the composite record.
func (d *DeletionCoordinator) DeleteTravelBooking(ctx context.Context, travelBookingID string) error {
	travelBooking, err := d.repo.FindByID(ctx, travelBookingID)
	if err != nil {
		return err
	}

	type teardown struct {
		leg       Leg
		service   BookingClient
		bookingID string
	}

	teardowns := []teardown{
		{LegTaxi, d.taxiService, travelBooking.TaxiBookingID},
		{LegHotel, d.hotelService, travelBooking.HotelBookingID},
		{LegFlight, d.flightService, travelBooking.FlightBooking.BookingID},
	}

	var failedLegs []Leg
	var errs []error
	for _, t := range teardowns {
		err := t.service.DeleteBooking(ctx, t.bookingID)
		if errors.Is(err, entity.ErrNotFound) {
			// already gone, a retry after a partial teardown must converge
			continue
		}
		if err != nil {
			failedLegs = append(failedLegs, t.leg)
			errs = append(errs, fmt.Errorf("could not delete %s booking %s: %w", t.leg, t.bookingID, err))
		}
	}

	if len(failedLegs) > 0 {
		metrics.SagaInconsistencies.Inc()
		log.FromContext(ctx).
			WithField("travel_booking_id", travelBookingID).
			WithField("failed_legs", failedLegs).
			Error("Travel booking teardown left remote bookings behind")

		return &InconsistentDeleteError{
			TravelBookingID: travelBookingID,
			FailedLegs:      failedLegs,
			Errs:            errs,
		}
	}

	if err := d.repo.Delete(ctx, travelBookingID); err != nil {
		return fmt.Errorf("could not delete travel booking record: %w", err)
	}

	return nil
}
