package saga

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"

	"travelagent/entity"
	"travelagent/metrics"
)

// BookingClient is the capability set the saga needs from each remote
// booking service. Transport does not matter as long as 404 maps to
// entity.ErrNotFound and 409 to entity.ErrConflict.
type BookingClient interface {
	FindCustomerByEmail(ctx context.Context, email string) (entity.Customer, error)
	CreateCustomer(ctx context.Context, customer entity.Customer) (entity.Customer, error)
	CreateBooking(ctx context.Context, request entity.BookingRequest) (entity.Booking, error)
	GetBookingByID(ctx context.Context, bookingID string) (entity.Booking, error)
	DeleteBooking(ctx context.Context, bookingID string) error
}

type State string

const (
	StateInit         State = "INIT"
	StateFlightBooked State = "FLIGHT_BOOKED"
	StateTaxiBooked   State = "TAXI_BOOKED"
	StateHotelBooked  State = "HOTEL_BOOKED"
	StateCommitted    State = "COMMITTED"
	StateCompensating State = "COMPENSATING"
	StateCompensated  State = "COMPENSATED"
	StateInconsistent State = "INCONSISTENT"
)

// Coordinator drives the travel booking saga: flight, taxi and hotel
// bookings created in that order, compensated in reverse order on failure.
type Coordinator struct {
	flightService BookingClient
	taxiService   BookingClient
	hotelService  BookingClient
	repo          entity.TravelBookingRepository
	eventBus      *cqrs.EventBus
}

func NewCoordinator(
	flightService BookingClient,
	taxiService BookingClient,
	hotelService BookingClient,
	repo entity.TravelBookingRepository,
	eventBus *cqrs.EventBus,
) *Coordinator {
	if flightService == nil || taxiService == nil || hotelService == nil {
		panic("booking clients must be set")
	}
	if repo == nil {
		panic("repo must be set")
	}

	return &Coordinator{
		flightService: flightService,
		taxiService:   taxiService,
		hotelService:  hotelService,
		repo:          repo,
		eventBus:      eventBus,
	}
}

// attempt holds the state of one saga run. It is never shared between runs:
// concurrent travellers get independent attempts.
type attempt struct {
	state State

	customer       entity.Customer
	flightBooking  entity.Booking
	taxiBookingID  string
	hotelBookingID string
}

// CreateTravelBooking runs the saga for one traveller. On success the
// persisted composite booking is returned; on failure the error tells which
// leg was rejected and whether the rollback restored the pre-saga state.
func (c *Coordinator) CreateTravelBooking(
	ctx context.Context,
	customer entity.Customer,
	flightRequest entity.BookingRequest,
) (entity.TravelBooking, error) {
	metrics.SagaRunsStarted.Inc()
	logger := log.FromContext(ctx).WithField("customer_email", customer.Email)

	identity := entity.TravelAgentIdentity()
	EnsureRegistered(ctx, c.taxiService, identity)
	EnsureRegistered(ctx, c.hotelService, identity)

	a := &attempt{state: StateInit, customer: customer}

	flightBooking, err := c.flightService.CreateBooking(ctx, flightRequest)
	if err != nil {
		// nothing was created yet, no compensation needed
		c.publishFailure(ctx, a, string(LegFlight), nil)
		return entity.TravelBooking{}, &BookingRejectedError{Leg: LegFlight, Cause: err}
	}
	a.state = StateFlightBooked
	a.flightBooking = flightBooking
	logger.WithField("flight_booking_id", flightBooking.BookingID).Info("Flight booked")

	taxiBooking, err := c.taxiService.CreateBooking(ctx, deriveRequest(flightRequest, 1))
	if err != nil {
		compensation := c.compensate(ctx, a)
		c.publishFailure(ctx, a, string(LegTaxi), compensation)
		return entity.TravelBooking{}, &BookingRejectedError{Leg: LegTaxi, Cause: err, Compensation: compensation}
	}
	a.state = StateTaxiBooked
	a.taxiBookingID = taxiBooking.BookingID
	logger.WithField("taxi_booking_id", taxiBooking.BookingID).Info("Taxi booked")

	hotelBooking, err := c.hotelService.CreateBooking(ctx, deriveRequest(flightRequest, 2))
	if err != nil {
		compensation := c.compensate(ctx, a)
		c.publishFailure(ctx, a, string(LegHotel), compensation)
		return entity.TravelBooking{}, &BookingRejectedError{Leg: LegHotel, Cause: err, Compensation: compensation}
	}
	a.state = StateHotelBooked
	a.hotelBookingID = hotelBooking.BookingID
	logger.WithField("hotel_booking_id", hotelBooking.BookingID).Info("Hotel booked")

	travelBooking, err := entity.NewTravelBooking(customer, a.flightBooking, a.taxiBookingID, a.hotelBookingID)
	if err != nil {
		compensation := c.compensate(ctx, a)
		c.publishFailure(ctx, a, failedLegCommit, compensation)
		return entity.TravelBooking{}, &CommitError{Cause: err, Compensation: compensation}
	}

	created, err := c.repo.Create(ctx, *travelBooking)
	if err != nil {
		compensation := c.compensate(ctx, a)
		c.publishFailure(ctx, a, failedLegCommit, compensation)
		return entity.TravelBooking{}, &CommitError{
			Cause:        fmt.Errorf("could not store travel booking: %w", err),
			Compensation: compensation,
		}
	}
	a.state = StateCommitted
	metrics.SagaRunsCommitted.Inc()
	logger.WithField("travel_booking_id", created.TravelBookingID).Info("Travel booking committed")

	return created, nil
}

// compensate deletes every booking the attempt created so far, in reverse
// creation order. Every delete is attempted even if an earlier one failed,
// so one leg's delete failure does not orphan the others; failures are
// collected, not short-circuited.
func (c *Coordinator) compensate(ctx context.Context, a *attempt) *CompensationError {
	a.state = StateCompensating

	type deletion struct {
		leg       Leg
		service   BookingClient
		bookingID string
	}

	var deletions []deletion
	if a.hotelBookingID != "" {
		deletions = append(deletions, deletion{LegHotel, c.hotelService, a.hotelBookingID})
	}
	if a.taxiBookingID != "" {
		deletions = append(deletions, deletion{LegTaxi, c.taxiService, a.taxiBookingID})
	}
	if a.flightBooking.BookingID != "" {
		deletions = append(deletions, deletion{LegFlight, c.flightService, a.flightBooking.BookingID})
	}

	orphaned := map[Leg]string{}
	var errs []error
	for _, d := range deletions {
		if err := d.service.DeleteBooking(ctx, d.bookingID); err != nil {
			orphaned[d.leg] = d.bookingID
			errs = append(errs, fmt.Errorf("could not delete %s booking %s: %w", d.leg, d.bookingID, err))
		}
	}

	if len(errs) > 0 {
		a.state = StateInconsistent
		metrics.SagaInconsistencies.Inc()
		log.FromContext(ctx).WithField("orphaned", orphaned).Error("Compensation left orphaned bookings")
		return &CompensationError{Orphaned: orphaned, Errs: errs}
	}

	a.state = StateCompensated
	metrics.SagaCompensations.Inc()

	return nil
}

// failedLegCommit marks a creation failure that happened after all three
// legs were booked, while persisting the composite record.
const failedLegCommit = "commit"

func (c *Coordinator) publishFailure(ctx context.Context, a *attempt, failedLeg string, compensation *CompensationError) {
	if c.eventBus == nil {
		return
	}

	event := entity.TravelBookingCreationFailed_v1{
		Header:        entity.NewEventHeader(),
		CustomerEmail: a.customer.Email,
		FailedLeg:     failedLeg,
		Compensated:   compensation == nil,
	}
	if compensation != nil {
		event.OrphanedBookingIDs = compensation.OrphanedBookingIDs()
	}

	if err := c.eventBus.Publish(ctx, event); err != nil {
		log.FromContext(ctx).WithError(err).Error("could not publish TravelBookingCreationFailed event")
	}
}

// deriveRequest shifts the booking date so a secondary leg does not trip the
// target service's flight+date uniqueness rule. The taxi and hotel services
// may be deployed as duplicates of the flight service, so the three requests
// must not collide with each other either.
func deriveRequest(r entity.BookingRequest, offsetDays int) entity.BookingRequest {
	r.Date = r.Date.AddDate(0, 0, offsetDays)
	return r
}
