package gateway

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"travelagent/entity"
)

// BookingServiceMock stands in for one remote booking service in tests.
// Failure fields, when set, are returned instead of performing the call.
type BookingServiceMock struct {
	lock sync.Mutex

	customers map[string]entity.Customer
	bookings  map[string]entity.Booking

	FailCreateCustomer error
	FailCreateBooking  error
	FailDeleteBooking  error

	DeletedBookingIDs []string
}

// SetFailCreateBooking flips the CreateBooking failure while the mock is in
// use by other goroutines.
func (c *BookingServiceMock) SetFailCreateBooking(err error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.FailCreateBooking = err
}

// SetFailDeleteBooking flips the DeleteBooking failure while the mock is in
// use by other goroutines.
func (c *BookingServiceMock) SetFailDeleteBooking(err error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.FailDeleteBooking = err
}

func (c *BookingServiceMock) FindCustomerByEmail(_ context.Context, email string) (entity.Customer, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	customer, ok := c.customers[email]
	if !ok {
		return entity.Customer{}, entity.ErrNotFound
	}

	return customer, nil
}

func (c *BookingServiceMock) CreateCustomer(_ context.Context, customer entity.Customer) (entity.Customer, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.FailCreateCustomer != nil {
		return entity.Customer{}, c.FailCreateCustomer
	}

	if c.customers == nil {
		c.customers = make(map[string]entity.Customer)
	}

	if _, ok := c.customers[customer.Email]; ok {
		return entity.Customer{}, entity.ErrConflict
	}

	customer.CustomerID = uuid.NewString()
	c.customers[customer.Email] = customer

	return customer, nil
}

func (c *BookingServiceMock) CreateBooking(_ context.Context, request entity.BookingRequest) (entity.Booking, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.FailCreateBooking != nil {
		return entity.Booking{}, c.FailCreateBooking
	}

	if c.bookings == nil {
		c.bookings = make(map[string]entity.Booking)
	}

	for _, booking := range c.bookings {
		if booking.FlightID == request.FlightID && booking.Date.Equal(request.Date) {
			return entity.Booking{}, entity.ErrConflict
		}
	}

	booking := entity.Booking{
		BookingID:  uuid.NewString(),
		CustomerID: request.CustomerID,
		FlightID:   request.FlightID,
		Date:       request.Date,
	}
	c.bookings[booking.BookingID] = booking

	return booking, nil
}

func (c *BookingServiceMock) GetBookingByID(_ context.Context, bookingID string) (entity.Booking, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	booking, ok := c.bookings[bookingID]
	if !ok {
		return entity.Booking{}, entity.ErrNotFound
	}

	return booking, nil
}

func (c *BookingServiceMock) UpdateBooking(_ context.Context, bookingID string, request entity.BookingRequest) (entity.Booking, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	booking, ok := c.bookings[bookingID]
	if !ok {
		return entity.Booking{}, entity.ErrNotFound
	}

	booking.CustomerID = request.CustomerID
	booking.FlightID = request.FlightID
	booking.Date = request.Date
	c.bookings[bookingID] = booking

	return booking, nil
}

func (c *BookingServiceMock) DeleteBooking(_ context.Context, bookingID string) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.FailDeleteBooking != nil {
		return c.FailDeleteBooking
	}

	if _, ok := c.bookings[bookingID]; !ok {
		return entity.ErrNotFound
	}

	delete(c.bookings, bookingID)
	c.DeletedBookingIDs = append(c.DeletedBookingIDs, bookingID)

	return nil
}

// Bookings returns a snapshot of the bookings currently held by the mock.
func (c *BookingServiceMock) Bookings() []entity.Booking {
	c.lock.Lock()
	defer c.lock.Unlock()

	all := make([]entity.Booking, 0, len(c.bookings))
	for _, booking := range c.bookings {
		all = append(all, booking)
	}

	return all
}
