package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"travelagent/entity"
)

type postGuestBookingRequest struct {
	Customer postCustomerRequest `json:"customer"`
	Booking  struct {
		FlightID string    `json:"flight_id"`
		Date     time.Time `json:"date"`
	} `json:"booking"`
}

type guestBookingResponse struct {
	Customer entity.Customer `json:"customer"`
	Booking  entity.Booking  `json:"booking"`
}

// PostGuestBooking creates a customer and a booking in one request, for
// travellers who are not registered yet. An existing customer with the same
// email is reused instead of being treated as a conflict.
func (s Server) PostGuestBooking(c echo.Context) error {
	var request postGuestBookingRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	ctx := c.Request().Context()

	customer, err := s.customersRepo.FindByEmail(ctx, request.Customer.Email)
	if errors.Is(err, entity.ErrNotFound) {
		customer, err = s.customersRepo.Create(ctx, entity.Customer{
			CustomerID:  uuid.NewString(),
			Name:        request.Customer.Name,
			Email:       request.Customer.Email,
			PhoneNumber: request.Customer.PhoneNumber,
		})
	}
	if err != nil {
		return err
	}

	booking, err := s.createBooking(c, postBookingRequest{
		CustomerID: customer.CustomerID,
		FlightID:   request.Booking.FlightID,
		Date:       request.Booking.Date,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, guestBookingResponse{
		Customer: customer,
		Booking:  booking,
	})
}
