package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"travelagent/entity"
)

type postBookingRequest struct {
	CustomerID string    `json:"customer_id"`
	FlightID   string    `json:"flight_id"`
	Date       time.Time `json:"date"`
}

func (s Server) PostBooking(c echo.Context) error {
	var request postBookingRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	booking, err := s.createBooking(c, request)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, booking)
}

func (s Server) createBooking(c echo.Context, request postBookingRequest) (entity.Booking, error) {
	if request.Date.IsZero() {
		return entity.Booking{}, echo.NewHTTPError(http.StatusBadRequest, "date is required")
	}

	ctx := c.Request().Context()

	if _, err := s.customersRepo.FindByID(ctx, request.CustomerID); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return entity.Booking{}, echo.NewHTTPError(http.StatusBadRequest, "customer does not exist")
		}
		return entity.Booking{}, err
	}
	if _, err := s.flightsRepo.FindByID(ctx, request.FlightID); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return entity.Booking{}, echo.NewHTTPError(http.StatusBadRequest, "flight does not exist")
		}
		return entity.Booking{}, err
	}

	booking, err := s.bookingsRepo.Create(ctx, entity.Booking{
		BookingID:  uuid.NewString(),
		CustomerID: request.CustomerID,
		FlightID:   request.FlightID,
		Date:       request.Date,
	})
	if err != nil {
		if errors.Is(err, entity.ErrConflict) {
			return entity.Booking{}, echo.NewHTTPError(http.StatusConflict, "this flight is already booked for this date")
		}
		return entity.Booking{}, err
	}

	return booking, nil
}

func (s Server) GetBookings(c echo.Context) error {
	bookings, err := s.bookingsRepo.FindAll(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, bookings)
}

func (s Server) GetBooking(c echo.Context) error {
	booking, err := s.bookingsRepo.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "booking not found")
		}
		return err
	}

	return c.JSON(http.StatusOK, booking)
}

func (s Server) PutBooking(c echo.Context) error {
	var request postBookingRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	booking, err := s.bookingsRepo.Update(c.Request().Context(), entity.Booking{
		BookingID:  c.Param("id"),
		CustomerID: request.CustomerID,
		FlightID:   request.FlightID,
		Date:       request.Date,
	})
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "booking not found")
		}
		if errors.Is(err, entity.ErrConflict) {
			return echo.NewHTTPError(http.StatusConflict, "this flight is already booked for this date")
		}
		return err
	}

	return c.JSON(http.StatusOK, booking)
}

func (s Server) DeleteBooking(c echo.Context) error {
	err := s.bookingsRepo.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "booking not found")
		}
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
