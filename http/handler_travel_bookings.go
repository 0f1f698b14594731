package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"travelagent/entity"
	"travelagent/saga"
)

type postTravelBookingRequest struct {
	Customer      entity.Customer `json:"customer"`
	FlightBooking struct {
		FlightID string    `json:"flight_id"`
		Date     time.Time `json:"date"`
	} `json:"flight_booking"`
}

type travelBookingFailureResponse struct {
	FailedLeg          string   `json:"failed_leg"`
	Compensated        bool     `json:"compensated"`
	OrphanedBookingIDs []string `json:"orphaned_booking_ids,omitempty"`
}

type travelBookingDetailsResponse struct {
	TravelBooking entity.TravelBooking `json:"travel_booking"`
	TaxiBooking   entity.Booking       `json:"taxi_booking"`
	HotelBooking  entity.Booking       `json:"hotel_booking"`
}

func (s Server) PostTravelBooking(c echo.Context) error {
	var request postTravelBookingRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	if request.Customer.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "customer email is required")
	}
	if request.FlightBooking.FlightID == "" || request.FlightBooking.Date.IsZero() {
		return echo.NewHTTPError(http.StatusBadRequest, "flight_booking flight_id and date are required")
	}

	travelBooking, err := s.coordinator.CreateTravelBooking(
		c.Request().Context(),
		request.Customer,
		entity.BookingRequest{
			CustomerID: request.Customer.CustomerID,
			FlightID:   request.FlightBooking.FlightID,
			Date:       request.FlightBooking.Date,
		},
	)
	if err != nil {
		return travelBookingError(c, err)
	}

	return c.JSON(http.StatusCreated, travelBooking)
}

// travelBookingError maps the saga error taxonomy to HTTP statuses. A clean
// rollback is the caller's fault (bad request); a failed compensation is a
// cross-service inconsistency and must surface as a server error.
func travelBookingError(c echo.Context, err error) error {
	var rejected *saga.BookingRejectedError
	if errors.As(err, &rejected) {
		response := travelBookingFailureResponse{
			FailedLeg:   string(rejected.Leg),
			Compensated: rejected.Compensation == nil,
		}

		if rejected.Compensation != nil {
			response.OrphanedBookingIDs = rejected.Compensation.OrphanedBookingIDs()
			return c.JSON(http.StatusInternalServerError, response)
		}

		return c.JSON(http.StatusBadRequest, response)
	}

	var commitErr *saga.CommitError
	if errors.As(err, &commitErr) {
		response := travelBookingFailureResponse{
			FailedLeg:   "commit",
			Compensated: commitErr.Compensation == nil,
		}
		if commitErr.Compensation != nil {
			response.OrphanedBookingIDs = commitErr.Compensation.OrphanedBookingIDs()
		}

		return c.JSON(http.StatusInternalServerError, response)
	}

	return err
}

func (s Server) GetTravelBookings(c echo.Context) error {
	travelBookings, err := s.travelBookingsRepo.FindAll(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, travelBookings)
}

func (s Server) GetTravelBooking(c echo.Context) error {
	ctx := c.Request().Context()

	travelBooking, err := s.travelBookingsRepo.FindByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "travel booking not found")
		}
		return err
	}

	taxiBooking, err := s.taxiService.GetBookingByID(ctx, travelBooking.TaxiBookingID)
	if err != nil {
		return fmt.Errorf("could not get taxi booking: %w", err)
	}

	hotelBooking, err := s.hotelService.GetBookingByID(ctx, travelBooking.HotelBookingID)
	if err != nil {
		return fmt.Errorf("could not get hotel booking: %w", err)
	}

	return c.JSON(http.StatusOK, travelBookingDetailsResponse{
		TravelBooking: travelBooking,
		TaxiBooking:   taxiBooking,
		HotelBooking:  hotelBooking,
	})
}

func (s Server) DeleteTravelBooking(c echo.Context) error {
	err := s.deletionCoordinator.DeleteTravelBooking(c.Request().Context(), c.Param("id"))
	if err != nil {
		// the inconsistency check must come first: the per-leg errors it wraps
		// may themselves be ErrNotFound, and an incomplete teardown must never
		// look like a missing travel booking
		var inconsistent *saga.InconsistentDeleteError
		if errors.As(err, &inconsistent) {
			return c.JSON(http.StatusInternalServerError, map[string]any{
				"message":     "travel booking teardown is incomplete, manual reconciliation needed",
				"failed_legs": inconsistent.FailedLegs,
			})
		}

		if errors.Is(err, entity.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "travel booking not found")
		}

		return err
	}

	return c.NoContent(http.StatusNoContent)
}
