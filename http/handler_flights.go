package http

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"travelagent/entity"
)

type postFlightRequest struct {
	Number      string `json:"number"`
	Departure   string `json:"departure"`
	Destination string `json:"destination"`
}

func (s Server) PostFlight(c echo.Context) error {
	var request postFlightRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	if request.Number == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "number is required")
	}
	if request.Departure == "" || request.Destination == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "departure and destination are required")
	}
	if request.Departure == request.Destination {
		return echo.NewHTTPError(http.StatusBadRequest, "departure and destination must differ")
	}

	flight, err := s.flightsRepo.Create(c.Request().Context(), entity.Flight{
		FlightID:    uuid.NewString(),
		Number:      request.Number,
		Departure:   request.Departure,
		Destination: request.Destination,
	})
	if err != nil {
		if errors.Is(err, entity.ErrConflict) {
			return echo.NewHTTPError(http.StatusConflict, "a flight with this number already exists")
		}
		return err
	}

	return c.JSON(http.StatusCreated, flight)
}

func (s Server) GetFlights(c echo.Context) error {
	flights, err := s.flightsRepo.FindAll(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, flights)
}

func (s Server) GetFlight(c echo.Context) error {
	flight, err := s.flightsRepo.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "flight not found")
		}
		return err
	}

	return c.JSON(http.StatusOK, flight)
}

func (s Server) DeleteFlight(c echo.Context) error {
	err := s.flightsRepo.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "flight not found")
		}
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
