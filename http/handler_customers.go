package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"travelagent/entity"
)

type postCustomerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

func (s Server) PostCustomer(c echo.Context) error {
	var request postCustomerRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	if request.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if !strings.Contains(request.Email, "@") {
		return echo.NewHTTPError(http.StatusBadRequest, "a valid email is required")
	}
	if request.PhoneNumber == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "phone_number is required")
	}

	customer, err := s.customersRepo.Create(c.Request().Context(), entity.Customer{
		CustomerID:  uuid.NewString(),
		Name:        request.Name,
		Email:       request.Email,
		PhoneNumber: request.PhoneNumber,
	})
	if err != nil {
		if errors.Is(err, entity.ErrConflict) {
			return echo.NewHTTPError(http.StatusConflict, "a customer with this email already exists")
		}
		return err
	}

	return c.JSON(http.StatusCreated, customer)
}

func (s Server) GetCustomers(c echo.Context) error {
	customers, err := s.customersRepo.FindAll(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, customers)
}

func (s Server) GetCustomer(c echo.Context) error {
	customer, err := s.customersRepo.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "customer not found")
		}
		return err
	}

	return c.JSON(http.StatusOK, customer)
}

func (s Server) GetCustomerByEmail(c echo.Context) error {
	customer, err := s.customersRepo.FindByEmail(c.Request().Context(), c.Param("email"))
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "customer not found")
		}
		return err
	}

	return c.JSON(http.StatusOK, customer)
}

func (s Server) DeleteCustomer(c echo.Context) error {
	err := s.customersRepo.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "customer not found")
		}
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
