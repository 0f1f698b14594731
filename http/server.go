package http

import (
	"context"
	"errors"
	"net/http"

	echoHTTP "github.com/ThreeDotsLabs/go-event-driven/common/http"
	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"travelagent/entity"
	"travelagent/saga"
)

type CustomersRepository interface {
	Create(ctx context.Context, customer entity.Customer) (entity.Customer, error)
	FindByEmail(ctx context.Context, email string) (entity.Customer, error)
	FindByID(ctx context.Context, customerID string) (entity.Customer, error)
	FindAll(ctx context.Context) ([]entity.Customer, error)
	Delete(ctx context.Context, customerID string) error
}

type FlightsRepository interface {
	Create(ctx context.Context, flight entity.Flight) (entity.Flight, error)
	FindByID(ctx context.Context, flightID string) (entity.Flight, error)
	FindAll(ctx context.Context) ([]entity.Flight, error)
	Delete(ctx context.Context, flightID string) error
}

type BookingsRepository interface {
	Create(ctx context.Context, booking entity.Booking) (entity.Booking, error)
	FindByID(ctx context.Context, bookingID string) (entity.Booking, error)
	FindAll(ctx context.Context) ([]entity.Booking, error)
	Update(ctx context.Context, booking entity.Booking) (entity.Booking, error)
	Delete(ctx context.Context, bookingID string) error
}

type Server struct {
	addr string
	e    *echo.Echo

	customersRepo      CustomersRepository
	flightsRepo        FlightsRepository
	bookingsRepo       BookingsRepository
	travelBookingsRepo entity.TravelBookingRepository

	coordinator         *saga.Coordinator
	deletionCoordinator *saga.DeletionCoordinator

	taxiService  saga.BookingClient
	hotelService saga.BookingClient
}

func NewServer(
	addr string,
	customersRepo CustomersRepository,
	flightsRepo FlightsRepository,
	bookingsRepo BookingsRepository,
	travelBookingsRepo entity.TravelBookingRepository,
	coordinator *saga.Coordinator,
	deletionCoordinator *saga.DeletionCoordinator,
	taxiService saga.BookingClient,
	hotelService saga.BookingClient,
) *Server {
	e := echoHTTP.NewEcho()
	e.Use(otelecho.Middleware("travelagent"))

	server := &Server{
		addr:                addr,
		e:                   e,
		customersRepo:       customersRepo,
		flightsRepo:         flightsRepo,
		bookingsRepo:        bookingsRepo,
		travelBookingsRepo:  travelBookingsRepo,
		coordinator:         coordinator,
		deletionCoordinator: deletionCoordinator,
		taxiService:         taxiService,
		hotelService:        hotelService,
	}

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.POST("/customers", server.PostCustomer)
	e.GET("/customers", server.GetCustomers)
	e.GET("/customers/:id", server.GetCustomer)
	e.GET("/customers/email/:email", server.GetCustomerByEmail)
	e.DELETE("/customers/:id", server.DeleteCustomer)

	e.POST("/flights", server.PostFlight)
	e.GET("/flights", server.GetFlights)
	e.GET("/flights/:id", server.GetFlight)
	e.DELETE("/flights/:id", server.DeleteFlight)

	e.POST("/bookings", server.PostBooking)
	e.GET("/bookings", server.GetBookings)
	e.GET("/bookings/:id", server.GetBooking)
	e.PUT("/bookings/:id", server.PutBooking)
	e.DELETE("/bookings/:id", server.DeleteBooking)

	e.POST("/guest-bookings", server.PostGuestBooking)

	e.POST("/travel-bookings", server.PostTravelBooking)
	e.GET("/travel-bookings", server.GetTravelBookings)
	e.GET("/travel-bookings/:id", server.GetTravelBooking)
	e.DELETE("/travel-bookings/:id", server.DeleteTravelBooking)

	return server
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		err := s.e.Shutdown(ctx)
		if err != nil {
			log.FromContext(ctx).WithError(err).Error("failed to shutdown HTTP server")
		}
	}()

	log.FromContext(ctx).WithField("addr", s.addr).Info("[HTTP] server listening")
	if err := s.e.Start(s.addr); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
