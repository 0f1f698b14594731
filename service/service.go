package service

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"travelagent/db"
	"travelagent/db/bookings"
	"travelagent/db/customers"
	"travelagent/db/events"
	"travelagent/db/flights"
	"travelagent/db/travel_bookings"
	"travelagent/http"
	"travelagent/pubsub"
	"travelagent/pubsub/bus"
	"travelagent/pubsub/outbox"
	"travelagent/saga"
)

func init() {
	log.Init(logrus.InfoLevel)
}

type Service struct {
	db              *sqlx.DB
	watermillRouter *message.Router
	httpServer      *http.Server
}

func New(
	addr string,
	db *sqlx.DB,
	redisClient *redis.Client,
	flightService saga.BookingClient,
	taxiService saga.BookingClient,
	hotelService saga.BookingClient,
) Service {
	customersRepo := customers.NewPostgresRepository(db)
	flightsRepo := flights.NewPostgresRepository(db)
	bookingsRepo := bookings.NewPostgresRepository(db)
	travelBookingsRepo := travel_bookings.NewPostgresRepository(db)
	eventsRepo := events.NewPostgresRepository(db)

	watermillLogger := log.NewWatermill(log.FromContext(context.Background()))

	var redisPublisher message.Publisher
	redisPublisher = pubsub.NewRedisPublisher(redisClient, watermillLogger)
	redisPublisher = log.CorrelationPublisherDecorator{Publisher: redisPublisher}

	eventBus, err := bus.NewEventBus(redisPublisher)
	if err != nil {
		panic(fmt.Errorf("failed to create event bus: %w", err))
	}

	coordinator := saga.NewCoordinator(
		flightService,
		taxiService,
		hotelService,
		travelBookingsRepo,
		eventBus,
	)
	deletionCoordinator := saga.NewDeletionCoordinator(
		flightService,
		taxiService,
		hotelService,
		travelBookingsRepo,
	)

	postgresSubscriber := outbox.NewPostgresSubscriber(db.DB, watermillLogger)
	redisSubscriber := pubsub.NewRedisSubscriber(redisClient, "svc-travelagent.events", watermillLogger)

	watermillRouter, err := pubsub.NewWatermillRouter(
		postgresSubscriber,
		redisPublisher,
		redisSubscriber,
		eventsRepo,
		watermillLogger,
	)
	if err != nil {
		panic(fmt.Errorf("failed to create watermill router: %w", err))
	}

	httpServer := http.NewServer(
		addr,
		customersRepo,
		flightsRepo,
		bookingsRepo,
		travelBookingsRepo,
		coordinator,
		deletionCoordinator,
		taxiService,
		hotelService,
	)

	return Service{
		db,
		watermillRouter,
		httpServer,
	}
}

func (s Service) Run(ctx context.Context) error {
	if err := db.InitializeDatabaseSchema(s.db); err != nil {
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.watermillRouter.Run(ctx)
	})

	g.Go(func() error {
		// the HTTP server must not report healthy before the router runs
		<-s.watermillRouter.Running()

		return s.httpServer.Run(ctx)
	})

	return g.Wait()
}
