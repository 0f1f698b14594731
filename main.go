package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/jessevdk/go-flags"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"

	"travelagent/gateway"
	"travelagent/pubsub"
	"travelagent/service"
	"travelagent/tracing"
)

type config struct {
	HTTPAddr       string        `long:"http-addr" env:"HTTP_ADDR" default:":8080" description:"address the HTTP server listens on"`
	PostgresURL    string        `long:"postgres-url" env:"POSTGRES_URL" required:"true" description:"postgres connection string"`
	RedisAddr      string        `long:"redis-addr" env:"REDIS_ADDR" required:"true" description:"redis address"`
	JaegerEndpoint string        `long:"jaeger-endpoint" env:"JAEGER_ENDPOINT" default:"http://localhost:14268/api/traces" description:"jaeger collector endpoint"`
	GatewayTimeout time.Duration `long:"gateway-timeout" env:"GATEWAY_TIMEOUT" default:"10s" description:"timeout for calls to the booking services"`

	FlightServiceURL string `long:"flight-service-url" env:"FLIGHT_SERVICE_URL" required:"true" description:"base URL of the flight booking service"`
	TaxiServiceURL   string `long:"taxi-service-url" env:"TAXI_SERVICE_URL" required:"true" description:"base URL of the taxi booking service"`
	HotelServiceURL  string `long:"hotel-service-url" env:"HOTEL_SERVICE_URL" required:"true" description:"base URL of the hotel booking service"`
}

func main() {
	log.Init(logrus.InfoLevel)

	var cfg config
	if _, err := flags.Parse(&cfg); err != nil {
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	traceProvider := tracing.ConfigureTraceProvider(cfg.JaegerEndpoint)
	defer func() {
		if err := traceProvider.Shutdown(context.Background()); err != nil {
			log.FromContext(ctx).WithError(err).Error("failed to shutdown trace provider")
		}
	}()

	traceDB, err := otelsql.Open("postgres", cfg.PostgresURL, otelsql.WithDBSystem("postgresql"))
	if err != nil {
		panic(err)
	}
	db := sqlx.NewDb(traceDB, "postgres")
	defer db.Close()

	redisClient := pubsub.NewRedisClient(cfg.RedisAddr)
	defer redisClient.Close()

	flightService := gateway.NewBookingServiceClient(cfg.FlightServiceURL, cfg.GatewayTimeout)
	taxiService := gateway.NewBookingServiceClient(cfg.TaxiServiceURL, cfg.GatewayTimeout)
	hotelService := gateway.NewBookingServiceClient(cfg.HotelServiceURL, cfg.GatewayTimeout)

	err = service.New(
		cfg.HTTPAddr,
		db,
		redisClient,
		flightService,
		taxiService,
		hotelService,
	).Run(ctx)
	if err != nil {
		panic(err)
	}
}
