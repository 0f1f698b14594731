package outbox

import (
	"context"
	stdSQL "database/sql"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-sql/v2/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jmoiron/sqlx"
)

const outboxTopic = "events_to_forward"

// NewPostgresSubscriber reads messages stored in the Postgres outbox so the
// forwarder can push them to Redis.
func NewPostgresSubscriber(db *stdSQL.DB, logger watermill.LoggerAdapter) *sql.Subscriber {
	subscriber, err := sql.NewSubscriber(
		db,
		sql.SubscriberConfig{
			SchemaAdapter:    sql.DefaultPostgreSQLSchema{},
			OffsetsAdapter:   sql.DefaultPostgreSQLOffsetsAdapter{},
			InitializeSchema: true,
		},
		logger,
	)
	if err != nil {
		panic(fmt.Errorf("could not create postgres subscriber: %w", err))
	}

	return subscriber
}

// InitializeSchema creates the outbox tables. The forwarder does this on
// start too; callers publishing before the forwarder runs call it directly.
func InitializeSchema(db *stdSQL.DB, logger watermill.LoggerAdapter) error {
	return NewPostgresSubscriber(db, logger).SubscribeInitialize(outboxTopic)
}

// NewPublisherForDb returns a publisher that stores messages in the Postgres
// outbox within the given transaction, so an event is published if and only
// if the surrounding write commits.
func NewPublisherForDb(ctx context.Context, tx *sqlx.Tx) (message.Publisher, error) {
	var publisher message.Publisher

	publisher, err := sql.NewPublisher(
		tx,
		sql.PublisherConfig{
			SchemaAdapter: sql.DefaultPostgreSQLSchema{},
		},
		watermill.NopLogger{},
	)
	if err != nil {
		return nil, fmt.Errorf("could not create postgres publisher: %w", err)
	}

	publisher = forwarder.NewPublisher(publisher, forwarder.PublisherConfig{
		ForwarderTopic: outboxTopic,
	})

	return publisher, nil
}

func AddForwarderHandler(
	postgresSubscriber message.Subscriber,
	redisPublisher message.Publisher,
	router *message.Router,
	logger watermill.LoggerAdapter,
) {
	_, err := forwarder.NewForwarder(
		postgresSubscriber,
		redisPublisher,
		logger,
		forwarder.Config{
			ForwarderTopic: outboxTopic,
			Router:         router,
		},
	)
	if err != nil {
		panic(fmt.Errorf("could not create forwarder: %w", err))
	}
}
