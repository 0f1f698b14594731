package pubsub

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"

	"travelagent/entity"
	"travelagent/pubsub/outbox"
)

// AuditLog keeps a permanent record of every published event.
type AuditLog interface {
	Store(ctx context.Context, eventID string, publishedAt time.Time, eventName string, payload []byte) error
}

func NewWatermillRouter(
	postgresSubscriber message.Subscriber,
	redisPublisher message.Publisher,
	redisSubscriber message.Subscriber,
	auditLog AuditLog,
	watermillLogger watermill.LoggerAdapter,
) (*message.Router, error) {
	router, err := message.NewRouter(message.RouterConfig{}, watermillLogger)
	if err != nil {
		return nil, fmt.Errorf("could not create router: %w", err)
	}

	useMiddlewares(router, watermillLogger)

	outbox.AddForwarderHandler(postgresSubscriber, redisPublisher, router, watermillLogger)

	marshaler := cqrs.JSONMarshaler{GenerateName: cqrs.StructName}

	router.AddNoPublisherHandler(
		"events_splitter",
		"events",
		redisSubscriber,
		func(msg *message.Message) error {
			eventName := marshaler.NameFromMessage(msg)
			if eventName == "" {
				return fmt.Errorf("could not get event name from message")
			}

			return redisPublisher.Publish("events."+eventName, msg)
		},
	)

	router.AddNoPublisherHandler(
		"store_to_audit_log",
		"events",
		redisSubscriber,
		func(msg *message.Message) error {
			eventName := marshaler.NameFromMessage(msg)
			if eventName == "" {
				return fmt.Errorf("could not get event name from message")
			}

			// only the header needs unmarshaling, the payload is stored as is
			type event struct {
				Header entity.EventHeader `json:"header"`
			}

			var e event
			if err := marshaler.Unmarshal(msg, &e); err != nil {
				return fmt.Errorf("could not unmarshal event header: %w", err)
			}

			return auditLog.Store(msg.Context(), e.Header.ID, e.Header.PublishedAt, eventName, msg.Payload)
		},
	)

	return router, nil
}
