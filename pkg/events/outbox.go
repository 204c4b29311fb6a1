package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// Message metadata keys set by PublishTx.
const (
	MetadataEventID      = "event_id"
	MetadataEventVersion = "event_version"
)

// Outbox stores a domain event on a transaction owned by the caller, so the
// event exists if and only if the business write commits.
type Outbox interface {
	PublishTx(ctx context.Context, tx *sql.Tx, topic string, eventID uuid.UUID, version int, event any) error
}

var _ Outbox = (*EventBus)(nil)

// PublishTx marshals event as JSON and writes it to topic through tx. The
// caller's trace context travels in the message metadata.
func (b *EventBus) PublishTx(ctx context.Context, tx *sql.Tx, topic string, eventID uuid.UUID, version int, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: marshal %s: %w", topic, err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(MetadataEventID, eventID.String())
	msg.Metadata.Set(MetadataEventVersion, strconv.Itoa(version))
	injectTrace(ctx, msg)

	pub, err := b.txPublisher(tx)
	if err != nil {
		return err
	}
	if err := pub.Publish(topic, msg); err != nil { //nolint:contextcheck
		return fmt.Errorf("events: publish %s: %w", topic, err)
	}
	return nil
}

func injectTrace(ctx context.Context, msg *message.Message) {
	otel.GetTextMapPropagator().Inject(ctx, propagation.MapCarrier(msg.Metadata))
}

func extractTrace(ctx context.Context, msg *message.Message) context.Context {
	return otel.GetTextMapPropagator().Extract(ctx, propagation.MapCarrier(msg.Metadata))
}
