package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/constants"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contextkeys"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
)

type publisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

// RecordEventsAdapter publishes record events to the topic exchange.
type RecordEventsAdapter struct {
	producer       publisher
	publishTimeout time.Duration
}

func NewRecordEventsAdapter(producer publisher) (*RecordEventsAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	return &RecordEventsAdapter{producer: producer, publishTimeout: 10 * time.Second}, nil
}

func (a *RecordEventsAdapter) Publish(ctx context.Context, event domain.RecordEvent) error {
	routingKey := routingKeyFor(event)
	adapterLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "RecordEventsAdapter",
		"routing_key": routingKey,
		"record_id":   event.RecordID,
	})

	body, err := json.Marshal(toRecordEventDTO(event))
	if err != nil {
		return fmt.Errorf("rabbitmq adapter: failed to marshal event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now(),
		Headers: amqp.Table{
			constants.HeaderEventType:    event.Type,
			constants.HeaderEventVersion: constants.RecordEventVersion,
		},
	}
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		msg.Headers[constants.HeaderTraceID] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, a.publishTimeout)
	defer cancel()

	if err := a.producer.Publish(publishCtx, routingKey, msg); err != nil {
		adapterLogger.Error("Failed to publish record event", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to publish %s: %w", routingKey, err)
	}

	adapterLogger.Debug("Record event published", nil)
	return nil
}
