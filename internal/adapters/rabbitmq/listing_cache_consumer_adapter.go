package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/constants"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contextkeys"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port/usecases_port"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/pkg/rabbitmq/rabbitmq_common"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/pkg/rabbitmq/rabbitmq_consumer"
)

// ListingCacheConsumerAdapter drops cached listings when any instance writes a record.
type ListingCacheConsumerAdapter struct {
	consumer *rabbitmq_consumer.Consumer
	useCase  usecases_port.InvalidateListingsUseCasePort
	logger   port.LoggerPort
}

func NewListingCacheConsumerAdapter(
	consumerCfg rabbitmq_consumer.ConsumerConfig,
	useCase usecases_port.InvalidateListingsUseCasePort,
	logger port.LoggerPort,
	connManager *rabbitmq_common.ConnectionManager,
) (*ListingCacheConsumerAdapter, error) {
	adapter := &ListingCacheConsumerAdapter{useCase: useCase, logger: logger}

	pkgLogger := logger.WithFields(port.Fields{"component": "rabbitmq_consumer", "consumer_tag": consumerCfg.ConsumerTag})
	consumerCfg.Logger = NewPkgLoggerBridge(pkgLogger)

	consumer, err := rabbitmq_consumer.NewConsumer(consumerCfg, adapter.handleMessage, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create RabbitMQ consumer for record events: %w", err)
	}
	adapter.consumer = consumer
	return adapter, nil
}

// handleMessage acks events for unknown kinds; they can never succeed.
func (a *ListingCacheConsumerAdapter) handleMessage(ctx context.Context, d amqp.Delivery) error {
	traceID, _ := d.Headers[constants.HeaderTraceID].(string)
	if traceID == "" {
		traceID = uuid.New().String()
	}

	msgLogger := a.logger.WithFields(port.Fields{
		"trace_id":     traceID,
		"message_id":   d.MessageId,
		"routing_key":  d.RoutingKey,
		"adapter_name": "ListingCacheConsumerAdapter",
	})
	ctx = contextkeys.ContextWithLogger(ctx, msgLogger)
	ctx = contextkeys.ContextWithTraceID(ctx, traceID)

	var dto RecordEventDTO
	if err := json.Unmarshal(d.Body, &dto); err != nil {
		msgLogger.Error("Failed to unmarshal record event", err, nil)
		return fmt.Errorf("failed to unmarshal record event: %w", err)
	}

	err := a.useCase.Execute(ctx, dto.toDomain())
	if errors.Is(err, domain.ErrUnknownEntityKind) {
		return nil
	}
	return err
}

func (a *ListingCacheConsumerAdapter) Start(ctx context.Context) error {
	return a.consumer.StartConsuming(ctx)
}

func (a *ListingCacheConsumerAdapter) Close() error {
	return a.consumer.Close()
}
