package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/constants"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contextkeys"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
)

type fakePublisher struct {
	routingKey string
	msg        amqp.Publishing
	deadline   bool
	err        error
}

func (f *fakePublisher) Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error {
	f.routingKey = routingKey
	f.msg = msg
	_, f.deadline = ctx.Deadline()
	return f.err
}

type fakeInvalidate struct {
	events []domain.RecordEvent
	err    error
	ctx    context.Context
}

func (f *fakeInvalidate) Execute(ctx context.Context, event domain.RecordEvent) error {
	f.ctx = ctx
	f.events = append(f.events, event)
	return f.err
}

type nopLogger struct{}

func (nopLogger) Info(string, port.Fields) {}

func (nopLogger) Warn(string, port.Fields) {}

func (nopLogger) Error(string, error, port.Fields) {}

func (nopLogger) Debug(string, port.Fields) {}

func (l nopLogger) WithFields(port.Fields) port.LoggerPort { return l }

func TestPublishRecordEvent(t *testing.T) {
	pub := &fakePublisher{}
	adapter, err := NewRecordEventsAdapter(pub)
	require.NoError(t, err)

	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	ctx := contextkeys.ContextWithTraceID(context.Background(), "trace-9")
	event := domain.RecordEvent{Type: domain.EventRecordSaved, Kind: domain.KindAuction, RecordID: "r1", OccurredAt: at}
	require.NoError(t, adapter.Publish(ctx, event))

	assert.Equal(t, "record.saved.auction", pub.routingKey)
	assert.True(t, pub.deadline)
	assert.Equal(t, "trace-9", pub.msg.Headers[constants.HeaderTraceID])
	assert.Equal(t, domain.EventRecordSaved, pub.msg.Headers[constants.HeaderEventType])
	assert.Equal(t, amqp.Persistent, pub.msg.DeliveryMode)
	assert.NotEmpty(t, pub.msg.MessageId)

	var dto RecordEventDTO
	require.NoError(t, json.Unmarshal(pub.msg.Body, &dto))
	assert.Equal(t, event, dto.toDomain())
}

func TestPublishFailureIsWrapped(t *testing.T) {
	boom := errors.New("channel closed")
	adapter, err := NewRecordEventsAdapter(&fakePublisher{err: boom})
	require.NoError(t, err)

	err = adapter.Publish(context.Background(), domain.RecordEvent{Type: domain.EventRecordDeleted, Kind: domain.KindOffer})
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "record.deleted.offer")
}

func TestNewRecordEventsAdapterRequiresProducer(t *testing.T) {
	_, err := NewRecordEventsAdapter(nil)
	assert.Error(t, err)
}

func TestHandleMessageInvalidatesKind(t *testing.T) {
	uc := &fakeInvalidate{}
	adapter := &ListingCacheConsumerAdapter{useCase: uc, logger: nopLogger{}}

	body, _ := json.Marshal(RecordEventDTO{Type: domain.EventRecordSaved, Kind: "past_auction", RecordID: "p1"})
	d := amqp.Delivery{Body: body, Headers: amqp.Table{constants.HeaderTraceID: "trace-3"}}
	require.NoError(t, adapter.handleMessage(context.Background(), d))

	require.Len(t, uc.events, 1)
	assert.Equal(t, domain.KindPastAuction, uc.events[0].Kind)
	assert.Equal(t, "trace-3", contextkeys.TraceIDFromContext(uc.ctx))
}

func TestHandleMessageErrors(t *testing.T) {
	t.Run("malformed body is rejected", func(t *testing.T) {
		adapter := &ListingCacheConsumerAdapter{useCase: &fakeInvalidate{}, logger: nopLogger{}}
		assert.Error(t, adapter.handleMessage(context.Background(), amqp.Delivery{Body: []byte("{")}))
	})

	t.Run("unknown kind is acked", func(t *testing.T) {
		uc := &fakeInvalidate{err: domain.ErrUnknownEntityKind}
		adapter := &ListingCacheConsumerAdapter{useCase: uc, logger: nopLogger{}}
		body, _ := json.Marshal(RecordEventDTO{Type: domain.EventRecordSaved, Kind: "villas"})
		assert.NoError(t, adapter.handleMessage(context.Background(), amqp.Delivery{Body: body}))
	})

	t.Run("cache failure is returned", func(t *testing.T) {
		uc := &fakeInvalidate{err: errors.New("redis down")}
		adapter := &ListingCacheConsumerAdapter{useCase: uc, logger: nopLogger{}}
		body, _ := json.Marshal(RecordEventDTO{Type: domain.EventRecordSaved, Kind: "offer"})
		assert.Error(t, adapter.handleMessage(context.Background(), amqp.Delivery{Body: body}))
	})
}

func TestLoggerBridgeFields(t *testing.T) {
	b := &PkgLoggerBridge{}
	fields := b.toFields("queue", "q1", 42, errors.New("closed"), "dangling")
	assert.Equal(t, port.Fields{"queue": "q1", "42": "closed", "!BADKEY": "dangling"}, fields)
	assert.Nil(t, b.toFields())
}
