package rabbitmq_consumer

import (
	"context"
	"fmt"
	"sync"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/pkg/rabbitmq/rabbitmq_common"

	amqp "github.com/rabbitmq/amqp091-go"
)

// MessageHandler processes one delivery. A nil error acks the message,
// an error nacks it without requeue.
type MessageHandler func(ctx context.Context, delivery amqp.Delivery) error

// ConsumerConfig configures the queue, its binding and QoS.
type ConsumerConfig struct {
	rabbitmq_common.Config

	// QueueName may be empty together with ExclusiveQueue to get a server-named queue.
	QueueName       string
	DurableQueue    bool
	ExclusiveQueue  bool
	AutoDeleteQueue bool
	QueueArgs       amqp.Table

	ExchangeNameForBind    string
	ExchangeTypeForBind    string
	DeclareExchangeForBind bool
	DurableExchangeForBind bool
	RoutingKeysForBind     []string

	PrefetchCount int
	ConsumerTag   string

	Logger rabbitmq_common.Logger
}

// Consumer reads deliveries from one queue and runs the handler for each of them
// in its own goroutine.
type Consumer struct {
	config     ConsumerConfig
	connection *amqp.Connection
	channel    *amqp.Channel
	queueName  string
	handler    MessageHandler
	wg         sync.WaitGroup

	Logger rabbitmq_common.Logger
}

// NewConsumer opens a channel and declares the queue, exchange and bindings.
func NewConsumer(cfg ConsumerConfig, handler MessageHandler, connManager *rabbitmq_common.ConnectionManager) (*Consumer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = rabbitmq_common.NewNoopLogger()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("consumer: invalid base config: %w", err)
	}
	if handler == nil {
		return nil, fmt.Errorf("consumer: message handler is required")
	}
	if cfg.QueueName == "" && !cfg.ExclusiveQueue {
		return nil, fmt.Errorf("consumer: queue name is required for a shared queue")
	}
	if cfg.DeclareExchangeForBind && cfg.ExchangeTypeForBind == "" {
		return nil, fmt.Errorf("consumer: exchange type is required to declare an exchange")
	}

	conn, ch, err := connManager.GetChannel()
	if err != nil {
		return nil, fmt.Errorf("consumer: failed to get channel from manager: %w", err)
	}

	c := &Consumer{
		config:     cfg,
		connection: conn,
		channel:    ch,
		handler:    handler,
		Logger:     logger,
	}

	if err := c.setup(); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("consumer: setup failed: %w", err)
	}
	return c, nil
}

func (c *Consumer) setup() error {
	if c.config.PrefetchCount > 0 {
		if err := c.channel.Qos(c.config.PrefetchCount, 0, false); err != nil {
			return fmt.Errorf("failed to set QoS: %w", err)
		}
	}

	q, err := c.channel.QueueDeclare(
		c.config.QueueName,
		c.config.DurableQueue,
		c.config.AutoDeleteQueue,
		c.config.ExclusiveQueue,
		false, // no-wait
		c.config.QueueArgs,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue '%s': %w", c.config.QueueName, err)
	}
	c.queueName = q.Name

	if c.config.ExchangeNameForBind == "" {
		return nil
	}

	if c.config.DeclareExchangeForBind {
		c.Logger.Debug("Declaring exchange", "name", c.config.ExchangeNameForBind, "type", c.config.ExchangeTypeForBind)
		err := c.channel.ExchangeDeclare(
			c.config.ExchangeNameForBind,
			c.config.ExchangeTypeForBind,
			c.config.DurableExchangeForBind,
			false, false, false, nil,
		)
		if err != nil {
			return fmt.Errorf("failed to declare exchange '%s': %w", c.config.ExchangeNameForBind, err)
		}
	}

	keys := c.config.RoutingKeysForBind
	if len(keys) == 0 {
		keys = []string{""}
	}
	for _, key := range keys {
		c.Logger.Debug("Binding queue", "queue", c.queueName, "exchange", c.config.ExchangeNameForBind, "routing_key", key)
		if err := c.channel.QueueBind(c.queueName, key, c.config.ExchangeNameForBind, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue '%s' with key '%s': %w", c.queueName, key, err)
		}
	}
	return nil
}

// StartConsuming blocks until ctx is cancelled or the connection is closed.
func (c *Consumer) StartConsuming(ctx context.Context) error {
	if c.channel == nil || c.connection == nil || c.connection.IsClosed() {
		return fmt.Errorf("consumer: not connected")
	}

	msgs, err := c.channel.Consume(
		c.queueName,
		c.config.ConsumerTag,
		false, // auto-ack
		c.config.ExclusiveQueue,
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("consumer: failed to register on queue '%s': %w", c.queueName, err)
	}

	notifyClose := c.connection.NotifyClose(make(chan *amqp.Error, 1))
	c.Logger.Info("Waiting for messages", "queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			c.Logger.Info("Context cancelled, consumer stops", "queue", c.queueName)
			return nil

		case amqpErr := <-notifyClose:
			if amqpErr == nil {
				return nil
			}
			c.Logger.Error(amqpErr, "Connection closed for consumer", "queue", c.queueName)
			return amqpErr

		case d, ok := <-msgs:
			if !ok {
				c.Logger.Info("Deliveries channel closed", "queue", c.queueName)
				return nil
			}
			c.wg.Add(1)
			go c.process(ctx, d)
		}
	}
}

func (c *Consumer) process(ctx context.Context, d amqp.Delivery) {
	defer c.wg.Done()

	if err := c.handler(ctx, d); err != nil {
		c.Logger.Error(err, "Handler failed, message dropped", "delivery_tag", d.DeliveryTag, "routing_key", d.RoutingKey)
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)
	c.Logger.Debug("Message acked", "delivery_tag", d.DeliveryTag)
}

// Close waits for running handlers and closes the channel.
func (c *Consumer) Close() error {
	c.wg.Wait()
	if c.channel == nil {
		return nil
	}
	err := c.channel.Close()
	c.channel = nil
	if err != nil {
		c.Logger.Error(err, "Error closing consumer channel")
		return err
	}
	c.Logger.Info("Consumer closed")
	return nil
}
