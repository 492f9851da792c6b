package rabbitmq_producer

import (
	"context"
	"fmt"
	"sync"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/pkg/rabbitmq/rabbitmq_common"

	amqp "github.com/rabbitmq/amqp091-go"
)

// PublisherConfig configures a publisher bound to one exchange.
type PublisherConfig struct {
	rabbitmq_common.Config
	ExchangeName    string // empty means the default exchange
	ExchangeType    string // direct, fanout, topic, headers
	DurableExchange bool

	// DeclareExchangeIfMissing declares the exchange on start instead of assuming it exists.
	DeclareExchangeIfMissing bool

	Logger rabbitmq_common.Logger
}

// Publisher publishes messages on a dedicated channel of the shared connection.
type Publisher struct {
	config     PublisherConfig
	connection *amqp.Connection
	channel    *amqp.Channel
	mu         sync.Mutex // amqp channels are not safe for concurrent publishing

	Logger rabbitmq_common.Logger
}

// NewPublisher opens a channel and optionally declares the exchange.
func NewPublisher(cfg PublisherConfig, connManager *rabbitmq_common.ConnectionManager) (*Publisher, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = rabbitmq_common.NewNoopLogger()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("producer: invalid base config: %w", err)
	}
	if cfg.DeclareExchangeIfMissing && (cfg.ExchangeName == "" || cfg.ExchangeType == "") {
		return nil, fmt.Errorf("producer: exchange name and type are required to declare an exchange")
	}

	conn, ch, err := connManager.GetChannel()
	if err != nil {
		return nil, fmt.Errorf("producer: failed to get channel from manager: %w", err)
	}

	p := &Publisher{
		config:     cfg,
		connection: conn,
		channel:    ch,
		Logger:     logger,
	}

	if cfg.DeclareExchangeIfMissing {
		p.Logger.Debug("Declaring exchange", "name", cfg.ExchangeName, "type", cfg.ExchangeType)
		err = ch.ExchangeDeclare(
			cfg.ExchangeName,
			cfg.ExchangeType,
			cfg.DurableExchange,
			false, // auto-delete
			false, // internal
			false, // no-wait
			nil,
		)
		if err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("producer: failed to declare exchange '%s': %w", cfg.ExchangeName, err)
		}
	}

	p.Logger.Debug("Publisher ready", "exchange", cfg.ExchangeName)
	return p, nil
}

// Publish sends one message with the given routing key.
func (p *Publisher) Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil || p.connection == nil || p.connection.IsClosed() {
		return fmt.Errorf("producer: not connected or channel is closed")
	}

	err := p.channel.PublishWithContext(
		ctx,
		p.config.ExchangeName,
		routingKey,
		false, // mandatory
		false, // immediate
		msg,
	)
	if err != nil {
		return fmt.Errorf("producer: failed to publish message: %w", err)
	}
	return nil
}

// Close closes the publisher channel. The shared connection stays open.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil {
		return nil
	}
	err := p.channel.Close()
	p.channel = nil
	if err != nil {
		p.Logger.Error(err, "Error closing publisher channel")
		return err
	}
	p.Logger.Info("Publisher closed")
	return nil
}
