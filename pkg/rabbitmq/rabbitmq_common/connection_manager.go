package rabbitmq_common

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	minReconnectDelay = time.Second
	maxReconnectDelay = 30 * time.Second
)

// ConnectionManager owns one AMQP connection shared by every publisher and
// consumer of the process and re-dials it when the broker drops it.
type ConnectionManager struct {
	url        string
	name       string
	connection *amqp.Connection
	mutex      sync.RWMutex
	stop       context.CancelFunc
	Logger     Logger
}

// NewConnectionManager dials the broker and starts the reconnect watcher.
func NewConnectionManager(cfg Config, logger Logger) (*ConnectionManager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = NewNoopLogger()
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &ConnectionManager{url: cfg.URL, name: cfg.ConnectionName, Logger: logger, stop: cancel}

	if _, err := m.getConnection(); err != nil {
		cancel()
		logger.Error(err, "Initial connection failed")
		return nil, fmt.Errorf("initial connection failed: %w", err)
	}

	go m.handleReconnect(ctx)
	return m, nil
}

func (m *ConnectionManager) getConnection() (*amqp.Connection, error) {
	m.mutex.RLock()
	if m.connection != nil && !m.connection.IsClosed() {
		defer m.mutex.RUnlock()
		return m.connection, nil
	}
	m.mutex.RUnlock()

	m.mutex.Lock()
	defer m.mutex.Unlock()

	// another goroutine may have reconnected while we waited for the lock
	if m.connection != nil && !m.connection.IsClosed() {
		return m.connection, nil
	}

	m.Logger.Debug("ConnectionManager: connecting")
	conn, err := amqp.DialConfig(m.url, amqp.Config{
		Heartbeat:  10 * time.Second,
		Locale:     "en_US",
		Properties: amqp.Table{"connection_name": m.name},
	})
	if err != nil {
		return nil, fmt.Errorf("ConnectionManager: failed to dial RabbitMQ: %w", err)
	}
	m.connection = conn
	m.Logger.Debug("ConnectionManager: connected")
	return m.connection, nil
}

// GetChannel opens a new channel on the shared connection.
func (m *ConnectionManager) GetChannel() (*amqp.Connection, *amqp.Channel, error) {
	conn, err := m.getConnection()
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		return conn, nil, fmt.Errorf("ConnectionManager: failed to open a channel: %w", err)
	}
	return conn, ch, nil
}

// handleReconnect waits for the broker to drop the connection and re-dials it
// with a doubling delay capped at maxReconnectDelay.
func (m *ConnectionManager) handleReconnect(ctx context.Context) {
	for {
		m.mutex.RLock()
		conn := m.connection
		m.mutex.RUnlock()

		closed := make(chan *amqp.Error, 1)
		if conn != nil && !conn.IsClosed() {
			conn.NotifyClose(closed)
		} else {
			closed <- amqp.ErrClosed
		}

		select {
		case <-ctx.Done():
			return
		case amqpErr, ok := <-closed:
			if ctx.Err() != nil {
				return
			}
			if ok && amqpErr != nil {
				m.Logger.Warn("ConnectionManager: connection lost", "reason", amqpErr.Reason)
			}
		}

		delay := minReconnectDelay
		for {
			_, err := m.getConnection()
			if err == nil {
				m.Logger.Info("ConnectionManager: reconnected")
				break
			}
			m.Logger.Error(err, "ConnectionManager: reconnect failed", "retry_in", delay.String())
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
			delay = min(delay*2, maxReconnectDelay)
		}
	}
}

// Close stops the watcher and closes the shared connection.
func (m *ConnectionManager) Close() error {
	m.stop()

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.connection == nil || m.connection.IsClosed() {
		return nil
	}
	if err := m.connection.Close(); err != nil {
		m.Logger.Error(err, "ConnectionManager: failed to close connection")
		return err
	}
	m.Logger.Debug("ConnectionManager: connection closed")
	return nil
}
