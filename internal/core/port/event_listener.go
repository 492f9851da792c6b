package port

import "context"

// EventListenerPort is a long-running inbound adapter.
type EventListenerPort interface {
	Start(ctx context.Context) error
	Close() error
}
