package fluentlogger

import (
	"fmt"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
)

// Config describes the Fluent Bit forward endpoint.
type Config struct {
	Host      string
	Port      int
	TagPrefix string
	// Async makes Post non-blocking; records are buffered and flushed in the background.
	Async bool
}

// NewClient opens a Fluent Bit forward client. The connection is established lazily,
// so a successful return does not mean the collector is reachable.
func NewClient(cfg Config) (*fluent.Fluent, error) {
	if cfg.TagPrefix == "" {
		return nil, fmt.Errorf("fluent tag prefix is required")
	}

	client, err := fluent.New(fluent.Config{
		FluentHost:   cfg.Host,
		FluentPort:   cfg.Port,
		TagPrefix:    cfg.TagPrefix,
		Async:        cfg.Async,
		Timeout:      3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create fluent client: %w", err)
	}

	return client, nil
}
