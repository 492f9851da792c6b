package contextkeys

import (
	"context"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
)

type loggerKeyType struct{}

var loggerKey = loggerKeyType{}

// ContextWithLogger stores the request-scoped logger.
func ContextWithLogger(ctx context.Context, logger port.LoggerPort) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext returns the stored logger, or a logger that drops everything.
func LoggerFromContext(ctx context.Context) port.LoggerPort {
	if logger, ok := ctx.Value(loggerKey).(port.LoggerPort); ok {
		return logger
	}
	return &noopLogger{}
}

type noopLogger struct{}

func (n *noopLogger) Info(msg string, fields port.Fields)             {}
func (n *noopLogger) Warn(msg string, fields port.Fields)             {}
func (n *noopLogger) Error(msg string, err error, fields port.Fields) {}
func (n *noopLogger) Debug(msg string, fields port.Fields)            {}
func (n *noopLogger) WithFields(fields port.Fields) port.LoggerPort   { return n }
