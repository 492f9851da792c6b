package logger_adapter

import (
	"fmt"
	"log/slog"
	"maps"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
)

// fluentPoster is the part of *fluent.Fluent the adapter needs.
type fluentPoster interface {
	Post(tag string, message interface{}) error
	Close() error
}

// FluentLoggerAdapter ships entries to Fluent Bit. The level is the tag, so
// routing happens on "<prefix>.info", "<prefix>.error" and so on.
type FluentLoggerAdapter struct {
	client   fluentPoster
	fields   port.Fields
	minLevel slog.Level
}

func NewFluentLoggerAdapter(client *fluent.Fluent, minLevel slog.Leveler) (*FluentLoggerAdapter, error) {
	if client == nil {
		return nil, fmt.Errorf("fluent client cannot be nil")
	}
	return newFluentLoggerAdapter(client, minLevel), nil
}

func newFluentLoggerAdapter(client fluentPoster, minLevel slog.Leveler) *FluentLoggerAdapter {
	level := slog.LevelInfo
	if minLevel != nil {
		level = minLevel.Level()
	}
	return &FluentLoggerAdapter{
		client:   client,
		fields:   make(port.Fields),
		minLevel: level,
	}
}

func (a *FluentLoggerAdapter) mergeFields(fields port.Fields) port.Fields {
	merged := make(port.Fields, len(a.fields)+len(fields)+3)
	maps.Copy(merged, a.fields)
	maps.Copy(merged, fields)
	return merged
}

func (a *FluentLoggerAdapter) post(level slog.Level, msg string, data port.Fields) {
	if level < a.minLevel {
		return
	}
	tag := map[slog.Level]string{
		slog.LevelDebug: "debug",
		slog.LevelInfo:  "info",
		slog.LevelWarn:  "warn",
		slog.LevelError: "error",
	}[level]

	data["level"] = tag
	data["message"] = msg
	data["timestamp"] = time.Now().UTC().Format(time.RFC3339Nano)

	// a broken log pipe must not break request handling
	_ = a.client.Post(tag, data)
}

func (a *FluentLoggerAdapter) Info(msg string, fields port.Fields) {
	a.post(slog.LevelInfo, msg, a.mergeFields(fields))
}

func (a *FluentLoggerAdapter) Warn(msg string, fields port.Fields) {
	a.post(slog.LevelWarn, msg, a.mergeFields(fields))
}

func (a *FluentLoggerAdapter) Error(msg string, err error, fields port.Fields) {
	data := a.mergeFields(fields)
	if err != nil {
		data["error"] = err.Error()
	}
	a.post(slog.LevelError, msg, data)
}

func (a *FluentLoggerAdapter) Debug(msg string, fields port.Fields) {
	a.post(slog.LevelDebug, msg, a.mergeFields(fields))
}

func (a *FluentLoggerAdapter) WithFields(fields port.Fields) port.LoggerPort {
	return &FluentLoggerAdapter{
		client:   a.client,
		fields:   a.mergeFields(fields),
		minLevel: a.minLevel,
	}
}

func (a *FluentLoggerAdapter) Close() error {
	return a.client.Close()
}
