package logger_adapter

import (
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/lmittmann/tint"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
)

// SlogAdapter implements LoggerPort on top of log/slog.
type SlogAdapter struct {
	logger *slog.Logger
}

type SlogConfig struct {
	// Writer defaults to os.Stdout.
	Writer    io.Writer
	Level     slog.Leveler
	AddSource bool
	IsJSON    bool
	// UseColor switches the text output to tint.
	UseColor bool
}

func NewSlogAdapter(cfg SlogConfig) port.LoggerPort {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}
	if cfg.Level == nil {
		cfg.Level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		AddSource: cfg.AddSource,
		Level:     cfg.Level,
	}

	var handler slog.Handler
	switch {
	case cfg.IsJSON:
		handler = slog.NewJSONHandler(cfg.Writer, opts)
	case cfg.UseColor:
		handler = tint.NewHandler(cfg.Writer, &tint.Options{
			Level:      cfg.Level,
			AddSource:  cfg.AddSource,
			TimeFormat: "2006-01-02 15:04:05",
		})
	default:
		handler = slog.NewTextHandler(cfg.Writer, opts)
	}

	return &SlogAdapter{logger: slog.New(handler)}
}

// fieldsToAttrs sorts keys so that entries are stable across runs.
func fieldsToAttrs(fields port.Fields) []any {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]any, 0, len(fields))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, fields[k]))
	}
	return attrs
}

func (a *SlogAdapter) Info(msg string, fields port.Fields) {
	a.logger.Info(msg, fieldsToAttrs(fields)...)
}

func (a *SlogAdapter) Warn(msg string, fields port.Fields) {
	a.logger.Warn(msg, fieldsToAttrs(fields)...)
}

func (a *SlogAdapter) Error(msg string, err error, fields port.Fields) {
	attrs := fieldsToAttrs(fields)
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	a.logger.Error(msg, attrs...)
}

func (a *SlogAdapter) Debug(msg string, fields port.Fields) {
	a.logger.Debug(msg, fieldsToAttrs(fields)...)
}

func (a *SlogAdapter) WithFields(fields port.Fields) port.LoggerPort {
	return &SlogAdapter{logger: a.logger.With(fieldsToAttrs(fields)...)}
}
