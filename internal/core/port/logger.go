package port

// Fields carries structured log attributes.
type Fields map[string]interface{}

// LoggerPort is the logging contract of the core. Adapters decide where the
// entries go (stdout, fluentd or both).
type LoggerPort interface {
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)
	// Error logs err under the "error" key.
	Error(msg string, err error, fields Fields)
	Debug(msg string, fields Fields)

	// WithFields returns a child logger with the fields attached to every entry.
	WithFields(fields Fields) LoggerPort
}
