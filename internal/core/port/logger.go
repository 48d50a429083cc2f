package port

type Fields map[string]interface{}

// LoggerPort is the logging contract the core depends on. Adapters fan out to
// slog, fluent-bit or both.
type LoggerPort interface {
	Info(msg string, fields Fields)

	Warn(msg string, fields Fields)

	Error(msg string, err error, fields Fields)

	Debug(msg string, fields Fields)
	// WithFields returns a new logger with the fields already attached.
	WithFields(fields Fields) LoggerPort
}
