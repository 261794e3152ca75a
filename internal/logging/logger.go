// Package logging provides the structured logging abstraction used by the trend engine
// and the CLI. The engine only ever sees the Logger interface, so tests can swap in
// MockLogger and the CLI can pick the logrus formatter from configuration.
package logging

// Logger is the structured logger handed to every component through its constructor.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// Fatal logs at fatal level and exits the process.
	Fatal(msg string, fields ...Field)
	Fatalf(msg string, args ...interface{})

	// WithError returns a child logger carrying err on every entry.
	WithError(err error) Logger
	// WithField returns a child logger carrying key=value on every entry.
	WithField(key string, value interface{}) Logger
	// WithFields returns a child logger carrying all fields on every entry.
	WithFields(fields ...Field) Logger
}

// Field is a key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// F is shorthand for building a Field inline.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}
