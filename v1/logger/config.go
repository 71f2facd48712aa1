package logger

// Log levels accepted in configuration.
const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

// Config controls logger construction.
type Config struct {
	// Level is one of debug, info, warning, error. Anything else falls
	// back to info.
	Level string

	// ServiceName is attached to every log entry.
	ServiceName string
}
