// Package logger provides the application logger built on Uber's Zap.
//
// The logger is configured for structured JSON output with ISO8601
// timestamps, a level taken from configuration, and the service name and
// process id attached to every entry. The fx module registers a shutdown
// hook that flushes buffered entries.
package logger
