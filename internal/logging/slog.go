package logging

import (
	"log/slog"
	"os"

	"github.com/muenchnerfurs/roomshare/types"
)

// SlogLogger adapts a *slog.Logger to the types.Logger interface so hosts
// that already run structured slog logging can feed tracker output into it.
type SlogLogger struct {
	logger *slog.Logger
}

var _ types.Logger = (*SlogLogger)(nil)

// NewSlog wraps an existing slog.Logger.
//
// Parameters:
//   - logger: The slog.Logger all tracker log records are forwarded to
//
// Returns:
//   - *SlogLogger: An adapter satisfying types.Logger
//
// Example:
//
//	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
//	logger := NewSlog(slog.New(handler))
//	logger.Info("tracker starting", "namespace", "con-2026")
func NewSlog(logger *slog.Logger) *SlogLogger {
	return &SlogLogger{logger: logger}
}

// NewSlogDefault wraps the process-wide slog.Default() logger.
//
// Returns:
//   - *SlogLogger: An adapter forwarding to whatever handler the host has
//     installed via slog.SetDefault (the stderr text handler if none)
func NewSlogDefault() *SlogLogger {
	return &SlogLogger{logger: slog.Default()}
}

// Debug forwards a debug-level record with alternating key-value pairs.
func (l *SlogLogger) Debug(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

// Info forwards an info-level record with alternating key-value pairs.
func (l *SlogLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Info(msg, keysAndValues...)
}

// Warn forwards a warning-level record with alternating key-value pairs.
func (l *SlogLogger) Warn(msg string, keysAndValues ...any) {
	l.logger.Warn(msg, keysAndValues...)
}

// Error forwards an error-level record with alternating key-value pairs.
func (l *SlogLogger) Error(msg string, keysAndValues ...any) {
	l.logger.Error(msg, keysAndValues...)
}

// Fatal logs at error level and terminates the process. slog has no fatal
// level of its own.
func (l *SlogLogger) Fatal(msg string, keysAndValues ...any) {
	l.logger.Error(msg, keysAndValues...)
	os.Exit(1) //nolint:revive // Fatal should exit the program
}
