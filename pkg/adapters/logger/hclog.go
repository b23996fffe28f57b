package logger

import (
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/ideamans/go-l10n"
	"github.com/user/avplay/pkg/ports"
)

// HCLogger writes structured log lines through go-hclog. Messages are
// translated like the console logger; the component becomes the logger
// name.
type HCLogger struct {
	l hclog.Logger
}

// HCLogOptions configures NewHCLog.
type HCLogOptions struct {
	Name   string
	Level  ports.LogLevel
	JSON   bool
	Output io.Writer
}

// NewHCLog creates a structured logger.
func NewHCLog(opts HCLogOptions) *HCLogger {
	return &HCLogger{
		l: hclog.New(&hclog.LoggerOptions{
			Name:       opts.Name,
			Level:      hclogLevel(opts.Level),
			Output:     opts.Output,
			JSONFormat: opts.JSON,
		}),
	}
}

func hclogLevel(level ports.LogLevel) hclog.Level {
	switch level {
	case ports.LevelDebug:
		return hclog.Debug
	case ports.LevelInfo:
		return hclog.Info
	case ports.LevelWarn:
		return hclog.Warn
	case ports.LevelError:
		return hclog.Error
	default:
		return hclog.Off
	}
}

// Debug logs a debug message.
func (h *HCLogger) Debug(msg string, args ...interface{}) {
	h.l.Debug(l10n.F(msg, args...))
}

// Info logs an informational message.
func (h *HCLogger) Info(msg string, args ...interface{}) {
	h.l.Info(l10n.F(msg, args...))
}

// Warn logs a warning message.
func (h *HCLogger) Warn(msg string, args ...interface{}) {
	h.l.Warn(l10n.F(msg, args...))
}

// Error logs an error message.
func (h *HCLogger) Error(msg string, args ...interface{}) {
	h.l.Error(l10n.F(msg, args...))
}

// WithComponent returns a sub-logger named after component.
func (h *HCLogger) WithComponent(component string) ports.Logger {
	return &HCLogger{l: h.l.Named(component)}
}

var _ ports.Logger = (*HCLogger)(nil)
