package stream

import (
	"context"
	"fmt"
	"log/slog"
)

func formatMsg(format string, args ...any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// Logger is the engine's narrow logging seam, shaped after this family's
// metrics.Provider pattern (metrics/provider.go): a small leveled
// interface so callers can plug in any backend — slog, zap, zerolog,
// logrus — behind three methods, without the engine importing any of them
// directly. Logging here is purely additive diagnostics (a demand-spawn
// firing, a region draining); it never drives control flow, and the
// default Engine uses a no-op Logger.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debugf(string, ...any) {}
func (noopLogger) Infof(string, ...any)  {}
func (noopLogger) Errorf(string, ...any) {}

// slogLogger adapts *slog.Logger to the Logger interface.
type slogLogger struct {
	l *slog.Logger
}

// NewSlogLogger adapts an existing *slog.Logger to the engine's Logger
// interface.
func NewSlogLogger(l *slog.Logger) Logger {
	if l == nil {
		return noopLogger{}
	}
	return &slogLogger{l: l}
}

func (s *slogLogger) Debugf(format string, args ...any) {
	s.l.Log(context.Background(), slog.LevelDebug, formatMsg(format, args...))
}

func (s *slogLogger) Infof(format string, args ...any) {
	s.l.Log(context.Background(), slog.LevelInfo, formatMsg(format, args...))
}

func (s *slogLogger) Errorf(format string, args ...any) {
	s.l.Log(context.Background(), slog.LevelError, formatMsg(format, args...))
}
