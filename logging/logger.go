// Package logging wraps zap the way the rest of the core's ambient stack
// expects: a small Logger interface, a zap production constructor that falls
// back to golog if zap cannot be built, and a named-child ("sublogger") convention so components can be told
// apart in mixed output without each one inventing its own prefix scheme.
package logging

import (
	"testing"

	"github.com/edaniels/golog"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// Logger is the logging surface every core component depends on. It is
// intentionally narrow: components log events, not metrics or traces.
type Logger interface {
	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	// Sublogger returns a child logger tagged with name, for distinguishing
	// output from a component that owns several independently-logging
	// subsystems (e.g. the SLAM engine's matcher vs its map updater).
	Sublogger(name string) Logger
}

type zapLogger struct {
	*zap.SugaredLogger
	name string
}

func (l *zapLogger) Sublogger(name string) Logger {
	full := name
	if l.name != "" {
		full = l.name + "." + name
	}
	return &zapLogger{l.SugaredLogger.Named(name), full}
}

// NewLogger constructs a production logger named for the subsystem that
// owns it, backed by zap's default production encoder config.
func NewLogger(name string) Logger {
	base, err := zap.NewProduction()
	if err != nil {
		// Fall back to golog's default sugared logger rather than panicking
		// out of a logging constructor.
		return &zapLogger{golog.NewLogger(name).Desugar().Sugar(), name}
	}
	return &zapLogger{base.Sugar().Named(name), name}
}

// NewTestLogger returns a Logger that writes to the test's own output,
// so log lines interleave correctly with `go test -v` and get attributed
// to the failing test on assertion failure.
func NewTestLogger(tb testing.TB) Logger {
	return &zapLogger{zaptest.NewLogger(tb).Sugar(), ""}
}

// NewInMemoryLogger returns the same test-output Logger as NewTestLogger.
// It keeps no records of its own, so log content cannot be read back from
// it.
func NewInMemoryLogger(tb testing.TB) Logger {
	return NewTestLogger(tb)
}
