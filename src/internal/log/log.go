// Package log is a context-first structured logging API.
//
// A *zap.Logger travels in the context; every log line goes through it.  Use
// pctx to create contexts that carry a logger, and the package-level Debug,
// Info, and Error functions to write lines against a context.
package log

import (
	"context"
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type loggerKeyType struct{}

var loggerKey loggerKeyType

// Log levels understood by NewStdLogAt and friends.
const (
	DebugLevel = zapcore.DebugLevel
	InfoLevel  = zapcore.InfoLevel
	ErrorLevel = zapcore.ErrorLevel
)

// fallback is used when a context has no logger.  That is always a bug, but
// losing log lines makes it a hard one to find.
var fallback = zap.Must(zap.NewProduction(zap.AddCallerSkip(1))).
	With(zap.Bool("noContextLogger", true))

// AddLogger returns a context with a production logger attached.  It should
// only be called at process startup; everything else derives its logger from
// the parent context.
func AddLogger(ctx context.Context) context.Context {
	return AddLoggerTo(ctx, zap.Must(zap.NewProduction(zap.AddCallerSkip(1))))
}

// AddLoggerTo returns a context carrying the provided logger.  Tests use
// this to route logs to zaptest.
func AddLoggerTo(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

func extract(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return l
	}
	return fallback
}

// LogOption modifies the logger carried in a child context.
type LogOption func(*zap.Logger) *zap.Logger

// WithFields adds fields to every line the child logger writes.
func WithFields(fields ...zap.Field) LogOption {
	return func(l *zap.Logger) *zap.Logger {
		return l.With(fields...)
	}
}

// WithOptions applies zap options to the child logger.
func WithOptions(opts ...zap.Option) LogOption {
	return func(l *zap.Logger) *zap.Logger {
		return l.WithOptions(opts...)
	}
}

// ChildLogger returns a context whose logger is named name (empty is allowed)
// with the options applied.
func ChildLogger(ctx context.Context, name string, opts ...LogOption) context.Context {
	l := extract(ctx).Named(name)
	for _, opt := range opts {
		l = opt(l)
	}
	return AddLoggerTo(ctx, l)
}

// Debug writes a debug-level line against ctx's logger.
func Debug(ctx context.Context, msg string, fields ...zap.Field) {
	extract(ctx).Debug(msg, fields...)
}

// Info writes an info-level line against ctx's logger.
func Info(ctx context.Context, msg string, fields ...zap.Field) {
	extract(ctx).Info(msg, fields...)
}

// Error writes an error-level line against ctx's logger.
func Error(ctx context.Context, msg string, fields ...zap.Field) {
	extract(ctx).Error(msg, fields...)
}

// NewStdLogAt returns a *log.Logger, for code that demands one, that writes
// to ctx's logger at the given level.
func NewStdLogAt(ctx context.Context, level zapcore.Level) *log.Logger {
	l, err := zap.NewStdLogAt(extract(ctx).WithOptions(zap.AddCallerSkip(2)), level)
	if err != nil {
		// Only reachable with a level this package does not define.
		panic(err)
	}
	return l
}
