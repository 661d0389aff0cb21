package logger

import (
	"context"
	"log/slog"
)

type loggerCtxKey struct{}

// With returns a context carrying a child logger extended with fields. Request
// middleware uses it to stamp the trace id onto every log line downstream.
func With(ctx context.Context, fields ...any) context.Context {
	l := From(ctx).With(fields...)
	return context.WithValue(ctx, loggerCtxKey{}, l)
}

// From returns the logger stored in context, or the process logger if missing.
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerCtxKey{}).(*slog.Logger); ok {
		return l
	}
	return LoggerWrapper()
}
