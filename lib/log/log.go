// Package log carries a slog.Logger through a context.Context.
//
// Layout code logs with the package level functions. The logger is attached once at the
// entry point with With, WithDefault or, in tests, WithTB.
package log

import (
	"context"
	stdlog "log"
	"os"
	"runtime/debug"
	"testing"

	"cdr.dev/slog"
	"cdr.dev/slog/sloggers/sloghuman"
	"cdr.dev/slog/sloggers/slogtest"
)

type ctxKey struct{}

var fallback = newStderr()

func init() {
	// Libraries logging through the standard logger end up in the same sink.
	stdlog.SetOutput(slog.Stdlib(context.Background(), fallback, slog.LevelInfo).Writer())
}

func newStderr() slog.Logger {
	l := slog.Make(sloghuman.Sink(os.Stderr)).Named("xdsketch")
	return withDebugEnv(l)
}

// withDebugEnv lowers l to the debug level when $DEBUG is set.
func withDebugEnv(l slog.Logger) slog.Logger {
	if os.Getenv("DEBUG") == "" {
		return l
	}
	return l.Leveled(slog.LevelDebug)
}

func get(ctx context.Context) (slog.Logger, bool) {
	l, ok := ctx.Value(ctxKey{}).(slog.Logger)
	return l, ok
}

func logger(ctx context.Context) slog.Logger {
	if l, ok := get(ctx); ok {
		return l
	}
	fallback.Warn(ctx, "context carries no logger, attach one with log.With", slog.F("stack", string(debug.Stack())))
	return fallback
}

func With(ctx context.Context, l slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// WithDefault attaches the stderr logger unless ctx already carries one.
func WithDefault(ctx context.Context) context.Context {
	if _, ok := get(ctx); ok {
		return ctx
	}
	return With(ctx, fallback)
}

// WithTB attaches a logger writing to t. Errors fail the test unless opts says otherwise.
func WithTB(ctx context.Context, t testing.TB, opts *slogtest.Options) context.Context {
	return With(ctx, withDebugEnv(slogtest.Make(t, opts)))
}

// Leveled replaces the logger of ctx with one that drops entries below level.
func Leveled(ctx context.Context, level slog.Level) context.Context {
	return With(ctx, logger(ctx).Leveled(level))
}

func Debug(ctx context.Context, msg string, fields ...slog.Field) {
	slog.Helper()
	logger(ctx).Debug(ctx, msg, fields...)
}

func Info(ctx context.Context, msg string, fields ...slog.Field) {
	slog.Helper()
	logger(ctx).Info(ctx, msg, fields...)
}

func Warn(ctx context.Context, msg string, fields ...slog.Field) {
	slog.Helper()
	logger(ctx).Warn(ctx, msg, fields...)
}

func Error(ctx context.Context, msg string, fields ...slog.Field) {
	slog.Helper()
	logger(ctx).Error(ctx, msg, fields...)
}
