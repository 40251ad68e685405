package logctx

import (
	"context"
	"log/slog"
)

type key struct{}

// With attaches a slog logger to the context. Callers should attach a logger
// carrying run-scoped correlation fields (e.g. run_id) before starting a run.
func With(ctx context.Context, logger *slog.Logger) context.Context {
	if ctx == nil || logger == nil {
		return ctx
	}
	return context.WithValue(ctx, key{}, logger)
}

// From returns the logger attached to the context, or slog.Default().
func From(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return slog.Default()
	}
	if logger, ok := ctx.Value(key{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}
