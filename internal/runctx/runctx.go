package runctx

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type ctxKey string

const runIDKey ctxKey = "run_id"

// WithRunID tags ctx with a pay-run id, generating one when id is empty.
func WithRunID(ctx context.Context, id string) (context.Context, string) {
	if id == "" {
		id = uuid.NewString()
	}
	return context.WithValue(ctx, runIDKey, id), id
}

func RunID(ctx context.Context) string {
	if value, ok := ctx.Value(runIDKey).(string); ok {
		return value
	}
	return ""
}

// Logger returns the default logger annotated with the run id carried by ctx.
func Logger(ctx context.Context) *slog.Logger {
	if id := RunID(ctx); id != "" {
		return slog.Default().With("runId", id)
	}
	return slog.Default()
}
