package logger

import (
	"context"

	"github.com/google/uuid"
)

type key int

const correlationKey key = 0

// WithCorrelationID tags ctx with an id that the ContextHandler stamps
// onto every log record. An empty id mints a fresh one.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = uuid.New().String()
	}
	return context.WithValue(ctx, correlationKey, id)
}

func CorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationKey).(string); ok {
		return id
	}
	return ""
}
