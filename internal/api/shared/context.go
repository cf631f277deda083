package shared

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// ContextKey is the type of keys this package stores in a context.
type ContextKey string

// TraceIDKey is the key for the trace ID in the request context.
const TraceIDKey ContextKey = "traceID"

// MaxTraceIDLength caps trace IDs accepted from clients.
const MaxTraceIDLength = 64

// SetTraceID adds a freshly generated trace ID to the context.
func SetTraceID(ctx context.Context) context.Context {
	return WithTraceID(ctx, strings.ReplaceAll(uuid.NewString(), "-", ""))
}

// WithTraceID stores id as the trace ID. Empty or oversized IDs are
// replaced by a generated one.
func WithTraceID(ctx context.Context, id string) context.Context {
	if id == "" || len(id) > MaxTraceIDLength {
		return SetTraceID(ctx)
	}
	return context.WithValue(ctx, TraceIDKey, id)
}

// GetTraceID retrieves the trace ID from the context, or "" if none is set.
func GetTraceID(ctx context.Context) string {
	traceID, _ := ctx.Value(TraceIDKey).(string)
	return traceID
}
