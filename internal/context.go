package internal

import (
	"context"
	"time"
)

type ctxKey string

const ContextUserKey ctxKey = "userID"

// SystemActor is recorded for work that no API caller asked for, such as the
// scheduled contract sweep or a CLI run.
const SystemActor = "system"

// DefaultTaskTimeout bounds background work queued from a request.
const DefaultTaskTimeout = 5 * time.Second

func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ContextUserKey, userID)
}

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	userID, _ := ctx.Value(ContextUserKey).(string)
	return userID
}

// TriggeredBy names who started the operation running under ctx, falling back
// to SystemActor outside an authenticated request.
func TriggeredBy(ctx context.Context) string {
	if userID := UserIDFromContext(ctx); userID != "" {
		return userID
	}
	return SystemActor
}

// WithTimeout bounds ctx by d, or by DefaultTaskTimeout when d is not positive.
func WithTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = DefaultTaskTimeout
	}
	return context.WithTimeout(ctx, d)
}
