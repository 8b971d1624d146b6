package util

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type contextKey int

const (
	CTXKeyLogger contextKey = iota
	CTXKeyRequestID
)

// LogFromContext returns the request-scoped logger from the context if one was
// attached by the logging middleware, falling back to the global logger.
func LogFromContext(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx)
	if l.GetLevel() == zerolog.Disabled {
		return &log.Logger
	}

	return l
}

// RequestIDFromContext returns the request ID attached by the middleware or "".
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(CTXKeyRequestID).(string); ok {
		return id
	}

	return ""
}
