package auth

import "context"

type contextKey int

const ctxKeyActor contextKey = iota

// WithActor attaches the authenticated actor to the context.
func WithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, ctxKeyActor, actor)
}

// ActorFromContext returns the authenticated actor or nil.
func ActorFromContext(ctx context.Context) *Actor {
	if actor, ok := ctx.Value(ctxKeyActor).(*Actor); ok {
		return actor
	}

	return nil
}
