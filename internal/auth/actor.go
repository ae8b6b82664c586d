package auth

import "context"

const (
	RoleDriver = "driver"
	RoleAdmin  = "admin"
)

// Actor is the already-authenticated identity a request acts as.
type Actor struct {
	ID   string
	Role string
}

func (a Actor) IsAdmin() bool  { return a.Role == RoleAdmin }
func (a Actor) IsDriver() bool { return a.Role == RoleDriver }

type contextKey struct{}

var actorKey contextKey

// WithActor returns a context carrying the actor.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFrom extracts the actor set by the middleware.
func ActorFrom(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey).(Actor)
	return actor, ok
}
