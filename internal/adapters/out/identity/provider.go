// Package identity resolves the authenticated actor from the request context
// and supplies the wall clock.
package identity

import (
	"context"
	"time"

	"orderentry/internal/core/domain/model/kernel"
)

type actorKey struct{}

// WithActor returns a copy of ctx carrying actor as the authenticated user.
func WithActor(ctx context.Context, actor kernel.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the actor stored by WithActor.
func ActorFromContext(ctx context.Context) (kernel.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(kernel.Actor)
	if !ok || actor.Validate() != nil {
		return kernel.Actor{}, false
	}
	return actor, true
}

// Provider implements ports.IdentityProvider over the request context.
type Provider struct {
	clock func() time.Time
}

// NewProvider uses clock for Now, or time.Now when clock is nil.
func NewProvider(clock func() time.Time) *Provider {
	if clock == nil {
		clock = time.Now
	}
	return &Provider{clock: clock}
}

// CurrentActor returns the actor stored in ctx by the actor middleware.
// The second result is false for anonymous requests.
func (p *Provider) CurrentActor(ctx context.Context) (kernel.Actor, bool) {
	return ActorFromContext(ctx)
}

// Now is always UTC.
func (p *Provider) Now() time.Time {
	return p.clock().UTC()
}
