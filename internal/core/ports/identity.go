package ports

import (
	"context"
	"time"

	"orderentry/internal/core/domain/model/kernel"
)

// IdentityProvider resolves the authenticated actor and the current time.
type IdentityProvider interface {
	// CurrentActor returns false when no actor is authenticated.
	CurrentActor(ctx context.Context) (kernel.Actor, bool)

	// Now is the default time of every transition called without one.
	Now() time.Time
}

// Configuration exposes the settings the lifecycle reads.
type Configuration interface {
	// OrderNumberPrefix may be empty, in which case the generator default applies.
	OrderNumberPrefix() string
	// DeploymentLabel identifies the installation; empty means none.
	DeploymentLabel() string
}
