package ports

import (
	"context"

	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/ordertype"
)

// OrderTypeRepository persists OrderType aggregates. Names are unique across
// retired and active order types alike.
type OrderTypeRepository interface {
	// Save inserts a new order type (assigning its numeric id) or updates an
	// existing one. A duplicate name is an errs.StorageError.
	Save(ctx context.Context, aggregate *ordertype.OrderType) error

	// Delete removes the order type permanently.
	Delete(ctx context.Context, aggregate *ordertype.OrderType) error

	// Get retrieves an order type by numeric id.
	Get(ctx context.Context, id int64) (*ordertype.OrderType, error)

	// GetByUUID retrieves an order type by uuid.
	GetByUUID(ctx context.Context, id kernel.UUID) (*ordertype.OrderType, error)

	// GetAll returns order types ordered by name. Retired ones are skipped
	// unless includeRetired is set.
	GetAll(ctx context.Context, includeRetired bool) ([]*ordertype.OrderType, error)
}
