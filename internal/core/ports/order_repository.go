// Package ports declares what the order lifecycle needs from the outside
// world: persistence, identity, configuration and event delivery.
package ports

import (
	"context"

	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/order"
)

// OrderRepository persists Order aggregates.
// Lookups return errs.ObjectNotFoundError when nothing matches; any other
// failure is an errs.StorageError.
type OrderRepository interface {
	// Save inserts a new order (assigning its numeric id) or updates an existing one.
	// Uuids and order numbers are unique; a duplicate is an errs.StorageError.
	Save(ctx context.Context, aggregate *order.Order) error

	// Delete removes the order permanently. Deleting a never saved order is a no-op.
	Delete(ctx context.Context, aggregate *order.Order) error

	// IsActivatedInDatabase reports whether the stored copy of the order is
	// already activated. Unsaved orders are never activated in the database.
	IsActivatedInDatabase(ctx context.Context, aggregate *order.Order) (bool, error)

	// GetMaximumOrderID returns the highest numeric order id, 0 for an empty store.
	// Inside a transaction it also serializes concurrent order number generation
	// until the transaction ends.
	GetMaximumOrderID(ctx context.Context) (int64, error)

	// Get retrieves an order by numeric id.
	Get(ctx context.Context, id int64) (*order.Order, error)

	// GetByUUID retrieves an order by uuid.
	GetByUUID(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByOrderNumber retrieves an order by its assigned order number.
	// Never saved orders have no number and cannot be found this way.
	GetByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error)
}
