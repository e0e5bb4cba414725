package ports

import (
	"context"

	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/ordergroup"
)

// OrderGroupRepository persists OrderGroup aggregates. Members are stored by
// reference and must already be persisted.
type OrderGroupRepository interface {
	// Save inserts a new group (assigning its numeric id) or updates an
	// existing one, rewriting its member list in order. Unsaved members are
	// rejected with errs.ErrValueIsInvalid.
	Save(ctx context.Context, aggregate *ordergroup.OrderGroup) error

	// Get retrieves a group by numeric id with its members loaded in position order.
	Get(ctx context.Context, id int64) (*ordergroup.OrderGroup, error)

	// GetByUUID retrieves a group by uuid with its members loaded in position order.
	GetByUUID(ctx context.Context, id kernel.UUID) (*ordergroup.OrderGroup, error)

	// GetByPatient returns every group of the patient, oldest first.
	// A patient without groups yields an empty slice, not an error.
	GetByPatient(ctx context.Context, patient kernel.UUID) ([]*ordergroup.OrderGroup, error)
}
