package queries

import (
	"context"
	"errors"

	"orderentry/internal/core/domain/model/ordertype"
	"orderentry/internal/core/ports"
	"orderentry/internal/pkg/guard"
)

var (
	ErrGetOrderTypesQueryIsNotConstructed = errors.New(
		"GetOrderTypesQuery must be created via NewGetOrderTypesQuery constructor",
	)
)

// GetOrderTypesQuery lists order types by name, retired ones only on request.
type GetOrderTypesQuery struct {
	includeRetired bool
	guard          guard.ConstructorGuard
}

// NewGetOrderTypesQuery creates a query listing order types.
func NewGetOrderTypesQuery(includeRetired bool) GetOrderTypesQuery {
	return GetOrderTypesQuery{includeRetired: includeRetired, guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetOrderTypesQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderTypesQueryIsNotConstructed)
}

// GetOrderTypesQueryHandler lists order types through the order type repository.
type GetOrderTypesQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

// NewGetOrderTypesQueryHandler creates a handler for GetOrderTypesQuery.
func NewGetOrderTypesQueryHandler(uowFactory ports.UnitOfWorkFactory) GetOrderTypesQueryHandler {
	return GetOrderTypesQueryHandler{uowFactory: uowFactory}
}

// Handle returns the order types sorted by name.
func (h GetOrderTypesQueryHandler) Handle(ctx context.Context, query GetOrderTypesQuery) ([]*ordertype.OrderType, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return h.uowFactory.Create().OrderTypeRepository().GetAll(ctx, query.includeRetired)
}
