package queries

import (
	"context"
	"errors"

	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/order"
	"orderentry/internal/core/ports"
	"orderentry/internal/pkg/errs"
	"orderentry/internal/pkg/guard"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New("GetOrderQuery must be created via NewGetOrderQuery constructor")
)

// GetOrderQuery loads one order by uuid or, when the uuid is zero, by order number.
type GetOrderQuery struct {
	orderID     kernel.UUID
	orderNumber string
	guard       guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for one order by uuid.
// Returns an error when orderID is the nil uuid.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// NewGetOrderByNumberQuery creates a query for one order by its order number.
//
// Example:
//
//	query, err := NewGetOrderByNumberQuery("ORDER-42")
//	if err != nil {
//	    return err
//	}
//	o, err := handler.Handle(ctx, query)
func NewGetOrderByNumberQuery(orderNumber string) (GetOrderQuery, error) {
	if orderNumber == "" {
		return GetOrderQuery{}, errs.NewValueIsRequiredError("orderNumber")
	}
	return GetOrderQuery{orderNumber: orderNumber, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through one of the constructors.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// GetOrderQueryHandler reads through the repositories, outside any transaction.
type GetOrderQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

// NewGetOrderQueryHandler creates a handler for GetOrderQuery.
func NewGetOrderQueryHandler(uowFactory ports.UnitOfWorkFactory) GetOrderQueryHandler {
	return GetOrderQueryHandler{uowFactory: uowFactory}
}

// Handle returns the order or errs.ErrObjectNotFound.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (*order.Order, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := h.uowFactory.Create().OrderRepository()
	if query.orderNumber != "" {
		return orders.GetByOrderNumber(ctx, query.orderNumber)
	}
	return orders.GetByUUID(ctx, query.orderID)
}
