package commands

import (
	"context"

	"orderentry/internal/core/domain/model/order"
	"orderentry/internal/core/ports"
)

// CreateOrderCommandHandler drafts an order and saves it, which assigns the
// order number. The number is generated and stored in one transaction.
type CreateOrderCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	env        Environment
}

// NewCreateOrderCommandHandler creates a handler that drafts and saves orders.
func NewCreateOrderCommandHandler(uowFactory ports.UnitOfWorkFactory, env Environment) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		env:        env,
	}
}

// Handle returns the saved order with its number.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var (
		o   *order.Order
		err error
	)
	if dosage := cmd.Dosage(); dosage != nil {
		o, err = order.NewDrugOrder(cmd.OrderID(), cmd.Patient(), cmd.Concept(), *dosage, cmd.Instructions())
	} else {
		o, err = order.NewOrder(cmd.OrderID(), cmd.Patient(), cmd.Concept(), cmd.Instructions())
	}
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if _, err = h.env.orders(uow).Save(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.env.publish(ctx, h.env.orderEvent(ctx, ports.EventOrderCreated, o))
	return o, nil
}
