package commands

import (
	"context"

	"orderentry/internal/core/application/lifecycle"
	"orderentry/internal/core/domain/model/order"
	"orderentry/internal/core/ports"
)

// FillOrderCommandHandler records fulfilment of active orders.
type FillOrderCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	env        Environment
}

// NewFillOrderCommandHandler creates a handler for FillOrderCommand.
func NewFillOrderCommandHandler(uowFactory ports.UnitOfWorkFactory, env Environment) FillOrderCommandHandler {
	return FillOrderCommandHandler{
		uowFactory: uowFactory,
		env:        env,
	}
}

// Handle records the filler and publishes order.filled after commit.
func (h *FillOrderCommandHandler) Handle(ctx context.Context, cmd FillOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return transitionOrder(ctx, h.uowFactory, h.env, cmd.OrderID(),
		func(ctx context.Context, orders *lifecycle.OrderLifecycle, o *order.Order) (*order.Order, error) {
			if actor := cmd.FillerActor(); actor != nil {
				return orders.FillBy(ctx, o, *actor, cmd.At())
			}
			return orders.Fill(ctx, o, cmd.Filler(), cmd.At())
		},
		ports.EventOrderFilled,
	)
}
