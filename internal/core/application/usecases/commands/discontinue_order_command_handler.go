package commands

import (
	"context"

	"orderentry/internal/core/application/lifecycle"
	"orderentry/internal/core/domain/model/order"
	"orderentry/internal/core/ports"
)

// DiscontinueOrderCommandHandler discontinues an order. The DISCONTINUE
// companion order and the original are written in the same transaction.
//
// Example:
//
//	handler := NewDiscontinueOrderCommandHandler(uowFactory, env)
//	cmd, _ := NewDiscontinueOrderCommand(orderID, reason, nil)
//
//	o, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrStateIsInvalid) {
//	    // not active, voided or already discontinued
//	}
type DiscontinueOrderCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	env        Environment
}

// NewDiscontinueOrderCommandHandler creates a handler for DiscontinueOrderCommand.
func NewDiscontinueOrderCommandHandler(uowFactory ports.UnitOfWorkFactory, env Environment) DiscontinueOrderCommandHandler {
	return DiscontinueOrderCommandHandler{
		uowFactory: uowFactory,
		env:        env,
	}
}

// Handle discontinues the order and publishes order.discontinued after commit.
// Only active orders can be discontinued.
func (h *DiscontinueOrderCommandHandler) Handle(ctx context.Context, cmd DiscontinueOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return transitionOrder(ctx, h.uowFactory, h.env, cmd.OrderID(),
		func(ctx context.Context, orders *lifecycle.OrderLifecycle, o *order.Order) (*order.Order, error) {
			return orders.Discontinue(ctx, o, cmd.Reason(), cmd.At())
		},
		ports.EventOrderDiscontinued,
	)
}
