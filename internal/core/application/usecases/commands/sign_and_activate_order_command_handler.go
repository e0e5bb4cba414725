package commands

import (
	"context"

	"orderentry/internal/core/application/lifecycle"
	"orderentry/internal/core/domain/model/order"
	"orderentry/internal/core/ports"
)

// SignAndActivateOrderCommandHandler signs and activates one saved order.
//
// Example:
//
//	cmd, _ := NewSignAndActivateOrderCommand(orderID, nil, nil)
//	activated, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrStateIsInvalid):
//	    // already signed, activated or voided
//	case errors.Is(err, errs.ErrObjectNotFound):
//	    // unknown order
//	}
type SignAndActivateOrderCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	env        Environment
}

// NewSignAndActivateOrderCommandHandler creates a handler for
// SignAndActivateOrderCommand.
func NewSignAndActivateOrderCommandHandler(
	uowFactory ports.UnitOfWorkFactory,
	env Environment,
) SignAndActivateOrderCommandHandler {
	return SignAndActivateOrderCommandHandler{
		uowFactory: uowFactory,
		env:        env,
	}
}

// Handle signs and activates the order and publishes
// order.signed_and_activated after commit.
//
// Returns:
//   - errs.ErrObjectNotFound when the order does not exist
//   - errs.ErrStateIsInvalid when it is already activated or voided
//   - errs.ErrArgumentIsInvalid when no actor is given or authenticated
func (h *SignAndActivateOrderCommandHandler) Handle(
	ctx context.Context,
	cmd SignAndActivateOrderCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return transitionOrder(ctx, h.uowFactory, h.env, cmd.OrderID(),
		func(ctx context.Context, orders *lifecycle.OrderLifecycle, o *order.Order) (*order.Order, error) {
			return orders.SignAndActivate(ctx, o, cmd.Actor(), cmd.At())
		},
		ports.EventOrderSignedAndActivated,
	)
}
