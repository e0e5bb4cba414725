package commands

import (
	"context"

	"orderentry/internal/core/application/lifecycle"
	"orderentry/internal/core/domain/model/order"
	"orderentry/internal/core/ports"
)

// VoidOrderCommandHandler voids an order. Voiding a voided order commits
// nothing new but still publishes the event.
type VoidOrderCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	env        Environment
}

// NewVoidOrderCommandHandler creates a handler for VoidOrderCommand.
func NewVoidOrderCommandHandler(uowFactory ports.UnitOfWorkFactory, env Environment) VoidOrderCommandHandler {
	return VoidOrderCommandHandler{
		uowFactory: uowFactory,
		env:        env,
	}
}

// Handle voids the order and publishes order.voided after commit.
// Voiding a voided order keeps the first reason.
func (h *VoidOrderCommandHandler) Handle(ctx context.Context, cmd VoidOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return transitionOrder(ctx, h.uowFactory, h.env, cmd.OrderID(),
		func(ctx context.Context, orders *lifecycle.OrderLifecycle, o *order.Order) (*order.Order, error) {
			return orders.Void(ctx, o, cmd.Reason())
		},
		ports.EventOrderVoided,
	)
}

// UnvoidOrderCommandHandler clears the voided flag of orders.
type UnvoidOrderCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	env        Environment
}

// NewUnvoidOrderCommandHandler creates a handler for UnvoidOrderCommand.
func NewUnvoidOrderCommandHandler(uowFactory ports.UnitOfWorkFactory, env Environment) UnvoidOrderCommandHandler {
	return UnvoidOrderCommandHandler{
		uowFactory: uowFactory,
		env:        env,
	}
}

// Handle unvoids the order and publishes order.unvoided after commit.
func (h *UnvoidOrderCommandHandler) Handle(ctx context.Context, cmd UnvoidOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return transitionOrder(ctx, h.uowFactory, h.env, cmd.OrderID(),
		func(ctx context.Context, orders *lifecycle.OrderLifecycle, o *order.Order) (*order.Order, error) {
			return orders.Unvoid(ctx, o)
		},
		ports.EventOrderUnvoided,
	)
}
