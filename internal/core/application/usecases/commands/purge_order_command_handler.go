package commands

import (
	"context"

	"orderentry/internal/core/ports"
)

// PurgeOrderCommandHandler deletes an order and publishes order.purged after
// commit. The event is built before the delete, while the order is still loaded.
//
// Example:
//
//	cmd, _ := NewPurgeOrderCommand(orderID, false)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return err
//	}
//	// GetByUUID now returns errs.ErrObjectNotFound
type PurgeOrderCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	env        Environment
}

// NewPurgeOrderCommandHandler creates a handler for PurgeOrderCommand.
func NewPurgeOrderCommandHandler(uowFactory ports.UnitOfWorkFactory, env Environment) PurgeOrderCommandHandler {
	return PurgeOrderCommandHandler{
		uowFactory: uowFactory,
		env:        env,
	}
}

// Handle deletes the order in its own transaction.
//
// Returns:
//   - errs.ErrObjectNotFound when the order does not exist
//   - errs.ErrOperationIsUnsupported for a cascading purge
func (h *PurgeOrderCommandHandler) Handle(ctx context.Context, cmd PurgeOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders := h.env.orders(uow)
	o, err := orders.GetByUUID(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	event := h.env.orderEvent(ctx, ports.EventOrderPurged, o)

	if err = orders.Purge(ctx, o, cmd.Cascade()); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.env.publish(ctx, event)
	return nil
}

// PurgeOrderTypeCommandHandler deletes order types. No event is published.
type PurgeOrderTypeCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	env        Environment
}

// NewPurgeOrderTypeCommandHandler creates a handler for PurgeOrderTypeCommand.
func NewPurgeOrderTypeCommandHandler(uowFactory ports.UnitOfWorkFactory, env Environment) PurgeOrderTypeCommandHandler {
	return PurgeOrderTypeCommandHandler{
		uowFactory: uowFactory,
		env:        env,
	}
}

// Handle deletes the order type and returns the commit error, if any.
func (h *PurgeOrderTypeCommandHandler) Handle(ctx context.Context, cmd PurgeOrderTypeCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	types := h.env.types(uow)
	t, err := types.GetByUUID(ctx, cmd.OrderTypeID())
	if err != nil {
		return err
	}

	if err = types.Purge(ctx, t); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
