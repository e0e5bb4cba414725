package commands

import (
	"context"

	"orderentry/internal/core/domain/model/ordertype"
	"orderentry/internal/core/ports"
)

// CreateOrderTypeCommandHandler creates order types. No event is published.
//
// Example:
//
//	cmd, _ := NewCreateOrderTypeCommand(kernel.NewUUID(), "Radiology", "")
//	t, err := handler.Handle(ctx, cmd)
type CreateOrderTypeCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	env        Environment
}

// NewCreateOrderTypeCommandHandler creates a handler for CreateOrderTypeCommand.
func NewCreateOrderTypeCommandHandler(uowFactory ports.UnitOfWorkFactory, env Environment) CreateOrderTypeCommandHandler {
	return CreateOrderTypeCommandHandler{
		uowFactory: uowFactory,
		env:        env,
	}
}

// Handle builds the order type and saves it in its own transaction.
// A duplicate name fails in the store with errs.ErrStorageFailed.
func (h *CreateOrderTypeCommandHandler) Handle(
	ctx context.Context,
	cmd CreateOrderTypeCommand,
) (*ordertype.OrderType, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	t, err := ordertype.NewOrderType(cmd.OrderTypeID(), cmd.Name(), cmd.Description())
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

	if _, err = h.env.types(uow).Save(ctx, t); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return t, nil
}
