package commands

import (
	"context"
	"strings"

	"orderentry/internal/core/domain/model/ordertype"
	"orderentry/internal/core/ports"
)

// RetireOrderTypeCommandHandler retires and unretires order types.
type RetireOrderTypeCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	env        Environment
}

// NewRetireOrderTypeCommandHandler creates a handler for RetireOrderTypeCommand.
func NewRetireOrderTypeCommandHandler(uowFactory ports.UnitOfWorkFactory, env Environment) RetireOrderTypeCommandHandler {
	return RetireOrderTypeCommandHandler{
		uowFactory: uowFactory,
		env:        env,
	}
}

// Handle retires the order type when the command has a non-blank reason and
// unretires it otherwise.
func (h *RetireOrderTypeCommandHandler) Handle(
	ctx context.Context,
	cmd RetireOrderTypeCommand,
) (*ordertype.OrderType, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	types := h.env.types(uow)
	t, err := types.GetByUUID(ctx, cmd.OrderTypeID())
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(cmd.Reason()) == "" {
		t, err = types.Unretire(ctx, t)
	} else {
		t, err = types.Retire(ctx, t, cmd.Reason())
	}
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return t, nil
}
