package commands

import (
	"context"

	"orderentry/internal/core/domain/model/order"
	"orderentry/internal/core/domain/model/ordergroup"
	"orderentry/internal/core/ports"
)

// CreateOrderGroupCommandHandler builds an order group from saved orders and
// signs and activates it. Members and group share one transaction, so a failing
// member rolls back every member handled before it.
type CreateOrderGroupCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	env        Environment
}

// NewCreateOrderGroupCommandHandler creates a handler for CreateOrderGroupCommand.
func NewCreateOrderGroupCommandHandler(uowFactory ports.UnitOfWorkFactory, env Environment) CreateOrderGroupCommandHandler {
	return CreateOrderGroupCommandHandler{
		uowFactory: uowFactory,
		env:        env,
	}
}

// Handle loads every member, signs and activates them as one group inside a
// single transaction and publishes one event per member plus one for the group
// after commit.
//
// Returns errs.ErrObjectNotFound for an unknown member and
// errs.ErrArgumentIsInvalid when members belong to different patients. Nothing
// is written when any member fails.
func (h *CreateOrderGroupCommandHandler) Handle(
	ctx context.Context,
	cmd CreateOrderGroupCommand,
) (*ordergroup.OrderGroup, error) {
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

	orderRepo := uow.OrderRepository()
	members := make([]*order.Order, 0, len(cmd.Members()))
	for _, id := range cmd.Members() {
		member, err := orderRepo.GetByUUID(ctx, id)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}

	group, err := ordergroup.NewOrderGroup(cmd.GroupID(), cmd.Patient(), members)
	if err != nil {
		return nil, err
	}

	if _, err = h.env.groups(uow).SignAndActivate(ctx, group, cmd.Actor(), cmd.At()); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	for _, member := range members {
		h.env.publish(ctx, h.env.orderEvent(ctx, ports.EventOrderSignedAndActivated, member))
	}
	h.env.publish(ctx, h.env.groupEvent(ctx, ports.EventOrderGroupSignedAndActivated, group))
	return group, nil
}
