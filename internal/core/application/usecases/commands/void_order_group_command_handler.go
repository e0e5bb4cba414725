package commands

import (
	"context"

	"orderentry/internal/core/application/lifecycle"
	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/ordergroup"
	"orderentry/internal/core/ports"
)

// VoidOrderGroupCommandHandler voids an order group and publishes
// order_group.voided after commit.
//
// Example:
//
//	cmd, _ := NewVoidOrderGroupCommand(groupID, "wrong patient")
//	g, err := handler.Handle(ctx, cmd)
//	fmt.Println(g.IsVoided(), g.Members()[0].IsVoided()) // true false
type VoidOrderGroupCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	env        Environment
}

// NewVoidOrderGroupCommandHandler creates a handler for VoidOrderGroupCommand.
func NewVoidOrderGroupCommandHandler(uowFactory ports.UnitOfWorkFactory, env Environment) VoidOrderGroupCommandHandler {
	return VoidOrderGroupCommandHandler{
		uowFactory: uowFactory,
		env:        env,
	}
}

// Handle voids the group and publishes order_group.voided after commit.
// Member orders are left as they are.
func (h *VoidOrderGroupCommandHandler) Handle(
	ctx context.Context,
	cmd VoidOrderGroupCommand,
) (*ordergroup.OrderGroup, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return transitionGroup(ctx, h.uowFactory, h.env, cmd.GroupID(),
		func(ctx context.Context, groups *lifecycle.OrderGroupLifecycle, g *ordergroup.OrderGroup) (*ordergroup.OrderGroup, error) {
			return groups.Void(ctx, g, cmd.Reason())
		},
		ports.EventOrderGroupVoided,
	)
}

// UnvoidOrderGroupCommandHandler clears the voided flag of order groups.
type UnvoidOrderGroupCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	env        Environment
}

// NewUnvoidOrderGroupCommandHandler creates a handler for UnvoidOrderGroupCommand.
func NewUnvoidOrderGroupCommandHandler(uowFactory ports.UnitOfWorkFactory, env Environment) UnvoidOrderGroupCommandHandler {
	return UnvoidOrderGroupCommandHandler{
		uowFactory: uowFactory,
		env:        env,
	}
}

// Handle unvoids the group and publishes order_group.unvoided after commit.
func (h *UnvoidOrderGroupCommandHandler) Handle(
	ctx context.Context,
	cmd UnvoidOrderGroupCommand,
) (*ordergroup.OrderGroup, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return transitionGroup(ctx, h.uowFactory, h.env, cmd.GroupID(),
		func(ctx context.Context, groups *lifecycle.OrderGroupLifecycle, g *ordergroup.OrderGroup) (*ordergroup.OrderGroup, error) {
			return groups.Unvoid(ctx, g)
		},
		ports.EventOrderGroupUnvoided,
	)
}

type groupTransition func(
	ctx context.Context,
	groups *lifecycle.OrderGroupLifecycle,
	g *ordergroup.OrderGroup,
) (*ordergroup.OrderGroup, error)

// transitionGroup is transitionOrder for order groups.
func transitionGroup(
	ctx context.Context,
	uowFactory ports.UnitOfWorkFactory,
	env Environment,
	groupUUID kernel.UUID,
	transition groupTransition,
	eventType string,
) (*ordergroup.OrderGroup, error) {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	g, err := uow.OrderGroupRepository().GetByUUID(ctx, groupUUID)
	if err != nil {
		return nil, err
	}

	if g, err = transition(ctx, env.groups(uow), g); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	env.publish(ctx, env.groupEvent(ctx, eventType, g))
	return g, nil
}
