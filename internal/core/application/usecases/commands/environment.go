// Package commands contains business operations that modify system state.
// Every handler follows the same shape: validate the command, open a unit of
// work, run the lifecycle operation against repositories bound to it, commit,
// then publish the lifecycle event.
package commands

import (
	"context"
	"log/slog"

	"orderentry/internal/core/application/lifecycle"
	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/order"
	"orderentry/internal/core/domain/model/ordergroup"
	"orderentry/internal/core/ports"
)

// Environment carries what every handler needs besides its unit of work.
// Publisher may be nil, in which case no events are published.
//
// Example:
//
//	env := commands.Environment{
//	    Identity:  identity.NewProvider(nil),
//	    Config:    settings.NewSettings("ORDER-", ""),
//	    Publisher: publisher,
//	    Logger:    logger,
//	}
//	handler := commands.NewVoidOrderCommandHandler(uowFactory, env)
type Environment struct {
	// Identity resolves the authenticated actor and the current time.
	Identity ports.IdentityProvider
	// Config feeds the order number generator.
	Config    ports.Configuration
	Publisher ports.EventPublisher
	// Logger defaults to slog.Default when nil.
	Logger *slog.Logger
	// Options are passed to every lifecycle service the handlers build.
	Options []lifecycle.Option
}

// orders builds an order lifecycle over the repositories of one unit of work.
func (e Environment) orders(repos ports.Repositories) *lifecycle.OrderLifecycle {
	return lifecycle.NewOrderLifecycle(repos, e.Identity, e.Config, e.logger(), e.Options...)
}

// groups builds a group lifecycle sharing an order lifecycle on the same repositories.
func (e Environment) groups(repos ports.Repositories) *lifecycle.OrderGroupLifecycle {
	return lifecycle.NewOrderGroupLifecycle(repos, e.orders(repos), e.Identity, e.logger(), e.Options...)
}

func (e Environment) types(repos ports.Repositories) *lifecycle.OrderTypeService {
	return lifecycle.NewOrderTypeService(repos, e.logger(), e.Options...)
}

func (e Environment) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

// publish runs after commit, so a delivery failure is logged and not returned.
func (e Environment) publish(ctx context.Context, event ports.LifecycleEvent) {
	if e.Publisher == nil {
		return
	}
	if err := e.Publisher.Publish(ctx, event); err != nil {
		e.logger().WarnContext(ctx, "failed to publish lifecycle event",
			"component", "commands", "type", event.Type, "uuid", event.AggregateUUID, "error", err)
	}
}

// orderEvent describes o right after a transition. The actor is the
// authenticated one, not necessarily the signer given in the command.
func (e Environment) orderEvent(ctx context.Context, eventType string, o *order.Order) ports.LifecycleEvent {
	event := ports.LifecycleEvent{
		Type:          eventType,
		AggregateUUID: o.UUID().String(),
		OrderNumber:   o.OrderNumber(),
		Patient:       o.Patient().String(),
		OccurredAt:    e.Identity.Now(),
	}
	if actor, ok := e.Identity.CurrentActor(ctx); ok {
		event.ActorID = actor.ID()
	}
	return event
}

// groupEvent is orderEvent for groups; it carries no order number.
func (e Environment) groupEvent(ctx context.Context, eventType string, g *ordergroup.OrderGroup) ports.LifecycleEvent {
	event := ports.LifecycleEvent{
		Type:          eventType,
		AggregateUUID: g.UUID().String(),
		Patient:       g.Patient().String(),
		OccurredAt:    e.Identity.Now(),
	}
	if actor, ok := e.Identity.CurrentActor(ctx); ok {
		event.ActorID = actor.ID()
	}
	return event
}

// orderTransition is one lifecycle operation applied to a loaded order.
type orderTransition func(ctx context.Context, orders *lifecycle.OrderLifecycle, o *order.Order) (*order.Order, error)

// transitionOrder loads the order by uuid inside a new unit of work, applies
// transition, commits and publishes eventType.
func transitionOrder(
	ctx context.Context,
	uowFactory ports.UnitOfWorkFactory,
	env Environment,
	orderUUID kernel.UUID,
	transition orderTransition,
	eventType string,
) (*order.Order, error) {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().GetByUUID(ctx, orderUUID)
	if err != nil {
		return nil, err
	}

	if o, err = transition(ctx, env.orders(uow), o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	env.publish(ctx, env.orderEvent(ctx, eventType, o))
	return o, nil
}
