package commands

import (
	"errors"
	"time"

	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/pkg/guard"
)

var ErrSignAndActivateOrderCommandIsNotConstructed = errors.New(
	"SignAndActivateOrderCommand must be created via NewSignAndActivateOrderCommand constructor",
)

// SignAndActivateOrderCommand signs and activates a saved order. A nil actor
// or time falls back to the authenticated actor and now.
//
// Example:
//
//	cmd, err := NewSignAndActivateOrderCommand(orderID, nil, nil)
//	if err != nil {
//	    return err
//	}
//	o, err := handler.Handle(ctx, cmd)
//	fmt.Println(o.Stage()) // Activated
type SignAndActivateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   *kernel.Actor
	at      *time.Time

	guard guard.ConstructorGuard
}

// NewSignAndActivateOrderCommand creates a command to sign and activate an order.
// A given actor must be valid; nil actor and at are resolved by the handler.
func NewSignAndActivateOrderCommand(
	orderID kernel.UUID,
	actor *kernel.Actor,
	at *time.Time,
) (SignAndActivateOrderCommand, error) {
	cmd := SignAndActivateOrderCommand{
		at:    at,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActor(actor),
	); err != nil {
		return SignAndActivateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c SignAndActivateOrderCommand) Validate() error {
	return c.guard.Validate(ErrSignAndActivateOrderCommandIsNotConstructed)
}

// OrderID returns the uuid of the order.
func (c SignAndActivateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Actor returns the signer or nil.
func (c SignAndActivateOrderCommand) Actor() *kernel.Actor {
	return c.actor
}

// At returns the activation time or nil.
func (c SignAndActivateOrderCommand) At() *time.Time {
	return c.at
}

func (c *SignAndActivateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *SignAndActivateOrderCommand) setActor(actor *kernel.Actor) error {
	if actor == nil {
		return nil
	}
	if err := actor.Validate(); err != nil {
		return err
	}

	a := *actor
	c.actor = &a
	return nil
}
