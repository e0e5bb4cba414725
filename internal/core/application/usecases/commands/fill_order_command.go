package commands

import (
	"errors"
	"strings"
	"time"

	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/pkg/errs"
	"orderentry/internal/pkg/guard"
)

var ErrFillOrderCommandIsNotConstructed = errors.New(
	"FillOrderCommand must be created via NewFillOrderCommand constructor",
)

// FillOrderCommand records fulfilment either by a free-text filler or by an
// actor. Exactly one of the two must be given.
//
// Example:
//
//	byPharmacy, _ := NewFillOrderCommand(orderID, "Main St. pharmacy", nil, nil)
//	pharmacist, _ := kernel.NewActor(17, "jdoe")
//	byActor, _ := NewFillOrderCommand(orderID, "", &pharmacist, nil)
type FillOrderCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	filler      string
	fillerActor *kernel.Actor
	at          *time.Time

	guard guard.ConstructorGuard
}

// NewFillOrderCommand creates a command to record fulfilment.
// Validates the order uuid and that exactly one of filler and fillerActor is given.
func NewFillOrderCommand(
	orderID kernel.UUID,
	filler string,
	fillerActor *kernel.Actor,
	at *time.Time,
) (FillOrderCommand, error) {
	cmd := FillOrderCommand{
		at:    at,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setFiller(strings.TrimSpace(filler), fillerActor),
	); err != nil {
		return FillOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c FillOrderCommand) Validate() error {
	return c.guard.Validate(ErrFillOrderCommandIsNotConstructed)
}

// OrderID returns the uuid of the filled order.
func (c FillOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Filler returns the free-text filler, empty when an actor filled the order.
func (c FillOrderCommand) Filler() string {
	return c.filler
}

// FillerActor is nil when the filler is free text.
func (c FillOrderCommand) FillerActor() *kernel.Actor {
	return c.fillerActor
}

// At returns the fill time or nil.
func (c FillOrderCommand) At() *time.Time {
	return c.at
}

func (c *FillOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *FillOrderCommand) setFiller(filler string, actor *kernel.Actor) error {
	switch {
	case filler == "" && actor == nil:
		return errs.NewValueIsRequiredError("filler")
	case filler != "" && actor != nil:
		return errs.NewValueIsInvalidErrorWithCause("filler", errors.New("give either a filler or a filler actor"))
	case actor != nil:
		if err := actor.Validate(); err != nil {
			return err
		}
		a := *actor
		c.fillerActor = &a
	default:
		c.filler = filler
	}
	return nil
}
