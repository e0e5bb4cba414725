package commands

import (
	"errors"
	"time"

	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/pkg/errs"
	"orderentry/internal/pkg/guard"
)

var ErrDiscontinueOrderCommandIsNotConstructed = errors.New(
	"DiscontinueOrderCommand must be created via NewDiscontinueOrderCommand constructor",
)

// DiscontinueOrderCommand stops an order as of at, now when at is nil.
//
// Example:
//
//	cmd, err := NewDiscontinueOrderCommand(orderID, kernel.ConceptID(1107), nil)
//	if err != nil {
//	    return err
//	}
//	o, err := handler.Handle(ctx, cmd)
//	fmt.Println(o.Discontinued()) // true
type DiscontinueOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	reason  kernel.ConceptID
	at      *time.Time

	guard guard.ConstructorGuard
}

// NewDiscontinueOrderCommand creates a command to stop an active order.
// Validates the order uuid and that reason is set. Returns an error joining
// every failed check.
func NewDiscontinueOrderCommand(
	orderID kernel.UUID,
	reason kernel.ConceptID,
	at *time.Time,
) (DiscontinueOrderCommand, error) {
	cmd := DiscontinueOrderCommand{
		at:    at,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setReason(reason),
	); err != nil {
		return DiscontinueOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c DiscontinueOrderCommand) Validate() error {
	return c.guard.Validate(ErrDiscontinueOrderCommandIsNotConstructed)
}

// OrderID returns the uuid of the order to discontinue.
func (c DiscontinueOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Reason returns the coded discontinuation reason.
func (c DiscontinueOrderCommand) Reason() kernel.ConceptID {
	return c.reason
}

// At returns the stop time or nil.
func (c DiscontinueOrderCommand) At() *time.Time {
	return c.at
}

func (c *DiscontinueOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *DiscontinueOrderCommand) setReason(reason kernel.ConceptID) error {
	if err := reason.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("discontinue reason", err)
	}

	c.reason = reason
	return nil
}
