package commands

import (
	"errors"
	"strings"

	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/pkg/errs"
	"orderentry/internal/pkg/guard"
)

var (
	ErrVoidOrderCommandIsNotConstructed = errors.New(
		"VoidOrderCommand must be created via NewVoidOrderCommand constructor",
	)
	ErrUnvoidOrderCommandIsNotConstructed = errors.New(
		"UnvoidOrderCommand must be created via NewUnvoidOrderCommand constructor",
	)
)

// VoidOrderCommand marks an order entered in error.
type VoidOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	reason  string

	guard guard.ConstructorGuard
}

// NewVoidOrderCommand creates a command to void an order.
// Validates the order uuid and that reason is not blank.
func NewVoidOrderCommand(orderID kernel.UUID, reason string) (VoidOrderCommand, error) {
	cmd := VoidOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setReason(reason),
	); err != nil {
		return VoidOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c VoidOrderCommand) Validate() error {
	return c.guard.Validate(ErrVoidOrderCommandIsNotConstructed)
}

// OrderID returns the uuid of the order to void.
func (c VoidOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Reason returns why the order is voided.
func (c VoidOrderCommand) Reason() string {
	return c.reason
}

func (c *VoidOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *VoidOrderCommand) setReason(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return errs.NewValueIsRequiredError("voidReason")
	}

	c.reason = reason
	return nil
}

// UnvoidOrderCommand reverses a void.
type UnvoidOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewUnvoidOrderCommand creates a command to unvoid an order.
func NewUnvoidOrderCommand(orderID kernel.UUID) (UnvoidOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return UnvoidOrderCommand{}, err
	}

	return UnvoidOrderCommand{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c UnvoidOrderCommand) Validate() error {
	return c.guard.Validate(ErrUnvoidOrderCommandIsNotConstructed)
}

// OrderID returns the uuid of the order to unvoid.
func (c UnvoidOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}
