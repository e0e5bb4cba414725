package commands

import (
	"errors"

	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/pkg/guard"
)

var (
	ErrPurgeOrderCommandIsNotConstructed = errors.New(
		"PurgeOrderCommand must be created via NewPurgeOrderCommand constructor",
	)
	ErrPurgeOrderTypeCommandIsNotConstructed = errors.New(
		"PurgeOrderTypeCommand must be created via NewPurgeOrderTypeCommand constructor",
	)
)

// PurgeOrderCommand deletes an order permanently. Cascading purge is
// accepted here and refused by the lifecycle as unsupported.
type PurgeOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	cascade bool

	guard guard.ConstructorGuard
}

// NewPurgeOrderCommand creates a command to delete an order.
// Returns an error when orderID is the nil uuid.
func NewPurgeOrderCommand(orderID kernel.UUID, cascade bool) (PurgeOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return PurgeOrderCommand{}, err
	}

	return PurgeOrderCommand{
		orderID: orderID,
		cascade: cascade,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c PurgeOrderCommand) Validate() error {
	return c.guard.Validate(ErrPurgeOrderCommandIsNotConstructed)
}

// OrderID returns the uuid of the order to delete.
func (c PurgeOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Cascade reports whether dependent records should go too. Stores reject it
// with errs.ErrOperationIsUnsupported.
func (c PurgeOrderCommand) Cascade() bool {
	return c.cascade
}

// PurgeOrderTypeCommand deletes an order type permanently.
type PurgeOrderTypeCommand struct { //nolint:recvcheck //using for validation
	orderTypeID kernel.UUID

	guard guard.ConstructorGuard
}

// NewPurgeOrderTypeCommand creates a command to delete an order type.
func NewPurgeOrderTypeCommand(orderTypeID kernel.UUID) (PurgeOrderTypeCommand, error) {
	if err := orderTypeID.Validate(); err != nil {
		return PurgeOrderTypeCommand{}, err
	}

	return PurgeOrderTypeCommand{
		orderTypeID: orderTypeID,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c PurgeOrderTypeCommand) Validate() error {
	return c.guard.Validate(ErrPurgeOrderTypeCommandIsNotConstructed)
}

// OrderTypeID returns the uuid of the order type to delete.
func (c PurgeOrderTypeCommand) OrderTypeID() kernel.UUID {
	return c.orderTypeID
}
