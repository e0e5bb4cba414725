package commands

import (
	"errors"

	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/pkg/guard"
)

var ErrCreateOrderTypeCommandIsNotConstructed = errors.New(
	"CreateOrderTypeCommand must be created via NewCreateOrderTypeCommand constructor",
)

// CreateOrderTypeCommand registers a new order type.
type CreateOrderTypeCommand struct { //nolint:recvcheck //using for validation
	orderTypeID kernel.UUID
	name        string
	description string

	guard guard.ConstructorGuard
}

// NewCreateOrderTypeCommand checks the id only; name rules belong to the order type.
func NewCreateOrderTypeCommand(orderTypeID kernel.UUID, name, description string) (CreateOrderTypeCommand, error) {
	if err := orderTypeID.Validate(); err != nil {
		return CreateOrderTypeCommand{}, err
	}

	return CreateOrderTypeCommand{
		orderTypeID: orderTypeID,
		name:        name,
		description: description,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderTypeCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderTypeCommandIsNotConstructed)
}

// OrderTypeID returns the uuid of the new order type.
func (c CreateOrderTypeCommand) OrderTypeID() kernel.UUID {
	return c.orderTypeID
}

// Name returns the requested unique name.
func (c CreateOrderTypeCommand) Name() string {
	return c.name
}

// Description returns the optional description.
func (c CreateOrderTypeCommand) Description() string {
	return c.description
}
