package commands

import (
	"errors"

	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/pkg/guard"
)

var ErrRetireOrderTypeCommandIsNotConstructed = errors.New(
	"RetireOrderTypeCommand must be created via NewRetireOrderTypeCommand constructor",
)

// RetireOrderTypeCommand retires an order type with reason, or unretires it
// when reason is empty.
type RetireOrderTypeCommand struct { //nolint:recvcheck //using for validation
	orderTypeID kernel.UUID
	reason      string

	guard guard.ConstructorGuard
}

// NewRetireOrderTypeCommand creates a command to retire an order type, or to
// unretire it when reason is empty.
//
// Example:
//
//	retire, _ := NewRetireOrderTypeCommand(typeID, "replaced by lab panel")
//	restore, _ := NewRetireOrderTypeCommand(typeID, "")
func NewRetireOrderTypeCommand(orderTypeID kernel.UUID, reason string) (RetireOrderTypeCommand, error) {
	if err := orderTypeID.Validate(); err != nil {
		return RetireOrderTypeCommand{}, err
	}

	return RetireOrderTypeCommand{
		orderTypeID: orderTypeID,
		reason:      reason,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RetireOrderTypeCommand) Validate() error {
	return c.guard.Validate(ErrRetireOrderTypeCommandIsNotConstructed)
}

// OrderTypeID returns the uuid of the order type.
func (c RetireOrderTypeCommand) OrderTypeID() kernel.UUID {
	return c.orderTypeID
}

// Reason returns the retire reason, empty to unretire.
func (c RetireOrderTypeCommand) Reason() string {
	return c.reason
}
