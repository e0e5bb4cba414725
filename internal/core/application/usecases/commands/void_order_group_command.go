package commands

import (
	"errors"
	"strings"

	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/pkg/errs"
	"orderentry/internal/pkg/guard"
)

var (
	ErrVoidOrderGroupCommandIsNotConstructed = errors.New(
		"VoidOrderGroupCommand must be created via NewVoidOrderGroupCommand constructor",
	)
	ErrUnvoidOrderGroupCommandIsNotConstructed = errors.New(
		"UnvoidOrderGroupCommand must be created via NewUnvoidOrderGroupCommand constructor",
	)
)

// VoidOrderGroupCommand marks an order group entered in error. Member orders
// keep their own void state.
type VoidOrderGroupCommand struct { //nolint:recvcheck //using for validation
	groupID kernel.UUID
	reason  string

	guard guard.ConstructorGuard
}

// NewVoidOrderGroupCommand requires the group uuid and a non-blank reason.
//
// Example:
//
//	cmd, err := commands.NewVoidOrderGroupCommand(groupID, "wrong patient")
func NewVoidOrderGroupCommand(groupID kernel.UUID, reason string) (VoidOrderGroupCommand, error) {
	cmd := VoidOrderGroupCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setGroupID(groupID),
		cmd.setReason(reason),
	); err != nil {
		return VoidOrderGroupCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c VoidOrderGroupCommand) Validate() error {
	return c.guard.Validate(ErrVoidOrderGroupCommandIsNotConstructed)
}

// GroupID returns the uuid of the group to void.
func (c VoidOrderGroupCommand) GroupID() kernel.UUID {
	return c.groupID
}

// Reason returns why the group is voided.
func (c VoidOrderGroupCommand) Reason() string {
	return c.reason
}

func (c *VoidOrderGroupCommand) setGroupID(groupID kernel.UUID) error {
	if err := groupID.Validate(); err != nil {
		return err
	}

	c.groupID = groupID
	return nil
}

func (c *VoidOrderGroupCommand) setReason(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return errs.NewValueIsRequiredError("voidReason")
	}

	c.reason = reason
	return nil
}

// UnvoidOrderGroupCommand reverses a group void.
type UnvoidOrderGroupCommand struct { //nolint:recvcheck //using for validation
	groupID kernel.UUID

	guard guard.ConstructorGuard
}

// NewUnvoidOrderGroupCommand creates a command to unvoid an order group.
func NewUnvoidOrderGroupCommand(groupID kernel.UUID) (UnvoidOrderGroupCommand, error) {
	if err := groupID.Validate(); err != nil {
		return UnvoidOrderGroupCommand{}, err
	}

	return UnvoidOrderGroupCommand{
		groupID: groupID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c UnvoidOrderGroupCommand) Validate() error {
	return c.guard.Validate(ErrUnvoidOrderGroupCommandIsNotConstructed)
}

// GroupID returns the uuid of the group to unvoid.
func (c UnvoidOrderGroupCommand) GroupID() kernel.UUID {
	return c.groupID
}
