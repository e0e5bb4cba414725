package commands

import (
	"errors"
	"fmt"
	"time"

	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/pkg/errs"
	"orderentry/internal/pkg/guard"
)

var ErrCreateOrderGroupCommandIsNotConstructed = errors.New(
	"CreateOrderGroupCommand must be created via NewCreateOrderGroupCommand constructor",
)

// CreateOrderGroupCommand groups saved drafted orders of one patient and signs
// and activates them together.
//
// Example:
//
//	cmd, err := NewCreateOrderGroupCommand(kernel.NewUUID(), patientID, []kernel.UUID{first, second}, nil, nil)
//	if err != nil {
//	    return err
//	}
//	group, err := handler.Handle(ctx, cmd)
//	// either every member is activated or none is
type CreateOrderGroupCommand struct { //nolint:recvcheck //using for validation
	groupID kernel.UUID
	patient kernel.UUID
	members []kernel.UUID
	actor   *kernel.Actor
	at      *time.Time

	guard guard.ConstructorGuard
}

// NewCreateOrderGroupCommand creates a command that groups orders.
// Validates the group and patient uuids and that members is non-empty, holds
// only non-zero uuids and lists no order twice.
//
// Parameters:
//   - groupID: uuid of the new group
//   - patient: uuid shared by every member
//   - members: uuids of saved drafted orders
//   - actor: signer, nil for the authenticated actor
//   - at: activation time, nil for now
//
// Returns an error joining every failed check.
func NewCreateOrderGroupCommand(
	groupID kernel.UUID,
	patient kernel.UUID,
	members []kernel.UUID,
	actor *kernel.Actor,
	at *time.Time,
) (CreateOrderGroupCommand, error) {
	cmd := CreateOrderGroupCommand{
		at:    at,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setGroupID(groupID),
		cmd.setPatient(patient),
		cmd.setMembers(members),
		cmd.setActor(actor),
	); err != nil {
		return CreateOrderGroupCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderGroupCommandIsNotConstructed if validation fails.
func (c CreateOrderGroupCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderGroupCommandIsNotConstructed)
}

// GroupID returns the uuid of the new group.
func (c CreateOrderGroupCommand) GroupID() kernel.UUID {
	return c.groupID
}

// Patient returns the uuid every member must share.
func (c CreateOrderGroupCommand) Patient() kernel.UUID {
	return c.patient
}

// Members returns the member order uuids in group order.
func (c CreateOrderGroupCommand) Members() []kernel.UUID {
	out := make([]kernel.UUID, len(c.members))
	copy(out, c.members)
	return out
}

// Actor returns the signer or nil.
func (c CreateOrderGroupCommand) Actor() *kernel.Actor {
	return c.actor
}

// At returns the activation time or nil.
func (c CreateOrderGroupCommand) At() *time.Time {
	return c.at
}

func (c *CreateOrderGroupCommand) setGroupID(groupID kernel.UUID) error {
	if err := groupID.Validate(); err != nil {
		return err
	}

	c.groupID = groupID
	return nil
}

func (c *CreateOrderGroupCommand) setPatient(patient kernel.UUID) error {
	if err := patient.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("patient", err)
	}

	c.patient = patient
	return nil
}

func (c *CreateOrderGroupCommand) setMembers(members []kernel.UUID) error {
	if len(members) == 0 {
		return errs.NewValueIsRequiredError("members")
	}

	seen := make(map[kernel.UUID]struct{}, len(members))
	for i, id := range members {
		if err := id.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("member %d", i), err)
		}
		if _, dup := seen[id]; dup {
			return errs.NewValueIsInvalidErrorWithCause(
				fmt.Sprintf("member %d", i),
				fmt.Errorf("order %s is listed twice", id),
			)
		}
		seen[id] = struct{}{}
	}

	c.members = make([]kernel.UUID, len(members))
	copy(c.members, members)
	return nil
}

func (c *CreateOrderGroupCommand) setActor(actor *kernel.Actor) error {
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
