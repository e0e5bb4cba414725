package commands

import (
	"errors"

	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/order"
	"orderentry/internal/pkg/errs"
	"orderentry/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a request to draft a new order for a patient.
// A non-nil dosage makes it a DRUG order.
//
// Example:
//
//	dosage, _ := order.NewDosage(500, "mg", "twice daily", 20)
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), patientID, kernel.ConceptID(5089), "after meals", &dosage)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory, env)
//	created, err := handler.Handle(ctx, cmd)
//	fmt.Println(created.OrderNumber()) // ORDER-42
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	patient      kernel.UUID
	concept      kernel.ConceptID
	instructions string
	dosage       *order.Dosage

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to draft an order.
// Validates that the order id and patient are non-zero uuids, that the concept is
// set and that a given dosage is itself valid.
//
// Parameters:
//   - orderID: uuid of the new order
//   - patient: uuid of the patient the order is for
//   - concept: what is being ordered
//   - instructions: free text, may be empty
//   - dosage: nil for a generic order
//
// Returns an error joining every failed check.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	patient kernel.UUID,
	concept kernel.ConceptID,
	instructions string,
	dosage *order.Dosage,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		instructions: instructions,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setPatient(patient),
		cmd.setConcept(concept),
		cmd.setDosage(dosage),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the uuid the new order will carry.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Patient returns the uuid of the patient the order is for.
func (c CreateOrderCommand) Patient() kernel.UUID {
	return c.patient
}

// Concept returns the ordered concept.
func (c CreateOrderCommand) Concept() kernel.ConceptID {
	return c.concept
}

// Instructions returns the free-text instructions.
func (c CreateOrderCommand) Instructions() string {
	return c.instructions
}

// Dosage is nil for a generic order.
func (c CreateOrderCommand) Dosage() *order.Dosage {
	return c.dosage
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setPatient(patient kernel.UUID) error {
	if err := patient.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("patient", err)
	}

	c.patient = patient
	return nil
}

func (c *CreateOrderCommand) setConcept(concept kernel.ConceptID) error {
	if err := concept.Validate(); err != nil {
		return err
	}

	c.concept = concept
	return nil
}

func (c *CreateOrderCommand) setDosage(dosage *order.Dosage) error {
	if dosage == nil {
		return nil
	}
	if err := dosage.Validate(); err != nil {
		return err
	}

	d := *dosage
	c.dosage = &d
	return nil
}
