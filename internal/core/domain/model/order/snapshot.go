package order

import (
	"errors"
	"time"

	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/pkg/errs"
	"orderentry/internal/pkg/schema"
)

// MaxInstructionsLength bounds the free-text instructions.
const MaxInstructionsLength = 1024

// Snapshot is the flat persisted form of an Order. Repositories read and
// write it; nothing else should build one by hand.
type Snapshot struct {
	// ID is zero for an order that was never saved.
	ID   int64
	UUID kernel.UUID
	// OrderNumber is empty until the first write.
	OrderNumber string
	Concept     kernel.ConceptID
	Patient     kernel.UUID
	Action      Action
	Kind        Kind
	// Dosage is set exactly for DRUG orders.
	Dosage       *Dosage
	Instructions string
	// Discontinues references the terminated order of a DISCONTINUE order.
	Discontinues *kernel.UUID

	// Signing and activation each come as an actor and date pair.
	SignedBy      *kernel.Actor
	DateSigned    *time.Time
	ActivatedBy   *kernel.Actor
	DateActivated *time.Time
	DateFilled    *time.Time
	Filler        string

	Discontinued       bool
	DateDiscontinued   *time.Time
	DiscontinuedReason kernel.ConceptID
	DiscontinuedBy     *kernel.Actor

	Voided     bool
	VoidReason string
	VoidedBy   *kernel.Actor
	DateVoided *time.Time
}

// Snapshot copies the order's state. Pointers in the result do not alias the order.
func (o *Order) Snapshot() Snapshot {
	return Snapshot{
		ID:                 o.id,
		UUID:               o.uuid,
		OrderNumber:        o.orderNumber,
		Concept:            o.concept,
		Patient:            o.patient,
		Action:             o.action,
		Kind:               o.kind,
		Dosage:             clonePtr(o.dosage),
		Instructions:       o.instructions,
		Discontinues:       clonePtr(o.discontinues),
		SignedBy:           clonePtr(o.signedBy),
		DateSigned:         clonePtr(o.dateSigned),
		ActivatedBy:        clonePtr(o.activatedBy),
		DateActivated:      clonePtr(o.dateActivated),
		DateFilled:         clonePtr(o.dateFilled),
		Filler:             o.filler,
		Discontinued:       o.discontinued,
		DateDiscontinued:   clonePtr(o.dateDiscontinued),
		DiscontinuedReason: o.discontinuedReason,
		DiscontinuedBy:     clonePtr(o.discontinuedBy),
		Voided:             o.voided,
		VoidReason:         o.voidReason,
		VoidedBy:           clonePtr(o.voidedBy),
		DateVoided:         clonePtr(o.dateVoided),
	}
}

// Restore rebuilds an Order from persisted state. It checks identity and the
// structural pairing of transition fields, not schema rules.
//
// Returns the joined errors of:
//   - a missing uuid or patient, or a non-positive concept
//   - an unknown action or kind
//   - an actor without its date (or the reverse) for signing and activation
//   - an activation without a signature, or a fill without an activation
//
// Example:
//
//	o, err := order.Restore(row.toSnapshot())
func Restore(s Snapshot) (*Order, error) {
	o := &Order{isConstructed: true}

	if err := errors.Join(
		o.setUUID(s.UUID),
		o.setPatient(s.Patient),
		o.setConcept(s.Concept),
		s.Action.Validate(),
		s.Kind.Validate(),
		restoredPair("signedBy", s.SignedBy != nil, s.DateSigned != nil),
		restoredPair("activatedBy", s.ActivatedBy != nil, s.DateActivated != nil),
		restoredOrdering(s),
	); err != nil {
		return nil, err
	}

	o.id = s.ID
	o.orderNumber = s.OrderNumber
	o.action = s.Action
	o.kind = s.Kind
	o.instructions = s.Instructions
	if s.Kind == KindDrug {
		o.dosage = clonePtr(s.Dosage)
	}
	o.discontinues = clonePtr(s.Discontinues)
	o.signedBy = clonePtr(s.SignedBy)
	o.dateSigned = clonePtr(s.DateSigned)
	o.activatedBy = clonePtr(s.ActivatedBy)
	o.dateActivated = clonePtr(s.DateActivated)
	o.dateFilled = clonePtr(s.DateFilled)
	o.filler = s.Filler
	o.discontinued = s.Discontinued
	o.dateDiscontinued = clonePtr(s.DateDiscontinued)
	o.discontinuedReason = s.DiscontinuedReason
	o.discontinuedBy = clonePtr(s.DiscontinuedBy)
	o.voided = s.Voided
	o.voidReason = s.VoidReason
	o.voidedBy = clonePtr(s.VoidedBy)
	o.dateVoided = clonePtr(s.DateVoided)

	return o, nil
}

// Clone returns an independent copy of o.
func (o *Order) Clone() *Order {
	c, err := Restore(o.Snapshot())
	if err != nil {
		// o was valid, so its snapshot is too.
		panic(err)
	}
	return c
}

type schemaView struct {
	UUID         string `json:"uuid"         validate:"required,uuid"`
	OrderNumber  string `json:"orderNumber"  validate:"required,max=50"`
	Concept      int64  `json:"concept"      validate:"gt=0"`
	Patient      string `json:"patient"      validate:"required,uuid"`
	Action       string `json:"action"       validate:"oneof=NEW DISCONTINUE"`
	Kind         string `json:"kind"         validate:"oneof=GENERIC DRUG"`
	Instructions string `json:"instructions" validate:"max=1024"`
	Discontinues string `json:"discontinues" validate:"required_if=Action DISCONTINUE,omitempty,uuid"`

	Filler     string     `json:"filler"     validate:"max=255,required_with=DateFilled"`
	DateFilled *time.Time `json:"dateFilled"`

	Discontinued       bool       `json:"discontinued"`
	DateDiscontinued   *time.Time `json:"dateDiscontinued"   validate:"required_if=Discontinued true"`
	DiscontinuedReason int64      `json:"discontinuedReason" validate:"required_if=Discontinued true"`
	DiscontinuedBy     int64      `json:"discontinuedBy"     validate:"required_if=Discontinued true"`

	Voided     bool   `json:"voided"`
	VoidReason string `json:"voidReason" validate:"required_if=Voided true,max=255"`
}

// ValidateSchema checks the declared field rules that must hold before a save.
//
// Rules:
//   - uuid and patient are valid uuids, the order number is set and at most 50 bytes
//   - a DISCONTINUE order references the order it terminates
//   - filler is at most 255 bytes and present whenever dateFilled is
//   - a discontinued order has its date, reason and actor
//   - a voided order has a void reason of at most 255 bytes
//   - a DRUG order has a dosage
//
// Returns errs.SchemaIsInvalidError listing every violated field.
func (o *Order) ValidateSchema() error {
	if err := o.Validate(); err != nil {
		return err
	}

	view := schemaView{
		UUID:               uuidString(&o.uuid),
		OrderNumber:        o.orderNumber,
		Concept:            int64(o.concept),
		Patient:            uuidString(&o.patient),
		Action:             o.action.String(),
		Kind:               o.kind.String(),
		Instructions:       o.instructions,
		Discontinues:       uuidString(o.discontinues),
		Filler:             o.filler,
		DateFilled:         o.dateFilled,
		Discontinued:       o.discontinued,
		DateDiscontinued:   o.dateDiscontinued,
		DiscontinuedReason: int64(o.discontinuedReason),
		Voided:             o.voided,
		VoidReason:         o.voidReason,
	}
	if o.discontinuedBy != nil {
		view.DiscontinuedBy = o.discontinuedBy.ID()
	}

	if err := schema.Validate("order", view); err != nil {
		return err
	}
	if o.kind == KindDrug && o.dosage == nil {
		return errs.NewSchemaIsInvalidError("order", []errs.FieldViolation{{Field: "dosage", Rule: "required"}})
	}
	return nil
}

// restoredPair rejects an actor stored without its date or a date without its actor.
func restoredPair(field string, byIsSet, dateIsSet bool) error {
	if byIsSet != dateIsSet {
		return errs.NewValueIsInvalidErrorWithCause(field, errors.New("actor and date must be set together"))
	}
	return nil
}

// restoredOrdering rejects rows that skipped a stage: activation needs a
// signature and a fill needs an activation.
func restoredOrdering(s Snapshot) error {
	if s.DateActivated != nil && s.DateSigned == nil {
		return errs.NewValueIsInvalidErrorWithCause("dateActivated", errors.New("order is activated but not signed"))
	}
	if s.DateFilled != nil && s.DateActivated == nil {
		return errs.NewValueIsInvalidErrorWithCause("dateFilled", errors.New("order is filled but not activated"))
	}
	return nil
}

// uuidString renders an optional uuid, empty for nil or zero.
func uuidString(id *kernel.UUID) string {
	if id == nil || id.IsZero() {
		return ""
	}
	return id.String()
}

// clonePtr copies the value behind p so the result does not alias it.
func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
