package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created through
	// NewOrder, NewDrugOrder, NewDiscontinuationOrder or Restore.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Order is one clinical directive for a patient and the aggregate root of the
// order lifecycle.
//
// Forward progress (Drafted, Signed, Activated, Filled) is derived from the
// signing, activation and fill fields, which are only ever set together.
// Discontinued and voided are independent flags; a voided order accepts no
// further structural transition until it is unvoided.
//
// Invariants:
//   - signedBy and dateSigned are both set or both nil; the same holds for
//     activation, and for dateFilled with filler
//   - an activated order is signed, a filled order is activated
//   - a DISCONTINUE order always references the order it terminates
//   - the order number is assigned at most once
//
// Example usage:
//
//	o, err := order.NewOrder(kernel.NewUUID(), patient, kernel.ConceptID(5089), "once daily")
//	if err != nil {
//	    return err
//	}
//	_ = o.Sign(doctor, now)
//	_ = o.Activate(doctor, now)
//	fmt.Println(o.Stage()) // ACTIVATED
type Order struct {
	// id is assigned by the repository on first insert; 0 means never saved
	id int64
	// uuid is the stable external identity
	uuid kernel.UUID
	// orderNumber is the human-readable number assigned on the first save
	orderNumber string

	// concept is the coded clinical concept being ordered
	concept kernel.ConceptID
	// patient is the uuid of the patient the order is for
	patient kernel.UUID
	// action is NEW for ordinary orders and DISCONTINUE for companions
	action Action
	// kind distinguishes generic orders from drug orders
	kind Kind
	// dosage is set only for drug orders
	dosage *Dosage
	// instructions is free text, bounded by MaxInstructionsLength
	instructions string
	// discontinues references the order a DISCONTINUE order terminates
	discontinues *kernel.UUID

	signedBy   *kernel.Actor
	dateSigned *time.Time

	activatedBy   *kernel.Actor
	dateActivated *time.Time

	dateFilled *time.Time
	filler     string

	discontinued       bool
	dateDiscontinued   *time.Time
	discontinuedReason kernel.ConceptID
	discontinuedBy     *kernel.Actor

	voided     bool
	voidReason string
	voidedBy   *kernel.Actor
	dateVoided *time.Time

	// isConstructed is false for zero-value orders
	isConstructed bool
}

// NewOrder creates a drafted generic order with action NEW.
//
// The order has no id and no order number; both are assigned when the order is
// first saved.
//
// Parameters:
//   - id: uuid of the new order (must be constructed)
//   - patient: uuid of the patient (required)
//   - concept: the ordered concept (must be positive)
//   - instructions: free text, at most MaxInstructionsLength bytes
//
// Returns:
//   - *Order: the drafted order
//   - error: every invalid parameter, joined with errors.Join
//
// Example:
//
//	o, err := order.NewOrder(kernel.NewUUID(), patient, kernel.ConceptID(5089), "take with water")
func NewOrder(id kernel.UUID, patient kernel.UUID, concept kernel.ConceptID, instructions string) (*Order, error) {
	o := &Order{
		action:        ActionNew,
		kind:          KindGeneric,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setUUID(id),
		o.setPatient(patient),
		o.setConcept(concept),
		o.setInstructions(instructions),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// NewDrugOrder creates a drafted DRUG order carrying dosage.
//
// Parameter rules are those of NewOrder plus a valid dosage. Order and dosage
// errors are reported together.
//
// Example:
//
//	dose, _ := order.NewDosage(500, "mg", "twice daily", 20)
//	o, err := order.NewDrugOrder(kernel.NewUUID(), patient, kernel.ConceptID(71617), dose, "")
func NewDrugOrder(
	id kernel.UUID,
	patient kernel.UUID,
	concept kernel.ConceptID,
	dosage Dosage,
	instructions string,
) (*Order, error) {
	o, err := NewOrder(id, patient, concept, instructions)
	if err != nil {
		if dosageErr := dosage.Validate(); dosageErr != nil {
			return nil, errors.Join(err, dosageErr)
		}
		return nil, err
	}
	if err = dosage.Validate(); err != nil {
		return nil, err
	}

	o.kind = KindDrug
	o.dosage = &dosage
	return o, nil
}

// NewDiscontinuationOrder creates the DISCONTINUE companion of original:
// same concept and patient, referencing original by uuid.
//
// The companion is drafted with a fresh uuid. Signing, activating and saving
// it is the caller's job.
//
// Returns ErrOrderIsNotConstructed when original is nil or a zero value.
func NewDiscontinuationOrder(original *Order) (*Order, error) {
	if err := original.Validate(); err != nil {
		return nil, err
	}

	o, err := NewOrder(kernel.NewUUID(), original.patient, original.concept, "")
	if err != nil {
		return nil, err
	}

	ref := original.uuid
	o.action = ActionDiscontinue
	o.discontinues = &ref
	return o, nil
}

// Validate reports ErrOrderIsNotConstructed for nil or zero-value orders.
// Every other method assumes a constructed order.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares orders by uuid.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.uuid.IsEqual(other.uuid)
}

// ID is the store-assigned numeric id, 0 until first persisted.
func (o *Order) ID() int64 {
	return o.id
}

// IsNew reports whether the store has not assigned an id yet.
func (o *Order) IsNew() bool {
	return o.id == 0
}

// UUID returns the stable external identity of the order.
func (o *Order) UUID() kernel.UUID {
	return o.uuid
}

// OrderNumber is empty until the first save.
func (o *Order) OrderNumber() string {
	return o.orderNumber
}

// Concept returns the ordered clinical concept.
func (o *Order) Concept() kernel.ConceptID {
	return o.concept
}

// Patient returns the uuid of the patient the order is for.
func (o *Order) Patient() kernel.UUID {
	return o.patient
}

// Action is NEW, or DISCONTINUE for companions built by NewDiscontinuationOrder.
func (o *Order) Action() Action {
	return o.action
}

// Kind is GENERIC or DRUG.
func (o *Order) Kind() Kind {
	return o.kind
}

// Dosage returns the dosage of a DRUG order; ok is false for any other kind.
func (o *Order) Dosage() (Dosage, bool) {
	if o.kind != KindDrug || o.dosage == nil {
		return Dosage{}, false
	}
	return *o.dosage, true
}

// Instructions returns the free-text instructions, possibly empty.
func (o *Order) Instructions() string {
	return o.instructions
}

// Discontinues is the uuid of the order a DISCONTINUE order terminates, nil otherwise.
func (o *Order) Discontinues() *kernel.UUID {
	return o.discontinues
}

// Stage derives the forward-progress position from the recorded transitions.
//
// The latest recorded transition wins:
//   - dateFilled set: Filled
//   - dateActivated set: Activated
//   - dateSigned set: Signed
//   - otherwise: Drafted
//
// Discontinuation and voiding do not change the stage.
func (o *Order) Stage() Stage {
	switch {
	case o.dateFilled != nil:
		return Filled
	case o.dateActivated != nil:
		return Activated
	case o.dateSigned != nil:
		return Signed
	default:
		return Drafted
	}
}

// IsSigned reports whether a signature is recorded.
func (o *Order) IsSigned() bool {
	return o.dateSigned != nil
}

// IsActivated reports whether an activation is recorded.
func (o *Order) IsActivated() bool {
	return o.dateActivated != nil
}

// IsFilled reports whether a fulfilment is recorded.
func (o *Order) IsFilled() bool {
	return o.dateFilled != nil
}

// SignedBy is nil until the order is signed.
func (o *Order) SignedBy() *kernel.Actor {
	return o.signedBy
}

// DateSigned is nil until the order is signed.
func (o *Order) DateSigned() *time.Time {
	return o.dateSigned
}

// ActivatedBy is nil until the order is activated.
func (o *Order) ActivatedBy() *kernel.Actor {
	return o.activatedBy
}

// DateActivated is nil until the order is activated.
func (o *Order) DateActivated() *time.Time {
	return o.dateActivated
}

// DateFilled is nil until the order is filled.
func (o *Order) DateFilled() *time.Time {
	return o.dateFilled
}

// Filler is the free-text or actor-derived label of whoever filled the order.
func (o *Order) Filler() string {
	return o.filler
}

// Discontinued reports the discontinued flag regardless of its date.
// Use IsDiscontinued to ask whether the discontinuation is in effect.
func (o *Order) Discontinued() bool {
	return o.discontinued
}

// DateDiscontinued is nil until the order is discontinued.
func (o *Order) DateDiscontinued() *time.Time {
	return o.dateDiscontinued
}

// DiscontinuedReason returns the coded reason, zero until discontinued.
func (o *Order) DiscontinuedReason() kernel.ConceptID {
	return o.discontinuedReason
}

// DiscontinuedBy returns who discontinued the order.
func (o *Order) DiscontinuedBy() *kernel.Actor {
	return o.discontinuedBy
}

// IsDiscontinued reports whether the order is discontinued as of asOf.
// A discontinuation dated after asOf does not count yet.
func (o *Order) IsDiscontinued(asOf time.Time) bool {
	if !o.discontinued || o.dateDiscontinued == nil {
		return false
	}
	return !o.dateDiscontinued.After(asOf)
}

// IsActive reports whether a NEW order is in effect at asOf: activated by
// then, not voided and not discontinued.
//
// Example:
//
//	if o.IsActive(time.Now()) {
//	    // include o in the patient's active medication list
//	}
func (o *Order) IsActive(asOf time.Time) bool {
	if o.action != ActionNew || o.voided || o.dateActivated == nil {
		return false
	}
	return !o.dateActivated.After(asOf) && !o.IsDiscontinued(asOf)
}

// IsVoided reports whether the order was marked entered in error.
func (o *Order) IsVoided() bool {
	return o.voided
}

// VoidReason is empty unless the order is voided.
func (o *Order) VoidReason() string {
	return o.voidReason
}

// VoidedBy may be nil even for a voided order when no actor was authenticated.
func (o *Order) VoidedBy() *kernel.Actor {
	return o.voidedBy
}

// DateVoided is nil unless the order is voided.
func (o *Order) DateVoided() *time.Time {
	return o.dateVoided
}

// ValidateSign checks the state preconditions of Sign without mutating.
//
// Returns ErrStateIsInvalid when the order is voided or already signed.
func (o *Order) ValidateSign() error {
	if err := o.ensureNotVoided("sign"); err != nil {
		return err
	}
	_, err := o.Stage().Sign()
	return err
}

// Sign records signer and timestamp together.
//
// Parameters:
//   - by: the signing actor (must be constructed)
//   - at: the signing time, taken as given
//
// Returns:
//   - ErrStateIsInvalid: the order is voided or already signed
//   - ErrArgumentIsInvalid: by is not a valid actor
//
// Nothing is changed when an error is returned.
func (o *Order) Sign(by kernel.Actor, at time.Time) error {
	if err := o.ValidateSign(); err != nil {
		return err
	}
	if err := by.Validate(); err != nil {
		return err
	}

	o.signedBy = &by
	o.dateSigned = &at
	return nil
}

// ValidateActivate checks the state preconditions of Activate without mutating.
func (o *Order) ValidateActivate() error {
	if err := o.ensureNotVoided("activate"); err != nil {
		return err
	}
	_, err := o.Stage().Activate()
	return err
}

// Activate records activator and timestamp. The order must be signed.
//
// Returns ErrStateIsInvalid for a voided, unsigned or already activated order;
// nothing is changed on error.
func (o *Order) Activate(by kernel.Actor, at time.Time) error {
	if err := o.ValidateActivate(); err != nil {
		return err
	}
	if err := by.Validate(); err != nil {
		return err
	}

	o.activatedBy = &by
	o.dateActivated = &at
	return nil
}

// ValidateFill checks the state preconditions of Fill without mutating.
func (o *Order) ValidateFill() error {
	if err := o.ensureNotVoided("fill"); err != nil {
		return err
	}
	_, err := o.Stage().Fill()
	return err
}

// Fill records the fulfilment. at must not be later than now.
//
// Parameters:
//   - filler: who filled the order; trimmed and required
//   - at: the fill time
//   - now: the current time, used to reject fills dated in the future
//
// Returns:
//   - ErrStateIsInvalid: the order is voided, not activated or already filled
//   - ErrValueIsRequired: filler is blank
//   - ErrArgumentIsInvalid: at is after now
//
// Example:
//
//	err := o.Fill("central pharmacy", dispensedAt, time.Now())
func (o *Order) Fill(filler string, at time.Time, now time.Time) error {
	if err := o.ValidateFill(); err != nil {
		return err
	}

	filler = strings.TrimSpace(filler)
	if filler == "" {
		return errs.NewValueIsRequiredError("filler")
	}
	if at.After(now) {
		return errs.NewValueIsInvalidErrorWithCause(
			"dateFilled",
			fmt.Errorf("%s is in the future, cannot fill an order in the future", at.Format(time.RFC3339)),
		)
	}

	o.dateFilled = &at
	o.filler = filler
	return nil
}

// ValidateDiscontinue checks the state preconditions of Discontinue without mutating.
//
// An order discontinued with a date after at may be discontinued again as of at.
func (o *Order) ValidateDiscontinue(at time.Time) error {
	if err := o.ensureNotVoided("discontinue"); err != nil {
		return err
	}
	if o.IsDiscontinued(at) {
		return errs.NewStateIsInvalidErrorWithCause(
			"discontinue",
			fmt.Errorf("order is already discontinued as of %s", at.Format(time.RFC3339)),
		)
	}
	return nil
}

// Discontinue sets every discontinuation field on the order.
//
// Parameters:
//   - reason: coded reason (must be positive)
//   - by: the discontinuing actor
//   - at: effective time of the discontinuation
//
// The companion DISCONTINUE order is not created here; see
// NewDiscontinuationOrder.
func (o *Order) Discontinue(reason kernel.ConceptID, by kernel.Actor, at time.Time) error {
	if err := o.ValidateDiscontinue(at); err != nil {
		return err
	}
	if err := errors.Join(reason.Validate(), by.Validate()); err != nil {
		return err
	}

	o.discontinued = true
	o.dateDiscontinued = &at
	o.discontinuedReason = reason
	o.discontinuedBy = &by
	return nil
}

// Void marks the order voided. Voiding a voided order changes nothing.
// dateVoided is kept if it was already set.
//
// Parameters:
//   - reason: why the order was entered in error (required)
//   - by: the voiding actor, or nil when nobody is authenticated
//   - at: the void time
//
// Example:
//
//	if err := o.Void("wrong patient", &nurse, time.Now()); err != nil {
//	    return err
//	}
func (o *Order) Void(reason string, by *kernel.Actor, at time.Time) error {
	if o.voided {
		return nil
	}
	if strings.TrimSpace(reason) == "" {
		return errs.NewValueIsRequiredError("voidReason")
	}

	o.voided = true
	o.voidReason = reason
	o.voidedBy = clonePtr(by)
	if o.dateVoided == nil {
		o.dateVoided = &at
	}
	return nil
}

// Unvoid clears every void field regardless of the current state.
func (o *Order) Unvoid() {
	o.voided = false
	o.voidReason = ""
	o.voidedBy = nil
	o.dateVoided = nil
}

// AssignOrderNumber sets the order number once.
//
// Returns ErrStateIsInvalid when a number is already assigned and
// ErrValueIsRequired for a blank number.
func (o *Order) AssignOrderNumber(number string) error {
	if o.orderNumber != "" {
		return errs.NewStateIsInvalidErrorWithCause(
			"assign order number",
			fmt.Errorf("order number %s is already assigned", o.orderNumber),
		)
	}
	if strings.TrimSpace(number) == "" {
		return errs.NewValueIsRequiredError("orderNumber")
	}
	o.orderNumber = number
	return nil
}

// AssignID is called by repositories after the first insert.
func (o *Order) AssignID(id int64) {
	o.id = id
}

func (o *Order) ensureNotVoided(operation string) error {
	if o.voided {
		return errs.NewStateIsInvalidErrorWithCause(operation, errors.New("order is voided"))
	}
	return nil
}

func (o *Order) setUUID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.uuid = id
	return nil
}

func (o *Order) setPatient(patient kernel.UUID) error {
	if err := patient.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("patient", err)
	}
	o.patient = patient
	return nil
}

func (o *Order) setConcept(concept kernel.ConceptID) error {
	if err := concept.Validate(); err != nil {
		return err
	}
	o.concept = concept
	return nil
}

func (o *Order) setInstructions(instructions string) error {
	if len(instructions) > MaxInstructionsLength {
		return errs.NewValueIsOutOfRangeError("instructions length", len(instructions), 0, MaxInstructionsLength)
	}
	o.instructions = instructions
	return nil
}
