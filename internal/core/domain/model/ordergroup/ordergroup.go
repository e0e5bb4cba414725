// Package ordergroup holds the OrderGroup aggregate: orders signed and
// activated together as one clinical decision.
package ordergroup

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/order"
	"orderentry/internal/pkg/errs"
	"orderentry/internal/pkg/schema"
)

// ErrOrderGroupIsNotConstructed is returned for zero-value groups.
var ErrOrderGroupIsNotConstructed = errors.New("OrderGroup must be created via NewOrderGroup constructor")

// OrderGroup is an ordered list of member orders for one patient plus its own
// void state. Voiding the group never touches the members.
//
// Invariants:
//   - every member is a constructed order of the group's patient
//   - a voided group has a non-blank void reason
//
// A group is signed and activated once, while it is new; afterwards only its
// void state changes.
//
// Example:
//
//	g, err := ordergroup.NewOrderGroup(kernel.NewUUID(), patient, members)
//	if err != nil {
//	    return err
//	}
//	if err = g.ValidateSignAndActivate(); err != nil {
//	    return err
//	}
type OrderGroup struct {
	// id is assigned by the repository on first save; zero while new.
	id      int64
	uuid    kernel.UUID
	patient kernel.UUID
	// members keeps signing order.
	members []*order.Order

	voided     bool
	voidReason string
	voidedBy   *kernel.Actor
	dateVoided *time.Time

	isConstructed bool
}

// Snapshot is the persisted form of an OrderGroup.
type Snapshot struct {
	ID         int64
	UUID       kernel.UUID
	Patient    kernel.UUID
	Members    []*order.Order
	Voided     bool
	VoidReason string
	VoidedBy   *kernel.Actor
	DateVoided *time.Time
}

// NewOrderGroup creates an unsaved group.
//
// Parameters:
//   - id: the group uuid, required
//   - patient: required; every member must belong to this patient
//   - members: the orders in the order they are signed; may be empty
//
// Returns ErrValueIsRequired for a missing patient and ErrValueIsInvalid,
// naming the member index, for unconstructed members or members of another patient.
//
// Example:
//
//	g, err := ordergroup.NewOrderGroup(kernel.NewUUID(), patient, []*order.Order{aspirin, statin})
func NewOrderGroup(id kernel.UUID, patient kernel.UUID, members []*order.Order) (*OrderGroup, error) {
	g := &OrderGroup{isConstructed: true}

	if err := errors.Join(
		g.setUUID(id),
		g.setPatient(patient),
	); err != nil {
		return nil, err
	}
	if err := g.setMembers(members); err != nil {
		return nil, err
	}

	return g, nil
}

// Restore rebuilds a persisted group, including its void state.
// Member orders must already be restored.
//
// Returns the same errors as NewOrderGroup.
func Restore(s Snapshot) (*OrderGroup, error) {
	g, err := NewOrderGroup(s.UUID, s.Patient, s.Members)
	if err != nil {
		return nil, err
	}

	g.id = s.ID
	g.voided = s.Voided
	g.voidReason = s.VoidReason
	if s.VoidedBy != nil {
		by := *s.VoidedBy
		g.voidedBy = &by
	}
	if s.DateVoided != nil {
		at := *s.DateVoided
		g.dateVoided = &at
	}
	return g, nil
}

// Snapshot exposes the persisted fields. Members are shared with g.
func (g *OrderGroup) Snapshot() Snapshot {
	return Snapshot{
		ID:         g.id,
		UUID:       g.uuid,
		Patient:    g.patient,
		Members:    g.Members(),
		Voided:     g.voided,
		VoidReason: g.voidReason,
		VoidedBy:   g.voidedBy,
		DateVoided: g.dateVoided,
	}
}

// Clone copies the group fields. Member orders are shared.
func (g *OrderGroup) Clone() *OrderGroup {
	c, err := Restore(g.Snapshot())
	if err != nil {
		// g was valid, so its snapshot is too.
		panic(err)
	}
	return c
}

type schemaView struct {
	UUID       string `json:"uuid"       validate:"required,uuid"`
	Patient    string `json:"patient"    validate:"required,uuid"`
	Voided     bool   `json:"voided"`
	VoidReason string `json:"voidReason" validate:"required_if=Voided true,max=255"`
}

// ValidateSchema checks the declared field rules that must hold before a save.
// Violations are reported as errs.SchemaIsInvalidError for entity "order_group".
func (g *OrderGroup) ValidateSchema() error {
	if err := g.Validate(); err != nil {
		return err
	}
	return schema.Validate("order_group", schemaView{
		UUID:       g.uuid.String(),
		Patient:    g.patient.String(),
		Voided:     g.voided,
		VoidReason: g.voidReason,
	})
}

// Validate reports ErrOrderGroupIsNotConstructed for nil or zero-value groups.
func (g *OrderGroup) Validate() error {
	if g == nil || !g.isConstructed {
		return ErrOrderGroupIsNotConstructed
	}
	return nil
}

// ID returns the store id, zero for a new group.
func (g *OrderGroup) ID() int64 {
	return g.id
}

// IsNew is true until the repository assigns an id.
func (g *OrderGroup) IsNew() bool {
	return g.id == 0
}

// UUID returns the group's uuid.
func (g *OrderGroup) UUID() kernel.UUID {
	return g.uuid
}

// Patient returns the patient shared by every member.
func (g *OrderGroup) Patient() kernel.UUID {
	return g.patient
}

// Members returns the member orders in order. The slice is a copy; the
// orders are shared.
func (g *OrderGroup) Members() []*order.Order {
	out := make([]*order.Order, len(g.members))
	copy(out, g.members)
	return out
}

// IsVoided reports whether the group itself is voided.
func (g *OrderGroup) IsVoided() bool {
	return g.voided
}

// VoidReason is empty unless the group is voided.
func (g *OrderGroup) VoidReason() string {
	return g.voidReason
}

// VoidedBy returns who voided the group, possibly nil.
func (g *OrderGroup) VoidedBy() *kernel.Actor {
	return g.voidedBy
}

// DateVoided is nil unless the group is voided.
func (g *OrderGroup) DateVoided() *time.Time {
	return g.dateVoided
}

// ValidateSignAndActivate checks that the group is new and has members.
// It does not look at the members' own state; each member is checked when
// the lifecycle signs it.
//
// Returns ErrStateIsInvalid for a saved group or an empty member list.
func (g *OrderGroup) ValidateSignAndActivate() error {
	if !g.IsNew() {
		return errs.NewStateIsInvalidErrorWithCause(
			"sign and activate order group",
			fmt.Errorf("order group %d already exists, use a new order group", g.id),
		)
	}
	if len(g.members) == 0 {
		return errs.NewStateIsInvalidErrorWithCause(
			"sign and activate order group",
			errors.New("order group has no orders"),
		)
	}
	return nil
}

// Void has the same contract as order.Order.Void, on group fields only.
//
// Parameters:
//   - reason: required, must not be blank
//   - by: the voiding actor, may be nil
//   - at: the void time
//
// Voiding an already voided group is a no-op that keeps the first reason.
func (g *OrderGroup) Void(reason string, by *kernel.Actor, at time.Time) error {
	if g.voided {
		return nil
	}
	if strings.TrimSpace(reason) == "" {
		return errs.NewValueIsRequiredError("voidReason")
	}

	g.voided = true
	g.voidReason = reason
	if by != nil {
		actor := *by
		g.voidedBy = &actor
	}
	if g.dateVoided == nil {
		g.dateVoided = &at
	}
	return nil
}

// Unvoid clears all four void fields, whatever the current state.
func (g *OrderGroup) Unvoid() {
	g.voided = false
	g.voidReason = ""
	g.voidedBy = nil
	g.dateVoided = nil
}

// AssignID is called by repositories after the first insert.
func (g *OrderGroup) AssignID(id int64) {
	g.id = id
}

func (g *OrderGroup) setUUID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	g.uuid = id
	return nil
}

func (g *OrderGroup) setPatient(patient kernel.UUID) error {
	if err := patient.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("patient", err)
	}
	g.patient = patient
	return nil
}

func (g *OrderGroup) setMembers(members []*order.Order) error {
	var errList []error
	for i, m := range members {
		if err := m.Validate(); err != nil {
			errList = append(errList, errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("member %d", i), err))
			continue
		}
		if !m.Patient().IsEqual(g.patient) {
			errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
				fmt.Sprintf("member %d", i),
				fmt.Errorf("order %s belongs to another patient", m.UUID()),
			))
		}
	}
	if err := errors.Join(errList...); err != nil {
		return err
	}

	g.members = make([]*order.Order, len(members))
	copy(g.members, members)
	return nil
}
