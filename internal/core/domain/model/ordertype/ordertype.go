// Package ordertype holds OrderType, the administrative classification of orders.
package ordertype

import (
	"errors"
	"strings"

	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/pkg/errs"
	"orderentry/internal/pkg/schema"
)

// ErrOrderTypeIsNotConstructed is returned for zero-value order types.
var ErrOrderTypeIsNotConstructed = errors.New("OrderType must be created via NewOrderType constructor")

// OrderType can be retired (with a reason) and unretired; purging is a hard delete.
type OrderType struct {
	id           int64
	uuid         kernel.UUID
	name         string
	description  string
	retired      bool
	retireReason string

	isConstructed bool
}

// Snapshot is the persisted form of an OrderType.
type Snapshot struct {
	ID           int64
	UUID         kernel.UUID
	Name         string
	Description  string
	Retired      bool
	RetireReason string
}

// NewOrderType creates an active order type. name is trimmed and required;
// description is optional.
//
// Example:
//
//	lab, err := ordertype.NewOrderType(kernel.NewUUID(), "Lab Test", "blood and urine panels")
func NewOrderType(id kernel.UUID, name, description string) (*OrderType, error) {
	t := &OrderType{
		description:   description,
		isConstructed: true,
	}

	if err := errors.Join(t.setUUID(id), t.setName(name)); err != nil {
		return nil, err
	}
	return t, nil
}

// Restore rebuilds a persisted order type, including its retired state.
func Restore(s Snapshot) (*OrderType, error) {
	t, err := NewOrderType(s.UUID, s.Name, s.Description)
	if err != nil {
		return nil, err
	}
	t.id = s.ID
	t.retired = s.Retired
	t.retireReason = s.RetireReason
	return t, nil
}

// Snapshot copies the order type's state for persistence.
func (t *OrderType) Snapshot() Snapshot {
	return Snapshot{
		ID:           t.id,
		UUID:         t.uuid,
		Name:         t.name,
		Description:  t.description,
		Retired:      t.retired,
		RetireReason: t.retireReason,
	}
}

// Validate ensures the order type was built through NewOrderType or Restore.
func (t *OrderType) Validate() error {
	if t == nil || !t.isConstructed {
		return ErrOrderTypeIsNotConstructed
	}
	return nil
}

// ID returns the store id, zero for a new order type.
func (t *OrderType) ID() int64 { return t.id }

// UUID returns the order type's uuid.
func (t *OrderType) UUID() kernel.UUID { return t.uuid }

// Name returns the trimmed unique name.
func (t *OrderType) Name() string { return t.name }

// Description returns the optional description.
func (t *OrderType) Description() string { return t.description }

// IsRetired reports whether the order type is retired.
func (t *OrderType) IsRetired() bool { return t.retired }

// RetireReason is empty unless the order type is retired.
func (t *OrderType) RetireReason() string { return t.retireReason }

// AssignID is called by repositories after the first insert.
func (t *OrderType) AssignID(id int64) {
	t.id = id
}

// Retire requires a non-blank reason.
func (t *OrderType) Retire(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return errs.NewValueIsRequiredError("retireReason")
	}
	t.retired = true
	t.retireReason = reason
	return nil
}

// Unretire clears the retired flag and reason.
func (t *OrderType) Unretire() {
	t.retired = false
	t.retireReason = ""
}

type schemaView struct {
	UUID         string `json:"uuid"         validate:"required,uuid"`
	Name         string `json:"name"         validate:"required,max=255"`
	Description  string `json:"description"  validate:"max=1024"`
	Retired      bool   `json:"retired"`
	RetireReason string `json:"retireReason" validate:"required_if=Retired true,max=255"`
}

// ValidateSchema checks name and description lengths and that a retired
// type carries a reason. Violations are reported for entity "order type".
func (t *OrderType) ValidateSchema() error {
	if err := t.Validate(); err != nil {
		return err
	}
	return schema.Validate("order type", schemaView{
		UUID:         t.uuid.String(),
		Name:         t.name,
		Description:  t.description,
		Retired:      t.retired,
		RetireReason: t.retireReason,
	})
}

func (t *OrderType) setUUID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	t.uuid = id
	return nil
}

func (t *OrderType) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	t.name = name
	return nil
}
