// Package orderrepo persists Order aggregates in the "orders" table.
package orderrepo

import (
	"time"

	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the row layout of an order. Provenance actors are embedded as
// nullable column pairs.
type OrderDTO struct {
	ID           int64      `gorm:"primaryKey;autoIncrement"`
	UUID         uuid.UUID  `gorm:"type:uuid;uniqueIndex"`
	OrderNumber  string     `gorm:"size:50;uniqueIndex"`
	Concept      int64      `gorm:"not null"`
	Patient      uuid.UUID  `gorm:"type:uuid;index"`
	Action       int        `gorm:"type:smallint"`
	Kind         int        `gorm:"type:smallint"`
	Dosage       DosageDTO  `gorm:"embedded;embeddedPrefix:dosage_"`
	Instructions string     `gorm:"size:1024"`
	Discontinues *uuid.UUID `gorm:"type:uuid;index"`

	SignedBy      ActorDTO `gorm:"embedded;embeddedPrefix:signed_by_"`
	DateSigned    *time.Time
	ActivatedBy   ActorDTO `gorm:"embedded;embeddedPrefix:activated_by_"`
	DateActivated *time.Time
	DateFilled    *time.Time
	Filler        string `gorm:"size:255"`

	Discontinued       bool
	DateDiscontinued   *time.Time
	DiscontinuedReason int64
	DiscontinuedBy     ActorDTO `gorm:"embedded;embeddedPrefix:discontinued_by_"`

	Voided     bool
	VoidReason string   `gorm:"size:255"`
	VoidedBy   ActorDTO `gorm:"embedded;embeddedPrefix:voided_by_"`
	DateVoided *time.Time
}

// TableName implements gorm's tabler interface.
func (OrderDTO) TableName() string {
	return "orders"
}

// DosageDTO columns are null for generic orders.
type DosageDTO struct {
	Dose      *float64
	Units     *string `gorm:"size:50"`
	Frequency *string `gorm:"size:255"`
	Quantity  *int
}

// ActorDTO columns are null when nobody performed the transition.
type ActorDTO struct {
	ID       *int64
	SystemID *string `gorm:"size:255"`
}

func actorFromDomain(a *kernel.Actor) ActorDTO {
	if a == nil {
		return ActorDTO{}
	}
	id, systemID := a.ID(), a.SystemID()
	return ActorDTO{ID: &id, SystemID: &systemID}
}

func (d ActorDTO) toDomain() (*kernel.Actor, error) {
	if d.ID == nil {
		return nil, nil
	}
	systemID := ""
	if d.SystemID != nil {
		systemID = *d.SystemID
	}
	a, err := kernel.NewActor(*d.ID, systemID)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func fromDomain(o *order.Order) OrderDTO {
	s := o.Snapshot()

	dto := OrderDTO{
		ID:                 s.ID,
		UUID:               s.UUID.Bytes(),
		OrderNumber:        s.OrderNumber,
		Concept:            int64(s.Concept),
		Patient:            s.Patient.Bytes(),
		Action:             int(s.Action),
		Kind:               int(s.Kind),
		Instructions:       s.Instructions,
		SignedBy:           actorFromDomain(s.SignedBy),
		DateSigned:         s.DateSigned,
		ActivatedBy:        actorFromDomain(s.ActivatedBy),
		DateActivated:      s.DateActivated,
		DateFilled:         s.DateFilled,
		Filler:             s.Filler,
		Discontinued:       s.Discontinued,
		DateDiscontinued:   s.DateDiscontinued,
		DiscontinuedReason: int64(s.DiscontinuedReason),
		DiscontinuedBy:     actorFromDomain(s.DiscontinuedBy),
		Voided:             s.Voided,
		VoidReason:         s.VoidReason,
		VoidedBy:           actorFromDomain(s.VoidedBy),
		DateVoided:         s.DateVoided,
	}

	if s.Discontinues != nil {
		ref := s.Discontinues.Bytes()
		dto.Discontinues = &ref
	}
	if s.Dosage != nil {
		dose, units, frequency, quantity := s.Dosage.Dose(), s.Dosage.Units(), s.Dosage.Frequency(), s.Dosage.Quantity()
		dto.Dosage = DosageDTO{Dose: &dose, Units: &units, Frequency: &frequency, Quantity: &quantity}
	}

	return dto
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.UUID[:])
	if err != nil {
		return nil, err
	}
	patient, err := kernel.UUIDFromBytes(dto.Patient[:])
	if err != nil {
		return nil, err
	}

	s := order.Snapshot{
		ID:                 dto.ID,
		UUID:               id,
		OrderNumber:        dto.OrderNumber,
		Concept:            kernel.ConceptID(dto.Concept),
		Patient:            patient,
		Action:             order.Action(dto.Action),
		Kind:               order.Kind(dto.Kind),
		Instructions:       dto.Instructions,
		DateSigned:         dto.DateSigned,
		DateActivated:      dto.DateActivated,
		DateFilled:         dto.DateFilled,
		Filler:             dto.Filler,
		Discontinued:       dto.Discontinued,
		DateDiscontinued:   dto.DateDiscontinued,
		DiscontinuedReason: kernel.ConceptID(dto.DiscontinuedReason),
		Voided:             dto.Voided,
		VoidReason:         dto.VoidReason,
		DateVoided:         dto.DateVoided,
	}

	if dto.Discontinues != nil {
		ref, refErr := kernel.UUIDFromBytes(dto.Discontinues[:])
		if refErr != nil {
			return nil, refErr
		}
		s.Discontinues = &ref
	}

	if dto.Dosage.Dose != nil {
		dosage, dosageErr := order.NewDosage(
			*dto.Dosage.Dose,
			deref(dto.Dosage.Units),
			deref(dto.Dosage.Frequency),
			derefInt(dto.Dosage.Quantity),
		)
		if dosageErr != nil {
			return nil, dosageErr
		}
		s.Dosage = &dosage
	}

	if s.SignedBy, err = dto.SignedBy.toDomain(); err != nil {
		return nil, err
	}
	if s.ActivatedBy, err = dto.ActivatedBy.toDomain(); err != nil {
		return nil, err
	}
	if s.DiscontinuedBy, err = dto.DiscontinuedBy.toDomain(); err != nil {
		return nil, err
	}
	if s.VoidedBy, err = dto.VoidedBy.toDomain(); err != nil {
		return nil, err
	}

	return order.Restore(s)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}
