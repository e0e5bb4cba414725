// Package ordergrouprepo persists OrderGroup aggregates. Members are stored by
// id in order_group_members, ordered by position.
package ordergrouprepo

import (
	"time"

	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/order"
	"orderentry/internal/core/domain/model/ordergroup"

	"github.com/google/uuid"
)

// OrderGroupDTO is a row of order_groups.
type OrderGroupDTO struct {
	ID               int64     `gorm:"primaryKey;autoIncrement"`
	UUID             uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	Patient          uuid.UUID `gorm:"type:uuid;index"`
	Voided           bool
	VoidReason       string `gorm:"size:255"`
	VoidedByID       *int64
	VoidedBySystemID *string `gorm:"size:255"`
	DateVoided       *time.Time
}

// TableName implements gorm's tabler interface.
func (OrderGroupDTO) TableName() string {
	return "order_groups"
}

// OrderGroupMemberDTO links a group to one member order at a position.
type OrderGroupMemberDTO struct {
	GroupID  int64 `gorm:"primaryKey"`
	Position int   `gorm:"primaryKey"`
	OrderID  int64 `gorm:"index;not null"`
}

// TableName implements gorm's tabler interface.
func (OrderGroupMemberDTO) TableName() string {
	return "order_group_members"
}

func fromDomain(g *ordergroup.OrderGroup) OrderGroupDTO {
	dto := OrderGroupDTO{
		ID:         g.ID(),
		UUID:       g.UUID().Bytes(),
		Patient:    g.Patient().Bytes(),
		Voided:     g.IsVoided(),
		VoidReason: g.VoidReason(),
		DateVoided: g.DateVoided(),
	}
	if by := g.VoidedBy(); by != nil {
		id, systemID := by.ID(), by.SystemID()
		dto.VoidedByID = &id
		dto.VoidedBySystemID = &systemID
	}
	return dto
}

func toDomain(dto OrderGroupDTO, members []*order.Order) (*ordergroup.OrderGroup, error) {
	id, err := kernel.UUIDFromBytes(dto.UUID[:])
	if err != nil {
		return nil, err
	}
	patient, err := kernel.UUIDFromBytes(dto.Patient[:])
	if err != nil {
		return nil, err
	}

	s := ordergroup.Snapshot{
		ID:         dto.ID,
		UUID:       id,
		Patient:    patient,
		Members:    members,
		Voided:     dto.Voided,
		VoidReason: dto.VoidReason,
		DateVoided: dto.DateVoided,
	}
	if dto.VoidedByID != nil {
		systemID := ""
		if dto.VoidedBySystemID != nil {
			systemID = *dto.VoidedBySystemID
		}
		by, actorErr := kernel.NewActor(*dto.VoidedByID, systemID)
		if actorErr != nil {
			return nil, actorErr
		}
		s.VoidedBy = &by
	}

	return ordergroup.Restore(s)
}
