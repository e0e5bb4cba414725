// Package ordertyperepo persists OrderType aggregates in the "order_types" table.
package ordertyperepo

import (
	"context"
	"errors"

	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/ordertype"
	"orderentry/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderTypeDTO is a row of order_types. Names are unique.
type OrderTypeDTO struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	UUID         uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	Name         string    `gorm:"size:255;uniqueIndex"`
	Description  string    `gorm:"size:1024"`
	Retired      bool      `gorm:"index"`
	RetireReason string    `gorm:"size:255"`
}

// TableName implements gorm's tabler interface.
func (OrderTypeDTO) TableName() string {
	return "order_types"
}

// GormOrderTypeRepository implements ports.OrderTypeRepository on gorm.
type GormOrderTypeRepository struct {
	db *gorm.DB
}

// NewGormOrderTypeRepository creates a repository on db, usually a transaction.
func NewGormOrderTypeRepository(db *gorm.DB) *GormOrderTypeRepository {
	return &GormOrderTypeRepository{db: db}
}

// Save inserts a new order type, assigning its id, or updates a stored one.
func (r *GormOrderTypeRepository) Save(ctx context.Context, aggregate *ordertype.OrderType) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	s := aggregate.Snapshot()
	dto := OrderTypeDTO{
		ID:           s.ID,
		UUID:         s.UUID.Bytes(),
		Name:         s.Name,
		Description:  s.Description,
		Retired:      s.Retired,
		RetireReason: s.RetireReason,
	}

	if s.ID == 0 {
		if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
			return errs.NewStorageError("insert order type", err)
		}
		aggregate.AssignID(dto.ID)
		return nil
	}

	result := r.db.WithContext(ctx).Model(&OrderTypeDTO{}).Where("id = ?", dto.ID).Select("*").Updates(&dto)
	if result.Error != nil {
		return errs.NewStorageError("update order type", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("id", dto.ID)
	}
	return nil
}

// Delete removes the order type row.
func (r *GormOrderTypeRepository) Delete(ctx context.Context, aggregate *ordertype.OrderType) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Delete(&OrderTypeDTO{}, aggregate.ID()).Error; err != nil {
		return errs.NewStorageError("delete order type", err)
	}
	return nil
}

// Get returns the order type with the given id or errs.ErrObjectNotFound.
func (r *GormOrderTypeRepository) Get(ctx context.Context, id int64) (*ordertype.OrderType, error) {
	var dto OrderTypeDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id).Error; err != nil {
		return nil, notFoundOrStorage(err, "id", id)
	}
	return toDomain(dto)
}

// GetByUUID returns the order type with the given uuid or errs.ErrObjectNotFound.
func (r *GormOrderTypeRepository) GetByUUID(ctx context.Context, id kernel.UUID) (*ordertype.OrderType, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderTypeDTO
	if err := r.db.WithContext(ctx).First(&dto, "uuid = ?", id.Bytes()).Error; err != nil {
		return nil, notFoundOrStorage(err, "uuid", id.String())
	}
	return toDomain(dto)
}

// GetAll lists order types by name, retired ones only when includeRetired is set.
func (r *GormOrderTypeRepository) GetAll(ctx context.Context, includeRetired bool) ([]*ordertype.OrderType, error) {
	query := r.db.WithContext(ctx).Order("name")
	if !includeRetired {
		query = query.Where("retired = ?", false)
	}

	var dtos []OrderTypeDTO
	if err := query.Find(&dtos).Error; err != nil {
		return nil, errs.NewStorageError("get order types", err)
	}

	types := make([]*ordertype.OrderType, 0, len(dtos))
	for _, dto := range dtos {
		t, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
}

func toDomain(dto OrderTypeDTO) (*ordertype.OrderType, error) {
	id, err := kernel.UUIDFromBytes(dto.UUID[:])
	if err != nil {
		return nil, err
	}

	return ordertype.Restore(ordertype.Snapshot{
		ID:           dto.ID,
		UUID:         id,
		Name:         dto.Name,
		Description:  dto.Description,
		Retired:      dto.Retired,
		RetireReason: dto.RetireReason,
	})
}

func notFoundOrStorage(err error, param string, value any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewObjectNotFoundError(param, value)
	}
	return errs.NewStorageError("get order type", err)
}
