package ordergrouprepo

import (
	"context"
	"errors"
	"fmt"

	"orderentry/internal/adapters/out/postgres/orderrepo"
	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/order"
	"orderentry/internal/core/domain/model/ordergroup"
	"orderentry/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderGroupRepository implements ports.OrderGroupRepository using GORM.
type GormOrderGroupRepository struct {
	db     *gorm.DB
	orders *orderrepo.GormOrderRepository
}

// NewGormOrderGroupRepository creates a repository on db, usually a transaction.
func NewGormOrderGroupRepository(db *gorm.DB) *GormOrderGroupRepository {
	return &GormOrderGroupRepository{
		db:     db,
		orders: orderrepo.NewGormOrderRepository(db),
	}
}

// Save writes the group row and replaces its member rows. Every member must
// already be persisted.
func (r *GormOrderGroupRepository) Save(ctx context.Context, aggregate *ordergroup.OrderGroup) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	members := aggregate.Members()
	for i, m := range members {
		if m.IsNew() {
			return errs.NewValueIsInvalidErrorWithCause(
				fmt.Sprintf("member %d", i),
				fmt.Errorf("order %s is not saved", m.UUID()),
			)
		}
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if aggregate.IsNew() {
			if err := tx.Create(&dto).Error; err != nil {
				return errs.NewStorageError("insert order group", err)
			}
		} else {
			result := tx.Model(&OrderGroupDTO{}).Where("id = ?", dto.ID).Select("*").Updates(&dto)
			if result.Error != nil {
				return errs.NewStorageError("update order group", result.Error)
			}
			if result.RowsAffected == 0 {
				return errs.NewObjectNotFoundError("id", dto.ID)
			}
		}

		// Member rows are replaced wholesale; positions follow the slice order.
		if err := tx.Where("group_id = ?", dto.ID).Delete(&OrderGroupMemberDTO{}).Error; err != nil {
			return errs.NewStorageError("delete order group members", err)
		}
		if len(members) > 0 {
			rows := make([]OrderGroupMemberDTO, 0, len(members))
			for i, m := range members {
				rows = append(rows, OrderGroupMemberDTO{GroupID: dto.ID, Position: i, OrderID: m.ID()})
			}
			if err := tx.Create(&rows).Error; err != nil {
				return errs.NewStorageError("insert order group members", err)
			}
		}

		aggregate.AssignID(dto.ID)
		return nil
	})
}

// Get loads the group with its members in position order.
func (r *GormOrderGroupRepository) Get(ctx context.Context, id int64) (*ordergroup.OrderGroup, error) {
	var dto OrderGroupDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id).Error; err != nil {
		return nil, notFoundOrStorage(err, "id", id)
	}
	return r.load(ctx, dto)
}

// GetByUUID loads the group with its members in position order.
func (r *GormOrderGroupRepository) GetByUUID(ctx context.Context, id kernel.UUID) (*ordergroup.OrderGroup, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderGroupDTO
	if err := r.db.WithContext(ctx).First(&dto, "uuid = ?", id.Bytes()).Error; err != nil {
		return nil, notFoundOrStorage(err, "uuid", id.String())
	}
	return r.load(ctx, dto)
}

// GetByPatient loads every group of the patient, oldest first.
func (r *GormOrderGroupRepository) GetByPatient(
	ctx context.Context,
	patient kernel.UUID,
) ([]*ordergroup.OrderGroup, error) {
	if err := patient.Validate(); err != nil {
		return nil, errs.NewValueIsRequiredErrorWithCause("patient", err)
	}

	var dtos []OrderGroupDTO
	if err := r.db.WithContext(ctx).Where("patient = ?", patient.Bytes()).Order("id").Find(&dtos).Error; err != nil {
		return nil, errs.NewStorageError("get order groups by patient", err)
	}

	groups := make([]*ordergroup.OrderGroup, 0, len(dtos))
	for _, dto := range dtos {
		g, err := r.load(ctx, dto)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// load reads the member rows in position order and restores the members
// with one query through the order repository.
func (r *GormOrderGroupRepository) load(ctx context.Context, dto OrderGroupDTO) (*ordergroup.OrderGroup, error) {
	var rows []OrderGroupMemberDTO
	if err := r.db.WithContext(ctx).Where("group_id = ?", dto.ID).Order("position").Find(&rows).Error; err != nil {
		return nil, errs.NewStorageError("get order group members", err)
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.OrderID)
	}
	byID, err := r.orders.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	members := make([]*order.Order, 0, len(ids))
	for _, id := range ids {
		members = append(members, byID[id])
	}
	return toDomain(dto, members)
}

func notFoundOrStorage(err error, param string, value any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewObjectNotFoundError(param, value)
	}
	return errs.NewStorageError("get order group", err)
}
