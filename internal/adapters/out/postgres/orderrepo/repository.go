package orderrepo

import (
	"context"
	"errors"

	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/order"
	"orderentry/internal/pkg/errs"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// orderNumberLockKey is the pg_advisory_xact_lock key serializing order number generation.
const orderNumberLockKey int64 = 0x6f72646572

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a repository on db, usually a transaction.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Save inserts a new order and assigns its id, or overwrites every column of
// an existing one.
func (r *GormOrderRepository) Save(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if aggregate.IsNew() {
		if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
			return errs.NewStorageError("insert order", err)
		}
		aggregate.AssignID(dto.ID)
		return nil
	}

	result := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", dto.ID).Select("*").Updates(&dto)
	if result.Error != nil {
		return errs.NewStorageError("update order", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("id", dto.ID)
	}
	return nil
}

// Delete removes the order row. Deleting a never saved order does nothing.
func (r *GormOrderRepository) Delete(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if aggregate.IsNew() {
		return nil
	}

	if err := r.db.WithContext(ctx).Delete(&OrderDTO{}, aggregate.ID()).Error; err != nil {
		return errs.NewStorageError("delete order", err)
	}
	return nil
}

// IsActivatedInDatabase reads the stored activation date, ignoring the in-memory state.
func (r *GormOrderRepository) IsActivatedInDatabase(ctx context.Context, aggregate *order.Order) (bool, error) {
	if err := aggregate.Validate(); err != nil {
		return false, err
	}
	if aggregate.IsNew() {
		return false, nil
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND date_activated IS NOT NULL", aggregate.ID()).
		Count(&count).Error
	if err != nil {
		return false, errs.NewStorageError("read order activation", err)
	}
	return count > 0, nil
}

// GetMaximumOrderID takes a transaction-scoped advisory lock first, so a
// concurrent generator waits until this transaction ends.
func (r *GormOrderRepository) GetMaximumOrderID(ctx context.Context) (int64, error) {
	db := r.db.WithContext(ctx)

	if err := db.Exec("SELECT pg_advisory_xact_lock(?)", orderNumberLockKey).Error; err != nil {
		return 0, errs.NewStorageError("lock order numbers", err)
	}

	var maxID int64
	if err := db.Raw("SELECT COALESCE(MAX(id), 0) FROM orders").Scan(&maxID).Error; err != nil {
		return 0, errs.NewStorageError("read maximum order id", err)
	}
	return maxID, nil
}

// Get returns the order with the given id or errs.ErrObjectNotFound.
func (r *GormOrderRepository) Get(ctx context.Context, id int64) (*order.Order, error) {
	return r.first(ctx, "id", id, "id = ?", id)
}

// GetByUUID returns the order with the given uuid or errs.ErrObjectNotFound.
func (r *GormOrderRepository) GetByUUID(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.first(ctx, "uuid", id.String(), "uuid = ?", id.Bytes())
}

// GetByOrderNumber returns the order with the given number or errs.ErrObjectNotFound.
func (r *GormOrderRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	if orderNumber == "" {
		return nil, errs.NewValueIsRequiredError("orderNumber")
	}
	return r.first(ctx, "orderNumber", orderNumber, "order_number = ?", orderNumber)
}

// GetMany loads the orders with the given ids, keyed by id. Missing ids are
// reported as not found.
func (r *GormOrderRepository) GetMany(ctx context.Context, ids []int64) (map[int64]*order.Order, error) {
	out := make(map[int64]*order.Order, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var dtos []OrderDTO
	if err := r.db.WithContext(ctx).Where("id = ANY(?)", pq.Array(ids)).Find(&dtos).Error; err != nil {
		return nil, errs.NewStorageError("load orders", err)
	}

	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		out[o.ID()] = o
	}

	for _, id := range ids {
		if _, ok := out[id]; !ok {
			return nil, errs.NewObjectNotFoundError("id", id)
		}
	}
	return out, nil
}

func (r *GormOrderRepository) first(
	ctx context.Context,
	param string,
	value any,
	query string,
	args ...any,
) (*order.Order, error) {
	var dto OrderDTO
	if err := r.db.WithContext(ctx).Where(query, args...).First(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError(param, value)
		}
		return nil, errs.NewStorageError("get order", err)
	}

	return toDomain(dto)
}
