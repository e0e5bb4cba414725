package queries

import (
	"context"

	"orderentry/internal/core/domain/model/order"
	"orderentry/internal/pkg/errs"

	"gorm.io/gorm"
)

// CountActiveOrdersQueryHandler counts straight from the orders table.
type CountActiveOrdersQueryHandler struct {
	db *gorm.DB
}

// NewCountActiveOrdersQueryHandler creates a handler reading through db.
func NewCountActiveOrdersQueryHandler(db *gorm.DB) CountActiveOrdersQueryHandler {
	return CountActiveOrdersQueryHandler{db: db}
}

// Handle applies the same filter as GetActiveOrdersQueryHandler without the patient.
func (h CountActiveOrdersQueryHandler) Handle(ctx context.Context, query CountActiveOrdersQuery) (int64, error) {
	if err := query.Validate(); err != nil {
		return 0, err
	}

	var count int64
	err := h.db.WithContext(ctx).Raw(`
		SELECT COUNT(*)
		FROM orders
		WHERE action = ?
			AND NOT voided
			AND date_activated IS NOT NULL
			AND date_activated <= ?
			AND NOT (discontinued AND date_discontinued IS NOT NULL AND date_discontinued <= ?)
	`, order.ActionNew, query.AsOf(), query.AsOf()).Scan(&count).Error
	if err != nil {
		return 0, errs.NewStorageError("count active orders", err)
	}
	return count, nil
}
