package queries

import (
	"context"
	"time"

	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/order"
	"orderentry/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetActiveOrdersQueryHandler reads active orders straight from the orders
// table, bypassing the aggregate mapping.
type GetActiveOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetActiveOrdersQueryHandler creates a handler reading through db.
func NewGetActiveOrdersQueryHandler(db *gorm.DB) GetActiveOrdersQueryHandler {
	return GetActiveOrdersQueryHandler{db: db}
}

// Handle returns NEW orders of the patient that are activated by asOf, not
// voided and not discontinued as of asOf.
func (h GetActiveOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetActiveOrdersQuery,
) ([]GetActiveOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetActiveOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			uuid,
			order_number,
			concept,
			kind,
			instructions,
			date_activated
		FROM orders
		WHERE patient = ?
			AND action = ?
			AND NOT voided
			AND date_activated IS NOT NULL
			AND date_activated <= ?
			AND NOT (discontinued AND date_discontinued IS NOT NULL AND date_discontinued <= ?)
		ORDER BY date_activated, id
	`, query.Patient().Bytes(), order.ActionNew, query.AsOf(), query.AsOf()).Rows()
	if err != nil {
		return nil, errs.NewStorageError("query active orders", err)
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetActiveOrdersQueryResponse
		var id uuid.UUID
		var concept int64
		var kind int
		var activated time.Time

		err = rows.Scan(
			&resp.ID,
			&id,
			&resp.OrderNumber,
			&concept,
			&kind,
			&resp.Instructions,
			&activated,
		)
		if err != nil {
			return nil, errs.NewStorageError("scan active order", err)
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.UUID = orderID
		resp.Concept = kernel.ConceptID(concept)
		resp.Kind = order.Kind(kind)
		resp.DateActivated = activated.UTC()
		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, errs.NewStorageError("read active orders", err)
	}

	return orders, nil
}
