package memory

import (
	"cmp"
	"context"
	"slices"

	"orderentry/internal/core/application/usecases/queries"
	"orderentry/internal/core/domain/model/order"
)

// GetActiveOrdersQueryHandler answers queries.GetActiveOrdersQuery from
// committed state.
type GetActiveOrdersQueryHandler struct {
	store *Store
}

// NewGetActiveOrdersQueryHandler creates a handler reading committed orders of store.
func NewGetActiveOrdersQueryHandler(store *Store) GetActiveOrdersQueryHandler {
	return GetActiveOrdersQueryHandler{store: store}
}

// Handle returns the patient's active orders ordered by activation date.
func (h GetActiveOrdersQueryHandler) Handle(
	_ context.Context,
	query queries.GetActiveOrdersQuery,
) ([]queries.GetActiveOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	result := make([]queries.GetActiveOrdersQueryResponse, 0)
	err := h.store.read(func(s *state) error {
		for _, snapshot := range s.orders {
			if !snapshot.Patient.IsEqual(query.Patient()) {
				continue
			}
			o, err := order.Restore(snapshot)
			if err != nil {
				return err
			}
			if !o.IsActive(query.AsOf()) {
				continue
			}
			result = append(result, queries.GetActiveOrdersQueryResponse{
				ID:            o.ID(),
				UUID:          o.UUID(),
				OrderNumber:   o.OrderNumber(),
				Concept:       o.Concept(),
				Kind:          o.Kind(),
				Instructions:  o.Instructions(),
				DateActivated: o.DateActivated().UTC(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(result, func(a, b queries.GetActiveOrdersQueryResponse) int {
		return cmp.Or(a.DateActivated.Compare(b.DateActivated), cmp.Compare(a.ID, b.ID))
	})
	return result, nil
}

// CountActiveOrdersQueryHandler is the in-memory counterpart of
// queries.CountActiveOrdersQueryHandler.
type CountActiveOrdersQueryHandler struct {
	store *Store
}

// NewCountActiveOrdersQueryHandler creates a handler counting committed orders of store.
func NewCountActiveOrdersQueryHandler(store *Store) CountActiveOrdersQueryHandler {
	return CountActiveOrdersQueryHandler{store: store}
}

// Handle counts orders active at the query's asOf.
func (h CountActiveOrdersQueryHandler) Handle(_ context.Context, query queries.CountActiveOrdersQuery) (int64, error) {
	if err := query.Validate(); err != nil {
		return 0, err
	}

	var count int64
	err := h.store.read(func(s *state) error {
		for _, snapshot := range s.orders {
			o, err := order.Restore(snapshot)
			if err != nil {
				return err
			}
			if o.IsActive(query.AsOf()) {
				count++
			}
		}
		return nil
	})
	return count, err
}
