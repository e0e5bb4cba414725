package memory

import (
	"context"
	"fmt"

	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/order"
	"orderentry/internal/pkg/errs"
)

// OrderRepository enforces the same uniqueness as the postgres schema: one
// row per uuid and per order number.
type OrderRepository struct {
	uow *UnitOfWork
}

// Save inserts a new order, assigning its id, or replaces a stored one.
// Duplicate uuids and order numbers fail with errs.ErrStorageFailed.
func (r *OrderRepository) Save(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	snapshot := aggregate.Snapshot()
	return r.uow.write(func(s *state) error {
		if !aggregate.IsNew() {
			if _, ok := s.orders[snapshot.ID]; !ok {
				return errs.NewObjectNotFoundError("id", snapshot.ID)
			}
		}
		for id, existing := range s.orders {
			if id == snapshot.ID {
				continue
			}
			if existing.UUID.IsEqual(snapshot.UUID) {
				return errs.NewStorageError("save order", fmt.Errorf("uuid %s already exists", snapshot.UUID))
			}
			if snapshot.OrderNumber != "" && existing.OrderNumber == snapshot.OrderNumber {
				return errs.NewStorageError(
					"save order",
					fmt.Errorf("order number %s already exists", snapshot.OrderNumber),
				)
			}
		}

		if aggregate.IsNew() {
			snapshot.ID = s.nextOrderID
			s.nextOrderID++
		}
		s.orders[snapshot.ID] = snapshot
		aggregate.AssignID(snapshot.ID)
		return nil
	})
}

// Delete removes a stored order. Deleting a never saved order does nothing.
func (r *OrderRepository) Delete(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if aggregate.IsNew() {
		return nil
	}

	return r.uow.write(func(s *state) error {
		delete(s.orders, aggregate.ID())
		return nil
	})
}

// IsActivatedInDatabase reports whether the committed copy has an activation
// date, ignoring changes made to the aggregate since it was loaded.
func (r *OrderRepository) IsActivatedInDatabase(_ context.Context, aggregate *order.Order) (bool, error) {
	if err := aggregate.Validate(); err != nil {
		return false, err
	}
	if aggregate.IsNew() {
		return false, nil
	}

	var activated bool
	err := r.uow.read(func(s *state) error {
		stored, ok := s.orders[aggregate.ID()]
		activated = ok && stored.DateActivated != nil
		return nil
	})
	return activated, err
}

// GetMaximumOrderID is only race-free inside a transaction, which holds the
// store until it ends.
func (r *OrderRepository) GetMaximumOrderID(_ context.Context) (int64, error) {
	var maxID int64
	err := r.uow.read(func(s *state) error {
		for id := range s.orders {
			maxID = max(maxID, id)
		}
		return nil
	})
	return maxID, err
}

// Get returns the order with the given id or errs.ErrObjectNotFound.
func (r *OrderRepository) Get(_ context.Context, id int64) (*order.Order, error) {
	return r.find("id", id, func(s order.Snapshot) bool { return s.ID == id })
}

// GetByUUID returns the order with the given uuid or errs.ErrObjectNotFound.
func (r *OrderRepository) GetByUUID(_ context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.find("uuid", id.String(), func(s order.Snapshot) bool { return s.UUID.IsEqual(id) })
}

// GetByOrderNumber returns the order with the given number or errs.ErrObjectNotFound.
func (r *OrderRepository) GetByOrderNumber(_ context.Context, orderNumber string) (*order.Order, error) {
	if orderNumber == "" {
		return nil, errs.NewValueIsRequiredError("orderNumber")
	}
	return r.find("orderNumber", orderNumber, func(s order.Snapshot) bool { return s.OrderNumber == orderNumber })
}

func (r *OrderRepository) find(param string, value any, match func(order.Snapshot) bool) (*order.Order, error) {
	var found *order.Order
	err := r.uow.read(func(s *state) error {
		for _, snapshot := range s.orders {
			if match(snapshot) {
				o, err := order.Restore(snapshot)
				if err != nil {
					return err
				}
				found = o
				return nil
			}
		}
		return errs.NewObjectNotFoundError(param, value)
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}
