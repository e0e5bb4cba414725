package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/ordertype"
	"orderentry/internal/pkg/errs"
)

// OrderTypeRepository keeps names unique, matching the postgres index.
type OrderTypeRepository struct {
	uow *UnitOfWork
}

// Save inserts or replaces an order type.
func (r *OrderTypeRepository) Save(_ context.Context, aggregate *ordertype.OrderType) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	snapshot := aggregate.Snapshot()
	return r.uow.write(func(s *state) error {
		if snapshot.ID != 0 {
			if _, ok := s.types[snapshot.ID]; !ok {
				return errs.NewObjectNotFoundError("id", snapshot.ID)
			}
		}
		for id, existing := range s.types {
			if id != snapshot.ID && existing.Name == snapshot.Name {
				return errs.NewStorageError("save order type", fmt.Errorf("name %q already exists", snapshot.Name))
			}
		}

		if snapshot.ID == 0 {
			snapshot.ID = s.nextTypeID
			s.nextTypeID++
		}
		s.types[snapshot.ID] = snapshot
		aggregate.AssignID(snapshot.ID)
		return nil
	})
}

// Delete removes the order type.
func (r *OrderTypeRepository) Delete(_ context.Context, aggregate *ordertype.OrderType) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	return r.uow.write(func(s *state) error {
		delete(s.types, aggregate.ID())
		return nil
	})
}

// Get returns the order type with the given id or errs.ErrObjectNotFound.
func (r *OrderTypeRepository) Get(_ context.Context, id int64) (*ordertype.OrderType, error) {
	return r.find("id", id, func(s ordertype.Snapshot) bool { return s.ID == id })
}

// GetByUUID returns the order type with the given uuid or errs.ErrObjectNotFound.
func (r *OrderTypeRepository) GetByUUID(_ context.Context, id kernel.UUID) (*ordertype.OrderType, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.find("uuid", id.String(), func(s ordertype.Snapshot) bool { return s.UUID.IsEqual(id) })
}

// GetAll sorts by name.
func (r *OrderTypeRepository) GetAll(_ context.Context, includeRetired bool) ([]*ordertype.OrderType, error) {
	types := make([]*ordertype.OrderType, 0)
	err := r.uow.read(func(s *state) error {
		for _, snapshot := range s.types {
			if snapshot.Retired && !includeRetired {
				continue
			}
			t, err := ordertype.Restore(snapshot)
			if err != nil {
				return err
			}
			types = append(types, t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(types, func(a, b *ordertype.OrderType) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return types, nil
}

func (r *OrderTypeRepository) find(
	param string,
	value any,
	match func(ordertype.Snapshot) bool,
) (*ordertype.OrderType, error) {
	var found *ordertype.OrderType
	err := r.uow.read(func(s *state) error {
		for _, snapshot := range s.types {
			if match(snapshot) {
				t, err := ordertype.Restore(snapshot)
				found = t
				return err
			}
		}
		return errs.NewObjectNotFoundError(param, value)
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}
