package memory

import (
	"context"
	"fmt"
	"slices"

	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/order"
	"orderentry/internal/core/domain/model/ordergroup"
	"orderentry/internal/pkg/errs"
)

// OrderGroupRepository stores groups with member order ids and rebuilds the
// members from the order map on read.
type OrderGroupRepository struct {
	uow *UnitOfWork
}

// Save stores the group with its member ids. Every member must already be
// persisted in the same store.
func (r *OrderGroupRepository) Save(_ context.Context, aggregate *ordergroup.OrderGroup) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	members := aggregate.Members()
	memberIDs := make([]int64, 0, len(members))
	for i, m := range members {
		if m.IsNew() {
			return errs.NewValueIsInvalidErrorWithCause(
				fmt.Sprintf("member %d", i),
				fmt.Errorf("order %s is not saved", m.UUID()),
			)
		}
		memberIDs = append(memberIDs, m.ID())
	}

	// Members live in the order map; the record only keeps their ids.
	snapshot := aggregate.Snapshot()
	snapshot.Members = nil

	return r.uow.write(func(s *state) error {
		for _, id := range memberIDs {
			if _, ok := s.orders[id]; !ok {
				return errs.NewObjectNotFoundError("member id", id)
			}
		}
		if aggregate.IsNew() {
			for _, existing := range s.groups {
				if existing.snapshot.UUID.IsEqual(snapshot.UUID) {
					return errs.NewStorageError(
						"save order group",
						fmt.Errorf("uuid %s already exists", snapshot.UUID),
					)
				}
			}
			snapshot.ID = s.nextGroupID
			s.nextGroupID++
		} else if _, ok := s.groups[snapshot.ID]; !ok {
			return errs.NewObjectNotFoundError("id", snapshot.ID)
		}

		s.groups[snapshot.ID] = groupRecord{snapshot: snapshot, memberIDs: memberIDs}
		aggregate.AssignID(snapshot.ID)
		return nil
	})
}

// Get returns the group with the given id or errs.ErrObjectNotFound.
func (r *OrderGroupRepository) Get(_ context.Context, id int64) (*ordergroup.OrderGroup, error) {
	var found *ordergroup.OrderGroup
	err := r.uow.read(func(s *state) error {
		record, ok := s.groups[id]
		if !ok {
			return errs.NewObjectNotFoundError("id", id)
		}
		g, err := restoreGroup(s, record)
		found = g
		return err
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// GetByUUID returns the group with the given uuid or errs.ErrObjectNotFound.
func (r *OrderGroupRepository) GetByUUID(_ context.Context, id kernel.UUID) (*ordergroup.OrderGroup, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var found *ordergroup.OrderGroup
	err := r.uow.read(func(s *state) error {
		for _, record := range s.groups {
			if record.snapshot.UUID.IsEqual(id) {
				g, err := restoreGroup(s, record)
				found = g
				return err
			}
		}
		return errs.NewObjectNotFoundError("uuid", id.String())
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// GetByPatient returns the patient's groups in creation order.
func (r *OrderGroupRepository) GetByPatient(_ context.Context, patient kernel.UUID) ([]*ordergroup.OrderGroup, error) {
	if err := patient.Validate(); err != nil {
		return nil, errs.NewValueIsRequiredErrorWithCause("patient", err)
	}

	groups := make([]*ordergroup.OrderGroup, 0)
	err := r.uow.read(func(s *state) error {
		ids := make([]int64, 0)
		for id, record := range s.groups {
			if record.snapshot.Patient.IsEqual(patient) {
				ids = append(ids, id)
			}
		}
		// Ids grow with each insert, so sorting them gives creation order.
		slices.Sort(ids)

		for _, id := range ids {
			g, err := restoreGroup(s, s.groups[id])
			if err != nil {
				return err
			}
			groups = append(groups, g)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// restoreGroup rebuilds the group with members read from the same state.
// A member deleted since the group was saved is reported as not found.
func restoreGroup(s *state, record groupRecord) (*ordergroup.OrderGroup, error) {
	members := make([]*order.Order, 0, len(record.memberIDs))
	for _, id := range record.memberIDs {
		snapshot, ok := s.orders[id]
		if !ok {
			return nil, errs.NewObjectNotFoundError("member id", id)
		}
		o, err := order.Restore(snapshot)
		if err != nil {
			return nil, err
		}
		members = append(members, o)
	}

	snapshot := record.snapshot
	snapshot.Members = members
	return ordergroup.Restore(snapshot)
}
