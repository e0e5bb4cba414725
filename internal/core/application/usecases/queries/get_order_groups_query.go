package queries

import (
	"context"
	"errors"

	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/ordergroup"
	"orderentry/internal/core/ports"
	"orderentry/internal/pkg/errs"
	"orderentry/internal/pkg/guard"
)

var (
	ErrGetOrderGroupsQueryIsNotConstructed = errors.New(
		"GetOrderGroupsQuery must be created via NewGetOrderGroupsQuery constructor",
	)
)

// GetOrderGroupsQuery lists a patient's order groups in creation order.
type GetOrderGroupsQuery struct { //nolint:recvcheck //using for validation
	patient kernel.UUID
	guard   guard.ConstructorGuard
}

// NewGetOrderGroupsQuery creates a query for the groups of patient.
// Returns ErrValueIsRequired when patient is the nil uuid.
func NewGetOrderGroupsQuery(patient kernel.UUID) (GetOrderGroupsQuery, error) {
	if err := patient.Validate(); err != nil {
		return GetOrderGroupsQuery{}, errs.NewValueIsRequiredErrorWithCause("patient", err)
	}
	return GetOrderGroupsQuery{patient: patient, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderGroupsQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderGroupsQueryIsNotConstructed)
}

// GetOrderGroupsQueryHandler reads groups through the group repository.
type GetOrderGroupsQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

// NewGetOrderGroupsQueryHandler creates a handler for GetOrderGroupsQuery.
func NewGetOrderGroupsQueryHandler(uowFactory ports.UnitOfWorkFactory) GetOrderGroupsQueryHandler {
	return GetOrderGroupsQueryHandler{uowFactory: uowFactory}
}

// Handle returns the patient's groups with their members loaded. A patient
// without groups gets an empty slice.
func (h GetOrderGroupsQueryHandler) Handle(
	ctx context.Context,
	query GetOrderGroupsQuery,
) ([]*ordergroup.OrderGroup, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	return h.uowFactory.Create().OrderGroupRepository().GetByPatient(ctx, query.patient)
}
