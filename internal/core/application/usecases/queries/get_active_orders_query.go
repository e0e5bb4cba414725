package queries

import (
	"errors"
	"time"

	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/order"
	"orderentry/internal/pkg/errs"
	"orderentry/internal/pkg/guard"
)

var (
	ErrGetActiveOrdersQueryIsNotConstructed = errors.New(
		"GetActiveOrdersQuery must be created via NewGetActiveOrdersQuery constructor",
	)
)

// GetActiveOrdersQuery lists the orders of one patient that are in effect at
// a point in time.
//
// Example:
//
//	query, err := NewGetActiveOrdersQuery(patient, time.Now())
//	if err != nil {
//	    return err
//	}
//
//	orders, err := handler.Handle(ctx, query)
type GetActiveOrdersQuery struct { //nolint:recvcheck //using for validation
	patient kernel.UUID
	asOf    time.Time
	guard   guard.ConstructorGuard
}

// NewGetActiveOrdersQuery requires a patient and an explicit point in time.
func NewGetActiveOrdersQuery(patient kernel.UUID, asOf time.Time) (GetActiveOrdersQuery, error) {
	q := GetActiveOrdersQuery{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		q.setPatient(patient),
		q.setAsOf(asOf),
	); err != nil {
		return GetActiveOrdersQuery{}, err
	}

	return q, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetActiveOrdersQueryIsNotConstructed if validation fails.
func (q GetActiveOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveOrdersQueryIsNotConstructed)
}

// Patient returns the patient whose orders are listed.
func (q GetActiveOrdersQuery) Patient() kernel.UUID {
	return q.patient
}

// AsOf returns the point in time activity is judged at.
func (q GetActiveOrdersQuery) AsOf() time.Time {
	return q.asOf
}

func (q *GetActiveOrdersQuery) setPatient(patient kernel.UUID) error {
	if err := patient.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("patient", err)
	}
	q.patient = patient
	return nil
}

func (q *GetActiveOrdersQuery) setAsOf(asOf time.Time) error {
	if asOf.IsZero() {
		return errs.NewValueIsRequiredError("asOf")
	}
	q.asOf = asOf
	return nil
}

// GetActiveOrdersQueryResponse is one active order, oldest activation first.
type GetActiveOrdersQueryResponse struct {
	ID            int64
	UUID          kernel.UUID
	OrderNumber   string
	Concept       kernel.ConceptID
	Kind          order.Kind
	Instructions  string
	DateActivated time.Time
}
