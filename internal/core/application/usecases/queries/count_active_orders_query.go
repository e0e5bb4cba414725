package queries

import (
	"errors"
	"time"

	"orderentry/internal/pkg/errs"
	"orderentry/internal/pkg/guard"
)

var (
	ErrCountActiveOrdersQueryIsNotConstructed = errors.New(
		"CountActiveOrdersQuery must be created via NewCountActiveOrdersQuery constructor",
	)
)

// CountActiveOrdersQuery counts active orders across all patients. The
// metrics job runs it on a schedule.
type CountActiveOrdersQuery struct { //nolint:recvcheck //using for validation
	asOf  time.Time
	guard guard.ConstructorGuard
}

// NewCountActiveOrdersQuery creates a query counting orders active at asOf.
// Returns ErrValueIsRequired for a zero asOf.
func NewCountActiveOrdersQuery(asOf time.Time) (CountActiveOrdersQuery, error) {
	if asOf.IsZero() {
		return CountActiveOrdersQuery{}, errs.NewValueIsRequiredError("asOf")
	}
	return CountActiveOrdersQuery{asOf: asOf, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q CountActiveOrdersQuery) Validate() error {
	return q.guard.Validate(ErrCountActiveOrdersQueryIsNotConstructed)
}

// AsOf returns the point in time the count applies to.
func (q CountActiveOrdersQuery) AsOf() time.Time {
	return q.asOf
}
