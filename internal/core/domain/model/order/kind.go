package order

import (
	"fmt"

	"orderentry/internal/pkg/errs"
)

// Kind selects the order variant. Drug orders carry a Dosage.
type Kind int

const (
	// KindUnknown is the zero value and never valid.
	KindUnknown Kind = iota
	// KindGeneric is any order without drug details.
	KindGeneric
	// KindDrug orders carry a Dosage.
	KindDrug
)

// String returns the stored spelling: GENERIC, DRUG or UNKNOWN.
func (k Kind) String() string {
	switch k {
	case KindGeneric:
		return "GENERIC"
	case KindDrug:
		return "DRUG"
	default:
		return "UNKNOWN"
	}
}

// Validate accepts KindGeneric and KindDrug only.
func (k Kind) Validate() error {
	if k != KindGeneric && k != KindDrug {
		return errs.NewValueIsInvalidErrorWithCause("kind is invalid", fmt.Errorf("%d is not a valid kind", k))
	}
	return nil
}

// ParseKind is the inverse of Kind.String. Matching is case-sensitive.
//
// Example:
//
//	kind, err := order.ParseKind(row.Kind)
//	if err != nil {
//	    return nil, err // corrupt row
//	}
func ParseKind(s string) (Kind, error) {
	switch s {
	case "GENERIC":
		return KindGeneric, nil
	case "DRUG":
		return KindDrug, nil
	default:
		return KindUnknown, errs.NewValueIsInvalidErrorWithCause("kind is invalid", fmt.Errorf("%q is not a valid kind", s))
	}
}
