package kernel

import "orderentry/internal/pkg/errs"

// ConceptID references a coded clinical concept (what is ordered, or a discontinue reason).
type ConceptID int64

// Validate returns ErrValueIsRequired for zero and negative ids.
func (c ConceptID) Validate() error {
	if c <= 0 {
		return errs.NewValueIsRequiredError("concept")
	}
	return nil
}

// IsSet reports whether c references a concept.
func (c ConceptID) IsSet() bool {
	return c > 0
}
