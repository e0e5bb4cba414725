package kernel

import (
	"fmt"

	"orderentry/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrUUIDIsNotConstructed is returned when validating a zero-value UUID.
// It matches errs.ErrArgumentIsInvalid, so callers can treat it as bad input.
var ErrUUIDIsNotConstructed = errs.NewValueIsRequiredError("UUID must be created via NewUUID, UUIDFromString, or UUIDFromBytes")

// UUID identifies orders, order groups, order types and patients.
//
// It is a value object over github.com/google/uuid. Values are immutable and
// safe to share between goroutines; compare them with IsEqual or ==.
//
// The zero value is invalid. Build UUIDs with NewUUID for new aggregates,
// UUIDFromString for request input and stored text columns, and
// UUIDFromBytes for binary columns.
//
// Example usage:
//
//	patient, err := kernel.UUIDFromString(req.Patient)
//	if err != nil {
//	    return err
//	}
//	o, err := order.NewOrder(kernel.NewUUID(), patient, concept, "")
type UUID struct {
	id uuid.UUID
}

// NewUUID generates a random (version 4) UUID.
//
// Example:
//
//	groupID := kernel.NewUUID()
func NewUUID() UUID {
	return UUID{
		id: uuid.New(),
	}
}

// UUIDFromString parses the canonical, braced, urn and hyphen-less forms,
// in either case.
//
// Accepted inputs include:
//   - "6f1f0a47-3f0e-4a43-9d1c-2b1c0e5c7d11"
//   - "{6f1f0a47-3f0e-4a43-9d1c-2b1c0e5c7d11}"
//   - "urn:uuid:6f1f0a47-3f0e-4a43-9d1c-2b1c0e5c7d11"
//   - "6f1f0a473f0e4a439d1c2b1c0e5c7d11"
//
// Returns an error wrapping the parser error, prefixed with "invalid UUID
// format". The nil UUID parses; call Validate to reject it.
func UUIDFromString(s string) (UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, fmt.Errorf("invalid UUID format: %w", err)
	}
	return UUID{id: id}, nil
}

// UUIDFromBytes builds a UUID from exactly 16 bytes; the nil UUID is rejected.
//
// Returns:
//   - an "invalid UUID format" error for slices that are not 16 bytes long
//   - ErrUUIDIsNotConstructed for sixteen zero bytes
func UUIDFromBytes(b []byte) (UUID, error) {
	id, err := uuid.FromBytes(b)
	if err != nil {
		return UUID{}, fmt.Errorf("invalid UUID format: %w", err)
	}
	newID := UUID{id: id}
	if err = newID.Validate(); err != nil {
		return UUID{}, err
	}

	return newID, nil
}

// MustParseUUID is UUIDFromString for literals known to be valid; it panics otherwise.
// Use it in tests and fixtures only.
func MustParseUUID(s string) UUID {
	id, err := UUIDFromString(s)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the canonical lower-case hyphenated form.
func (u UUID) String() string {
	return u.id.String()
}

// Bytes returns the underlying google/uuid value.
func (u UUID) Bytes() uuid.UUID {
	return u.id
}

// IsEqual reports whether both values hold the same identifier.
func (u UUID) IsEqual(other UUID) bool {
	return u.id == other.id
}

// IsZero reports whether u is the nil UUID.
func (u UUID) IsZero() bool {
	return u.id == uuid.Nil
}

// Validate returns ErrUUIDIsNotConstructed for the nil UUID.
//
// Example:
//
//	if err := cmd.OrderID().Validate(); err != nil {
//	    return err
//	}
func (u UUID) Validate() error {
	if u.id == uuid.Nil {
		return ErrUUIDIsNotConstructed
	}
	return nil
}
