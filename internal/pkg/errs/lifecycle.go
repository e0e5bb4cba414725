package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrStateIsInvalid is the sentinel for transitions the current state does not permit.
	ErrStateIsInvalid = errors.New("state is invalid")
	// ErrOperationIsUnsupported is the sentinel for operations that are permanently not provided.
	ErrOperationIsUnsupported = errors.New("operation is unsupported")
	// ErrStorageFailed is the sentinel for persistence failures.
	ErrStorageFailed = errors.New("storage failed")
	// ErrSchemaIsInvalid is the sentinel for entities that fail structural validation.
	ErrSchemaIsInvalid = errors.New("schema is invalid")
)

// StateIsInvalidError reports that Operation is not permitted in the current state.
type StateIsInvalidError struct {
	Operation string
	Cause     error
}

// NewStateIsInvalidError creates a StateIsInvalidError for operation.
func NewStateIsInvalidError(operation string) *StateIsInvalidError {
	return &StateIsInvalidError{Operation: operation}
}

// NewStateIsInvalidErrorWithCause creates a StateIsInvalidError wrapping cause.
func NewStateIsInvalidErrorWithCause(operation string, cause error) *StateIsInvalidError {
	return &StateIsInvalidError{
		Operation: operation,
		Cause:     cause,
	}
}

// Error formats the sentinel message followed by the details.
func (e *StateIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrStateIsInvalid, e.Operation, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrStateIsInvalid, e.Operation)
}

// Unwrap exposes the sentinel so errors.Is matches it.
func (e *StateIsInvalidError) Unwrap() error {
	return ErrStateIsInvalid
}

// OperationIsUnsupportedError reports a deliberately unavailable operation.
type OperationIsUnsupportedError struct {
	Operation string
	Reason    string
}

// NewOperationIsUnsupportedError creates an OperationIsUnsupportedError.
func NewOperationIsUnsupportedError(operation, reason string) *OperationIsUnsupportedError {
	return &OperationIsUnsupportedError{
		Operation: operation,
		Reason:    reason,
	}
}

// Error formats the sentinel message followed by the details.
func (e *OperationIsUnsupportedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s (reason: %s)", ErrOperationIsUnsupported, e.Operation, e.Reason)
	}
	return fmt.Sprintf("%s: %s", ErrOperationIsUnsupported, e.Operation)
}

// Unwrap exposes the sentinel so errors.Is matches it.
func (e *OperationIsUnsupportedError) Unwrap() error {
	return ErrOperationIsUnsupported
}

// StorageError wraps a failure of the persistence layer. Both ErrStorageFailed
// and Cause are reachable through errors.Is / errors.As.
type StorageError struct {
	Operation string
	Cause     error
}

// NewStorageError creates a StorageError for operation wrapping cause.
func NewStorageError(operation string, cause error) *StorageError {
	return &StorageError{
		Operation: operation,
		Cause:     cause,
	}
}

// Error formats the sentinel message followed by the details.
func (e *StorageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrStorageFailed, e.Operation, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrStorageFailed, e.Operation)
}

// Unwrap returns ErrStorageFailed and the cause, when there is one.
func (e *StorageError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrStorageFailed}
	}
	return []error{ErrStorageFailed, e.Cause}
}

// FieldViolation is one failed schema rule.
type FieldViolation struct {
	Field string
	Rule  string
	Param string
}

// String renders the violation as "field failed rule=param".
func (v FieldViolation) String() string {
	if v.Param != "" {
		return fmt.Sprintf("%s failed %s=%s", v.Field, v.Rule, v.Param)
	}
	return fmt.Sprintf("%s failed %s", v.Field, v.Rule)
}

// SchemaIsInvalidError lists the schema rules an entity violates.
type SchemaIsInvalidError struct {
	Entity     string
	Violations []FieldViolation
}

// NewSchemaIsInvalidError creates a SchemaIsInvalidError for entity.
func NewSchemaIsInvalidError(entity string, violations []FieldViolation) *SchemaIsInvalidError {
	return &SchemaIsInvalidError{
		Entity:     entity,
		Violations: violations,
	}
}

// Error formats the sentinel message followed by the details.
func (e *SchemaIsInvalidError) Error() string {
	if len(e.Violations) == 0 {
		return fmt.Sprintf("%s: %s", ErrSchemaIsInvalid, e.Entity)
	}
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.String())
	}
	return fmt.Sprintf("%s: %s (%s)", ErrSchemaIsInvalid, e.Entity, strings.Join(parts, "; "))
}

// Unwrap exposes the sentinel so errors.Is matches it.
func (e *SchemaIsInvalidError) Unwrap() error {
	return ErrSchemaIsInvalid
}

// HasViolation reports whether field failed any rule.
func (e *SchemaIsInvalidError) HasViolation(field string) bool {
	for _, v := range e.Violations {
		if v.Field == field {
			return true
		}
	}
	return false
}
