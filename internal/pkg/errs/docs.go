// Package errs provides standardized error types for the order entry application.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes several error types for common error scenarios:
//   - ValueIsRequiredError: For when a required value is missing
//   - ValueIsInvalidError: For when a value is invalid
//   - ValueIsOutOfRangeError: For when a value falls outside its bounds
//   - ObjectNotFoundError: For when an object cannot be found
//   - StateIsInvalidError: For transitions that the current state does not permit
//   - OperationIsUnsupportedError: For operations that are deliberately not provided
//   - StorageError: For opaque failures of the persistence layer
//   - SchemaIsInvalidError: For entities that fail structural validation before save
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
//
// The three value errors additionally match ErrArgumentIsInvalid through errors.Is,
// so callers can treat every caller-supplied-argument failure as one class.
package errs
