// Package services contains domain services of the order entry system:
// logic that needs collaborators outside a single aggregate.
//
// OrderNumberGenerator computes human-readable order numbers from the
// highest persisted order id and the configured prefix and deployment label.
package services
