// Package kernel holds the value objects shared by the order entry aggregates:
// UUID identifiers, the Actor performing a transition and ConceptID references
// into the clinical dictionary.
//
// All of them are immutable. UUID and Actor reject their zero values through
// Validate, so an aggregate can tell "absent" from "constructed".
package kernel
