package order

import (
	"fmt"

	"orderentry/internal/pkg/errs"
)

// Action tells whether an order starts something or terminates another order.
type Action int

const (
	// ActionUnknown is the zero value and never valid.
	ActionUnknown Action = iota
	// ActionNew starts a directive.
	ActionNew
	// ActionDiscontinue terminates the order referenced by Order.Discontinues.
	ActionDiscontinue
)

// String returns the stored spelling: NEW, DISCONTINUE or UNKNOWN.
func (a Action) String() string {
	switch a {
	case ActionNew:
		return "NEW"
	case ActionDiscontinue:
		return "DISCONTINUE"
	default:
		return "UNKNOWN"
	}
}

// Validate accepts ActionNew and ActionDiscontinue only.
func (a Action) Validate() error {
	if a != ActionNew && a != ActionDiscontinue {
		return errs.NewValueIsInvalidErrorWithCause("action is invalid", fmt.Errorf("%d is not a valid action", a))
	}
	return nil
}

// ParseAction is the inverse of Action.String.
func ParseAction(s string) (Action, error) {
	switch s {
	case "NEW":
		return ActionNew, nil
	case "DISCONTINUE":
		return ActionDiscontinue, nil
	default:
		return ActionUnknown, errs.NewValueIsInvalidErrorWithCause("action is invalid", fmt.Errorf("%q is not a valid action", s))
	}
}
