package order

import (
	"fmt"

	"orderentry/internal/pkg/errs"
)

// Stage is the position of an order on the forward-progress axis.
// Discontinued and voided are independent flags and are not stages.
//
//	Drafted ──> Signed ──> Activated ──> Filled
//
// Transitions return the next stage instead of mutating the receiver, so an
// order only replaces its stage once the whole transition has succeeded.
//
// Example:
//
//	next, err := order.Drafted.Sign()
//	if err != nil {
//	    return err
//	}
//	fmt.Println(next) // Signed
type Stage int

const (
	// StageUnknown is the zero value and never a valid stage.
	StageUnknown Stage = iota
	// Drafted orders have been created but not signed.
	Drafted
	// Signed orders carry a signature and wait for activation.
	Signed
	// Activated orders are in effect unless discontinued or voided.
	Activated
	// Filled orders were fulfilled; this stage is terminal.
	Filled
)

// getStageStrings maps every defined stage to its display name.
func getStageStrings() map[Stage]string {
	return map[Stage]string{
		StageUnknown: "Unknown",
		Drafted:      "Drafted",
		Signed:       "Signed",
		Activated:    "Activated",
		Filled:       "Filled",
	}
}

// String returns the display name, "Unknown" for values outside the enum.
func (s Stage) String() string {
	if str, ok := getStageStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// Validate accepts Drafted through Filled.
func (s Stage) Validate() error {
	if s < Drafted || s > Filled {
		return errs.NewValueIsInvalidErrorWithCause("stage is invalid", fmt.Errorf("%d is not a valid stage", s))
	}
	return nil
}

// Sign moves Drafted to Signed. Signing is one-way.
//
// Returns ErrStateIsInvalid from any other stage.
func (s Stage) Sign() (Stage, error) {
	if s != Drafted {
		return StageUnknown, errs.NewStateIsInvalidErrorWithCause(
			"sign",
			fmt.Errorf("%s is not a valid stage to sign, order is already signed", s),
		)
	}
	return Signed, nil
}

// Activate moves Signed to Activated.
//
// Returns ErrStateIsInvalid naming whether the order is not yet signed or
// already activated.
func (s Stage) Activate() (Stage, error) {
	switch s {
	case Signed:
		return Activated, nil
	case Drafted:
		return StageUnknown, errs.NewStateIsInvalidErrorWithCause(
			"activate",
			fmt.Errorf("%s is not a valid stage to activate, order must be signed first", s),
		)
	default:
		return StageUnknown, errs.NewStateIsInvalidErrorWithCause(
			"activate",
			fmt.Errorf("%s is not a valid stage to activate, order is already activated", s),
		)
	}
}

// Fill moves Activated to Filled. Filled is terminal.
//
// Returns ErrStateIsInvalid naming the missing step for Drafted and Signed,
// and "already filled" for Filled.
//
// Example:
//
//	if _, err := order.Signed.Fill(); err != nil {
//	    fmt.Println(err) // ... order has not been activated
//	}
func (s Stage) Fill() (Stage, error) {
	switch s {
	case Activated:
		return Filled, nil
	case Drafted, StageUnknown:
		return StageUnknown, errs.NewStateIsInvalidErrorWithCause(
			"fill",
			fmt.Errorf("%s is not a valid stage to fill, order has not been signed", s),
		)
	case Signed:
		return StageUnknown, errs.NewStateIsInvalidErrorWithCause(
			"fill",
			fmt.Errorf("%s is not a valid stage to fill, order has not been activated", s),
		)
	default:
		return StageUnknown, errs.NewStateIsInvalidErrorWithCause(
			"fill",
			fmt.Errorf("%s is not a valid stage to fill, order is already filled", s),
		)
	}
}
