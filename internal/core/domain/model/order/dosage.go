package order

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"orderentry/internal/pkg/errs"
	"orderentry/internal/pkg/guard"
)

// ErrDosageIsNotConstructed is returned when a zero-value Dosage is used.
var ErrDosageIsNotConstructed = errs.NewValueIsRequiredError("dosage must be created via NewDosage")

// Dosage is the drug-specific part of a DRUG order.
//
// It is a value object: NewDosage validates once and the getters never fail.
// The zero value is rejected by Validate.
type Dosage struct { //nolint:recvcheck //using for validation
	// dose is the amount per administration, strictly positive and finite
	dose float64
	// units qualifies dose, e.g. "mg" or "ml"
	units string
	// frequency is free text such as "twice daily"; may be empty
	frequency string
	// quantity is the amount to dispense; 0 means unspecified
	quantity int
	guard    guard.ConstructorGuard
}

// NewDosage builds a dosage.
//
// Parameters:
//   - dose: amount per administration (> 0, not NaN or infinite)
//   - units: unit of dose (required, trimmed)
//   - frequency: free text (trimmed, optional)
//   - quantity: amount to dispense (>= 0)
//
// Returns every violation joined with errors.Join.
//
// Example:
//
//	dose, err := order.NewDosage(500, "mg", "twice daily", 20)
func NewDosage(dose float64, units, frequency string, quantity int) (Dosage, error) {
	d := Dosage{
		frequency: strings.TrimSpace(frequency),
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setDose(dose),
		d.setUnits(units),
		d.setQuantity(quantity),
	); err != nil {
		return Dosage{}, err
	}

	return d, nil
}

// Validate returns ErrDosageIsNotConstructed for zero-value dosages.
func (d Dosage) Validate() error {
	return d.guard.Validate(ErrDosageIsNotConstructed)
}

// Dose returns the amount per administration.
func (d Dosage) Dose() float64 {
	return d.dose
}

// Units returns the dose units, e.g. "mg".
func (d Dosage) Units() string {
	return d.units
}

// Frequency returns how often the dose is taken, possibly empty.
func (d Dosage) Frequency() string {
	return d.frequency
}

// Quantity returns the dispensed quantity, zero when unset.
func (d Dosage) Quantity() int {
	return d.quantity
}

// String renders dose, units and frequency, e.g. "500 mg twice daily".
func (d Dosage) String() string {
	return fmt.Sprintf("%g %s %s", d.dose, d.units, d.frequency)
}

func (d *Dosage) setDose(dose float64) error {
	if dose <= 0 || math.IsNaN(dose) || math.IsInf(dose, 0) {
		return errs.NewValueIsInvalidErrorWithCause("dose", fmt.Errorf("%g is not greater than 0", dose))
	}
	d.dose = dose
	return nil
}

func (d *Dosage) setUnits(units string) error {
	units = strings.TrimSpace(units)
	if units == "" {
		return errs.NewValueIsRequiredError("units")
	}
	d.units = units
	return nil
}

func (d *Dosage) setQuantity(quantity int) error {
	if quantity < 0 {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 0, math.MaxInt32)
	}
	d.quantity = quantity
	return nil
}
