package kernel

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"orderentry/internal/pkg/errs"
	"orderentry/internal/pkg/guard"
)

// ErrActorIsNotConstructed is returned when a zero-value Actor is used.
var ErrActorIsNotConstructed = errs.NewValueIsRequiredError("actor must be created via NewActor")

// Actor is the authenticated user performing a transition: a positive user id
// plus the id the user carries in the surrounding system (may be empty).
//
// Actors are values. Orders record the actor who signed, activated,
// discontinued or voided them, and FillerLabel turns an actor into the
// filler text of a fill.
//
// Example usage:
//
//	doctor, err := kernel.NewActor(7, "abc")
//	if err != nil {
//	    return err
//	}
//	_ = o.Sign(doctor, now)
type Actor struct { //nolint:recvcheck //using for validation
	// id is the positive user id
	id int64
	// systemID is the user's id in the surrounding system, possibly empty
	systemID string
	// guard rejects zero-value actors
	guard guard.ConstructorGuard
}

// NewActor builds an actor.
//
// Parameters:
//   - id: user id, must be positive
//   - systemID: the user's system id; may be empty but must not contain
//     tabs or line breaks
//
// Returns ErrArgumentIsInvalid for either violation, both joined when both fail.
func NewActor(id int64, systemID string) (Actor, error) {
	a := Actor{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(a.setID(id), a.setSystemID(systemID)); err != nil {
		return Actor{}, err
	}

	return a, nil
}

// MustNewActor panics on invalid input. Intended for fixtures.
func MustNewActor(id int64, systemID string) Actor {
	a, err := NewActor(id, systemID)
	if err != nil {
		panic(err)
	}
	return a
}

// Validate returns ErrActorIsNotConstructed for zero-value actors.
func (a Actor) Validate() error {
	return a.guard.Validate(ErrActorIsNotConstructed)
}

// ID returns the user id.
func (a Actor) ID() int64 {
	return a.id
}

// SystemID returns the user's login name, possibly empty.
func (a Actor) SystemID() string {
	return a.systemID
}

// FillerLabel is the decimal user id immediately followed by the system id.
//
// Example:
//
//	kernel.MustNewActor(12, "nurse-3").FillerLabel() // "12nurse-3"
func (a Actor) FillerLabel() string {
	return strconv.FormatInt(a.id, 10) + a.systemID
}

// IsEqual compares user id and system id.
func (a Actor) IsEqual(other Actor) bool {
	return a.id == other.id && a.systemID == other.systemID
}

// String formats the actor for logs.
func (a Actor) String() string {
	return fmt.Sprintf("Actor(%d,%s)", a.id, a.systemID)
}

func (a *Actor) setID(id int64) error {
	if id <= 0 {
		return errs.NewValueIsOutOfRangeError("actor id", id, 1, int64(math.MaxInt64))
	}

	a.id = id
	return nil
}

func (a *Actor) setSystemID(systemID string) error {
	if strings.ContainsAny(systemID, "\r\n\t") {
		return errs.NewValueIsInvalidError("actor system id")
	}

	a.systemID = systemID
	return nil
}
