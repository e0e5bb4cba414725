package lifecycle

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/order"
	"orderentry/internal/core/domain/services"
	"orderentry/internal/core/ports"
	"orderentry/internal/pkg/errs"
)

// OrderLifecycle drives single orders through sign, activate, fill,
// discontinue and void, and owns the save rules for orders.
//
// Every transition works on the order passed in. When a transition is
// rejected, including by the store, the order is left exactly as it was
// before the call, so callers never hold state the store does not.
//
// Two kinds of writes exist:
//   - Save, used by Sign and Activate, refuses orders the store already
//     holds as activated and validates the schema.
//   - Bookkeeping writes, used by Discontinue, Fill, Void and Unvoid, skip the
//     activated check because they are allowed on activated orders.
//
// Both assign the order number on the first write of an order.
type OrderLifecycle struct {
	orders    ports.OrderRepository
	identity  ports.IdentityProvider
	generator services.OrderNumberGenerator
	observer  observer
}

// NewOrderLifecycle builds the service over the repositories of one unit of work.
//
// Parameters:
//   - repos: repositories bound to the current transaction
//   - identity: source of the current actor and of "now"
//   - config: order number prefix and deployment label
//   - logger: narrowed to component=order_lifecycle; nil means slog.Default
//   - opts: optional settings such as WithRecorder
//
// Example:
//
//	orders := lifecycle.NewOrderLifecycle(uow, identity, settings, logger,
//	    lifecycle.WithRecorder(metrics))
//	signed, err := orders.Sign(ctx, o, nil, nil)
func NewOrderLifecycle(
	repos ports.Repositories,
	identity ports.IdentityProvider,
	config ports.Configuration,
	logger *slog.Logger,
	opts ...Option,
) *OrderLifecycle {
	return &OrderLifecycle{
		orders:    repos.OrderRepository(),
		identity:  identity,
		generator: services.NewOrderNumberGenerator(config),
		observer:  newObserver(logger, "order_lifecycle", buildOptions(opts)),
	}
}

// Sign records the signature and saves. signer and at default to the current
// actor and now.
//
// Returns:
//   - the signed order (the same pointer as o)
//   - ErrStateIsInvalid if o is already signed, voided or activated in the store
//   - ErrValueIsRequired if no signer is given and none is authenticated
//   - ErrSchemaIsInvalid or ErrStorageFailed from the save
func (l *OrderLifecycle) Sign(
	ctx context.Context,
	o *order.Order,
	signer *kernel.Actor,
	at *time.Time,
) (_ *order.Order, err error) {
	defer func() { l.observer.observe(ctx, "sign", uuidOf(o), err) }()

	if err = o.Validate(); err != nil {
		return nil, err
	}
	if err = o.ValidateSign(); err != nil {
		return nil, err
	}

	actor, err := l.resolveActor(ctx, signer)
	if err != nil {
		return nil, err
	}

	err = undoOnError(o, func() error {
		if err := o.Sign(actor, l.resolveTime(at)); err != nil {
			return err
		}
		return l.save(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// Activate records the activation and saves. The order must already be signed.
// activator and at default to the current actor and now.
//
// Returns ErrStateIsInvalid for an unsigned, voided or already activated order.
func (l *OrderLifecycle) Activate(
	ctx context.Context,
	o *order.Order,
	activator *kernel.Actor,
	at *time.Time,
) (_ *order.Order, err error) {
	defer func() { l.observer.observe(ctx, "activate", uuidOf(o), err) }()

	if err = o.Validate(); err != nil {
		return nil, err
	}
	if err = o.ValidateActivate(); err != nil {
		return nil, err
	}

	actor, err := l.resolveActor(ctx, activator)
	if err != nil {
		return nil, err
	}

	err = undoOnError(o, func() error {
		if err := o.Activate(actor, l.resolveTime(at)); err != nil {
			return err
		}
		return l.save(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// SignAndActivate resolves actor and time once, then signs and activates.
// Activation is not attempted when signing fails. When activation fails the
// order stays signed, since the signature was already saved.
func (l *OrderLifecycle) SignAndActivate(
	ctx context.Context,
	o *order.Order,
	actor *kernel.Actor,
	at *time.Time,
) (_ *order.Order, err error) {
	defer func() { l.observer.observe(ctx, "sign_and_activate", uuidOf(o), err) }()

	if err = o.Validate(); err != nil {
		return nil, err
	}

	resolved, err := l.resolveActor(ctx, actor)
	if err != nil {
		return nil, err
	}
	when := l.resolveTime(at)

	if _, err = l.Sign(ctx, o, &resolved, &when); err != nil {
		return nil, err
	}
	if _, err = l.Activate(ctx, o, &resolved, &when); err != nil {
		return nil, err
	}
	return o, nil
}

// Discontinue terminates o as of at (default now). A DISCONTINUE companion
// order is signed, activated and saved on the way; the returned value is o.
//
// Returns:
//   - ErrStateIsInvalid if o is voided or already discontinued as of at
//   - ErrValueIsRequired if reason is missing or no actor is authenticated
//   - any error from saving the companion or o
func (l *OrderLifecycle) Discontinue(
	ctx context.Context,
	o *order.Order,
	reason kernel.ConceptID,
	at *time.Time,
) (_ *order.Order, err error) {
	defer func() { l.observer.observe(ctx, "discontinue", uuidOf(o), err) }()

	if err = o.Validate(); err != nil {
		return nil, err
	}
	when := l.resolveTime(at)
	if err = o.ValidateDiscontinue(when); err != nil {
		return nil, err
	}
	if err = reason.Validate(); err != nil {
		return nil, errs.NewValueIsRequiredErrorWithCause("discontinue reason", err)
	}
	actor, err := l.resolveActor(ctx, nil)
	if err != nil {
		return nil, err
	}

	// The companion is written first; a failure there leaves o untouched.
	companion, err := order.NewDiscontinuationOrder(o)
	if err != nil {
		return nil, err
	}
	if _, err = l.SignAndActivate(ctx, companion, &actor, &when); err != nil {
		return nil, err
	}

	err = undoOnError(o, func() error {
		if err := o.Discontinue(reason, actor, when); err != nil {
			return err
		}
		return l.write(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// Undiscontinue is not provided: reversing a discontinuation would also
// require voiding its companion DISCONTINUE order. o is never modified.
func (l *OrderLifecycle) Undiscontinue(ctx context.Context, o *order.Order) (_ *order.Order, err error) {
	defer func() { l.observer.observe(ctx, "undiscontinue", uuidOf(o), err) }()

	return nil, errs.NewOperationIsUnsupportedError(
		"undiscontinue",
		"reversing a discontinuation requires voiding the discontinuation order",
	)
}

// Fill records fulfilment by a free-text filler. at defaults to now and must not be in the future.
//
// Returns:
//   - ErrStateIsInvalid if o is not activated, already filled or voided
//   - ErrValueIsRequired for a blank filler
//   - ErrValueIsInvalid for a fill date after now
func (l *OrderLifecycle) Fill(
	ctx context.Context,
	o *order.Order,
	filler string,
	at *time.Time,
) (_ *order.Order, err error) {
	defer func() { l.observer.observe(ctx, "fill", uuidOf(o), err) }()

	return l.fill(ctx, o, filler, at)
}

// FillBy records fulfilment by an actor, labelled by user id and system id.
// It follows the rules of Fill.
func (l *OrderLifecycle) FillBy(
	ctx context.Context,
	o *order.Order,
	filler kernel.Actor,
	at *time.Time,
) (_ *order.Order, err error) {
	defer func() { l.observer.observe(ctx, "fill", uuidOf(o), err) }()

	if err = filler.Validate(); err != nil {
		return nil, err
	}
	return l.fill(ctx, o, filler.FillerLabel(), at)
}

func (l *OrderLifecycle) fill(ctx context.Context, o *order.Order, filler string, at *time.Time) (*order.Order, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if err := o.ValidateFill(); err != nil {
		return nil, err
	}

	now := l.identity.Now()
	when := now
	if at != nil {
		when = *at
	}

	err := undoOnError(o, func() error {
		if err := o.Fill(filler, when, now); err != nil {
			return err
		}
		return l.write(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// Void marks o voided by the current actor, if any. An already voided order
// is returned unchanged without a write. Returns ErrValueIsRequired for a
// blank reason.
func (l *OrderLifecycle) Void(ctx context.Context, o *order.Order, reason string) (_ *order.Order, err error) {
	defer func() { l.observer.observe(ctx, "void", uuidOf(o), err) }()

	if err = o.Validate(); err != nil {
		return nil, err
	}
	if o.IsVoided() {
		return o, nil
	}

	var by *kernel.Actor
	if actor, ok := l.identity.CurrentActor(ctx); ok {
		by = &actor
	}

	err = undoOnError(o, func() error {
		if err := o.Void(reason, by, l.identity.Now()); err != nil {
			return err
		}
		return l.write(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// Unvoid clears the void fields and saves, whatever the current state.
func (l *OrderLifecycle) Unvoid(ctx context.Context, o *order.Order) (_ *order.Order, err error) {
	defer func() { l.observer.observe(ctx, "unvoid", uuidOf(o), err) }()

	if err = o.Validate(); err != nil {
		return nil, err
	}

	err = undoOnError(o, func() error {
		o.Unvoid()
		return l.write(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// Save persists a structural change. Orders the store holds as activated are
// rejected without a write; new orders receive their order number here.
//
// Returns:
//   - ErrStateIsInvalid if the store holds o as activated
//   - ErrSchemaIsInvalid listing the violated fields
//   - store errors unchanged
func (l *OrderLifecycle) Save(ctx context.Context, o *order.Order) (_ *order.Order, err error) {
	defer func() { l.observer.observe(ctx, "save", uuidOf(o), err) }()

	if err = o.Validate(); err != nil {
		return nil, err
	}
	if err = undoOnError(o, func() error { return l.save(ctx, o) }); err != nil {
		return nil, err
	}
	return o, nil
}

func (l *OrderLifecycle) save(ctx context.Context, o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}

	activated, err := l.orders.IsActivatedInDatabase(ctx, o)
	if err != nil {
		return err
	}
	if activated {
		return errs.NewStateIsInvalidErrorWithCause("save", errors.New("cannot modify an activated order"))
	}

	return l.write(ctx, o)
}

// write numbers an order on its first write, checks the schema and hands
// the order to the repository.
func (l *OrderLifecycle) write(ctx context.Context, o *order.Order) error {
	if o.OrderNumber() == "" {
		if err := l.assignOrderNumber(ctx, o); err != nil {
			return err
		}
	} else if err := o.ValidateSchema(); err != nil {
		return err
	}

	return l.orders.Save(ctx, o)
}

// assignOrderNumber validates a numbered copy first, so a schema failure
// leaves o without a number.
func (l *OrderLifecycle) assignOrderNumber(ctx context.Context, o *order.Order) error {
	number, err := l.generator.Generate(ctx, l.orders)
	if err != nil {
		return err
	}
	candidate := o.Clone()
	if err = candidate.AssignOrderNumber(number); err != nil {
		return err
	}
	if err = candidate.ValidateSchema(); err != nil {
		return err
	}
	return o.AssignOrderNumber(number)
}

// Purge deletes o. Cascading purge is not provided and fails before any store call.
func (l *OrderLifecycle) Purge(ctx context.Context, o *order.Order, cascade bool) (err error) {
	defer func() { l.observer.observe(ctx, "purge", uuidOf(o), err) }()

	if cascade {
		return errs.NewOperationIsUnsupportedError("purge", "cascade purging of orders is not provided")
	}
	if err = o.Validate(); err != nil {
		return err
	}
	return l.orders.Delete(ctx, o)
}

// Get loads an order by its store-assigned numeric id.
func (l *OrderLifecycle) Get(ctx context.Context, id int64) (*order.Order, error) {
	return l.orders.Get(ctx, id)
}

// GetByUUID loads an order by uuid; ErrObjectNotFound when absent.
func (l *OrderLifecycle) GetByUUID(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return l.orders.GetByUUID(ctx, id)
}

// GetByOrderNumber loads an order by its human-readable number.
func (l *OrderLifecycle) GetByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	return l.orders.GetByOrderNumber(ctx, orderNumber)
}

func (l *OrderLifecycle) resolveActor(ctx context.Context, actor *kernel.Actor) (kernel.Actor, error) {
	return resolveActor(ctx, l.identity, actor)
}

func (l *OrderLifecycle) resolveTime(at *time.Time) time.Time {
	return resolveTime(l.identity, at)
}

// undoOnError runs change and puts o back to its prior state when change fails.
// o must be constructed.
func undoOnError(o *order.Order, change func() error) error {
	before := o.Clone()
	if err := change(); err != nil {
		*o = *before
		return err
	}
	return nil
}

// resolveActor returns actor when given, otherwise the authenticated actor.
//
// Returns:
//   - the validated explicit actor
//   - ErrValueIsRequired when actor is nil and nobody is authenticated
func resolveActor(ctx context.Context, identity ports.IdentityProvider, actor *kernel.Actor) (kernel.Actor, error) {
	if actor != nil {
		if err := actor.Validate(); err != nil {
			return kernel.Actor{}, err
		}
		return *actor, nil
	}
	current, ok := identity.CurrentActor(ctx)
	if !ok {
		return kernel.Actor{}, errs.NewValueIsRequiredErrorWithCause(
			"actor",
			errors.New("no actor given and none is authenticated"),
		)
	}
	return current, nil
}

// resolveTime returns *at, or the provider's now for a nil at.
func resolveTime(identity ports.IdentityProvider, at *time.Time) time.Time {
	if at != nil {
		return *at
	}
	return identity.Now()
}

// hasUUID is satisfied by every aggregate the lifecycle observes.
type hasUUID interface {
	Validate() error
	UUID() kernel.UUID
}

// uuidOf is the log label of a; empty for nil or unconstructed aggregates.
func uuidOf(a hasUUID) string {
	if a == nil || a.Validate() != nil {
		return ""
	}
	return a.UUID().String()
}
