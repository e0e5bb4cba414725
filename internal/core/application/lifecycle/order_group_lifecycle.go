package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/ordergroup"
	"orderentry/internal/core/ports"
	"orderentry/internal/pkg/errs"
)

// OrderGroupLifecycle signs and activates groups of orders and manages the
// group's own void state.
//
// SignAndActivate walks the members in order and stops at the first failure.
// Members handled before the failure stay signed and activated unless the
// caller runs the call inside a unit of work and rolls it back.
//
// Group writes check the group schema first. A rejected Void or Unvoid leaves
// the group as it was.
type OrderGroupLifecycle struct {
	groups   ports.OrderGroupRepository
	orders   *OrderLifecycle
	identity ports.IdentityProvider
	observer observer
}

// NewOrderGroupLifecycle builds the service over one unit of work.
//
// Parameters:
//   - repos: repositories bound to the current transaction
//   - orders: the order lifecycle of the same unit of work, used for members
//   - identity: source of the current actor and of "now"
//   - logger: narrowed to component=order_group_lifecycle
//   - opts: optional settings such as WithRecorder
//
// Example:
//
//	orders := lifecycle.NewOrderLifecycle(uow, identity, settings, logger)
//	groups := lifecycle.NewOrderGroupLifecycle(uow, orders, identity, logger)
func NewOrderGroupLifecycle(
	repos ports.Repositories,
	orders *OrderLifecycle,
	identity ports.IdentityProvider,
	logger *slog.Logger,
	opts ...Option,
) *OrderGroupLifecycle {
	return &OrderGroupLifecycle{
		groups:   repos.OrderGroupRepository(),
		orders:   orders,
		identity: identity,
		observer: newObserver(logger, "order_group_lifecycle", buildOptions(opts)),
	}
}

// SignAndActivate signs and activates every member with one actor and time,
// then saves the group. The error of a failing member is wrapped with its index.
//
// Returns:
//   - ErrStateIsInvalid for a saved or empty group, or a member that cannot
//     be signed or activated
//   - ErrValueIsRequired when no actor is given and none is authenticated
//   - ErrSchemaIsInvalid or store errors from the group write
//
// Example:
//
//	g, _ := ordergroup.NewOrderGroup(kernel.NewUUID(), patient, []*order.Order{aspirin, statin})
//	if _, err := groups.SignAndActivate(ctx, g, nil, nil); err != nil {
//	    return err // roll back the unit of work
//	}
func (l *OrderGroupLifecycle) SignAndActivate(
	ctx context.Context,
	g *ordergroup.OrderGroup,
	actor *kernel.Actor,
	at *time.Time,
) (_ *ordergroup.OrderGroup, err error) {
	defer func() { l.observer.observe(ctx, "group_sign_and_activate", uuidOf(g), err) }()

	if err = g.Validate(); err != nil {
		return nil, err
	}
	if err = g.ValidateSignAndActivate(); err != nil {
		return nil, err
	}

	resolved, err := resolveActor(ctx, l.identity, actor)
	if err != nil {
		return nil, err
	}
	when := resolveTime(l.identity, at)

	for i, member := range g.Members() {
		if _, err = l.orders.SignAndActivate(ctx, member, &resolved, &when); err != nil {
			return nil, fmt.Errorf("order group member %d: %w", i, err)
		}
	}

	if err = l.write(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// Void has the order Void contract, applied to group fields only.
// An already voided group is returned unchanged without a write.
//
// Returns ErrValueIsRequired for a blank reason and ErrSchemaIsInvalid for a
// reason longer than the void reason column.
func (l *OrderGroupLifecycle) Void(
	ctx context.Context,
	g *ordergroup.OrderGroup,
	reason string,
) (_ *ordergroup.OrderGroup, err error) {
	defer func() { l.observer.observe(ctx, "group_void", uuidOf(g), err) }()

	if err = g.Validate(); err != nil {
		return nil, err
	}
	if g.IsVoided() {
		return g, nil
	}

	var by *kernel.Actor
	if current, ok := l.identity.CurrentActor(ctx); ok {
		by = &current
	}
	err = undoGroupOnError(g, func() error {
		if err := g.Void(reason, by, l.identity.Now()); err != nil {
			return err
		}
		return l.write(ctx, g)
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Unvoid clears the group void fields and saves. Members are not touched.
func (l *OrderGroupLifecycle) Unvoid(ctx context.Context, g *ordergroup.OrderGroup) (_ *ordergroup.OrderGroup, err error) {
	defer func() { l.observer.observe(ctx, "group_unvoid", uuidOf(g), err) }()

	if err = g.Validate(); err != nil {
		return nil, err
	}

	err = undoGroupOnError(g, func() error {
		g.Unvoid()
		return l.write(ctx, g)
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Save persists the group fields only; members are saved through OrderLifecycle.
//
// Returns:
//   - ErrOrderGroupIsNotConstructed for a zero-value group
//   - ErrSchemaIsInvalid naming the violated fields, without a write
//   - store errors unchanged
func (l *OrderGroupLifecycle) Save(ctx context.Context, g *ordergroup.OrderGroup) (*ordergroup.OrderGroup, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if err := l.write(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// write checks the group schema and saves.
func (l *OrderGroupLifecycle) write(ctx context.Context, g *ordergroup.OrderGroup) error {
	if err := g.ValidateSchema(); err != nil {
		return err
	}
	return l.groups.Save(ctx, g)
}

// undoGroupOnError runs change and restores g's fields when change fails.
func undoGroupOnError(g *ordergroup.OrderGroup, change func() error) error {
	before := g.Clone()
	if err := change(); err != nil {
		*g = *before
		return err
	}
	return nil
}

// Get loads a group by its store-assigned numeric id.
func (l *OrderGroupLifecycle) Get(ctx context.Context, id int64) (*ordergroup.OrderGroup, error) {
	return l.groups.Get(ctx, id)
}

// GetByUUID loads a group with its members; ErrObjectNotFound when absent.
func (l *OrderGroupLifecycle) GetByUUID(ctx context.Context, id kernel.UUID) (*ordergroup.OrderGroup, error) {
	return l.groups.GetByUUID(ctx, id)
}

// GetByPatient requires a patient.
func (l *OrderGroupLifecycle) GetByPatient(ctx context.Context, patient kernel.UUID) ([]*ordergroup.OrderGroup, error) {
	if err := patient.Validate(); err != nil {
		return nil, errs.NewValueIsRequiredErrorWithCause("patient", err)
	}
	return l.groups.GetByPatient(ctx, patient)
}
