package lifecycle

import (
	"context"
	"log/slog"

	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/ordertype"
	"orderentry/internal/core/ports"
)

// OrderTypeService administers order types.
type OrderTypeService struct {
	types    ports.OrderTypeRepository
	observer observer
}

// NewOrderTypeService creates the service over the order type repository of repos.
func NewOrderTypeService(repos ports.Repositories, logger *slog.Logger, opts ...Option) *OrderTypeService {
	return &OrderTypeService{
		types:    repos.OrderTypeRepository(),
		observer: newObserver(logger, "order_type_service", buildOptions(opts)),
	}
}

// Save validates the schema before writing.
func (s *OrderTypeService) Save(ctx context.Context, t *ordertype.OrderType) (_ *ordertype.OrderType, err error) {
	defer func() { s.observer.observe(ctx, "order_type_save", uuidOf(t), err) }()

	if err = t.ValidateSchema(); err != nil {
		return nil, err
	}
	if err = s.types.Save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Retire requires a non-blank reason.
func (s *OrderTypeService) Retire(ctx context.Context, t *ordertype.OrderType, reason string) (_ *ordertype.OrderType, err error) {
	defer func() { s.observer.observe(ctx, "order_type_retire", uuidOf(t), err) }()

	if err = t.Validate(); err != nil {
		return nil, err
	}
	if err = t.Retire(reason); err != nil {
		return nil, err
	}
	if err = s.types.Save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Unretire clears the retired flag and reason.
func (s *OrderTypeService) Unretire(ctx context.Context, t *ordertype.OrderType) (_ *ordertype.OrderType, err error) {
	defer func() { s.observer.observe(ctx, "order_type_unretire", uuidOf(t), err) }()

	if err = t.Validate(); err != nil {
		return nil, err
	}
	t.Unretire()
	if err = s.types.Save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Purge deletes t permanently.
func (s *OrderTypeService) Purge(ctx context.Context, t *ordertype.OrderType) (err error) {
	defer func() { s.observer.observe(ctx, "order_type_purge", uuidOf(t), err) }()

	if err = t.Validate(); err != nil {
		return err
	}
	return s.types.Delete(ctx, t)
}

// Get returns the order type with the given id.
func (s *OrderTypeService) Get(ctx context.Context, id int64) (*ordertype.OrderType, error) {
	return s.types.Get(ctx, id)
}

// GetByUUID returns the order type with the given uuid.
func (s *OrderTypeService) GetByUUID(ctx context.Context, id kernel.UUID) (*ordertype.OrderType, error) {
	return s.types.GetByUUID(ctx, id)
}

// GetAll lists order types by name.
func (s *OrderTypeService) GetAll(ctx context.Context, includeRetired bool) ([]*ordertype.OrderType, error) {
	return s.types.GetAll(ctx, includeRetired)
}
