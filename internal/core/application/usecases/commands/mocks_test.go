package commands_test

import (
	"context"
	"time"

	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/order"
	"orderentry/internal/core/domain/model/ordergroup"
	"orderentry/internal/core/domain/model/ordertype"
	"orderentry/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) IsActivatedInDatabase(ctx context.Context, o *order.Order) (bool, error) {
	args := m.Called(ctx, o)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) GetMaximumOrderID(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) Get(_ context.Context, _ int64) (*order.Order, error) {
	panic("not used by commands")
}

func (m *MockOrderRepository) GetByUUID(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetByOrderNumber(_ context.Context, _ string) (*order.Order, error) {
	panic("not used by commands")
}

type MockOrderGroupRepository struct{ mock.Mock }

func (m *MockOrderGroupRepository) Save(ctx context.Context, g *ordergroup.OrderGroup) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *MockOrderGroupRepository) Get(_ context.Context, _ int64) (*ordergroup.OrderGroup, error) {
	panic("not used by commands")
}

func (m *MockOrderGroupRepository) GetByUUID(ctx context.Context, id kernel.UUID) (*ordergroup.OrderGroup, error) {
	args := m.Called(ctx, id)
	g, _ := args.Get(0).(*ordergroup.OrderGroup)
	return g, args.Error(1)
}

func (m *MockOrderGroupRepository) GetByPatient(_ context.Context, _ kernel.UUID) ([]*ordergroup.OrderGroup, error) {
	panic("not used by commands")
}

type MockOrderTypeRepository struct{ mock.Mock }

func (m *MockOrderTypeRepository) Save(ctx context.Context, t *ordertype.OrderType) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockOrderTypeRepository) Delete(ctx context.Context, t *ordertype.OrderType) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockOrderTypeRepository) Get(_ context.Context, _ int64) (*ordertype.OrderType, error) {
	panic("not used by commands")
}

func (m *MockOrderTypeRepository) GetByUUID(ctx context.Context, id kernel.UUID) (*ordertype.OrderType, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*ordertype.OrderType)
	return t, args.Error(1)
}

func (m *MockOrderTypeRepository) GetAll(_ context.Context, _ bool) ([]*ordertype.OrderType, error) {
	panic("not used by commands")
}

type MockUnitOfWork struct {
	mock.Mock
	orders *MockOrderRepository
	groups *MockOrderGroupRepository
	types  *MockOrderTypeRepository
}

func newMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		orders: new(MockOrderRepository),
		groups: new(MockOrderGroupRepository),
		types:  new(MockOrderTypeRepository),
	}
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) OrderRepository() ports.OrderRepository {
	return m.orders
}

func (m *MockUnitOfWork) OrderGroupRepository() ports.OrderGroupRepository {
	return m.groups
}

func (m *MockUnitOfWork) OrderTypeRepository() ports.OrderTypeRepository {
	return m.types
}

type MockUnitOfWorkFactory struct{ mock.Mock }

func (m *MockUnitOfWorkFactory) Create() ports.UnitOfWork {
	args := m.Called()
	return args.Get(0).(ports.UnitOfWork)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(ctx context.Context, event ports.LifecycleEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type stubIdentity struct {
	actor *kernel.Actor
	now   time.Time
}

func (s stubIdentity) CurrentActor(_ context.Context) (kernel.Actor, bool) {
	if s.actor == nil {
		return kernel.Actor{}, false
	}
	return *s.actor, true
}

func (s stubIdentity) Now() time.Time {
	return s.now
}

type stubConfiguration struct{}

func (stubConfiguration) OrderNumberPrefix() string { return "" }
func (stubConfiguration) DeploymentLabel() string   { return "" }
