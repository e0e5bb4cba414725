package lifecycle_test

import (
	"context"
	"sync"
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

func (m *MockOrderRepository) Get(ctx context.Context, id int64) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetByUUID(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	args := m.Called(ctx, orderNumber)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockOrderGroupRepository struct{ mock.Mock }

func (m *MockOrderGroupRepository) Save(ctx context.Context, g *ordergroup.OrderGroup) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *MockOrderGroupRepository) Get(ctx context.Context, id int64) (*ordergroup.OrderGroup, error) {
	args := m.Called(ctx, id)
	g, _ := args.Get(0).(*ordergroup.OrderGroup)
	return g, args.Error(1)
}

func (m *MockOrderGroupRepository) GetByUUID(ctx context.Context, id kernel.UUID) (*ordergroup.OrderGroup, error) {
	args := m.Called(ctx, id)
	g, _ := args.Get(0).(*ordergroup.OrderGroup)
	return g, args.Error(1)
}

func (m *MockOrderGroupRepository) GetByPatient(
	ctx context.Context,
	patient kernel.UUID,
) ([]*ordergroup.OrderGroup, error) {
	args := m.Called(ctx, patient)
	g, _ := args.Get(0).([]*ordergroup.OrderGroup)
	return g, args.Error(1)
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

func (m *MockOrderTypeRepository) Get(ctx context.Context, id int64) (*ordertype.OrderType, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*ordertype.OrderType)
	return t, args.Error(1)
}

func (m *MockOrderTypeRepository) GetByUUID(ctx context.Context, id kernel.UUID) (*ordertype.OrderType, error) {
	args := m.Called(ctx, id)
	t, _ := args.Get(0).(*ordertype.OrderType)
	return t, args.Error(1)
}

func (m *MockOrderTypeRepository) GetAll(ctx context.Context, includeRetired bool) ([]*ordertype.OrderType, error) {
	args := m.Called(ctx, includeRetired)
	t, _ := args.Get(0).([]*ordertype.OrderType)
	return t, args.Error(1)
}

type fakeRepositories struct {
	orders *MockOrderRepository
	groups *MockOrderGroupRepository
	types  *MockOrderTypeRepository
}

func newFakeRepositories() *fakeRepositories {
	return &fakeRepositories{
		orders: new(MockOrderRepository),
		groups: new(MockOrderGroupRepository),
		types:  new(MockOrderTypeRepository),
	}
}

func (r *fakeRepositories) OrderRepository() ports.OrderRepository         { return r.orders }
func (r *fakeRepositories) OrderGroupRepository() ports.OrderGroupRepository { return r.groups }
func (r *fakeRepositories) OrderTypeRepository() ports.OrderTypeRepository   { return r.types }

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

type stubConfiguration struct {
	prefix string
	label  string
}

func (s stubConfiguration) OrderNumberPrefix() string { return s.prefix }
func (s stubConfiguration) DeploymentLabel() string   { return s.label }

type recordedTransition struct {
	transition string
	outcome    string
}

type fakeRecorder struct {
	mu      sync.Mutex
	records []recordedTransition
}

func (r *fakeRecorder) RecordTransition(transition, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, recordedTransition{transition: transition, outcome: outcome})
}

func (r *fakeRecorder) outcomesOf(transition string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, rec := range r.records {
		if rec.transition == transition {
			out = append(out, rec.outcome)
		}
	}
	return out
}
