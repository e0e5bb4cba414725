package commands_test

import (
	"testing"

	"orderentry/internal/core/application/usecases/commands"
	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/order"
	"orderentry/internal/core/ports"
	"orderentry/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func draftedFor(t *testing.T, patient kernel.UUID) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), patient, kernel.ConceptID(5089), "")
	require.NoError(t, err)
	return o
}

func TestCreateOrderGroupCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	patient := kernel.NewUUID()
	first, second := draftedFor(t, patient), draftedFor(t, patient)
	cmd, err := commands.NewCreateOrderGroupCommand(
		kernel.NewUUID(), patient, []kernel.UUID{first.UUID(), second.UUID()}, nil, nil,
	)
	require.NoError(t, err)

	uow := newMockUnitOfWork()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.orders.On("GetByUUID", ctx, first.UUID()).Return(first, nil).Once()
	uow.orders.On("GetByUUID", ctx, second.UUID()).Return(second, nil).Once()
	uow.orders.On("IsActivatedInDatabase", ctx, mock.Anything).Return(false, nil).Times(4)
	uow.orders.On("GetMaximumOrderID", ctx).Return(int64(0), nil).Once()
	uow.orders.On("GetMaximumOrderID", ctx).Return(int64(1), nil).Once()
	uow.orders.On("Save", ctx, mock.Anything).Return(nil).Times(4)
	uow.groups.On("Save", ctx, mock.Anything).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	factory := new(MockUnitOfWorkFactory)
	factory.On("Create").Return(uow).Once()

	publisher := new(MockEventPublisher)
	publisher.On("Publish", ctx, mock.MatchedBy(func(e ports.LifecycleEvent) bool {
		return e.Type == ports.EventOrderSignedAndActivated
	})).Return(nil).Twice()
	publisher.On("Publish", ctx, mock.MatchedBy(func(e ports.LifecycleEvent) bool {
		return e.Type == ports.EventOrderGroupSignedAndActivated && e.Patient == patient.String()
	})).Return(nil).Once()

	h := commands.NewCreateOrderGroupCommandHandler(factory, testEnvironment(publisher))
	group, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	require.Len(t, group.Members(), 2)
	assert.Equal(t, order.Activated, first.Stage())
	assert.Equal(t, order.Activated, second.Stage())
	uow.AssertExpectations(t)
	uow.groups.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestCreateOrderGroupCommandHandler_Handle_MemberFailureRollsBack(t *testing.T) {
	ctx := t.Context()
	patient := kernel.NewUUID()
	first := draftedFor(t, patient)
	voided := draftedFor(t, patient)
	require.NoError(t, voided.Void("entered in error", nil, testNow))
	cmd, err := commands.NewCreateOrderGroupCommand(
		kernel.NewUUID(), patient, []kernel.UUID{first.UUID(), voided.UUID()}, nil, nil,
	)
	require.NoError(t, err)

	uow := newMockUnitOfWork()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.orders.On("GetByUUID", ctx, first.UUID()).Return(first, nil).Once()
	uow.orders.On("GetByUUID", ctx, voided.UUID()).Return(voided, nil).Once()
	uow.orders.On("IsActivatedInDatabase", ctx, first).Return(false, nil).Twice()
	uow.orders.On("GetMaximumOrderID", ctx).Return(int64(0), nil).Once()
	uow.orders.On("Save", ctx, first).Return(nil).Twice()
	uow.On("Rollback", ctx).Return(nil).Once()
	factory := new(MockUnitOfWorkFactory)
	factory.On("Create").Return(uow).Once()
	publisher := new(MockEventPublisher)

	h := commands.NewCreateOrderGroupCommandHandler(factory, testEnvironment(publisher))
	_, err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrStateIsInvalid)
	assert.Contains(t, err.Error(), "order group member 1")
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	uow.AssertCalled(t, "Rollback", ctx)
	uow.groups.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestCreateOrderGroupCommandHandler_Handle_OtherPatient(t *testing.T) {
	ctx := t.Context()
	patient := kernel.NewUUID()
	stranger := draftedFor(t, kernel.NewUUID())
	cmd, err := commands.NewCreateOrderGroupCommand(
		kernel.NewUUID(), patient, []kernel.UUID{stranger.UUID()}, nil, nil,
	)
	require.NoError(t, err)

	uow := newMockUnitOfWork()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.orders.On("GetByUUID", ctx, stranger.UUID()).Return(stranger, nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	factory := new(MockUnitOfWorkFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderGroupCommandHandler(factory, testEnvironment(nil))
	_, err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrArgumentIsInvalid)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}
