package commands_test

import (
	"testing"

	"orderentry/internal/core/application/usecases/commands"
	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/order"
	"orderentry/internal/core/domain/model/ordertype"
	"orderentry/internal/core/ports"
	"orderentry/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPurgeOrderCommandHandler_Handle(t *testing.T) {
	t.Run("should delete, commit and publish", func(t *testing.T) {
		ctx := t.Context()
		o := storedOrder(t, order.Drafted)
		cmd, err := commands.NewPurgeOrderCommand(o.UUID(), false)
		require.NoError(t, err)

		uow := newMockUnitOfWork()
		uow.On("Begin", ctx).Return(nil).Once()
		uow.orders.On("GetByUUID", ctx, o.UUID()).Return(o, nil).Once()
		uow.orders.On("Delete", ctx, o).Return(nil).Once()
		uow.On("Commit", ctx).Return(nil).Once()
		uow.On("Rollback", ctx).Return(nil).Once()
		factory := new(MockUnitOfWorkFactory)
		factory.On("Create").Return(uow).Once()
		publisher := new(MockEventPublisher)
		publisher.On("Publish", ctx, mock.MatchedBy(func(e ports.LifecycleEvent) bool {
			return e.Type == ports.EventOrderPurged && e.OrderNumber == "ORDER-1"
		})).Return(nil).Once()

		h := commands.NewPurgeOrderCommandHandler(factory, testEnvironment(publisher))
		err = h.Handle(ctx, cmd)

		require.NoError(t, err)
		uow.AssertExpectations(t)
		uow.orders.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("should refuse a cascading purge before deleting", func(t *testing.T) {
		ctx := t.Context()
		o := storedOrder(t, order.Drafted)
		cmd, err := commands.NewPurgeOrderCommand(o.UUID(), true)
		require.NoError(t, err)

		uow := newMockUnitOfWork()
		uow.On("Begin", ctx).Return(nil).Once()
		uow.orders.On("GetByUUID", ctx, o.UUID()).Return(o, nil).Once()
		uow.On("Rollback", ctx).Return(nil).Once()
		factory := new(MockUnitOfWorkFactory)
		factory.On("Create").Return(uow).Once()
		publisher := new(MockEventPublisher)

		h := commands.NewPurgeOrderCommandHandler(factory, testEnvironment(publisher))
		err = h.Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrOperationIsUnsupported)
		uow.orders.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		uow.AssertNotCalled(t, "Commit", mock.Anything)
		publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("should reject a zero-value command", func(t *testing.T) {
		h := commands.NewPurgeOrderCommandHandler(new(MockUnitOfWorkFactory), testEnvironment(nil))

		err := h.Handle(t.Context(), commands.PurgeOrderCommand{})

		assert.Equal(t, commands.ErrPurgeOrderCommandIsNotConstructed, err)
	})
}

func TestPurgeOrderTypeCommandHandler_Handle(t *testing.T) {
	t.Run("should delete and commit", func(t *testing.T) {
		ctx := t.Context()
		ot, err := ordertype.NewOrderType(kernel.NewUUID(), "Lab Test", "")
		require.NoError(t, err)
		cmd, err := commands.NewPurgeOrderTypeCommand(ot.UUID())
		require.NoError(t, err)

		uow := newMockUnitOfWork()
		uow.On("Begin", ctx).Return(nil).Once()
		uow.types.On("GetByUUID", ctx, ot.UUID()).Return(ot, nil).Once()
		uow.types.On("Delete", ctx, ot).Return(nil).Once()
		uow.On("Commit", ctx).Return(nil).Once()
		uow.On("Rollback", ctx).Return(nil).Once()
		factory := new(MockUnitOfWorkFactory)
		factory.On("Create").Return(uow).Once()

		h := commands.NewPurgeOrderTypeCommandHandler(factory, testEnvironment(nil))
		err = h.Handle(ctx, cmd)

		require.NoError(t, err)
		uow.types.AssertExpectations(t)
		uow.AssertExpectations(t)
	})

	t.Run("should pass not found through", func(t *testing.T) {
		ctx := t.Context()
		id := kernel.NewUUID()
		cmd, err := commands.NewPurgeOrderTypeCommand(id)
		require.NoError(t, err)

		uow := newMockUnitOfWork()
		uow.On("Begin", ctx).Return(nil).Once()
		uow.types.On("GetByUUID", ctx, id).Return(nil, errs.NewObjectNotFoundError("uuid", id)).Once()
		uow.On("Rollback", ctx).Return(nil).Once()
		factory := new(MockUnitOfWorkFactory)
		factory.On("Create").Return(uow).Once()

		h := commands.NewPurgeOrderTypeCommandHandler(factory, testEnvironment(nil))
		err = h.Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}
