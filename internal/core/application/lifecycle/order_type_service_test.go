package lifecycle_test

import (
	"log/slog"
	"strings"
	"testing"

	"orderentry/internal/core/application/lifecycle"
	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/ordertype"
	"orderentry/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newOrderTypeService() (*fakeRepositories, *lifecycle.OrderTypeService) {
	repos := newFakeRepositories()
	return repos, lifecycle.NewOrderTypeService(repos, slog.New(slog.DiscardHandler))
}

func TestOrderTypeService(t *testing.T) {
	t.Run("should save a valid order type", func(t *testing.T) {
		ctx := t.Context()
		repos, svc := newOrderTypeService()
		ot, err := ordertype.NewOrderType(kernel.NewUUID(), "Lab Test", "")
		require.NoError(t, err)

		repos.types.On("Save", ctx, ot).Return(nil).Once()

		_, err = svc.Save(ctx, ot)

		require.NoError(t, err)
		repos.types.AssertExpectations(t)
	})

	t.Run("should reject a schema violation without a write", func(t *testing.T) {
		repos, svc := newOrderTypeService()
		ot, err := ordertype.NewOrderType(kernel.NewUUID(), strings.Repeat("x", 300), "")
		require.NoError(t, err)

		_, err = svc.Save(t.Context(), ot)

		require.ErrorIs(t, err, errs.ErrSchemaIsInvalid)
		repos.types.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("should retire and unretire", func(t *testing.T) {
		ctx := t.Context()
		repos, svc := newOrderTypeService()
		ot, err := ordertype.NewOrderType(kernel.NewUUID(), "Radiology", "imaging")
		require.NoError(t, err)

		repos.types.On("Save", ctx, ot).Return(nil).Twice()

		_, err = svc.Retire(ctx, ot, "merged into Imaging")
		require.NoError(t, err)
		assert.True(t, ot.IsRetired())
		assert.Equal(t, "merged into Imaging", ot.RetireReason())

		_, err = svc.Unretire(ctx, ot)
		require.NoError(t, err)
		assert.False(t, ot.IsRetired())
		assert.Empty(t, ot.RetireReason())
	})

	t.Run("should require a retire reason", func(t *testing.T) {
		repos, svc := newOrderTypeService()
		ot, err := ordertype.NewOrderType(kernel.NewUUID(), "Radiology", "")
		require.NoError(t, err)

		_, err = svc.Retire(t.Context(), ot, "")

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Empty(t, repos.types.Calls)
	})

	t.Run("should purge", func(t *testing.T) {
		ctx := t.Context()
		repos, svc := newOrderTypeService()
		ot, err := ordertype.NewOrderType(kernel.NewUUID(), "Radiology", "")
		require.NoError(t, err)

		repos.types.On("Delete", ctx, ot).Return(nil).Once()

		require.NoError(t, svc.Purge(ctx, ot))
		repos.types.AssertExpectations(t)
	})

	t.Run("should list including retired", func(t *testing.T) {
		ctx := t.Context()
		repos, svc := newOrderTypeService()

		repos.types.On("GetAll", ctx, true).Return([]*ordertype.OrderType{}, nil).Once()

		got, err := svc.GetAll(ctx, true)

		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
