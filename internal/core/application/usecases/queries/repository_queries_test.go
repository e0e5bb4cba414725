package queries_test

import (
	"testing"

	"orderentry/internal/adapters/out/memory"
	"orderentry/internal/core/application/usecases/queries"
	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/order"
	"orderentry/internal/core/domain/model/ordergroup"
	"orderentry/internal/core/domain/model/ordertype"
	"orderentry/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrderQueryHandler(t *testing.T) {
	store := memory.NewStore()
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), 1001, "")
	require.NoError(t, err)
	require.NoError(t, o.AssignOrderNumber("ORDER-1"))
	require.NoError(t, store.Create().OrderRepository().Save(t.Context(), o))

	handler := queries.NewGetOrderQueryHandler(store)

	t.Run("should load by uuid", func(t *testing.T) {
		query, err := queries.NewGetOrderQuery(o.UUID())
		require.NoError(t, err)

		loaded, err := handler.Handle(t.Context(), query)

		require.NoError(t, err)
		assert.Equal(t, "ORDER-1", loaded.OrderNumber())
	})

	t.Run("should load by order number", func(t *testing.T) {
		query, err := queries.NewGetOrderByNumberQuery("ORDER-1")
		require.NoError(t, err)

		loaded, err := handler.Handle(t.Context(), query)

		require.NoError(t, err)
		assert.True(t, loaded.IsEqual(o))
	})

	t.Run("should report unknown orders", func(t *testing.T) {
		query, err := queries.NewGetOrderQuery(kernel.NewUUID())
		require.NoError(t, err)

		_, err = handler.Handle(t.Context(), query)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("should reject a zero query", func(t *testing.T) {
		_, err := handler.Handle(t.Context(), queries.GetOrderQuery{})

		require.ErrorIs(t, err, queries.ErrGetOrderQueryIsNotConstructed)
	})
}

func TestGetOrderGroupsQueryHandler(t *testing.T) {
	store := memory.NewStore()
	uow := store.Create()
	patient := kernel.NewUUID()

	o, err := order.NewOrder(kernel.NewUUID(), patient, 1001, "")
	require.NoError(t, err)
	require.NoError(t, o.AssignOrderNumber("ORDER-1"))
	require.NoError(t, uow.OrderRepository().Save(t.Context(), o))
	g, err := ordergroup.NewOrderGroup(kernel.NewUUID(), patient, []*order.Order{o})
	require.NoError(t, err)
	require.NoError(t, uow.OrderGroupRepository().Save(t.Context(), g))

	t.Run("should list the patient's groups", func(t *testing.T) {
		query, err := queries.NewGetOrderGroupsQuery(patient)
		require.NoError(t, err)

		groups, err := queries.NewGetOrderGroupsQueryHandler(store).Handle(t.Context(), query)

		require.NoError(t, err)
		require.Len(t, groups, 1)
		assert.True(t, groups[0].UUID().IsEqual(g.UUID()))
	})

	t.Run("should require a patient", func(t *testing.T) {
		_, err := queries.NewGetOrderGroupsQuery(kernel.UUID{})

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestGetOrderTypesQueryHandler(t *testing.T) {
	store := memory.NewStore()
	repo := store.Create().OrderTypeRepository()
	lab, err := ordertype.NewOrderType(kernel.NewUUID(), "Lab Test", "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(t.Context(), lab))
	old, err := ordertype.NewOrderType(kernel.NewUUID(), "Legacy", "")
	require.NoError(t, err)
	require.NoError(t, old.Retire("superseded"))
	require.NoError(t, repo.Save(t.Context(), old))

	handler := queries.NewGetOrderTypesQueryHandler(store)

	active, err := handler.Handle(t.Context(), queries.NewGetOrderTypesQuery(false))
	require.NoError(t, err)
	assert.Len(t, active, 1)

	all, err := handler.Handle(t.Context(), queries.NewGetOrderTypesQuery(true))
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
