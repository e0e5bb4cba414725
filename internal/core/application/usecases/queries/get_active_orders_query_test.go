package queries_test

import (
	"testing"
	"time"

	"orderentry/internal/core/application/usecases/queries"
	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetActiveOrdersQuery(t *testing.T) {
	asOf := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	t.Run("should keep patient and time", func(t *testing.T) {
		patient := kernel.NewUUID()

		query, err := queries.NewGetActiveOrdersQuery(patient, asOf)

		require.NoError(t, err)
		require.NoError(t, query.Validate())
		assert.True(t, query.Patient().IsEqual(patient))
		assert.True(t, query.AsOf().Equal(asOf))
	})

	t.Run("should require both fields", func(t *testing.T) {
		_, err := queries.NewGetActiveOrdersQuery(kernel.UUID{}, time.Time{})

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Contains(t, err.Error(), "patient")
		assert.Contains(t, err.Error(), "asOf")
	})

	t.Run("should reject a zero value", func(t *testing.T) {
		err := queries.GetActiveOrdersQuery{}.Validate()

		require.ErrorIs(t, err, queries.ErrGetActiveOrdersQueryIsNotConstructed)
	})
}

func TestNewCountActiveOrdersQuery(t *testing.T) {
	t.Run("should require a time", func(t *testing.T) {
		_, err := queries.NewCountActiveOrdersQuery(time.Time{})

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject a zero value", func(t *testing.T) {
		err := queries.CountActiveOrdersQuery{}.Validate()

		require.ErrorIs(t, err, queries.ErrCountActiveOrdersQueryIsNotConstructed)
	})
}
