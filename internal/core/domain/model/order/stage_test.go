package order_test

import (
	"testing"

	"orderentry/internal/core/domain/model/order"
	"orderentry/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStage_Constants(t *testing.T) {
	t.Run("should have correct enum values", func(t *testing.T) {
		assert.Equal(t, 0, int(order.StageUnknown))
		assert.Equal(t, 1, int(order.Drafted))
		assert.Equal(t, 2, int(order.Signed))
		assert.Equal(t, 3, int(order.Activated))
		assert.Equal(t, 4, int(order.Filled))
	})

	t.Run("should render names", func(t *testing.T) {
		assert.Equal(t, "Drafted", order.Drafted.String())
		assert.Equal(t, "Filled", order.Filled.String())
		assert.Equal(t, "Unknown", order.Stage(42).String())
	})
}

func TestStage_Validate(t *testing.T) {
	t.Run("should accept real stages", func(t *testing.T) {
		for _, s := range []order.Stage{order.Drafted, order.Signed, order.Activated, order.Filled} {
			require.NoError(t, s.Validate(), s.String())
		}
	})

	t.Run("should reject unknown", func(t *testing.T) {
		err := order.StageUnknown.Validate()

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestStage_Transitions(t *testing.T) {
	tests := []struct {
		name     string
		from     order.Stage
		apply    func(order.Stage) (order.Stage, error)
		expected order.Stage
		errText  string
	}{
		{"sign drafted", order.Drafted, order.Stage.Sign, order.Signed, ""},
		{"sign signed", order.Signed, order.Stage.Sign, order.StageUnknown, "already signed"},
		{"sign activated", order.Activated, order.Stage.Sign, order.StageUnknown, "already signed"},
		{"activate signed", order.Signed, order.Stage.Activate, order.Activated, ""},
		{"activate drafted", order.Drafted, order.Stage.Activate, order.StageUnknown, "must be signed first"},
		{"activate activated", order.Activated, order.Stage.Activate, order.StageUnknown, "already activated"},
		{"activate filled", order.Filled, order.Stage.Activate, order.StageUnknown, "already activated"},
		{"fill activated", order.Activated, order.Stage.Fill, order.Filled, ""},
		{"fill drafted", order.Drafted, order.Stage.Fill, order.StageUnknown, "has not been signed"},
		{"fill signed", order.Signed, order.Stage.Fill, order.StageUnknown, "has not been activated"},
		{"fill filled", order.Filled, order.Stage.Fill, order.StageUnknown, "already filled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := tt.apply(tt.from)

			assert.Equal(t, tt.expected, next)
			if tt.errText == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, errs.ErrStateIsInvalid)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}

func TestActionAndKind(t *testing.T) {
	t.Run("should parse what String renders", func(t *testing.T) {
		for _, a := range []order.Action{order.ActionNew, order.ActionDiscontinue} {
			parsed, err := order.ParseAction(a.String())
			require.NoError(t, err)
			assert.Equal(t, a, parsed)
		}
		for _, k := range []order.Kind{order.KindGeneric, order.KindDrug} {
			parsed, err := order.ParseKind(k.String())
			require.NoError(t, err)
			assert.Equal(t, k, parsed)
		}
	})

	t.Run("should reject unknown values", func(t *testing.T) {
		_, err := order.ParseAction("REVISE")
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)

		_, err = order.ParseKind("LAB")
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)

		require.Error(t, order.ActionUnknown.Validate())
		require.Error(t, order.KindUnknown.Validate())
	})
}
