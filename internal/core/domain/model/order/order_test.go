package order_test

import (
	"strings"
	"testing"
	"time"

	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/core/domain/model/order"
	"orderentry/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	doctor = kernel.MustNewActor(7, "doc-7")
	nurse  = kernel.MustNewActor(9, "nurse-9")
	t0     = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
)

func newDrafted(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.ConceptID(5089), "take with food")
	require.NoError(t, err)
	return o
}

func newActivated(t *testing.T) *order.Order {
	t.Helper()
	o := newDrafted(t)
	require.NoError(t, o.Sign(doctor, t0))
	require.NoError(t, o.Activate(doctor, t0))
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("should create drafted NEW generic order", func(t *testing.T) {
		id := kernel.NewUUID()
		patient := kernel.NewUUID()

		o, err := order.NewOrder(id, patient, kernel.ConceptID(12), "")

		require.NoError(t, err)
		require.NoError(t, o.Validate())
		assert.True(t, o.UUID().IsEqual(id))
		assert.True(t, o.Patient().IsEqual(patient))
		assert.Equal(t, kernel.ConceptID(12), o.Concept())
		assert.Equal(t, order.ActionNew, o.Action())
		assert.Equal(t, order.KindGeneric, o.Kind())
		assert.Equal(t, order.Drafted, o.Stage())
		assert.True(t, o.IsNew())
		assert.Empty(t, o.OrderNumber())
		assert.Nil(t, o.SignedBy())
		assert.Nil(t, o.DateSigned())
		assert.Nil(t, o.Discontinues())
		_, ok := o.Dosage()
		assert.False(t, ok)
	})

	t.Run("should join every invalid field", func(t *testing.T) {
		o, err := order.NewOrder(kernel.UUID{}, kernel.UUID{}, 0, strings.Repeat("x", order.MaxInstructionsLength+1))

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "UUID must be created")
		assert.Contains(t, err.Error(), "patient")
		assert.Contains(t, err.Error(), "concept")
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		require.ErrorIs(t, err, errs.ErrArgumentIsInvalid)
	})
}

func TestNewDrugOrder(t *testing.T) {
	t.Run("should expose dosage", func(t *testing.T) {
		dosage, err := order.NewDosage(250, "mg", "daily", 30)
		require.NoError(t, err)

		o, err := order.NewDrugOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.ConceptID(1), dosage, "")

		require.NoError(t, err)
		assert.Equal(t, order.KindDrug, o.Kind())
		got, ok := o.Dosage()
		require.True(t, ok)
		assert.Equal(t, "mg", got.Units())
	})

	t.Run("should reject zero dosage", func(t *testing.T) {
		o, err := order.NewDrugOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.ConceptID(1), order.Dosage{}, "")

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Nil(t, o)
	})
}

func TestNewDiscontinuationOrder(t *testing.T) {
	t.Run("should reference the original order", func(t *testing.T) {
		original := newActivated(t)

		dc, err := order.NewDiscontinuationOrder(original)

		require.NoError(t, err)
		assert.Equal(t, order.ActionDiscontinue, dc.Action())
		assert.Equal(t, original.Concept(), dc.Concept())
		assert.True(t, original.Patient().IsEqual(dc.Patient()))
		require.NotNil(t, dc.Discontinues())
		assert.True(t, dc.Discontinues().IsEqual(original.UUID()))
		assert.False(t, dc.UUID().IsEqual(original.UUID()))
		assert.Equal(t, order.Drafted, dc.Stage())
	})

	t.Run("should reject unconstructed original", func(t *testing.T) {
		_, err := order.NewDiscontinuationOrder(&order.Order{})

		require.ErrorIs(t, err, order.ErrOrderIsNotConstructed)
	})
}

func TestOrder_Validate(t *testing.T) {
	t.Run("should reject zero value and nil", func(t *testing.T) {
		var nilOrder *order.Order

		assert.Equal(t, order.ErrOrderIsNotConstructed, (&order.Order{}).Validate())
		assert.Equal(t, order.ErrOrderIsNotConstructed, nilOrder.Validate())
	})
}

func TestOrder_Sign(t *testing.T) {
	t.Run("should set signer and date together", func(t *testing.T) {
		o := newDrafted(t)

		err := o.Sign(doctor, t0)

		require.NoError(t, err)
		assert.True(t, o.IsSigned())
		assert.Equal(t, order.Signed, o.Stage())
		require.NotNil(t, o.SignedBy())
		assert.True(t, o.SignedBy().IsEqual(doctor))
		assert.Equal(t, t0, *o.DateSigned())
	})

	t.Run("should fail second sign and keep first signature", func(t *testing.T) {
		o := newDrafted(t)
		require.NoError(t, o.Sign(doctor, t0))

		err := o.Sign(nurse, t0.Add(time.Hour))

		require.ErrorIs(t, err, errs.ErrStateIsInvalid)
		assert.True(t, o.SignedBy().IsEqual(doctor))
		assert.Equal(t, t0, *o.DateSigned())
	})

	t.Run("should require a constructed actor", func(t *testing.T) {
		o := newDrafted(t)

		err := o.Sign(kernel.Actor{}, t0)

		require.ErrorIs(t, err, errs.ErrArgumentIsInvalid)
		assert.False(t, o.IsSigned())
	})

	t.Run("should reject voided order", func(t *testing.T) {
		o := newDrafted(t)
		require.NoError(t, o.Void("entered in error", &doctor, t0))

		err := o.Sign(doctor, t0)

		require.ErrorIs(t, err, errs.ErrStateIsInvalid)
		assert.False(t, o.IsSigned())
	})
}

func TestOrder_Activate(t *testing.T) {
	t.Run("should activate signed order", func(t *testing.T) {
		o := newDrafted(t)
		require.NoError(t, o.Sign(doctor, t0))

		err := o.Activate(nurse, t0.Add(time.Minute))

		require.NoError(t, err)
		assert.Equal(t, order.Activated, o.Stage())
		assert.True(t, o.ActivatedBy().IsEqual(nurse))
		assert.Equal(t, t0.Add(time.Minute), *o.DateActivated())
	})

	t.Run("should reject unsigned order", func(t *testing.T) {
		o := newDrafted(t)

		err := o.Activate(doctor, t0)

		require.ErrorIs(t, err, errs.ErrStateIsInvalid)
		assert.Nil(t, o.DateActivated())
	})

	t.Run("should reject second activation", func(t *testing.T) {
		o := newActivated(t)

		err := o.Activate(nurse, t0.Add(time.Hour))

		require.ErrorIs(t, err, errs.ErrStateIsInvalid)
		assert.True(t, o.ActivatedBy().IsEqual(doctor))
	})
}

func TestOrder_Fill(t *testing.T) {
	now := t0.Add(24 * time.Hour)

	t.Run("should fill activated order", func(t *testing.T) {
		o := newActivated(t)

		err := o.Fill("Dr. X", now, now)

		require.NoError(t, err)
		assert.Equal(t, order.Filled, o.Stage())
		assert.Equal(t, "Dr. X", o.Filler())
		assert.Equal(t, now, *o.DateFilled())
	})

	t.Run("should reject future date", func(t *testing.T) {
		o := newActivated(t)

		err := o.Fill("Dr. X", now.Add(time.Second), now)

		require.ErrorIs(t, err, errs.ErrArgumentIsInvalid)
		assert.Nil(t, o.DateFilled())
	})

	t.Run("should reject unsigned and unactivated orders", func(t *testing.T) {
		drafted := newDrafted(t)
		err := drafted.Fill("Dr. X", now, now)
		require.ErrorIs(t, err, errs.ErrStateIsInvalid)
		assert.Contains(t, err.Error(), "not been signed")

		signed := newDrafted(t)
		require.NoError(t, signed.Sign(doctor, t0))
		err = signed.Fill("Dr. X", now, now)
		require.ErrorIs(t, err, errs.ErrStateIsInvalid)
		assert.Contains(t, err.Error(), "not been activated")
	})

	t.Run("should reject second fill", func(t *testing.T) {
		o := newActivated(t)
		require.NoError(t, o.Fill("Dr. X", now, now))

		err := o.Fill("Dr. Y", now, now)

		require.ErrorIs(t, err, errs.ErrStateIsInvalid)
		assert.Equal(t, "Dr. X", o.Filler())
	})

	t.Run("should reject empty filler", func(t *testing.T) {
		o := newActivated(t)

		err := o.Fill("  ", now, now)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestOrder_Discontinue(t *testing.T) {
	at := t0.Add(48 * time.Hour)

	t.Run("should set every discontinuation field", func(t *testing.T) {
		o := newActivated(t)

		err := o.Discontinue(kernel.ConceptID(1107), nurse, at)

		require.NoError(t, err)
		assert.True(t, o.Discontinued())
		assert.Equal(t, at, *o.DateDiscontinued())
		assert.Equal(t, kernel.ConceptID(1107), o.DiscontinuedReason())
		assert.True(t, o.DiscontinuedBy().IsEqual(nurse))
	})

	t.Run("should know when it is discontinued", func(t *testing.T) {
		o := newActivated(t)
		require.NoError(t, o.Discontinue(kernel.ConceptID(1107), nurse, at))

		assert.False(t, o.IsDiscontinued(at.Add(-time.Second)))
		assert.True(t, o.IsDiscontinued(at))
		assert.True(t, o.IsDiscontinued(at.Add(time.Hour)))
	})

	t.Run("should reject when already discontinued as of the date", func(t *testing.T) {
		o := newActivated(t)
		require.NoError(t, o.Discontinue(kernel.ConceptID(1107), nurse, at))

		err := o.Discontinue(kernel.ConceptID(1107), doctor, at.Add(time.Hour))

		require.ErrorIs(t, err, errs.ErrStateIsInvalid)
		assert.True(t, o.DiscontinuedBy().IsEqual(nurse))
	})

	t.Run("should require a reason", func(t *testing.T) {
		o := newActivated(t)

		err := o.Discontinue(0, nurse, at)

		require.ErrorIs(t, err, errs.ErrArgumentIsInvalid)
		assert.False(t, o.Discontinued())
	})

	t.Run("should reject voided order", func(t *testing.T) {
		o := newActivated(t)
		require.NoError(t, o.Void("duplicate", nil, at))

		require.ErrorIs(t, o.ValidateDiscontinue(at), errs.ErrStateIsInvalid)
	})
}

func TestOrder_Void(t *testing.T) {
	t.Run("should void with reason, actor and date", func(t *testing.T) {
		o := newDrafted(t)

		err := o.Void("entered in error", &nurse, t0)

		require.NoError(t, err)
		assert.True(t, o.IsVoided())
		assert.Equal(t, "entered in error", o.VoidReason())
		assert.True(t, o.VoidedBy().IsEqual(nurse))
		assert.Equal(t, t0, *o.DateVoided())
	})

	t.Run("should allow void without actor", func(t *testing.T) {
		o := newDrafted(t)

		require.NoError(t, o.Void("cleanup", nil, t0))
		assert.Nil(t, o.VoidedBy())
	})

	t.Run("should be a no-op when already voided", func(t *testing.T) {
		o := newDrafted(t)
		require.NoError(t, o.Void("first", &nurse, t0))

		err := o.Void("", &doctor, t0.Add(time.Hour))

		require.NoError(t, err)
		assert.Equal(t, "first", o.VoidReason())
		assert.Equal(t, t0, *o.DateVoided())
	})

	t.Run("should reject blank reason", func(t *testing.T) {
		o := newDrafted(t)

		err := o.Void(" ", &nurse, t0)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.False(t, o.IsVoided())
	})

	t.Run("unvoid should clear every void field", func(t *testing.T) {
		o := newDrafted(t)
		require.NoError(t, o.Void("first", &nurse, t0))

		o.Unvoid()

		assert.False(t, o.IsVoided())
		assert.Empty(t, o.VoidReason())
		assert.Nil(t, o.VoidedBy())
		assert.Nil(t, o.DateVoided())
		require.NoError(t, o.Sign(doctor, t0))
	})
}

func TestOrder_IsActive(t *testing.T) {
	t.Run("should be inactive while drafted", func(t *testing.T) {
		assert.False(t, newDrafted(t).IsActive(t0))
	})

	t.Run("should be active from the activation date", func(t *testing.T) {
		o := newActivated(t)

		assert.True(t, o.IsActive(t0))
		assert.False(t, o.IsActive(t0.Add(-time.Minute)))
	})

	t.Run("should stay active until a discontinuation takes effect", func(t *testing.T) {
		o := newActivated(t)
		require.NoError(t, o.Discontinue(kernel.ConceptID(1), doctor, t0.Add(time.Hour)))

		assert.True(t, o.IsActive(t0.Add(30*time.Minute)))
		assert.False(t, o.IsActive(t0.Add(time.Hour)))
	})

	t.Run("should be inactive when voided", func(t *testing.T) {
		o := newActivated(t)
		require.NoError(t, o.Void("entered in error", &doctor, t0))

		assert.False(t, o.IsActive(t0))
	})

	t.Run("should never count a DISCONTINUE companion", func(t *testing.T) {
		companion, err := order.NewDiscontinuationOrder(newActivated(t))
		require.NoError(t, err)
		require.NoError(t, companion.Sign(doctor, t0))
		require.NoError(t, companion.Activate(doctor, t0))

		assert.False(t, companion.IsActive(t0))
	})
}

func TestOrder_AssignOrderNumber(t *testing.T) {
	t.Run("should assign once", func(t *testing.T) {
		o := newDrafted(t)

		require.NoError(t, o.AssignOrderNumber("ORDER-1"))
		err := o.AssignOrderNumber("ORDER-2")

		require.ErrorIs(t, err, errs.ErrStateIsInvalid)
		assert.Equal(t, "ORDER-1", o.OrderNumber())
	})

	t.Run("should reject empty number", func(t *testing.T) {
		o := newDrafted(t)

		require.ErrorIs(t, o.AssignOrderNumber(""), errs.ErrValueIsRequired)
	})
}

func TestOrder_SnapshotRestore(t *testing.T) {
	t.Run("should rebuild an equal order", func(t *testing.T) {
		o := newActivated(t)
		o.AssignID(41)
		require.NoError(t, o.AssignOrderNumber("ORDER-41"))
		require.NoError(t, o.Fill("pharmacy", t0, t0))

		restored, err := order.Restore(o.Snapshot())

		require.NoError(t, err)
		assert.Equal(t, o.Snapshot(), restored.Snapshot())
		assert.Equal(t, order.Filled, restored.Stage())
		assert.Equal(t, int64(41), restored.ID())
	})

	t.Run("should not alias the source", func(t *testing.T) {
		o := newActivated(t)

		c := o.Clone()
		require.NoError(t, c.Fill("pharmacy", t0, t0))

		assert.False(t, o.IsFilled())
	})

	t.Run("should reject activated but unsigned state", func(t *testing.T) {
		s := newActivated(t).Snapshot()
		s.SignedBy = nil
		s.DateSigned = nil

		_, err := order.Restore(s)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "activated but not signed")
	})

	t.Run("should reject half-set signature", func(t *testing.T) {
		s := newDrafted(t).Snapshot()
		s.SignedBy = &doctor

		_, err := order.Restore(s)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestOrder_ValidateSchema(t *testing.T) {
	t.Run("should pass once numbered", func(t *testing.T) {
		o := newDrafted(t)
		require.NoError(t, o.AssignOrderNumber("ORDER-1"))

		require.NoError(t, o.ValidateSchema())
	})

	t.Run("should require order number", func(t *testing.T) {
		o := newDrafted(t)

		err := o.ValidateSchema()

		var schemaErr *errs.SchemaIsInvalidError
		require.ErrorAs(t, err, &schemaErr)
		assert.True(t, schemaErr.HasViolation("orderNumber"))
	})

	t.Run("should require discontinues for DISCONTINUE orders", func(t *testing.T) {
		s := newDrafted(t).Snapshot()
		s.Action = order.ActionDiscontinue
		s.OrderNumber = "ORDER-2"
		o, err := order.Restore(s)
		require.NoError(t, err)

		err = o.ValidateSchema()

		var schemaErr *errs.SchemaIsInvalidError
		require.ErrorAs(t, err, &schemaErr)
		assert.True(t, schemaErr.HasViolation("discontinues"))
	})

	t.Run("should require void reason when voided", func(t *testing.T) {
		s := newDrafted(t).Snapshot()
		s.OrderNumber = "ORDER-3"
		s.Voided = true
		o, err := order.Restore(s)
		require.NoError(t, err)

		err = o.ValidateSchema()

		require.ErrorIs(t, err, errs.ErrSchemaIsInvalid)
		var schemaErr *errs.SchemaIsInvalidError
		require.ErrorAs(t, err, &schemaErr)
		assert.True(t, schemaErr.HasViolation("voidReason"))
	})

	t.Run("should require dosage for drug orders", func(t *testing.T) {
		s := newDrafted(t).Snapshot()
		s.OrderNumber = "ORDER-4"
		s.Kind = order.KindDrug
		o, err := order.Restore(s)
		require.NoError(t, err)

		err = o.ValidateSchema()

		var schemaErr *errs.SchemaIsInvalidError
		require.ErrorAs(t, err, &schemaErr)
		assert.True(t, schemaErr.HasViolation("dosage"))
	})
}
