package kernel_test

import (
	"testing"

	"orderentry/internal/core/domain/model/kernel"
	"orderentry/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const patientUUID = "6f1f0a47-3f0e-4a43-9d1c-2b1c0e5c7d11"

func TestNewUUID(t *testing.T) {
	a, b := kernel.NewUUID(), kernel.NewUUID()

	require.NoError(t, a.Validate())
	assert.False(t, a.IsZero())
	assert.False(t, a.IsEqual(b))
	assert.Equal(t, uuid.Version(4), a.Bytes().Version())
}

func TestUUIDFromString(t *testing.T) {
	accepted := map[string]string{
		"canonical":   patientUUID,
		"braced":      "{" + patientUUID + "}",
		"urn":         "urn:uuid:" + patientUUID,
		"hyphen-less": "6f1f0a473f0e4a439d1c2b1c0e5c7d11",
		"upper case":  "6F1F0A47-3F0E-4A43-9D1C-2B1C0E5C7D11",
	}
	for name, input := range accepted {
		t.Run("should accept the "+name+" form", func(t *testing.T) {
			id, err := kernel.UUIDFromString(input)

			require.NoError(t, err)
			assert.Equal(t, patientUUID, id.String())
		})
	}

	for _, input := range []string{"", "patient-42", patientUUID[:23], patientUUID + "-1", "zz" + patientUUID[2:]} {
		t.Run("should reject "+input, func(t *testing.T) {
			_, err := kernel.UUIDFromString(input)

			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid UUID format")
		})
	}

	t.Run("should parse the nil uuid but fail validation", func(t *testing.T) {
		id, err := kernel.UUIDFromString(uuid.Nil.String())

		require.NoError(t, err)
		assert.True(t, id.IsZero())
		require.ErrorIs(t, id.Validate(), errs.ErrArgumentIsInvalid)
	})
}

func TestUUIDFromBytes(t *testing.T) {
	parsed := uuid.MustParse(patientUUID)

	t.Run("should round trip sixteen bytes", func(t *testing.T) {
		id, err := kernel.UUIDFromBytes(parsed[:])

		require.NoError(t, err)
		assert.Equal(t, patientUUID, id.String())
	})

	t.Run("should reject a short slice", func(t *testing.T) {
		_, err := kernel.UUIDFromBytes(parsed[:4])

		assert.ErrorContains(t, err, "invalid UUID format")
	})

	t.Run("should reject the nil uuid", func(t *testing.T) {
		_, err := kernel.UUIDFromBytes(make([]byte, 16))

		assert.Equal(t, kernel.ErrUUIDIsNotConstructed, err)
	})
}

func TestMustParseUUID(t *testing.T) {
	assert.Equal(t, patientUUID, kernel.MustParseUUID(patientUUID).String())
	assert.Panics(t, func() { kernel.MustParseUUID("not-a-uuid") })
}

func TestUUID_ZeroValue(t *testing.T) {
	var id kernel.UUID

	assert.True(t, id.IsZero())
	assert.Equal(t, kernel.ErrUUIDIsNotConstructed, id.Validate())
	assert.True(t, id.IsEqual(kernel.UUID{}))
	assert.False(t, id.IsEqual(kernel.MustParseUUID(patientUUID)))
}
