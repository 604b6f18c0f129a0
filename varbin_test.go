package varbin

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/varbin/varbin/errs"
	"github.com/varbin/varbin/format"
)

// ==============================================================================
// Decode / Validate Wrapper Tests
// ==============================================================================

func TestDecode(t *testing.T) {
	meta, value, err := FromJSON(`{"greeting": "hello"}`)
	require.NoError(t, err)

	v, err := Decode(meta, value)
	require.NoError(t, err)
	require.Equal(t, format.KindObject, v.Kind())

	obj, err := v.Object()
	require.NoError(t, err)

	field, ok, err := obj.Get("greeting")
	require.NoError(t, err)
	require.True(t, ok)

	s, err := field.Str()
	require.NoError(t, err)
	require.Equal(t, "hello", s)
}

func TestValidate_WrapperRejectsGarbage(t *testing.T) {
	meta, value, err := FromJSON(`[1, 2, 3]`)
	require.NoError(t, err)
	require.NoError(t, Validate(meta, value))

	require.Error(t, Validate([]byte{0xFF}, value))
	require.ErrorIs(t, Validate(meta, value[:len(value)-1]), errs.ErrTruncatedValue)
}

// ==============================================================================
// Fingerprint Tests
// ==============================================================================

func TestFingerprint_Deterministic(t *testing.T) {
	meta, value, err := FromJSON(`{"a": 1}`)
	require.NoError(t, err)

	require.Equal(t, Fingerprint(meta, value), Fingerprint(meta, value))
}

func TestFingerprint_DistinguishesDocuments(t *testing.T) {
	metaA, valueA, err := FromJSON(`{"a": 1}`)
	require.NoError(t, err)
	metaB, valueB, err := FromJSON(`{"a": 2}`)
	require.NoError(t, err)

	require.NotEqual(t, Fingerprint(metaA, valueA), Fingerprint(metaB, valueB))
}

// Moving a byte across the buffer boundary must change the fingerprint even
// though the concatenated bytes are identical.
func TestFingerprint_BoundaryAware(t *testing.T) {
	require.NotEqual(t,
		Fingerprint([]byte{1, 2}, []byte{3}),
		Fingerprint([]byte{1}, []byte{2, 3}))
}
