package variant

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/varbin/varbin/errs"
)

// emptyMeta is a sorted metadata buffer with no dictionary entries.
var emptyMeta = []byte{0x11, 0, 0}

func requireValidationError(t *testing.T, err error, region Region, offset int, sentinel error) {
	t.Helper()

	require.ErrorIs(t, err, sentinel)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, region, verr.Region)
	require.Equal(t, offset, verr.Offset)
}

// ==============================================================================
// Accept Tests
// ==============================================================================

func TestValidate_AcceptsBuilderOutput(t *testing.T) {
	meta, value := build(t, func(b *Builder) {
		ob, err := b.StartObject()
		require.NoError(t, err)
		require.NoError(t, ob.Field("name"))
		require.NoError(t, b.AppendString("gopher"))
		require.NoError(t, ob.Field("scores"))

		ab, err := b.StartArray()
		require.NoError(t, err)
		require.NoError(t, b.AppendInt(300))
		require.NoError(t, b.AppendFloat64(2.5))
		require.NoError(t, b.AppendNull())
		require.NoError(t, b.AppendDecimal(DecimalFromInt64(1999, 6, 2)))
		require.NoError(t, ab.End())

		require.NoError(t, ob.Field("active"))
		require.NoError(t, b.AppendBool(true))
		require.NoError(t, ob.End())
	})

	require.NoError(t, Validate(meta, value))
}

func TestValidate_AcceptsRemappedOutput(t *testing.T) {
	meta, value := build(t, func(b *Builder) {
		ob, err := b.StartObject()
		require.NoError(t, err)
		require.NoError(t, ob.Field("zz"))
		require.NoError(t, b.AppendInt(1))
		require.NoError(t, ob.Field("aa"))
		require.NoError(t, b.AppendInt(2))
		require.NoError(t, ob.End())
	})

	require.NoError(t, Validate(meta, value))
}

func TestValidate_AcceptsEmptyComposites(t *testing.T) {
	require.NoError(t, Validate(emptyMeta, []byte{0x02, 0, 0}))
	require.NoError(t, Validate(emptyMeta, []byte{0x03, 0, 0}))
}

// An empty composite's single offset is both first and final: a nonzero
// value would claim a data region no child references.
func TestValidate_EmptyCompositeWithUnreferencedData(t *testing.T) {
	err := Validate(emptyMeta, []byte{0x03, 0, 1, 0xAA})
	requireValidationError(t, err, RegionValue, 2, errs.ErrOffsetOutOfBounds)

	err = Validate(emptyMeta, []byte{0x02, 0, 1, 0xAA})
	requireValidationError(t, err, RegionValue, 2, errs.ErrOffsetOutOfBounds)
}

// ==============================================================================
// Metadata Rejection Tests
// ==============================================================================

func TestValidate_MetadataBadVersion(t *testing.T) {
	err := Validate([]byte{0x12, 0, 0}, []byte{0x00})
	requireValidationError(t, err, RegionMetadata, 0, errs.ErrUnsupportedVersion)
}

func TestValidate_MetadataTruncated(t *testing.T) {
	err := Validate(nil, []byte{0x00})
	requireValidationError(t, err, RegionMetadata, 0, errs.ErrTruncatedValue)

	err = Validate([]byte{0x11}, []byte{0x00})
	requireValidationError(t, err, RegionMetadata, 1, errs.ErrTruncatedValue)

	err = Validate([]byte{0x11, 2, 0}, []byte{0x00})
	requireValidationError(t, err, RegionMetadata, 2, errs.ErrTruncatedValue)
}

func TestValidate_MetadataSortedFlagViolation(t *testing.T) {
	// Sorted flag set but entries stored as "b", "a".
	meta := []byte{0x11, 2, 0, 1, 2, 'b', 'a'}
	err := Validate(meta, []byte{0x00})
	require.ErrorIs(t, err, errs.ErrUnsortedDictionary)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, RegionMetadata, verr.Region)

	// The same bytes with the flag clear are fine.
	meta[0] = 0x01
	require.NoError(t, Validate(meta, []byte{0x00}))
}

func TestValidate_MetadataDuplicateEntry(t *testing.T) {
	meta := []byte{0x11, 2, 0, 1, 2, 'a', 'a'}
	err := Validate(meta, []byte{0x00})
	require.ErrorIs(t, err, errs.ErrUnsortedDictionary)
}

func TestValidate_MetadataInvalidUTF8(t *testing.T) {
	err := Validate([]byte{0x11, 1, 0, 1, 0xFF}, []byte{0x00})
	require.ErrorIs(t, err, errs.ErrInvalidUTF8)
}

// ==============================================================================
// Value Rejection Tests
// ==============================================================================

func TestValidate_ValueEmpty(t *testing.T) {
	err := Validate(emptyMeta, nil)
	requireValidationError(t, err, RegionValue, 0, errs.ErrTruncatedValue)
}

func TestValidate_ValueUnknownPrimitive(t *testing.T) {
	err := Validate(emptyMeta, []byte{17 << 2})
	requireValidationError(t, err, RegionValue, 0, errs.ErrInvalidHeader)
}

func TestValidate_ValueTruncated(t *testing.T) {
	// int32 header with only two payload bytes
	err := Validate(emptyMeta, []byte{0x14, 1, 2})
	requireValidationError(t, err, RegionValue, 0, errs.ErrTruncatedValue)
}

func TestValidate_ValueTrailingBytes(t *testing.T) {
	// null followed by a stray byte
	err := Validate(emptyMeta, []byte{0x00, 0xAA})
	requireValidationError(t, err, RegionValue, 1, errs.ErrOffsetOutOfBounds)
}

func TestValidate_ValueInvalidUTF8String(t *testing.T) {
	err := Validate(emptyMeta, []byte{0x09, 0xFF, 0xFE})
	requireValidationError(t, err, RegionValue, 1, errs.ErrInvalidUTF8)
}

func TestValidate_NonCanonicalLongString(t *testing.T) {
	// A 1-byte string in the length-prefixed form must be rejected.
	err := Validate(emptyMeta, []byte{0x40, 1, 0, 0, 0, 'a'})
	requireValidationError(t, err, RegionValue, 0, errs.ErrNonCanonical)
}

func TestValidate_NonCanonicalDecimalWidth(t *testing.T) {
	// Precision 5 belongs in the 4-byte form, not the 8-byte one.
	value := []byte{0x24, 5, 0, 1, 0, 0, 0, 0, 0, 0, 0}
	err := Validate(emptyMeta, value)
	requireValidationError(t, err, RegionValue, 1, errs.ErrNonCanonical)
}

func TestValidate_DecimalOverflowsPrecision(t *testing.T) {
	// Unscaled 100000 claims precision 5.
	value := []byte{0x20, 5, 0}
	value = append(value, 0xA0, 0x86, 0x01, 0x00)
	err := Validate(emptyMeta, value)
	requireValidationError(t, err, RegionValue, 3, errs.ErrPrecisionRange)
}

func TestValidate_DecimalScaleExceedsPrecision(t *testing.T) {
	value := []byte{0x20, 5, 6, 1, 0, 0, 0}
	err := Validate(emptyMeta, value)
	requireValidationError(t, err, RegionValue, 2, errs.ErrPrecisionRange)
}

// ==============================================================================
// Composite Rejection Tests
// ==============================================================================

func TestValidate_TamperedArrayOffset(t *testing.T) {
	meta, value := build(t, func(b *Builder) {
		ab, err := b.StartArray()
		require.NoError(t, err)
		require.NoError(t, b.AppendInt(1))
		require.NoError(t, b.AppendFloat64(2.5))
		require.NoError(t, b.AppendNull())
		require.NoError(t, ab.End())
	})
	require.NoError(t, Validate(meta, value))

	// Bump the third child offset past the data region.
	tampered := append([]byte(nil), value...)
	tampered[4] = 13
	err := Validate(meta, tampered)
	requireValidationError(t, err, RegionValue, 4, errs.ErrOffsetOutOfBounds)
}

func TestValidate_ArrayFirstOffsetNonzero(t *testing.T) {
	meta, value := build(t, func(b *Builder) {
		ab, err := b.StartArray()
		require.NoError(t, err)
		require.NoError(t, b.AppendNull())
		require.NoError(t, b.AppendNull())
		require.NoError(t, ab.End())
	})
	require.NoError(t, Validate(meta, value))

	tampered := append([]byte(nil), value...)
	require.Equal(t, byte(0), tampered[2])
	tampered[2] = 1
	err := Validate(meta, tampered)
	requireValidationError(t, err, RegionValue, 2, errs.ErrOffsetOutOfBounds)
}

func TestValidate_ChildSpanNotFilled(t *testing.T) {
	meta, value := build(t, func(b *Builder) {
		ab, err := b.StartArray()
		require.NoError(t, err)
		require.NoError(t, b.AppendNull())
		require.NoError(t, b.AppendNull())
		require.NoError(t, ab.End())
	})

	// Widen the first child's span so a stray byte trails its null.
	tampered := append([]byte(nil), value...)
	require.Equal(t, byte(1), tampered[3])
	tampered[3] = 2
	tampered[4] = 3
	tampered = append(tampered, 0x00)

	err := Validate(meta, tampered)
	requireValidationError(t, err, RegionValue, 6, errs.ErrOffsetOutOfBounds)
}

func TestValidate_ObjectFieldIDOutOfRange(t *testing.T) {
	meta, value := build(t, func(b *Builder) {
		ob, err := b.StartObject()
		require.NoError(t, err)
		require.NoError(t, ob.Field("a"))
		require.NoError(t, b.AppendInt(1))
		require.NoError(t, ob.Field("b"))
		require.NoError(t, b.AppendString("x"))
		require.NoError(t, ob.End())
	})

	tampered := append([]byte(nil), value...)
	require.Equal(t, byte(1), tampered[3])
	tampered[3] = 5
	err := Validate(meta, tampered)
	requireValidationError(t, err, RegionValue, 3, errs.ErrOffsetOutOfBounds)
}

func TestValidate_ObjectFieldOrderViolation(t *testing.T) {
	meta, value := build(t, func(b *Builder) {
		ob, err := b.StartObject()
		require.NoError(t, err)
		require.NoError(t, ob.Field("a"))
		require.NoError(t, b.AppendInt(1))
		require.NoError(t, ob.Field("b"))
		require.NoError(t, b.AppendInt(2))
		require.NoError(t, ob.End())
	})

	// Duplicate field id: names no longer strictly increase.
	tampered := append([]byte(nil), value...)
	tampered[3] = tampered[2]
	err := Validate(meta, tampered)
	requireValidationError(t, err, RegionValue, 3, errs.ErrUnsortedDictionary)
}

// ==============================================================================
// Depth Tests
// ==============================================================================

func TestValidate_DepthBound(t *testing.T) {
	meta, value := build(t, func(b *Builder) {
		handles := make([]*ArrayBuilder, 0, 3)
		for i := 0; i < 3; i++ {
			ab, err := b.StartArray()
			require.NoError(t, err)
			handles = append(handles, ab)
		}
		require.NoError(t, b.AppendInt(1))
		for i := len(handles) - 1; i >= 0; i-- {
			require.NoError(t, handles[i].End())
		}
	})

	require.NoError(t, Validate(meta, value))
	require.NoError(t, Validate(meta, value, WithValidateMaxDepth(4)))

	err := Validate(meta, value, WithValidateMaxDepth(2))
	require.ErrorIs(t, err, errs.ErrRecursionLimitExceeded)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, RegionValue, verr.Region)
}

func TestValidate_InvalidDepthOption(t *testing.T) {
	err := Validate(emptyMeta, []byte{0x00}, WithValidateMaxDepth(0))
	require.ErrorIs(t, err, errs.ErrDepthLimitExceeded)

	var verr *ValidationError
	require.False(t, errors.As(err, &verr), "option errors are not validation errors")
}

// ==============================================================================
// Error Formatting Tests
// ==============================================================================

func TestValidationError_Message(t *testing.T) {
	err := Validate(emptyMeta, []byte{0x00, 0xAA})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Error(), "value buffer")
	require.Contains(t, verr.Error(), "offset 1")
}
