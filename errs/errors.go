// Package errs defines the sentinel errors shared by all varbin packages.
//
// Call sites wrap these with fmt.Errorf("%w: detail", ...) so callers can
// classify failures with errors.Is while still receiving specific context.
package errs

import "errors"

// Buffer parsing and validation errors.
var (
	// ErrUnsupportedVersion indicates the metadata header declares a format
	// version this library does not implement.
	ErrUnsupportedVersion = errors.New("unsupported format version")

	// ErrOffsetOutOfBounds indicates an offset table entry, length field or
	// declared span points outside the enclosing byte region.
	ErrOffsetOutOfBounds = errors.New("offset out of bounds")

	// ErrInvalidUTF8 indicates dictionary or string bytes are not valid UTF-8.
	ErrInvalidUTF8 = errors.New("invalid UTF-8")

	// ErrTruncatedValue indicates a buffer ends before the bytes its header
	// declares.
	ErrTruncatedValue = errors.New("truncated value")

	// ErrInvalidHeader indicates a header byte does not form a recognized
	// (basic type, type info) combination.
	ErrInvalidHeader = errors.New("invalid header")

	// ErrUnsortedDictionary indicates a sorted lookup was requested on
	// metadata whose sorted flag is clear, or sorted metadata whose entries
	// are not strictly increasing.
	ErrUnsortedDictionary = errors.New("unsorted dictionary")

	// ErrRecursionLimitExceeded indicates a value tree nests deeper than the
	// configured depth bound.
	ErrRecursionLimitExceeded = errors.New("recursion limit exceeded")

	// ErrNonCanonical indicates a value uses a legal-looking but forbidden
	// encoding, e.g. the long string form for a string of 63 bytes or fewer.
	ErrNonCanonical = errors.New("non-canonical encoding")
)

// Builder errors.
var (
	// ErrBuilderFinished indicates an append on a builder whose Finish has
	// already been called.
	ErrBuilderFinished = errors.New("builder already finished")

	// ErrDuplicateField indicates a field name was appended twice within one
	// object scope.
	ErrDuplicateField = errors.New("duplicate field")

	// ErrScopeMismatch indicates End or Discard was called on a composite
	// that is not the innermost open scope.
	ErrScopeMismatch = errors.New("scope mismatch")

	// ErrMissingFieldValue indicates Field was declared but no value was
	// appended before the next Field, End or Finish.
	ErrMissingFieldValue = errors.New("missing field value")

	// ErrFieldOutsideObject indicates a value was appended directly into an
	// object scope without declaring a field name first.
	ErrFieldOutsideObject = errors.New("value appended without field name")

	// ErrMultipleRootValues indicates more than one top-level value was
	// appended to a builder.
	ErrMultipleRootValues = errors.New("multiple root values")

	// ErrNoRootValue indicates Finish was called before any value was
	// appended.
	ErrNoRootValue = errors.New("no root value")

	// ErrOpenScope indicates Finish was called while a composite scope was
	// still open.
	ErrOpenScope = errors.New("unclosed composite scope")

	// ErrPrecisionRange indicates a decimal precision or scale outside the
	// supported range, or an unscaled value that does not fit the declared
	// precision.
	ErrPrecisionRange = errors.New("decimal precision out of range")

	// ErrValueTooLarge indicates a string, binary or composite payload
	// exceeds the 32-bit length the wire format can represent.
	ErrValueTooLarge = errors.New("value too large")

	// ErrDepthLimitExceeded indicates builder nesting beyond the configured
	// bound.
	ErrDepthLimitExceeded = errors.New("nesting depth limit exceeded")
)

// Decoder errors.
var (
	// ErrTypeMismatch indicates a typed accessor was called on a value of a
	// different kind.
	ErrTypeMismatch = errors.New("type mismatch")
)

// JSON bridge errors.
var (
	// ErrJSONParse indicates the input text is not valid JSON.
	ErrJSONParse = errors.New("JSON parse error")

	// ErrJSONNumberRange indicates an integral JSON number outside int64
	// range while the bridge is configured to reject them.
	ErrJSONNumberRange = errors.New("JSON number out of range")

	// ErrJSONRender indicates a value that JSON text cannot express, such as
	// a NaN or infinite double.
	ErrJSONRender = errors.New("value not representable in JSON")
)
