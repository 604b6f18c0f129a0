package variant

import (
	"fmt"
	"math"

	"github.com/apache/arrow-go/v18/arrow/decimal128"

	"github.com/varbin/varbin/dict"
	"github.com/varbin/varbin/errs"
	"github.com/varbin/varbin/format"
	"github.com/varbin/varbin/section"
)

// Value is a zero-copy view over one encoded value and the metadata
// dictionary of its document. Child accessors return new lightweight views
// over byte sub-slices; nothing is decoded until asked for.
//
// A Value borrows its buffers: they must stay alive and unmodified for as
// long as the Value or anything derived from it is in use.
type Value struct {
	dict *dict.Reader
	data []byte
}

// New wraps a (metadata, value) buffer pair. The metadata dictionary is
// parsed eagerly (version, offsets and UTF-8 are verified); the value bytes
// are not traversed.
func New(metadata, value []byte) (Value, error) {
	r, err := dict.NewReader(metadata)
	if err != nil {
		return Value{}, err
	}

	return newValue(r, value)
}

func newValue(r *dict.Reader, data []byte) (Value, error) {
	if len(data) < 1 {
		return Value{}, fmt.Errorf("%w: empty value buffer", errs.ErrTruncatedValue)
	}

	return Value{dict: r, data: data}, nil
}

// Dictionary returns the metadata dictionary reader shared by this
// document's values.
func (v Value) Dictionary() *dict.Reader {
	return v.dict
}

// Bytes returns the value's raw encoded bytes. The caller must not modify
// them.
func (v Value) Bytes() []byte {
	return v.data
}

// Kind reports the value's logical kind from the header byte alone.
func (v Value) Kind() format.ValueKind {
	return section.KindOfHeader(v.data[0])
}

func (v Value) mismatch(want format.ValueKind) error {
	return fmt.Errorf("%w: value is %s, not %s", errs.ErrTypeMismatch, v.Kind(), want)
}

// payload returns n payload bytes following the header byte.
func (v Value) payload(n int) ([]byte, error) {
	if len(v.data) < 1+n {
		return nil, fmt.Errorf("%w: need %d payload bytes, have %d", errs.ErrTruncatedValue, n, len(v.data)-1)
	}

	return v.data[1 : 1+n], nil
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool {
	return v.Kind() == format.KindNull
}

// Bool returns a boolean value.
func (v Value) Bool() (bool, error) {
	if v.Kind() != format.KindBool {
		return false, v.mismatch(format.KindBool)
	}

	return format.PrimitiveType(section.TypeInfo(v.data[0])) == format.PrimitiveTrue, nil
}

// Int64 returns an integer value of any width, widened to int64.
func (v Value) Int64() (int64, error) {
	kind := v.Kind()
	if !kind.IsInt() {
		return 0, fmt.Errorf("%w: value is %s, not an integer", errs.ErrTypeMismatch, kind)
	}

	switch kind {
	case format.KindInt8:
		p, err := v.payload(1)
		if err != nil {
			return 0, err
		}

		return int64(int8(p[0])), nil
	case format.KindInt16:
		p, err := v.payload(2)
		if err != nil {
			return 0, err
		}

		return int64(int16(engine.Uint16(p))), nil
	case format.KindInt32:
		p, err := v.payload(4)
		if err != nil {
			return 0, err
		}

		return int64(int32(engine.Uint32(p))), nil
	default:
		p, err := v.payload(8)
		if err != nil {
			return 0, err
		}

		return int64(engine.Uint64(p)), nil
	}
}

// Float32 returns a 32-bit floating point value.
func (v Value) Float32() (float32, error) {
	if v.Kind() != format.KindFloat {
		return 0, v.mismatch(format.KindFloat)
	}
	p, err := v.payload(4)
	if err != nil {
		return 0, err
	}

	return math.Float32frombits(engine.Uint32(p)), nil
}

// Float64 returns a 64-bit floating point value.
func (v Value) Float64() (float64, error) {
	if v.Kind() != format.KindDouble {
		return 0, v.mismatch(format.KindDouble)
	}
	p, err := v.payload(8)
	if err != nil {
		return 0, err
	}

	return math.Float64frombits(engine.Uint64(p)), nil
}

// Decimal returns a fixed-point decimal value of any width.
func (v Value) Decimal() (Decimal, error) {
	kind := v.Kind()
	if !kind.IsDecimal() {
		return Decimal{}, fmt.Errorf("%w: value is %s, not a decimal", errs.ErrTypeMismatch, kind)
	}

	width := 4
	switch kind {
	case format.KindDecimal8:
		width = 8
	case format.KindDecimal16:
		width = 16
	}

	p, err := v.payload(2 + width)
	if err != nil {
		return Decimal{}, err
	}

	d := Decimal{Precision: p[0], Scale: p[1]}
	unscaled := p[2:]
	switch width {
	case 4:
		d.Unscaled = decimal128.FromI64(int64(int32(engine.Uint32(unscaled))))
	case 8:
		d.Unscaled = decimal128.FromI64(int64(engine.Uint64(unscaled)))
	default:
		d.Unscaled = decimal128.New(int64(engine.Uint64(unscaled[8:])), engine.Uint64(unscaled[:8]))
	}

	return d, nil
}

// Date returns a date value as days since the Unix epoch.
func (v Value) Date() (int32, error) {
	if v.Kind() != format.KindDate {
		return 0, v.mismatch(format.KindDate)
	}
	p, err := v.payload(4)
	if err != nil {
		return 0, err
	}

	return int32(engine.Uint32(p)), nil
}

// Timestamp returns a timestamp value.
func (v Value) Timestamp() (Timestamp, error) {
	if v.Kind() != format.KindTimestamp {
		return Timestamp{}, v.mismatch(format.KindTimestamp)
	}
	p, err := v.payload(8)
	if err != nil {
		return Timestamp{}, err
	}

	return Timestamp{
		Micros: int64(engine.Uint64(p)),
		UTC:    format.PrimitiveType(section.TypeInfo(v.data[0])) == format.PrimitiveTimestamp,
	}, nil
}

// Binary returns a binary value as a sub-slice of the underlying buffer.
// The caller must not modify the result.
func (v Value) Binary() ([]byte, error) {
	if v.Kind() != format.KindBinary {
		return nil, v.mismatch(format.KindBinary)
	}
	p, err := v.payload(4)
	if err != nil {
		return nil, err
	}
	n := int(engine.Uint32(p))
	if len(v.data) < 5+n {
		return nil, fmt.Errorf("%w: binary length %d exceeds buffer", errs.ErrOffsetOutOfBounds, n)
	}

	return v.data[5 : 5+n], nil
}

// Str returns a string value, short or long form.
func (v Value) Str() (string, error) {
	if v.Kind() != format.KindString {
		return "", v.mismatch(format.KindString)
	}

	if section.BasicTypeOf(v.data[0]) == format.BasicShortString {
		n := int(section.TypeInfo(v.data[0]))
		if len(v.data) < 1+n {
			return "", fmt.Errorf("%w: short string length %d exceeds buffer", errs.ErrOffsetOutOfBounds, n)
		}

		return string(v.data[1 : 1+n]), nil
	}

	p, err := v.payload(4)
	if err != nil {
		return "", err
	}
	n := int(engine.Uint32(p))
	if len(v.data) < 5+n {
		return "", fmt.Errorf("%w: string length %d exceeds buffer", errs.ErrOffsetOutOfBounds, n)
	}

	return string(v.data[5 : 5+n]), nil
}

// Object returns the object view of this value.
func (v Value) Object() (Object, error) {
	if v.Kind() != format.KindObject {
		return Object{}, v.mismatch(format.KindObject)
	}

	layout, err := parseComposite(v.data)
	if err != nil {
		return Object{}, err
	}

	return Object{dict: v.dict, data: v.data, layout: layout}, nil
}

// Array returns the array view of this value.
func (v Value) Array() (Array, error) {
	if v.Kind() != format.KindArray {
		return Array{}, v.mismatch(format.KindArray)
	}

	layout, err := parseComposite(v.data)
	if err != nil {
		return Array{}, err
	}

	return Array{dict: v.dict, data: v.data, layout: layout}, nil
}
