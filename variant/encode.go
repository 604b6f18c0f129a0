package variant

import (
	"fmt"
	"math"

	"github.com/varbin/varbin/endian"
	"github.com/varbin/varbin/errs"
	"github.com/varbin/varbin/format"
	"github.com/varbin/varbin/internal/pool"
	"github.com/varbin/varbin/section"
)

// engine is the wire byte order. The format is little-endian throughout.
var engine = endian.GetLittleEndianEngine()

func emitNull(bb *pool.ByteBuffer) {
	_ = bb.WriteByte(section.PrimitiveHeader(format.PrimitiveNull))
}

func emitBool(bb *pool.ByteBuffer, v bool) {
	p := format.PrimitiveFalse
	if v {
		p = format.PrimitiveTrue
	}
	_ = bb.WriteByte(section.PrimitiveHeader(p))
}

// emitInt writes v with the narrowest integer primitive that represents it.
func emitInt(bb *pool.ByteBuffer, v int64) {
	switch {
	case v >= math.MinInt8 && v <= math.MaxInt8:
		_ = bb.WriteByte(section.PrimitiveHeader(format.PrimitiveInt8))
		_ = bb.WriteByte(byte(v))
	case v >= math.MinInt16 && v <= math.MaxInt16:
		_ = bb.WriteByte(section.PrimitiveHeader(format.PrimitiveInt16))
		bb.B = engine.AppendUint16(bb.B, uint16(v))
	case v >= math.MinInt32 && v <= math.MaxInt32:
		_ = bb.WriteByte(section.PrimitiveHeader(format.PrimitiveInt32))
		bb.B = engine.AppendUint32(bb.B, uint32(v))
	default:
		_ = bb.WriteByte(section.PrimitiveHeader(format.PrimitiveInt64))
		bb.B = engine.AppendUint64(bb.B, uint64(v))
	}
}

func emitFloat32(bb *pool.ByteBuffer, v float32) {
	_ = bb.WriteByte(section.PrimitiveHeader(format.PrimitiveFloat))
	bb.B = engine.AppendUint32(bb.B, math.Float32bits(v))
}

func emitFloat64(bb *pool.ByteBuffer, v float64) {
	_ = bb.WriteByte(section.PrimitiveHeader(format.PrimitiveDouble))
	bb.B = engine.AppendUint64(bb.B, math.Float64bits(v))
}

func emitDate(bb *pool.ByteBuffer, days int32) {
	_ = bb.WriteByte(section.PrimitiveHeader(format.PrimitiveDate))
	bb.B = engine.AppendUint32(bb.B, uint32(days))
}

func emitTimestamp(bb *pool.ByteBuffer, micros int64, utc bool) {
	p := format.PrimitiveTimestampNTZ
	if utc {
		p = format.PrimitiveTimestamp
	}
	_ = bb.WriteByte(section.PrimitiveHeader(p))
	bb.B = engine.AppendUint64(bb.B, uint64(micros))
}

func emitDecimal(bb *pool.ByteBuffer, d Decimal) error {
	if err := d.Validate(); err != nil {
		return err
	}

	_ = bb.WriteByte(section.PrimitiveHeader(d.primitiveType()))
	_ = bb.WriteByte(d.Precision)
	_ = bb.WriteByte(d.Scale)

	switch d.unscaledWidth() {
	case 4:
		bb.B = engine.AppendUint32(bb.B, uint32(int32(d.Unscaled.LowBits())))
	case 8:
		bb.B = engine.AppendUint64(bb.B, d.Unscaled.LowBits())
	default:
		bb.B = engine.AppendUint64(bb.B, d.Unscaled.LowBits())
		bb.B = engine.AppendUint64(bb.B, uint64(d.Unscaled.HighBits()))
	}

	return nil
}

func emitBinary(bb *pool.ByteBuffer, data []byte) error {
	if uint64(len(data)) > section.MaxPayloadLength {
		return fmt.Errorf("%w: binary payload of %d bytes", errs.ErrValueTooLarge, len(data))
	}

	bb.Grow(1 + 4 + len(data))
	_ = bb.WriteByte(section.PrimitiveHeader(format.PrimitiveBinary))
	bb.B = engine.AppendUint32(bb.B, uint32(len(data)))
	bb.MustWrite(data)

	return nil
}

// emitString writes the canonical string form: the header-embedded length
// for strings up to format.MaxShortString bytes, the length-prefixed
// primitive beyond that.
func emitString(bb *pool.ByteBuffer, s string) error {
	if len(s) <= format.MaxShortString {
		bb.Grow(1 + len(s))
		_ = bb.WriteByte(section.ShortStringHeader(len(s)))
		bb.MustWrite([]byte(s))

		return nil
	}

	if uint64(len(s)) > section.MaxPayloadLength {
		return fmt.Errorf("%w: string of %d bytes", errs.ErrValueTooLarge, len(s))
	}

	bb.Grow(1 + 4 + len(s))
	_ = bb.WriteByte(section.PrimitiveHeader(format.PrimitiveString))
	bb.B = engine.AppendUint32(bb.B, uint32(len(s)))
	bb.MustWrite([]byte(s))

	return nil
}

func emitCount(bb *pool.ByteBuffer, count int, large bool) {
	if large {
		bb.B = engine.AppendUint32(bb.B, uint32(count))
	} else {
		_ = bb.WriteByte(byte(count))
	}
}

// emitObject assembles a complete object value from its sorted field ids and
// the corresponding child byte spans. ids[i] and children[i] describe the
// field with the i-th smallest name; the caller has already sorted them.
func emitObject(bb *pool.ByteBuffer, ids []uint32, children [][]byte) error {
	var dataLen uint64
	var maxID uint32
	for i, child := range children {
		dataLen += uint64(len(child))
		if ids[i] > maxID {
			maxID = ids[i]
		}
	}
	if dataLen > section.MaxPayloadLength {
		return fmt.Errorf("%w: object data region of %d bytes", errs.ErrValueTooLarge, dataLen)
	}

	count := len(children)
	large := count > section.MaxSmallCount
	offWidth := section.UintWidth(dataLen)
	idWidth := section.UintWidth(uint64(maxID))

	size := 1 + 4 + count*int(idWidth) + (count+1)*int(offWidth) + int(dataLen)
	bb.Grow(size)

	_ = bb.WriteByte(section.ObjectHeader(offWidth, idWidth, large))
	emitCount(bb, count, large)

	for _, id := range ids {
		bb.B = section.AppendUintN(bb.B, uint64(id), idWidth)
	}

	var offset uint64
	for _, child := range children {
		bb.B = section.AppendUintN(bb.B, offset, offWidth)
		offset += uint64(len(child))
	}
	bb.B = section.AppendUintN(bb.B, offset, offWidth)

	for _, child := range children {
		bb.MustWrite(child)
	}

	return nil
}

// emitArray assembles a complete array value from its child byte spans.
func emitArray(bb *pool.ByteBuffer, children [][]byte) error {
	var dataLen uint64
	for _, child := range children {
		dataLen += uint64(len(child))
	}
	if dataLen > section.MaxPayloadLength {
		return fmt.Errorf("%w: array data region of %d bytes", errs.ErrValueTooLarge, dataLen)
	}

	count := len(children)
	large := count > section.MaxSmallCount
	offWidth := section.UintWidth(dataLen)

	size := 1 + 4 + (count+1)*int(offWidth) + int(dataLen)
	bb.Grow(size)

	_ = bb.WriteByte(section.ArrayHeader(offWidth, large))
	emitCount(bb, count, large)

	var offset uint64
	for _, child := range children {
		bb.B = section.AppendUintN(bb.B, offset, offWidth)
		offset += uint64(len(child))
	}
	bb.B = section.AppendUintN(bb.B, offset, offWidth)

	for _, child := range children {
		bb.MustWrite(child)
	}

	return nil
}
