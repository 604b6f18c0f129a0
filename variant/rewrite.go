package variant

import (
	"fmt"

	"github.com/varbin/varbin/errs"
	"github.com/varbin/varbin/format"
	"github.com/varbin/varbin/internal/pool"
	"github.com/varbin/varbin/section"
)

// primitiveSize returns the encoded size of a primitive value starting at
// b[0], including the header byte. Length-prefixed primitives read their
// prefix, so b must be bounds-checked against the result by the caller.
func primitiveSize(b []byte) (int, error) {
	switch format.PrimitiveType(section.TypeInfo(b[0])) {
	case format.PrimitiveNull, format.PrimitiveTrue, format.PrimitiveFalse:
		return 1, nil
	case format.PrimitiveInt8:
		return 2, nil
	case format.PrimitiveInt16:
		return 3, nil
	case format.PrimitiveInt32, format.PrimitiveDate, format.PrimitiveFloat:
		return 5, nil
	case format.PrimitiveInt64, format.PrimitiveDouble,
		format.PrimitiveTimestamp, format.PrimitiveTimestampNTZ:
		return 9, nil
	case format.PrimitiveDecimal4:
		return 1 + 2 + 4, nil
	case format.PrimitiveDecimal8:
		return 1 + 2 + 8, nil
	case format.PrimitiveDecimal16:
		return 1 + 2 + 16, nil
	case format.PrimitiveBinary, format.PrimitiveString:
		if len(b) < 5 {
			return 0, fmt.Errorf("%w: length prefix", errs.ErrTruncatedValue)
		}

		return 5 + int(engine.Uint32(b[1:5])), nil
	default:
		return 0, fmt.Errorf("%w: primitive code %d", errs.ErrInvalidHeader, section.TypeInfo(b[0]))
	}
}

// compositeLayout describes the byte regions of an object or array value.
type compositeLayout struct {
	count       int
	idWidth     uint8 // zero for arrays
	offsetWidth uint8
	idsStart    int // zero for arrays
	offsStart   int
	dataStart   int
	dataLen     int
	size        int // total encoded size including header
}

func (l compositeLayout) fieldID(b []byte, i int) uint32 {
	return uint32(section.UintN(b[l.idsStart+i*int(l.idWidth):], l.idWidth))
}

func (l compositeLayout) offsetAt(b []byte, i int) int {
	return int(section.UintN(b[l.offsStart+i*int(l.offsetWidth):], l.offsetWidth))
}

// childSpan returns child i's byte span, verifying the offset pair stays
// monotone and inside the data region.
func (l compositeLayout) childSpan(b []byte, i int) (start, end int, err error) {
	start = l.dataStart + l.offsetAt(b, i)
	end = l.dataStart + l.offsetAt(b, i+1)
	if end < start || end > l.dataStart+l.dataLen {
		return 0, 0, fmt.Errorf("%w: child %d spans [%d, %d)", errs.ErrOffsetOutOfBounds, i, start, end)
	}

	return start, end, nil
}

// parseComposite decodes the structural layout of the object or array value
// at b[0] and bounds-checks every region against len(b). It does not visit
// children.
func parseComposite(b []byte) (compositeLayout, error) {
	var l compositeLayout
	var countSize int

	switch section.BasicTypeOf(b[0]) {
	case format.BasicObject:
		info, err := section.ParseObjectHeader(b[0])
		if err != nil {
			return l, err
		}
		l.idWidth = info.IDWidth
		l.offsetWidth = info.OffsetWidth
		countSize = info.CountSize()
	case format.BasicArray:
		info, err := section.ParseArrayHeader(b[0])
		if err != nil {
			return l, err
		}
		l.offsetWidth = info.OffsetWidth
		countSize = info.CountSize()
	default:
		return l, fmt.Errorf("%w: not a composite header", errs.ErrInvalidHeader)
	}

	if len(b) < 1+countSize {
		return l, fmt.Errorf("%w: composite count field", errs.ErrTruncatedValue)
	}
	if countSize == 4 {
		l.count = int(engine.Uint32(b[1:5]))
	} else {
		l.count = int(b[1])
	}

	l.idsStart = 1 + countSize
	l.offsStart = l.idsStart + l.count*int(l.idWidth)
	l.dataStart = l.offsStart + (l.count+1)*int(l.offsetWidth)
	if len(b) < l.dataStart {
		return l, fmt.Errorf("%w: composite tables need %d bytes, have %d", errs.ErrTruncatedValue, l.dataStart, len(b))
	}

	l.dataLen = l.offsetAt(b, l.count)
	l.size = l.dataStart + l.dataLen
	if len(b) < l.size {
		return l, fmt.Errorf("%w: composite data region needs %d bytes, have %d", errs.ErrTruncatedValue, l.size, len(b))
	}

	return l, nil
}

// encodedSize returns the total encoded size of the value starting at b[0].
// Composites are sized from their offset table without visiting children.
func encodedSize(b []byte) (int, error) {
	if len(b) < 1 {
		return 0, fmt.Errorf("%w: missing value header", errs.ErrTruncatedValue)
	}

	switch section.BasicTypeOf(b[0]) {
	case format.BasicPrimitive:
		return primitiveSize(b)
	case format.BasicShortString:
		return 1 + int(section.TypeInfo(b[0])), nil
	default:
		l, err := parseComposite(b)
		if err != nil {
			return 0, err
		}

		return l.size, nil
	}
}

// rewriteValue re-encodes a value tree built with provisional dictionary ids
// so every object's field-id table carries final (sorted) ids. Field order
// within objects is already final: fields were sorted by name at End, and
// name order equals final-id order. Id and offset widths are recomputed
// since both may change.
func rewriteValue(src []byte, remap []uint32) ([]byte, error) {
	out := pool.GetValueBuffer()
	defer pool.PutValueBuffer(out)

	if err := rewriteNode(out, src, remap); err != nil {
		return nil, err
	}

	value := make([]byte, out.Len())
	copy(value, out.B)

	return value, nil
}

func rewriteNode(dst *pool.ByteBuffer, src []byte, remap []uint32) error {
	size, err := encodedSize(src)
	if err != nil {
		return err
	}
	if len(src) < size {
		return fmt.Errorf("%w: value needs %d bytes, have %d", errs.ErrTruncatedValue, size, len(src))
	}

	switch section.BasicTypeOf(src[0]) {
	case format.BasicPrimitive, format.BasicShortString:
		dst.MustWrite(src[:size])
		return nil
	case format.BasicArray:
		l, err := parseComposite(src)
		if err != nil {
			return err
		}

		children, err := rewriteChildren(l, src, remap)
		if err != nil {
			return err
		}

		return emitArray(dst, children)
	default:
		l, err := parseComposite(src)
		if err != nil {
			return err
		}

		ids := make([]uint32, l.count)
		for i := range ids {
			old := l.fieldID(src, i)
			if int(old) >= len(remap) {
				return fmt.Errorf("%w: field id %d, dictionary size %d", errs.ErrOffsetOutOfBounds, old, len(remap))
			}
			ids[i] = remap[old]
		}

		children, err := rewriteChildren(l, src, remap)
		if err != nil {
			return err
		}

		return emitObject(dst, ids, children)
	}
}

// rewriteChildren rewrites each child of a composite into its own scratch
// buffer and returns the rebuilt child spans.
func rewriteChildren(l compositeLayout, src []byte, remap []uint32) ([][]byte, error) {
	children := make([][]byte, l.count)
	for i := 0; i < l.count; i++ {
		start, end, err := l.childSpan(src, i)
		if err != nil {
			return nil, err
		}

		child := pool.NewByteBuffer(end - start)
		if err := rewriteNode(child, src[start:end], remap); err != nil {
			return nil, err
		}
		children[i] = child.B
	}

	return children, nil
}
