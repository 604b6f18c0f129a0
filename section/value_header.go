package section

import (
	"fmt"

	"github.com/varbin/varbin/errs"
	"github.com/varbin/varbin/format"
)

// BasicTypeOf extracts the 2-bit basic type tag from a value header byte.
func BasicTypeOf(header byte) format.BasicType {
	return format.BasicType(header & BasicTypeMask)
}

// TypeInfo extracts the 6-bit type-info field from a value header byte.
func TypeInfo(header byte) uint8 {
	return header >> TypeInfoShift
}

// PrimitiveHeader packs a primitive value header byte.
func PrimitiveHeader(p format.PrimitiveType) byte {
	return byte(p)<<TypeInfoShift | byte(format.BasicPrimitive)
}

// ShortStringHeader packs a short-string header byte for a string of n bytes.
// The caller guarantees n <= format.MaxShortString.
func ShortStringHeader(n int) byte {
	return byte(n)<<TypeInfoShift | byte(format.BasicShortString)
}

// ObjectHeader packs an object header byte from its offset width (1-4),
// field-id width (1-4) and large-count flag.
func ObjectHeader(offsetWidth, idWidth uint8, large bool) byte {
	info := (offsetWidth - 1) | (idWidth-1)<<ObjectIDWidthShift
	if large {
		info |= ObjectLargeMask
	}

	return info<<TypeInfoShift | byte(format.BasicObject)
}

// ArrayHeader packs an array header byte from its offset width (1-4) and
// large-count flag.
func ArrayHeader(offsetWidth uint8, large bool) byte {
	info := offsetWidth - 1
	if large {
		info |= ArrayLargeMask
	}

	return info<<TypeInfoShift | byte(format.BasicArray)
}

// ObjectInfo is the decoded type-info field of an object header.
type ObjectInfo struct {
	OffsetWidth uint8
	IDWidth     uint8
	Large       bool
}

// CountSize returns the byte width of the object's count field.
func (o ObjectInfo) CountSize() int {
	if o.Large {
		return 4
	}

	return 1
}

// ParseObjectHeader unpacks an object header byte, rejecting reserved bits.
// The caller guarantees the basic type tag is format.BasicObject.
func ParseObjectHeader(header byte) (ObjectInfo, error) {
	info := TypeInfo(header)
	if info&ObjectReservedMask != 0 {
		return ObjectInfo{}, fmt.Errorf("%w: reserved object header bit set", errs.ErrInvalidHeader)
	}

	return ObjectInfo{
		OffsetWidth: info&ObjectOffsetWidthMask + 1,
		IDWidth:     (info&ObjectIDWidthMask)>>ObjectIDWidthShift + 1,
		Large:       info&ObjectLargeMask != 0,
	}, nil
}

// ArrayInfo is the decoded type-info field of an array header.
type ArrayInfo struct {
	OffsetWidth uint8
	Large       bool
}

// CountSize returns the byte width of the array's count field.
func (a ArrayInfo) CountSize() int {
	if a.Large {
		return 4
	}

	return 1
}

// ParseArrayHeader unpacks an array header byte, rejecting reserved bits.
// The caller guarantees the basic type tag is format.BasicArray.
func ParseArrayHeader(header byte) (ArrayInfo, error) {
	info := TypeInfo(header)
	if info&ArrayReservedMask != 0 {
		return ArrayInfo{}, fmt.Errorf("%w: reserved array header bit set", errs.ErrInvalidHeader)
	}

	return ArrayInfo{
		OffsetWidth: info&ArrayOffsetWidthMask + 1,
		Large:       info&ArrayLargeMask != 0,
	}, nil
}

// KindOfHeader maps a value header byte to its logical kind without touching
// any payload bytes. Unrecognized primitive codes yield format.KindInvalid.
func KindOfHeader(header byte) format.ValueKind {
	switch BasicTypeOf(header) {
	case format.BasicPrimitive:
		return format.KindOf(format.PrimitiveType(TypeInfo(header)))
	case format.BasicShortString:
		return format.KindString
	case format.BasicObject:
		return format.KindObject
	case format.BasicArray:
		return format.KindArray
	default:
		return format.KindInvalid
	}
}
