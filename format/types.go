// Package format defines the public enums and constants of the varbin binary
// format: basic type tags, primitive codes, value kinds and the structural
// limits every producer and consumer must agree on.
package format

// Version is the only metadata format version this library reads or writes.
const Version = 1

const (
	// MaxShortString is the largest string, in bytes, that uses the
	// short-string form with the length embedded in the header byte.
	// Longer strings use the length-prefixed String primitive.
	MaxShortString = 63

	// MaxDecimal4Precision is the largest decimal precision stored as a
	// 4-byte unscaled integer.
	MaxDecimal4Precision = 9
	// MaxDecimal8Precision is the largest decimal precision stored as an
	// 8-byte unscaled integer.
	MaxDecimal8Precision = 18
	// MaxDecimalPrecision is the largest decimal precision the format can
	// represent (16-byte unscaled integer).
	MaxDecimalPrecision = 38

	// DefaultMaxDepth bounds value-tree nesting for both the builder and the
	// validator unless overridden.
	DefaultMaxDepth = 128
)

// BasicType is the 2-bit tag in bits 0-1 of every value header byte.
type BasicType uint8

const (
	BasicPrimitive   BasicType = 0 // fixed-size primitive or length-prefixed bytes
	BasicShortString BasicType = 1 // string with length in the header byte
	BasicObject      BasicType = 2 // field id table + offset table + children
	BasicArray       BasicType = 3 // offset table + children
)

func (b BasicType) String() string {
	switch b {
	case BasicPrimitive:
		return "Primitive"
	case BasicShortString:
		return "ShortString"
	case BasicObject:
		return "Object"
	case BasicArray:
		return "Array"
	default:
		return "Unknown"
	}
}

// PrimitiveType is the 6-bit type-info field of a primitive value header.
type PrimitiveType uint8

const (
	PrimitiveNull         PrimitiveType = 0
	PrimitiveTrue         PrimitiveType = 1
	PrimitiveFalse        PrimitiveType = 2
	PrimitiveInt8         PrimitiveType = 3
	PrimitiveInt16        PrimitiveType = 4
	PrimitiveInt32        PrimitiveType = 5
	PrimitiveInt64        PrimitiveType = 6
	PrimitiveDouble       PrimitiveType = 7
	PrimitiveDecimal4     PrimitiveType = 8
	PrimitiveDecimal8     PrimitiveType = 9
	PrimitiveDecimal16    PrimitiveType = 10
	PrimitiveDate         PrimitiveType = 11
	PrimitiveTimestamp    PrimitiveType = 12 // microseconds, UTC-normalized
	PrimitiveTimestampNTZ PrimitiveType = 13 // microseconds, no time zone
	PrimitiveFloat        PrimitiveType = 14
	PrimitiveBinary       PrimitiveType = 15
	PrimitiveString       PrimitiveType = 16 // length-prefixed, any length

	// PrimitiveTypeCount is one past the highest assigned primitive code.
	PrimitiveTypeCount PrimitiveType = 17
)

func (p PrimitiveType) String() string {
	switch p {
	case PrimitiveNull:
		return "Null"
	case PrimitiveTrue:
		return "True"
	case PrimitiveFalse:
		return "False"
	case PrimitiveInt8:
		return "Int8"
	case PrimitiveInt16:
		return "Int16"
	case PrimitiveInt32:
		return "Int32"
	case PrimitiveInt64:
		return "Int64"
	case PrimitiveDouble:
		return "Double"
	case PrimitiveDecimal4:
		return "Decimal4"
	case PrimitiveDecimal8:
		return "Decimal8"
	case PrimitiveDecimal16:
		return "Decimal16"
	case PrimitiveDate:
		return "Date"
	case PrimitiveTimestamp:
		return "Timestamp"
	case PrimitiveTimestampNTZ:
		return "TimestampNTZ"
	case PrimitiveFloat:
		return "Float"
	case PrimitiveBinary:
		return "Binary"
	case PrimitiveString:
		return "String"
	default:
		return "Unknown"
	}
}

// ValueKind is the logical kind of a decoded value, derived from the header
// byte alone. Both timestamp primitives map to KindTimestamp; time zone
// awareness is part of the timestamp value. Short and long strings both map
// to KindString.
type ValueKind uint8

const (
	KindInvalid ValueKind = iota
	KindNull
	KindBool
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindFloat
	KindDouble
	KindDecimal4
	KindDecimal8
	KindDecimal16
	KindDate
	KindTimestamp
	KindBinary
	KindString
	KindObject
	KindArray
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindInt8:
		return "Int8"
	case KindInt16:
		return "Int16"
	case KindInt32:
		return "Int32"
	case KindInt64:
		return "Int64"
	case KindFloat:
		return "Float"
	case KindDouble:
		return "Double"
	case KindDecimal4:
		return "Decimal4"
	case KindDecimal8:
		return "Decimal8"
	case KindDecimal16:
		return "Decimal16"
	case KindDate:
		return "Date"
	case KindTimestamp:
		return "Timestamp"
	case KindBinary:
		return "Binary"
	case KindString:
		return "String"
	case KindObject:
		return "Object"
	case KindArray:
		return "Array"
	default:
		return "Invalid"
	}
}

// IsInt reports whether k is one of the four integer kinds.
func (k ValueKind) IsInt() bool {
	return k >= KindInt8 && k <= KindInt64
}

// IsDecimal reports whether k is one of the three decimal kinds.
func (k ValueKind) IsDecimal() bool {
	return k >= KindDecimal4 && k <= KindDecimal16
}

// KindOf maps a primitive type code to its logical kind. It returns
// KindInvalid for unassigned codes.
func KindOf(p PrimitiveType) ValueKind {
	switch p {
	case PrimitiveNull:
		return KindNull
	case PrimitiveTrue, PrimitiveFalse:
		return KindBool
	case PrimitiveInt8:
		return KindInt8
	case PrimitiveInt16:
		return KindInt16
	case PrimitiveInt32:
		return KindInt32
	case PrimitiveInt64:
		return KindInt64
	case PrimitiveDouble:
		return KindDouble
	case PrimitiveDecimal4:
		return KindDecimal4
	case PrimitiveDecimal8:
		return KindDecimal8
	case PrimitiveDecimal16:
		return KindDecimal16
	case PrimitiveDate:
		return KindDate
	case PrimitiveTimestamp, PrimitiveTimestampNTZ:
		return KindTimestamp
	case PrimitiveFloat:
		return KindFloat
	case PrimitiveBinary:
		return KindBinary
	case PrimitiveString:
		return KindString
	default:
		return KindInvalid
	}
}
