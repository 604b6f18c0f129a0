package section

import "math"

// Metadata header byte layout.
const (
	MetaVersionMask      = 0x0F // bits 0-3: format version
	MetaSortedMask       = 0x10 // bit 4: dictionary entries strictly sorted
	MetaReservedMask     = 0x20 // bit 5: reserved, must be zero
	MetaOffsetWidthMask  = 0xC0 // bits 6-7: offset width minus one
	MetaOffsetWidthShift = 6
)

// Value header byte layout.
const (
	BasicTypeMask = 0x03 // bits 0-1: basic type tag
	TypeInfoShift = 2    // bits 2-7: type-info field
	TypeInfoMask  = 0x3F // type-info field after shifting

	// Object type-info bits.
	ObjectOffsetWidthMask = 0x03 // bits 0-1: offset width minus one
	ObjectIDWidthMask     = 0x0C // bits 2-3: field-id width minus one
	ObjectIDWidthShift    = 2
	ObjectLargeMask       = 0x10 // bit 4: uint32 count instead of uint8
	ObjectReservedMask    = 0x20 // bit 5: reserved, must be zero

	// Array type-info bits.
	ArrayOffsetWidthMask = 0x03 // bits 0-1: offset width minus one
	ArrayLargeMask       = 0x04 // bit 2: uint32 count instead of uint8
	ArrayReservedMask    = 0x38 // bits 3-5: reserved, must be zero
)

const (
	// MaxSmallCount is the largest element or field count encodable without
	// the large flag.
	MaxSmallCount = math.MaxUint8

	// MaxPayloadLength caps string, binary and composite data-region sizes:
	// length prefixes and offsets are at most 4 bytes wide.
	MaxPayloadLength = math.MaxUint32
)
