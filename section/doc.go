// Package section defines the byte-level layout of the varbin format: the
// metadata header, the value header and the variable-width integer fields
// used by offset and field-id tables.
//
// # Metadata buffer
//
// The metadata buffer carries the field-name dictionary shared by every
// object within one document:
//
//	┌────────────┬──────────────┬────────────────────┬──────────────────┐
//	│ header (1B)│ size (W bytes)│ (size+1) offsets   │ UTF-8 string data│
//	└────────────┴──────────────┴────────────────────┴──────────────────┘
//
// Header byte: bits 0-3 format version (currently 1), bit 4 sorted flag,
// bit 5 reserved (must be 0), bits 6-7 offset width minus one. W is the
// selected offset width (1-4 bytes), chosen as the minimum width that
// represents both the total string-data length and the dictionary size.
// Entry i occupies string bytes [offsets[i], offsets[i+1]); offsets are
// non-decreasing, offsets[0] is 0 and offsets[size] equals the string-data
// length. With the sorted flag set, entries compare strictly increasing by
// byte value, enabling binary-search lookup.
//
// # Value header
//
// Every value starts with one header byte: bits 0-1 are the basic type,
// bits 2-7 the type-info field.
//
//   - Primitive (basic type 0): type info is the primitive code, see
//     format.PrimitiveType. Fixed-width payloads follow little-endian;
//     Binary and String carry a uint32 length prefix; Decimal carries a
//     precision byte, a scale byte and a 4/8/16-byte unscaled integer.
//   - Short string (basic type 1): type info is the byte length (0-63),
//     string bytes follow immediately.
//   - Object (basic type 2): type info bits 0-1 offset width minus one,
//     bits 2-3 field-id width minus one, bit 4 large flag. The body is a
//     count (uint8, or uint32 when large), count field ids in ascending
//     field-name order, count+1 offsets and the concatenated child values.
//   - Array (basic type 3): type info bits 0-1 offset width minus one,
//     bit 2 large flag. The body is a count, count+1 offsets and the
//     concatenated child values.
//
// Composite offsets are relative to the start of the child data region; the
// last offset equals the region length, so child i spans
// [offsets[i], offsets[i+1]). All multi-byte fields are little-endian.
package section
