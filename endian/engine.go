// Package endian provides byte order utilities for binary encoding and decoding.
//
// It combines the ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single EndianEngine interface so codecs can both read fixed-width
// fields and append them to growing buffers through one value.
//
// The varbin wire format is little-endian everywhere, so nearly all callers
// use GetLittleEndianEngine(). The engine values are the standard library's
// binary.LittleEndian and binary.BigEndian: immutable, stateless and safe for
// concurrent use.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary
// into a single interface for convenient byte order operations.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine used by the wire
// format.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine. The varbin format never
// uses it on the wire; it exists for diagnostic tooling that wants to dump
// fields in network order.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
