package hash

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint computes a 64-bit xxHash over a (metadata, value) buffer pair.
//
// The metadata length is hashed between the two buffers so that moving bytes
// across the boundary changes the digest. The result identifies the raw byte
// encoding, suitable as a cache key for decoded views; it is not a semantic
// value hash.
func Fingerprint(metadata, value []byte) uint64 {
	var d xxhash.Digest
	d.Reset()
	_, _ = d.Write(metadata)

	var sep [8]byte
	binary.LittleEndian.PutUint64(sep[:], uint64(len(metadata)))
	_, _ = d.Write(sep[:])

	_, _ = d.Write(value)

	return d.Sum64()
}
