// Package varbin implements a compact, self-describing binary encoding for
// semi-structured values: null, booleans, integers, floating point, decimal,
// date/time, binary, strings and nested arrays and objects.
//
// A document is a pair of immutable byte buffers: the metadata buffer holds
// a sorted, deduplicated dictionary of object field names; the value buffer
// holds one value tree whose objects reference field names by dictionary id.
// Producers build the pair once; any number of readers then decode, navigate
// and validate it concurrently without copying the underlying bytes.
//
// # Building and reading values
//
//	b, _ := variant.NewBuilder()
//	obj, _ := b.StartObject()
//	_ = obj.Field("a")
//	_ = b.AppendInt(1)
//	_ = obj.Field("b")
//	_ = b.AppendString("x")
//	_ = obj.End()
//	metadata, value, _ := b.Finish()
//
//	v, _ := variant.New(metadata, value)
//	root, _ := v.Object()
//	a, _, _ := root.Get("a") // integer 1
//
// # JSON
//
// The JSON bridge is the primary human-facing entry point:
//
//	metadata, value, _ := varbin.FromJSON(`{"a": 1, "b": "x"}`)
//	text, _ := varbin.ToJSON(metadata, value) // {"a":1,"b":"x"}
//
// Object fields are stored, iterated and rendered in dictionary-sorted
// order, which may differ from the original JSON key order.
//
// # Untrusted input
//
// Buffers received across a trust boundary must pass Validate before being
// decoded; the decode path itself assumes well-formed input and may return
// wrong answers (never panics) on garbage.
//
// This package provides convenient top-level wrappers. For fine-grained
// control use the variant and dict packages directly.
package varbin

import (
	"github.com/varbin/varbin/internal/hash"
	"github.com/varbin/varbin/variant"
)

// Decode wraps a (metadata, value) buffer pair in a zero-copy value view.
// The buffers must stay alive and unmodified while the view is in use.
func Decode(metadata, value []byte) (variant.Value, error) {
	return variant.New(metadata, value)
}

// Validate proves an untrusted buffer pair well-formed. See
// variant.Validate.
func Validate(metadata, value []byte, opts ...variant.ValidateOption) error {
	return variant.Validate(metadata, value, opts...)
}

// Fingerprint returns a 64-bit xxHash of the raw buffer pair, usable as a
// cache key for decoded views. Equal pairs always collide; it makes no
// claim about semantically equal values encoded differently.
func Fingerprint(metadata, value []byte) uint64 {
	return hash.Fingerprint(metadata, value)
}
