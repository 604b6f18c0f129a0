// Package variant implements the core of the varbin encoding: the value
// builder that serializes a value tree into an immutable (metadata, value)
// byte-buffer pair, the zero-copy lazy views that navigate such a pair, and
// the defensive validator that proves an untrusted pair well-formed.
//
// # Building
//
//	b, _ := variant.NewBuilder()
//	obj, _ := b.StartObject()
//	_ = obj.Field("name")
//	_ = b.AppendString("gopher")
//	_ = obj.Field("age")
//	_ = b.AppendInt(13)
//	_ = obj.End()
//	metadata, value, _ := b.Finish()
//
// # Reading
//
//	v, _ := variant.New(metadata, value)
//	obj, _ := v.Object()
//	age, _, _ := obj.Get("age")
//	n, _ := age.Int64() // 13
//
// Reading never copies or mutates the buffers: any number of goroutines may
// decode the same pair concurrently. Accessors realize one child view at a
// time; grandchildren stay untouched until navigated to.
//
// # Trust boundary
//
// The decode path assumes a well-formed pair, as produced by a Builder. It
// never panics on malformed input, but it may return wrong answers from
// lookups. Buffers from an untrusted source must pass Validate first.
package variant
