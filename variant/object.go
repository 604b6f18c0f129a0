package variant

import (
	"fmt"
	"iter"
	"sort"

	"github.com/varbin/varbin/dict"
	"github.com/varbin/varbin/errs"
)

// Object is the lazy view over an object value. Fields are stored in
// dictionary-sort order, so name lookups run a binary search over the
// field-id table.
type Object struct {
	dict   *dict.Reader
	data   []byte
	layout compositeLayout
}

// Len returns the number of fields.
func (o Object) Len() int {
	return o.layout.count
}

// child realizes the view over field i's value bytes.
func (o Object) child(i int) (Value, error) {
	start, end, err := o.layout.childSpan(o.data, i)
	if err != nil {
		return Value{}, err
	}

	return newValue(o.dict, o.data[start:end])
}

// Field returns the name and value of field i in stored (sorted) order.
func (o Object) Field(i int) (string, Value, error) {
	if i < 0 || i >= o.layout.count {
		return "", Value{}, fmt.Errorf("%w: field index %d of %d", errs.ErrOffsetOutOfBounds, i, o.layout.count)
	}

	name, err := o.dict.Get(o.layout.fieldID(o.data, i))
	if err != nil {
		return "", Value{}, err
	}

	v, err := o.child(i)
	if err != nil {
		return "", Value{}, err
	}

	return name, v, nil
}

// Get looks up a field by name. The second result is false when the object
// has no such field.
//
// Lookup is a binary search: the dictionary locates the name's id, and the
// ascending field-id table locates the id. Both searches require sorted
// metadata; on an unsorted dictionary Get reports ErrUnsortedDictionary
// rather than silently degrading to a linear scan.
func (o Object) Get(name string) (Value, bool, error) {
	id, ok, err := o.dict.Find(name)
	if err != nil {
		return Value{}, false, err
	}
	if !ok {
		return Value{}, false, nil
	}

	// With sorted metadata, name order equals id order, so the field-id
	// table is ascending.
	i := sort.Search(o.layout.count, func(i int) bool {
		return o.layout.fieldID(o.data, i) >= id
	})
	if i >= o.layout.count || o.layout.fieldID(o.data, i) != id {
		return Value{}, false, nil
	}

	v, err := o.child(i)
	if err != nil {
		return Value{}, false, err
	}

	return v, true, nil
}

// Fields iterates over (name, value) pairs in stored (sorted) order. The
// sequence is finite and restartable; each range re-walks the offset table.
// Iteration stops early if a field cannot be realized, which cannot happen
// on validated or self-produced buffers.
func (o Object) Fields() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for i := 0; i < o.layout.count; i++ {
			name, v, err := o.Field(i)
			if err != nil {
				return
			}
			if !yield(name, v) {
				return
			}
		}
	}
}
