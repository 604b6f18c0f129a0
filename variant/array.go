package variant

import (
	"fmt"
	"iter"

	"github.com/varbin/varbin/dict"
	"github.com/varbin/varbin/errs"
)

// Array is the lazy view over an array value.
type Array struct {
	dict   *dict.Reader
	data   []byte
	layout compositeLayout
}

// Len returns the number of elements.
func (a Array) Len() int {
	return a.layout.count
}

// Get returns element i, bounds-checked.
func (a Array) Get(i int) (Value, error) {
	if i < 0 || i >= a.layout.count {
		return Value{}, fmt.Errorf("%w: element index %d of %d", errs.ErrOffsetOutOfBounds, i, a.layout.count)
	}

	start, end, err := a.layout.childSpan(a.data, i)
	if err != nil {
		return Value{}, err
	}

	return newValue(a.dict, a.data[start:end])
}

// Values iterates over the elements in order. The sequence is finite and
// restartable; each range re-walks the offset table.
func (a Array) Values() iter.Seq[Value] {
	return func(yield func(Value) bool) {
		for i := 0; i < a.layout.count; i++ {
			v, err := a.Get(i)
			if err != nil {
				return
			}
			if !yield(v) {
				return
			}
		}
	}
}
