package variant

import (
	"fmt"
	"slices"
	"strings"

	"github.com/varbin/varbin/dict"
	"github.com/varbin/varbin/errs"
	"github.com/varbin/varbin/format"
	"github.com/varbin/varbin/internal/options"
	"github.com/varbin/varbin/internal/pool"
)

// BuilderOption configures a Builder at construction time.
type BuilderOption = options.Option[*Builder]

// WithSortedDictionary controls whether Finish writes the dictionary in
// strictly sorted order with the sorted flag set (the default). Unsorted
// metadata disables binary-search lookup on the reader side.
func WithSortedDictionary(enabled bool) BuilderOption {
	return options.NoError(func(b *Builder) {
		b.sorted = enabled
	})
}

// WithMaxDepth overrides the nesting depth limit for composite scopes.
// The default is format.DefaultMaxDepth.
func WithMaxDepth(depth int) BuilderOption {
	return options.New(func(b *Builder) error {
		if depth < 1 {
			return fmt.Errorf("%w: max depth %d", errs.ErrDepthLimitExceeded, depth)
		}
		b.maxDepth = depth

		return nil
	})
}

type scopeKind uint8

const (
	scopeObject scopeKind = iota
	scopeArray
)

// fieldEntry records one committed object field inside its scope's staging
// buffer.
type fieldEntry struct {
	name       string
	id         uint32
	start, end int
}

// span records one committed array element inside its scope's staging
// buffer.
type span struct {
	start, end int
}

type scope struct {
	kind scopeKind
	buf  *pool.ByteBuffer

	// Array state.
	elems []span

	// Object state.
	fields     []fieldEntry
	seen       map[string]struct{}
	pending    string
	pendingID  uint32
	hasPending bool
}

// Builder serializes one value tree bottom-up into the binary variant
// encoding, populating a metadata dictionary as object field names appear.
//
// A Builder is exclusively owned by one goroutine; it performs no internal
// locking. Each composite under construction stages its bytes in a pooled
// scratch buffer, and only the matching End commits them to the parent, so
// an abandoned or failed scope never leaks a partial object or array into
// the output.
//
// One builder produces one document: a single root value and the dictionary
// it references.
type Builder struct {
	dict     *dict.Builder
	root     *pool.ByteBuffer
	scopes   []*scope
	rootSet  bool
	sorted   bool
	maxDepth int
	finished bool
}

// NewBuilder creates a Builder. By default the dictionary is emitted sorted
// and nesting is limited to format.DefaultMaxDepth.
func NewBuilder(opts ...BuilderOption) (*Builder, error) {
	b := &Builder{
		dict:     dict.NewBuilder(),
		root:     pool.GetValueBuffer(),
		sorted:   true,
		maxDepth: format.DefaultMaxDepth,
	}

	if err := options.Apply(b, opts...); err != nil {
		return nil, err
	}

	return b, nil
}

// sink returns the buffer new value bytes go to: the innermost open scope's
// staging buffer, or the root buffer.
func (b *Builder) sink() *pool.ByteBuffer {
	if n := len(b.scopes); n > 0 {
		return b.scopes[n-1].buf
	}

	return b.root
}

func (b *Builder) top() *scope {
	if n := len(b.scopes); n > 0 {
		return b.scopes[n-1]
	}

	return nil
}

// beginValue checks that a value may be appended at the current position.
func (b *Builder) beginValue() error {
	if b.finished {
		return errs.ErrBuilderFinished
	}

	sc := b.top()
	if sc == nil {
		if b.rootSet {
			return errs.ErrMultipleRootValues
		}

		return nil
	}
	if sc.kind == scopeObject && !sc.hasPending {
		return errs.ErrFieldOutsideObject
	}

	return nil
}

// commitValue records the value just written to the sink as an element,
// field value or root, depending on the current scope.
func (b *Builder) commitValue(start int) {
	sc := b.top()
	if sc == nil {
		b.rootSet = true
		return
	}

	end := sc.buf.Len()
	switch sc.kind {
	case scopeArray:
		sc.elems = append(sc.elems, span{start: start, end: end})
	case scopeObject:
		sc.fields = append(sc.fields, fieldEntry{
			name:  sc.pending,
			id:    sc.pendingID,
			start: start,
			end:   end,
		})
		sc.hasPending = false
	}
}

// abortScope discards the innermost scope and everything staged in it.
// Data errors inside a composite invalidate the whole composite; the parent
// is left exactly as it was before the scope opened.
func (b *Builder) abortScope(err error) error {
	if sc := b.top(); sc != nil {
		b.scopes = b.scopes[:len(b.scopes)-1]
		pool.PutValueBuffer(sc.buf)
		sc.buf = nil
	}

	return err
}

// AppendNull appends a null value.
func (b *Builder) AppendNull() error {
	if err := b.beginValue(); err != nil {
		return err
	}
	start := b.sink().Len()
	emitNull(b.sink())
	b.commitValue(start)

	return nil
}

// AppendBool appends a boolean value.
func (b *Builder) AppendBool(v bool) error {
	if err := b.beginValue(); err != nil {
		return err
	}
	start := b.sink().Len()
	emitBool(b.sink(), v)
	b.commitValue(start)

	return nil
}

// AppendInt appends a signed integer using the narrowest width that
// represents it.
func (b *Builder) AppendInt(v int64) error {
	if err := b.beginValue(); err != nil {
		return err
	}
	start := b.sink().Len()
	emitInt(b.sink(), v)
	b.commitValue(start)

	return nil
}

// AppendFloat32 appends a 32-bit floating point value.
func (b *Builder) AppendFloat32(v float32) error {
	if err := b.beginValue(); err != nil {
		return err
	}
	start := b.sink().Len()
	emitFloat32(b.sink(), v)
	b.commitValue(start)

	return nil
}

// AppendFloat64 appends a 64-bit floating point value.
func (b *Builder) AppendFloat64(v float64) error {
	if err := b.beginValue(); err != nil {
		return err
	}
	start := b.sink().Len()
	emitFloat64(b.sink(), v)
	b.commitValue(start)

	return nil
}

// AppendDecimal appends a fixed-point decimal, choosing the 4, 8 or 16 byte
// form from the declared precision. A decimal whose unscaled value does not
// fit its precision aborts the current composite scope.
func (b *Builder) AppendDecimal(d Decimal) error {
	if err := b.beginValue(); err != nil {
		return err
	}
	start := b.sink().Len()
	if err := emitDecimal(b.sink(), d); err != nil {
		return b.abortScope(err)
	}
	b.commitValue(start)

	return nil
}

// AppendDate appends a date as days since the Unix epoch.
func (b *Builder) AppendDate(days int32) error {
	if err := b.beginValue(); err != nil {
		return err
	}
	start := b.sink().Len()
	emitDate(b.sink(), days)
	b.commitValue(start)

	return nil
}

// AppendTimestamp appends an instant in microseconds since the Unix epoch.
// utc distinguishes time-zone-aware instants from zoneless wall-clock
// readings.
func (b *Builder) AppendTimestamp(micros int64, utc bool) error {
	if err := b.beginValue(); err != nil {
		return err
	}
	start := b.sink().Len()
	emitTimestamp(b.sink(), micros, utc)
	b.commitValue(start)

	return nil
}

// AppendBinary appends an opaque byte sequence.
func (b *Builder) AppendBinary(data []byte) error {
	if err := b.beginValue(); err != nil {
		return err
	}
	start := b.sink().Len()
	if err := emitBinary(b.sink(), data); err != nil {
		return b.abortScope(err)
	}
	b.commitValue(start)

	return nil
}

// AppendString appends a string, using the short form for strings of at
// most format.MaxShortString bytes.
func (b *Builder) AppendString(s string) error {
	if err := b.beginValue(); err != nil {
		return err
	}
	start := b.sink().Len()
	if err := emitString(b.sink(), s); err != nil {
		return b.abortScope(err)
	}
	b.commitValue(start)

	return nil
}

// StartObject opens an object scope. Values appended until the matching End
// belong to the object and each must be preceded by a Field declaration.
func (b *Builder) StartObject() (*ObjectBuilder, error) {
	sc, err := b.startScope(scopeObject)
	if err != nil {
		return nil, err
	}
	sc.seen = make(map[string]struct{})

	return &ObjectBuilder{b: b, sc: sc}, nil
}

// StartArray opens an array scope. Every value appended until the matching
// End becomes the next element.
func (b *Builder) StartArray() (*ArrayBuilder, error) {
	sc, err := b.startScope(scopeArray)
	if err != nil {
		return nil, err
	}

	return &ArrayBuilder{b: b, sc: sc}, nil
}

func (b *Builder) startScope(kind scopeKind) (*scope, error) {
	if err := b.beginValue(); err != nil {
		return nil, err
	}
	if len(b.scopes)+1 > b.maxDepth {
		return nil, fmt.Errorf("%w: depth %d", errs.ErrDepthLimitExceeded, len(b.scopes)+1)
	}

	sc := &scope{
		kind: kind,
		buf:  pool.GetValueBuffer(),
	}
	b.scopes = append(b.scopes, sc)

	return sc, nil
}

// endScope pops sc, emits the finished composite into the parent sink and
// commits it as one value there.
func (b *Builder) endScope(sc *scope, emit func(dst *pool.ByteBuffer) error) error {
	b.scopes = b.scopes[:len(b.scopes)-1]

	parent := b.sink()
	start := parent.Len()
	if err := emit(parent); err != nil {
		parent.Truncate(start)
		pool.PutValueBuffer(sc.buf)
		sc.buf = nil

		return err
	}

	pool.PutValueBuffer(sc.buf)
	sc.buf = nil
	b.commitValue(start)

	return nil
}

// discardScope pops sc and drops everything staged in it.
func (b *Builder) discardScope(sc *scope) {
	b.scopes = b.scopes[:len(b.scopes)-1]
	pool.PutValueBuffer(sc.buf)
	sc.buf = nil
}

// ObjectBuilder is the handle for one open object scope.
type ObjectBuilder struct {
	b  *Builder
	sc *scope
}

// Field declares the name of the next appended value. Appending a name that
// already exists in this object fails immediately with ErrDuplicateField and
// aborts the object scope.
func (ob *ObjectBuilder) Field(name string) error {
	b := ob.b
	if b.finished {
		return errs.ErrBuilderFinished
	}
	if b.top() != ob.sc {
		return fmt.Errorf("%w: object is not the innermost open scope", errs.ErrScopeMismatch)
	}
	if ob.sc.hasPending {
		return fmt.Errorf("%w: field %q", errs.ErrMissingFieldValue, ob.sc.pending)
	}
	if _, dup := ob.sc.seen[name]; dup {
		return b.abortScope(fmt.Errorf("%w: %q", errs.ErrDuplicateField, name))
	}

	ob.sc.seen[name] = struct{}{}
	ob.sc.pending = name
	ob.sc.pendingID = b.dict.Add(name)
	ob.sc.hasPending = true

	return nil
}

// Len returns the number of fields committed so far.
func (ob *ObjectBuilder) Len() int {
	return len(ob.sc.fields)
}

// End reorders the fields into dictionary-sort order, writes the field-id
// and offset tables and commits the finished object to the parent. End is
// the only path that makes the object visible outside its scope.
func (ob *ObjectBuilder) End() error {
	b := ob.b
	if b.finished {
		return errs.ErrBuilderFinished
	}
	if b.top() != ob.sc {
		return fmt.Errorf("%w: object is not the innermost open scope", errs.ErrScopeMismatch)
	}
	if ob.sc.hasPending {
		return fmt.Errorf("%w: field %q", errs.ErrMissingFieldValue, ob.sc.pending)
	}

	sc := ob.sc
	slices.SortFunc(sc.fields, func(x, y fieldEntry) int {
		return strings.Compare(x.name, y.name)
	})

	ids := make([]uint32, len(sc.fields))
	children := make([][]byte, len(sc.fields))
	for i, f := range sc.fields {
		ids[i] = f.id
		children[i] = sc.buf.B[f.start:f.end]
	}

	return b.endScope(sc, func(dst *pool.ByteBuffer) error {
		return emitObject(dst, ids, children)
	})
}

// Discard closes the scope without committing anything; the parent is left
// exactly as before StartObject.
func (ob *ObjectBuilder) Discard() error {
	if ob.b.top() != ob.sc {
		return fmt.Errorf("%w: object is not the innermost open scope", errs.ErrScopeMismatch)
	}
	ob.b.discardScope(ob.sc)

	return nil
}

// ArrayBuilder is the handle for one open array scope.
type ArrayBuilder struct {
	b  *Builder
	sc *scope
}

// Len returns the number of elements committed so far.
func (ab *ArrayBuilder) Len() int {
	return len(ab.sc.elems)
}

// End writes the element offset table and commits the finished array to the
// parent.
func (ab *ArrayBuilder) End() error {
	b := ab.b
	if b.finished {
		return errs.ErrBuilderFinished
	}
	if b.top() != ab.sc {
		return fmt.Errorf("%w: array is not the innermost open scope", errs.ErrScopeMismatch)
	}

	sc := ab.sc
	children := make([][]byte, len(sc.elems))
	for i, e := range sc.elems {
		children[i] = sc.buf.B[e.start:e.end]
	}

	return b.endScope(sc, func(dst *pool.ByteBuffer) error {
		return emitArray(dst, children)
	})
}

// Discard closes the scope without committing anything.
func (ab *ArrayBuilder) Discard() error {
	if ab.b.top() != ab.sc {
		return fmt.Errorf("%w: array is not the innermost open scope", errs.ErrScopeMismatch)
	}
	ab.b.discardScope(ab.sc)

	return nil
}

// Finish finalizes the dictionary and returns the immutable metadata and
// value buffers. When the sorted dictionary's final order differs from
// insertion order, the value bytes are rewritten so every object's field-id
// table refers to final dictionary positions.
//
// The builder cannot be reused after Finish.
func (b *Builder) Finish() (metadata, value []byte, err error) {
	if b.finished {
		return nil, nil, errs.ErrBuilderFinished
	}
	if len(b.scopes) > 0 {
		return nil, nil, fmt.Errorf("%w: %d scopes still open", errs.ErrOpenScope, len(b.scopes))
	}
	if !b.rootSet {
		return nil, nil, errs.ErrNoRootValue
	}

	b.finished = true
	defer func() {
		pool.PutValueBuffer(b.root)
		b.root = nil
	}()

	metadata, remap, err := b.dict.Finish(b.sorted)
	if err != nil {
		return nil, nil, err
	}

	if remap == nil {
		value = make([]byte, b.root.Len())
		copy(value, b.root.B)

		return metadata, value, nil
	}

	value, err = rewriteValue(b.root.B, remap)
	if err != nil {
		return nil, nil, err
	}

	return metadata, value, nil
}
