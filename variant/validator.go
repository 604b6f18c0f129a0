package variant

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/apache/arrow-go/v18/arrow/decimal128"

	"github.com/varbin/varbin/errs"
	"github.com/varbin/varbin/format"
	"github.com/varbin/varbin/internal/options"
	"github.com/varbin/varbin/section"
)

// Region identifies which buffer of the pair a validation failure was
// detected in.
type Region uint8

const (
	RegionMetadata Region = iota
	RegionValue
)

func (r Region) String() string {
	if r == RegionMetadata {
		return "metadata"
	}

	return "value"
}

// ValidationError reports the first violation found in a buffer pair, with
// the byte offset where it was detected. It wraps one of the errs sentinels
// for classification with errors.Is.
type ValidationError struct {
	Region Region
	Offset int
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s buffer at offset %d: %v", e.Region, e.Offset, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

type validateConfig struct {
	maxDepth int
}

// ValidateOption configures a Validate call.
type ValidateOption = options.Option[*validateConfig]

// WithValidateMaxDepth overrides the traversal depth bound. The default is
// format.DefaultMaxDepth; the bound caps worst-case memory on adversarial
// input and exceeding it fails validation with ErrRecursionLimitExceeded.
func WithValidateMaxDepth(depth int) ValidateOption {
	return options.New(func(cfg *validateConfig) error {
		if depth < 1 {
			return fmt.Errorf("%w: max depth %d", errs.ErrDepthLimitExceeded, depth)
		}
		cfg.maxDepth = depth

		return nil
	})
}

// Validate proves a (metadata, value) buffer pair well-formed without
// trusting any producer invariant. It fails fast: the first violation is
// returned as a *ValidationError and nothing else is examined.
//
// Validation is opt-in and separate from decoding. Buffers crossing a trust
// boundary must pass Validate before being handed to New; self-produced
// buffers do not need it.
func Validate(metadata, value []byte, opts ...ValidateOption) error {
	cfg := &validateConfig{maxDepth: format.DefaultMaxDepth}
	if err := options.Apply(cfg, opts...); err != nil {
		return err
	}

	md, err := validateMetadata(metadata)
	if err != nil {
		return err
	}

	return validateValue(md, value, cfg.maxDepth)
}

// metadataInfo carries what the value walk needs from a verified metadata
// buffer: the entry count and a resolver for raw entry bytes.
type metadataInfo struct {
	count   int
	width   uint8
	offsets []byte
	strings []byte
}

func (m *metadataInfo) entry(i int) []byte {
	w := int(m.width)
	start := section.UintN(m.offsets[i*w:], m.width)
	end := section.UintN(m.offsets[(i+1)*w:], m.width)

	return m.strings[start:end]
}

func metaErr(offset int, err error) *ValidationError {
	return &ValidationError{Region: RegionMetadata, Offset: offset, Err: err}
}

func valueErr(offset int, err error) *ValidationError {
	return &ValidationError{Region: RegionValue, Offset: offset, Err: err}
}

func validateMetadata(meta []byte) (*metadataInfo, error) {
	if len(meta) < 1 {
		return nil, metaErr(0, fmt.Errorf("%w: empty metadata buffer", errs.ErrTruncatedValue))
	}

	header, err := section.ParseMetadataHeader(meta[0])
	if err != nil {
		return nil, metaErr(0, err)
	}

	width := int(header.OffsetWidth)
	if len(meta) < 1+width {
		return nil, metaErr(1, fmt.Errorf("%w: dictionary size field", errs.ErrTruncatedValue))
	}
	count64 := section.UintN(meta[1:], header.OffsetWidth)

	tableStart := 1 + width
	tableLen := (int(count64) + 1) * width
	if uint64(len(meta)-tableStart) < uint64(tableLen) {
		return nil, metaErr(tableStart, fmt.Errorf("%w: offset table of %d entries", errs.ErrTruncatedValue, count64+1))
	}

	md := &metadataInfo{
		count:   int(count64),
		width:   header.OffsetWidth,
		offsets: meta[tableStart : tableStart+tableLen],
		strings: meta[tableStart+tableLen:],
	}

	prev := uint64(0)
	for i := 0; i <= md.count; i++ {
		off := section.UintN(md.offsets[i*width:], header.OffsetWidth)
		entryOffset := tableStart + i*width
		if off < prev {
			return nil, metaErr(entryOffset, fmt.Errorf("%w: dictionary offset decreases", errs.ErrOffsetOutOfBounds))
		}
		if off > uint64(len(md.strings)) {
			return nil, metaErr(entryOffset, fmt.Errorf("%w: dictionary offset %d exceeds string region", errs.ErrOffsetOutOfBounds, off))
		}
		prev = off
	}
	if prev != uint64(len(md.strings)) {
		return nil, metaErr(len(meta), fmt.Errorf("%w: %d unreferenced trailing bytes", errs.ErrOffsetOutOfBounds, uint64(len(md.strings))-prev))
	}

	stringsStart := tableStart + tableLen
	for i := 0; i < md.count; i++ {
		entry := md.entry(i)
		if !utf8.Valid(entry) {
			return nil, metaErr(stringsStart, fmt.Errorf("%w: dictionary entry %d", errs.ErrInvalidUTF8, i))
		}
	}

	// A set sorted flag is a promise of strict ordering; breaking it is a
	// validity error, not a slow path.
	if header.Sorted {
		for i := 1; i < md.count; i++ {
			if bytes.Compare(md.entry(i-1), md.entry(i)) >= 0 {
				return nil, metaErr(stringsStart, fmt.Errorf("%w: entry %d not strictly greater than its predecessor", errs.ErrUnsortedDictionary, i))
			}
		}
	}

	return md, nil
}

// frame is one pending node of the iterative depth-first value walk.
type frame struct {
	start, end int
	depth      int
}

func validateValue(md *metadataInfo, value []byte, maxDepth int) error {
	if len(value) < 1 {
		return valueErr(0, fmt.Errorf("%w: empty value buffer", errs.ErrTruncatedValue))
	}

	stack := []frame{{start: 0, end: len(value), depth: 1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.depth > maxDepth {
			return valueErr(f.start, fmt.Errorf("%w: nesting exceeds %d", errs.ErrRecursionLimitExceeded, maxDepth))
		}

		children, err := validateNode(md, value, f)
		if err != nil {
			return err
		}
		stack = append(stack, children...)
	}

	return nil
}

// validateNode checks the single value spanning value[f.start:f.end] and
// returns frames for its children. The node must fill its span exactly.
func validateNode(md *metadataInfo, value []byte, f frame) ([]frame, error) {
	node := value[f.start:f.end]

	size, err := encodedSize(node)
	if err != nil {
		return nil, valueErr(f.start, err)
	}
	if size > len(node) {
		return nil, valueErr(f.start, fmt.Errorf("%w: value needs %d bytes, span has %d", errs.ErrTruncatedValue, size, len(node)))
	}
	if size < len(node) {
		return nil, valueErr(f.start+size, fmt.Errorf("%w: %d trailing bytes after value", errs.ErrOffsetOutOfBounds, len(node)-size))
	}

	switch section.BasicTypeOf(node[0]) {
	case format.BasicPrimitive:
		return nil, validatePrimitive(node, f.start)
	case format.BasicShortString:
		if !utf8.Valid(node[1:]) {
			return nil, valueErr(f.start+1, fmt.Errorf("%w: short string bytes", errs.ErrInvalidUTF8))
		}

		return nil, nil
	case format.BasicObject:
		return validateObject(md, node, f)
	default:
		return validateArray(node, f)
	}
}

func validatePrimitive(node []byte, base int) error {
	switch format.PrimitiveType(section.TypeInfo(node[0])) {
	case format.PrimitiveString:
		n := len(node) - 5
		if n <= format.MaxShortString {
			return valueErr(base, fmt.Errorf("%w: %d-byte string must use the short form", errs.ErrNonCanonical, n))
		}
		if !utf8.Valid(node[5:]) {
			return valueErr(base+5, fmt.Errorf("%w: string bytes", errs.ErrInvalidUTF8))
		}
	case format.PrimitiveDecimal4:
		return validateDecimal(node, base, 1, format.MaxDecimal4Precision, 4)
	case format.PrimitiveDecimal8:
		return validateDecimal(node, base, format.MaxDecimal4Precision+1, format.MaxDecimal8Precision, 8)
	case format.PrimitiveDecimal16:
		return validateDecimal(node, base, format.MaxDecimal8Precision+1, format.MaxDecimalPrecision, 16)
	}

	return nil
}

// validateDecimal checks one decimal primitive: the precision must fall in
// the width class [minPrec, maxPrec] (a narrower precision in a wider
// encoding is non-canonical), the scale must not exceed the precision, and
// the unscaled value must fit the declared precision.
func validateDecimal(node []byte, base, minPrec, maxPrec, width int) error {
	precision := int(node[1])
	scale := int(node[2])

	if precision > maxPrec || precision < 1 {
		return valueErr(base+1, fmt.Errorf("%w: precision %d in a %d-byte decimal", errs.ErrPrecisionRange, precision, width))
	}
	if precision < minPrec {
		return valueErr(base+1, fmt.Errorf("%w: precision %d fits a narrower decimal", errs.ErrNonCanonical, precision))
	}
	if scale > precision {
		return valueErr(base+2, fmt.Errorf("%w: scale %d exceeds precision %d", errs.ErrPrecisionRange, scale, precision))
	}

	unscaled := node[3:]
	var num decimal128.Num
	switch width {
	case 4:
		num = decimal128.FromI64(int64(int32(engine.Uint32(unscaled))))
	case 8:
		num = decimal128.FromI64(int64(engine.Uint64(unscaled)))
	default:
		num = decimal128.New(int64(engine.Uint64(unscaled[8:])), engine.Uint64(unscaled[:8]))
	}
	if !num.FitsInPrecision(int32(precision)) {
		return valueErr(base+3, fmt.Errorf("%w: unscaled value needs more than %d digits", errs.ErrPrecisionRange, precision))
	}

	return nil
}

func validateObject(md *metadataInfo, node []byte, f frame) ([]frame, error) {
	layout, err := parseComposite(node)
	if err != nil {
		return nil, valueErr(f.start, err)
	}

	// Field ids must resolve, and the resolved names must be strictly
	// increasing: that proves uniqueness and the sort order binary-search
	// lookup depends on.
	var prevName []byte
	for i := 0; i < layout.count; i++ {
		idOffset := f.start + layout.idsStart + i*int(layout.idWidth)
		id := layout.fieldID(node, i)
		if int64(id) >= int64(md.count) {
			return nil, valueErr(idOffset, fmt.Errorf("%w: field id %d, dictionary size %d", errs.ErrOffsetOutOfBounds, id, md.count))
		}
		name := md.entry(int(id))
		if i > 0 && bytes.Compare(prevName, name) >= 0 {
			return nil, valueErr(idOffset, fmt.Errorf("%w: field %q not strictly greater than its predecessor", errs.ErrUnsortedDictionary, name))
		}
		prevName = name
	}

	return compositeChildren(node, layout, f)
}

func validateArray(node []byte, f frame) ([]frame, error) {
	layout, err := parseComposite(node)
	if err != nil {
		return nil, valueErr(f.start, err)
	}

	return compositeChildren(node, layout, f)
}

// compositeChildren checks the offset table tiles the data region exactly
// and returns one frame per child.
func compositeChildren(node []byte, layout compositeLayout, f frame) ([]frame, error) {
	offsetPos := func(i int) int {
		return f.start + layout.offsStart + i*int(layout.offsetWidth)
	}

	// The first table entry must be zero even for an empty composite, where
	// it doubles as the final offset: a nonzero value there would declare a
	// data region no child references.
	if layout.offsetAt(node, 0) != 0 {
		return nil, valueErr(offsetPos(0), fmt.Errorf("%w: offset table starts at %d, not 0", errs.ErrOffsetOutOfBounds, layout.offsetAt(node, 0)))
	}

	children := make([]frame, 0, layout.count)
	for i := 0; i < layout.count; i++ {
		start := layout.offsetAt(node, i)
		end := layout.offsetAt(node, i+1)
		if end < start {
			return nil, valueErr(offsetPos(i+1), fmt.Errorf("%w: child offset decreases", errs.ErrOffsetOutOfBounds))
		}
		if end > layout.dataLen {
			return nil, valueErr(offsetPos(i+1), fmt.Errorf("%w: child offset %d exceeds data region of %d bytes", errs.ErrOffsetOutOfBounds, end, layout.dataLen))
		}

		children = append(children, frame{
			start: f.start + layout.dataStart + start,
			end:   f.start + layout.dataStart + end,
			depth: f.depth + 1,
		})
	}

	// Adjacent children share one offset table entry and dataLen is the
	// final offset, so monotone in-range offsets tile the region exactly.
	return children, nil
}
