package dict

import (
	"bytes"
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/varbin/varbin/errs"
	"github.com/varbin/varbin/section"
)

// Reader is a zero-copy view over a metadata buffer.
//
// Construction parses the header and eagerly proves every offset in bounds
// and every entry valid UTF-8, so the accessors below cannot fail on string
// content afterwards. Whether the sorted flag's strict-ordering claim
// actually holds is the validator's job; Find trusts the flag.
//
// A Reader never outlives the buffer it borrows: the caller keeps the
// metadata bytes alive and immutable for the Reader's lifetime.
type Reader struct {
	header  section.MetadataHeader
	count   int
	offsets []byte // raw offset table, (count+1) entries
	strings []byte // concatenated UTF-8 entry bytes
}

// NewReader parses and verifies a metadata buffer.
func NewReader(meta []byte) (*Reader, error) {
	if len(meta) < 1 {
		return nil, fmt.Errorf("%w: empty metadata buffer", errs.ErrTruncatedValue)
	}

	header, err := section.ParseMetadataHeader(meta[0])
	if err != nil {
		return nil, err
	}

	width := int(header.OffsetWidth)
	if len(meta) < 1+width {
		return nil, fmt.Errorf("%w: metadata buffer too short for size field", errs.ErrTruncatedValue)
	}

	count64 := section.UintN(meta[1:], header.OffsetWidth)
	tableStart := 1 + width
	tableLen := (int(count64) + 1) * width
	if uint64(len(meta)-tableStart) < uint64(tableLen) {
		return nil, fmt.Errorf("%w: metadata buffer too short for %d offsets", errs.ErrTruncatedValue, count64+1)
	}

	r := &Reader{
		header:  header,
		count:   int(count64),
		offsets: meta[tableStart : tableStart+tableLen],
		strings: meta[tableStart+tableLen:],
	}

	prev := uint64(0)
	for i := 0; i <= r.count; i++ {
		off := r.offset(i)
		if off < prev {
			return nil, fmt.Errorf("%w: dictionary offset %d decreases", errs.ErrOffsetOutOfBounds, i)
		}
		if off > uint64(len(r.strings)) {
			return nil, fmt.Errorf("%w: dictionary offset %d exceeds string region", errs.ErrOffsetOutOfBounds, i)
		}
		prev = off
	}
	if prev != uint64(len(r.strings)) {
		return nil, fmt.Errorf("%w: dictionary string region has %d trailing bytes", errs.ErrOffsetOutOfBounds, uint64(len(r.strings))-prev)
	}

	for i := 0; i < r.count; i++ {
		if !utf8.Valid(r.entry(i)) {
			return nil, fmt.Errorf("%w: dictionary entry %d", errs.ErrInvalidUTF8, i)
		}
	}

	return r, nil
}

func (r *Reader) offset(i int) uint64 {
	w := int(r.header.OffsetWidth)
	return section.UintN(r.offsets[i*w:], r.header.OffsetWidth)
}

func (r *Reader) entry(i int) []byte {
	return r.strings[r.offset(i):r.offset(i+1)]
}

// Len returns the number of dictionary entries.
func (r *Reader) Len() int {
	return r.count
}

// Sorted reports whether the sorted flag is set in the metadata header.
func (r *Reader) Sorted() bool {
	return r.header.Sorted
}

// OffsetWidth returns the byte width of the dictionary's offset entries.
func (r *Reader) OffsetWidth() uint8 {
	return r.header.OffsetWidth
}

// Get returns the name stored under id.
func (r *Reader) Get(id uint32) (string, error) {
	if int64(id) >= int64(r.count) {
		return "", fmt.Errorf("%w: dictionary id %d, size %d", errs.ErrOffsetOutOfBounds, id, r.count)
	}

	return string(r.entry(int(id))), nil
}

// EntryBytes returns the raw bytes of entry id without copying. The caller
// guarantees id is in range and must not modify the result.
func (r *Reader) EntryBytes(id uint32) []byte {
	return r.entry(int(id))
}

// Find locates name by binary search and returns its id. It fails with
// ErrUnsortedDictionary when the metadata's sorted flag is clear, rather
// than silently falling back to a linear scan.
func (r *Reader) Find(name string) (uint32, bool, error) {
	if !r.header.Sorted {
		return 0, false, fmt.Errorf("%w: binary-search lookup requires sorted metadata", errs.ErrUnsortedDictionary)
	}

	target := []byte(name)
	i := sort.Search(r.count, func(i int) bool {
		return bytes.Compare(r.entry(i), target) >= 0
	})
	if i >= r.count || !bytes.Equal(r.entry(i), target) {
		return 0, false, nil
	}

	return uint32(i), true, nil
}
