// Package dict implements the metadata dictionary: the sorted, deduplicated
// table of field-name strings shared by every object value within one
// document. The Builder collects names during value construction; the Reader
// gives bounds-checked, binary-searchable access to a finished metadata
// buffer.
package dict

import (
	"fmt"
	"slices"
	"strings"

	"github.com/varbin/varbin/errs"
	"github.com/varbin/varbin/section"
)

// Builder accumulates field names and assigns provisional integer ids in
// insertion order. Finish serializes the dictionary; in sorted mode the
// final ids are the sorted positions and Finish returns the remap table
// translating provisional ids to final ones.
//
// A Builder belongs to exactly one document. Ids from one document are
// meaningless in any other.
type Builder struct {
	ids   map[string]uint32
	names []string
}

// NewBuilder creates an empty dictionary builder.
func NewBuilder() *Builder {
	return &Builder{
		ids: make(map[string]uint32),
	}
}

// Add returns the provisional id for name, assigning the next id if the name
// has not been seen before. Adding the same name twice returns the same id.
func (b *Builder) Add(name string) uint32 {
	if id, ok := b.ids[name]; ok {
		return id
	}

	id := uint32(len(b.names))
	b.ids[name] = id
	b.names = append(b.names, name)

	return id
}

// Len returns the number of distinct names added so far.
func (b *Builder) Len() int {
	return len(b.names)
}

// Finish serializes the dictionary into its metadata buffer.
//
// In sorted mode the entries are written in strictly increasing byte order
// and the sorted flag is set; remap[provisionalID] gives the final id. A nil
// remap means provisional ids are already final (unsorted mode, or insertion
// order that happened to be sorted). The Builder must not be used after
// Finish.
func (b *Builder) Finish(sorted bool) (meta []byte, remap []uint32, err error) {
	names := b.names

	if sorted && !slices.IsSorted(names) {
		order := make([]int, len(names))
		for i := range order {
			order[i] = i
		}
		slices.SortFunc(order, func(x, y int) int {
			return strings.Compare(names[x], names[y])
		})

		sortedNames := make([]string, len(names))
		remap = make([]uint32, len(names))
		for pos, old := range order {
			sortedNames[pos] = names[old]
			remap[old] = uint32(pos)
		}
		names = sortedNames
	}

	var total uint64
	for _, name := range names {
		total += uint64(len(name))
	}
	if total > section.MaxPayloadLength {
		return nil, nil, fmt.Errorf("%w: dictionary strings span %d bytes", errs.ErrValueTooLarge, total)
	}

	// The size field shares the offset width, so the width must also
	// represent the entry count.
	width := section.UintWidth(max(total, uint64(len(names))))
	header := section.NewMetadataHeader(sorted, width)

	size := 1 + int(width)*(len(names)+2) + int(total)
	meta = make([]byte, 0, size)
	meta = append(meta, header.Encode())
	meta = section.AppendUintN(meta, uint64(len(names)), width)

	var offset uint64
	for _, name := range names {
		meta = section.AppendUintN(meta, offset, width)
		offset += uint64(len(name))
	}
	meta = section.AppendUintN(meta, offset, width)

	for _, name := range names {
		meta = append(meta, name...)
	}

	return meta, remap, nil
}
