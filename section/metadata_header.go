package section

import (
	"fmt"

	"github.com/varbin/varbin/errs"
	"github.com/varbin/varbin/format"
)

// MetadataHeader is the decoded form of the metadata buffer's header byte.
type MetadataHeader struct {
	// Version is the format version, bits 0-3. Only format.Version is valid.
	Version uint8

	// Sorted reports whether dictionary entries are strictly increasing by
	// byte value, enabling binary-search lookup.
	Sorted bool

	// OffsetWidth is the byte width (1-4) of the dictionary size field and
	// every dictionary offset.
	OffsetWidth uint8
}

// NewMetadataHeader returns a header for the current format version with the
// given sortedness and offset width.
func NewMetadataHeader(sorted bool, offsetWidth uint8) MetadataHeader {
	return MetadataHeader{
		Version:     format.Version,
		Sorted:      sorted,
		OffsetWidth: offsetWidth,
	}
}

// Encode packs the header into its single-byte wire form.
func (h MetadataHeader) Encode() byte {
	b := h.Version & MetaVersionMask
	if h.Sorted {
		b |= MetaSortedMask
	}
	b |= (h.OffsetWidth - 1) << MetaOffsetWidthShift

	return b
}

// ParseMetadataHeader unpacks and validates a metadata header byte.
func ParseMetadataHeader(b byte) (MetadataHeader, error) {
	h := MetadataHeader{
		Version:     b & MetaVersionMask,
		Sorted:      b&MetaSortedMask != 0,
		OffsetWidth: (b&MetaOffsetWidthMask)>>MetaOffsetWidthShift + 1,
	}

	if h.Version != format.Version {
		return MetadataHeader{}, fmt.Errorf("%w: version %d", errs.ErrUnsupportedVersion, h.Version)
	}
	if b&MetaReservedMask != 0 {
		return MetadataHeader{}, fmt.Errorf("%w: reserved metadata header bit set", errs.ErrInvalidHeader)
	}

	return h, nil
}
