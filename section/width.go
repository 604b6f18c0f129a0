package section

// UintWidth returns the minimal byte width (1-4) that represents maxVal.
// Callers must ensure maxVal fits in 32 bits.
func UintWidth(maxVal uint64) uint8 {
	switch {
	case maxVal <= 0xFF:
		return 1
	case maxVal <= 0xFFFF:
		return 2
	case maxVal <= 0xFF_FFFF:
		return 3
	default:
		return 4
	}
}

// AppendUintN appends v to buf as a little-endian unsigned integer of the
// given width. Bits of v beyond the width must be zero.
func AppendUintN(buf []byte, v uint64, width uint8) []byte {
	for i := 0; i < int(width); i++ {
		buf = append(buf, byte(v>>(8*i)))
	}

	return buf
}

// UintN reads a little-endian unsigned integer of the given width from the
// start of b. The caller guarantees len(b) >= width.
func UintN(b []byte, width uint8) uint64 {
	var v uint64
	for i := 0; i < int(width); i++ {
		v |= uint64(b[i]) << (8 * i)
	}

	return v
}
