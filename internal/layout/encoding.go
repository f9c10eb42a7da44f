package layout

import (
	"encoding/binary"
	"math"
)

// PutU32 writes v to b[off:off+4] in little-endian order. It is used by
// the header encoder to write the fixed-offset size/class/type fields.
func PutU32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:off+4], v)
}

// PutU16 writes v to b[off:off+2] in little-endian order.
func PutU16(b []byte, off int, v uint16) {
	binary.LittleEndian.PutUint16(b[off:off+2], v)
}

// ReadU32 reads a little-endian uint32 from b[off:off+4].
func ReadU32(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off : off+4])
}

// ReadU16 reads a little-endian uint16 from b[off:off+2].
func ReadU16(b []byte, off int) uint16 {
	return binary.LittleEndian.Uint16(b[off : off+2])
}

// SubOverflowSafe subtracts b from a, reporting ok = false when the
// subtraction underflows (would wrap past zero). The bump allocator uses
// this for "cursor - allocSize", which must fail cleanly rather than wrap
// to a huge unsigned value when allocSize exceeds cursor.
func SubOverflowSafe(a, b uint64) (diff uint64, ok bool) {
	if b > a {
		return 0, false
	}
	return a - b, true
}

// AddOverflowSafe adds a and b, reporting ok = false when the result would
// overflow int. Used when computing total allocation sizes (header size
// plus payload size) ahead of alignment padding.
func AddOverflowSafe(a, b int) (sum int, ok bool) {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return 0, false
	case b < 0 && a < math.MinInt-b:
		return 0, false
	default:
		return a + b, true
	}
}

// Has reports whether b[off:off+n] lies within bounds.
func Has(b []byte, off, n int) bool {
	if off < 0 || n < 0 || off > len(b) {
		return false
	}
	end, ok := AddOverflowSafe(off, n)
	return ok && end <= len(b)
}
