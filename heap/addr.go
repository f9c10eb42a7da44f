package heap

import (
	"fmt"

	"github.com/joshuapare/immixheap/block"
	"github.com/joshuapare/immixheap/internal/layout"
)

// Addr is a location inside one of the heap's blocks: the block that
// owns the backing memory, plus a byte offset from its base. It is the
// one currency every address computation in this package works in,
// since a raw Go pointer cannot safely wander between two independent
// block allocations the way a C pointer could.
type Addr struct {
	blk *block.BumpBlock
	off uint64
}

// Add returns the address n bytes above a.
func (a Addr) Add(n uint64) Addr { return Addr{blk: a.blk, off: a.off + n} }

// Sub returns the address n bytes below a. The caller must ensure n does
// not underflow a's offset; this mirrors the C pointer arithmetic the
// header/payload conversion performs and is a programmer error to
// violate, not a recoverable condition.
func (a Addr) Sub(n uint64) Addr { return Addr{blk: a.blk, off: a.off - n} }

// Bytes returns the n-byte window starting at a. It panics if the window
// does not lie within the owning block's backing region: a caller asking
// for an out-of-bounds window is a programmer error, not a recoverable
// allocation failure.
func (a Addr) Bytes(n uint64) []byte {
	data := a.blk.Bytes()
	if !layout.Has(data, int(a.off), int(n)) {
		panic(fmt.Sprintf("heap: address window [%d,%d) out of bounds for a %d-byte block", a.off, a.off+n, len(data)))
	}
	return data[a.off : a.off+n]
}

// IsZero reports whether a is the zero value (no block attached).
func (a Addr) IsZero() bool { return a.blk == nil }
