package heap

import "unsafe"

// Handle is an opaque reference to a single T-typed value living inside
// the heap. Its lifetime is bounded by the heap that produced it; the
// mutator must not retain a Handle across the heap's destruction.
type Handle[T any] struct {
	addr Addr
}

// Addr returns the handle's underlying payload address, for use with
// GetHeader.
func (h Handle[T]) Addr() Addr { return h.addr }

// Get returns a pointer to the live value. The pointer aliases the
// heap's own backing memory: writes through it are visible to every
// other holder of the same handle, and the value moves only if the heap
// ever grows compaction support (it does not, today).
func (h Handle[T]) Get() *T {
	var zero T
	buf := h.addr.Bytes(uint64(unsafe.Sizeof(zero)))
	return (*T)(unsafe.Pointer(&buf[0]))
}

// IsZero reports whether h is the zero value (no allocation behind it).
func (h Handle[T]) IsZero() bool { return h.addr.IsZero() }

// ArrayHandle is an opaque reference to a raw byte array allocated with
// AllocArray.
type ArrayHandle struct {
	addr Addr
	n    uint64
}

// Addr returns the handle's underlying payload address, for use with
// GetHeader.
func (h ArrayHandle) Addr() Addr { return h.addr }

// Len returns the array's length in bytes, as recorded at allocation
// time.
func (h ArrayHandle) Len() uint64 { return h.n }

// Bytes returns the live backing slice for the array.
func (h ArrayHandle) Bytes() []byte { return h.addr.Bytes(h.n) }

// IsZero reports whether h is the zero value (no allocation behind it).
func (h ArrayHandle) IsZero() bool { return h.addr.IsZero() }
