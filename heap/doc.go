// Package heap provides bump-pointer allocation over line-marked 16 KiB blocks.
//
// # Overview
//
// The heap allocates small and medium objects by down-bumping a cursor
// through the current head block, skipping over 128-byte lines a collector
// has marked live. Medium allocations that do not fit the head's current
// hole are routed to a dedicated overflow block so the head keeps its
// remaining line capacity for dense small-object packing. An exhausted
// head block moves to a used pool and is replaced from the recycle pool
// (which holds overflow blocks displaced when they fill up), then the
// free pool, then a fresh block from the OS.
//
// Every allocation is prefixed with a fixed-size header recording its
// payload size, size class, mark state, and type tag. GetHeader and
// GetObject convert between payload and header addresses using the same
// word-aligned header offset the allocator used to place them.
//
// # Usage Example
//
//	h := heap.New(heap.Config{})
//	defer h.Close()
//
//	handle, err := heap.Alloc(h, Point{X: 1, Y: 2})
//	if err != nil {
//	    return err
//	}
//	p := handle.Get() // *Point aliasing the heap's own memory
//
//	arr, err := h.AllocArray(256) // zero-initialized byte storage
//	if err != nil {
//	    return err
//	}
//	copy(arr.Bytes(), payload)
//
// # Errors
//
// Alloc and AllocArray fail with ErrBadRequest when the total size
// (header included) is oversized or in the Large class, and with ErrOOM
// when the OS refuses a new block. AllocArray(0) is not an error: its
// total size is the header alone.
// Errors are returned, never logged or retried, and the heap holds no
// partial state after a failed allocation; discriminate with errors.Is.
//
// # Thread Safety
//
// Heap instances are not thread-safe: the heap assumes a single mutator
// and takes no locks. Line marks are written by a collector between
// allocation phases, never concurrently with allocation.
//
// # Related Packages
//
//   - github.com/joshuapare/immixheap/block: the in-block bump allocator
//   - github.com/joshuapare/immixheap/blocklist: block pools and rotation state
//   - github.com/joshuapare/immixheap/header: the per-allocation header
package heap
