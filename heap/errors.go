package heap

import "errors"

// ErrBadRequest indicates that the total allocation size (header plus
// payload, padded to layout.Align) exceeds layout.MaxAllocSize or lands
// in the Large size class, which this bump allocator never services.
var ErrBadRequest = errors.New("heap: bad allocation request")

// ErrOOM indicates the OS refused to satisfy a new block allocation.
var ErrOOM = errors.New("heap: out of memory")

// ErrUnsupported marks a request this heap deliberately does not service
// (the reserved Large size class), as distinct from ErrBadRequest, which
// also covers genuinely malformed sizes. findSpace wraps both sentinels
// together on the Large path so callers can match on whichever fits their
// policy.
var ErrUnsupported = errors.New("heap: large allocations are reserved but not serviced by this allocator")
