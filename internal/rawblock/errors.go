package rawblock

import "errors"

var (
	// ErrBadRequest indicates size was zero or not a power of two.
	ErrBadRequest = errors.New("rawblock: size must be a nonzero power of two")

	// ErrOOM indicates the OS refused to satisfy the memory request.
	ErrOOM = errors.New("rawblock: out of memory")
)
