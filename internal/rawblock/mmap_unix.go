//go:build unix

package rawblock

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// acquire maps an anonymous, private region of exactly size bytes aligned
// to size. mmap only promises page alignment, so it over-maps 2*size and
// trims the unaligned head and tail back to the OS.
func acquire(size uint64) ([]byte, error) {
	region, err := unix.Mmap(-1, 0, int(2*size), unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, err
	}

	base := uintptr(unsafe.Pointer(&region[0]))
	aligned := (base + uintptr(size) - 1) &^ (uintptr(size) - 1)
	head := int(aligned - base)
	tail := len(region) - head - int(size)

	block := region[head : head+int(size) : head+int(size)]

	if head > 0 {
		if err := unix.Munmap(region[:head]); err != nil {
			_ = unix.Munmap(region)
			return nil, err
		}
	}
	if tail > 0 {
		if err := unix.Munmap(region[head+int(size):]); err != nil {
			_ = unix.Munmap(block)
			return nil, err
		}
	}

	return block, nil
}

func release(b []byte) error {
	return unix.Munmap(b)
}
