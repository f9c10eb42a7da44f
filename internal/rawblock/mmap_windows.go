//go:build windows

package rawblock

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// acquire reserves a size-aligned region using the standard Windows
// "probe and retry" trick: VirtualAlloc cannot take an alignment
// argument, so a larger region is reserved first to discover an aligned
// address, that whole reservation is released, and a fresh reservation is
// made at the now-known-aligned address. There is a narrow window where
// another allocation in this process could claim that address first; for
// a single-mutator heap (this module's stated concurrency model) that
// window is not a practical concern.
func acquire(size uint64) ([]byte, error) {
	probe, err := windows.VirtualAlloc(0, uintptr(2*size), windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		return nil, err
	}
	aligned := (probe + uintptr(size) - 1) &^ (uintptr(size) - 1)

	if err := windows.VirtualFree(probe, 0, windows.MEM_RELEASE); err != nil {
		return nil, err
	}

	addr, err := windows.VirtualAlloc(aligned, uintptr(size), windows.MEM_RESERVE|windows.MEM_COMMIT, windows.PAGE_READWRITE)
	if err != nil {
		return nil, err
	}

	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), int(size)), nil
}

func release(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	addr := uintptr(unsafe.Pointer(&b[0]))
	return windows.VirtualFree(addr, 0, windows.MEM_RELEASE)
}
