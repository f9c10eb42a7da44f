// Package sizeclass buckets a total allocation size (header + payload +
// padding) into one of three classes, the way the allocator routes
// allocations to the head block, the overflow block, or nowhere at all.
package sizeclass

import (
	"errors"
	"fmt"

	"github.com/joshuapare/immixheap/internal/layout"
)

// Class is the size-class bucket of a total allocation size.
type Class uint8

const (
	// Small allocations fit within a single line.
	Small Class = iota
	// Medium allocations may span several lines but never a whole block.
	Medium
	// Large allocations are reserved: the bump allocator never services
	// them. Classify still recognizes the range so that callers get a
	// precise error rather than a generic one.
	Large
)

// ErrBadRequest indicates a size outside [1, layout.MaxAllocSize].
var ErrBadRequest = errors.New("sizeclass: size out of range")

const (
	smallMax  = layout.LineSize     // one line
	mediumMax = 8192                // half a block
	largeMax  = layout.MaxAllocSize // 2^32 - 1
)

// Classify returns the size class for a total allocation size s. s must
// be in [1, layout.MaxAllocSize]; anything else is ErrBadRequest.
func Classify(s uint64) (Class, error) {
	switch {
	case s == 0 || s > largeMax:
		return 0, fmt.Errorf("%w: %d", ErrBadRequest, s)
	case s <= smallMax:
		return Small, nil
	case s <= mediumMax:
		return Medium, nil
	default:
		return Large, nil
	}
}

// String renders the class for log lines and test failure messages.
func (c Class) String() string {
	switch c {
	case Small:
		return "small"
	case Medium:
		return "medium"
	case Large:
		return "large"
	default:
		return "unknown"
	}
}
