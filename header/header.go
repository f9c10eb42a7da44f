// Package header implements the fixed-layout allocation header every
// payload in the heap is prefixed with, and the registry that assigns a
// stable per-Go-type tag to it.
package header

import (
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/joshuapare/immixheap/internal/layout"
	"github.com/joshuapare/immixheap/sizeclass"
)

// TypeID tags a header with the concrete payload type it was allocated
// for. ArrayID is reserved for raw byte-array allocations.
type TypeID = uint16

// ArrayID is the reserved type tag written by NewForArray.
const ArrayID TypeID = 0xFFFF

// Mark is the collector-visible allocation state of an object. It is
// distinct from a line's Free/Marked byte (layout.Mark): a header's Mark
// tracks one object's own liveness across a collection cycle, while a
// line mark is the conservative, coarser signal the bump allocator
// consults when hole-finding.
type Mark uint8

const (
	// Allocated is the state written at allocation time, before any
	// collection cycle has run over the object.
	Allocated Mark = iota
	// Unmarked is written by a collector at the start of a cycle, before
	// tracing begins.
	Unmarked
	// Marked is written by a collector once it has traced the object as
	// reachable.
	Marked
)

// Size is the fixed on-disk size of a Header, already a multiple of
// layout.Align.
const Size = 8

const (
	offSize  = 0 // uint32
	offClass = 4 // uint8
	offMark  = 5 // uint8
	offType  = 6 // uint16
)

// Header is the in-memory view of an allocation header. It is opaque to
// the bump allocator beyond the fields it writes and reads (size, size
// class); the type tag and mark exist for the collector and mutator.
type Header struct {
	size  uint32
	class sizeclass.Class
	mark  Mark
	typ   TypeID
}

// NewForObject builds a header for a single value of type T, recording
// T's registered type tag.
func NewForObject[T any](objectSize uint32, class sizeclass.Class, mark Mark) Header {
	return Header{size: objectSize, class: class, mark: mark, typ: typeIDFor[T]()}
}

// NewForArray builds a header for a raw byte array of the given length,
// tagged with the reserved array type.
func NewForArray(length uint32, class sizeclass.Class, mark Mark) Header {
	return Header{size: length, class: class, mark: mark, typ: ArrayID}
}

// PayloadSize returns the payload size recorded at construction.
func (h Header) PayloadSize() uint32 { return h.size }

// SizeClass returns the size class recorded at construction.
func (h Header) SizeClass() sizeclass.Class { return h.class }

// TypeID returns the type tag: a per-type id for objects, or ArrayID.
func (h Header) TypeID() TypeID { return h.typ }

// IsMarked reports whether the collector has traced this object as
// reachable in the current cycle.
func (h Header) IsMarked() bool { return h.mark == Marked }

// Mark sets the header's mark to Marked. It is idempotent: marking an
// already-marked header is a no-op.
func (h *Header) Mark() { h.mark = Marked }

// String renders the mark for log lines and test failure messages.
func (m Mark) String() string {
	switch m {
	case Allocated:
		return "allocated"
	case Unmarked:
		return "unmarked"
	case Marked:
		return "marked"
	default:
		return "unknown"
	}
}

// Encode writes h into b[0:Size]. The caller must ensure len(b) >= Size.
func Encode(b []byte, h Header) {
	layout.PutU32(b, offSize, h.size)
	b[offClass] = byte(h.class)
	b[offMark] = byte(h.mark)
	layout.PutU16(b, offType, h.typ)
}

// Decode reads a Header from b[0:Size]. The caller must ensure
// len(b) >= Size.
func Decode(b []byte) Header {
	return Header{
		size:  layout.ReadU32(b, offSize),
		class: sizeclass.Class(b[offClass]),
		mark:  Mark(b[offMark]),
		typ:   layout.ReadU16(b, offType),
	}
}

var (
	typeIDs    sync.Map // map[reflect.Type]TypeID
	nextTypeID uint32
)

// typeIDFor returns a stable tag for T, assigning a fresh one the first
// time T is seen. Tags are process-local and not persisted; a heap whose
// headers must survive a process restart would need a different scheme.
func typeIDFor[T any]() TypeID {
	var zero T
	rt := reflect.TypeOf(zero)
	if v, ok := typeIDs.Load(rt); ok {
		return v.(TypeID)
	}
	id := TypeID(atomic.AddUint32(&nextTypeID, 1))
	actual, _ := typeIDs.LoadOrStore(rt, id)
	return actual.(TypeID)
}
