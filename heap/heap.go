package heap

import (
	"errors"
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/joshuapare/immixheap/blocklist"
	"github.com/joshuapare/immixheap/header"
	"github.com/joshuapare/immixheap/internal/layout"
	"github.com/joshuapare/immixheap/internal/rawblock"
	"github.com/joshuapare/immixheap/sizeclass"
)

// headerAllocSize is the header's on-disk size padded up to the word
// alignment every allocation obeys. Both Alloc/AllocArray and GetHeader
// reconstruct addresses using this padded size, never header.Size
// directly, so the two ends of the conversion always agree even if a
// future header grows past a multiple of layout.Align.
const headerAllocSize = uint64(layout.Align) * ((uint64(header.Size) + layout.Align - 1) / layout.Align)

// Config configures a Heap. The zero value is a heap with default
// behavior: no logging.
type Config struct {
	// Logger receives debug-level diagnostic events (head installs and
	// rotations, medium allocations routed to the overflow block). A nil
	// Logger discards everything; the allocation fast
	// path itself never logs regardless of this setting.
	Logger *slog.Logger
}

// Heap owns a BlockList and exposes the allocation facade over it. It is
// not safe for concurrent use: like the BlockList it wraps, it assumes a
// single mutator.
type Heap struct {
	blocks *blocklist.BlockList
	log    *slog.Logger
}

// New returns an empty Heap: no blocks have been acquired yet, so the
// first allocation installs a fresh head block.
func New(cfg Config) *Heap {
	lg := cfg.Logger
	if lg == nil {
		lg = slog.New(slog.NewTextHandler(discardWriter{}, nil))
	}
	return &Heap{blocks: blocklist.New(), log: lg}
}

// discardWriter is an io.Writer that throws everything away, used so the
// default Heap logger is cheap to construct and never allocates for a
// caller who never supplies one.
type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// Close releases every block the heap has ever acquired back to the OS.
// The Heap must not be used afterward, and any Handle obtained from it
// is dangling from that point on.
func (h *Heap) Close() error {
	return h.blocks.Close()
}

// BlockCount reports how many blocks the heap currently owns.
func (h *Heap) BlockCount() int { return h.blocks.BlockCount() }

// Stats reports the current pool sizes, for diagnostics and logging.
func (h *Heap) Stats() blocklist.PoolStats { return h.blocks.Stats() }

// Alloc places object into the heap and returns an opaque handle to it.
// It is a package-level generic function rather than a method because Go
// methods cannot introduce their own type parameters.
func Alloc[T any](h *Heap, object T) (Handle[T], error) {
	var zero T
	objectSize := uint64(sizeOf(zero))
	total, ok := layout.AddOverflowSafe(int(headerAllocSize), int(objectSize))
	if !ok || total < 0 {
		return Handle[T]{}, fmt.Errorf("%w: object size overflows the allocator's address arithmetic", ErrBadRequest)
	}
	allocSize := layout.PadToAlign(uint64(total))

	class, err := sizeclass.Classify(allocSize)
	if err != nil {
		return Handle[T]{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}

	space, err := h.findSpace(allocSize, class)
	if err != nil {
		return Handle[T]{}, err
	}

	hdr := header.NewForObject[T](uint32(objectSize), class, header.Allocated)
	header.Encode(space.Bytes(header.Size), hdr)

	handle := Handle[T]{addr: space.Add(headerAllocSize)}
	*handle.Get() = object
	return handle, nil
}

// AllocArray reserves nBytes of zero-initialized, word-aligned storage
// and returns an opaque handle to it, tagged in its header as an array
// rather than a single object.
func (h *Heap) AllocArray(nBytes uint32) (ArrayHandle, error) {
	total, ok := layout.AddOverflowSafe(int(headerAllocSize), int(nBytes))
	if !ok || total < 0 {
		return ArrayHandle{}, fmt.Errorf("%w: array size overflows the allocator's address arithmetic", ErrBadRequest)
	}
	allocSize := layout.PadToAlign(uint64(total))

	class, err := sizeclass.Classify(allocSize)
	if err != nil {
		return ArrayHandle{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}

	space, err := h.findSpace(allocSize, class)
	if err != nil {
		return ArrayHandle{}, err
	}

	hdr := header.NewForArray(nBytes, class, header.Allocated)
	header.Encode(space.Bytes(header.Size), hdr)

	handle := ArrayHandle{addr: space.Add(headerAllocSize), n: uint64(nBytes)}
	clear(handle.Bytes())
	return handle, nil
}

// GetHeader returns the address of the header immediately preceding the
// payload at addr, using the same padded offset Alloc/AllocArray used to
// place it.
func GetHeader(addr Addr) Addr { return addr.Sub(headerAllocSize) }

// GetObject returns the address of the payload immediately following the
// header at addr.
func GetObject(addr Addr) Addr { return addr.Add(headerAllocSize) }

// HeaderAt decodes the header stored at the address GetHeader returns
// for the given payload address.
func HeaderAt(payload Addr) header.Header {
	return header.Decode(GetHeader(payload).Bytes(header.Size))
}

// findSpace routes an allocation of the given total size and size class
// to the head block, the overflow block, or a freshly installed head,
// per the allocator's routing rules: Large is always rejected, a Medium
// allocation that would overflow the head's current hole is sent to the
// overflow block instead of forcing an early head rotation, and anything
// else is attempted against the head, rotating it on failure.
func (h *Heap) findSpace(allocSize uint64, class sizeclass.Class) (Addr, error) {
	if class == sizeclass.Large {
		return Addr{}, fmt.Errorf("%w: %w", ErrBadRequest, ErrUnsupported)
	}

	head := h.blocks.Head()
	if head == nil {
		nb, err := h.blocks.GetFreeBlock()
		if err != nil {
			return Addr{}, h.wrapBlockErr(err)
		}
		h.blocks.SetHead(nb)
		h.log.Debug("heap: installed fresh head block", "block_count", h.blocks.BlockCount())
		off, ok := nb.InnerAlloc(allocSize)
		if !ok {
			panic(fmt.Sprintf("heap: fresh head block could not service %d bytes", allocSize))
		}
		return Addr{blk: nb, off: off}, nil
	}

	if class == sizeclass.Medium && allocSize > head.CurrentHoleSize() {
		blk, off, err := h.blocks.OverflowAlloc(allocSize)
		if err != nil {
			return Addr{}, h.wrapBlockErr(err)
		}
		h.log.Debug("heap: routed medium allocation to overflow", "alloc_size", allocSize)
		return Addr{blk: blk, off: off}, nil
	}

	if off, ok := head.InnerAlloc(allocSize); ok {
		return Addr{blk: head, off: off}, nil
	}

	h.blocks.PushUsed(head)
	next, err := h.blocks.GetRecycleBlock()
	if err != nil {
		return Addr{}, h.wrapBlockErr(err)
	}
	h.blocks.SetHead(next)
	h.log.Debug("heap: rotated head block", "block_count", h.blocks.BlockCount())
	return h.findSpace(allocSize, class)
}

// wrapBlockErr translates a BlockList/rawblock failure into the heap
// facade's public ErrOOM sentinel, the only way acquiring a block fails.
func (h *Heap) wrapBlockErr(err error) error {
	if errors.Is(err, rawblock.ErrOOM) || errors.Is(err, blocklist.ErrOOM) {
		return fmt.Errorf("%w: %w", ErrOOM, err)
	}
	return err
}

// sizeOf reports the in-memory size of v's type. Split out from Alloc so
// the unsafe import stays confined to one small helper.
func sizeOf[T any](v T) uintptr {
	return unsafe.Sizeof(v)
}

