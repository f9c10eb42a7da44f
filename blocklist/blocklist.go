// Package blocklist owns the heap's pools of blocks: a head block that
// small allocations bump through, an overflow block that absorbs medium
// allocations the head can't currently fit, and free/recycle/used stacks
// that blocks move between as the collector reclaims them.
package blocklist

import (
	"fmt"
	"sync"

	"github.com/joshuapare/immixheap/block"
)

// BlockList is the heap's block-pool state. It is not safe for concurrent
// use: the heap it backs is single-mutator.
type BlockList struct {
	head     *block.BumpBlock
	overflow *block.BumpBlock
	free     []*block.BumpBlock
	recycle  []*block.BumpBlock
	used     []*block.BumpBlock

	// large is reserved for a future large-object allocator. The bump
	// allocator never services the Large size class (see sizeclass and
	// heap's findSpace), so this sequence is always empty; it exists so the
	// state shape matches a complete heap's.
	large []*block.BumpBlock

	// wrapperPool recycles the small Go-side BumpBlock structs left over
	// when Trim releases a block's OS memory, so a later newBlock call can
	// rehydrate a wrapper instead of allocating a fresh struct.
	wrapperPool sync.Pool
}

// New returns an empty BlockList: no head, no overflow, all pools empty.
func New() *BlockList {
	return &BlockList{}
}

// Head returns the current head block, or nil if none has been installed.
func (bl *BlockList) Head() *block.BumpBlock { return bl.head }

// SetHead installs b as the head block.
func (bl *BlockList) SetHead(b *block.BumpBlock) { bl.head = b }

// PushUsed moves b onto the used pool (no usable hole remains in it).
func (bl *BlockList) PushUsed(b *block.BumpBlock) {
	bl.used = append(bl.used, b)
}

// Overflow returns the current overflow block, or nil if none has been
// installed.
func (bl *BlockList) Overflow() *block.BumpBlock { return bl.overflow }

// Close releases every block's backing OS memory: head, overflow, and
// every block sitting in the free, recycle, used, and large pools. The
// BlockList must not be used afterward.
func (bl *BlockList) Close() error {
	var first error
	closeOne := func(b *block.BumpBlock) {
		if b == nil {
			return
		}
		if err := b.Close(); err != nil && first == nil {
			first = err
		}
	}
	closeOne(bl.head)
	closeOne(bl.overflow)
	for _, b := range bl.free {
		closeOne(b)
	}
	for _, b := range bl.recycle {
		closeOne(b)
	}
	for _, b := range bl.used {
		closeOne(b)
	}
	for _, b := range bl.large {
		closeOne(b)
	}
	bl.head, bl.overflow = nil, nil
	bl.free, bl.recycle, bl.used, bl.large = nil, nil, nil, nil
	return first
}

// BlockCount reports how many blocks the heap currently owns across every
// pool: head, overflow, free, recycle, and used.
func (bl *BlockList) BlockCount() int {
	n := len(bl.free) + len(bl.recycle) + len(bl.used)
	if bl.head != nil {
		n++
	}
	if bl.overflow != nil {
		n++
	}
	return n
}

// PoolStats reports the size of each pool, for diagnostics and logging.
type PoolStats struct {
	HasHead     bool
	HasOverflow bool
	Free        int
	Recycle     int
	Used        int
}

// Stats returns the current pool sizes.
func (bl *BlockList) Stats() PoolStats {
	return PoolStats{
		HasHead:     bl.head != nil,
		HasOverflow: bl.overflow != nil,
		Free:        len(bl.free),
		Recycle:     len(bl.recycle),
		Used:        len(bl.used),
	}
}

// GetFreeBlock pops a block off the free pool, or acquires a fresh one
// from the OS if the pool is empty.
func (bl *BlockList) GetFreeBlock() (*block.BumpBlock, error) {
	if n := len(bl.free); n > 0 {
		b := bl.free[n-1]
		bl.free = bl.free[:n-1]
		return b, nil
	}
	return bl.newBlock()
}

// GetRecycleBlock pops a block off the recycle pool, falling back to the
// free pool, then to a fresh block from the OS.
func (bl *BlockList) GetRecycleBlock() (*block.BumpBlock, error) {
	if n := len(bl.recycle); n > 0 {
		b := bl.recycle[n-1]
		bl.recycle = bl.recycle[:n-1]
		return b, nil
	}
	return bl.GetFreeBlock()
}

func (bl *BlockList) newBlock() (*block.BumpBlock, error) {
	if w, ok := bl.wrapperPool.Get().(*block.BumpBlock); ok && w != nil {
		if err := w.Reacquire(); err != nil {
			return nil, fmt.Errorf("blocklist: %w", err)
		}
		return w, nil
	}
	b, err := block.New()
	if err != nil {
		return nil, fmt.Errorf("blocklist: %w", err)
	}
	return b, nil
}

// RecycleToFree installs a block into the free pool after it has been
// fully reclaimed by the collector (Reset has been called on it).
func (bl *BlockList) RecycleToFree(b *block.BumpBlock) {
	bl.free = append(bl.free, b)
}

// Trim releases up to n blocks from the free pool back to the OS. Their
// Go-side wrapper structs are kept in wrapperPool so a later newBlock
// call can rehydrate them instead of allocating a fresh struct; only the
// underlying OS memory is actually given back.
func (bl *BlockList) Trim(n int) error {
	for i := 0; i < n && len(bl.free) > 0; i++ {
		last := len(bl.free) - 1
		b := bl.free[last]
		bl.free = bl.free[:last]
		if err := b.Close(); err != nil {
			return fmt.Errorf("blocklist: %w", err)
		}
		bl.wrapperPool.Put(b)
	}
	return nil
}

// OverflowAlloc services a medium allocation that did not fit the head's
// current hole. The caller must ensure allocSize <= layout.BlockCapacity;
// violating that precondition is a programmer error. It returns the
// block the allocation landed in (so the caller can resolve the offset
// into an actual byte range) together with that offset.
func (bl *BlockList) OverflowAlloc(allocSize uint64) (*block.BumpBlock, uint64, error) {
	if bl.overflow == nil {
		nb, err := bl.GetFreeBlock()
		if err != nil {
			return nil, 0, err
		}
		bl.overflow = nb
		off, ok := nb.InnerAlloc(allocSize)
		if !ok {
			panic(fmt.Sprintf("blocklist: fresh overflow block could not service %d bytes", allocSize))
		}
		return nb, off, nil
	}

	if off, ok := bl.overflow.InnerAlloc(allocSize); ok {
		return bl.overflow, off, nil
	}

	displaced := bl.overflow
	nb, err := bl.GetFreeBlock()
	if err != nil {
		return nil, 0, err
	}
	bl.overflow = nb
	bl.recycle = append(bl.recycle, displaced)

	off, ok := nb.InnerAlloc(allocSize)
	if !ok {
		panic(fmt.Sprintf("blocklist: fresh overflow block could not service %d bytes", allocSize))
	}
	return nb, off, nil
}
