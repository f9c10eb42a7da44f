// Package block implements the bump-pointer, hole-skipping allocator that
// lives inside a single block: BumpBlock down-bumps a cursor through free
// lines and, when the current hole is exhausted, conservatively scans the
// block's mark table for the next usable hole.
package block

import (
	"fmt"

	"github.com/joshuapare/immixheap/internal/layout"
	"github.com/joshuapare/immixheap/internal/rawblock"
)

// BumpBlock owns one raw block and allocates variable-size, word-aligned
// payloads inside it by bumping a cursor downward from the top of the
// payload region, skipping over lines the collector has marked live.
type BumpBlock struct {
	raw    *rawblock.RawBlock
	data   []byte
	cursor uint64 // exclusive upper end of the current hole
	limit  uint64 // inclusive lower bound of the current hole
}

// New acquires a fresh block and resets it to the initial, fully-free
// state described in Reset.
func New() (*BumpBlock, error) {
	raw, err := rawblock.New(layout.BlockSize)
	if err != nil {
		return nil, err
	}
	b := &BumpBlock{raw: raw, data: raw.Bytes()}
	b.Reset()
	return b, nil
}

// Close releases the block's backing memory.
func (b *BumpBlock) Close() error {
	return b.raw.Close()
}

// Reacquire replaces b's backing raw block with a freshly allocated one
// and resets the bump state. It lets a wrapper struct whose memory has
// been released survive in a free-list of wrappers (see blocklist's
// wrapperPool) instead of becoming garbage the moment its block is
// trimmed back to the OS.
func (b *BumpBlock) Reacquire() error {
	raw, err := rawblock.New(layout.BlockSize)
	if err != nil {
		return err
	}
	b.raw = raw
	b.data = raw.Bytes()
	b.Reset()
	return nil
}

// Bytes returns the block's full backing region, payload followed by its
// metadata page. Callers outside this package use it only to resolve an
// offset returned by InnerAlloc/OverflowAlloc into an actual byte range; the
// metadata tail must never be written to directly except by MarkLine/
// MarkBlock/Reset.
func (b *BumpBlock) Bytes() []byte { return b.data }

// Reset restores the block to a single hole spanning the entire payload
// region and clears every line mark (and the whole-block mark) to Free.
func (b *BumpBlock) Reset() {
	b.limit = 0
	b.cursor = layout.BlockCapacity
	meta := b.data[layout.BlockCapacity:layout.BlockSize]
	for i := range meta {
		meta[i] = byte(layout.Free)
	}
}

// CurrentHoleSize returns the number of bytes left in the current hole.
func (b *BumpBlock) CurrentHoleSize() uint64 {
	return b.cursor - b.limit
}

// Stats reports the block's current cursor and limit offsets, useful for
// pool-level accounting and debug logging.
type Stats struct {
	Cursor uint64
	Limit  uint64
}

// Stats returns the block's current bump-pointer state.
func (b *BumpBlock) Stats() Stats {
	return Stats{Cursor: b.cursor, Limit: b.limit}
}

// MarkLine marks line i as containing (or straddling) live data. It
// panics if i is out of range: an out-of-range mark is a programmer
// error in the collector, not a recoverable allocation failure.
func (b *BumpBlock) MarkLine(i int) {
	if i < 0 || i >= layout.LineCount {
		panic(fmt.Sprintf("block: line index %d out of range [0,%d)", i, layout.LineCount))
	}
	b.data[layout.MetaOffset(i)] = byte(layout.Marked)
}

// MarkBlock sets the whole-block mark byte.
func (b *BumpBlock) MarkBlock() {
	b.data[layout.BlockMarkOffset] = byte(layout.Marked)
}

func (b *BumpBlock) lineMark(i int) layout.Mark {
	return layout.Mark(b.data[layout.MetaOffset(i)])
}

// InnerAlloc attempts to place a word-aligned payload of allocSize bytes
// ending at the current cursor. On success it returns the offset (from
// the block base) of the start of the payload and advances the cursor;
// on failure — no hole in the block is large enough — it returns
// (0, false) and leaves the block unchanged.
func (b *BumpBlock) InnerAlloc(allocSize uint64) (uint64, bool) {
	if ptr, ok := b.tryAlloc(allocSize); ok {
		return ptr, true
	}
	if b.limit == 0 {
		// The current hole already starts at the block base; there is
		// nowhere lower to look.
		return 0, false
	}
	cursor, limit, found := b.findNextAvailableHole(b.limit, allocSize)
	if !found {
		return 0, false
	}
	b.cursor = cursor
	b.limit = limit
	return b.tryAlloc(allocSize)
}

// tryAlloc attempts to fit allocSize within the current [limit, cursor)
// hole without searching for a new one.
func (b *BumpBlock) tryAlloc(allocSize uint64) (uint64, bool) {
	next, ok := layout.SubOverflowSafe(b.cursor, allocSize)
	if !ok {
		return 0, false
	}
	next &= layout.AllocAlignMask
	if next >= b.limit {
		b.cursor = next
		return next, true
	}
	return 0, false
}

// findNextAvailableHole performs a conservative, Immix-style scan of the
// mark table downward from the line containing startingAt, looking for a
// run of Free lines at least lines_required = ceil(allocSize/LineSize)
// long. When the run is closed off by a Marked line, one extra line is
// sacrificed as a conservative buffer (a small object may straddle a
// line boundary and so implicitly occupy the line above a marked one),
// which is why closing against a marked line requires a run strictly
// longer than lines_required while reaching line 0 with no marked line
// above only requires a run of at least that length.
func (b *BumpBlock) findNextAvailableHole(startingAt, allocSize uint64) (cursor, limit uint64, found bool) {
	startingLine := layout.LineIndex(startingAt)
	linesRequired := (allocSize + layout.LineSize - 1) / layout.LineSize

	count := uint64(0)
	end := startingLine

	for index := startingLine - 1; index >= 0; index-- {
		switch b.lineMark(index) {
		case layout.Free:
			count++
			if index == 0 && count >= linesRequired {
				return uint64(end) * layout.LineSize, 0, true
			}
		case layout.Marked:
			if count > linesRequired {
				return uint64(end) * layout.LineSize, uint64(index+2) * layout.LineSize, true
			}
			count = 0
			end = index
		}
	}
	return 0, 0, false
}
