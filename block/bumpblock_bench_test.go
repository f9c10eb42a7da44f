package block

import (
	"testing"

	"github.com/joshuapare/immixheap/internal/layout"
)

// BenchmarkInnerAlloc measures the bump fast path: a fit within the
// current hole is a subtract, a mask, and a compare.
func BenchmarkInnerAlloc(b *testing.B) {
	blk, err := New()
	if err != nil {
		b.Fatal(err)
	}
	defer blk.Close()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, ok := blk.InnerAlloc(64); !ok {
			blk.Reset()
		}
	}
}

// BenchmarkInnerAllocFragmented measures allocation through a block whose
// mark table forces the allocator off the fast path and into hole-skipping.
func BenchmarkInnerAllocFragmented(b *testing.B) {
	blk, err := New()
	if err != nil {
		b.Fatal(err)
	}
	defer blk.Close()

	fragment := func() {
		blk.Reset()
		for i := 0; i < layout.LineCount; i += 8 {
			blk.MarkLine(i)
		}
		// Empty the current hole so the next InnerAlloc has to scan the
		// mark table instead of bumping through the whole payload region.
		blk.limit = layout.BlockCapacity
	}
	fragment()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, ok := blk.InnerAlloc(64); !ok {
			b.StopTimer()
			fragment()
			b.StartTimer()
		}
	}
}

// BenchmarkFindNextAvailableHole measures a full conservative scan of a
// fragmented mark table, the worst case the slow path pays per hole skip.
func BenchmarkFindNextAvailableHole(b *testing.B) {
	blk, err := New()
	if err != nil {
		b.Fatal(err)
	}
	defer blk.Close()

	for i := 0; i < layout.LineCount; i += 2 {
		blk.MarkLine(i)
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		blk.findNextAvailableHole(layout.BlockCapacity, 128)
	}
}
