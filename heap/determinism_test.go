package heap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/immixheap/blocklist"
)

// TestAllocationDeterminism verifies that the same sequence of allocations
// replayed against two fresh heaps lands every payload at identical block
// offsets.
func TestAllocationDeterminism(t *testing.T) {
	sequence := []uint32{64, 128, 256, 512, 128, 64, 1024, 8, 4000}

	run := func() []uint64 {
		h := newTestHeap(t)
		offsets := make([]uint64, 0, len(sequence))
		for _, n := range sequence {
			handle, err := h.AllocArray(n)
			require.NoError(t, err)
			offsets = append(offsets, handle.Addr().off)
		}
		return offsets
	}

	assert.Equal(t, run(), run(), "allocations must be deterministic")
}

// TestRoutingDeterminism verifies that pool state after a mixed
// small/medium workload is identical across runs: head rotation and
// overflow routing depend only on the allocation sequence.
func TestRoutingDeterminism(t *testing.T) {
	type small struct{ data [56]byte }
	type medium struct{ data [500]byte }

	run := func() (int, blocklist.PoolStats) {
		h := newTestHeap(t)
		for i := 0; i < 400; i++ {
			if i%5 == 0 {
				_, err := Alloc(h, medium{})
				require.NoError(t, err)
			} else {
				_, err := Alloc(h, small{})
				require.NoError(t, err)
			}
		}
		return h.BlockCount(), h.Stats()
	}

	count1, stats1 := run()
	count2, stats2 := run()
	assert.Equal(t, count1, count2, "block counts must match across identical runs")
	assert.Equal(t, stats1, stats2, "pool shapes must match across identical runs")
}
