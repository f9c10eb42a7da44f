package heap

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/immixheap/internal/layout"
)

func newTestHeap(t *testing.T) *Heap {
	t.Helper()
	h := New(Config{})
	t.Cleanup(func() { _ = h.Close() })
	return h
}

type point struct{ X, Y int64 }

func TestAllocRoundTripsThroughHandle(t *testing.T) {
	h := newTestHeap(t)
	want := point{X: 1, Y: 2}

	handle, err := Alloc(h, want)
	require.NoError(t, err)
	require.Equal(t, want, *handle.Get())
}

func TestGetHeaderGetObjectRoundTrip(t *testing.T) {
	h := newTestHeap(t)
	handle, err := Alloc(h, point{X: 3, Y: 4})
	require.NoError(t, err)

	payload := handle.Addr()
	hdr := GetHeader(payload)
	back := GetObject(hdr)
	require.Equal(t, payload, back)
}

func TestAllocArrayIsZeroedAndSized(t *testing.T) {
	h := newTestHeap(t)
	const n = 256

	handle, err := h.AllocArray(n)
	require.NoError(t, err)
	require.EqualValues(t, n, handle.Len())
	data := handle.Bytes()
	require.Len(t, data, n)
	for i, v := range data {
		require.Zerof(t, v, "byte %d should be zero (AllocArray must zero-initialize)", i)
	}

	hdr := HeaderAt(handle.Addr())
	require.EqualValues(t, n, hdr.PayloadSize())
}

func TestMediumAllocationsRouteToOverflow(t *testing.T) {
	h := newTestHeap(t)
	type medium struct{ data [256]byte }

	// The very first allocation installs the head block (BlockCount 0->1);
	// keep allocating into it until the head can no longer fit one more,
	// at which point overflow installs and BlockCount goes 1->2, per
	// the routing rule that medium allocations never rotate the head.
	_, err := Alloc(h, medium{})
	require.NoError(t, err)
	require.Equal(t, 1, h.BlockCount(), "BlockCount() after first medium alloc")

	lastCount := 1
	for i := 0; i < 2000; i++ {
		_, err := Alloc(h, medium{})
		require.NoError(t, err)
		lastCount = h.BlockCount()
		if lastCount != 1 {
			break
		}
	}

	require.Equal(t, 2, lastCount, "BlockCount() after overflow install")
	stats := h.Stats()
	require.True(t, stats.HasOverflow, "Stats().HasOverflow should be true once head is full of medium objects")
	require.Equal(t, 0, stats.Used, "medium routing must not rotate the head")
}

func TestMediumOverflowRotatesIntoRecycle(t *testing.T) {
	h := newTestHeap(t)
	type medium struct{ data [256]byte }

	for i := 0; i < 2000; i++ {
		_, err := Alloc(h, medium{})
		require.NoErrorf(t, err, "Alloc(medium) #%d", i)
		if h.Stats().Recycle > 0 {
			require.Equal(t, 3, h.BlockCount(), "BlockCount() once overflow has rotated once")
			return
		}
	}
	require.Fail(t, "overflow block never rotated into recycle after 2000 medium allocations")
}

func TestSmallAllocationsFillHeadThenRotate(t *testing.T) {
	h := newTestHeap(t)
	type small struct{ data [56]byte } // header(8) + 56 = 64, a small size class

	rotated := false
	for i := 0; i < 2000; i++ {
		before := h.Stats()
		_, err := Alloc(h, small{})
		require.NoErrorf(t, err, "Alloc(small) #%d", i)
		after := h.Stats()
		if after.Used > before.Used {
			rotated = true
			require.Equal(t, 2, h.BlockCount(), "BlockCount() right after head rotation")
			require.Equal(t, 1, after.Used, "Stats().Used right after head rotation")
			break
		}
		if before.HasHead {
			require.Equal(t, 1, h.BlockCount(), "BlockCount() while still filling the single head block")
		}
	}
	require.True(t, rotated, "head never rotated after 2000 small allocations")
}

func TestAllocBadRequestOnLargeSize(t *testing.T) {
	h := newTestHeap(t)
	type large struct{ data [9000]byte }

	_, err := Alloc(h, large{})
	require.ErrorIs(t, err, ErrBadRequest)
}

func TestAllocArrayBadRequestOnLargeSize(t *testing.T) {
	h := newTestHeap(t)
	_, err := h.AllocArray(layout.MaxAllocSize)
	require.ErrorIs(t, err, ErrBadRequest)
}

func TestAddrBytesPanicsOutOfBounds(t *testing.T) {
	h := newTestHeap(t)
	handle, err := Alloc(h, point{})
	require.NoError(t, err)

	require.Panics(t, func() {
		_ = handle.Addr().Bytes(layout.BlockSize)
	})
}
