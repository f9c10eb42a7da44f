package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstants(t *testing.T) {
	assert.Equal(t, uint64(16256), uint64(BlockCapacity))
	assert.Equal(t, 127, LineCount)
	assert.Equal(t, 128, MetaSize)
}

func TestPadToAlign(t *testing.T) {
	cases := map[uint64]uint64{
		0:  0,
		1:  8,
		7:  8,
		8:  8,
		9:  16,
		17: 24,
	}
	for in, want := range cases {
		assert.Equal(t, want, PadToAlign(in), "PadToAlign(%d)", in)
	}
}

func TestSubOverflowSafe(t *testing.T) {
	diff, ok := SubOverflowSafe(10, 4)
	assert.True(t, ok)
	assert.Equal(t, uint64(6), diff)

	_, ok = SubOverflowSafe(4, 10)
	assert.False(t, ok, "SubOverflowSafe(4,10) should report underflow")
}

func TestPutReadU32RoundTrip(t *testing.T) {
	b := make([]byte, 8)
	PutU32(b, 2, 0xdeadbeef)
	assert.Equal(t, uint32(0xdeadbeef), ReadU32(b, 2))
}

func TestAddOverflowSafe(t *testing.T) {
	sum, ok := AddOverflowSafe(3, 4)
	assert.True(t, ok)
	assert.Equal(t, 7, sum)

	_, ok = AddOverflowSafe(1, -1)
	assert.True(t, ok, "a positive plus a negative never overflows")
}

func TestHas(t *testing.T) {
	b := make([]byte, 10)
	assert.True(t, Has(b, 2, 8), "Has(2,8) should be true for a 10-byte buffer")
	assert.False(t, Has(b, 2, 9), "Has(2,9) should be false for a 10-byte buffer")
	assert.False(t, Has(b, -1, 1), "Has should reject negative offset")
}
