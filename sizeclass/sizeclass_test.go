package sizeclass

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyBoundaries(t *testing.T) {
	cases := []struct {
		size uint64
		want Class
	}{
		{1, Small},
		{128, Small},
		{129, Medium},
		{8192, Medium},
		{8193, Large},
		{1<<32 - 1, Large},
	}
	for _, tc := range cases {
		got, err := Classify(tc.size)
		require.NoError(t, err, "Classify(%d)", tc.size)
		assert.Equal(t, tc.want, got, "Classify(%d)", tc.size)
	}
}

func TestClassifyBadRequest(t *testing.T) {
	_, err := Classify(0)
	assert.ErrorIs(t, err, ErrBadRequest)

	_, err = Classify(1 << 32)
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestStringer(t *testing.T) {
	assert.Equal(t, "small", Small.String())
	assert.Equal(t, "medium", Medium.String())
	assert.Equal(t, "large", Large.String())
}
