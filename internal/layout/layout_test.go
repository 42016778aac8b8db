package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlignUp(t *testing.T) {
	cases := []struct {
		n, align, want int
	}{
		{0, 8, 0},
		{1, 8, 8},
		{7, 8, 8},
		{8, 8, 8},
		{9, 8, 16},
		{15, 16, 16},
		{17, 16, 32},
		{63, 64, 64},
		{65, 64, 128},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, AlignUp(c.n, c.align), "AlignUp(%d, %d)", c.n, c.align)
	}
}

func TestAlignUp64(t *testing.T) {
	assert.Equal(t, uint64(0), AlignUp64(0, 8))
	assert.Equal(t, uint64(8), AlignUp64(3, 8))
	assert.Equal(t, uint64(4<<30), AlignUp64(4<<30-1, 4096))
}

func TestIsPowerOfTwo(t *testing.T) {
	for _, n := range []int{1, 2, 4, 8, 64, 1 << 20} {
		assert.True(t, IsPowerOfTwo(n), "%d", n)
	}
	for _, n := range []int{0, -1, -8, 3, 6, 12, 1<<20 + 1} {
		assert.False(t, IsPowerOfTwo(n), "%d", n)
	}
}
