package pool

import "math/bits"

// minClass is the smallest pooled block size. Requests below it still get
// a minClass block; the slack is internal fragmentation traded for a short
// class table.
const minClass = 64

// minClassShift is log2(minClass).
const minClassShift = 6

// classTable maps request sizes to power-of-two size classes
// minClass, 2*minClass, ... up to and including the largest pooled block.
type classTable struct {
	sizes []int
}

// newClassTable builds the class table for the given largest pooled block,
// rounding it up to a power of two no smaller than minClass.
func newClassTable(maxBlock int) *classTable {
	if maxBlock < minClass {
		maxBlock = minClass
	}
	if maxBlock&(maxBlock-1) != 0 {
		maxBlock = 1 << bits.Len(uint(maxBlock))
	}
	t := &classTable{}
	for size := minClass; size <= maxBlock; size <<= 1 {
		t.sizes = append(t.sizes, size)
	}
	return t
}

// numClasses returns the number of size classes.
func (t *classTable) numClasses() int { return len(t.sizes) }

// maxBlock returns the largest pooled block size.
func (t *classTable) maxBlock() int { return t.sizes[len(t.sizes)-1] }

// classFor returns the index of the smallest class that fits n, or -1 when
// n exceeds the largest pooled block and must go to the general allocator.
func (t *classTable) classFor(n int) int {
	if n > t.maxBlock() {
		return -1
	}
	if n <= minClass {
		return 0
	}
	return bits.Len(uint(n-1)) - minClassShift
}

// classOfExact returns the class whose block size is exactly size, or -1.
// Used on the free path to decide whether a buffer is poolable.
func (t *classTable) classOfExact(size int) int {
	if size < minClass || size > t.maxBlock() || size&(size-1) != 0 {
		return -1
	}
	return bits.Len(uint(size)) - 1 - minClassShift
}
