// Package layout provides alignment arithmetic and the shared size
// constants used by the memkit allocators.
package layout

// WordSize is the machine word size in bytes. Blocks and alignments
// throughout memkit default to word granularity.
const WordSize = 8

// Default capacities. These mirror the subsystem's documented defaults:
// a 4 GiB deterministic arena, 1 MiB largest pooled block, and 128 blocks
// carved per pooling chunk.
const (
	DefaultArenaCapacity  uint64 = 4 << 30
	DefaultMaxPooledBlock        = 1 << 20
	DefaultBlocksPerChunk        = 128
)

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// AlignUp returns n aligned up to the next multiple of align.
// align must be a power of two.
//
// Example:
//
//	AlignUp(1, 8)  = 8
//	AlignUp(8, 8)  = 8
//	AlignUp(9, 8)  = 16
func AlignUp(n, align int) int {
	return (n + align - 1) &^ (align - 1)
}

// AlignUp64 is AlignUp for 64-bit offsets. align must be a power of two.
func AlignUp64(n, align uint64) uint64 {
	return (n + align - 1) &^ (align - 1)
}
