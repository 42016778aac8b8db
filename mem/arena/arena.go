// Package arena implements a fixed-capacity monotonic bump allocator over
// one pre-reserved region.
//
// Allocation is a compare-and-swap bump of an atomic used counter, so any
// goroutine may allocate concurrently without locking and the counter's
// check-then-commit is the sole arbiter of capacity: the region can never
// be oversubscribed and never falls back to another allocator. Individual
// deallocation does not exist; the whole region is reclaimed only by
// Reset, which requires externally guaranteed exclusivity.
//
// On Linux and FreeBSD the region is an anonymous private mapping with
// MAP_NORESERVE, so reserving the default 4 GiB commits no pages until
// they are touched. Other platforms back the region with a heap slice.
package arena

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/daiw-audio/memkit/internal/layout"
)

var (
	// ErrOutOfCapacity indicates a request larger than the remaining fixed
	// capacity. The request fails hard; used is left unchanged.
	ErrOutOfCapacity = errors.New("arena: out of capacity")

	// ErrBadAlignment indicates a non-power-of-two alignment request.
	ErrBadAlignment = errors.New("arena: alignment must be a power of two")

	// ErrBadCapacity indicates a zero or unrepresentable region size.
	ErrBadCapacity = errors.New("arena: capacity must be positive and addressable")
)

// Arena is a monotonic allocator over one contiguous fixed-size region.
// Alloc is safe for concurrent use; Reset and Close are not.
type Arena struct {
	region   []byte
	capacity uint64
	used     atomic.Uint64
	unmap    func() error
}

// New reserves a region of capacity bytes and returns an arena over it.
func New(capacity uint64) (*Arena, error) {
	if capacity == 0 || capacity > uint64(math.MaxInt) {
		return nil, ErrBadCapacity
	}
	region, unmap, err := reserve(int(capacity))
	if err != nil {
		return nil, fmt.Errorf("arena: reserve %d bytes: %w", capacity, err)
	}
	return &Arena{region: region, capacity: capacity, unmap: unmap}, nil
}

// Alloc bumps the used counter by n bytes (plus any padding needed to
// align the result) and returns the reserved slice. align <= 0 defaults to
// word alignment. Requests beyond the remaining capacity fail with
// ErrOutOfCapacity and leave used untouched. n <= 0 returns nil.
//
// The returned memory is whatever the region held: freshly mapped pages
// read as zero, but after a Reset previously used bytes reappear. Callers
// needing zeroed memory must clear it (the buffer wrapper does).
func (a *Arena) Alloc(n, align int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	if align <= 0 {
		align = layout.WordSize
	}
	if !layout.IsPowerOfTwo(align) {
		return nil, ErrBadAlignment
	}
	need := uint64(n)
	for {
		used := a.used.Load()
		off := layout.AlignUp64(used, uint64(align))
		end := off + need
		if end < off || end > a.capacity {
			return nil, fmt.Errorf("%w: need %d bytes, %d remaining",
				ErrOutOfCapacity, n, a.capacity-used)
		}
		if a.used.CompareAndSwap(used, end) {
			return a.region[off:end:end], nil
		}
	}
}

// Used returns the number of bytes consumed, alignment padding included.
// Monotonically non-decreasing between resets.
func (a *Arena) Used() uint64 {
	return a.used.Load()
}

// Capacity returns the fixed region size in bytes.
func (a *Arena) Capacity() uint64 {
	return a.capacity
}

// Remaining returns Capacity() - Used().
func (a *Arena) Remaining() uint64 {
	return a.capacity - a.used.Load()
}

// Reset reclaims the entire region by zeroing the used counter. Every
// previously returned slice is invalidated. The caller must guarantee that
// no other goroutine is allocating from or reading through this arena for
// the duration of the call; that precondition is documented, not enforced,
// because enforcing it would put a lock on the allocation path. Region
// bytes are not zeroed.
func (a *Arena) Reset() {
	a.used.Store(0)
}

// Close releases the region mapping. The arena must not be used afterwards.
func (a *Arena) Close() error {
	if a.unmap == nil {
		return nil
	}
	unmap := a.unmap
	a.unmap = nil
	a.region = nil
	return unmap()
}
