package blockpool

import (
	"errors"
	"sync/atomic"
	"unsafe"

	"github.com/daiw-audio/memkit/internal/layout"
)

var (
	// ErrBadBlockSize indicates a block size smaller than one machine word.
	ErrBadBlockSize = errors.New("blockpool: block size must be at least 8 bytes")

	// ErrBadCount indicates a non-positive or out-of-range block count.
	ErrBadCount = errors.New("blockpool: block count must be between 1 and 2^31")
)

const (
	// sentinel is the index value marking the empty free list.
	sentinel = ^uint32(0)

	// maxBlocks keeps indices well inside uint32 range, sentinel excluded.
	maxBlocks = 1 << 31

	stateFree uint32 = 0
	stateLive uint32 = 1
)

// Pool is a fixed-capacity, lock-free allocator of uniform blocks.
// All methods are safe for concurrent use.
type Pool struct {
	blockSize int
	numBlocks int
	region    []byte

	// head packs {generation tag : 32, free-list index : 32}.
	head atomic.Uint64

	// next holds the free-list successor index of each block. The entry
	// for a live block is stale and never read.
	next []atomic.Uint32

	// state tracks free/live per block so a double free can be rejected
	// before it relinks a block that is already on the list.
	state []atomic.Uint32

	free atomic.Int64
}

// New creates a pool of numBlocks blocks of blockSize bytes each, all free.
// The free list is pre-linked back to front so the first block in memory
// starts at the head; that ordering is incidental.
func New(blockSize, numBlocks int) (*Pool, error) {
	if blockSize < layout.WordSize {
		return nil, ErrBadBlockSize
	}
	if numBlocks < 1 || numBlocks > maxBlocks {
		return nil, ErrBadCount
	}
	total := blockSize * numBlocks
	if total/blockSize != numBlocks {
		return nil, ErrBadCount
	}

	p := &Pool{
		blockSize: blockSize,
		numBlocks: numBlocks,
		region:    make([]byte, total),
		next:      make([]atomic.Uint32, numBlocks),
		state:     make([]atomic.Uint32, numBlocks),
	}

	head := sentinel
	for i := numBlocks - 1; i >= 0; i-- {
		p.next[i].Store(head)
		head = uint32(i)
	}
	p.head.Store(pack(0, head))
	p.free.Store(int64(numBlocks))
	return p, nil
}

// Alloc pops one block from the free list. It returns nil when the pool is
// exhausted. The returned slice has length and capacity blockSize and stays
// valid until passed back to Free.
func (p *Pool) Alloc() []byte {
	for {
		old := p.head.Load()
		tag, idx := unpack(old)
		if idx == sentinel {
			return nil
		}
		next := p.next[idx].Load()
		if p.head.CompareAndSwap(old, pack(tag+1, next)) {
			p.state[idx].Store(stateLive)
			p.free.Add(-1)
			return p.block(idx)
		}
	}
}

// Free returns a block to the pool. Slices that are nil, not from this
// pool, not block-aligned, or already free are silently ignored.
func (p *Pool) Free(buf []byte) {
	idx, ok := p.indexOf(buf)
	if !ok {
		return
	}
	if !p.state[idx].CompareAndSwap(stateLive, stateFree) {
		// Already on the free list. Relinking it would corrupt the list,
		// so the call is dropped as caller error.
		return
	}
	for {
		old := p.head.Load()
		tag, headIdx := unpack(old)
		p.next[idx].Store(headIdx)
		if p.head.CompareAndSwap(old, pack(tag+1, idx)) {
			p.free.Add(1)
			return
		}
	}
}

// Contains reports whether buf starts inside the pool's region on a block
// boundary. The region bounds are immutable, so no synchronization is
// involved.
func (p *Pool) Contains(buf []byte) bool {
	_, ok := p.indexOf(buf)
	return ok
}

// FreeCount returns the number of free blocks. Under concurrent traffic
// the value is a snapshot, exact only at quiescence.
func (p *Pool) FreeCount() int {
	return int(p.free.Load())
}

// BlockSize returns the size of every block in bytes.
func (p *Pool) BlockSize() int { return p.blockSize }

// NumBlocks returns the pool's fixed capacity in blocks.
func (p *Pool) NumBlocks() int { return p.numBlocks }

// block returns the full-capacity slice for index idx.
func (p *Pool) block(idx uint32) []byte {
	off := int(idx) * p.blockSize
	return p.region[off : off+p.blockSize : off+p.blockSize]
}

// indexOf maps buf back to its block index via pointer identity.
func (p *Pool) indexOf(buf []byte) (uint32, bool) {
	if len(buf) == 0 {
		return 0, false
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(p.region)))
	ptr := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
	if ptr < base {
		return 0, false
	}
	off := ptr - base
	if off >= uintptr(len(p.region)) || off%uintptr(p.blockSize) != 0 {
		return 0, false
	}
	return uint32(off / uintptr(p.blockSize)), true
}

func pack(tag, idx uint32) uint64 {
	return uint64(tag)<<32 | uint64(idx)
}

func unpack(h uint64) (tag, idx uint32) {
	return uint32(h >> 32), uint32(h)
}
