// Package pool implements the elastic side of the memory subsystem: a
// synchronized, size-classed allocator for transient and exploratory
// allocations. Unlike the monotonic arena it supports real per-allocation
// deallocation, grows on demand by carving fixed-count chunks per size
// class, and shrinks again via Trim. Requests above the largest pooled
// block fall back to the general-purpose allocator.
//
// Fragmentation risk is acceptable here by contract; the allocator exists
// for code whose allocation pattern is unpredictable. Anything on the
// audio hot path belongs in the arena or the block pool instead.
package pool

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/daiw-audio/memkit/internal/layout"
)

// ErrAllocFailed indicates an unsatisfiable pool request.
var ErrAllocFailed = errors.New("pool: allocation failed")

// Allocator is a size-classed allocator with byte-accurate used and peak
// accounting. All methods are safe for concurrent use; the class lists are
// guarded by one allocator-level mutex, the counters are atomics readable
// without it.
type Allocator struct {
	mu      sync.Mutex
	classes [][][]byte // free blocks per size class

	table          *classTable
	blocksPerChunk int

	used atomic.Int64
	peak atomic.Int64
}

// New creates an allocator pooling blocks up to maxBlock bytes (rounded up
// to a power of two) and carving blocksPerChunk blocks whenever a class
// runs dry. Non-positive arguments take the documented defaults (1 MiB
// largest block, 128 blocks per chunk).
func New(maxBlock, blocksPerChunk int) *Allocator {
	if maxBlock <= 0 {
		maxBlock = layout.DefaultMaxPooledBlock
	}
	if blocksPerChunk <= 0 {
		blocksPerChunk = layout.DefaultBlocksPerChunk
	}
	table := newClassTable(maxBlock)
	return &Allocator{
		classes:        make([][][]byte, table.numClasses()),
		table:          table,
		blocksPerChunk: blocksPerChunk,
	}
}

// Alloc returns a slice of n bytes. Pooled results have capacity equal to
// their size class; oversize results come straight from the general
// allocator. n == 0 returns nil without touching the pool; n < 0 fails.
func (p *Allocator) Alloc(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: negative size %d", ErrAllocFailed, n)
	}

	var buf []byte
	if c := p.table.classFor(n); c < 0 {
		buf = make([]byte, n)
	} else {
		buf = p.popBlock(c)[:n]
	}
	p.account(n)
	return buf, nil
}

// Free returns buf to its size class, or drops it for the garbage
// collector when it is larger than the largest pooled block. Freed pooled
// blocks are handed out again without zeroing. nil and empty slices are
// ignored.
func (p *Allocator) Free(buf []byte) {
	if len(buf) == 0 {
		return
	}
	n := len(buf)
	if c := p.table.classOfExact(cap(buf)); c >= 0 {
		block := buf[:cap(buf)]
		p.mu.Lock()
		p.classes[c] = append(p.classes[c], block)
		p.mu.Unlock()
	}
	p.used.Add(-int64(n))
}

// Trim drops every cached free block so the garbage collector can reclaim
// the backing chunks. Live allocations are unaffected.
func (p *Allocator) Trim() {
	p.mu.Lock()
	for i := range p.classes {
		p.classes[i] = nil
	}
	p.mu.Unlock()
}

// Used returns the bytes currently allocated and not yet freed.
func (p *Allocator) Used() uint64 {
	used := p.used.Load()
	if used < 0 {
		return 0
	}
	return uint64(used)
}

// Peak returns the historical maximum of Used. Concurrent maxima are
// never lost; at quiescence Peak >= every value Used has held.
func (p *Allocator) Peak() uint64 {
	return uint64(p.peak.Load())
}

// MaxBlock returns the largest pooled block size in bytes.
func (p *Allocator) MaxBlock() int {
	return p.table.maxBlock()
}

// popBlock takes a free block from class c, carving a fresh chunk first
// when the class is empty.
func (p *Allocator) popBlock(c int) []byte {
	p.mu.Lock()
	defer p.mu.Unlock()

	list := p.classes[c]
	if len(list) == 0 {
		size := p.table.sizes[c]
		chunk := make([]byte, size*p.blocksPerChunk)
		for off := 0; off < len(chunk); off += size {
			list = append(list, chunk[off:off+size:off+size])
		}
	}
	last := len(list) - 1
	block := list[last]
	list[last] = nil
	p.classes[c] = list[:last]
	return block
}

// account commits n allocated bytes to used and raises peak with a
// compare-and-swap retry loop so no concurrent maximum is ever lost.
func (p *Allocator) account(n int) {
	used := p.used.Add(int64(n))
	for {
		peak := p.peak.Load()
		if used <= peak || p.peak.CompareAndSwap(peak, used) {
			return
		}
	}
}
