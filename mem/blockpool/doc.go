// Package blockpool implements a lock-free, fixed-capacity allocator of
// uniform blocks, safe for use from any goroutine without blocking.
//
// # Overview
//
// A Pool owns one contiguous region of blockSize × numBlocks bytes. Free
// blocks form an intrusive singly-linked stack: each free block is
// identified by its integer index into the region, and the list head is a
// single atomic word. Alloc pops the head with a compare-and-swap loop and
// Free pushes with the symmetric loop, so neither operation ever takes a
// lock, blocks, or touches the general-purpose heap.
//
// # Why indices, not pointers
//
// The classic rendition of this structure stores a raw "next" pointer in
// the first word of every free block. Here blocks are integer indices into
// a fixed array and the links live in a side array of atomic words. The
// algorithm is unchanged, but the links can be loaded and stored with
// atomic operations, which keeps a stale read of a just-popped block's
// link a well-defined (and harmless) race rather than an undefined one.
//
// # ABA protection
//
// The list head packs a 32-bit generation tag above the 32-bit index and
// every successful compare-and-swap bumps the tag. Without the tag, a pop
// that read head=A,next=B could succeed after A was freed and re-pushed
// with a different successor, splicing a live block back into the list.
// With the tag the interleaving fails the CAS and simply retries.
//
// # Failure semantics
//
// Alloc returns nil when the pool is exhausted. It never blocks and never
// returns an error value: the caller on a real-time path checks one nil.
// Sizing the pool for worst-case concurrent demand is the caller's job.
//
// Free silently ignores nil slices, slices from other allocators, and
// double frees. Crashing on a bad free inside an audio callback is worse
// than leaking one block, so a bad free is treated as caller error and
// dropped. A per-block state word makes the double-free case detectable
// and therefore safe to drop.
//
// # Usage
//
//	p, err := blockpool.New(256, 1024)
//	if err != nil {
//		return err
//	}
//
//	buf := p.Alloc()
//	if buf == nil {
//		// exhausted: degrade, do not wait
//	}
//	// ... use buf ...
//	p.Free(buf)
package blockpool
