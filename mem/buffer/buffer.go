// Package buffer provides typed, zero-filled buffers that always allocate
// through a mem.Manager. A Buffer exclusively owns its allocation for its
// lifetime: Close always frees through the Manager with the capability
// captured at construction (a no-op for Deterministic buffers, a real free
// for Dynamic ones), and ownership moves with Move rather than by copying.
package buffer

import (
	"errors"
	"fmt"
	"math"
	"unsafe"

	"github.com/daiw-audio/memkit/mem"
)

var (
	// ErrOutOfRange indicates a checked access outside [0, Len).
	ErrOutOfRange = errors.New("buffer: index out of range")

	// ErrBadCount indicates a negative or unrepresentable element count.
	ErrBadCount = errors.New("buffer: bad element count")
)

// Buffer is a fixed-length buffer of count elements of T, allocated from
// one pool and zero-filled at construction.
//
// Buffers are single-owner values: share a *Buffer[T], never copy the
// struct, and transfer ownership with Move. Construction, Close and Move
// are not safe for concurrent use; element access follows the usual slice
// rules.
type Buffer[T any] struct {
	mgr   *mem.Manager
	alloc mem.Allocation
	data  []T
	id    mem.PoolID
}

// New allocates a zero-filled buffer of count elements of T from the pool
// named by id.
func New[T any](m *mem.Manager, count int, id mem.PoolID) (*Buffer[T], error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadCount, count)
	}
	var zero T
	elem := int(unsafe.Sizeof(zero))
	if count == 0 || elem == 0 {
		return &Buffer[T]{mgr: m, id: id}, nil
	}
	if count > math.MaxInt/elem {
		return nil, fmt.Errorf("%w: %d elements of %d bytes overflow", ErrBadCount, count, elem)
	}

	a, err := m.Alloc(count*elem, id, int(unsafe.Alignof(zero)))
	if err != nil {
		return nil, err
	}
	raw := a.Bytes()
	clear(raw)

	data := unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(raw))), count)
	return &Buffer[T]{mgr: m, alloc: a, data: data, id: id}, nil
}

// Close releases the buffer's allocation through the Manager and leaves
// the buffer empty. Closing an empty or already-closed buffer is a no-op.
func (b *Buffer[T]) Close() {
	if b == nil || b.alloc.IsNull() {
		if b != nil {
			b.data = nil
		}
		return
	}
	b.mgr.Free(b.alloc)
	b.alloc = mem.Allocation{}
	b.data = nil
}

// Move transfers ownership of the allocation to a new buffer and leaves
// the receiver empty and safely closable.
func (b *Buffer[T]) Move() *Buffer[T] {
	moved := &Buffer[T]{mgr: b.mgr, alloc: b.alloc, data: b.data, id: b.id}
	b.alloc = mem.Allocation{}
	b.data = nil
	return moved
}

// Len returns the element count.
func (b *Buffer[T]) Len() int { return len(b.data) }

// Empty reports whether the buffer holds no elements.
func (b *Buffer[T]) Empty() bool { return len(b.data) == 0 }

// PoolID returns the pool the buffer was constructed against.
func (b *Buffer[T]) PoolID() mem.PoolID { return b.id }

// Slice returns the raw element view for interop with processing code.
// Indexing it is unchecked; the caller guarantees index < Len.
func (b *Buffer[T]) Slice() []T { return b.data }

// At returns element i, failing with ErrOutOfRange when i is outside the
// buffer.
func (b *Buffer[T]) At(i int) (T, error) {
	if i < 0 || i >= len(b.data) {
		var zero T
		return zero, fmt.Errorf("%w: %d (len %d)", ErrOutOfRange, i, len(b.data))
	}
	return b.data[i], nil
}

// Set stores v at element i, failing with ErrOutOfRange when i is outside
// the buffer.
func (b *Buffer[T]) Set(i int, v T) error {
	if i < 0 || i >= len(b.data) {
		return fmt.Errorf("%w: %d (len %d)", ErrOutOfRange, i, len(b.data))
	}
	b.data[i] = v
	return nil
}

// Fill sets every element to v.
func (b *Buffer[T]) Fill(v T) {
	for i := range b.data {
		b.data[i] = v
	}
}

// Clear zeroes every element.
func (b *Buffer[T]) Clear() {
	clear(b.data)
}

// CopyFrom copies min(dst len, src len, count) elements from src and
// returns the number copied. count <= 0 means "as many as fit". Neither
// side is ever overrun.
func (b *Buffer[T]) CopyFrom(src *Buffer[T], count int) int {
	if src == nil {
		return 0
	}
	return b.CopyFromSlice(src.data, count)
}

// CopyFromSlice is CopyFrom with a raw source slice.
func (b *Buffer[T]) CopyFromSlice(src []T, count int) int {
	n := len(b.data)
	if len(src) < n {
		n = len(src)
	}
	if count > 0 && count < n {
		n = count
	}
	return copy(b.data[:n], src[:n])
}
