//go:build !linux && !freebsd

package arena

// reserve backs the region with a heap slice on platforms without the
// anonymous-mapping path. The Go runtime still faults pages in lazily, but
// the reservation counts against the heap.
func reserve(size int) ([]byte, func() error, error) {
	return make([]byte, size), func() error { return nil }, nil
}
