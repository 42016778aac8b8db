//go:build linux || freebsd

package arena

import (
	"errors"

	"golang.org/x/sys/unix"
)

// reserve maps size bytes of anonymous private memory. MAP_NORESERVE keeps
// the mapping a pure address-space reservation: pages commit on first
// touch, so a 4 GiB arena costs nothing until written.
func reserve(size int) ([]byte, func() error, error) {
	data, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON|unix.MAP_NORESERVE)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() error {
		if data == nil {
			return nil
		}
		err := unix.Munmap(data)
		if errors.Is(err, unix.EINVAL) {
			// Treat double-unmap as no-op for callers.
			return nil
		}
		return err
	}
	return data, cleanup, nil
}
