// Package testutil provides shared fixtures for memkit tests.
package testutil

import (
	"testing"

	"github.com/daiw-audio/memkit/mem"
)

// SmallConfig is a Manager configuration sized for fast tests: a 1 MiB
// arena, 64 KiB largest pooled block, 8 blocks per chunk.
var SmallConfig = mem.Config{
	ArenaCapacity:  1 << 20,
	MaxPooledBlock: 1 << 16,
	BlocksPerChunk: 8,
}

// NewManager returns an initialized small-capacity Manager that is closed
// when the test finishes.
func NewManager(t *testing.T) *mem.Manager {
	t.Helper()
	return NewManagerWith(t, SmallConfig)
}

// NewManagerWith is NewManager with an explicit configuration.
func NewManagerWith(t *testing.T, cfg mem.Config) *mem.Manager {
	t.Helper()
	m, err := mem.New(cfg)
	if err != nil {
		t.Fatalf("mem.New: %v", err)
	}
	t.Cleanup(func() {
		_ = m.Close()
	})
	return m
}
