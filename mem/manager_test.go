package mem_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daiw-audio/memkit/internal/testutil"
	"github.com/daiw-audio/memkit/mem"
	"github.com/daiw-audio/memkit/mem/arena"
)

// TestAlloc_Dispatch verifies requests land on the side named by PoolID.
func TestAlloc_Dispatch(t *testing.T) {
	m := testutil.NewManager(t)

	det, err := m.Alloc(512, mem.Deterministic, 8)
	require.NoError(t, err)
	require.Len(t, det.Bytes(), 512)
	assert.Equal(t, mem.Deterministic, det.PoolID())

	dyn, err := m.Alloc(512, mem.Dynamic, 8)
	require.NoError(t, err)
	require.Len(t, dyn.Bytes(), 512)
	assert.Equal(t, mem.Dynamic, dyn.PoolID())

	s := m.Stats()
	assert.Equal(t, uint64(512), s.ArenaUsed)
	assert.Equal(t, uint64(512), s.PoolUsed)
	assert.Equal(t, uint64(2), s.Allocations)

	_, err = m.Alloc(8, mem.PoolID(9), 8)
	assert.ErrorIs(t, err, mem.ErrBadPoolID)
}

// TestAlloc_ZeroBytes verifies a zero-byte request returns the null
// allocation without touching either backing allocator.
func TestAlloc_ZeroBytes(t *testing.T) {
	m := testutil.NewManager(t)

	a, err := m.Alloc(0, mem.Deterministic, 8)
	require.NoError(t, err)
	assert.True(t, a.IsNull())

	a, err = m.Alloc(0, mem.Dynamic, 8)
	require.NoError(t, err)
	assert.True(t, a.IsNull())

	s := m.Stats()
	assert.Zero(t, s.ArenaUsed)
	assert.Zero(t, s.PoolUsed)
	assert.Zero(t, s.Allocations)

	m.Free(a) // null free is a no-op
	assert.Zero(t, m.Stats().Deallocations)
}

// TestFree_ArenaSideNeverCountsDeallocations verifies the testable
// invariant that deterministic frees leave the deallocation counter and
// the arena's used bytes untouched.
func TestFree_ArenaSideNeverCountsDeallocations(t *testing.T) {
	m := testutil.NewManager(t)

	var allocs []mem.Allocation
	for i := 0; i < 10; i++ {
		a, err := m.Alloc(64, mem.Deterministic, 8)
		require.NoError(t, err)
		allocs = append(allocs, a)
	}
	for _, a := range allocs {
		m.Free(a)
	}

	s := m.Stats()
	assert.Equal(t, uint64(10), s.Allocations)
	assert.Zero(t, s.Deallocations, "arena frees must never count as deallocations")
	assert.Equal(t, uint64(640), s.ArenaUsed, "arena frees must not reclaim bytes")
}

// TestFree_DynamicRoundTrip verifies dynamic frees reclaim bytes and count.
func TestFree_DynamicRoundTrip(t *testing.T) {
	m := testutil.NewManager(t)

	a, err := m.Alloc(1000, mem.Dynamic, 8)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), m.Stats().PoolUsed)

	m.Free(a)
	s := m.Stats()
	assert.Zero(t, s.PoolUsed)
	assert.Equal(t, uint64(1000), s.PoolPeak)
	assert.Equal(t, uint64(1), s.Deallocations)
}

// TestArenaRemaining_AndOutOfCapacity verifies the remaining-capacity view
// and the hard failure on exhaustion.
func TestArenaRemaining_AndOutOfCapacity(t *testing.T) {
	m := testutil.NewManagerWith(t, mem.Config{
		ArenaCapacity:  1024,
		MaxPooledBlock: 1 << 10,
		BlocksPerChunk: 4,
	})

	assert.Equal(t, uint64(1024), m.ArenaRemaining())

	_, err := m.Alloc(600, mem.Deterministic, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(424), m.ArenaRemaining())

	_, err = m.Alloc(600, mem.Deterministic, 1)
	require.ErrorIs(t, err, arena.ErrOutOfCapacity)
	assert.Equal(t, uint64(424), m.ArenaRemaining(), "failed alloc must not consume capacity")

	m.ResetArena()
	assert.Equal(t, uint64(1024), m.ArenaRemaining())

	_, err = m.Alloc(600, mem.Deterministic, 1)
	require.NoError(t, err)
}

// TestInit_IdempotentConcurrent verifies Init is safe and idempotent under
// concurrent callers and that allocations all hit one arena.
func TestInit_IdempotentConcurrent(t *testing.T) {
	m := &mem.Manager{}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := m.Init(); err != nil {
				t.Errorf("Init: %v", err)
			}
		}()
	}
	wg.Wait()
	t.Cleanup(func() { _ = m.Close() })

	require.NoError(t, m.Init(), "repeat Init must be a no-op")

	a, err := m.Alloc(64, mem.Deterministic, 8)
	require.NoError(t, err)
	require.Len(t, a.Bytes(), 64)
	assert.Equal(t, uint64(64), m.Stats().ArenaUsed)
}

// TestUninitializedAccessPanics verifies use-before-Init fails loudly.
func TestUninitializedAccessPanics(t *testing.T) {
	var m mem.Manager
	assert.Panics(t, func() { _, _ = m.Alloc(8, mem.Deterministic, 8) })
	assert.Panics(t, func() { m.Free(mem.Allocation{}) })
	assert.Panics(t, func() { _ = m.Stats() })
	assert.Panics(t, func() { _ = m.ArenaRemaining() })

	var nilM *mem.Manager
	assert.Panics(t, func() { _, _ = nilM.Alloc(8, mem.Dynamic, 8) })
}

// TestPoolIDString covers the tag names.
func TestPoolIDString(t *testing.T) {
	assert.Equal(t, "deterministic", mem.Deterministic.String())
	assert.Equal(t, "dynamic", mem.Dynamic.String())
	assert.Equal(t, "unknown", mem.PoolID(7).String())
}
