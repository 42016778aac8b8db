package mem

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/daiw-audio/memkit/internal/layout"
	"github.com/daiw-audio/memkit/mem/arena"
	"github.com/daiw-audio/memkit/mem/pool"
)

// ErrBadPoolID indicates an Alloc with a PoolID that names no pool.
var ErrBadPoolID = errors.New("mem: unknown pool id")

// Config sizes a Manager. Zero values take the documented defaults.
type Config struct {
	// ArenaCapacity is the fixed size of the deterministic arena region.
	// Default 4 GiB.
	ArenaCapacity uint64

	// MaxPooledBlock is the largest block the dynamic pool will cache;
	// larger requests fall through to the general allocator. Default 1 MiB.
	MaxPooledBlock int

	// BlocksPerChunk is how many blocks the pool carves per size-class
	// chunk. Default 128.
	BlocksPerChunk int
}

func (c Config) withDefaults() Config {
	if c.ArenaCapacity == 0 {
		c.ArenaCapacity = layout.DefaultArenaCapacity
	}
	if c.MaxPooledBlock <= 0 {
		c.MaxPooledBlock = layout.DefaultMaxPooledBlock
	}
	if c.BlocksPerChunk <= 0 {
		c.BlocksPerChunk = layout.DefaultBlocksPerChunk
	}
	return c
}

// Manager routes allocations to the deterministic arena or the dynamic
// pool and aggregates usage statistics. Construct one with New, pass it
// explicitly to every consumer, and Close it at process teardown.
//
// Alloc, Free, Stats and ArenaRemaining are safe for concurrent use from
// any goroutine. ResetArena and Close require external exclusivity (call
// them between sessions, never while audio is processing).
type Manager struct {
	mu          sync.Mutex
	initialized atomic.Bool

	cfg   Config
	arena *arena.Arena
	pool  *pool.Allocator

	allocs atomic.Uint64
	frees  atomic.Uint64
}

// New constructs and initializes a Manager.
func New(cfg Config) (*Manager, error) {
	m := &Manager{cfg: cfg}
	if err := m.Init(); err != nil {
		return nil, err
	}
	return m, nil
}

// Init reserves the arena region and builds the pool. It is idempotent and
// safe to call from multiple goroutines; later calls return nil without
// touching anything.
func (m *Manager) Init() error {
	if m.initialized.Load() {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.initialized.Load() {
		return nil
	}

	cfg := m.cfg.withDefaults()
	a, err := arena.New(cfg.ArenaCapacity)
	if err != nil {
		return fmt.Errorf("mem: initialize arena: %w", err)
	}
	m.cfg = cfg
	m.arena = a
	m.pool = pool.New(cfg.MaxPooledBlock, cfg.BlocksPerChunk)
	m.initialized.Store(true)
	return nil
}

// checkInit panics on use before Init. An allocation before startup
// ordering completes is a bug to surface, not a condition to recover from.
func (m *Manager) checkInit() {
	if m == nil || !m.initialized.Load() {
		panic("mem: Manager used before Init")
	}
}

// Alloc reserves n bytes from the pool named by id, aligned to align
// (align <= 0 means word alignment; Dynamic allocations are at least
// class-aligned regardless). n == 0 returns the null Allocation without
// touching either backing allocator.
func (m *Manager) Alloc(n int, id PoolID, align int) (Allocation, error) {
	m.checkInit()
	if n == 0 {
		return Allocation{}, nil
	}

	var (
		buf []byte
		err error
	)
	switch id {
	case Deterministic:
		buf, err = m.arena.Alloc(n, align)
	case Dynamic:
		buf, err = m.pool.Alloc(n)
	default:
		err = fmt.Errorf("%w: %d", ErrBadPoolID, id)
	}
	if err != nil {
		return Allocation{}, err
	}
	if buf == nil {
		return Allocation{}, nil
	}
	m.allocs.Add(1)
	return Allocation{buf: buf, id: id, size: n}, nil
}

// Free releases an Allocation back to the pool that produced it. The null
// Allocation is ignored. A Deterministic free is a no-op (the arena is
// reclaimed only by ResetArena) and does not count as a deallocation.
func (m *Manager) Free(a Allocation) {
	m.checkInit()
	if a.buf == nil {
		return
	}
	switch a.id {
	case Dynamic:
		m.pool.Free(a.buf)
		m.frees.Add(1)
	case Deterministic:
		// Monotonic side: nothing to do until ResetArena.
	}
}

// ResetArena reclaims the entire deterministic arena, invalidating every
// Deterministic allocation ever issued. Caller must guarantee no
// concurrent arena use; see arena.Arena.Reset.
func (m *Manager) ResetArena() {
	m.checkInit()
	m.arena.Reset()
}

// ArenaRemaining returns the unallocated bytes left in the arena.
func (m *Manager) ArenaRemaining() uint64 {
	m.checkInit()
	return m.arena.Remaining()
}

// TrimPool drops the dynamic pool's cached free blocks back to the
// garbage collector.
func (m *Manager) TrimPool() {
	m.checkInit()
	m.pool.Trim()
}

// Close releases the arena region. The Manager must not be used afterwards.
func (m *Manager) Close() error {
	if !m.initialized.Load() {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.initialized.Store(false)
	return m.arena.Close()
}
