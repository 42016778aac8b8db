package mem

// Stats is a point-in-time snapshot of subsystem usage.
type Stats struct {
	// ArenaUsed and ArenaCapacity describe the deterministic arena.
	// ArenaUsed includes alignment padding.
	ArenaUsed     uint64 `json:"arena_used_bytes"`
	ArenaCapacity uint64 `json:"arena_capacity_bytes"`

	// PoolUsed is the dynamic pool's live byte count; PoolPeak is its
	// historical maximum.
	PoolUsed uint64 `json:"pool_used_bytes"`
	PoolPeak uint64 `json:"pool_peak_bytes"`

	// Allocations counts successful allocations on both sides.
	// Deallocations counts real frees, which only the dynamic side
	// performs: in any correct run the arena contributes zero.
	Allocations   uint64 `json:"allocations"`
	Deallocations uint64 `json:"deallocations"`
}

// Stats returns a snapshot of current usage. Counters are read
// individually, so a snapshot taken during concurrent traffic is
// internally consistent only at quiescence.
func (m *Manager) Stats() Stats {
	m.checkInit()
	return Stats{
		ArenaUsed:     m.arena.Used(),
		ArenaCapacity: m.arena.Capacity(),
		PoolUsed:      m.pool.Used(),
		PoolPeak:      m.pool.Peak(),
		Allocations:   m.allocs.Load(),
		Deallocations: m.frees.Load(),
	}
}
