// Package mem is the single access point for the dual-strategy memory
// subsystem: a deterministic, never-freed monotonic arena for the audio
// hot path and an elastic size-classed pool for exploratory work, owned
// together by one explicitly constructed Manager.
//
// Callers tag every allocation with a PoolID. Deterministic requests bump
// the arena and are reclaimed only by ResetArena; Dynamic requests go to
// the pool and support real per-allocation frees. Alloc returns an
// Allocation capability that remembers its origin, so Free can never be
// called against the wrong side.
//
//	m, err := mem.New(mem.Config{})
//	if err != nil {
//		return err
//	}
//	defer m.Close()
//
//	a, err := m.Alloc(4096, mem.Deterministic, 64)
//	if err != nil {
//		return err // arena exhaustion is a hard failure, fail fast
//	}
//	// ... use a.Bytes() for the life of the session ...
//	m.Free(a) // no-op for Deterministic allocations
//
// One Manager per process is the intended shape; the application owns it
// and threads it through to every consumer. There is no package-level
// instance.
//
// Statistics are available synchronously through Stats and as Prometheus
// metrics through Collector. The related packages
// github.com/daiw-audio/memkit/mem/blockpool (lock-free fixed-block
// primitive) and github.com/daiw-audio/memkit/mem/buffer (typed,
// zero-filled buffers over a Manager) build on or beside this one.
package mem
