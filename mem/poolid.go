package mem

// PoolID selects the allocation policy for a request.
type PoolID uint8

const (
	// Deterministic routes to the monotonic arena: bump-allocated,
	// never individually freed, capacity-bounded. For the audio hot path.
	Deterministic PoolID = iota

	// Dynamic routes to the size-classed pool: individually freeable and
	// capacity-elastic. For transient and experimental allocations.
	Dynamic
)

// String returns the policy name.
func (id PoolID) String() string {
	switch id {
	case Deterministic:
		return "deterministic"
	case Dynamic:
		return "dynamic"
	default:
		return "unknown"
	}
}

// Allocation is the capability returned by Manager.Alloc. It carries the
// allocated bytes together with the pool that produced them, so a free
// against the wrong pool is unrepresentable. The zero Allocation is the
// null allocation: no bytes, safe to Free.
type Allocation struct {
	buf  []byte
	id   PoolID
	size int
}

// Bytes returns the allocated slice. Nil for the null allocation.
func (a Allocation) Bytes() []byte { return a.buf }

// Size returns the requested size in bytes.
func (a Allocation) Size() int { return a.size }

// PoolID returns the pool that produced this allocation.
func (a Allocation) PoolID() PoolID { return a.id }

// IsNull reports whether this is the null allocation.
func (a Allocation) IsNull() bool { return a.buf == nil }
