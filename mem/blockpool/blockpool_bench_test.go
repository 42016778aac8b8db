package blockpool

import (
	"testing"
)

// BenchmarkAllocFree measures the uncontended pop/push round trip.
func BenchmarkAllocFree(b *testing.B) {
	p, err := New(256, 1024)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf := p.Alloc()
		p.Free(buf)
	}
}

// BenchmarkAllocFree_Parallel measures the CAS loops under contention.
func BenchmarkAllocFree_Parallel(b *testing.B) {
	p, err := New(256, 4096)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			buf := p.Alloc()
			if buf != nil {
				p.Free(buf)
			}
		}
	})
}

// BenchmarkContains measures the pure bounds check.
func BenchmarkContains(b *testing.B) {
	p, err := New(64, 128)
	if err != nil {
		b.Fatal(err)
	}
	buf := p.Alloc()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if !p.Contains(buf) {
			b.Fatal("owned block not contained")
		}
	}
}
