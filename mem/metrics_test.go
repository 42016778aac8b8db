package mem_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daiw-audio/memkit/internal/testutil"
	"github.com/daiw-audio/memkit/mem"
)

// TestCollector_Gather registers the collector and checks every metric
// family reports the same numbers as Stats.
func TestCollector_Gather(t *testing.T) {
	m := testutil.NewManager(t)

	a, err := m.Alloc(4096, mem.Deterministic, 8)
	require.NoError(t, err)
	_ = a
	d, err := m.Alloc(300, mem.Dynamic, 8)
	require.NoError(t, err)
	m.Free(d)

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(mem.NewCollector(m)))

	families, err := reg.Gather()
	require.NoError(t, err)

	got := map[string]float64{}
	for _, fam := range families {
		require.Len(t, fam.GetMetric(), 1, "family %s", fam.GetName())
		metric := fam.GetMetric()[0]
		switch {
		case metric.GetGauge() != nil:
			got[fam.GetName()] = metric.GetGauge().GetValue()
		case metric.GetCounter() != nil:
			got[fam.GetName()] = metric.GetCounter().GetValue()
		}
	}

	s := m.Stats()
	assert.Equal(t, float64(s.ArenaUsed), got["memkit_arena_used_bytes"])
	assert.Equal(t, float64(s.ArenaCapacity), got["memkit_arena_capacity_bytes"])
	assert.Equal(t, float64(s.PoolUsed), got["memkit_pool_used_bytes"])
	assert.Equal(t, float64(s.PoolPeak), got["memkit_pool_peak_bytes"])
	assert.Equal(t, float64(2), got["memkit_allocations_total"])
	assert.Equal(t, float64(1), got["memkit_deallocations_total"])
	assert.Len(t, got, 6, "six metric families expected")
}
