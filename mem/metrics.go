package mem

import "github.com/prometheus/client_golang/prometheus"

// Collector exposes a Manager's statistics as Prometheus metrics. The
// library never registers or scrapes anything on its own; wire it up with
//
//	prometheus.MustRegister(mem.NewCollector(m))
type Collector struct {
	m *Manager

	arenaUsed     *prometheus.Desc
	arenaCapacity *prometheus.Desc
	poolUsed      *prometheus.Desc
	poolPeak      *prometheus.Desc
	allocations   *prometheus.Desc
	deallocations *prometheus.Desc
}

// NewCollector returns a Collector over m.
func NewCollector(m *Manager) *Collector {
	return &Collector{
		m: m,
		arenaUsed: prometheus.NewDesc(
			"memkit_arena_used_bytes",
			"Bytes consumed from the deterministic arena, padding included.",
			nil, nil),
		arenaCapacity: prometheus.NewDesc(
			"memkit_arena_capacity_bytes",
			"Fixed capacity of the deterministic arena.",
			nil, nil),
		poolUsed: prometheus.NewDesc(
			"memkit_pool_used_bytes",
			"Live bytes allocated from the dynamic pool.",
			nil, nil),
		poolPeak: prometheus.NewDesc(
			"memkit_pool_peak_bytes",
			"Historical maximum of live dynamic pool bytes.",
			nil, nil),
		allocations: prometheus.NewDesc(
			"memkit_allocations_total",
			"Successful allocations across both pools.",
			nil, nil),
		deallocations: prometheus.NewDesc(
			"memkit_deallocations_total",
			"Real deallocations; the arena side never contributes.",
			nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.arenaUsed
	ch <- c.arenaCapacity
	ch <- c.poolUsed
	ch <- c.poolPeak
	ch <- c.allocations
	ch <- c.deallocations
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.m.Stats()
	ch <- prometheus.MustNewConstMetric(c.arenaUsed, prometheus.GaugeValue, float64(s.ArenaUsed))
	ch <- prometheus.MustNewConstMetric(c.arenaCapacity, prometheus.GaugeValue, float64(s.ArenaCapacity))
	ch <- prometheus.MustNewConstMetric(c.poolUsed, prometheus.GaugeValue, float64(s.PoolUsed))
	ch <- prometheus.MustNewConstMetric(c.poolPeak, prometheus.GaugeValue, float64(s.PoolPeak))
	ch <- prometheus.MustNewConstMetric(c.allocations, prometheus.CounterValue, float64(s.Allocations))
	ch <- prometheus.MustNewConstMetric(c.deallocations, prometheus.CounterValue, float64(s.Deallocations))
}
