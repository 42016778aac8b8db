package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/daiw-audio/memkit/mem"
	"github.com/daiw-audio/memkit/mem/buffer"
)

var (
	benchArenaBuffers int
	benchPoolOps      int
	benchSamples      int
	benchArenaCap     uint64
)

func init() {
	cmd := newBenchCmd()
	cmd.Flags().IntVar(&benchArenaBuffers, "arena-buffers", 256, "Deterministic buffers to allocate")
	cmd.Flags().IntVar(&benchPoolOps, "pool-ops", 10000, "Dynamic alloc/free operations")
	cmd.Flags().IntVar(&benchSamples, "samples", 4096, "Samples per buffer")
	cmd.Flags().Uint64Var(&benchArenaCap, "arena-capacity", 1<<30, "Arena capacity in bytes")
	rootCmd.AddCommand(cmd)
}

func newBenchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bench",
		Short: "Run a synthetic dual-pool workload and report stats",
		Long: `The bench command stands up a Manager, allocates a block of
session-lifetime audio buffers from the deterministic arena, churns the
dynamic pool with randomized transient allocations, and prints the
resulting statistics.

Example:
  memctl bench
  memctl bench --arena-buffers 512 --samples 8192 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench()
		},
	}
}

type benchReport struct {
	ArenaBuffers int           `json:"arena_buffers"`
	PoolOps      int           `json:"pool_ops"`
	Samples      int           `json:"samples"`
	Elapsed      time.Duration `json:"elapsed_ns"`
	Stats        mem.Stats     `json:"stats"`
}

func runBench() error {
	m, err := mem.New(mem.Config{ArenaCapacity: benchArenaCap})
	if err != nil {
		return fmt.Errorf("initialize manager: %w", err)
	}
	defer m.Close()

	start := time.Now()

	// Session-lifetime audio buffers: allocated once, never freed.
	slog.Debug("allocating deterministic buffers",
		"count", benchArenaBuffers, "samples", benchSamples)
	for i := 0; i < benchArenaBuffers; i++ {
		if _, err := buffer.New[float32](m, benchSamples, mem.Deterministic); err != nil {
			return fmt.Errorf("arena buffer %d: %w", i, err)
		}
	}

	// Transient churn on the dynamic side.
	slog.Debug("churning dynamic pool", "ops", benchPoolOps)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	var held []mem.Allocation
	for i := 0; i < benchPoolOps; i++ {
		if len(held) == 0 || rng.Intn(2) == 0 {
			a, err := m.Alloc(1+rng.Intn(1<<14), mem.Dynamic, 8)
			if err != nil {
				return fmt.Errorf("pool alloc: %w", err)
			}
			held = append(held, a)
		} else {
			last := len(held) - 1
			m.Free(held[last])
			held = held[:last]
		}
	}
	for _, a := range held {
		m.Free(a)
	}

	report := benchReport{
		ArenaBuffers: benchArenaBuffers,
		PoolOps:      benchPoolOps,
		Samples:      benchSamples,
		Elapsed:      time.Since(start),
		Stats:        m.Stats(),
	}
	if jsonOut {
		return printJSON(report)
	}
	printInfo("bench: %d arena buffers × %d samples, %d pool ops in %v\n",
		report.ArenaBuffers, report.Samples, report.PoolOps, report.Elapsed)
	printStats(report.Stats)
	return nil
}

// printStats renders a Stats snapshot in the human format.
func printStats(s mem.Stats) {
	printInfo("arena:  %d / %d bytes used\n", s.ArenaUsed, s.ArenaCapacity)
	printInfo("pool:   %d bytes used, %d peak\n", s.PoolUsed, s.PoolPeak)
	printInfo("counts: %d allocations, %d deallocations\n", s.Allocations, s.Deallocations)
}
