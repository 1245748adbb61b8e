// Package health wraps github.com/shirou/gopsutil/v4 to report host CPU and
// memory stats, used by the admin API's /healthz endpoint and by the
// transcode executor to pick a host-aware default worker count when
// TRANSCODE_PARALLELISM is unset (SPEC_FULL.md's "host-aware default
// concurrency" supplement).
package health

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Snapshot is a point-in-time view of host resources.
type Snapshot struct {
	LogicalCPUs   int
	CPUPercent    float64
	MemoryPercent float64
	MemoryUsedMB  uint64
	MemoryTotalMB uint64
}

// Collect gathers a Snapshot, tolerating partial failures from gopsutil
// (e.g. inside a restricted container) by leaving the affected fields zero
// rather than failing the whole call.
func Collect(ctx context.Context) Snapshot {
	var snap Snapshot

	if n, err := cpu.CountsWithContext(ctx, true); err == nil {
		snap.LogicalCPUs = n
	}

	cctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	if pct, err := cpu.PercentWithContext(cctx, 0, false); err == nil && len(pct) > 0 {
		snap.CPUPercent = pct[0]
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		snap.MemoryPercent = vm.UsedPercent
		snap.MemoryUsedMB = vm.Used / (1024 * 1024)
		snap.MemoryTotalMB = vm.Total / (1024 * 1024)
	}

	return snap
}

// DefaultParallelism returns min(2, logical CPU count), falling back to 1
// if gopsutil cannot determine the core count at all.
func DefaultParallelism(ctx context.Context) int {
	n, err := cpu.CountsWithContext(ctx, true)
	if err != nil || n < 1 {
		return 1
	}
	if n < 2 {
		return n
	}
	return 2
}
