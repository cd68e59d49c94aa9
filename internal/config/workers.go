// Package config loads the driver's out-of-core settings: worker-pool
// sizing for cross-method compilation and the realization preference
// matrix. The per-user install-id env file is handled by internal/telemetry.
package config

import (
	"os"
	"runtime"
	"strconv"
)

// OptimalWorkerCount determines how many methods the driver compiles
// concurrently (spec §5's "cross-method parallelism... only at the top
// level of the driver"). It balances throughput against memory: each worker
// owns one method's VPM manager, CFG and MemoryAccess map exclusively.
//
//  1. Respect QPUC_MAX_WORKERS if set, capped at 32 for safety.
//  2. Otherwise use 75% of available CPU cores.
//  3. Bounded to [2, 16].
func OptimalWorkerCount() int {
	if env := os.Getenv("QPUC_MAX_WORKERS"); env != "" {
		if count, err := strconv.Atoi(env); err == nil && count > 0 {
			if count > 32 {
				count = 32
			}
			return count
		}
	}

	workers := int(float64(runtime.NumCPU()) * 0.75)
	if workers < 2 {
		workers = 2
	}
	if workers > 16 {
		workers = 16
	}
	return workers
}
