package metrics

import (
	"sync/atomic"
	"time"
)

// Collector counts pay-run outcomes. Safe for concurrent use by run workers.
type Collector struct {
	processed       uint64
	failed          uint64
	warnings        uint64
	totalDurationUs uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(failed bool, warnings int, duration time.Duration) {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.processed, 1)
	if failed {
		atomic.AddUint64(&c.failed, 1)
	}
	if warnings > 0 {
		atomic.AddUint64(&c.warnings, uint64(warnings))
	}
	atomic.AddUint64(&c.totalDurationUs, uint64(duration.Microseconds()))
}

func (c *Collector) Snapshot() map[string]any {
	if c == nil {
		return map[string]any{}
	}
	total := atomic.LoadUint64(&c.processed)
	failed := atomic.LoadUint64(&c.failed)
	warnings := atomic.LoadUint64(&c.warnings)
	totalUs := atomic.LoadUint64(&c.totalDurationUs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalUs) / float64(total)
	}
	return map[string]any{
		"employeesProcessed": total,
		"employeesFailed":    failed,
		"warningsTotal":      warnings,
		"avgComputeUs":       avg,
		"totalComputeUs":     totalUs,
	}
}
