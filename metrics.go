package compactgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; the prom
// subpackage ships a Prometheus implementation.
type MetricsCollector interface {
	// RecordPut is called after each index insertion attempt.
	// updated is true when the record's version was written,
	// err is nil if the map accepted the call.
	RecordPut(duration time.Duration, updated bool, err error)

	// RecordRetentionCheck is called after each retention decision.
	RecordRetentionCheck(retained bool, duration time.Duration)

	// RecordPass is called once per completed index-building pass.
	RecordPass(stats *PassStats)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordPut(time.Duration, bool, error)     {}
func (NoopMetricsCollector) RecordRetentionCheck(bool, time.Duration) {}
func (NoopMetricsCollector) RecordPass(*PassStats)                    {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
// Safe for use by multiple cleaning goroutines.
type BasicMetricsCollector struct {
	PutCount        atomic.Int64
	PutUpdated      atomic.Int64
	PutErrors       atomic.Int64
	PutTotalNanos   atomic.Int64
	ChecksRetained  atomic.Int64
	ChecksDiscarded atomic.Int64
	PassCount       atomic.Int64
	PassRecords     atomic.Int64
	PassBytes       atomic.Int64
}

// RecordPut implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPut(duration time.Duration, updated bool, err error) {
	b.PutCount.Add(1)
	b.PutTotalNanos.Add(duration.Nanoseconds())
	if updated {
		b.PutUpdated.Add(1)
	}
	if err != nil {
		b.PutErrors.Add(1)
	}
}

// RecordRetentionCheck implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRetentionCheck(retained bool, duration time.Duration) {
	if retained {
		b.ChecksRetained.Add(1)
	} else {
		b.ChecksDiscarded.Add(1)
	}
}

// RecordPass implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPass(stats *PassStats) {
	b.PassCount.Add(1)
	b.PassRecords.Add(stats.RecordsRead)
	b.PassBytes.Add(stats.BytesRead)
}
