// Package prom implements compactgo.MetricsCollector on top of Prometheus.
//
// Collectors are registered on a caller-supplied Registerer so embedding
// applications keep control of their metric namespace and registry.
package prom

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hupe1980/compactgo"
)

// Collector exports compaction metrics to Prometheus. It is safe for use
// by multiple cleaning goroutines.
type Collector struct {
	puts          *prometheus.CounterVec
	putErrors     prometheus.Counter
	putDuration   prometheus.Histogram
	checks        *prometheus.CounterVec
	passes        prometheus.Counter
	passRecords   prometheus.Counter
	passBytes     prometheus.Counter
	utilization   prometheus.Gauge
	collisionRate prometheus.Gauge
}

var _ compactgo.MetricsCollector = (*Collector)(nil)

// NewCollector creates a Collector and registers its metrics on reg.
// If reg is nil, prometheus.DefaultRegisterer is used.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Collector{
		puts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "compactgo_index_puts_total",
			Help: "Index insertion attempts, by outcome",
		}, []string{"outcome"}),
		putErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "compactgo_index_put_errors_total",
			Help: "Index insertion attempts rejected with an error",
		}),
		putDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "compactgo_index_put_duration_seconds",
			Help:    "Duration of index insertion attempts",
			Buckets: []float64{.0000001, .000001, .00001, .0001, .001, .01},
		}),
		checks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "compactgo_retention_checks_total",
			Help: "Retention decisions, by outcome",
		}, []string{"outcome"}),
		passes: factory.NewCounter(prometheus.CounterOpts{
			Name: "compactgo_passes_total",
			Help: "Completed index-building passes",
		}),
		passRecords: factory.NewCounter(prometheus.CounterOpts{
			Name: "compactgo_pass_records_total",
			Help: "Records scanned by index-building passes",
		}),
		passBytes: factory.NewCounter(prometheus.CounterOpts{
			Name: "compactgo_pass_bytes_total",
			Help: "Bytes scanned by index-building passes",
		}),
		utilization: factory.NewGauge(prometheus.GaugeOpts{
			Name: "compactgo_map_utilization",
			Help: "Offset map load factor at the end of the last pass",
		}),
		collisionRate: factory.NewGauge(prometheus.GaugeOpts{
			Name: "compactgo_map_collision_rate",
			Help: "Extra probes per lookup at the end of the last pass",
		}),
	}
}

// RecordPut implements compactgo.MetricsCollector.
func (c *Collector) RecordPut(duration time.Duration, updated bool, err error) {
	c.putDuration.Observe(duration.Seconds())
	if err != nil {
		c.putErrors.Inc()
		return
	}
	if updated {
		c.puts.WithLabelValues("written").Inc()
	} else {
		c.puts.WithLabelValues("stale").Inc()
	}
}

// RecordRetentionCheck implements compactgo.MetricsCollector.
func (c *Collector) RecordRetentionCheck(retained bool, _ time.Duration) {
	if retained {
		c.checks.WithLabelValues("retained").Inc()
	} else {
		c.checks.WithLabelValues("discarded").Inc()
	}
}

// RecordPass implements compactgo.MetricsCollector.
func (c *Collector) RecordPass(stats *compactgo.PassStats) {
	c.passes.Inc()
	c.passRecords.Add(float64(stats.RecordsRead))
	c.passBytes.Add(float64(stats.BytesRead))
	c.utilization.Set(stats.MapUtilization)
	c.collisionRate.Set(stats.CollisionRate)
}
