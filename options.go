package compactgo

import (
	"github.com/hupe1980/compactgo/record"
	"github.com/hupe1980/compactgo/throttle"
)

type options struct {
	algorithm string
	strategy  record.Strategy
	logger    *Logger
	metrics   MetricsCollector
	throttler *throttle.Throttler
}

// Option configures Cleaner construction.
type Option func(*options)

// WithHashAlgorithm selects the key digest algorithm for the offset map.
// See offsetmap.WithHashAlgorithm for the built-in algorithms.
func WithHashAlgorithm(name string) Option {
	return func(o *options) {
		o.algorithm = name
	}
}

// WithStrategy selects how record versions are ordered. Defaults to
// record.ByOffset. Use record.ParseStrategy to resolve a configuration
// string.
func WithStrategy(s record.Strategy) Option {
	return func(o *options) {
		o.strategy = s
	}
}

// WithLogger configures structured logging. If nil is passed, logging is
// disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector configures metrics collection. If nil is passed,
// NoopMetricsCollector is used.
func WithMetricsCollector(m MetricsCollector) Option {
	return func(o *options) {
		if m == nil {
			m = NoopMetricsCollector{}
		}
		o.metrics = m
	}
}

// WithThrottler configures byte-rate throttling of index-building scans.
// The throttler may be shared across cleaners; nil disables throttling.
func WithThrottler(t *throttle.Throttler) Option {
	return func(o *options) {
		o.throttler = t
	}
}
