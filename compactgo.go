package compactgo

import (
	"context"
	"iter"
	"time"

	"github.com/hupe1980/compactgo/offsetmap"
	"github.com/hupe1980/compactgo/record"
	"github.com/hupe1980/compactgo/throttle"
)

// Cleaner drives one cleaning-pass generation of the two-pass compaction
// protocol: BuildIndex scans the dirty range once and records the winning
// version per key, ShouldRetain then answers per-record retention questions
// on the rewrite scan.
//
// A Cleaner (and the Map it owns) belongs to exactly one cleaning
// goroutine. The configured Throttler and MetricsCollector may be shared
// across cleaners.
type Cleaner struct {
	m         *offsetmap.Map
	strategy  record.Strategy
	logger    *Logger
	metrics   MetricsCollector
	throttler *throttle.Throttler
	stats     PassStats
}

// New creates a Cleaner whose offset map fits within memoryBytes. The
// memory is allocated once and reused across generations via Reset.
func New(memoryBytes int, opts ...Option) (*Cleaner, error) {
	o := options{
		algorithm: offsetmap.DefaultAlgorithm,
		strategy:  record.ByOffset,
		logger:    NoopLogger(),
		metrics:   NoopMetricsCollector{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	m, err := offsetmap.New(memoryBytes,
		offsetmap.WithHashAlgorithm(o.algorithm),
		offsetmap.WithStrategy(o.strategy),
	)
	if err != nil {
		return nil, err
	}

	return &Cleaner{
		m:         m,
		strategy:  o.strategy,
		logger:    o.logger,
		metrics:   o.metrics,
		throttler: o.throttler,
	}, nil
}

// Map exposes the underlying offset map.
func (c *Cleaner) Map() *offsetmap.Map { return c.m }

// Stats returns a snapshot of the current generation's statistics.
func (c *Cleaner) Stats() PassStats { return c.stats }

// BuildIndex scans records in log order and caches the winning version per
// key. Keyed records go through Map.Put; keyless records only advance the
// latest scanned offset. The scan stops early, with stats.MapFull set, when
// every slot is occupied: records past that point stay dirty for the next
// generation.
//
// The iterator's error position reports decode failures from the caller's
// segment reader; the first such error aborts the pass.
func (c *Cleaner) BuildIndex(ctx context.Context, records iter.Seq2[record.Record, error]) (*PassStats, error) {
	if err := c.throttler.AcquirePass(ctx); err != nil {
		return nil, err
	}
	defer c.throttler.ReleasePass()

	start := time.Now()
	c.logger.LogPassStart(ctx, c.m.Capacity(), c.strategy.String())

	var err error
	for r, rerr := range records {
		if rerr != nil {
			err = rerr
			break
		}
		if cerr := ctx.Err(); cerr != nil {
			err = cerr
			break
		}
		if terr := c.throttler.Throttle(ctx, r.SizeInBytes()); terr != nil {
			err = terr
			break
		}

		if r.HasKey() && c.m.Size() == c.m.Capacity() {
			c.stats.MapFull = true
			c.logger.LogMapFull(ctx, c.stats.RecordsRead, c.m.LatestOffset())
			break
		}

		c.stats.RecordsRead++
		c.stats.BytesRead += int64(r.SizeInBytes())

		if !r.HasKey() {
			c.stats.KeylessRecords++
			if r.Offset() > c.m.LatestOffset() {
				c.m.UpdateLatestOffset(r.Offset())
			}
			continue
		}

		putStart := time.Now()
		updated, perr := c.m.Put(r)
		c.metrics.RecordPut(time.Since(putStart), updated, perr)
		if perr != nil {
			err = perr
			break
		}
		if updated {
			c.stats.RecordsIndexed++
		} else {
			c.stats.StaleSkipped++
		}
	}

	c.stats.Elapsed = time.Since(start)
	c.stats.MapUtilization = c.m.Utilization()
	c.stats.CollisionRate = c.m.CollisionRate()

	c.logger.LogPassEnd(ctx, &c.stats, err)
	if err != nil {
		return nil, err
	}

	c.metrics.RecordPass(&c.stats)
	return &c.stats, nil
}

// ShouldRetain decides, on the rewrite scan, whether a record instance
// survives compaction. Keyless records within the indexed range carry no
// retainable identity and are dropped. Records past the indexed range
// (offset above Map.LatestOffset) are always retained. Otherwise a record
// survives only when its version is at least the cached winning version
// for its key; a key the index never saw is retained as a precaution.
func (c *Cleaner) ShouldRetain(r record.Record) bool {
	start := time.Now()
	retained := c.shouldRetain(r)
	c.metrics.RecordRetentionCheck(retained, time.Since(start))
	if retained {
		c.stats.RetainedRecords++
	} else {
		c.stats.DiscardedRecords++
	}
	return retained
}

func (c *Cleaner) shouldRetain(r record.Record) bool {
	if r.Offset() > c.m.LatestOffset() {
		return true
	}
	if !r.HasKey() {
		return false
	}
	cached := c.m.Get(r.Key())
	if cached < 0 {
		return true
	}
	return c.strategy.Extract(r) >= cached
}

// Reset clears the map and statistics to begin the next generation,
// reusing the map's allocation.
func (c *Cleaner) Reset() {
	c.m.Clear()
	c.stats = PassStats{}
}
