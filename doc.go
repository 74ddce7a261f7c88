// Package compactgo provides an embeddable log-compaction toolkit for Go.
//
// Log compaction keeps the newest copy of every key in a log and discards
// the rest. The expensive part is knowing, within a bounded amount of
// memory, which copy of a key is the newest: compactgo answers that with a
// fixed-capacity offset map (see the offsetmap package) that stores only
// key digests paired with a 64-bit version.
//
// # Quick Start
//
// Build the index over a first scan of the dirty log range, then use it to
// decide retention on a second scan:
//
//	cleaner, err := compactgo.New(64*1024*1024, // 64 MiB index budget
//	    compactgo.WithStrategy(record.ByTimestamp),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	stats, err := cleaner.BuildIndex(ctx, scanDirtyRange())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for r := range scanWholeLog() {
//	    if cleaner.ShouldRetain(r) {
//	        writeToCompactedSegment(r)
//	    }
//	}
//
// Segment I/O, segment selection, output rewriting and progress
// checkpointing belong to the caller; compactgo only consumes records
// through the record.Record view and answers retention questions.
//
// # Ordering strategies
//
// Versions can be ordered by log offset (default), record timestamp, or an
// application header carrying a varlong version counter. See record.Strategy.
//
// # Concurrency
//
// One Cleaner (and its Map) per cleaning goroutine, never shared. The
// throttle.Throttler and the metrics collectors may be shared across passes.
package compactgo
