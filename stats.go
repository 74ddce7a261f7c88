package compactgo

import "time"

// PassStats accumulates the bookkeeping of one cleaning-pass generation.
// A fresh PassStats is produced per BuildIndex call and snapshot via Stats.
type PassStats struct {
	// RecordsRead counts every record scanned during index building.
	RecordsRead int64

	// BytesRead sums the wire sizes of scanned records.
	BytesRead int64

	// RecordsIndexed counts records whose version was written to the map.
	RecordsIndexed int64

	// StaleSkipped counts keyed records rejected because an equal-or-newer
	// version was already cached.
	StaleSkipped int64

	// KeylessRecords counts records that only advanced the latest offset.
	KeylessRecords int64

	// RetainedRecords and DiscardedRecords count second-pass decisions.
	RetainedRecords  int64
	DiscardedRecords int64

	// MapUtilization and CollisionRate are snapshots taken when the
	// index-building pass ends.
	MapUtilization float64
	CollisionRate  float64

	// MapFull is true when the scan stopped early because every slot was
	// occupied. Records past LatestOffset stay dirty for the next pass.
	MapFull bool

	// Elapsed is the wall time of the index-building pass.
	Elapsed time.Duration
}
