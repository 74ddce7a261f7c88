package compactgo

import "github.com/hupe1980/compactgo/offsetmap"

// Indexing errors surface directly from the offsetmap package; the aliases
// keep single-import callers ergonomic.
var (
	// ErrMapFull is returned when records are offered to a full index.
	ErrMapFull = offsetmap.ErrMapFull

	// ErrProbeLimit is returned when an insertion scan exhausts its probe
	// bound.
	ErrProbeLimit = offsetmap.ErrProbeLimit
)
