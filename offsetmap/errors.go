package offsetmap

import (
	"errors"
	"fmt"
)

var (
	// ErrMapFull is returned by Put when every slot is occupied. Adding to
	// a full map is a caller error: the cleaning pass must stop feeding
	// records once Size() reaches Capacity().
	ErrMapFull = errors.New("offsetmap: attempt to add an entry to a full map")

	// ErrProbeLimit is returned by Put when the probe sequence exhausts its
	// attempt bound without finding an empty or matching slot.
	ErrProbeLimit = errors.New("offsetmap: probe limit exceeded before finding a slot")
)

// ErrUnknownAlgorithm indicates an unsupported hash algorithm name.
type ErrUnknownAlgorithm struct {
	Algorithm string
}

func (e *ErrUnknownAlgorithm) Error() string {
	return fmt.Sprintf("offsetmap: unknown hash algorithm %q", e.Algorithm)
}

// ErrInvalidMemoryBudget indicates a memory budget that is non-positive or
// too small to hold a single entry.
type ErrInvalidMemoryBudget struct {
	Bytes         int
	BytesPerEntry int
}

func (e *ErrInvalidMemoryBudget) Error() string {
	if e.Bytes <= 0 {
		return fmt.Sprintf("offsetmap: memory budget must be positive, got %d", e.Bytes)
	}
	return fmt.Sprintf("offsetmap: memory budget of %d bytes cannot hold a single %d-byte entry", e.Bytes, e.BytesPerEntry)
}

// ErrDigestTooSmall indicates a hash algorithm whose digest is too short to
// derive probe positions from.
type ErrDigestTooSmall struct {
	Algorithm string
	Size      int
}

func (e *ErrDigestTooSmall) Error() string {
	return fmt.Sprintf("offsetmap: algorithm %q produces a %d-byte digest, need at least %d", e.Algorithm, e.Size, minDigestSize)
}
