package offsetmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProberWindows(t *testing.T) {
	p := newProber(1000, 16)
	require.Equal(t, 12, p.lastWindow)
	require.Equal(t, 1012, p.maxAttempts)

	// Windows are read at the attempt's byte offset, so planting a value at
	// digest[n+3] makes it the low byte of attempt n's window.
	digest := make([]byte, 16)
	digest[3] = 7  // window at offset 0
	digest[10] = 9 // window at offset 7
	digest[15] = 3 // final window, offset 12

	assert.Equal(t, 7, p.position(digest, 0))
	assert.Equal(t, 9, p.position(digest, 7))
	assert.Equal(t, 3, p.position(digest, 12))
}

func TestProberLinearTail(t *testing.T) {
	p := newProber(1000, 16)

	digest := make([]byte, 16)
	digest[15] = 3

	// Past the last window the position advances by one per attempt.
	assert.Equal(t, 3, p.position(digest, 12))
	assert.Equal(t, 4, p.position(digest, 13))
	assert.Equal(t, 5, p.position(digest, 14))
	assert.Equal(t, 11, p.position(digest, 20))
}

func TestProberNegativeWindow(t *testing.T) {
	p := newProber(1000, 16)

	// 0xFFFFFFFF reads as int32 -1; the sign mask keeps the index
	// non-negative: 0x7FFFFFFF % 1000 = 647.
	digest := make([]byte, 16)
	digest[0], digest[1], digest[2], digest[3] = 0xFF, 0xFF, 0xFF, 0xFF

	assert.Equal(t, 647, p.position(digest, 0))
}

func TestProberCountsProbes(t *testing.T) {
	p := newProber(8, 16)
	digest := make([]byte, 16)

	for attempt := range 5 {
		p.position(digest, attempt)
	}
	assert.Equal(t, uint64(5), p.probes)
}

func TestProberCoversEverySlotWithinBound(t *testing.T) {
	const slots = 16
	p := newProber(slots, 16)
	digest := make([]byte, 16) // all-zero windows pin the linear tail at 0

	seen := make(map[int]bool)
	for attempt := 0; attempt < p.maxAttempts; attempt++ {
		seen[p.position(digest, attempt)] = true
	}
	assert.Len(t, seen, slots)
}
