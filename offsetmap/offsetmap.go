// Package offsetmap implements the fixed-memory key-to-version index at the
// heart of log compaction.
//
// A cleaning pass must know, for every key ever written to a log, the
// version of its newest copy, so older copies can be dropped. Re-reading
// the log per key is infeasible; instead the Map keeps one (digest, version)
// entry per key in a flat byte buffer sized from a caller-chosen memory
// budget. Raw keys are never stored.
//
// The Map is approximate in two documented ways:
//   - Distinct keys whose digests collide are treated as the same key.
//   - A heavily collided table can declare a present key missing once the
//     probe sequence exhausts its attempt bound.
//
// Both probabilities shrink with larger digests; the surrounding compaction
// logic must tolerate them.
//
// One Map instance is owned by exactly one cleaning goroutine. There is no
// internal locking; concurrent mutation is undefined.
package offsetmap

import (
	"bytes"
	"encoding/binary"

	"github.com/hupe1980/compactgo/record"
)

// valueSize is the width of the stored version, big-endian.
const valueSize = 8

// Map is a fixed-capacity open-addressing hash table from key digests to
// 64-bit versions. Memory is allocated once at construction and reused in
// place across Clear calls; the slot count never changes.
type Map struct {
	digester *digester
	strategy record.Strategy
	prober   *prober

	buf           []byte
	slots         int
	bytesPerEntry int

	digest []byte // scratch digest, reused across calls

	entries    int
	lookups    uint64
	lastOffset int64 // max raw offset ever seen, independent of strategy
}

// New creates a Map whose table fits within memoryBytes. The slot count is
// memoryBytes / (digestSize + 8), fixed for the map's lifetime. New fails
// fast on a non-positive budget, an unknown hash algorithm, a digest
// shorter than 4 bytes, or a budget too small for a single entry.
func New(memoryBytes int, opts ...Option) (*Map, error) {
	cfg := config{
		algorithm: DefaultAlgorithm,
		strategy:  record.ByOffset,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if memoryBytes <= 0 {
		return nil, &ErrInvalidMemoryBudget{Bytes: memoryBytes}
	}

	dig, err := newDigester(cfg.algorithm)
	if err != nil {
		return nil, err
	}

	bytesPerEntry := dig.size + valueSize
	slots := memoryBytes / bytesPerEntry
	if slots < 1 {
		return nil, &ErrInvalidMemoryBudget{Bytes: memoryBytes, BytesPerEntry: bytesPerEntry}
	}

	return &Map{
		digester:      dig,
		strategy:      cfg.strategy,
		prober:        newProber(slots, dig.size),
		buf:           make([]byte, slots*bytesPerEntry),
		slots:         slots,
		bytesPerEntry: bytesPerEntry,
		digest:        make([]byte, dig.size),
		lastOffset:    -1,
	}, nil
}

// Capacity returns the total number of slots, constant for the map's
// lifetime.
func (m *Map) Capacity() int { return m.slots }

// Size returns the number of occupied slots. It grows only on first
// insertion of a digest, never on overwrite.
func (m *Map) Size() int { return m.entries }

// Utilization returns the load factor, Size over Capacity.
func (m *Map) Utilization() float64 {
	return float64(m.entries) / float64(m.slots)
}

// CollisionRate returns the average number of extra probes per lookup.
// It is 0 before the first lookup.
func (m *Map) CollisionRate() float64 {
	if m.lookups == 0 {
		return 0
	}
	return (float64(m.prober.probes) - float64(m.lookups)) / float64(m.lookups)
}

// LatestOffset returns the largest raw offset ever observed by Put or
// UpdateLatestOffset, or -1 if none. It tracks log position regardless of
// the configured version strategy.
func (m *Map) LatestOffset() int64 { return m.lastOffset }

// UpdateLatestOffset records the offset of a record that was scanned but
// not inserted (for example a keyless record), keeping the scanned-through
// position accurate.
func (m *Map) UpdateLatestOffset(offset int64) {
	m.lastOffset = offset
}

// Put offers a record to the map. It returns (false, nil) without mutation
// when the record has no key or when an equal-or-newer version is already
// cached for it. Otherwise the record's version is written: an existing
// entry for the digest has only its value overwritten (size unchanged),
// while a new digest takes the first empty slot on its probe sequence and
// grows Size by one.
//
// Calling Put on a full map is a caller error and returns ErrMapFull.
func (m *Map) Put(r record.Record) (bool, error) {
	if m.entries >= m.slots {
		return false, ErrMapFull
	}
	if !r.HasKey() || !m.Greater(r) {
		return false, nil
	}

	version := m.strategy.Extract(r)

	// Second, independent probe pass over the same digest: Greater already
	// performed a full lookup above.
	m.lookups++
	m.digester.sum(r.Key(), m.digest)
	for attempt := 0; attempt < m.prober.maxAttempts; attempt++ {
		pos := m.prober.position(m.digest, attempt) * m.bytesPerEntry
		if m.isEmpty(pos) {
			// First insertion of this digest.
			copy(m.buf[pos:], m.digest)
			binary.BigEndian.PutUint64(m.buf[pos+len(m.digest):pos+m.bytesPerEntry], uint64(version))
			m.entries++
			m.advanceLatest(r.Offset())
			return true, nil
		}
		if bytes.Equal(m.buf[pos:pos+len(m.digest)], m.digest) {
			// Existing entry: overwrite the value only.
			binary.BigEndian.PutUint64(m.buf[pos+len(m.digest):pos+m.bytesPerEntry], uint64(version))
			m.advanceLatest(r.Offset())
			return true, nil
		}
	}
	return false, ErrProbeLimit
}

// Get returns the version cached for key, or -1 when no entry is found.
// A miss declared after the probe bound is exhausted is indistinguishable
// from a true miss; see the package documentation.
func (m *Map) Get(key []byte) int64 {
	m.lookups++
	m.digester.sum(key, m.digest)

	for attempt := 0; attempt < m.prober.maxAttempts; attempt++ {
		pos := m.prober.position(m.digest, attempt) * m.bytesPerEntry
		if m.isEmpty(pos) {
			return record.NoVersion
		}
		if bytes.Equal(m.buf[pos:pos+len(m.digest)], m.digest) {
			return int64(binary.BigEndian.Uint64(m.buf[pos+len(m.digest) : pos+m.bytesPerEntry]))
		}
	}
	// The probe sequence has visited every slot.
	return record.NoVersion
}

// Greater reports whether the record's version supersedes what the map has
// cached for its key. An absent or strictly smaller cached version counts;
// an equal one does not.
func (m *Map) Greater(r record.Record) bool {
	cached := m.Get(r.Key())
	return cached < 0 || cached < m.strategy.Extract(r)
}

// Clear resets the map for the next cleaning generation, reusing the same
// allocation: every counter returns to its initial value and the whole
// buffer is zero-filled. The hash is not reseeded; a digest computed before
// Clear cannot resolve to a stale value because the values are zeroed
// together with the digests.
func (m *Map) Clear() {
	m.entries = 0
	m.lookups = 0
	m.prober.probes = 0
	m.lastOffset = -1
	clear(m.buf)
}

func (m *Map) advanceLatest(offset int64) {
	if offset > m.lastOffset {
		m.lastOffset = offset
	}
}

// isEmpty reports whether every byte of the entry at pos is zero. A
// legitimate all-zero digest+value pair is indistinguishable from an empty
// slot; an accepted approximation.
func (m *Map) isEmpty(pos int) bool {
	for _, b := range m.buf[pos : pos+m.bytesPerEntry] {
		if b != 0 {
			return false
		}
	}
	return true
}
