package record

import (
	"encoding/binary"
	"strings"
)

// NoVersion is the sentinel returned by Strategy.Extract when a record has
// no applicable version (no key, no matching header, empty header value).
const NoVersion int64 = -1

type strategyKind uint8

const (
	kindOffset strategyKind = iota
	kindTimestamp
	kindHeader
)

// Strategy selects which scalar of a record represents its version for
// compaction ordering. The zero value orders by offset.
//
// Ordering by offset keeps the physically latest copy of a key, ordering by
// timestamp keeps the logically latest one (out-of-order producers), and
// ordering by a header value lets applications embed their own monotonic
// version counter (idempotent upserts).
//
// A Strategy is resolved once at construction; Extract performs no string
// comparison against strategy names.
type Strategy struct {
	kind   strategyKind
	header string // trimmed, case-folded header key for kindHeader
}

// ByOffset orders versions by log position. This is the default.
var ByOffset = Strategy{kind: kindOffset}

// ByTimestamp orders versions by record timestamp.
var ByTimestamp = Strategy{kind: kindTimestamp}

// ByHeader orders versions by the varlong-decoded value of the named
// header. The name is trimmed and matched case-insensitively.
func ByHeader(name string) Strategy {
	return Strategy{kind: kindHeader, header: foldHeaderKey(name)}
}

// ParseStrategy resolves a strategy from its configuration string,
// case-insensitively. "offset" (or empty) and "timestamp" select the
// built-in orderings; any other value is taken to be a header key and
// selects ByHeader with that name.
func ParseStrategy(s string) Strategy {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "offset":
		return ByOffset
	case "timestamp":
		return ByTimestamp
	default:
		return ByHeader(s)
	}
}

// String returns the configuration string form of the strategy.
func (s Strategy) String() string {
	switch s.kind {
	case kindTimestamp:
		return "timestamp"
	case kindHeader:
		return s.header
	default:
		return "offset"
	}
}

// Extract returns the record's version under this strategy, or NoVersion
// when the record has no applicable version.
func (s Strategy) Extract(r Record) int64 {
	switch s.kind {
	case kindTimestamp:
		return r.Timestamp()
	case kindHeader:
		return s.extractHeader(r)
	default:
		return r.Offset()
	}
}

func (s Strategy) extractHeader(r Record) int64 {
	if !r.HasKey() {
		return NoVersion
	}
	for _, h := range r.Headers() {
		if foldHeaderKey(h.Key) != s.header {
			continue
		}
		if len(h.Value) == 0 {
			return NoVersion
		}
		// Header versions are zigzag varlongs, the encoding the log's
		// wire format uses for header-embedded integers.
		v, n := binary.Varint(h.Value)
		if n <= 0 {
			return NoVersion
		}
		return v
	}
	return NoVersion
}

func foldHeaderKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}
