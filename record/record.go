// Package record defines the read-only record view consumed by the
// compaction index, together with the version-extraction strategy that
// decides which scalar of a record represents its "newness".
//
// The surrounding log cleaner owns record decoding; this package only
// describes the minimal surface the index needs: key, offset, timestamp,
// headers and wire size.
package record

// Header is a single record header. Header order is significant: version
// extraction uses the first header whose key matches.
type Header struct {
	Key   string
	Value []byte
}

// Record is a read-only view of a single log record supplied by the
// surrounding cleaner. Implementations must be cheap value accessors;
// none of the methods may perform I/O.
type Record interface {
	// HasKey reports whether the record carries a key. Keyless records
	// cannot participate in compaction.
	HasKey() bool

	// Key returns the record key. Only valid when HasKey is true.
	Key() []byte

	// Offset returns the record's position in the log.
	Offset() int64

	// Timestamp returns the record timestamp in milliseconds.
	Timestamp() int64

	// Headers returns the record headers in wire order. May be empty.
	Headers() []Header

	// SizeInBytes returns the record's size on the wire, used for
	// byte-level throttling and pass statistics.
	SizeInBytes() int
}

// Simple is a plain in-memory Record implementation, convenient for tests
// and for cleaners that materialize records before indexing.
type Simple struct {
	K     []byte
	Off   int64
	TS    int64
	Hdrs  []Header
	Bytes int
}

var _ Record = (*Simple)(nil)

// HasKey implements Record.
func (s *Simple) HasKey() bool { return s.K != nil }

// Key implements Record.
func (s *Simple) Key() []byte { return s.K }

// Offset implements Record.
func (s *Simple) Offset() int64 { return s.Off }

// Timestamp implements Record.
func (s *Simple) Timestamp() int64 { return s.TS }

// Headers implements Record.
func (s *Simple) Headers() []Header { return s.Hdrs }

// SizeInBytes implements Record.
func (s *Simple) SizeInBytes() int { return s.Bytes }
