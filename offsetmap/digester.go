package offsetmap

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"hash"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
)

// DefaultAlgorithm is the key digest algorithm used when none is configured.
const DefaultAlgorithm = "md5"

// minDigestSize is the smallest digest the probe sequence can derive slot
// positions from (one 4-byte window).
const minDigestSize = 4

// digester turns record keys into fixed-size digests. The map stores only
// digests, never raw keys, so two keys hashing to the same digest are
// treated as the same key.
//
// A digester owns one reusable hash state and is not safe for concurrent
// use, matching the map's single-owner contract.
type digester struct {
	h    hash.Hash
	size int
}

// newDigester resolves an algorithm name, case-insensitively. Larger
// digests lower the false-merge probability at the cost of memory density.
func newDigester(algorithm string) (*digester, error) {
	var h hash.Hash
	switch strings.ToLower(algorithm) {
	case "md5":
		h = md5.New() // nolint gosec -- key fingerprinting, not authentication
	case "sha1":
		h = sha1.New() // nolint gosec
	case "sha256":
		h = sha256.New()
	case "murmur3":
		h = murmur3.New128()
	case "xxhash64":
		h = xxhash.New()
	default:
		return nil, &ErrUnknownAlgorithm{Algorithm: algorithm}
	}
	d := &digester{h: h, size: h.Size()}
	if d.size < minDigestSize {
		return nil, &ErrDigestTooSmall{Algorithm: algorithm, Size: d.size}
	}
	return d, nil
}

// sum writes the digest of key into dst, which must have capacity for size
// bytes. The key is only read; hashing leaves the caller's representation
// untouched.
func (d *digester) sum(key, dst []byte) {
	d.h.Reset()
	d.h.Write(key) // hash.Hash.Write never returns an error
	d.h.Sum(dst[:0])
}
