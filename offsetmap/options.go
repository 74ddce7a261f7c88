package offsetmap

import "github.com/hupe1980/compactgo/record"

type config struct {
	algorithm string
	strategy  record.Strategy
}

// Option configures a Map at construction.
type Option func(*config)

// WithHashAlgorithm selects the key digest algorithm, case-insensitively.
// Built-in algorithms: "md5" (16-byte digest, default), "sha1" (20),
// "sha256" (32), "murmur3" (16), "xxhash64" (8).
func WithHashAlgorithm(name string) Option {
	return func(c *config) {
		c.algorithm = name
	}
}

// WithStrategy selects the version-extraction strategy. Defaults to
// record.ByOffset.
func WithStrategy(s record.Strategy) Option {
	return func(c *config) {
		c.strategy = s
	}
}
