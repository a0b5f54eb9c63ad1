package pak

import (
	"log/slog"

	"github.com/meigma/pak/internal/write"
)

// Option configures an Archive.
type Option func(*config)

type config struct {
	logger        *slog.Logger
	fallback      bool
	skip          []write.SkipCompressionFunc
	nestedPattern string
	maxEntrySize  uint64
	maxDepth      int
	maxExpanded   uint64
}

func defaultConfig() config {
	return config{
		fallback:      true,
		nestedPattern: DefaultNestedPattern,
		maxDepth:      DefaultMaxNestingDepth,
		maxExpanded:   DefaultMaxExpandedSize,
	}
}

// WithLogger sets the logger for archive operations.
// If nil, a discard logger is used (default behavior).
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithStoreFallback controls whether an entry whose compressed payload is
// not smaller than its data is stored uncompressed instead.
// Enabled by default.
func WithStoreFallback(enabled bool) Option {
	return func(c *config) {
		c.fallback = enabled
	}
}

// WithSkipCompression adds predicates that force entries to be stored
// uncompressed. If any predicate returns true the requested method is
// ignored.
func WithSkipCompression(fns ...SkipCompressionFunc) Option {
	return func(c *config) {
		c.skip = append(c.skip, fns...)
	}
}

// WithNestedPattern sets the glob pattern selecting the entries that
// Flatten treats as nested archives. The default is "*.pak".
func WithNestedPattern(pattern string) Option {
	return func(c *config) {
		c.nestedPattern = pattern
	}
}

// WithMaxEntrySize limits the decompressed size of any single entry, both
// when adding data and when loading an image. Set limit to 0 to allow the
// format maximum.
func WithMaxEntrySize(limit uint64) Option {
	return func(c *config) {
		c.maxEntrySize = limit
	}
}

// WithMaxNestingDepth limits how many levels of nested archives Flatten
// expands. Deeper nesting fails with ErrCorruptArchive. Set n to 0 to
// remove the limit.
func WithMaxNestingDepth(n int) Option {
	return func(c *config) {
		c.maxDepth = n
	}
}

// WithMaxExpandedSize limits the total number of bytes Flatten may decode
// across all nested archives in one call. Exceeding it fails with
// ErrCorruptArchive. Set limit to 0 to remove the limit.
func WithMaxExpandedSize(limit uint64) Option {
	return func(c *config) {
		c.maxExpanded = limit
	}
}
