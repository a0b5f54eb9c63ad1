// Package write holds the per-file decisions made while adding content to
// an archive.
package write

import (
	"path/filepath"
	"strings"
)

// SkipCompressionFunc returns true when an entry should be stored
// uncompressed. It is called once per added entry and should be
// inexpensive.
type SkipCompressionFunc func(name string, size int) bool

// DefaultSkipCompression returns a SkipCompressionFunc that skips small
// entries and known already-compressed extensions.
func DefaultSkipCompression(minSize int) SkipCompressionFunc {
	return func(name string, size int) bool {
		if minSize > 0 && size < minSize {
			return true
		}
		ext := strings.ToLower(filepath.Ext(name))
		_, ok := defaultSkipCompressionExts[ext]
		return ok
	}
}

// ShouldSkip checks if any predicate returns true for the given entry.
func ShouldSkip(name string, size int, predicates []SkipCompressionFunc) bool {
	for _, fn := range predicates {
		if fn == nil {
			continue
		}
		if fn(name, size) {
			return true
		}
	}
	return false
}

var defaultSkipCompressionExts = map[string]struct{}{
	".7z":   {},
	".br":   {},
	".bz2":  {},
	".gz":   {},
	".lz4":  {},
	".lzma": {},
	".pak":  {},
	".rar":  {},
	".tgz":  {},
	".xz":   {},
	".z":    {},
	".zip":  {},
	".zst":  {},
}
