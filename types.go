package pak

import (
	"github.com/meigma/pak/internal/paktype"
	"github.com/meigma/pak/internal/write"
)

// Re-export types from internal/paktype for the public API.
type (
	// Compression identifies the compression method of an entry.
	Compression = paktype.Compression

	// HashAlgorithm identifies a digest function for entry hashing.
	HashAlgorithm = paktype.HashAlgorithm

	// Kind distinguishes file entries from pad entries.
	Kind = paktype.Kind

	// SkipCompressionFunc returns true when an entry should be stored
	// uncompressed.
	SkipCompressionFunc = write.SkipCompressionFunc
)

// Compression constants.
const (
	CompressionStore = paktype.CompressionStore
	CompressionZlib  = paktype.CompressionZlib
	CompressionZstd  = paktype.CompressionZstd
	CompressionLZ4   = paktype.CompressionLZ4
)

// Hash algorithm constants.
const (
	HashSHA256   = paktype.HashSHA256
	HashSHA384   = paktype.HashSHA384
	HashSHA512   = paktype.HashSHA512
	HashSHA3_224 = paktype.HashSHA3_224
	HashSHA3_256 = paktype.HashSHA3_256
	HashSHA3_384 = paktype.HashSHA3_384
	HashSHA3_512 = paktype.HashSHA3_512
	HashBLAKE2b  = paktype.HashBLAKE2b
	HashBLAKE2s  = paktype.HashBLAKE2s
	HashBLAKE3   = paktype.HashBLAKE3

	// DefaultHashAlgorithm is SHA3-512.
	DefaultHashAlgorithm = paktype.DefaultHashAlgorithm
)

// Kind constants.
const (
	KindFile = paktype.KindFile
	KindPad  = paktype.KindPad
)

// NestedSeparator joins a nested archive's entry name to the names of the
// entries it contains when the archive is flattened.
const NestedSeparator = ">/"

// DefaultNestedPattern selects the entries treated as nested archives.
const DefaultNestedPattern = "*.pak"

// Flatten limits. A compressed payload can decode to an archive that
// contains itself, so expansion is bounded.
const (
	DefaultMaxNestingDepth = 32
	DefaultMaxExpandedSize = 1 << 30
)

var (
	// ParseCompression maps a method name ("store", "zlib", "zstd", "lz4")
	// to its tag.
	ParseCompression = paktype.ParseCompression

	// ParseHashAlgorithm maps an algorithm name ("sha3_512", "blake3", ...)
	// to its identifier.
	ParseHashAlgorithm = paktype.ParseHashAlgorithm

	// DefaultSkipCompression returns a SkipCompressionFunc that skips small
	// entries and known already-compressed extensions.
	DefaultSkipCompression = write.DefaultSkipCompression
)

// Compressions returns every supported compression method in tag order.
func Compressions() []Compression {
	return append([]Compression(nil), paktype.Compressions...)
}

// HashAlgorithms returns every supported hash algorithm.
func HashAlgorithms() []HashAlgorithm {
	return append([]HashAlgorithm(nil), paktype.HashAlgorithms...)
}
