// Package paktype defines shared types used across the pak package and its
// internal packages. This avoids circular imports between pak and the codec,
// hash and record packages.
package paktype

import (
	"fmt"
	"strings"
)

// Compression identifies the compression method used for an entry.
//
// Values are stored as the one-byte compression tag of every record;
// changing them breaks compatibility with existing archives.
type Compression uint8

const (
	CompressionStore Compression = iota
	CompressionZlib
	CompressionZstd
	CompressionLZ4
)

// Compressions lists every supported method in tag order.
var Compressions = []Compression{
	CompressionStore,
	CompressionZlib,
	CompressionZstd,
	CompressionLZ4,
}

func (c Compression) String() string {
	switch c {
	case CompressionStore:
		return "store"
	case CompressionZlib:
		return "zlib"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// Valid reports whether c is one of the supported tags.
func (c Compression) Valid() bool {
	return c <= CompressionLZ4
}

// ParseCompression maps a human-facing method name to its tag.
// "none" is accepted as an alias for "store".
func ParseCompression(name string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "store", "none":
		return CompressionStore, nil
	case "zlib":
		return CompressionZlib, nil
	case "zstd":
		return CompressionZstd, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedCodec, name)
	}
}
