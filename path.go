package pak

import (
	"path/filepath"
	"strings"
)

// NormalizeName converts a user-provided path to an entry name.
//
// It performs the following transformations:
//   - Converts OS separators to slashes: `boot\sbe.bin` → "boot/sbe.bin" (Windows)
//   - Strips leading "./" and slashes: "/boot/sbe.bin" → "boot/sbe.bin"
//   - Strips trailing slashes: "boot/" → "boot"
//   - Collapses consecutive slashes: "boot//sbe.bin" → "boot/sbe.bin"
//
// Empty input and "/" normalize to "", which is not a valid file name.
// The nested separator ">/" survives unchanged.
func NormalizeName(p string) string {
	p = filepath.ToSlash(p)
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	p = strings.Trim(p, "/")
	if p == "" || p == "." {
		return ""
	}

	parts := strings.Split(p, "/")
	result := parts[:0]
	for _, part := range parts {
		if part != "" {
			result = append(result, part)
		}
	}
	return strings.Join(result, "/")
}
