package paktype

import (
	"fmt"
	"strings"
)

// HashAlgorithm identifies a digest function usable for entry hashing.
type HashAlgorithm uint8

const (
	HashSHA256 HashAlgorithm = iota + 1
	HashSHA384
	HashSHA512
	HashSHA3_224
	HashSHA3_256
	HashSHA3_384
	HashSHA3_512
	HashBLAKE2b
	HashBLAKE2s
	HashBLAKE3
)

// DefaultHashAlgorithm is used when no algorithm is named.
const DefaultHashAlgorithm = HashSHA3_512

// HashAlgorithms lists every supported algorithm.
var HashAlgorithms = []HashAlgorithm{
	HashSHA256,
	HashSHA384,
	HashSHA512,
	HashSHA3_224,
	HashSHA3_256,
	HashSHA3_384,
	HashSHA3_512,
	HashBLAKE2b,
	HashBLAKE2s,
	HashBLAKE3,
}

var hashNames = map[HashAlgorithm]string{
	HashSHA256:   "sha256",
	HashSHA384:   "sha384",
	HashSHA512:   "sha512",
	HashSHA3_224: "sha3_224",
	HashSHA3_256: "sha3_256",
	HashSHA3_384: "sha3_384",
	HashSHA3_512: "sha3_512",
	HashBLAKE2b:  "blake2b",
	HashBLAKE2s:  "blake2s",
	HashBLAKE3:   "blake3",
}

func (h HashAlgorithm) String() string {
	if name, ok := hashNames[h]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", uint8(h))
}

// Valid reports whether h names a supported algorithm.
func (h HashAlgorithm) Valid() bool {
	_, ok := hashNames[h]
	return ok
}

// ParseHashAlgorithm maps an algorithm name to its identifier. Dashes are
// accepted in place of underscores ("sha3-512").
func ParseHashAlgorithm(name string) (HashAlgorithm, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for h, n := range hashNames {
		if n == key {
			return h, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, name)
}
