// Package hashalg implements the digest functions used to hash entry
// payloads. Like the codec table, the set is closed and dispatched through a
// table built at package init.
package hashalg

import (
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/sha3"

	"github.com/meigma/pak/internal/paktype"
)

var constructors = map[paktype.HashAlgorithm]func() hash.Hash{
	paktype.HashSHA256:   sha256.New,
	paktype.HashSHA384:   sha512.New384,
	paktype.HashSHA512:   sha512.New,
	paktype.HashSHA3_224: sha3.New224,
	paktype.HashSHA3_256: sha3.New256,
	paktype.HashSHA3_384: sha3.New384,
	paktype.HashSHA3_512: sha3.New512,
	paktype.HashBLAKE2b: func() hash.Hash {
		h, _ := blake2b.New512(nil) //nolint:errcheck // only fails for oversized keys
		return h
	},
	paktype.HashBLAKE2s: func() hash.Hash {
		h, _ := blake2s.New256(nil) //nolint:errcheck // only fails for oversized keys
		return h
	},
	paktype.HashBLAKE3: func() hash.Hash {
		return blake3.New()
	},
}

// New returns a fresh hash.Hash for alg.
func New(alg paktype.HashAlgorithm) (hash.Hash, error) {
	ctor, ok := constructors[alg]
	if !ok {
		return nil, fmt.Errorf("%w: %s", paktype.ErrUnsupportedAlgorithm, alg)
	}
	return ctor(), nil
}

// Digest returns the digest of data under alg.
func Digest(alg paktype.HashAlgorithm, data []byte) ([]byte, error) {
	h, err := New(alg)
	if err != nil {
		return nil, err
	}
	h.Write(data) //nolint:errcheck // hash.Hash writes never fail
	return h.Sum(nil), nil
}

// Size returns the digest length in bytes for alg.
func Size(alg paktype.HashAlgorithm) (int, error) {
	h, err := New(alg)
	if err != nil {
		return 0, err
	}
	return h.Size(), nil
}
