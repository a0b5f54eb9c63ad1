package hashalg

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/pak/internal/paktype"
)

func TestDigestSizes(t *testing.T) {
	t.Parallel()

	want := map[paktype.HashAlgorithm]int{
		paktype.HashSHA256:   32,
		paktype.HashSHA384:   48,
		paktype.HashSHA512:   64,
		paktype.HashSHA3_224: 28,
		paktype.HashSHA3_256: 32,
		paktype.HashSHA3_384: 48,
		paktype.HashSHA3_512: 64,
		paktype.HashBLAKE2b:  64,
		paktype.HashBLAKE2s:  32,
		paktype.HashBLAKE3:   32,
	}
	require.Len(t, want, len(paktype.HashAlgorithms))

	for _, alg := range paktype.HashAlgorithms {
		t.Run(alg.String(), func(t *testing.T) {
			t.Parallel()

			sum, err := Digest(alg, []byte("payload"))
			require.NoError(t, err)
			assert.Len(t, sum, want[alg])

			size, err := Size(alg)
			require.NoError(t, err)
			assert.Equal(t, want[alg], size)
		})
	}
}

func TestDigestDeterministic(t *testing.T) {
	t.Parallel()

	for _, alg := range paktype.HashAlgorithms {
		a, err := Digest(alg, []byte("same input"))
		require.NoError(t, err)
		b, err := Digest(alg, []byte("same input"))
		require.NoError(t, err)
		c, err := Digest(alg, []byte("other input"))
		require.NoError(t, err)

		assert.Equal(t, a, b, alg.String())
		assert.NotEqual(t, a, c, alg.String())
	}
}

func TestKnownVectors(t *testing.T) {
	t.Parallel()

	sum := sha256.Sum256([]byte("abc"))
	got, err := Digest(paktype.HashSHA256, []byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, sum[:], got)

	// FIPS 202 SHA3-256("abc")
	got, err = Digest(paktype.HashSHA3_256, []byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, "3a985da74fe225b2045c172d6bd390bd855f086e3e9d525b46bfe24511431532", hex.EncodeToString(got))
}

func TestUnknownAlgorithm(t *testing.T) {
	t.Parallel()

	_, err := Digest(paktype.HashAlgorithm(0), []byte("x"))
	require.ErrorIs(t, err, paktype.ErrUnsupportedAlgorithm)

	_, err = paktype.ParseHashAlgorithm("md4")
	require.ErrorIs(t, err, paktype.ErrUnsupportedAlgorithm)
}

func TestParseHashAlgorithm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want paktype.HashAlgorithm
	}{
		{"sha3_512", paktype.HashSHA3_512},
		{"SHA3-512", paktype.HashSHA3_512},
		{"sha256", paktype.HashSHA256},
		{"blake3", paktype.HashBLAKE3},
		{" blake2b ", paktype.HashBLAKE2b},
	}
	for _, tt := range tests {
		got, err := paktype.ParseHashAlgorithm(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
