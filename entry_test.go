package pak

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/pak/internal/testutil"
)

func TestEntry_HashIsOverCompressedPayload(t *testing.T) {
	t.Parallel()

	e, err := NewFileEntry("fw.bin", CompressionZlib, testutil.Pattern(8192, "firmware"))
	require.NoError(t, err)
	require.Equal(t, CompressionZlib, e.Method())

	sum, err := e.Hash(HashSHA256)
	require.NoError(t, err)
	want := sha256.Sum256(e.Payload())
	assert.Equal(t, want[:], sum)
}

func TestEntry_HashDeterminism(t *testing.T) {
	t.Parallel()

	e, err := NewFileEntry("fw.bin", CompressionZstd, testutil.Pattern(4096, "abc"))
	require.NoError(t, err)

	_, cached := e.Digest(DefaultHashAlgorithm)
	assert.False(t, cached)

	first, err := e.Hash(DefaultHashAlgorithm)
	require.NoError(t, err)
	second, err := e.Hash(DefaultHashAlgorithm)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	d, cached := e.Digest(DefaultHashAlgorithm)
	assert.True(t, cached)
	assert.Equal(t, first, d)

	// Renaming does not touch the payload.
	require.NoError(t, e.SetName("other.bin"))
	renamed, err := e.Hash(DefaultHashAlgorithm)
	require.NoError(t, err)
	assert.Equal(t, first, renamed)

	require.NoError(t, e.SetData(testutil.Pattern(4096, "xyz")))
	_, cached = e.Digest(DefaultHashAlgorithm)
	assert.False(t, cached, "mutation clears cached digests")
	changed, err := e.Hash(DefaultHashAlgorithm)
	require.NoError(t, err)
	assert.NotEqual(t, first, changed)
}

func TestEntry_MultipleAlgorithms(t *testing.T) {
	t.Parallel()

	e, err := NewFileEntry("a.bin", CompressionStore, []byte("abc"))
	require.NoError(t, err)

	for _, alg := range HashAlgorithms() {
		sum, err := e.Hash(alg)
		require.NoError(t, err, alg.String())
		assert.NotEmpty(t, sum)
	}
	info := e.Display()
	assert.Len(t, info.Digests, len(HashAlgorithms()))

	_, err = e.Hash(HashAlgorithm(0))
	require.ErrorIs(t, err, ErrUnsupportedAlgorithm)
}

func TestEntry_SetMethod(t *testing.T) {
	t.Parallel()

	content := testutil.Pattern(10000, "recompress")
	e, err := NewFileEntry("a.bin", CompressionStore, content)
	require.NoError(t, err)
	assert.Equal(t, uint64(len(content)), e.CompressedSize())

	for _, method := range []Compression{CompressionZlib, CompressionZstd, CompressionLZ4, CompressionStore} {
		require.NoError(t, e.SetMethod(method))
		assert.Equal(t, method, e.Method())
		data, err := e.Data()
		require.NoError(t, err)
		assert.Equal(t, content, data)
		assert.Equal(t, uint64(len(content)), e.Size())
	}

	require.ErrorIs(t, e.SetMethod(Compression(42)), ErrUnsupportedCodec)
}

func TestEntry_Pad(t *testing.T) {
	t.Parallel()

	p, err := NewPadEntry(5)
	require.NoError(t, err)
	assert.True(t, p.IsPad())
	assert.Equal(t, KindPad, p.Kind())
	assert.Empty(t, p.Name())
	assert.Equal(t, uint64(5), p.Size())
	assert.Equal(t, 13+5, p.RecordSize())

	data, err := p.Data()
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 5), data)

	require.ErrorIs(t, p.SetData([]byte("x")), ErrPadEntry)
	require.ErrorIs(t, p.SetName("x"), ErrPadEntry)
	require.ErrorIs(t, p.SetMethod(CompressionZlib), ErrPadEntry)
	require.NoError(t, p.SetMethod(CompressionStore))

	_, err = NewPadEntry(-1)
	require.ErrorIs(t, err, ErrSizeOverflow)
}

func TestEntry_Names(t *testing.T) {
	t.Parallel()

	e, err := NewFileEntry("/boot//sbe.bin", CompressionStore, nil)
	require.NoError(t, err)
	assert.Equal(t, "boot/sbe.bin", e.Name())
	assert.Equal(t, 15+len("boot/sbe.bin"), e.RecordSize())

	_, err = NewFileEntry("", CompressionStore, nil)
	require.ErrorIs(t, err, ErrInvalidName)
	require.ErrorIs(t, e.SetName("//"), ErrInvalidName)
}

func TestEntry_InfoString(t *testing.T) {
	t.Parallel()

	e, err := NewFileEntry("a.bin", CompressionStore, []byte{0xDE, 0xAD, 0xBE, 0xEF})
	require.NoError(t, err)
	_, err = e.Hash(HashSHA256)
	require.NoError(t, err)

	out := e.Display().String()
	assert.Contains(t, out, "name:       a.bin\n")
	assert.Contains(t, out, "method:     store\n")
	assert.Contains(t, out, "size:       4\n")
	assert.Contains(t, out, "digest:     sha256:")
	assert.Equal(t, "a.bin(store, 4/4)", e.String())

	p, err := NewPadEntry(3)
	require.NoError(t, err)
	assert.NotContains(t, p.Display().String(), "name:")
	assert.Equal(t, "pad(3)", p.String())
}
