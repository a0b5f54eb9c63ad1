package pak

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/pak/internal/testutil"
)

// nestedImage builds an archive nested depth levels deep. Level 1 holds
// only leaf.bin; every outer level holds nN.bin followed by inner.pak.
func nestedImage(t *testing.T, depth int) []byte {
	t.Helper()
	inner := New("")
	mustAdd(t, inner, "leaf.bin", CompressionZlib, testutil.Pattern(1000, "leaf"))
	image, err := inner.Build()
	require.NoError(t, err)

	for i := 1; i < depth; i++ {
		outer := New("")
		mustAdd(t, outer, fmt.Sprintf("n%d.bin", i), CompressionStore, []byte{byte(i)})
		mustAdd(t, outer, "inner.pak", CompressionZstd, image)
		image, err = outer.Build()
		require.NoError(t, err)
	}
	return image
}

func TestFlatten_NestedLevels(t *testing.T) {
	t.Parallel()

	a, err := Decode(nestedImage(t, 4))
	require.NoError(t, err)

	passes, err := a.Flatten()
	require.NoError(t, err)
	assert.Equal(t, 3, passes)
	assert.Equal(t, []string{
		"n3.bin",
		"inner.pak>/n2.bin",
		"inner.pak>/inner.pak>/n1.bin",
		"inner.pak>/inner.pak>/inner.pak>/leaf.bin",
	}, names(a))

	leaf, err := a.Lookup("inner.pak>/inner.pak>/inner.pak>/leaf.bin")
	require.NoError(t, err)
	data, err := leaf.Data()
	require.NoError(t, err)
	assert.Equal(t, testutil.Pattern(1000, "leaf"), data)

	passes, err = a.Flatten()
	require.NoError(t, err)
	assert.Zero(t, passes, "a flat archive is a fixed point")
}

func TestFlatten_KeepsPosition(t *testing.T) {
	t.Parallel()

	inner := New("")
	mustAdd(t, inner, "x.bin", CompressionStore, []byte("x"))
	mustAdd(t, inner, "y.bin", CompressionStore, []byte("y"))
	image, err := inner.Build()
	require.NoError(t, err)

	a := New("")
	mustAdd(t, a, "first.bin", CompressionStore, []byte("1"))
	mustAdd(t, a, "sub.pak", CompressionLZ4, image)
	mustAdd(t, a, "last.bin", CompressionStore, []byte("2"))
	mustAdd(t, a, "again.pak", CompressionStore, image)

	passes, err := a.Flatten()
	require.NoError(t, err)
	assert.Equal(t, 1, passes)
	assert.Equal(t, []string{
		"first.bin",
		"sub.pak>/x.bin",
		"sub.pak>/y.bin",
		"last.bin",
		"again.pak>/x.bin",
		"again.pak>/y.bin",
	}, names(a))
}

func TestFlatten_SelfNamedNesting(t *testing.T) {
	t.Parallel()

	// Every level uses the same entry name; each decode still works on a
	// strictly smaller buffer.
	level := New("")
	mustAdd(t, level, "same.pak", CompressionStore, nil)
	image, err := level.Build()
	require.NoError(t, err)
	for range 3 {
		next := New("")
		mustAdd(t, next, "same.pak", CompressionStore, image)
		image, err = next.Build()
		require.NoError(t, err)
	}

	a, err := Decode(image)
	require.NoError(t, err)
	passes, err := a.Flatten()
	require.NoError(t, err)
	assert.Equal(t, 4, passes)
	assert.Zero(t, a.Len(), "the innermost archive is empty")
}

func TestFlatten_CustomPattern(t *testing.T) {
	t.Parallel()

	inner := New("")
	mustAdd(t, inner, "x.bin", CompressionStore, []byte("x"))
	image, err := inner.Build()
	require.NoError(t, err)

	a := New("", WithNestedPattern("*.img"))
	mustAdd(t, a, "disk.img", CompressionStore, image)
	mustAdd(t, a, "other.pak", CompressionStore, image)

	_, err = a.Flatten()
	require.NoError(t, err)
	assert.Equal(t, []string{"disk.img>/x.bin", "other.pak"}, names(a))
}

func TestFlatten_CorruptNested(t *testing.T) {
	t.Parallel()

	a := New("")
	mustAdd(t, a, "bad.pak", CompressionStore, []byte("not an archive"))

	_, err := a.Flatten()
	require.ErrorIs(t, err, ErrCorruptArchive)
	assert.Equal(t, []string{"bad.pak"}, names(a))
}

func TestFlatten_NestedPadsKept(t *testing.T) {
	t.Parallel()

	inner := New("")
	mustAdd(t, inner, "x.bin", CompressionStore, []byte("x"))
	_, err := inner.AddPad(8)
	require.NoError(t, err)
	image, err := inner.Build()
	require.NoError(t, err)

	a := New("")
	mustAdd(t, a, "sub.pak", CompressionStore, image)
	_, err = a.Flatten()
	require.NoError(t, err)
	assert.Equal(t, []string{"sub.pak>/x.bin", ""}, names(a))
	assert.Equal(t, 1, a.PadCount())
}

func TestFlatten_MaxNestingDepth(t *testing.T) {
	t.Parallel()

	image := nestedImage(t, 4)

	a, err := Decode(image, WithMaxNestingDepth(3))
	require.NoError(t, err)
	passes, err := a.Flatten()
	require.NoError(t, err)
	assert.Equal(t, 3, passes)

	a, err = Decode(image, WithMaxNestingDepth(2))
	require.NoError(t, err)
	passes, err = a.Flatten()
	require.ErrorIs(t, err, ErrCorruptArchive)
	assert.Equal(t, 2, passes)
	assert.Contains(t, names(a), "inner.pak>/inner.pak>/inner.pak",
		"the entry past the limit is left in place")
}

func TestFlatten_MaxExpandedSize(t *testing.T) {
	t.Parallel()

	image := nestedImage(t, 3)

	a, err := Decode(image, WithMaxExpandedSize(16))
	require.NoError(t, err)
	passes, err := a.Flatten()
	require.ErrorIs(t, err, ErrCorruptArchive)
	assert.Zero(t, passes)
	assert.Equal(t, []string{"n2.bin", "inner.pak"}, names(a))

	a, err = Decode(image, WithMaxExpandedSize(0))
	require.NoError(t, err)
	_, err = a.Flatten()
	require.NoError(t, err, "0 removes the limit")
}
