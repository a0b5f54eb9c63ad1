package manifest

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/pak"
	"github.com/meigma/pak/internal/testutil"
)

const validYAML = `
method: zlib
vars:
  ekb: images/ekb
entries:
  - file: boot/sbe.bin
    source: ${ekb}/sbe.bin
    method: store
  - dir: hwp
    source: ${ekb}/hwp
    method: zstd
  - align: 64
  - file: ""
    source: ${ekb}/tail.bin
  - pad: 8
`

const validTOML = `
method = "zlib"

[vars]
ekb = "images/ekb"

[[entries]]
file = "boot/sbe.bin"
source = "${ekb}/sbe.bin"
method = "store"

[[entries]]
dir = "hwp"
source = "${ekb}/hwp"
method = "zstd"

[[entries]]
align = 64

[[entries]]
file = ""
source = "${ekb}/tail.bin"

[[entries]]
pad = 8
`

func sourceTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string][]byte{
		"images/ekb/sbe.bin":       testutil.Pattern(300, "sbe"),
		"images/ekb/hwp/b.bin":     testutil.Pattern(2000, "b"),
		"images/ekb/hwp/a.bin":     testutil.Pattern(2000, "a"),
		"images/ekb/hwp/sub/c.bin": testutil.Pattern(2000, "c"),
		"images/ekb/tail.bin":      []byte("tail"),
	})
	return dir
}

func writeManifest(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func fileNames(a *pak.Archive) []string {
	var out []string
	for e := range a.Files() {
		out = append(out, e.Name())
	}
	return out
}

func TestManifest_EndToEnd(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name    string
		file    string
		content string
	}{
		{"yaml", "image.yaml", validYAML},
		{"toml", "image.toml", validTOML},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := sourceTree(t)
			m := New()
			require.NoError(t, m.Parse(writeManifest(t, dir, tt.file, tt.content)))
			require.Len(t, m.Declarations(), 5)

			require.NoError(t, m.Build(context.Background(), ""))
			assert.True(t, m.Built())

			a, err := m.CreateArchive()
			require.NoError(t, err)
			assert.Equal(t, []string{
				"boot/sbe.bin",
				"hwp/a.bin",
				"hwp/b.bin",
				"hwp/sub/c.bin",
				"tail.bin",
			}, fileNames(a))

			sbe, err := a.Lookup("boot/sbe.bin")
			require.NoError(t, err)
			assert.Equal(t, pak.CompressionStore, sbe.Method())
			hwp, err := a.Lookup("hwp/a.bin")
			require.NoError(t, err)
			assert.Equal(t, pak.CompressionZstd, hwp.Method())
			tail, err := a.Lookup("tail.bin")
			require.NoError(t, err)
			assert.Equal(t, pak.CompressionStore, tail.Method(), "4 bytes never shrink under zlib")

			image, err := a.Build()
			require.NoError(t, err)
			offset := 0
			for e := range a.All() {
				if e == tail {
					break
				}
				offset += e.RecordSize()
			}
			assert.Zero(t, offset%64, "entry after align starts on the boundary")

			last := a.At(a.Len() - 1)
			assert.True(t, last.IsPad())
			assert.Equal(t, uint64(8), last.Size())
			assert.Len(t, image, offset+tail.RecordSize()+last.RecordSize())
		})
	}
}

func TestManifest_BuildBasePath(t *testing.T) {
	t.Parallel()

	dir := sourceTree(t)
	m := New()
	require.NoError(t, m.ParseBytes([]byte(validYAML), FormatYAML))
	require.NoError(t, m.Build(context.Background(), dir))
	assert.Len(t, m.Mappings(), 7)
	assert.Equal(t, filepath.Join(dir, "images", "ekb", "sbe.bin"), m.Mappings()[0].Source)
}

func TestManifest_ParseCollectsEveryProblem(t *testing.T) {
	t.Parallel()

	const content = `
method: zlib
vars:
  a: x
entries:
  - file: a.bin
    source: ${nope}/a.bin
  - file: b.bin
    source: b.bin
    method: brotli
  - align: 3
  - file: c.bin
    dir: d
  - dir: d
  - file: e.bin
    source: e.bin
  - file: e.bin
    source: e2.bin
  - pad: 4
    source: x
`
	m := New()
	err := m.ParseBytes([]byte(content), FormatYAML)
	require.Error(t, err)

	var me *Error
	require.ErrorAs(t, err, &me)
	assert.Equal(t, 7, me.Count())
	assert.Equal(t, 7, Count(err))
	require.ErrorIs(t, err, pak.ErrManifest)
	require.ErrorIs(t, err, ErrUndefinedVar)
	require.ErrorIs(t, err, pak.ErrUnsupportedCodec)
	require.ErrorIs(t, err, ErrAlignment)
	require.ErrorIs(t, err, ErrDeclaration)
	require.ErrorIs(t, err, ErrMissingSource)
	require.ErrorIs(t, err, ErrDuplicateName)
	require.ErrorIs(t, err, ErrUnexpectedField)

	require.ErrorIs(t, m.Build(context.Background(), ""), pak.ErrNotBuilt)
}

func TestManifest_UnknownKeys(t *testing.T) {
	t.Parallel()

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()
		err := New().ParseBytes([]byte("entries:\n  - file: a.bin\n    sourc: a.bin\n"), FormatYAML)
		require.ErrorIs(t, err, ErrUnknownKey)
		require.ErrorIs(t, err, ErrMissingSource)
		assert.Equal(t, 2, Count(err))
	})
	t.Run("toml", func(t *testing.T) {
		t.Parallel()
		err := New().ParseBytes([]byte("colour = \"blue\"\n"), FormatTOML)
		require.ErrorIs(t, err, ErrUnknownKey)
		assert.Equal(t, 1, Count(err))
	})
}

func TestManifest_SyntaxError(t *testing.T) {
	t.Parallel()

	err := New().ParseBytes([]byte("entries: [\n"), FormatYAML)
	require.ErrorIs(t, err, ErrSyntax)
	assert.Equal(t, 1, Count(err))

	err = New().ParseBytes([]byte("entries = [\n"), FormatTOML)
	require.ErrorIs(t, err, ErrSyntax)
	assert.Equal(t, 1, Count(err))
}

func TestManifest_EmptyDocument(t *testing.T) {
	t.Parallel()

	m := New()
	require.NoError(t, m.ParseBytes(nil, FormatYAML))
	require.NoError(t, m.Build(context.Background(), t.TempDir()))
	a, err := m.CreateArchive()
	require.NoError(t, err)
	assert.Zero(t, a.Len())
}

func TestManifest_BuildCollectsMissingSources(t *testing.T) {
	t.Parallel()

	const content = `
entries:
  - dir: one
    source: missing/one
  - file: ok.bin
    source: present.bin
  - dir: two
    source: missing/two
  - dir: three
    source: missing/three
`
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string][]byte{"present.bin": []byte("ok")})

	m := New()
	require.NoError(t, m.Parse(writeManifest(t, dir, "m.yaml", content)))
	err := m.Build(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, 3, Count(err))
	require.ErrorIs(t, err, pak.ErrManifest)
	require.ErrorIs(t, err, pak.ErrFileNotFound)
	assert.False(t, m.Built())

	_, err = m.CreateArchive()
	require.ErrorIs(t, err, pak.ErrNotBuilt)
}

func TestManifest_BuildRejectsWrongSourceTypes(t *testing.T) {
	t.Parallel()

	const content = `
entries:
  - file: dir.bin
    source: adir
  - dir: notdir
    source: afile.bin
`
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string][]byte{
		"afile.bin":   []byte("x"),
		"adir/in.bin": []byte("y"),
	})

	m := New()
	require.NoError(t, m.Parse(writeManifest(t, dir, "m.yaml", content)))
	err := m.Build(context.Background(), "")
	assert.Equal(t, 2, Count(err))
	require.ErrorIs(t, err, ErrNotRegular)
}

func TestManifest_ParseMissingFile(t *testing.T) {
	t.Parallel()

	err := New().Parse(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorIs(t, err, pak.ErrFileNotFound)
	assert.Equal(t, 1, Count(err))
	assert.Zero(t, Count(nil))
}

func TestManifest_DefaultMethod(t *testing.T) {
	t.Parallel()

	m := New(WithDefaultMethod(pak.CompressionLZ4))
	require.NoError(t, m.ParseBytes([]byte("entries:\n  - file: a\n    source: a\n"), FormatYAML))
	require.Len(t, m.Declarations(), 1)
	assert.Equal(t, pak.CompressionLZ4, m.Declarations()[0].Method)
}

func TestManifest_WriteSnapshot(t *testing.T) {
	t.Parallel()

	dir := sourceTree(t)
	m := New()
	require.NoError(t, m.Parse(writeManifest(t, dir, "image.yaml", validYAML)))
	require.NoError(t, m.Build(context.Background(), ""))

	var buf bytes.Buffer
	require.NoError(t, m.WriteSnapshot(&buf))
	out := buf.String()
	assert.Contains(t, out, "name: boot/sbe.bin")
	assert.Contains(t, out, "method: store")
	assert.Contains(t, out, "name: hwp/sub/c.bin")
	assert.Contains(t, out, "align: 64")
	assert.Contains(t, out, "pad: 8")

	snap := m.Snapshot()
	require.Len(t, snap.Entries, 7)
	assert.Equal(t, "zstd", snap.Entries[1].Method)
}
