package pak

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"

	"github.com/opencontainers/go-digest"

	"github.com/meigma/pak/internal/codec"
	"github.com/meigma/pak/internal/hashalg"
	"github.com/meigma/pak/internal/record"
)

// Entry is one record of an archive: a named, optionally compressed file,
// or an unnamed pad that aligns the record after it.
//
// The compressed payload is always held. The decompressed data is produced
// on first access for entries loaded from an image, so listing and hashing
// a large archive never inflates its contents.
type Entry struct {
	name     string
	kind     Kind
	method   Compression
	size     uint32
	payload  []byte
	data     []byte
	loaded   bool
	fallback bool
	digests  map[HashAlgorithm][]byte
}

// NewFileEntry compresses data with method and returns a file entry.
// The entry falls back to store when compression does not shrink data.
func NewFileEntry(name string, method Compression, data []byte) (*Entry, error) {
	return newFileEntry(name, method, data, true)
}

func newFileEntry(name string, method Compression, data []byte, fallback bool) (*Entry, error) {
	name = NormalizeName(name)
	if err := checkName(name); err != nil {
		return nil, err
	}
	e := &Entry{name: name, kind: KindFile, fallback: fallback}
	if err := e.encode(method, data); err != nil {
		return nil, fmt.Errorf("entry %q: %w", name, err)
	}
	return e, nil
}

// NewPadEntry returns a pad entry with n zero fill bytes.
func NewPadEntry(n int) (*Entry, error) {
	if n < 0 || uint64(n) > record.MaxPayloadSize {
		return nil, fmt.Errorf("%w: pad of %d bytes", ErrSizeOverflow, n)
	}
	fill := make([]byte, n)
	return &Entry{
		kind:    KindPad,
		method:  CompressionStore,
		size:    uint32(n), //nolint:gosec // bounded above
		payload: fill,
		data:    fill,
		loaded:  true,
	}, nil
}

// entryFromRecord wraps a parsed record. The payload keeps aliasing the
// image; data is decoded lazily.
func entryFromRecord(r record.Record, fallback bool) *Entry {
	e := &Entry{
		name:     r.Name,
		kind:     r.Kind,
		method:   r.Method,
		size:     r.Size,
		payload:  r.Payload,
		fallback: fallback,
	}
	if r.Method == CompressionStore {
		e.data = r.Payload
		e.loaded = true
	}
	return e
}

func checkName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidName)
	}
	if len(name) > record.MaxNameLen {
		return fmt.Errorf("%w: name is %d bytes", ErrInvalidName, len(name))
	}
	return nil
}

func (e *Entry) encode(method Compression, data []byte) error {
	if uint64(len(data)) > record.MaxPayloadSize {
		return fmt.Errorf("%w: data is %d bytes", ErrSizeOverflow, len(data))
	}
	payload, used, err := codec.Compress(method, data, e.fallback)
	if err != nil {
		return err
	}
	if uint64(len(payload)) > record.MaxPayloadSize {
		return fmt.Errorf("%w: payload is %d bytes", ErrSizeOverflow, len(payload))
	}
	e.method = used
	e.size = uint32(len(data)) //nolint:gosec // bounded above
	e.payload = payload
	e.data = data
	e.loaded = true
	e.digests = nil
	return nil
}

// Name returns the entry name. Pads have an empty name.
func (e *Entry) Name() string { return e.name }

// SetName renames a file entry. The payload and its digests are unchanged.
func (e *Entry) SetName(name string) error {
	if e.kind == KindPad {
		return fmt.Errorf("%w: pads have no name", ErrPadEntry)
	}
	name = NormalizeName(name)
	if err := checkName(name); err != nil {
		return err
	}
	e.name = name
	return nil
}

// Kind reports whether the entry is a file or a pad.
func (e *Entry) Kind() Kind { return e.kind }

// IsPad reports whether the entry is a pad.
func (e *Entry) IsPad() bool { return e.kind == KindPad }

// Method returns the effective compression method. It may differ from the
// requested one when the store fallback applied.
func (e *Entry) Method() Compression { return e.method }

// Size returns the decompressed size.
func (e *Entry) Size() uint64 { return uint64(e.size) }

// CompressedSize returns the payload size.
func (e *Entry) CompressedSize() uint64 { return uint64(len(e.payload)) }

// RecordSize returns the number of bytes the entry occupies in an image.
func (e *Entry) RecordSize() int {
	return e.header().RecordLen()
}

func (e *Entry) header() record.Header {
	return record.Header{
		Kind:           e.kind,
		Name:           e.name,
		Method:         e.method,
		Size:           e.size,
		CompressedSize: uint32(len(e.payload)), //nolint:gosec // bounded by encode and Parse
	}
}

// Payload returns the compressed bytes as they appear in the image.
// The returned slice must not be modified.
func (e *Entry) Payload() []byte { return e.payload }

// Data returns the decompressed content, decoding it on first access.
// A payload that does not decode to the declared size returns an error
// matching ErrCorruptArchive.
// The returned slice must not be modified.
func (e *Entry) Data() ([]byte, error) {
	if e.loaded {
		return e.data, nil
	}
	data, err := codec.Decode(e.method, e.payload, int(e.size))
	if err != nil {
		return nil, fmt.Errorf("%w: entry %q: %w", ErrCorruptArchive, e.name, err)
	}
	e.data = data
	e.loaded = true
	return data, nil
}

// SetData replaces the content of a file entry, compressing it with the
// current method.
func (e *Entry) SetData(data []byte) error {
	if e.kind == KindPad {
		return ErrPadEntry
	}
	return e.encode(e.method, data)
}

// SetMethod recompresses a file entry with method. Pads only accept store.
func (e *Entry) SetMethod(method Compression) error {
	if !method.Valid() {
		return fmt.Errorf("%w: tag %d", ErrUnsupportedCodec, uint8(method))
	}
	if e.kind == KindPad {
		if method != CompressionStore {
			return fmt.Errorf("%w: pads are always stored", ErrPadEntry)
		}
		return nil
	}
	if method == e.method {
		return nil
	}
	data, err := e.Data()
	if err != nil {
		return err
	}
	return e.encode(method, data)
}

// Hash returns the digest of the compressed payload under alg. Results are
// cached until the payload changes.
func (e *Entry) Hash(alg HashAlgorithm) ([]byte, error) {
	if d, ok := e.digests[alg]; ok {
		return d, nil
	}
	d, err := hashalg.Digest(alg, e.payload)
	if err != nil {
		return nil, err
	}
	if e.digests == nil {
		e.digests = make(map[HashAlgorithm][]byte)
	}
	e.digests[alg] = d
	return d, nil
}

// Digest returns a cached digest without computing one.
func (e *Entry) Digest(alg HashAlgorithm) ([]byte, bool) {
	d, ok := e.digests[alg]
	return d, ok
}

// Equal reports whether two entries would serialize to the same record.
func (e *Entry) Equal(other *Entry) bool {
	if e == other {
		return true
	}
	if other == nil {
		return false
	}
	return e.header() == other.header() && bytes.Equal(e.payload, other.payload)
}

// EntryInfo is a display snapshot of an entry.
type EntryInfo struct {
	Name           string
	Kind           Kind
	Method         Compression
	Size           uint64
	CompressedSize uint64
	Digests        []digest.Digest
}

// Display returns a snapshot including every cached digest.
func (e *Entry) Display() EntryInfo {
	info := EntryInfo{
		Name:           e.name,
		Kind:           e.kind,
		Method:         e.method,
		Size:           e.Size(),
		CompressedSize: e.CompressedSize(),
	}
	algs := make([]HashAlgorithm, 0, len(e.digests))
	for alg := range e.digests {
		algs = append(algs, alg)
	}
	slices.Sort(algs)
	for _, alg := range algs {
		info.Digests = append(info.Digests, formatDigest(alg, e.digests[alg]))
	}
	return info
}

// String renders the snapshot as aligned key/value lines.
func (i EntryInfo) String() string {
	var b strings.Builder
	if i.Kind == KindPad {
		fmt.Fprintf(&b, "%-12s%s\n", "kind:", i.Kind)
		fmt.Fprintf(&b, "%-12s%d\n", "size:", i.Size)
		return b.String()
	}
	fmt.Fprintf(&b, "%-12s%s\n", "name:", i.Name)
	fmt.Fprintf(&b, "%-12s%s\n", "kind:", i.Kind)
	fmt.Fprintf(&b, "%-12s%s\n", "method:", i.Method)
	fmt.Fprintf(&b, "%-12s%d\n", "size:", i.Size)
	fmt.Fprintf(&b, "%-12s%d\n", "compressed:", i.CompressedSize)
	for _, d := range i.Digests {
		fmt.Fprintf(&b, "%-12s%s\n", "digest:", d)
	}
	return b.String()
}

// String returns a one-line description used in logs.
func (e *Entry) String() string {
	if e.kind == KindPad {
		return fmt.Sprintf("pad(%d)", e.size)
	}
	return fmt.Sprintf("%s(%s, %d/%d)", e.name, e.method, len(e.payload), e.size)
}

// formatDigest renders raw digest bytes in algorithm:hex form.
func formatDigest(alg HashAlgorithm, sum []byte) digest.Digest {
	return digest.NewDigestFromEncoded(digest.Algorithm(alg.String()), hex.EncodeToString(sum))
}
