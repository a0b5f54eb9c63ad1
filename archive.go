package pak

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"slices"

	"github.com/meigma/pak/internal/record"
	"github.com/meigma/pak/internal/write"
)

// Archive is an ordered list of entries plus an optional bound path.
//
// The list is the source of truth. The serialized image is produced by
// Build and retained until the next Build or Load; mutating the list does
// not update it.
//
// Archive is not safe for concurrent use.
type Archive struct {
	path    string
	entries []*Entry
	image   []byte
	cfg     config
}

// New returns an empty archive bound to path. An empty path leaves the
// archive unbound; Save then needs SaveAs.
func New(path string, opts ...Option) *Archive {
	a := &Archive{path: path, cfg: defaultConfig()}
	for _, opt := range opts {
		opt(&a.cfg)
	}
	return a
}

// Open reads and parses the archive at path.
func Open(path string, opts ...Option) (*Archive, error) {
	a := New(path, opts...)
	if err := a.Load(); err != nil {
		return nil, err
	}
	return a, nil
}

// Decode parses image into an unbound archive. Entries alias image, which
// must not be modified afterwards.
func Decode(image []byte, opts ...Option) (*Archive, error) {
	a := New("", opts...)
	if err := a.LoadBytes(image); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Archive) log() *slog.Logger {
	if a.cfg.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.cfg.logger
}

// Path returns the bound path, or "" for an unbound archive.
func (a *Archive) Path() string { return a.path }

// SetPath rebinds the archive.
func (a *Archive) SetPath(path string) { a.path = path }

// Load replaces the entries with those read from the bound path.
func (a *Archive) Load() error {
	if a.path == "" {
		return ErrNoBoundPath
	}
	image, err := os.ReadFile(a.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, a.path)
		}
		return fmt.Errorf("read archive: %w", err)
	}
	if err := a.LoadBytes(image); err != nil {
		return fmt.Errorf("%s: %w", a.path, err)
	}
	return nil
}

// LoadBytes replaces the entries with those parsed from image and keeps
// image as the current serialization. On error the archive is unchanged.
func (a *Archive) LoadBytes(image []byte) error {
	records, err := record.Parse(image)
	if err != nil {
		return err
	}
	entries := make([]*Entry, 0, len(records))
	for _, r := range records {
		if a.cfg.maxEntrySize > 0 && uint64(r.Size) > a.cfg.maxEntrySize {
			return fmt.Errorf("%w: entry %q at offset 0x%X declares %d bytes, limit %d",
				ErrSizeOverflow, r.Name, r.Offset, r.Size, a.cfg.maxEntrySize)
		}
		entries = append(entries, entryFromRecord(r, a.cfg.fallback))
	}
	a.entries = entries
	a.image = image
	a.log().Debug("archive loaded",
		slog.String("path", a.path),
		slog.Int("entries", len(entries)),
		slog.Int("bytes", len(image)))
	return nil
}

// Build resolves duplicate names and serializes the entries. The result is
// retained and returned by Image until the next Build or Load.
//
// When several file entries share a name the last one wins; the others are
// removed from the list. Pads are never deduplicated.
func (a *Archive) Build() ([]byte, error) {
	a.dedupe()
	size := 0
	for _, e := range a.entries {
		size += e.RecordSize()
	}
	image := make([]byte, 0, size)
	for _, e := range a.entries {
		var err error
		image, err = record.Append(image, e.header(), e.payload)
		if err != nil {
			return nil, fmt.Errorf("build %s: %w", e, err)
		}
	}
	a.image = image
	a.log().Debug("archive built",
		slog.String("path", a.path),
		slog.Int("entries", len(a.entries)),
		slog.Int("bytes", len(image)))
	return image, nil
}

func (a *Archive) dedupe() {
	seen := make(map[string]struct{}, len(a.entries))
	kept := make([]*Entry, 0, len(a.entries))
	for i := len(a.entries) - 1; i >= 0; i-- {
		e := a.entries[i]
		if e.kind == KindFile {
			if _, dup := seen[e.name]; dup {
				a.log().Debug("dropping shadowed entry", slog.String("name", e.name))
				continue
			}
			seen[e.name] = struct{}{}
		}
		kept = append(kept, e)
	}
	if len(kept) == len(a.entries) {
		return
	}
	slices.Reverse(kept)
	a.entries = kept
}

// Image returns the image produced by the last Build or Load, or nil.
func (a *Archive) Image() []byte { return a.image }

// Size returns the length of the current image.
func (a *Archive) Size() int { return len(a.image) }

// Len returns the number of entries including pads.
func (a *Archive) Len() int { return len(a.entries) }

// FileCount returns the number of file entries.
func (a *Archive) FileCount() int {
	n := 0
	for _, e := range a.entries {
		if e.kind == KindFile {
			n++
		}
	}
	return n
}

// PadCount returns the number of pad entries.
func (a *Archive) PadCount() int { return len(a.entries) - a.FileCount() }

// At returns the entry at position i.
func (a *Archive) At(i int) *Entry { return a.entries[i] }

// Entries returns a copy of the entry list. The entries themselves are
// shared.
func (a *Archive) Entries() []*Entry { return slices.Clone(a.entries) }

// All iterates over a snapshot of the entry list, so the archive may be
// mutated during iteration.
func (a *Archive) All() iter.Seq[*Entry] {
	return slices.Values(slices.Clone(a.entries))
}

// Files iterates over the file entries, skipping pads.
func (a *Archive) Files() iter.Seq[*Entry] {
	entries := slices.Clone(a.entries)
	return func(yield func(*Entry) bool) {
		for _, e := range entries {
			if e.kind == KindPad {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Add compresses data and appends it as name. Skip predicates configured
// with WithSkipCompression force the store method.
func (a *Archive) Add(name string, method Compression, data []byte) (*Entry, error) {
	if a.cfg.maxEntrySize > 0 && uint64(len(data)) > a.cfg.maxEntrySize {
		return nil, fmt.Errorf("%w: %q is %d bytes, limit %d", ErrSizeOverflow, name, len(data), a.cfg.maxEntrySize)
	}
	requested := method
	if method != CompressionStore && write.ShouldSkip(name, len(data), a.cfg.skip) {
		method = CompressionStore
	}
	e, err := newFileEntry(name, method, data, a.cfg.fallback)
	if err != nil {
		return nil, err
	}
	a.entries = append(a.entries, e)
	a.log().Debug("entry added",
		slog.String("name", e.name),
		slog.String("requested", requested.String()),
		slog.String("method", e.method.String()),
		slog.Int("size", len(data)),
		slog.Int("compressed", len(e.payload)))
	return e, nil
}

// AddFile reads src from disk and appends it as name.
func (a *Archive) AddFile(name string, method Compression, src string) (*Entry, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, src)
		}
		return nil, fmt.Errorf("read %s: %w", src, err)
	}
	return a.Add(name, method, data)
}

// AddPad appends a pad with n fill bytes.
func (a *Archive) AddPad(n int) (*Entry, error) {
	e, err := NewPadEntry(n)
	if err != nil {
		return nil, err
	}
	a.entries = append(a.entries, e)
	return e, nil
}

// Align appends a pad so the next appended record starts on a multiple of
// boundary. It returns nil when the end of the list is already aligned.
//
// Duplicate names are resolved first so the computed offset matches the
// built image. Adding a duplicate of an earlier entry afterwards shifts the
// records that follow it.
func (a *Archive) Align(boundary int) (*Entry, error) {
	if boundary <= 0 {
		return nil, fmt.Errorf("%w: alignment %d", ErrPosition, boundary)
	}
	a.dedupe()
	offset := 0
	for _, e := range a.entries {
		offset += e.RecordSize()
	}
	if offset%boundary == 0 {
		return nil, nil
	}
	return a.AddPad(record.PadFor(offset, boundary))
}

// Append adds existing entries to the end of the list.
func (a *Archive) Append(entries ...*Entry) {
	for _, e := range entries {
		if e != nil {
			a.entries = append(a.entries, e)
		}
	}
}

// Insert places e at position pos, shifting later entries.
// pos may equal Len to append.
func (a *Archive) Insert(pos int, e *Entry) error {
	if pos < 0 || pos > len(a.entries) {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrPosition, pos, len(a.entries))
	}
	a.entries = slices.Insert(a.entries, pos, e)
	return nil
}

// Remove deletes e from the list. Removing an entry that is not present is
// a no-op.
func (a *Archive) Remove(e *Entry) {
	i := slices.Index(a.entries, e)
	if i < 0 {
		return
	}
	a.entries = slices.Delete(a.entries, i, i+1)
	a.log().Debug("entry removed", slog.String("entry", e.String()))
}

// Index returns the position of e, or an error matching ErrEntryNotFound.
func (a *Archive) Index(e *Entry) (int, error) {
	i := slices.Index(a.entries, e)
	if i < 0 {
		return -1, ErrEntryNotFound
	}
	return i, nil
}

// Lookup returns the last file entry named name. It is the entry that
// survives the next Build.
func (a *Archive) Lookup(name string) (*Entry, error) {
	name = NormalizeName(name)
	for i := len(a.entries) - 1; i >= 0; i-- {
		if e := a.entries[i]; e.kind == KindFile && e.name == name {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, name)
}

// Merge appends every entry of other. Entries are shared, not copied.
// Duplicate names are resolved by the next Build, so entries from other
// replace same-named entries already present.
func (a *Archive) Merge(other *Archive) {
	a.entries = append(a.entries, other.entries...)
}

// Verify decodes every file entry and reports the first one whose payload
// does not match its declared size.
func (a *Archive) Verify() error {
	for _, e := range a.entries {
		if e.kind == KindPad {
			continue
		}
		if _, err := e.Data(); err != nil {
			return err
		}
	}
	return nil
}

// view returns an unbound archive with the same configuration and the
// given entries.
func (a *Archive) view(entries []*Entry) *Archive {
	return &Archive{entries: entries, cfg: a.cfg}
}
