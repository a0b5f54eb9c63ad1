package paktype

import "errors"

// Sentinel errors for pak operations.
var (
	// ErrCorruptArchive is returned when an image is malformed, truncated,
	// carries an unknown magic or disagrees with its own size fields.
	ErrCorruptArchive = errors.New("pak: corrupt archive")

	// ErrUnsupportedCodec is returned for an unknown compression method.
	ErrUnsupportedCodec = errors.New("pak: unsupported compression method")

	// ErrUnsupportedAlgorithm is returned for an unknown hash algorithm.
	ErrUnsupportedAlgorithm = errors.New("pak: unsupported hash algorithm")

	// ErrNoBoundPath is returned when saving or loading an archive with no path.
	ErrNoBoundPath = errors.New("pak: archive has no bound path")

	// ErrEntryNotFound is returned when an entry is not part of an archive.
	ErrEntryNotFound = errors.New("pak: entry not found")

	// ErrNoMatch is returned when a name filter matches nothing.
	ErrNoMatch = errors.New("pak: no matching entries")

	// ErrFileNotFound is returned when a named input file does not exist.
	ErrFileNotFound = errors.New("pak: file not found")

	// ErrManifest is matched by every manifest parse or build error.
	ErrManifest = errors.New("pak: manifest error")

	// ErrNotBuilt is returned when an archive is requested from a manifest
	// that has not been built without errors.
	ErrNotBuilt = errors.New("pak: manifest not built")

	// ErrSizeOverflow is returned when a name or payload exceeds the
	// record field widths.
	ErrSizeOverflow = errors.New("pak: size overflow")
)

// Sentinel errors for entry list manipulation.
var (
	// ErrInvalidName is returned for an empty or oversized entry name.
	ErrInvalidName = errors.New("pak: invalid entry name")

	// ErrPosition is returned when an insert position is outside the list.
	ErrPosition = errors.New("pak: position out of range")

	// ErrPadEntry is returned when a file-only operation targets a pad.
	ErrPadEntry = errors.New("pak: operation not valid for a pad entry")

	// ErrInvalidPattern is returned when a name pattern cannot be compiled.
	ErrInvalidPattern = errors.New("pak: invalid pattern")
)
