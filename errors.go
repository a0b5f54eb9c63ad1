package pak

import "github.com/meigma/pak/internal/paktype"

// Sentinel errors re-exported from internal/paktype.
var (
	// ErrCorruptArchive is returned when an image is malformed or truncated.
	ErrCorruptArchive = paktype.ErrCorruptArchive

	// ErrUnsupportedCodec is returned for an unknown compression method.
	ErrUnsupportedCodec = paktype.ErrUnsupportedCodec

	// ErrUnsupportedAlgorithm is returned for an unknown hash algorithm.
	ErrUnsupportedAlgorithm = paktype.ErrUnsupportedAlgorithm

	// ErrNoBoundPath is returned when an archive without a path is saved or
	// loaded.
	ErrNoBoundPath = paktype.ErrNoBoundPath

	// ErrEntryNotFound is returned when an entry is not in the archive.
	ErrEntryNotFound = paktype.ErrEntryNotFound

	// ErrNoMatch is returned when a name filter matches nothing.
	ErrNoMatch = paktype.ErrNoMatch

	// ErrFileNotFound is returned when an input file does not exist.
	ErrFileNotFound = paktype.ErrFileNotFound

	// ErrManifest is matched by every manifest parse or build error.
	ErrManifest = paktype.ErrManifest

	// ErrNotBuilt is returned when creating an archive from an unbuilt manifest.
	ErrNotBuilt = paktype.ErrNotBuilt

	// ErrSizeOverflow is returned when a name or payload exceeds format limits.
	ErrSizeOverflow = paktype.ErrSizeOverflow

	// ErrInvalidName is returned for an empty or oversized entry name.
	ErrInvalidName = paktype.ErrInvalidName

	// ErrPosition is returned when an insert position is out of range.
	ErrPosition = paktype.ErrPosition

	// ErrPadEntry is returned when a file-only operation targets a pad.
	ErrPadEntry = paktype.ErrPadEntry

	// ErrInvalidPattern is returned when a name pattern cannot be compiled.
	ErrInvalidPattern = paktype.ErrInvalidPattern
)
