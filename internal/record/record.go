// Package record encodes and decodes the on-disk record layout of pak
// images.
//
// An image is a plain sequence of records with no index or footer. Every
// record starts with a four byte magic:
//
//	File: magic "PAKF" | u16 name length | name | u8 method | u32 size | u32 csize | payload
//	Pad:  magic "PAKP" | u8 method (0)   | u32 size | u32 size              | fill
//
// All integers are big-endian.
package record

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/meigma/pak/internal/paktype"
)

// Magic tags.
const (
	MagicFile uint32 = 0x50414B46 // "PAKF"
	MagicPad  uint32 = 0x50414B50 // "PAKP"
)

// Header sizes, excluding the name of a file record.
const (
	FileHeaderSize = 4 + 2 + 1 + 4 + 4
	PadHeaderSize  = 4 + 1 + 4 + 4
)

// Limits imposed by the field widths.
const (
	MaxNameLen     = math.MaxUint16
	MaxPayloadSize = math.MaxUint32
)

// Decode failures. All of them also match paktype.ErrCorruptArchive.
var (
	ErrBadMagic     = errors.New("record: unknown magic")
	ErrTruncated    = errors.New("record: truncated")
	ErrSizeMismatch = errors.New("record: size fields disagree")
	ErrEmptyName    = errors.New("record: empty file name")
)

// Header describes one record.
type Header struct {
	Kind           paktype.Kind
	Name           string
	Method         paktype.Compression
	Size           uint32
	CompressedSize uint32
}

// Len returns the encoded header length.
func (h Header) Len() int {
	if h.Kind == paktype.KindPad {
		return PadHeaderSize
	}
	return FileHeaderSize + len(h.Name)
}

// RecordLen returns the encoded length of header plus payload.
func (h Header) RecordLen() int {
	return h.Len() + int(h.CompressedSize)
}

// Validate checks the header against the format limits.
func (h Header) Validate() error {
	switch h.Kind {
	case paktype.KindFile:
		if h.Name == "" {
			return ErrEmptyName
		}
		if len(h.Name) > MaxNameLen {
			return fmt.Errorf("%w: name is %d bytes", paktype.ErrSizeOverflow, len(h.Name))
		}
	case paktype.KindPad:
		if h.Method != paktype.CompressionStore || h.Size != h.CompressedSize {
			return ErrSizeMismatch
		}
	default:
		return fmt.Errorf("record: unknown kind %d", h.Kind)
	}
	if h.Method == paktype.CompressionStore && h.Size != h.CompressedSize {
		return ErrSizeMismatch
	}
	return nil
}

// AppendHeader appends the encoded header to dst.
func AppendHeader(dst []byte, h Header) []byte {
	if h.Kind == paktype.KindPad {
		dst = binary.BigEndian.AppendUint32(dst, MagicPad)
		dst = append(dst, byte(paktype.CompressionStore))
		dst = binary.BigEndian.AppendUint32(dst, h.Size)
		return binary.BigEndian.AppendUint32(dst, h.CompressedSize)
	}
	dst = binary.BigEndian.AppendUint32(dst, MagicFile)
	dst = binary.BigEndian.AppendUint16(dst, uint16(len(h.Name))) //nolint:gosec // bounded by Validate
	dst = append(dst, h.Name...)
	dst = append(dst, byte(h.Method))
	dst = binary.BigEndian.AppendUint32(dst, h.Size)
	return binary.BigEndian.AppendUint32(dst, h.CompressedSize)
}

// Append validates h and appends the full record (header then payload).
func Append(dst []byte, h Header, payload []byte) ([]byte, error) {
	if uint64(len(payload)) > MaxPayloadSize {
		return dst, fmt.Errorf("%w: payload is %d bytes", paktype.ErrSizeOverflow, len(payload))
	}
	if int(h.CompressedSize) != len(payload) {
		return dst, fmt.Errorf("record %q: header declares %d payload bytes, have %d", h.Name, h.CompressedSize, len(payload))
	}
	if err := h.Validate(); err != nil {
		return dst, fmt.Errorf("record %q: %w", h.Name, err)
	}
	dst = AppendHeader(dst, h)
	return append(dst, payload...), nil
}

// ParseHeader decodes the header at the start of buf and returns it with
// the number of header bytes consumed. The payload is not checked.
func ParseHeader(buf []byte) (Header, int, error) {
	if len(buf) < 4 {
		return Header{}, 0, ErrTruncated
	}
	switch magic := binary.BigEndian.Uint32(buf); magic {
	case MagicFile:
		if len(buf) < 6 {
			return Header{}, 0, ErrTruncated
		}
		nameLen := int(binary.BigEndian.Uint16(buf[4:]))
		n := FileHeaderSize + nameLen
		if len(buf) < n {
			return Header{}, 0, ErrTruncated
		}
		off := 6 + nameLen
		return Header{
			Kind:           paktype.KindFile,
			Name:           string(buf[6:off]),
			Method:         paktype.Compression(buf[off]),
			Size:           binary.BigEndian.Uint32(buf[off+1:]),
			CompressedSize: binary.BigEndian.Uint32(buf[off+5:]),
		}, n, nil
	case MagicPad:
		if len(buf) < PadHeaderSize {
			return Header{}, 0, ErrTruncated
		}
		return Header{
			Kind:           paktype.KindPad,
			Method:         paktype.Compression(buf[4]),
			Size:           binary.BigEndian.Uint32(buf[5:]),
			CompressedSize: binary.BigEndian.Uint32(buf[9:]),
		}, PadHeaderSize, nil
	default:
		return Header{}, 0, fmt.Errorf("%w 0x%08X", ErrBadMagic, magic)
	}
}

// Record is one decoded record. Payload aliases the image it was parsed
// from.
type Record struct {
	Header
	Offset  int
	Payload []byte
}

// Parse splits image into records. Any malformed record fails the whole
// parse with an error matching paktype.ErrCorruptArchive.
func Parse(image []byte) ([]Record, error) {
	var records []Record
	for off := 0; off < len(image); {
		h, n, err := ParseHeader(image[off:])
		if err != nil {
			return nil, corrupt(off, err)
		}
		if err := h.Validate(); err != nil {
			return nil, corrupt(off, err)
		}
		if !h.Method.Valid() {
			return nil, corrupt(off, fmt.Errorf("%w: tag %d", paktype.ErrUnsupportedCodec, uint8(h.Method)))
		}
		start := off + n
		end := start + int(h.CompressedSize)
		if end > len(image) || end < start {
			return nil, corrupt(off, fmt.Errorf("%w: payload needs %d bytes, %d remain", ErrTruncated, h.CompressedSize, len(image)-start))
		}
		records = append(records, Record{
			Header:  h,
			Offset:  off,
			Payload: image[start:end:end],
		})
		off = end
	}
	return records, nil
}

// PadFor returns the pad length needed so that a record starting after a
// pad placed at offset begins on a multiple of boundary.
func PadFor(offset, boundary int) int {
	if boundary <= 1 {
		return 0
	}
	next := offset + PadHeaderSize
	return (boundary - next%boundary) % boundary
}

func corrupt(off int, err error) error {
	return fmt.Errorf("%w: record at offset 0x%X: %w", paktype.ErrCorruptArchive, off, err)
}
