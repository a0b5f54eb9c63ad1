// Package codec implements the compression methods understood by the pak
// record format. The set of methods is closed: each tag maps to a fixed
// encoder/decoder pair in a dispatch table built at package init.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/meigma/pak/internal/paktype"
)

// codec is one row of the dispatch table.
type codec struct {
	encode func(data []byte) ([]byte, error)
	decode func(payload []byte, size int) ([]byte, error)
}

// codecs is indexed by compression tag.
var codecs = [...]codec{
	paktype.CompressionStore: {encode: encodeStore, decode: decodeStore},
	paktype.CompressionZlib:  {encode: encodeZlib, decode: decodeZlib},
	paktype.CompressionZstd:  {encode: encodeZstd, decode: decodeZstd},
	paktype.CompressionLZ4:   {encode: encodeLZ4, decode: decodeLZ4},
}

// ErrSizeMismatch is returned when a decoded payload is not the declared size.
var ErrSizeMismatch = errors.New("codec: decoded size mismatch")

func lookup(method paktype.Compression) (codec, error) {
	if int(method) >= len(codecs) {
		return codec{}, fmt.Errorf("%w: tag %d", paktype.ErrUnsupportedCodec, uint8(method))
	}
	return codecs[method], nil
}

// Encode compresses data with method. For CompressionStore the input is
// returned unchanged (no copy).
func Encode(method paktype.Compression, data []byte) ([]byte, error) {
	c, err := lookup(method)
	if err != nil {
		return nil, err
	}
	return c.encode(data)
}

// Decode decompresses payload with method. The result must be exactly size
// bytes long; anything else returns ErrSizeMismatch.
func Decode(method paktype.Compression, payload []byte, size int) ([]byte, error) {
	c, err := lookup(method)
	if err != nil {
		return nil, err
	}
	if size < 0 {
		return nil, fmt.Errorf("%w: negative size %d", ErrSizeMismatch, size)
	}
	out, err := c.decode(payload, size)
	if err != nil {
		return nil, fmt.Errorf("%s decompress: %w", method, err)
	}
	if len(out) != size {
		return nil, fmt.Errorf("%s decompress: %w: got %d bytes, expected %d",
			method, ErrSizeMismatch, len(out), size)
	}
	return out, nil
}

// Compress encodes data with method and reports the method actually used.
// When fallback is set and the encoded form is not smaller than data, the
// data is stored instead so incompressible input never grows.
func Compress(method paktype.Compression, data []byte, fallback bool) ([]byte, paktype.Compression, error) {
	payload, err := Encode(method, data)
	if err != nil {
		return nil, method, err
	}
	if fallback && method != paktype.CompressionStore && len(payload) >= len(data) {
		return data, paktype.CompressionStore, nil
	}
	return payload, method, nil
}

// maxInitialCapacity caps the buffer preallocated from a declared size.
// The declared size comes from the image and is not trusted; the buffer
// grows as real output arrives.
const maxInitialCapacity = 1 << 20

// readBounded reads at most size+1 bytes from r, so a stream that inflates
// past its declared size is caught after one extra byte.
func readBounded(r io.Reader, size int) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, min(size, maxInitialCapacity)))
	if _, err := io.Copy(buf, io.LimitReader(r, int64(size)+1)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeStore(data []byte) ([]byte, error) {
	return data, nil
}

func decodeStore(payload []byte, size int) ([]byte, error) {
	if len(payload) != size {
		return nil, fmt.Errorf("%w: stored payload is %d bytes, expected %d", ErrSizeMismatch, len(payload), size)
	}
	return payload, nil
}
