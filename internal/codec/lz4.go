package codec

import (
	"bytes"

	"github.com/pierrec/lz4/v4"
)

// LZ4 uses the frame format rather than raw blocks: frames store
// incompressible blocks verbatim, so every input (including empty input)
// has a valid encoding.

func encodeLZ4(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeLZ4(payload []byte, size int) ([]byte, error) {
	return readBounded(lz4.NewReader(bytes.NewReader(payload)), size)
}
