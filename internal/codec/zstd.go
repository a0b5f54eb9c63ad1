package codec

import (
	"bytes"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// maxDecoderMemory bounds the memory a single zstd decode may allocate.
const maxDecoderMemory = 1 << 32

// zstdEncoder is shared; EncodeAll is safe for concurrent use.
var zstdEncoder *zstd.Encoder

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
		zstd.WithEncoderConcurrency(1),
		zstd.WithZeroFrames(true),
	)
	if err != nil {
		panic("codec: zstd encoder initialization failed: " + err.Error())
	}
}

// decoderPool manages reusable zstd decoders to reduce allocation overhead.
var decoderPool = sync.Pool{
	New: func() any {
		dec, err := newDecoder(nil)
		if err != nil {
			return nil
		}
		return dec
	},
}

func newDecoder(r io.Reader) (*zstd.Decoder, error) {
	return zstd.NewReader(r,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderLowmem(false),
		zstd.WithDecoderMaxMemory(maxDecoderMemory),
	)
}

// getDecoder returns a decoder reading from r and its release function.
func getDecoder(r io.Reader) (*zstd.Decoder, func(), error) {
	if dec, ok := decoderPool.Get().(*zstd.Decoder); ok && dec != nil {
		if err := dec.Reset(r); err == nil {
			return dec, func() {
				_ = dec.Reset(nil) //nolint:errcheck // clearing state before pool return
				decoderPool.Put(dec)
			}, nil
		}
		dec.Close()
	}
	// Pool's New function or Reset failed, try directly
	dec, err := newDecoder(r)
	if err != nil {
		return nil, nil, err
	}
	return dec, dec.Close, nil
}

func encodeZstd(data []byte) ([]byte, error) {
	return zstdEncoder.EncodeAll(data, nil), nil
}

func decodeZstd(payload []byte, size int) ([]byte, error) {
	dec, release, err := getDecoder(bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer release()
	return readBounded(dec, size)
}
