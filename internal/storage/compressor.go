package storage

import (
	"fmt"
	"signin/internal/storage/interfaces"

	"github.com/klauspost/compress/zstd"
)

// ZstdCompression compresses whole snapshots in one shot. The encoder and
// decoder run worker goroutines until Close.
type ZstdCompression struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func NewZstdCompressor() (interfaces.CompressorInterface, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	return &ZstdCompression{enc: enc, dec: dec}, nil
}

func (z *ZstdCompression) Compress(snapshot []byte) ([]byte, error) {
	return z.enc.EncodeAll(snapshot, make([]byte, 0, len(snapshot)/2)), nil
}

func (z *ZstdCompression) Decompress(snapshot []byte) ([]byte, error) {
	return z.dec.DecodeAll(snapshot, nil)
}

func (z *ZstdCompression) Close() error {
	z.dec.Close()
	return z.enc.Close()
}

// PlainCompression stores snapshots as-is.
type PlainCompression struct{}

func (PlainCompression) Compress(val []byte) ([]byte, error)   { return val, nil }
func (PlainCompression) Decompress(val []byte) ([]byte, error) { return val, nil }
func (PlainCompression) Close() error                          { return nil }
