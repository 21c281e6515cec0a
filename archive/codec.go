// Package archive provides optional whole-stream compression for encoded
// RB values, used by LoadCompressed/WriteCompressed. The codec family is
// deliberately small and symmetric: the compressed form is the codec's
// one-byte tag followed by the compressed payload, so a reader never
// needs a side channel to know which codec produced a given blob.
package archive

import (
	"fmt"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Tag identifies which codec produced a compressed blob.
type Tag byte

const (
	TagNone Tag = iota
	TagS2
	TagZstd
	TagLZ4
)

// Compressor compresses a complete RB byte stream.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor decompresses a complete RB byte stream.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions under one tag.
type Codec interface {
	Compressor
	Decompressor
	Tag() Tag
}

// NoOp is the identity codec: it exists so callers can request
// "compression" uniformly and get a pass-through when they don't
// actually want one.
type NoOp struct{}

func (NoOp) Tag() Tag                             { return TagNone }
func (NoOp) Compress(data []byte) ([]byte, error) { return data, nil }
func (NoOp) Decompress(data []byte) ([]byte, error) {
	return data, nil
}

// S2 wraps klauspost/compress/s2, a Snappy-compatible codec tuned for
// throughput over ratio.
type S2 struct{}

func (S2) Tag() Tag { return TagS2 }

func (S2) Compress(data []byte) ([]byte, error) {
	return s2.Encode(nil, data), nil
}

func (S2) Decompress(data []byte) ([]byte, error) {
	return s2.Decode(nil, data)
}

// Zstd wraps klauspost/compress/zstd (the pure-Go implementation,
// chosen over a cgo binding so the codec never requires a C toolchain).
type Zstd struct{}

func (Zstd) Tag() Tag { return TagZstd }

func (Zstd) Compress(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("archive: creating zstd encoder: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}

func (Zstd) Decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("archive: creating zstd decoder: %w", err)
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}

// LZ4 wraps pierrec/lz4/v4 in whole-block mode.
type LZ4 struct{}

func (LZ4) Tag() Tag { return TagLZ4 }

func (LZ4) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dst := make([]byte, lz4.CompressBlockBound(len(data)))
	var c lz4.Compressor
	n, err := c.CompressBlock(data, dst)
	if err != nil {
		return nil, fmt.Errorf("archive: lz4 compress: %w", err)
	}
	if n == 0 && len(data) > 0 {
		// Incompressible block: lz4 reports 0 when the compressed form
		// would not be smaller. Fall back to storing it raw behind a 0
		// marker byte (1 marks a compressed block) so Decompress can
		// tell the two cases apart.
		return append([]byte{0}, data...), nil
	}
	return append([]byte{1}, dst[:n]...), nil
}

func (LZ4) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	marker, payload := data[0], data[1:]
	if marker == 0 {
		out := make([]byte, len(payload))
		copy(out, payload)
		return out, nil
	}
	// The original length isn't tracked by this block API, so callers
	// needing an exact-size destination should prefer S2 or Zstd; here
	// we grow geometrically until UncompressBlock stops truncating.
	size := len(payload) * 4
	if size < 64 {
		size = 64
	}
	for ; ; size *= 2 {
		dst := make([]byte, size)
		n, err := lz4.UncompressBlock(payload, dst)
		if err == nil {
			return dst[:n], nil
		}
		if size > 1<<30 {
			return nil, fmt.Errorf("archive: lz4 decompress: %w", err)
		}
	}
}

// ByTag returns the Codec for tag.
func ByTag(tag Tag) (Codec, error) {
	switch tag {
	case TagNone:
		return NoOp{}, nil
	case TagS2:
		return S2{}, nil
	case TagZstd:
		return Zstd{}, nil
	case TagLZ4:
		return LZ4{}, nil
	default:
		return nil, fmt.Errorf("archive: unknown codec tag %d", tag)
	}
}
