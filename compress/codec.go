// Package compress implements the record-payload compression collaborator
// contract from spec.md §6 ("compress(kind, src) -> Vec<u8>",
// "decompress(kind, src, expected_len) -> Vec<u8>"), adapted from
// github.com/arloliu/mebo/compress's Compressor/Decompressor/Codec split and
// factory function.
package compress

import (
	"fmt"

	"github.com/JeffersonLab/evio-sub004/format"
)

// Compressor compresses a record's uncompressed payload bytes.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor decompresses a record's compressed payload bytes back to its
// uncompressed length. expectedLen comes from the record header's
// uncompressed_data_length field (spec.md §4.8), letting an implementation
// preallocate exactly instead of guessing and growing.
type Decompressor interface {
	Decompress(data []byte, expectedLen int) ([]byte, error)
}

// Codec combines both directions; every built-in compression kind is
// implemented by a single type satisfying both.
type Codec interface {
	Compressor
	Decompressor
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone:    NoOpCompressor{},
	format.CompressionLZ4Fast: NewLZ4Compressor(false),
	format.CompressionLZ4Best: NewLZ4Compressor(true),
	format.CompressionGzip:    GzipCompressor{},
}

// CreateCodec returns the Codec for kind, failing if kind is not one of the
// four defined compression types (spec.md §6 "Kinds: none, LZ4-fast,
// LZ4-best, gzip").
func CreateCodec(kind format.CompressionType) (Codec, error) {
	codec, ok := builtinCodecs[kind]
	if !ok {
		return nil, fmt.Errorf("compress: unsupported compression type %s", kind)
	}

	return codec, nil
}
