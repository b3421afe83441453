package compress

import (
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/JeffersonLab/evio-sub004/errs"
)

// lz4CompressorPool pools lz4.Compressor instances for the fast path, since
// lz4.Compressor carries internal state worth reusing across calls
// (github.com/arloliu/mebo/compress/lz4.go's lz4CompressorPool).
var lz4CompressorPool = sync.Pool{
	New: func() any { return &lz4.Compressor{} },
}

// LZ4Compressor implements format.CompressionLZ4Fast and
// format.CompressionLZ4Best. The fast variant uses a pooled lz4.Compressor's
// block compression; the best variant uses lz4.CompressBlockHC for a higher
// (slower) compression ratio, matching the split spec.md §4.10 draws
// between "target compression type" values.
type LZ4Compressor struct {
	highCompression bool
}

var _ Codec = LZ4Compressor{}

// NewLZ4Compressor returns an LZ4Compressor; high selects the
// high-compression (best) block mode instead of the pooled fast mode.
func NewLZ4Compressor(high bool) LZ4Compressor {
	return LZ4Compressor{highCompression: high}
}

// Compress compresses data with LZ4 block compression.
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	if c.highCompression {
		n, err := lz4.CompressBlockHC(data, dst, lz4.Level9, nil, nil)
		if err != nil || n == 0 {
			return nil, errs.ErrCompressionFailed
		}

		return dst[:n], nil
	}

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, errs.ErrCompressionFailed
	}
	if n == 0 {
		// CompressBlock declines to emit a block it judges incompressible;
		// fall back to the HC path, which always emits a valid block.
		n, err = lz4.CompressBlockHC(data, dst, lz4.Level9, nil, nil)
		if err != nil || n == 0 {
			return nil, errs.ErrCompressionFailed
		}
	}

	return dst[:n], nil
}

// Decompress decompresses an LZ4 block into a buffer sized from
// expectedLen, the uncompressed length recorded in the record header.
func (c LZ4Compressor) Decompress(data []byte, expectedLen int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	dst := make([]byte, expectedLen)
	n, err := lz4.UncompressBlock(data, dst)
	if err != nil {
		return nil, errs.ErrDecompressionFailed
	}

	return dst[:n], nil
}
