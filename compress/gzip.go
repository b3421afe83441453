package compress

import (
	"bytes"
	"io"

	"github.com/klauspost/pgzip"

	"github.com/JeffersonLab/evio-sub004/errs"
)

// GzipCompressor implements format.CompressionGzip using
// github.com/klauspost/pgzip, the parallel gzip implementation already used
// by the teacher pack's distri build (distr1-distri/cmd/distri/initrd.go)
// for archive assembly.
type GzipCompressor struct{}

var _ Codec = GzipCompressor{}

// Compress gzip-compresses data.
func (GzipCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	w := pgzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, errs.ErrCompressionFailed
	}
	if err := w.Close(); err != nil {
		return nil, errs.ErrCompressionFailed
	}

	return buf.Bytes(), nil
}

// Decompress gzip-decompresses data into a buffer sized from expectedLen.
func (GzipCompressor) Decompress(data []byte, expectedLen int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	r, err := pgzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, errs.ErrDecompressionFailed
	}
	defer r.Close()

	out := make([]byte, 0, expectedLen)
	buf := bytes.NewBuffer(out)
	if _, err := io.Copy(buf, r); err != nil {
		return nil, errs.ErrDecompressionFailed
	}

	return buf.Bytes(), nil
}
