package compress

// NoOpCompressor implements format.CompressionNone: the payload is passed
// through unchanged, matching github.com/arloliu/mebo/compress's
// NoOpCompressor.
type NoOpCompressor struct{}

var _ Codec = NoOpCompressor{}

// Compress returns data unchanged.
func (NoOpCompressor) Compress(data []byte) ([]byte, error) { return data, nil }

// Decompress returns data unchanged; expectedLen is unused since there is
// nothing to size a destination buffer for.
func (NoOpCompressor) Decompress(data []byte, expectedLen int) ([]byte, error) { return data, nil }
