package compress_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JeffersonLab/evio-sub004/compress"
	"github.com/JeffersonLab/evio-sub004/format"
)

func roundTrip(t *testing.T, kind format.CompressionType, data []byte) {
	t.Helper()

	codec, err := compress.CreateCodec(kind)
	require.NoError(t, err)

	compressed, err := codec.Compress(data)
	require.NoError(t, err)

	decompressed, err := codec.Decompress(compressed, len(data))
	require.NoError(t, err)

	assert.Equal(t, data, decompressed)
}

func TestCodecRoundTrip(t *testing.T) {
	data := make([]byte, 4096)
	for i := range data {
		data[i] = byte(i % 251)
	}

	for _, kind := range []format.CompressionType{
		format.CompressionNone,
		format.CompressionLZ4Fast,
		format.CompressionLZ4Best,
		format.CompressionGzip,
	} {
		t.Run(kind.String(), func(t *testing.T) {
			roundTrip(t, kind, data)
		})
	}
}

func TestCreateCodecUnsupported(t *testing.T) {
	_, err := compress.CreateCodec(format.CompressionType(99))
	assert.Error(t, err)
}

func TestCodecEmptyInput(t *testing.T) {
	codec, err := compress.CreateCodec(format.CompressionLZ4Fast)
	require.NoError(t, err)

	compressed, err := codec.Compress(nil)
	require.NoError(t, err)
	assert.Nil(t, compressed)
}
