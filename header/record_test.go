package header_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JeffersonLab/evio-sub004/endian"
	"github.com/JeffersonLab/evio-sub004/errs"
	"github.com/JeffersonLab/evio-sub004/format"
	"github.com/JeffersonLab/evio-sub004/header"
)

func TestRecordHeaderRoundTrip(t *testing.T) {
	r := header.NewRecord()
	r.RecordLengthWords = 20
	r.Entries = 3
	r.IndexLengthBytes = 12
	r.UncompressedDataLengthBytes = 48
	r.Info.HasDictionary = true
	r.Info.EventType = format.EventTypePhysics
	r.CompressionType = format.CompressionLZ4Fast
	r.CompressedDataLengthWords = 10
	r.UserRegister1 = 0x1122334455667788

	buf := make([]byte, header.SizeBytes)
	require.NoError(t, header.Write(r, endian.GetLittleEndianEngine(), buf, 0))

	got, err := header.Read(buf, 0)
	require.NoError(t, err)

	assert.Equal(t, r.RecordLengthWords, got.RecordLengthWords)
	assert.Equal(t, r.Entries, got.Entries)
	assert.Equal(t, r.IndexLengthBytes, got.IndexLengthBytes)
	assert.True(t, got.Info.HasDictionary)
	assert.Equal(t, format.EventTypePhysics, got.Info.EventType)
	assert.Equal(t, format.CompressionLZ4Fast, got.CompressionType)
	assert.Equal(t, uint32(10), got.CompressedDataLengthWords)
	assert.Equal(t, r.UserRegister1, got.UserRegister1)
}

func TestRecordHeaderMagicAutodetect(t *testing.T) {
	r := header.NewRecord()
	buf := make([]byte, header.SizeBytes)
	require.NoError(t, header.Write(r, endian.GetBigEndianEngine(), buf, 0))

	got, err := header.Read(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, endian.GetBigEndianEngine(), got.ByteOrder)
}

func TestRecordHeaderBadMagic(t *testing.T) {
	buf := make([]byte, header.SizeBytes)
	_, err := header.Read(buf, 0)
	assert.ErrorIs(t, err, errs.ErrBadMagic)
}

func TestRecordHeaderIndexMismatch(t *testing.T) {
	r := header.NewRecord()
	r.Entries = 3
	r.IndexLengthBytes = 8 // should be 12
	buf := make([]byte, header.SizeBytes)
	require.NoError(t, header.Write(r, endian.GetLittleEndianEngine(), buf, 0))

	_, err := header.Read(buf, 0)
	assert.ErrorIs(t, err, errs.ErrBadFormat)
}

func TestIsCompressed(t *testing.T) {
	r := header.NewRecord()
	r.CompressionType = format.CompressionGzip
	buf := make([]byte, header.SizeBytes)
	require.NoError(t, header.Write(r, endian.GetLittleEndianEngine(), buf, 0))

	ok, err := header.IsCompressed(buf, 0)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBuildTrailer(t *testing.T) {
	idx := []header.RecordLengthEntry{{RecordLengthBytes: 100, EventCount: 2}, {RecordLengthBytes: 200, EventCount: 5}}
	data := header.BuildTrailer(7, endian.GetLittleEndianEngine(), idx)

	got, err := header.Read(data, 0)
	require.NoError(t, err)
	assert.True(t, got.Info.IsLastRecord)
	assert.Equal(t, format.HeaderTypeEvioTrailer, got.Info.HeaderType)
	assert.Equal(t, uint32(0), got.Entries)
	assert.Equal(t, uint32(16), got.IndexLengthBytes)
}
