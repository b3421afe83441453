package header_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JeffersonLab/evio-sub004/endian"
	"github.com/JeffersonLab/evio-sub004/header"
)

func TestFileHeaderRoundTrip(t *testing.T) {
	f := header.NewFile()
	f.SplitNumber = 2
	f.RecordCount = 10
	f.IndexLengthBytes = 40
	f.Info.HasTrailerIndex = true
	f.Info.HasDictionary = true
	f.TrailerPosition = 123456789
	f.UserInt1 = 7

	buf := make([]byte, header.SizeBytes)
	require.NoError(t, header.WriteFile(f, endian.GetLittleEndianEngine(), buf, 0))

	got, err := header.ReadFile(buf, 0)
	require.NoError(t, err)

	assert.Equal(t, f.SplitNumber, got.SplitNumber)
	assert.Equal(t, f.RecordCount, got.RecordCount)
	assert.True(t, got.Info.HasTrailerIndex)
	assert.True(t, got.Info.HasDictionary)
	assert.Equal(t, f.TrailerPosition, got.TrailerPosition)
	assert.Equal(t, f.UserInt1, got.UserInt1)
}

func TestFileHeaderBackPatchTrailerPosition(t *testing.T) {
	f := header.NewFile()
	buf := make([]byte, header.SizeBytes)
	order := endian.GetLittleEndianEngine()
	require.NoError(t, header.WriteFile(f, order, buf, 0))

	require.NoError(t, header.BackPatchTrailerPosition(order, buf, 0, 99999))

	got, err := header.ReadFile(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(99999), got.TrailerPosition)
}

func TestFileHeaderBackPatchBitInfo(t *testing.T) {
	f := header.NewFile()
	buf := make([]byte, header.SizeBytes)
	order := endian.GetLittleEndianEngine()
	require.NoError(t, header.WriteFile(f, order, buf, 0))

	f.Info.HasTrailerIndex = true
	require.NoError(t, header.BackPatchBitInfo(order, buf, 0, f.Info))

	got, err := header.ReadFile(buf, 0)
	require.NoError(t, err)
	assert.True(t, got.Info.HasTrailerIndex)
}
