package header_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JeffersonLab/evio-sub004/endian"
	"github.com/JeffersonLab/evio-sub004/errs"
	"github.com/JeffersonLab/evio-sub004/header"
)

func buildLegacyV4(t *testing.T, order endian.EndianEngine) []byte {
	t.Helper()
	buf := make([]byte, header.LegacySizeBytes)
	order.PutUint32(buf[0:], 8)  // block size words
	order.PutUint32(buf[4:], 1)  // block number
	order.PutUint32(buf[8:], 8)  // header len words
	order.PutUint32(buf[12:], 3) // event count
	bitWord := uint32(4) // version 4
	order.PutUint32(buf[20:], bitWord)
	order.PutUint32(buf[28:], header.Magic)

	return buf
}

func TestReadLegacyV4(t *testing.T) {
	buf := buildLegacyV4(t, endian.GetLittleEndianEngine())

	l, err := header.ReadLegacy(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, uint8(4), l.Version)
	assert.Equal(t, uint32(3), l.EventCount)
	assert.Equal(t, endian.GetLittleEndianEngine(), l.ByteOrder)
}

func TestReadLegacyBigEndian(t *testing.T) {
	buf := buildLegacyV4(t, endian.GetBigEndianEngine())

	l, err := header.ReadLegacy(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, endian.GetBigEndianEngine(), l.ByteOrder)
}

func TestReadLegacyRejectsV6(t *testing.T) {
	buf := make([]byte, header.LegacySizeBytes)
	order := endian.GetLittleEndianEngine()
	order.PutUint32(buf[20:], 6)
	order.PutUint32(buf[28:], header.Magic)

	_, err := header.ReadLegacy(buf, 0)
	assert.ErrorIs(t, err, errs.ErrUnsupportedVersion)
}

func TestReadLegacyBadMagic(t *testing.T) {
	buf := make([]byte, header.LegacySizeBytes)
	_, err := header.ReadLegacy(buf, 0)
	assert.ErrorIs(t, err, errs.ErrBadMagic)
}
