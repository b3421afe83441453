package scan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JeffersonLab/evio-sub004/bytesio"
	"github.com/JeffersonLab/evio-sub004/endian"
	"github.com/JeffersonLab/evio-sub004/errs"
	"github.com/JeffersonLab/evio-sub004/format"
	"github.com/JeffersonLab/evio-sub004/header"
	"github.com/JeffersonLab/evio-sub004/scan"
	"github.com/JeffersonLab/evio-sub004/structure"
)

// writeEvent serializes n and returns its wire bytes, after finalizing its
// length/pad fields.
func writeEvent(t *testing.T, n *structure.Node, order endian.EndianEngine) []byte {
	t.Helper()

	n.Recompute()
	cur := bytesio.NewCursorCapacity(256, order)
	require.NoError(t, n.Write(cur))
	cur.Flip()

	return append([]byte(nil), cur.Bytes()[:cur.Limit()]...)
}

// buildRecordBuffer assembles one uncompressed v6 record with an index
// array and two bank events, returning the full buffer.
func buildRecordBuffer(t *testing.T, order endian.EndianEngine) []byte {
	t.Helper()

	ev1 := structure.NewNode(format.KindBank, 10, 1, format.TypeInt32)
	ev1.Ints = []int32{1, 2, 3}
	bytes1 := writeEvent(t, ev1, order)

	ev2 := structure.NewNode(format.KindBank, 20, 2, format.TypeInt8)
	ev2.Bytes = []int8{1, 2, 3, 4, 5}
	bytes2 := writeEvent(t, ev2, order)

	indexBytes := 8
	dataLen := len(bytes1) + len(bytes2)

	rh := header.NewRecord()
	rh.Entries = 2
	rh.IndexLengthBytes = uint32(indexBytes)
	rh.UncompressedDataLengthBytes = uint32(dataLen)
	rh.RecordLengthWords = uint32(header.SizeBytes+indexBytes+dataLen) / 4
	rh.Info.IsLastRecord = true
	rh.ByteOrder = order

	total := header.SizeBytes + indexBytes + dataLen
	buf := make([]byte, total)

	require.NoError(t, header.Write(rh, order, buf, 0))

	order.PutUint32(buf[header.SizeBytes:], uint32(len(bytes1)))
	order.PutUint32(buf[header.SizeBytes+4:], uint32(len(bytes2)))

	dataStart := header.SizeBytes + indexBytes
	copy(buf[dataStart:], bytes1)
	copy(buf[dataStart+len(bytes1):], bytes2)

	return buf
}

func TestScanBufferTwoEvents(t *testing.T) {
	order := endian.GetLittleEndianEngine()
	buf := buildRecordBuffer(t, order)

	idx, err := scan.ScanBuffer(buf, 0, order)
	require.NoError(t, err)

	roots := idx.EventRoots()
	require.Len(t, roots, 2)

	first := idx.Entries[roots[0]]
	assert.Equal(t, uint16(10), first.Tag)
	assert.Equal(t, uint8(1), first.Num)
	assert.Equal(t, header.SizeBytes+8, first.Position)
	assert.False(t, first.NotEvio)

	second := idx.Entries[roots[1]]
	assert.Equal(t, uint16(20), second.Tag)
	assert.Equal(t, uint8(2), second.Num)
	assert.Equal(t, uint8(3), second.Pad)
}

func TestScanBufferRejectsCompressed(t *testing.T) {
	order := endian.GetLittleEndianEngine()
	buf := buildRecordBuffer(t, order)

	rh, err := header.Read(buf, 0)
	require.NoError(t, err)
	rh.CompressionType = format.CompressionLZ4Fast
	require.NoError(t, header.Write(rh, order, buf, 0))

	_, err = scan.ScanBuffer(buf, 0, order)
	assert.ErrorIs(t, err, errs.ErrCompressedEditForbidden)
}

func TestEntryRefStaleAfterInvalidate(t *testing.T) {
	order := endian.GetLittleEndianEngine()
	buf := buildRecordBuffer(t, order)

	idx, err := scan.ScanBuffer(buf, 0, order)
	require.NoError(t, err)

	ref := idx.Ref(0)
	idx.Invalidate()

	_, err = ref.Get()
	assert.ErrorIs(t, err, errs.ErrStaleReference)
}
