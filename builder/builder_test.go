package builder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JeffersonLab/evio-sub004/builder"
	"github.com/JeffersonLab/evio-sub004/bytesio"
	"github.com/JeffersonLab/evio-sub004/endian"
	"github.com/JeffersonLab/evio-sub004/errs"
	"github.com/JeffersonLab/evio-sub004/format"
	"github.com/JeffersonLab/evio-sub004/structure"
)

func TestBuilderNestedBankAncestorLengthBackfill(t *testing.T) {
	order := endian.GetLittleEndianEngine()
	cur := bytesio.NewCursorCapacity(256, order)
	b := builder.New(cur)

	require.NoError(t, b.OpenBank(1, 0, format.TypeBank))
	require.NoError(t, b.OpenBank(2, 1, format.TypeInt32))
	require.NoError(t, b.AddIntData([]int32{1, 2, 3}))
	require.NoError(t, b.CloseStructure())

	require.NoError(t, b.OpenBank(3, 0, format.TypeInt8))
	require.NoError(t, b.AddByteData([]int8{1, 2, 3, 4, 5}))
	require.NoError(t, b.CloseAll())
	assert.Equal(t, 0, b.Depth())

	cur.Flip()
	root, used, err := structure.ParseBank(cur.Bytes(), 0, order)
	require.NoError(t, err)
	assert.Equal(t, used, cur.Limit())
	require.Len(t, root.Children, 2)

	ints := root.Children[0]
	assert.Equal(t, uint16(2), ints.Tag)
	assert.Equal(t, uint8(1), ints.Num)
	assert.Equal(t, []int32{1, 2, 3}, ints.Ints)

	chars := root.Children[1]
	assert.Equal(t, uint16(3), chars.Tag)
	assert.Equal(t, []int8{1, 2, 3, 4, 5}, chars.Bytes)
	assert.Equal(t, uint8(3), chars.Pad)
}

func TestBuilderAddByteDataRepeatedCalls(t *testing.T) {
	order := endian.GetLittleEndianEngine()
	cur := bytesio.NewCursorCapacity(64, order)
	b := builder.New(cur)

	require.NoError(t, b.OpenBank(1, 0, format.TypeInt8))
	require.NoError(t, b.AddByteData([]int8{1, 2, 3}))
	require.NoError(t, b.AddByteData([]int8{4, 5}))
	require.NoError(t, b.CloseAll())

	cur.Flip()
	n, used, err := structure.ParseBank(cur.Bytes(), 0, order)
	require.NoError(t, err)
	assert.Equal(t, used, cur.Limit())
	assert.Equal(t, []int8{1, 2, 3, 4, 5}, n.Bytes)
}

func TestBuilderRejectsWrongChildKind(t *testing.T) {
	order := endian.GetLittleEndianEngine()
	cur := bytesio.NewCursorCapacity(64, order)
	b := builder.New(cur)

	require.NoError(t, b.OpenBank(1, 0, format.TypeBank))
	err := b.OpenSegment(2, format.TypeInt32)
	assert.ErrorIs(t, err, errs.ErrTypeMismatch)
}

func TestBuilderDepthExceeded(t *testing.T) {
	order := endian.GetLittleEndianEngine()
	cur := bytesio.NewCursorCapacity(4096, order)
	b := builder.New(cur)

	for i := 0; i < builder.MaxDepth; i++ {
		require.NoError(t, b.OpenBank(uint16(i), 0, format.TypeBank))
	}

	err := b.OpenBank(999, 0, format.TypeBank)
	assert.ErrorIs(t, err, errs.ErrDepthExceeded)
}

func TestBuilderStringDataAlreadyWritten(t *testing.T) {
	order := endian.GetLittleEndianEngine()
	cur := bytesio.NewCursorCapacity(64, order)
	b := builder.New(cur)

	require.NoError(t, b.OpenBank(1, 0, format.TypeCharStar8))
	require.NoError(t, b.AddStringData([]string{"hello", "world"}))
	err := b.AddStringData([]string{"again"})
	assert.ErrorIs(t, err, errs.ErrAlreadyWritten)
}

func TestBuilderAddEvioNodeSameOrder(t *testing.T) {
	order := endian.GetLittleEndianEngine()

	src := structure.NewNode(format.KindBank, 7, 2, format.TypeInt32)
	src.Ints = []int32{42}
	src.Recompute()
	srcCur := bytesio.NewCursorCapacity(64, order)
	require.NoError(t, src.Write(srcCur))
	srcCur.Flip()
	srcBytes := append([]byte(nil), srcCur.Bytes()[:srcCur.Limit()]...)

	dstCur := bytesio.NewCursorCapacity(64, order)
	b := builder.New(dstCur)
	require.NoError(t, b.OpenBank(1, 0, format.TypeBank))
	require.NoError(t, b.AddEvioNode(srcBytes, 0, order))
	require.NoError(t, b.CloseAll())

	dstCur.Flip()
	root, _, err := structure.ParseBank(dstCur.Bytes(), 0, order)
	require.NoError(t, err)
	require.Len(t, root.Children, 1)
	assert.Equal(t, uint16(7), root.Children[0].Tag)
	assert.Equal(t, []int32{42}, root.Children[0].Ints)
}

func TestBuilderAddEvioNodeCrossOrderLeavesPayloadUnswapped(t *testing.T) {
	srcOrder := endian.GetLittleEndianEngine()
	dstOrder := endian.GetBigEndianEngine()

	src := structure.NewNode(format.KindBank, 9, 3, format.TypeInt32)
	src.Ints = []int32{0x01020304}
	src.Recompute()
	srcCur := bytesio.NewCursorCapacity(64, srcOrder)
	require.NoError(t, src.Write(srcCur))
	srcCur.Flip()
	srcBytes := append([]byte(nil), srcCur.Bytes()[:srcCur.Limit()]...)

	dstCur := bytesio.NewCursorCapacity(64, dstOrder)
	b := builder.New(dstCur)
	require.NoError(t, b.OpenBank(1, 0, format.TypeBank))
	require.NoError(t, b.AddEvioNode(srcBytes, 0, srcOrder))
	require.NoError(t, b.CloseAll())

	dstCur.Flip()
	out := dstCur.Bytes()[:dstCur.Limit()]

	// The copied child's header lives right after the root's 8-byte
	// header, and its own header is 8 bytes; the payload word follows.
	payload := out[16:20]
	assert.Equal(t, srcBytes[8:12], payload)

	root, _, err := structure.ParseBank(out, 0, dstOrder)
	require.NoError(t, err)
	require.Len(t, root.Children, 1)
	assert.Equal(t, uint16(9), root.Children[0].Tag)
	assert.Equal(t, uint8(3), root.Children[0].Num)
}
