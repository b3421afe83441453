package structure_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JeffersonLab/evio-sub004/bytesio"
	"github.com/JeffersonLab/evio-sub004/endian"
	"github.com/JeffersonLab/evio-sub004/errs"
	"github.com/JeffersonLab/evio-sub004/format"
	"github.com/JeffersonLab/evio-sub004/structure"
)

func buildSample() *structure.Node {
	root := structure.NewNode(format.KindBank, 1, 0, format.TypeBank)

	ints := structure.NewNode(format.KindBank, 2, 1, format.TypeInt32)
	ints.Ints = []int32{1, 2, 3}
	ints.Recompute()

	chars := structure.NewNode(format.KindBank, 3, 0, format.TypeInt8)
	chars.Bytes = []int8{1, 2, 3, 4, 5}
	chars.Recompute()

	_ = root.Append(ints)
	_ = root.Append(chars)

	return root
}

// TestEmptyBankWireFormat covers spec.md §8 scenario 1 literally: a Bank
// with tag=0x1234, num=0x56, type INT32, and a single int 0x00000001 must
// serialize to the exact big-endian byte sequence
// "00 00 00 02 | 12 34 01 56 | 00 00 00 01" and re-parse to a one-element
// leaf with LengthWords=2.
func TestEmptyBankWireFormat(t *testing.T) {
	root := structure.NewNode(format.KindBank, 0x1234, 0x56, format.TypeInt32)
	root.Ints = []int32{1}
	root.Recompute()

	order := endian.GetBigEndianEngine()
	cur := bytesio.NewCursorCapacity(16, order)
	require.NoError(t, root.Write(cur))
	cur.Flip()

	want := []byte{
		0x00, 0x00, 0x00, 0x02,
		0x12, 0x34, 0x01, 0x56,
		0x00, 0x00, 0x00, 0x01,
	}
	assert.Equal(t, want, cur.Bytes()[:cur.Limit()])

	parsed, used, err := structure.ParseBank(cur.Bytes()[:cur.Limit()], 0, order)
	require.NoError(t, err)
	assert.Equal(t, len(want), used)
	assert.Equal(t, uint32(2), parsed.LengthWords)
	assert.Empty(t, parsed.Children)
	assert.Equal(t, []int32{1}, parsed.Ints)
}

func TestTreeWriteParseRoundTrip(t *testing.T) {
	root := buildSample()

	order := endian.GetLittleEndianEngine()
	cur := bytesio.NewCursorCapacity(256, order)
	require.NoError(t, root.Write(cur))
	cur.Flip()

	total := 4 + int(root.LengthWords)*4
	assert.Equal(t, total, cur.Limit())

	parsed, used, err := structure.ParseBank(cur.Bytes()[:cur.Limit()], 0, order)
	require.NoError(t, err)
	assert.Equal(t, total, used)
	assert.Equal(t, uint16(1), parsed.Tag)
	require.Len(t, parsed.Children, 2)
	assert.Equal(t, []int32{1, 2, 3}, parsed.Children[0].Ints)
	assert.Equal(t, []int8{1, 2, 3, 4, 5}, parsed.Children[1].Bytes)
	assert.Equal(t, uint8(3), parsed.Children[1].Pad)
}

func TestInsertTypeMismatch(t *testing.T) {
	leaf := structure.NewNode(format.KindBank, 1, 0, format.TypeInt32)
	leaf.Ints = []int32{1}
	child := structure.NewNode(format.KindBank, 2, 0, format.TypeInt32)

	err := leaf.Append(child)
	assert.ErrorIs(t, err, errs.ErrTypeMismatch)
}

func TestInsertIndexOutOfRange(t *testing.T) {
	root := structure.NewNode(format.KindBank, 1, 0, format.TypeBank)
	child := structure.NewNode(format.KindBank, 2, 0, format.TypeInt32)

	err := root.Insert(child, 5)
	assert.ErrorIs(t, err, errs.ErrIndexOutOfRange)
}

func TestRemovePropagatesAncestorLength(t *testing.T) {
	root := buildSample()
	root.Recompute()
	before := root.LengthWords

	removed, err := root.Remove(1) // the CHAR8 child
	require.NoError(t, err)

	totalBytesRemoved := 8 + 5 + int(removed.Pad) // bank header + data + pad
	wordsRemoved := uint32(totalBytesRemoved / 4)
	assert.Equal(t, before-wordsRemoved, root.LengthWords)
	assert.Len(t, root.Children, 1)
}

func TestSegmentRoundTrip(t *testing.T) {
	seg := structure.NewNode(format.KindSegment, 5, 0, format.TypeUint16)
	seg.UShorts = []uint16{10, 20, 30}
	seg.Recompute()

	order := endian.GetBigEndianEngine()
	cur := bytesio.NewCursorCapacity(64, order)
	require.NoError(t, seg.Write(cur))
	cur.Flip()

	parsed, used, err := structure.ParseSegment(cur.Bytes()[:cur.Limit()], 0, order)
	require.NoError(t, err)
	assert.Equal(t, cur.Limit(), used)
	assert.Equal(t, uint16(5), parsed.Tag)
	assert.Equal(t, []uint16{10, 20, 30}, parsed.UShorts)
}

func TestTagSegmentRoundTrip(t *testing.T) {
	ts := structure.NewNode(format.KindTagSegment, 0xABC, 0, format.TypeCharStar8)
	ts.Strings = []string{"hello", "world"}
	ts.Recompute()

	order := endian.GetLittleEndianEngine()
	cur := bytesio.NewCursorCapacity(64, order)
	require.NoError(t, ts.Write(cur))
	cur.Flip()

	parsed, used, err := structure.ParseTagSegment(cur.Bytes()[:cur.Limit()], 0, order)
	require.NoError(t, err)
	assert.Equal(t, cur.Limit(), used)
	assert.Equal(t, uint16(0xABC), parsed.Tag)
	assert.Equal(t, []string{"hello", "world"}, parsed.Strings)
}

// TestMixedTypeEventRoundTrip covers spec.md §8 scenario 2: a Bank(tag=1,
// num=1, type=BANK) containing an INT32, a CHAR8, and a DOUBLE64 child.
// Rather than asserting field-by-field, it diffs the whole parsed tree
// against the one that was built, exercising the "round-trip tree" property
// (§8: "parse(write(T, O), O) ≡ T under structural equality of header
// fields and payload values") the way cmp.Diff is built for.
func TestMixedTypeEventRoundTrip(t *testing.T) {
	root := structure.NewNode(format.KindBank, 1, 1, format.TypeBank)

	ints := structure.NewNode(format.KindBank, 3, 3, format.TypeInt32)
	ints.Ints = []int32{math.MaxInt32, 0, math.MinInt32}
	ints.Recompute()

	chars := structure.NewNode(format.KindBank, 4, 4, format.TypeInt8)
	chars.Bytes = []int8{0x7F, 0x00, -0x80}
	chars.Recompute()

	doubles := structure.NewNode(format.KindBank, 5, 5, format.TypeDouble64)
	doubles.Doubles = []float64{math.MaxFloat64, 0.0, -math.MaxFloat64}
	doubles.Recompute()

	require.NoError(t, root.Append(ints))
	require.NoError(t, root.Append(chars))
	require.NoError(t, root.Append(doubles))

	order := endian.GetBigEndianEngine()
	cur := bytesio.NewCursorCapacity(256, order)
	require.NoError(t, root.Write(cur))
	cur.Flip()

	parsed, used, err := structure.ParseBank(cur.Bytes()[:cur.Limit()], 0, order)
	require.NoError(t, err)
	assert.Equal(t, cur.Limit(), used)

	opts := cmp.Options{
		cmpopts.IgnoreUnexported(structure.Node{}),
		cmpopts.EquateEmpty(),
	}
	if diff := cmp.Diff(root, parsed, opts...); diff != "" {
		t.Fatalf("parsed tree diverges from built tree (-want +got):\n%s", diff)
	}
}
