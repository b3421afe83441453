package composite_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JeffersonLab/evio-sub004/bytesio"
	"github.com/JeffersonLab/evio-sub004/composite"
	"github.com/JeffersonLab/evio-sub004/endian"
	"github.com/JeffersonLab/evio-sub004/format"
)

func TestDecodeEncodeRoundTripNestedGroup(t *testing.T) {
	items, err := composite.Compile("N(NS,F,D)")
	require.NoError(t, err)

	// Outer N=2 repetitions of (inner N=3 shorts, one float, one double).
	order := endian.GetBigEndianEngine()
	wr := bytesio.NewCursorCapacity(128, order)
	require.NoError(t, wr.PutInt32(2)) // outer N
	for rep := 0; rep < 2; rep++ {
		require.NoError(t, wr.PutInt32(3)) // inner N
		for i := 0; i < 3; i++ {
			require.NoError(t, wr.PutInt16(int16(rep*10+i)))
		}
		require.NoError(t, wr.PutFloat32(1.5))
		require.NoError(t, wr.PutFloat64(2.5))
	}
	wr.Flip()

	values, err := composite.Decode(items, wr)
	require.NoError(t, err)

	out := bytesio.NewCursorCapacity(128, order)
	require.NoError(t, composite.Encode(items, values, out))
	out.Flip()

	assert.Equal(t, wr.Bytes()[:wr.Limit()], out.Bytes()[:out.Limit()])
}

func TestSwapAllRoundTrip(t *testing.T) {
	items, err := composite.Compile("3I,F")
	require.NoError(t, err)

	be := endian.GetBigEndianEngine()
	src := bytesio.NewCursorCapacity(32, be)
	require.NoError(t, src.PutInt32(1))
	require.NoError(t, src.PutInt32(2))
	require.NoError(t, src.PutInt32(3))
	require.NoError(t, src.PutFloat32(9.5))
	src.Flip()
	wire := append([]byte(nil), src.Bytes()[:src.Limit()]...)

	local := make([]byte, len(wire))
	require.NoError(t, composite.SwapAll(items, wire, local, len(wire)/4, true))

	back := make([]byte, len(wire))
	require.NoError(t, composite.SwapAll(items, local, back, len(wire)/4, false))

	assert.Equal(t, wire, back)
}

func TestDecodeUnsupportedType(t *testing.T) {
	items := []composite.Item{{Type: format.DataType(0x21), Repeat: composite.RepeatLiteral, Count: 1}}
	be := endian.GetBigEndianEngine()
	cur := bytesio.NewCursor([]byte{0, 0, 0, 0}, be)
	_, err := composite.Decode(items, cur)
	assert.Error(t, err)
}
