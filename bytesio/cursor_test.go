package bytesio_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JeffersonLab/evio-sub004/bytesio"
	"github.com/JeffersonLab/evio-sub004/endian"
	"github.com/JeffersonLab/evio-sub004/errs"
)

func TestCursorPutGetRoundTrip(t *testing.T) {
	c := bytesio.NewCursorCapacity(16, endian.GetLittleEndianEngine())

	require.NoError(t, c.PutUint32(0xDEADBEEF))
	require.NoError(t, c.PutUint16(0x1234))
	require.NoError(t, c.PutUint8(0xAB))

	c.Flip()

	v32, err := c.GetUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0xDEADBEEF), v32)

	v16, err := c.GetUint16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), v16)

	v8, err := c.GetUint8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0xAB), v8)
}

func TestCursorUnderflow(t *testing.T) {
	c := bytesio.NewCursor([]byte{0x01, 0x02}, endian.GetBigEndianEngine())
	_, err := c.GetUint32()
	assert.ErrorIs(t, err, errs.ErrUnderflow)
}

func TestCursorAbsoluteAccess(t *testing.T) {
	c := bytesio.NewCursorCapacity(8, endian.GetBigEndianEngine())
	require.NoError(t, c.PutUint32(1))
	require.NoError(t, c.PutUint32(2))

	require.NoError(t, c.PutUint32At(0, 0x11223344))
	v, err := c.GetUint32At(0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x11223344), v)
}

func TestCursorDuplicateIndependentPosition(t *testing.T) {
	c := bytesio.NewCursor([]byte{1, 2, 3, 4}, endian.GetLittleEndianEngine())
	_, err := c.GetUint16()
	require.NoError(t, err)

	dup := c.Duplicate()
	_, err = dup.GetUint16()
	require.NoError(t, err)

	assert.Equal(t, 2, c.Position())
	assert.Equal(t, 4, dup.Position())
}
