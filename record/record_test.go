package record_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JeffersonLab/evio-sub004/endian"
	"github.com/JeffersonLab/evio-sub004/errs"
	"github.com/JeffersonLab/evio-sub004/format"
	"github.com/JeffersonLab/evio-sub004/record"
)

func TestOutputBuildReadRoundTripUncompressed(t *testing.T) {
	order := endian.GetLittleEndianEngine()
	out := record.NewOutput(order, 0, 0)
	defer out.Release()

	out.SetRecordNumber(3)
	require.NoError(t, out.AddEvent([]byte{1, 2, 3, 4}))
	require.NoError(t, out.AddEvent([]byte{5, 6, 7, 8, 9, 10, 11, 12}))

	built, err := out.Build(format.CompressionNone)
	require.NoError(t, err)

	in, err := record.Read(built, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, in.Entries())
	assert.Equal(t, uint32(3), in.Header().RecordNumber)

	ev0, err := in.Event(0)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, ev0)

	ev1, err := in.Event(1)
	require.NoError(t, err)
	assert.Equal(t, []byte{5, 6, 7, 8, 9, 10, 11, 12}, ev1)
}

func TestOutputBuildReadRoundTripCompressed(t *testing.T) {
	order := endian.GetBigEndianEngine()
	out := record.NewOutput(order, 0, 0)
	defer out.Release()

	event := make([]byte, 256)
	for i := range event {
		event[i] = byte(i % 7)
	}
	require.NoError(t, out.AddEvent(event))

	built, err := out.Build(format.CompressionLZ4Fast)
	require.NoError(t, err)

	in, err := record.Read(built, 0)
	require.NoError(t, err)
	assert.True(t, in.Header().IsCompressed())

	got, err := in.Event(0)
	require.NoError(t, err)
	assert.Equal(t, event, got)
}

func TestOutputRecordFullByEventCount(t *testing.T) {
	order := endian.GetLittleEndianEngine()
	out := record.NewOutput(order, 1, 0)
	defer out.Release()

	require.NoError(t, out.AddEvent([]byte{1, 2, 3, 4}))
	err := out.AddEvent([]byte{5, 6, 7, 8})
	assert.ErrorIs(t, err, errs.ErrRecordFull)
}

func TestOutputResetRetainsCapacity(t *testing.T) {
	order := endian.GetLittleEndianEngine()
	out := record.NewOutput(order, 0, 0)
	defer out.Release()

	require.NoError(t, out.AddEvent([]byte{1, 2, 3, 4}))
	out.Reset()
	assert.Equal(t, 0, out.Events())
	assert.Equal(t, 0, out.Bytes())
}

func TestGetEventIntoTooSmall(t *testing.T) {
	order := endian.GetLittleEndianEngine()
	out := record.NewOutput(order, 0, 0)
	defer out.Release()

	require.NoError(t, out.AddEvent([]byte{1, 2, 3, 4}))
	built, err := out.Build(format.CompressionNone)
	require.NoError(t, err)

	in, err := record.Read(built, 0)
	require.NoError(t, err)

	_, err = in.GetEventInto(0, make([]byte, 1))
	assert.ErrorIs(t, err, errs.ErrOverflow)
}
