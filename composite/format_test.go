package composite_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JeffersonLab/evio-sub004/composite"
	"github.com/JeffersonLab/evio-sub004/errs"
	"github.com/JeffersonLab/evio-sub004/format"
)

func TestCompileLiteralRun(t *testing.T) {
	items, err := composite.Compile("3C,3c,3S,3s,3I,3i,3L,3l")
	require.NoError(t, err)
	require.Len(t, items, 8)
	assert.Equal(t, format.TypeInt8, items[0].Type)
	assert.Equal(t, 3, items[0].Count)
	assert.Equal(t, format.TypeUint64, items[7].Type)
}

func TestCompileNestedGroup(t *testing.T) {
	items, err := composite.Compile("N(NS,F,D)")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, composite.RepeatN, items[0].Repeat)
	require.Len(t, items[0].Group, 3)
	assert.Equal(t, composite.RepeatN, items[0].Group[0].Repeat)
	assert.Equal(t, format.TypeInt16, items[0].Group[0].Type)
	assert.Equal(t, format.TypeFloat32, items[0].Group[1].Type)
	assert.Equal(t, format.TypeDouble64, items[0].Group[2].Type)
}

func TestCompileRejectsReservedLetter(t *testing.T) {
	_, err := composite.Compile("i,c,N(Ma,L)")
	assert.ErrorIs(t, err, errs.ErrUnsupportedVersion)
}

func TestCompileBadFormat(t *testing.T) {
	_, err := composite.Compile("3C,")
	assert.ErrorIs(t, err, errs.ErrBadFormat)
}

func TestStringsToFormatRoundTrip(t *testing.T) {
	strs := []string{"alpha", "beta", "gamma"}
	f := composite.StringsToFormat(strs)
	assert.Equal(t, "17a", f)

	raw := composite.StringToRawBytes(strs)
	assert.Equal(t, "alpha\x00beta\x00gamma\x00", string(raw))
}
