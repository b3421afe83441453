package swap_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JeffersonLab/evio-sub004/swap"
)

func TestUint32sIdempotent(t *testing.T) {
	vals := []uint32{0x00000001, 0xFFFFFFFF, 0x12345678, 0}
	orig := append([]uint32(nil), vals...)

	swap.Uint32s(vals)
	assert.NotEqual(t, orig, vals)

	swap.Uint32s(vals)
	assert.Equal(t, orig, vals)
}

func TestUint64sIdempotent(t *testing.T) {
	vals := []uint64{0x0123456789ABCDEF, 0, math.MaxUint64}
	orig := append([]uint64(nil), vals...)

	swap.Uint64s(vals)
	swap.Uint64s(vals)
	assert.Equal(t, orig, vals)
}

func TestFloat64sRoundTrip(t *testing.T) {
	vals := []float64{math.MaxFloat64, 0.0, -math.MaxFloat64, math.Pi}
	orig := append([]float64(nil), vals...)

	swap.Float64s(vals)
	swap.Float64s(vals)
	assert.Equal(t, orig, vals)
}

func TestBytes32InPlace(t *testing.T) {
	b := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	swap.Bytes32(b, b)
	assert.Equal(t, []byte{0x04, 0x03, 0x02, 0x01, 0x08, 0x07, 0x06, 0x05}, b)
}
