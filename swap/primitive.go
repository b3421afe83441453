// Package swap implements the primitive byte-order swap engine (component
// C3 of the design). It provides in-place or copying swaps for 16/32/64-bit
// scalar arrays and their float reinterpretations, with no allocation on the
// in-place path.
//
// Every evio structure is written in one byte order and may need to be
// re-read on a host of the opposite order; this package holds the leaf
// swap operations for that. No other package in this module imports it:
// composite.SwapAll re-decodes and re-encodes instead.
package swap

import "math"

// Bytes16 swaps every 16-bit element of src into dst. src and dst may be the
// same slice (in-place); otherwise dst must be at least as long as src.
func Bytes16(dst, src []byte) {
	n := len(src) - (len(src) % 2)
	for i := 0; i < n; i += 2 {
		dst[i], dst[i+1] = src[i+1], src[i]
	}
}

// Bytes32 swaps every 32-bit element of src into dst.
func Bytes32(dst, src []byte) {
	n := len(src) - (len(src) % 4)
	for i := 0; i < n; i += 4 {
		dst[i], dst[i+1], dst[i+2], dst[i+3] = src[i+3], src[i+2], src[i+1], src[i]
	}
}

// Bytes64 swaps every 64-bit element of src into dst.
func Bytes64(dst, src []byte) {
	n := len(src) - (len(src) % 8)
	for i := 0; i < n; i += 8 {
		dst[i], dst[i+1], dst[i+2], dst[i+3], dst[i+4], dst[i+5], dst[i+6], dst[i+7] =
			src[i+7], src[i+6], src[i+5], src[i+4], src[i+3], src[i+2], src[i+1], src[i]
	}
}

// Uint16s swaps a slice of uint16 values in place.
func Uint16s(vals []uint16) {
	for i, v := range vals {
		vals[i] = v<<8 | v>>8
	}
}

// Uint32s swaps a slice of uint32 values in place.
func Uint32s(vals []uint32) {
	for i, v := range vals {
		vals[i] = bits32(v)
	}
}

// Uint64s swaps a slice of uint64 values in place.
func Uint64s(vals []uint64) {
	for i, v := range vals {
		vals[i] = bits64(v)
	}
}

// Int16s, Int32s, Int64s mirror the unsigned variants via reinterpretation,
// avoiding an intermediate allocation.
func Int16s(vals []int16) {
	for i, v := range vals {
		u := uint16(v)
		vals[i] = int16(u<<8 | u>>8)
	}
}

func Int32s(vals []int32) {
	for i, v := range vals {
		vals[i] = int32(bits32(uint32(v)))
	}
}

func Int64s(vals []int64) {
	for i, v := range vals {
		vals[i] = int64(bits64(uint64(v)))
	}
}

// Float32s swaps a slice of float32 values in place via bit reinterpretation;
// the IEEE-754 bit pattern is swapped exactly as a uint32 would be.
func Float32s(vals []float32) {
	for i, v := range vals {
		vals[i] = math.Float32frombits(bits32(math.Float32bits(v)))
	}
}

// Float64s swaps a slice of float64 values in place via bit reinterpretation.
func Float64s(vals []float64) {
	for i, v := range vals {
		vals[i] = math.Float64frombits(bits64(math.Float64bits(v)))
	}
}

func bits32(v uint32) uint32 {
	return v>>24&0xFF | v>>8&0xFF00 | v<<8&0xFF0000 | v<<24&0xFF000000
}

func bits64(v uint64) uint64 {
	return v>>56&0xFF |
		v>>40&0xFF00 |
		v>>24&0xFF0000 |
		v>>8&0xFF000000 |
		v<<8&0xFF00000000 |
		v<<24&0xFF0000000000 |
		v<<40&0xFF000000000000 |
		v<<56&0xFF00000000000000
}
