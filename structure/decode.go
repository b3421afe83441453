package structure

import (
	"math"

	"github.com/JeffersonLab/evio-sub004/endian"
)

func decodeInt32s(data []byte, order endian.EndianEngine) []int32 {
	out := make([]int32, len(data)/4)
	for i := range out {
		out[i] = int32(order.Uint32(data[i*4:]))
	}

	return out
}

func decodeUint32s(data []byte, order endian.EndianEngine) []uint32 {
	out := make([]uint32, len(data)/4)
	for i := range out {
		out[i] = order.Uint32(data[i*4:])
	}

	return out
}

func decodeInt16s(data []byte, order endian.EndianEngine) []int16 {
	out := make([]int16, len(data)/2)
	for i := range out {
		out[i] = int16(order.Uint16(data[i*2:]))
	}

	return out
}

func decodeUint16s(data []byte, order endian.EndianEngine) []uint16 {
	out := make([]uint16, len(data)/2)
	for i := range out {
		out[i] = order.Uint16(data[i*2:])
	}

	return out
}

func decodeInt64s(data []byte, order endian.EndianEngine) []int64 {
	out := make([]int64, len(data)/8)
	for i := range out {
		out[i] = int64(order.Uint64(data[i*8:]))
	}

	return out
}

func decodeUint64s(data []byte, order endian.EndianEngine) []uint64 {
	out := make([]uint64, len(data)/8)
	for i := range out {
		out[i] = order.Uint64(data[i*8:])
	}

	return out
}

func decodeInt8s(data []byte) []int8 {
	out := make([]int8, len(data))
	for i, b := range data {
		out[i] = int8(b)
	}

	return out
}

func decodeFloat32s(data []byte, order endian.EndianEngine) []float32 {
	out := make([]float32, len(data)/4)
	for i := range out {
		out[i] = math.Float32frombits(order.Uint32(data[i*4:]))
	}

	return out
}

func decodeFloat64s(data []byte, order endian.EndianEngine) []float64 {
	out := make([]float64, len(data)/8)
	for i := range out {
		out[i] = math.Float64frombits(order.Uint64(data[i*8:]))
	}

	return out
}
