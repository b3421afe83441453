package bytesio

import "math"

func mathFloat32(bits uint32) float32 { return math.Float32frombits(bits) }
func mathFloat64(bits uint64) float64 { return math.Float64frombits(bits) }
func mathBits32(v float32) uint32     { return math.Float32bits(v) }
func mathBits64(v float64) uint64     { return math.Float64bits(v) }
