package composite

import (
	"github.com/JeffersonLab/evio-sub004/bytesio"
	"github.com/JeffersonLab/evio-sub004/errs"
	"github.com/JeffersonLab/evio-sub004/format"
)

// Value is one decoded element of a composite payload: the dynamic counts
// read for N/n/m repeat sources are themselves emitted as ordinary Values
// (of type INT32/SHORT16/CHAR8 respectively) ahead of the group they
// control, so a decode-then-encode round trip reproduces the original
// bytes exactly.
type Value struct {
	Type format.DataType
	I8   int8
	U8   uint8
	I16  int16
	U16  uint16
	I32  int32
	U32  uint32
	I64  int64
	U64  uint64
	F32  float32
	F64  float64
}

// Decode walks items against cur, consuming primitive elements (and the
// dynamic repeat counts N/n/m items read along the way) and returning them
// as a flat sequence of typed Values in encounter order.
func Decode(items []Item, cur *bytesio.Cursor) ([]Value, error) {
	var out []Value
	if err := decodeSequence(items, cur, &out); err != nil {
		return nil, err
	}

	return out, nil
}

func decodeSequence(items []Item, cur *bytesio.Cursor, out *[]Value) error {
	for _, item := range items {
		count, err := resolveDecodeCount(item, cur, out)
		if err != nil {
			return err
		}

		for i := 0; i < count; i++ {
			if item.Group != nil {
				if err := decodeSequence(item.Group, cur, out); err != nil {
					return err
				}

				continue
			}

			v, err := decodeOne(item.Type, cur)
			if err != nil {
				return err
			}
			*out = append(*out, v)
		}
	}

	return nil
}

// resolveDecodeCount returns the repeat count for item, reading and
// recording a dynamic count value from cur when item.Repeat is
// RepeatN/RepeatSmallN/RepeatM.
func resolveDecodeCount(item Item, cur *bytesio.Cursor, out *[]Value) (int, error) {
	switch item.Repeat {
	case RepeatLiteral:
		return item.Count, nil
	case RepeatN:
		n, err := cur.GetInt32()
		if err != nil {
			return 0, err
		}
		*out = append(*out, Value{Type: format.TypeInt32, I32: n})

		return int(n), nil
	case RepeatSmallN:
		n, err := cur.GetInt16()
		if err != nil {
			return 0, err
		}
		*out = append(*out, Value{Type: format.TypeInt16, I16: n})

		return int(n), nil
	case RepeatM:
		n, err := cur.GetInt8()
		if err != nil {
			return 0, err
		}
		*out = append(*out, Value{Type: format.TypeInt8, I8: n})

		return int(n), nil
	default:
		return 0, errs.ErrBadFormat
	}
}

func decodeOne(t format.DataType, cur *bytesio.Cursor) (Value, error) {
	switch t {
	case format.TypeInt8:
		v, err := cur.GetInt8()
		return Value{Type: t, I8: v}, err
	case format.TypeUint8, format.TypeCharStar8:
		v, err := cur.GetUint8()
		return Value{Type: t, U8: v}, err
	case format.TypeInt16:
		v, err := cur.GetInt16()
		return Value{Type: t, I16: v}, err
	case format.TypeUint16:
		v, err := cur.GetUint16()
		return Value{Type: t, U16: v}, err
	case format.TypeInt32:
		v, err := cur.GetInt32()
		return Value{Type: t, I32: v}, err
	case format.TypeUint32:
		v, err := cur.GetUint32()
		return Value{Type: t, U32: v}, err
	case format.TypeInt64:
		v, err := cur.GetInt64()
		return Value{Type: t, I64: v}, err
	case format.TypeUint64:
		v, err := cur.GetUint64()
		return Value{Type: t, U64: v}, err
	case format.TypeFloat32:
		v, err := cur.GetFloat32()
		return Value{Type: t, F32: v}, err
	case format.TypeDouble64:
		v, err := cur.GetFloat64()
		return Value{Type: t, F64: v}, err
	default:
		return Value{}, errs.ErrUnsupportedVersion
	}
}

// Encode walks items, consuming Values in the same order Decode would have
// produced them, and writes the corresponding bytes to cur.
func Encode(items []Item, values []Value, cur *bytesio.Cursor) error {
	idx := 0

	return encodeSequence(items, values, &idx, cur)
}

func encodeSequence(items []Item, values []Value, idx *int, cur *bytesio.Cursor) error {
	for _, item := range items {
		count, err := resolveEncodeCount(item, values, idx, cur)
		if err != nil {
			return err
		}

		for i := 0; i < count; i++ {
			if item.Group != nil {
				if err := encodeSequence(item.Group, values, idx, cur); err != nil {
					return err
				}

				continue
			}

			if *idx >= len(values) {
				return errs.ErrUnderflow
			}
			if err := encodeOne(values[*idx], cur); err != nil {
				return err
			}
			*idx++
		}
	}

	return nil
}

func resolveEncodeCount(item Item, values []Value, idx *int, cur *bytesio.Cursor) (int, error) {
	switch item.Repeat {
	case RepeatLiteral:
		return item.Count, nil
	case RepeatN, RepeatSmallN, RepeatM:
		if *idx >= len(values) {
			return 0, errs.ErrUnderflow
		}
		v := values[*idx]
		*idx++
		switch item.Repeat {
		case RepeatN:
			if err := cur.PutInt32(v.I32); err != nil {
				return 0, err
			}

			return int(v.I32), nil
		case RepeatSmallN:
			if err := cur.PutInt16(v.I16); err != nil {
				return 0, err
			}

			return int(v.I16), nil
		default:
			if err := cur.PutInt8(v.I8); err != nil {
				return 0, err
			}

			return int(v.I8), nil
		}
	default:
		return 0, errs.ErrBadFormat
	}
}

func encodeOne(v Value, cur *bytesio.Cursor) error {
	switch v.Type {
	case format.TypeInt8:
		return cur.PutInt8(v.I8)
	case format.TypeUint8, format.TypeCharStar8:
		return cur.PutUint8(v.U8)
	case format.TypeInt16:
		return cur.PutInt16(v.I16)
	case format.TypeUint16:
		return cur.PutUint16(v.U16)
	case format.TypeInt32:
		return cur.PutInt32(v.I32)
	case format.TypeUint32:
		return cur.PutUint32(v.U32)
	case format.TypeInt64:
		return cur.PutInt64(v.I64)
	case format.TypeUint64:
		return cur.PutUint64(v.U64)
	case format.TypeFloat32:
		return cur.PutFloat32(v.F32)
	case format.TypeDouble64:
		return cur.PutFloat64(v.F64)
	default:
		return errs.ErrUnsupportedVersion
	}
}
