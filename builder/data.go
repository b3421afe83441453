package builder

import (
	"github.com/JeffersonLab/evio-sub004/errs"
	"github.com/JeffersonLab/evio-sub004/format"
	"github.com/JeffersonLab/evio-sub004/structure"
)

// top returns the currently open frame, failing if nothing is open; data
// can only ever be added inside an open structure.
func (b *Builder) top() (*frame, error) {
	if len(b.stack) == 0 {
		return nil, errs.ErrTypeMismatch
	}

	return &b.stack[len(b.stack)-1], nil
}

// checkDataType fails with ErrTypeMismatch unless f's declared type is one
// of want.
func checkDataType(f *frame, want ...format.DataType) error {
	ct := f.dataType.Canonical()
	for _, t := range want {
		if ct == t {
			return nil
		}
	}

	return errs.ErrTypeMismatch
}

// wordsForLen returns the word count (rounded up) of byteLen bytes.
func wordsForLen(byteLen int) uint32 { return uint32((byteLen + 3) / 4) }

// beginAppend backs the cursor up over any pad bytes written by a previous
// call so the new data lands contiguously (CompactEventBuilder's addByteData
// rewinds position by the running padding before each append).
func (b *Builder) beginAppend(f *frame) error {
	if f.dataLen > 0 && f.pad > 0 {
		return b.cur.SetPosition(b.cur.Position() - int(f.pad))
	}

	return nil
}

// endAppend updates f's length/pad bookkeeping after addedBytes have been
// written, backfilling the delta into every open ancestor and writing fresh
// pad bytes for the new total.
func (b *Builder) endAppend(f *frame, addedBytes int) error {
	lastWords := wordsForLen(f.dataLen)
	f.dataLen += addedBytes
	newWords := wordsForLen(f.dataLen)
	b.addToAllLengths(newWords - lastWords)

	f.pad = uint8((4 - f.dataLen%4) % 4)
	for i := uint8(0); i < f.pad; i++ {
		if err := b.cur.PutUint8(0); err != nil {
			return err
		}
	}

	return nil
}

// AddIntData appends signed 32-bit values; it may be called repeatedly on
// the same open structure.
func (b *Builder) AddIntData(data []int32) error {
	f, err := b.top()
	if err != nil {
		return err
	}
	if err := checkDataType(f, format.TypeInt32); err != nil {
		return err
	}
	if err := b.beginAppend(f); err != nil {
		return err
	}
	for _, v := range data {
		if err := b.cur.PutInt32(v); err != nil {
			return err
		}
	}

	return b.endAppend(f, len(data)*4)
}

// AddUIntData appends unsigned 32-bit values.
func (b *Builder) AddUIntData(data []uint32) error {
	f, err := b.top()
	if err != nil {
		return err
	}
	if err := checkDataType(f, format.TypeUint32, format.TypeUnknown32); err != nil {
		return err
	}
	if err := b.beginAppend(f); err != nil {
		return err
	}
	for _, v := range data {
		if err := b.cur.PutUint32(v); err != nil {
			return err
		}
	}

	return b.endAppend(f, len(data)*4)
}

// AddShortData appends signed 16-bit values.
func (b *Builder) AddShortData(data []int16) error {
	f, err := b.top()
	if err != nil {
		return err
	}
	if err := checkDataType(f, format.TypeInt16); err != nil {
		return err
	}
	if err := b.beginAppend(f); err != nil {
		return err
	}
	for _, v := range data {
		if err := b.cur.PutInt16(v); err != nil {
			return err
		}
	}

	return b.endAppend(f, len(data)*2)
}

// AddUShortData appends unsigned 16-bit values.
func (b *Builder) AddUShortData(data []uint16) error {
	f, err := b.top()
	if err != nil {
		return err
	}
	if err := checkDataType(f, format.TypeUint16); err != nil {
		return err
	}
	if err := b.beginAppend(f); err != nil {
		return err
	}
	for _, v := range data {
		if err := b.cur.PutUint16(v); err != nil {
			return err
		}
	}

	return b.endAppend(f, len(data)*2)
}

// AddLongData appends signed 64-bit values.
func (b *Builder) AddLongData(data []int64) error {
	f, err := b.top()
	if err != nil {
		return err
	}
	if err := checkDataType(f, format.TypeInt64); err != nil {
		return err
	}
	if err := b.beginAppend(f); err != nil {
		return err
	}
	for _, v := range data {
		if err := b.cur.PutInt64(v); err != nil {
			return err
		}
	}

	return b.endAppend(f, len(data)*8)
}

// AddULongData appends unsigned 64-bit values.
func (b *Builder) AddULongData(data []uint64) error {
	f, err := b.top()
	if err != nil {
		return err
	}
	if err := checkDataType(f, format.TypeUint64); err != nil {
		return err
	}
	if err := b.beginAppend(f); err != nil {
		return err
	}
	for _, v := range data {
		if err := b.cur.PutUint64(v); err != nil {
			return err
		}
	}

	return b.endAppend(f, len(data)*8)
}

// AddByteData appends signed 8-bit values.
func (b *Builder) AddByteData(data []int8) error {
	f, err := b.top()
	if err != nil {
		return err
	}
	if err := checkDataType(f, format.TypeInt8); err != nil {
		return err
	}
	if err := b.beginAppend(f); err != nil {
		return err
	}
	for _, v := range data {
		if err := b.cur.PutInt8(v); err != nil {
			return err
		}
	}

	return b.endAppend(f, len(data))
}

// AddUByteData appends unsigned 8-bit (raw byte) values.
func (b *Builder) AddUByteData(data []uint8) error {
	f, err := b.top()
	if err != nil {
		return err
	}
	if err := checkDataType(f, format.TypeUint8); err != nil {
		return err
	}
	if err := b.beginAppend(f); err != nil {
		return err
	}
	if err := b.cur.PutBytes(data); err != nil {
		return err
	}

	return b.endAppend(f, len(data))
}

// AddFloatData appends 32-bit floats.
func (b *Builder) AddFloatData(data []float32) error {
	f, err := b.top()
	if err != nil {
		return err
	}
	if err := checkDataType(f, format.TypeFloat32); err != nil {
		return err
	}
	if err := b.beginAppend(f); err != nil {
		return err
	}
	for _, v := range data {
		if err := b.cur.PutFloat32(v); err != nil {
			return err
		}
	}

	return b.endAppend(f, len(data)*4)
}

// AddDoubleData appends 64-bit floats.
func (b *Builder) AddDoubleData(data []float64) error {
	f, err := b.top()
	if err != nil {
		return err
	}
	if err := checkDataType(f, format.TypeDouble64); err != nil {
		return err
	}
	if err := b.beginAppend(f); err != nil {
		return err
	}
	for _, v := range data {
		if err := b.cur.PutFloat64(v); err != nil {
			return err
		}
	}

	return b.endAppend(f, len(data)*8)
}

// AddStringData appends a CHARSTAR8 string payload. It may only be called
// once per open structure; a second call fails with ErrAlreadyWritten,
// since accumulating strings would make the NUL-terminator convention's
// padding ambiguous (spec.md §4.9).
func (b *Builder) AddStringData(values []string) error {
	f, err := b.top()
	if err != nil {
		return err
	}
	if err := checkDataType(f, format.TypeCharStar8); err != nil {
		return err
	}
	if f.written {
		return errs.ErrAlreadyWritten
	}

	raw := structure.StringsRawBytes(values)
	if err := b.cur.PutBytes(raw); err != nil {
		return err
	}
	f.written = true

	return b.endAppend(f, len(raw))
}

// AddCompositeData appends an already-encoded composite payload (the output
// of composite.Encode). It may only be called once per open structure, for
// the same reason as AddStringData.
func (b *Builder) AddCompositeData(data []byte) error {
	f, err := b.top()
	if err != nil {
		return err
	}
	if err := checkDataType(f, format.TypeComposite); err != nil {
		return err
	}
	if f.written {
		return errs.ErrAlreadyWritten
	}

	if err := b.cur.PutBytes(data); err != nil {
		return err
	}
	f.written = true

	return b.endAppend(f, len(data))
}
