package record

import (
	"github.com/JeffersonLab/evio-sub004/compress"
	"github.com/JeffersonLab/evio-sub004/endian"
	"github.com/JeffersonLab/evio-sub004/errs"
	"github.com/JeffersonLab/evio-sub004/header"
)

// Input is a single decoded record: its header plus the (lazily
// decompressed, then cached) uncompressed payload bytes, matching
// original_source's RecordInput (spec.md §4.8).
type Input struct {
	header  *header.Record
	data    []byte
	lengths []uint32
	offsets []int
}

// Read decodes the record header at buf[off:] and decompresses its payload
// (if compressed), returning an Input ready for event access.
func Read(buf []byte, off int) (*Input, error) {
	rh, err := header.Read(buf, off)
	if err != nil {
		return nil, err
	}

	indexStart := off + header.SizeBytes
	userStart := indexStart + int(rh.IndexLengthBytes)
	dataStart := userStart + int(rh.UserHeaderPaddedLength())

	raw, err := decodePayload(buf, rh, dataStart)
	if err != nil {
		return nil, err
	}

	in := &Input{header: rh, data: raw}

	if rh.IndexLengthBytes > 0 {
		in.lengths = make([]uint32, rh.Entries)
		for i := uint32(0); i < rh.Entries; i++ {
			in.lengths[i] = rh.ByteOrder.Uint32(buf[indexStart+int(i)*4:])
		}
	} else {
		in.lengths, err = lengthsFromPayload(raw, rh.Entries, rh.ByteOrder)
		if err != nil {
			return nil, err
		}
	}

	in.offsets = make([]int, len(in.lengths))
	pos := 0
	for i, l := range in.lengths {
		in.offsets[i] = pos
		pos += int(l)
	}

	return in, nil
}

func decodePayload(buf []byte, rh *header.Record, dataStart int) ([]byte, error) {
	if rh.IsCompressed() {
		compLen := int(rh.CompressedDataLengthWords) * 4
		if dataStart+compLen > len(buf) {
			return nil, errs.ErrUnderflow
		}

		codec, err := compress.CreateCodec(rh.CompressionType)
		if err != nil {
			return nil, err
		}

		return codec.Decompress(buf[dataStart:dataStart+compLen], int(rh.UncompressedDataLengthBytes))
	}

	dataLen := int(rh.DataPaddedLength())
	if dataStart+dataLen > len(buf) {
		return nil, errs.ErrUnderflow
	}

	return append([]byte(nil), buf[dataStart:dataStart+int(rh.UncompressedDataLengthBytes)]...), nil
}

// lengthsFromPayload derives each event's byte length from its own
// first-word bank length, used when a record's index array is absent
// (spec.md §4.8, permitted only when the payload is evio-formatted).
func lengthsFromPayload(data []byte, entries uint32, order endian.EndianEngine) ([]uint32, error) {
	lengths := make([]uint32, entries)
	pos := 0
	for i := uint32(0); i < entries; i++ {
		if pos+4 > len(data) {
			return nil, errs.ErrBadFormat
		}
		words := order.Uint32(data[pos:])
		length := 4 + words*4
		lengths[i] = length
		pos += int(length)
	}

	return lengths, nil
}

// Header returns the record's decoded header.
func (in *Input) Header() *header.Record { return in.header }

// Entries returns the number of events in this record.
func (in *Input) Entries() int { return len(in.lengths) }

// EventLength returns the byte length of event i (0-based).
func (in *Input) EventLength(i int) (int, error) {
	if i < 0 || i >= len(in.lengths) {
		return 0, errs.ErrIndexOutOfRange
	}

	return int(in.lengths[i]), nil
}

// Event returns event i's bytes, a view into the Input's internal
// decompressed buffer; callers must not retain it past the Input's reuse.
func (in *Input) Event(i int) ([]byte, error) {
	if i < 0 || i >= len(in.lengths) {
		return nil, errs.ErrIndexOutOfRange
	}
	off := in.offsets[i]

	return in.data[off : off+int(in.lengths[i])], nil
}

// GetEventInto copies event i into out, which must be large enough to hold
// EventLength(i) bytes, letting a repeat reader avoid allocating a new
// slice per access.
func (in *Input) GetEventInto(i int, out []byte) (int, error) {
	event, err := in.Event(i)
	if err != nil {
		return 0, err
	}
	if len(out) < len(event) {
		return 0, errs.ErrOverflow
	}

	return copy(out, event), nil
}
