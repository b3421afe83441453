package structure

import (
	"github.com/JeffersonLab/evio-sub004/endian"
	"github.com/JeffersonLab/evio-sub004/errs"
	"github.com/JeffersonLab/evio-sub004/format"
)

// AdjustLengthWords rewrites the length field of the structure header of
// kind at buf[pos:], adding delta words to whatever value is already
// there. It is the one piece of this package that mutates raw header bytes
// directly rather than a Node, used by reader.Reader's in-buffer edit
// operations (spec.md §4.11) to back-patch every ancestor up to the event
// root without re-parsing and re-serializing the whole tree.
func AdjustLengthWords(buf []byte, pos int, kind format.Kind, order endian.EndianEngine, delta int32) error {
	switch kind {
	case format.KindBank:
		if pos+BankHeaderBytes > len(buf) {
			return errs.ErrUnderflow
		}
		v := order.Uint32(buf[pos:])
		order.PutUint32(buf[pos:], uint32(int64(v)+int64(delta)))

	case format.KindSegment:
		if pos+SegmentHeaderBytes > len(buf) {
			return errs.ErrUnderflow
		}
		w := order.Uint32(buf[pos:])
		length := uint32(int64(w&segLengthMask) + int64(delta))
		order.PutUint32(buf[pos:], (w&^uint32(segLengthMask))|(length&segLengthMask))

	default: // KindTagSegment
		if pos+TagSegmentHeaderBytes > len(buf) {
			return errs.ErrUnderflow
		}
		w := order.Uint32(buf[pos:])
		length := uint32(int64(w&tsegLengthMask) + int64(delta))
		order.PutUint32(buf[pos:], (w&^uint32(tsegLengthMask))|(length&tsegLengthMask))
	}

	return nil
}

// TotalBytes returns the number of bytes a structure of kind with the given
// length-words field occupies on the wire, header included — the same
// arithmetic Node.recomputeLength's callers already rely on, exported here
// for callers (scan.Entry consumers) that only have the flat header fields,
// not a Node.
func TotalBytes(kind format.Kind, lengthWords uint32) int {
	switch kind {
	case format.KindBank:
		return 4 + int(lengthWords)*4
	case format.KindSegment:
		return SegmentHeaderBytes + int(lengthWords)*4
	default:
		return TagSegmentHeaderBytes + int(lengthWords)*4
	}
}
