package header

import (
	"github.com/JeffersonLab/evio-sub004/endian"
	"github.com/JeffersonLab/evio-sub004/format"
)

// RecordLengthEntry is one (record_byte_length, event_count) pair in a
// trailer's optional global record index (spec.md §3 "Event index").
type RecordLengthEntry struct {
	RecordLengthBytes uint32
	EventCount        uint32
}

// BuildTrailer constructs the record header and optional index payload for
// a file trailer: header_type = EVIO_TRAILER, last_record = true,
// entries = 0, and (if index is non-empty) a 2*len(index) word index of
// (length, count) pairs (spec.md §4.2 "Trailer emission").
//
// The returned byte slice is the full trailer record: header followed by
// index, ready to append to the output stream.
func BuildTrailer(recordNumber uint32, order endian.EndianEngine, index []RecordLengthEntry) []byte {
	indexBytes := len(index) * 8
	total := SizeBytes + indexBytes

	out := make([]byte, total)

	r := &Record{
		RecordNumber:      recordNumber,
		HeaderLengthWords: SizeWords,
		Entries:           0,
		IndexLengthBytes:  uint32(indexBytes),
		RecordLengthWords: uint32(total / 4),
		Info: BitInfo{
			Version:      Version,
			IsLastRecord: true,
			HeaderType:   format.HeaderTypeEvioTrailer,
		},
	}

	// Write error is impossible here: out is sized exactly for SizeBytes.
	_ = Write(r, order, out, 0)

	pos := SizeBytes
	for _, e := range index {
		order.PutUint32(out[pos:], e.RecordLengthBytes)
		order.PutUint32(out[pos+4:], e.EventCount)
		pos += 8
	}

	return out
}
