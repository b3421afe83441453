// Package record implements RecordOutput (C7) and RecordInput (C8): the
// event-accumulation and decode halves of one record's worth of payload
// (spec.md §4.7-4.8), built on top of header.Record and compress.Codec.
package record

import (
	"github.com/JeffersonLab/evio-sub004/bytesio"
	"github.com/JeffersonLab/evio-sub004/compress"
	"github.com/JeffersonLab/evio-sub004/endian"
	"github.com/JeffersonLab/evio-sub004/errs"
	"github.com/JeffersonLab/evio-sub004/format"
	"github.com/JeffersonLab/evio-sub004/header"
	"github.com/JeffersonLab/evio-sub004/internal/pool"
	"github.com/JeffersonLab/evio-sub004/structure"
)

// Output accumulates events for one record, matching original_source's
// RecordOutput. Its internal event buffer is pool-backed (internal/pool) so
// Reset reuses the same backing array across build cycles.
type Output struct {
	order     endian.EndianEngine
	maxEvents int
	maxBytes  int

	data       *pool.Buffer
	lengths    []uint32
	userHeader []byte

	recordNumber  uint32
	hasDictionary bool
	hasFirstEvent bool
}

// NewOutput constructs an Output for order with the given per-record limits;
// a limit of 0 means unbounded.
func NewOutput(order endian.EndianEngine, maxEvents, maxBytes int) *Output {
	return &Output{
		order:     order,
		maxEvents: maxEvents,
		maxBytes:  maxBytes,
		data:      pool.GetRecordBuffer(),
	}
}

// Events returns the number of events accumulated so far.
func (o *Output) Events() int { return len(o.lengths) }

// Bytes returns the number of accumulated event bytes.
func (o *Output) Bytes() int { return o.data.Len() }

// SetRecordNumber sets the record number Build stamps into the header.
func (o *Output) SetRecordNumber(n uint32) { o.recordNumber = n }

// SetUserHeader attaches a record-level user header, written (padded to a
// 4-byte boundary) ahead of the payload by Build.
func (o *Output) SetUserHeader(data []byte) { o.userHeader = data }

// SetDictionaryFlags marks this record's header as carrying a dictionary
// and/or first event as its leading events, mirroring
// RecordHeader::hasDictionary()/hasFirstEvent() in original_source so a
// reader can detect their presence from the record header alone, in
// buffer-backed mode as well as file mode (writer.Writer sets both on the
// embedded user-header record it writes into every split's file header).
func (o *Output) SetDictionaryFlags(hasDictionary, hasFirstEvent bool) {
	o.hasDictionary = hasDictionary
	o.hasFirstEvent = hasFirstEvent
}

// AddEvent appends bytes as one event. It fails with ErrRecordFull if doing
// so would exceed the configured event-count or byte limit; the caller must
// Build and Reset (rotating to a new record) before retrying.
func (o *Output) AddEvent(bytes []byte) error {
	if o.maxEvents > 0 && len(o.lengths)+1 > o.maxEvents {
		return errs.ErrRecordFull
	}
	if o.maxBytes > 0 && o.data.Len()+len(bytes) > o.maxBytes {
		return errs.ErrRecordFull
	}

	if _, err := o.data.Write(bytes); err != nil {
		return err
	}
	o.lengths = append(o.lengths, uint32(len(bytes)))

	return nil
}

// AddEventNode serializes n and adds it as one event.
func (o *Output) AddEventNode(n *structure.Node) error {
	cur := bytesio.NewCursorCapacity(256, o.order)
	if err := n.Write(cur); err != nil {
		return err
	}
	cur.Flip()

	return o.AddEvent(cur.Bytes()[:cur.Limit()])
}

// Build assembles the record's final bytes: header, index array, user
// header, and payload, compressing the payload first if compression is not
// format.CompressionNone (spec.md §4.7 "build(compression)").
func (o *Output) Build(compression format.CompressionType) ([]byte, error) {
	codec, err := compress.CreateCodec(compression)
	if err != nil {
		return nil, err
	}

	payload := o.data.Bytes()
	uncompressedLen := len(payload)

	out := payload
	if compression != format.CompressionNone {
		compressed, cerr := codec.Compress(payload)
		if cerr != nil {
			return nil, cerr
		}
		out = compressed
	}

	dataPad := header.PadForLength(len(out))
	userPad := header.PadForLength(len(o.userHeader))

	indexBytes := len(o.lengths) * 4
	total := header.SizeBytes + indexBytes + len(o.userHeader) + int(userPad) + len(out) + int(dataPad)

	rh := header.NewRecord()
	rh.RecordNumber = o.recordNumber
	rh.Entries = uint32(len(o.lengths))
	rh.IndexLengthBytes = uint32(indexBytes)
	rh.UserHeaderLengthBytes = uint32(len(o.userHeader))
	rh.UncompressedDataLengthBytes = uint32(uncompressedLen)
	rh.CompressionType = compression
	rh.RecordLengthWords = uint32(total) / 4
	rh.ByteOrder = o.order
	rh.Info.UserPad = userPad
	rh.Info.HasDictionary = o.hasDictionary
	rh.Info.HasFirstEvent = o.hasFirstEvent

	if compression == format.CompressionNone {
		rh.Info.DataPad = dataPad
	} else {
		rh.Info.CompPad = dataPad
		rh.CompressedDataLengthWords = uint32(len(out)+int(dataPad)) / 4
	}

	buf := make([]byte, total)
	if err := header.Write(rh, o.order, buf, 0); err != nil {
		return nil, err
	}

	pos := header.SizeBytes
	for _, l := range o.lengths {
		o.order.PutUint32(buf[pos:], l)
		pos += 4
	}

	copy(buf[pos:], o.userHeader)
	pos += len(o.userHeader) + int(userPad)

	copy(buf[pos:], out)

	return buf, nil
}

// Reset clears accumulated events and the user header, retaining the
// underlying buffer's capacity (spec.md §4.7 "reset()").
func (o *Output) Reset() {
	o.data.Reset()
	o.lengths = o.lengths[:0]
	o.userHeader = nil
	o.hasDictionary = false
	o.hasFirstEvent = false
}

// Release returns the output's internal buffer to the shared pool. o must
// not be used again after calling Release.
func (o *Output) Release() {
	pool.PutRecordBuffer(o.data)
	o.data = nil
}
