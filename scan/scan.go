package scan

import (
	"github.com/JeffersonLab/evio-sub004/endian"
	"github.com/JeffersonLab/evio-sub004/errs"
	"github.com/JeffersonLab/evio-sub004/format"
	"github.com/JeffersonLab/evio-sub004/header"
	"github.com/JeffersonLab/evio-sub004/structure"
)

// ScanBuffer walks every record starting at pos, appending one Entry (and
// one per descendant structure) per event to the returned Index, until a
// record's bit-info marks it the last one or buf is exhausted.
func ScanBuffer(buf []byte, pos int, order endian.EndianEngine) (*Index, error) {
	idx := &Index{}

	for pos < len(buf) {
		rh, err := header.Read(buf, pos)
		if err != nil {
			return nil, err
		}

		used, err := BuildRecord(idx, buf, pos, order)
		if err != nil {
			return nil, err
		}
		if used <= 0 {
			return nil, errs.ErrBadFormat
		}

		pos += used
		if rh.Info.IsLastRecord {
			break
		}
	}

	return idx, nil
}

// BuildRecord scans the single record at recordPos, appending its events'
// entries to idx, and returns the record's total byte length (header, index
// array, user header, and payload, all padded). It fails with
// ErrCompressedEditForbidden if the record is compressed, since a scan only
// ever walks uncompressed payload bytes (reader.NewFromBuffer rewrites
// compressed records as uncompressed ones before scanning).
func BuildRecord(idx *Index, buf []byte, recordPos int, order endian.EndianEngine) (int, error) {
	rh, err := header.Read(buf, recordPos)
	if err != nil {
		return 0, err
	}
	if rh.IsCompressed() {
		return 0, errs.ErrCompressedEditForbidden
	}

	dataStart := recordPos + header.SizeBytes + int(rh.IndexLengthBytes) + int(rh.UserHeaderPaddedLength())
	dataLen := int(rh.DataPaddedLength())

	offsets, lengths, hasIndex, err := eventOffsets(buf, recordPos, rh, dataStart, dataLen, order)
	if err != nil {
		return 0, err
	}

	for place, pos := range offsets {
		if extractErr := ExtractEventNode(idx, buf, recordPos, pos, place, order); extractErr != nil {
			// Non-evio leaf event: fall back to the record's own index-array
			// length and mark the descriptor not_evio (spec.md §4.6), but
			// only if that length is actually known.
			if !hasIndex {
				return 0, extractErr
			}

			idx.Entries = append(idx.Entries, Entry{
				Position:        pos,
				DataLengthWords: header.GetWords(lengths[place]),
				RecordPosition:  recordPos,
				EventPlace:      place,
				ParentIndex:     -1,
				NotEvio:         true,
			})
		}
	}

	total := header.SizeBytes + int(rh.IndexLengthBytes) + int(rh.UserHeaderPaddedLength()) + int(rh.DataPaddedLength())

	return total, nil
}

// ExtractEventNode validates the bank header at pos, recurses into its
// children, and appends one flat Entry per structure in the resulting tree
// to idx. It fails with ErrBadFormat if the bank's total size is under 8
// bytes (spec.md §4.6 "extract_event_node").
func ExtractEventNode(idx *Index, buf []byte, recordPos, pos, eventPlace int, order endian.EndianEngine) error {
	node, used, err := structure.ParseBank(buf, pos, order)
	if err != nil {
		return err
	}
	if used < structure.BankHeaderBytes {
		return errs.ErrBadFormat
	}

	appendNode(idx, node, pos, recordPos, eventPlace, -1)

	return nil
}

// appendNode flattens n (and its descendants) into idx.Entries, returning
// n's own entry index so the caller can record it as a parent.
func appendNode(idx *Index, n *structure.Node, pos, recordPos, eventPlace, parentIndex int) int {
	headerBytes := kindHeaderBytes(n.Kind)
	dataPos := pos + headerBytes

	dataWords := n.LengthWords
	if n.Kind == format.KindBank {
		dataWords--
	}

	selfIndex := len(idx.Entries)
	idx.Entries = append(idx.Entries, Entry{
		Position:        pos,
		LengthWords:     n.LengthWords,
		DataPosition:    dataPos,
		DataLengthWords: dataWords,
		Tag:             n.Tag,
		Num:             n.Num,
		Type:            n.Type,
		Pad:             n.Pad,
		Kind:            n.Kind,
		RecordPosition:  recordPos,
		EventPlace:      eventPlace,
		ParentIndex:     parentIndex,
	})

	childPos := dataPos
	childIndices := make([]int, 0, len(n.Children))
	for _, child := range n.Children {
		ci := appendNode(idx, child, childPos, recordPos, eventPlace, selfIndex)
		childIndices = append(childIndices, ci)
		childPos += totalBytes(child)
	}
	idx.Entries[selfIndex].ChildIndices = childIndices

	return selfIndex
}

// eventOffsets resolves each event's starting offset and byte length within
// [dataStart, dataStart+dataLen). When the record carries an index array it
// is authoritative; otherwise (permitted only when the data is evio, per
// spec.md §6) lengths are derived from each event's own first-word bank
// length.
func eventOffsets(buf []byte, recordPos int, rh *header.Record, dataStart, dataLen int, order endian.EndianEngine) ([]int, []int, bool, error) {
	offsets := make([]int, rh.Entries)
	lengths := make([]int, rh.Entries)

	if rh.IndexLengthBytes > 0 {
		idxStart := recordPos + header.SizeBytes
		cur := dataStart
		for i := uint32(0); i < rh.Entries; i++ {
			length := int(order.Uint32(buf[idxStart+int(i)*4:]))
			offsets[i] = cur
			lengths[i] = length
			cur += length
		}
		if cur-dataStart != dataLen {
			return nil, nil, false, errs.ErrBadFormat
		}

		return offsets, lengths, true, nil
	}

	cur := dataStart
	for i := uint32(0); i < rh.Entries; i++ {
		if cur+4 > dataStart+dataLen {
			return nil, nil, false, errs.ErrBadFormat
		}
		words := order.Uint32(buf[cur:])
		length := 4 + int(words)*4
		offsets[i] = cur
		lengths[i] = length
		cur += length
	}
	if cur-dataStart != dataLen {
		return nil, nil, false, errs.ErrBadFormat
	}

	return offsets, lengths, false, nil
}

func kindHeaderBytes(k format.Kind) int {
	switch k {
	case format.KindBank:
		return structure.BankHeaderBytes
	case format.KindSegment:
		return structure.SegmentHeaderBytes
	default:
		return structure.TagSegmentHeaderBytes
	}
}

// totalBytes returns the number of bytes n and its payload occupy on the
// wire, derived the same way structure.Node.recomputeLength derives
// LengthWords: Bank's length word excludes only itself, Segment/TagSegment's
// covers data only.
func totalBytes(n *structure.Node) int {
	if n.Kind == format.KindBank {
		return 4 + int(n.LengthWords)*4
	}

	return kindHeaderBytes(n.Kind) + int(n.LengthWords)*4
}
