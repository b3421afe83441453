package reader

import (
	"strings"

	"github.com/JeffersonLab/evio-sub004/endian"
	"github.com/JeffersonLab/evio-sub004/errs"
	"github.com/JeffersonLab/evio-sub004/header"
)

// legacyEvent locates one data event inside a v1-4 block-header file.
type legacyEvent struct {
	position int
	length   int
}

// initLegacy parses a v1-4 block-header file (spec.md §6): a sequence of
// 8-word block headers, each immediately followed by its block's events
// with no index array, event lengths self-described by each event's
// leading bank-length word exactly as in the no-index-array fallback for
// v6 records. Block 0's dictionary (a CHAR8 bank) and first event (a full
// event, header included), if the block's bit-info flags them, are its
// leading entries and are excluded from EventCount/Event.
func (r *Reader) initLegacy(raw []byte) error {
	r.isLegacy = true

	pos := 0
	first := true

	for pos < len(raw) {
		lh, err := header.ReadLegacy(raw, pos)
		if err != nil {
			return err
		}
		if r.order == nil {
			r.order = lh.ByteOrder
			r.version = lh.Version
		}

		total := int(lh.BlockSizeWords) * 4
		if total <= 0 || pos+total > len(raw) {
			return errs.ErrBadFormat
		}

		cur := pos + header.LegacySizeBytes
		end := pos + total
		remaining := int(lh.EventCount)

		if first {
			if lh.HasDictionary && remaining > 0 {
				length, derr := legacyEventLength(raw, cur, r.order)
				if derr != nil {
					return derr
				}
				if length < 8 || cur+length > len(raw) {
					return errs.ErrBadFormat
				}
				r.dictionaryXML = strings.TrimRight(string(raw[cur+8:cur+length]), "\x00")
				cur += length
				remaining--
			}
			if lh.HasFirstEvent && remaining > 0 {
				length, derr := legacyEventLength(raw, cur, r.order)
				if derr != nil {
					return derr
				}
				if cur+length > len(raw) {
					return errs.ErrBadFormat
				}
				r.firstEvent = append([]byte(nil), raw[cur:cur+length]...)
				cur += length
				remaining--
			}
			first = false
		}

		for i := 0; i < remaining; i++ {
			length, derr := legacyEventLength(raw, cur, r.order)
			if derr != nil {
				return derr
			}
			if cur+length > len(raw) {
				return errs.ErrBadFormat
			}
			r.legacyEvents = append(r.legacyEvents, legacyEvent{position: cur, length: length})
			cur += length
		}
		if cur != end {
			return errs.ErrBadFormat
		}

		pos += total
		if lh.IsLastBlock {
			break
		}
	}

	return nil
}

// legacyEventLength reads a bank's leading length word at raw[pos:] and
// returns its total byte length, header included.
func legacyEventLength(raw []byte, pos int, order endian.EndianEngine) (int, error) {
	if pos+4 > len(raw) {
		return 0, errs.ErrUnderflow
	}
	words := order.Uint32(raw[pos:])

	return 4 + int(words)*4, nil
}

func (r *Reader) legacyEvent(i int) ([]byte, error) {
	if i < 0 || i >= len(r.legacyEvents) {
		return nil, errs.ErrIndexOutOfRange
	}
	e := r.legacyEvents[i]
	r.seqCursor = i + 1

	return r.buf[e.position : e.position+e.length], nil
}
