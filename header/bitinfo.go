package header

import "github.com/JeffersonLab/evio-sub004/format"

// BitInfo is the decoded form of a header's bit-info-and-version word
// (record header word 6 / file header word 6). Encoding it is a pure
// function of its fields, matching section.NumericFlag's
// decode-once/recompute-on-write style in the teacher package.
type BitInfo struct {
	Version       uint8
	HasDictionary bool
	HasFirstEvent bool
	IsLastRecord  bool
	EventType     format.EventType
	UserPad       uint8 // 0-3 bytes
	DataPad       uint8 // 0-3 bytes
	CompPad       uint8 // 0-3 bytes
	HeaderType    format.HeaderType

	// File-header-only flags; ignored (left false) when encoding a record
	// header and never read back by DecodeRecordBitInfo.
	HasTrailerIndex bool
}

// EncodeRecordBitInfo packs a BitInfo into a record header's 6th word.
func EncodeRecordBitInfo(b BitInfo) uint32 {
	w := uint32(b.Version) & bitVersionMask
	if b.HasDictionary {
		w |= bitDictionary
	}
	if b.HasFirstEvent {
		w |= bitFirstEvent
	}
	if b.IsLastRecord {
		w |= bitLastRecord
	}
	w |= (uint32(b.EventType) << bitEventTypeShift) & bitEventTypeMask
	w |= (uint32(b.UserPad) << bitUserPadShift) & bitUserPadMask
	w |= (uint32(b.DataPad) << bitDataPadShift) & bitDataPadMask
	w |= (uint32(b.CompPad) << bitCompPadShift) & bitCompPadMask
	w |= (uint32(b.HeaderType) << bitHeaderTypeShift) & bitHeaderTypeMask

	return w
}

// DecodeRecordBitInfo unpacks a record header's 6th word.
func DecodeRecordBitInfo(w uint32) BitInfo {
	return BitInfo{
		Version:       uint8(w & bitVersionMask),
		HasDictionary: w&bitDictionary != 0,
		HasFirstEvent: w&bitFirstEvent != 0,
		IsLastRecord:  w&bitLastRecord != 0,
		EventType:     format.EventType((w & bitEventTypeMask) >> bitEventTypeShift),
		UserPad:       uint8((w & bitUserPadMask) >> bitUserPadShift),
		DataPad:       uint8((w & bitDataPadMask) >> bitDataPadShift),
		CompPad:       uint8((w & bitCompPadMask) >> bitCompPadShift),
		HeaderType:    format.HeaderType((w & bitHeaderTypeMask) >> bitHeaderTypeShift),
	}
}

// FileBitInfo is the decoded form of a file header's bit-info word. It
// reuses the version/header-type fields but replaces the record-only flags
// with the file-only ones (spec.md §3).
type FileBitInfo struct {
	Version         uint8
	HasTrailerIndex bool
	HasDictionary   bool
	HasFirstEvent   bool
	HeaderType      format.HeaderType
	UserPad         uint8
}

// EncodeFileBitInfo packs a FileBitInfo into a file header's 6th word.
func EncodeFileBitInfo(b FileBitInfo) uint32 {
	w := uint32(b.Version) & bitVersionMask
	if b.HasTrailerIndex {
		w |= bitHasTrailerIndex
	}
	if b.HasDictionary {
		w |= bitHasDictionary
	}
	if b.HasFirstEvent {
		w |= bitHasFirstEvent
	}
	w |= (uint32(b.UserPad) << bitUserPadShift) & bitUserPadMask
	w |= (uint32(b.HeaderType) << bitHeaderTypeShift) & bitHeaderTypeMask

	return w
}

// DecodeFileBitInfo unpacks a file header's 6th word.
func DecodeFileBitInfo(w uint32) FileBitInfo {
	return FileBitInfo{
		Version:         uint8(w & bitVersionMask),
		HasTrailerIndex: w&bitHasTrailerIndex != 0,
		HasDictionary:   w&bitHasDictionary != 0,
		HasFirstEvent:   w&bitHasFirstEvent != 0,
		HeaderType:      format.HeaderType((w & bitHeaderTypeMask) >> bitHeaderTypeShift),
		UserPad:         uint8((w & bitUserPadMask) >> bitUserPadShift),
	}
}

// SetBitInfoEventType returns word with its event-type bits (11-14)
// replaced by the CODA code for t, matching
// RecordHeader::setBitInfoEventType in original_source.
func SetBitInfoEventType(word uint32, t format.EventType) uint32 {
	word &^= bitEventTypeMask

	return word | (uint32(t)<<bitEventTypeShift)&bitEventTypeMask
}

// PadForLength returns the number of bytes required to bring length up to
// the next 4-byte boundary (spec.md §3 padding invariant, "other widths: 0"
// case folded in since callers only invoke this for byte-addressed
// sections).
func PadForLength(length int) uint8 {
	return uint8((4 - length%4) % 4)
}
