// Package format holds the small closed enumerations that describe an evio
// structure's wire shape: the structure kind (Bank/Segment/TagSegment), the
// leaf data type, the record/file compression kind, the CODA event type
// packed into a header's bit-info word, and the general header type
// (EVIO_RECORD .. HIPO_TRAILER).
//
// These mirror the role github.com/arloliu/mebo/format plays for mebo's
// EncodingType/CompressionType, extended with the additional enumerations
// this format needs.
package format

import "fmt"

// Kind distinguishes the three structure variants, each with a different
// header width (spec.md §3).
type Kind uint8

const (
	KindBank Kind = iota
	KindSegment
	KindTagSegment
)

func (k Kind) String() string {
	switch k {
	case KindBank:
		return "Bank"
	case KindSegment:
		return "Segment"
	case KindTagSegment:
		return "TagSegment"
	default:
		return "Unknown"
	}
}

// DataType enumerates the leaf and container types a structure's header may
// declare. ALSOBANK/ALSOSEGMENT are legacy duplicates of BANK/SEGMENT and
// MUST be treated as equivalent on read (spec.md §3).
//
// INT32 sits at 0x1 (not UINT32) because spec.md §8 scenario 1 pins the
// wire byte for a Bank(type=INT32) to 0x01 ("12 34 01 56"); DataType.h was
// not among the retrieved original_source files, so that scenario is this
// repository's only numeric anchor for the 32-bit codes and takes
// precedence. LONG64/ULONG64/DOUBLE64 keep the canonical evio ordering
// (0x8/0x9/0xA) rather than the mebo-adjacent guess this package carried
// earlier, which put DOUBLE64 before LONG64/ULONG64.
type DataType uint8

const (
	TypeUnknown32   DataType = 0x0
	TypeInt32       DataType = 0x1
	TypeFloat32     DataType = 0x2
	TypeCharStar8   DataType = 0x3
	TypeInt16       DataType = 0x4
	TypeUint16      DataType = 0x5
	TypeInt8        DataType = 0x6
	TypeUint8       DataType = 0x7
	TypeInt64       DataType = 0x8
	TypeUint64      DataType = 0x9
	TypeDouble64    DataType = 0xA
	TypeUint32      DataType = 0xB
	TypeTagSegment  DataType = 0xC
	TypeAlsoSegment DataType = 0xD
	TypeAlsoBank    DataType = 0xE
	TypeComposite   DataType = 0xF
	TypeBank        DataType = 0x10
	TypeSegment     DataType = 0x20
	TypeHollerit    DataType = 0x21
	TypeNValue      DataType = 0x22
	TypeLowerNValue DataType = 0x23
	TypeLowerMValue DataType = 0x24
)

// Canonical normalizes the legacy ALSOBANK/ALSOSEGMENT duplicates to their
// modern equivalents; every comparison in this repository goes through it
// first so a legacy-tagged child container is never mistaken for a leaf.
func (t DataType) Canonical() DataType {
	switch t {
	case TypeAlsoBank:
		return TypeBank
	case TypeAlsoSegment:
		return TypeSegment
	default:
		return t
	}
}

// IsContainer reports whether the type holds child structures rather than a
// primitive payload.
func (t DataType) IsContainer() bool {
	switch t.Canonical() {
	case TypeBank, TypeSegment, TypeTagSegment:
		return true
	default:
		return false
	}
}

// IsReserved reports the composite subtypes spec.md §9 Open Question 3
// leaves undisambiguated; implementers must reject them until clarified.
func (t DataType) IsReserved() bool {
	switch t {
	case TypeHollerit, TypeNValue, TypeLowerNValue, TypeLowerMValue:
		return true
	default:
		return false
	}
}

// ElementSize returns the byte width of one element for fixed-width
// primitive types, or 0 for container/variable-width types.
func (t DataType) ElementSize() int {
	switch t.Canonical() {
	case TypeInt8, TypeUint8, TypeCharStar8:
		return 1
	case TypeInt16, TypeUint16:
		return 2
	case TypeUnknown32, TypeUint32, TypeInt32, TypeFloat32:
		return 4
	case TypeInt64, TypeUint64, TypeDouble64:
		return 8
	default:
		return 0
	}
}

func (t DataType) String() string {
	names := map[DataType]string{
		TypeUnknown32: "UNKNOWN32", TypeUint32: "UINT32", TypeFloat32: "FLOAT32",
		TypeCharStar8: "CHARSTAR8", TypeInt16: "SHORT16", TypeUint16: "USHORT16",
		TypeInt8: "CHAR8", TypeUint8: "UCHAR8", TypeDouble64: "DOUBLE64",
		TypeInt64: "LONG64", TypeUint64: "ULONG64", TypeInt32: "INT32",
		TypeTagSegment: "TAGSEGMENT", TypeAlsoSegment: "ALSOSEGMENT",
		TypeAlsoBank: "ALSOBANK", TypeComposite: "COMPOSITE", TypeBank: "BANK",
		TypeSegment: "SEGMENT", TypeHollerit: "HOLLERIT", TypeNValue: "NVALUE",
		TypeLowerNValue: "nVALUE", TypeLowerMValue: "mVALUE",
	}
	if s, ok := names[t]; ok {
		return s
	}

	return fmt.Sprintf("DataType(0x%X)", uint8(t))
}

// CompressionType enumerates the record-payload compression kinds, packed
// into the top 4 bits of a record header's 10th word.
type CompressionType uint8

const (
	CompressionNone    CompressionType = 0
	CompressionLZ4Fast CompressionType = 1
	CompressionLZ4Best CompressionType = 2
	CompressionGzip    CompressionType = 3
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionLZ4Fast:
		return "LZ4Fast"
	case CompressionLZ4Best:
		return "LZ4Best"
	case CompressionGzip:
		return "Gzip"
	default:
		return fmt.Sprintf("CompressionType(%d)", uint8(c))
	}
}

// Valid reports whether c is one of the four defined compression kinds.
func (c CompressionType) Valid() bool {
	return c <= CompressionGzip
}

// EventType enumerates the CODA data-type codes packed into bits 11-14 of
// a record header's bit-info word.
type EventType uint8

const (
	EventTypeRocRaw        EventType = 0
	EventTypePhysics       EventType = 1
	EventTypePartial       EventType = 2
	EventTypeDisentangled  EventType = 3
	EventTypeUser          EventType = 4
	EventTypeControl       EventType = 5
	EventTypeOther         EventType = 15
)

func (e EventType) String() string {
	switch e {
	case EventTypeRocRaw:
		return "ROC Raw"
	case EventTypePhysics:
		return "Physics"
	case EventTypePartial:
		return "Partial Physics"
	case EventTypeDisentangled:
		return "Disentangled Physics"
	case EventTypeUser:
		return "User"
	case EventTypeControl:
		return "Control"
	case EventTypeOther:
		return "Other"
	default:
		return fmt.Sprintf("EventType(%d)", uint8(e))
	}
}

// HeaderType enumerates the general header type packed into bits 28-31 of a
// record/file header's bit-info word (spec.md §3 and original_source's
// HeaderType.cpp, carried in full per SPEC_FULL.md §5.1 even though this
// repository only ever emits EvioRecord/EvioFile/EvioTrailer).
type HeaderType uint8

const (
	HeaderTypeEvioRecord      HeaderType = 0
	HeaderTypeEvioFile        HeaderType = 1
	HeaderTypeEvioFileExt     HeaderType = 2
	HeaderTypeEvioTrailer     HeaderType = 3
	HeaderTypeHipoRecord      HeaderType = 4
	HeaderTypeHipoFile        HeaderType = 5
	HeaderTypeHipoFileExt     HeaderType = 6
	HeaderTypeHipoTrailer     HeaderType = 7
	HeaderTypeUnknown         HeaderType = 15
)

func (h HeaderType) String() string {
	names := [...]string{
		"EVIO_RECORD", "EVIO_FILE", "EVIO_FILE_EXTENDED", "EVIO_TRAILER",
		"HIPO_RECORD", "HIPO_FILE", "HIPO_FILE_EXTENDED", "HIPO_TRAILER",
	}
	if int(h) < len(names) {
		return names[h]
	}

	return "UNKNOWN"
}

// IsTrailer reports whether the header type marks a trailer record.
func (h HeaderType) IsTrailer() bool {
	return h == HeaderTypeEvioTrailer || h == HeaderTypeHipoTrailer
}
