// Package header implements the record/file/legacy-block header codec
// (component C2): layout, bit-info packing, padding, magic-word endian
// autodetection, and compression framing.
//
// The bit-packing style (a small struct of plain fields reconstructed from
// and flattened back into one machine word) follows
// github.com/arloliu/mebo/section's NumericFlag; the field layout itself
// comes from original_source/src/hipo/RecordHeader.h.
package header

// Sizes and magic numbers, spec.md §3 and §6.
const (
	// SizeWords is the number of 32-bit words in a record or file header.
	SizeWords = 14
	// SizeBytes is the header size in bytes (14 * 4).
	SizeBytes = SizeWords * 4

	// Magic is the record/file magic word, present at a fixed offset in
	// every header so its own endianness can be autodetected.
	Magic uint32 = 0xC0DA0100

	// FileUniqueWord is "EVIO" packed big-endian, present at file-header
	// word 0.
	FileUniqueWord uint32 = 0x4556494F

	// Version is the version this codec writes. Readers accept this
	// version and the legacy v1-v4 block header family (header/legacy.go).
	Version uint8 = 6
)

// Byte offsets within a 56-byte record header (spec.md §3 table).
const (
	OffRecordLength     = 0
	OffRecordNumber     = 4
	OffHeaderLength     = 8
	OffEntries          = 12
	OffIndexLength      = 16
	OffBitInfo          = 20
	OffUserHeaderLength = 24
	OffMagic            = 28
	OffUncompressedLen  = 32
	OffCompressionWord  = 36
	OffRegister1        = 40
	OffRegister2        = 48
)

// Byte offsets within a 56-byte file header.
const (
	OffFileUnique       = 0
	OffSplitNumber      = 4
	OffFileHeaderLength = 8
	OffRecordCount      = 12
	OffFileIndexLength  = 16
	OffFileBitInfo      = 20
	OffFileUserHdrLen   = 24
	OffFileMagic        = 28
	OffTrailerPosition  = 32
	OffUserInt1         = 40
	OffUserInt2         = 48
)

// Bit-info word masks and shifts, shared by record and file headers
// (original_source/src/hipo/RecordHeader.h comment block, lines 84-107).
const (
	bitVersionMask = 0xFF

	bitDictionary = 1 << 8
	bitFirstEvent = 1 << 9
	bitLastRecord = 1 << 10

	bitEventTypeShift = 11
	bitEventTypeMask  = 0xF << bitEventTypeShift

	bitUserPadShift = 20
	bitUserPadMask  = 0x3 << bitUserPadShift

	bitDataPadShift = 22
	bitDataPadMask  = 0x3 << bitDataPadShift

	bitCompPadShift = 24
	bitCompPadMask  = 0x3 << bitCompPadShift

	bitHeaderTypeShift = 28
	bitHeaderTypeMask  = 0xF << bitHeaderTypeShift
)

// File-header-only bit-info flags (spec.md §3, "Bit-info also carries...").
const (
	bitHasTrailerIndex = 1 << 8
	bitHasDictionary   = 1 << 9
	bitHasFirstEvent   = 1 << 10
)

// Compression-word layout (record header word 10): top 4 bits are the
// compression type, low 28 bits are the compressed length in words.
const (
	compressionTypeShift = 28
	compressedLenMask    = 0x0FFFFFFF
)
