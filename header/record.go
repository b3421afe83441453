package header

import (
	"github.com/JeffersonLab/evio-sub004/endian"
	"github.com/JeffersonLab/evio-sub004/errs"
	"github.com/JeffersonLab/evio-sub004/format"
)

// Record is the 56-byte record header (spec.md §3). Each length field is
// kept once, in the unit the wire format uses for it (words or bytes, as
// the field name says).
type Record struct {
	RecordLengthWords uint32 // word 1: inclusive of header+index+user+payload
	RecordNumber      uint32 // word 2
	HeaderLengthWords uint32 // word 3: SizeWords for this version
	Entries           uint32 // word 4: event count
	IndexLengthBytes  uint32 // word 5: 4*Entries if index present, else 0

	Info BitInfo // word 6

	UserHeaderLengthBytes uint32 // word 7

	UncompressedDataLengthBytes uint32 // word 9

	CompressionType          format.CompressionType // word 10 high 4 bits
	CompressedDataLengthWords uint32                // word 10 low 28 bits

	UserRegister1 uint64 // words 11-12
	UserRegister2 uint64 // words 13-14

	// ByteOrder is not itself a header field; it records which order this
	// header was decoded under, so callers don't need to thread it
	// separately (mirrors RecordHeader::byteOrder in original_source).
	ByteOrder endian.EndianEngine
}

// NewRecord returns a Record header initialized to this library's writer
// defaults: version 6, EVIO_RECORD header type, record number 1.
func NewRecord() *Record {
	return &Record{
		HeaderLengthWords: SizeWords,
		RecordNumber:      1,
		Info: BitInfo{
			Version:    Version,
			HeaderType: format.HeaderTypeEvioRecord,
		},
		ByteOrder: endian.GetLittleEndianEngine(),
	}
}

// IsCompressed reports whether this header's record payload is compressed.
func (r *Record) IsCompressed() bool {
	return r.CompressionType != format.CompressionNone
}

// IsLastRecord reports the bit-info "last record in file/stream" flag.
func (r *Record) IsLastRecord() bool { return r.Info.IsLastRecord }

// UserHeaderPaddedLength returns the user-header length rounded up to a 4-byte
// boundary.
func (r *Record) UserHeaderPaddedLength() uint32 {
	return r.UserHeaderLengthBytes + uint32(r.Info.UserPad)
}

// DataPaddedLength returns the uncompressed data length rounded up to a
// 4-byte boundary.
func (r *Record) DataPaddedLength() uint32 {
	return r.UncompressedDataLengthBytes + uint32(r.Info.DataPad)
}

// CompressedPaddedLengthWords returns the compressed payload length
// including its own word-alignment pad, already expressed in words per the
// wire format (spec.md §3: "compressed len in words").
func (r *Record) CompressedPaddedLengthWords() uint32 {
	return r.CompressedDataLengthWords
}

// compressionWord packs CompressionType and CompressedDataLengthWords into
// the record header's 10th word.
func (r *Record) compressionWord() uint32 {
	return (uint32(r.CompressionType) << compressionTypeShift) | (r.CompressedDataLengthWords & compressedLenMask)
}

func decodeCompressionWord(w uint32) (format.CompressionType, uint32) {
	return format.CompressionType(w >> compressionTypeShift), w & compressedLenMask
}

// Write serializes the header into dst[off:off+SizeBytes] using order byte
// order. dst must have at least off+SizeBytes bytes.
func Write(r *Record, order endian.EndianEngine, dst []byte, off int) error {
	if len(dst) < off+SizeBytes {
		return errs.ErrOverflow
	}

	order.PutUint32(dst[off+OffRecordLength:], r.RecordLengthWords)
	order.PutUint32(dst[off+OffRecordNumber:], r.RecordNumber)
	order.PutUint32(dst[off+OffHeaderLength:], r.HeaderLengthWords)
	order.PutUint32(dst[off+OffEntries:], r.Entries)
	order.PutUint32(dst[off+OffIndexLength:], r.IndexLengthBytes)
	order.PutUint32(dst[off+OffBitInfo:], EncodeRecordBitInfo(r.Info))
	order.PutUint32(dst[off+OffUserHeaderLength:], r.UserHeaderLengthBytes)
	order.PutUint32(dst[off+OffMagic:], Magic)
	order.PutUint32(dst[off+OffUncompressedLen:], r.UncompressedDataLengthBytes)
	order.PutUint32(dst[off+OffCompressionWord:], r.compressionWord())
	order.PutUint64(dst[off+OffRegister1:], r.UserRegister1)
	order.PutUint64(dst[off+OffRegister2:], r.UserRegister2)

	return nil
}

// Read decodes a record header from buf[off:off+SizeBytes], autodetecting
// byte order via the magic word (spec.md §4.2).
//
// If the magic word does not read as Magic in either byte order,
// ErrBadMagic is returned. If the decoded version is less than 6,
// ErrUnsupportedVersion is returned (legacy block headers use
// header.ReadLegacy instead).
func Read(buf []byte, off int) (*Record, error) {
	if len(buf) < off+SizeBytes {
		return nil, errs.ErrUnderflow
	}

	order, err := detectOrder(buf, off+OffMagic)
	if err != nil {
		return nil, err
	}

	r := &Record{ByteOrder: order}
	r.RecordLengthWords = order.Uint32(buf[off+OffRecordLength:])
	r.RecordNumber = order.Uint32(buf[off+OffRecordNumber:])
	r.HeaderLengthWords = order.Uint32(buf[off+OffHeaderLength:])
	r.Entries = order.Uint32(buf[off+OffEntries:])
	r.IndexLengthBytes = order.Uint32(buf[off+OffIndexLength:])
	r.Info = DecodeRecordBitInfo(order.Uint32(buf[off+OffBitInfo:]))
	r.UserHeaderLengthBytes = order.Uint32(buf[off+OffUserHeaderLength:])
	r.UncompressedDataLengthBytes = order.Uint32(buf[off+OffUncompressedLen:])
	r.CompressionType, r.CompressedDataLengthWords = decodeCompressionWord(order.Uint32(buf[off+OffCompressionWord:]))
	r.UserRegister1 = order.Uint64(buf[off+OffRegister1:])
	r.UserRegister2 = order.Uint64(buf[off+OffRegister2:])

	if r.Info.Version < 6 {
		return nil, errs.ErrUnsupportedVersion
	}
	if r.IndexLengthBytes > 0 && uint32(4*r.Entries) != r.IndexLengthBytes && !r.Info.HeaderType.IsTrailer() {
		return nil, errs.ErrBadFormat
	}
	if r.HeaderLengthWords < SizeWords {
		return nil, errs.ErrBadFormat
	}

	return r, nil
}

// detectOrder reads the 32-bit word at buf[magicOff:] and returns whichever
// byte order makes it equal Magic, per spec.md's "Byte-order invariant".
func detectOrder(buf []byte, magicOff int) (endian.EndianEngine, error) {
	le := endian.GetLittleEndianEngine()
	if le.Uint32(buf[magicOff:]) == Magic {
		return le, nil
	}

	be := endian.GetBigEndianEngine()
	if be.Uint32(buf[magicOff:]) == Magic {
		return be, nil
	}

	return nil, errs.ErrBadMagic
}

// IsCompressed is a static predicate that reads only the magic word (for
// byte order) and the compression word at offset, without fully parsing
// the header. It mirrors RecordHeader::isCompressed(ByteBuffer&, size_t)
// in original_source.
func IsCompressed(buf []byte, off int) (bool, error) {
	order, err := detectOrder(buf, off+OffMagic)
	if err != nil {
		return false, err
	}
	ct, _ := decodeCompressionWord(order.Uint32(buf[off+OffCompressionWord:]))

	return ct != format.CompressionNone, nil
}

// GetWords returns the number of 32-bit words needed to hold length bytes,
// rounding up (original_source RecordHeader::getWords).
func GetWords(length int) uint32 {
	words := length / 4
	if length%4 != 0 {
		words++
	}

	return uint32(words)
}

// GetPadding returns the padding bytes needed to bring length up to a word
// boundary (original_source RecordHeader::getPadding).
func GetPadding(length int) uint32 {
	return uint32(PadForLength(length))
}
