package header

import (
	"github.com/JeffersonLab/evio-sub004/endian"
	"github.com/JeffersonLab/evio-sub004/errs"
)

// File is the 56-byte file header (spec.md §3). Word 1 ("EVIO" in
// big-endian ASCII) is the file-specific identity word; word 8 is the same
// magic word every record header carries and is what byte-order
// autodetection actually keys on.
type File struct {
	SplitNumber      uint32 // word 2
	HeaderLengthWords uint32 // word 3
	RecordCount       uint32 // word 4
	IndexLengthBytes  uint32 // word 5

	Info FileBitInfo // word 6

	UserHeaderLengthBytes uint32 // word 7

	TrailerPosition uint64 // words 9-10 (64-bit file offset of the trailer)

	UserInt1 uint64
	UserInt2 uint64

	ByteOrder endian.EndianEngine
}

// NewFile returns a File header initialized to this library's writer
// defaults.
func NewFile() *File {
	return &File{
		HeaderLengthWords: SizeWords,
		Info: FileBitInfo{
			Version: Version,
		},
		ByteOrder: endian.GetLittleEndianEngine(),
	}
}

// WriteFile serializes the file header into dst[off:off+SizeBytes].
func WriteFile(f *File, order endian.EndianEngine, dst []byte, off int) error {
	if len(dst) < off+SizeBytes {
		return errs.ErrOverflow
	}

	order.PutUint32(dst[off+OffFileUnique:], FileUniqueWord)
	order.PutUint32(dst[off+OffSplitNumber:], f.SplitNumber)
	order.PutUint32(dst[off+OffFileHeaderLength:], f.HeaderLengthWords)
	order.PutUint32(dst[off+OffRecordCount:], f.RecordCount)
	order.PutUint32(dst[off+OffFileIndexLength:], f.IndexLengthBytes)
	order.PutUint32(dst[off+OffFileBitInfo:], EncodeFileBitInfo(f.Info))
	order.PutUint32(dst[off+OffFileUserHdrLen:], f.UserHeaderLengthBytes)
	order.PutUint32(dst[off+OffFileMagic:], Magic)
	order.PutUint64(dst[off+OffTrailerPosition:], f.TrailerPosition)
	order.PutUint64(dst[off+OffUserInt1:], f.UserInt1)
	order.PutUint64(dst[off+OffUserInt2:], f.UserInt2)

	return nil
}

// ReadFile decodes a file header from buf[off:off+SizeBytes], autodetecting
// byte order from the magic word at OffFileMagic.
func ReadFile(buf []byte, off int) (*File, error) {
	if len(buf) < off+SizeBytes {
		return nil, errs.ErrUnderflow
	}

	order, err := detectOrder(buf, off+OffFileMagic)
	if err != nil {
		return nil, err
	}

	f := &File{ByteOrder: order}
	f.SplitNumber = order.Uint32(buf[off+OffSplitNumber:])
	f.HeaderLengthWords = order.Uint32(buf[off+OffFileHeaderLength:])
	f.RecordCount = order.Uint32(buf[off+OffRecordCount:])
	f.IndexLengthBytes = order.Uint32(buf[off+OffFileIndexLength:])
	f.Info = DecodeFileBitInfo(order.Uint32(buf[off+OffFileBitInfo:]))
	f.UserHeaderLengthBytes = order.Uint32(buf[off+OffFileUserHdrLen:])
	f.TrailerPosition = order.Uint64(buf[off+OffTrailerPosition:])
	f.UserInt1 = order.Uint64(buf[off+OffUserInt1:])
	f.UserInt2 = order.Uint64(buf[off+OffUserInt2:])

	if f.Info.Version < 6 {
		return nil, errs.ErrUnsupportedVersion
	}
	if order.Uint32(buf[off+OffFileUnique:]) != FileUniqueWord {
		return nil, errs.ErrBadFormat
	}
	if f.HeaderLengthWords < SizeWords {
		return nil, errs.ErrBadFormat
	}

	return f, nil
}

// BackPatchTrailerPosition rewrites only the trailer-position field (words
// 9-10) of an already-written file header at dst[off:], used by Writer on
// Close() once the trailer's actual file offset is known (spec.md §4.10).
func BackPatchTrailerPosition(order endian.EndianEngine, dst []byte, off int, pos uint64) error {
	if len(dst) < off+OffUserInt1 {
		return errs.ErrOverflow
	}
	order.PutUint64(dst[off+OffTrailerPosition:], pos)

	return nil
}

// BackPatchBitInfo rewrites only the bit-info word of an already-written
// file header, used after BackPatchTrailerPosition to set
// HasTrailerIndex once the trailer is known to carry an index.
func BackPatchBitInfo(order endian.EndianEngine, dst []byte, off int, info FileBitInfo) error {
	if len(dst) < off+SizeBytes {
		return errs.ErrOverflow
	}
	order.PutUint32(dst[off+OffFileBitInfo:], EncodeFileBitInfo(info))

	return nil
}
