// Package errs defines the sentinel errors returned throughout evio-sub004.
//
// Every error is a package-level value so callers can match with errors.Is,
// including when the value is wrapped with additional context via fmt.Errorf's
// %w verb. No error carries dynamic state itself; context (offsets, names,
// counts) is always added by the wrapping call site.
package errs

import "errors"

var (
	// ErrBadMagic is returned when a header's magic word does not match
	// 0xC0DA0100 in either byte order.
	ErrBadMagic = errors.New("evio: bad magic number")

	// ErrUnsupportedVersion is returned when a header's version field is
	// outside the set accepted by the requested reader path.
	ErrUnsupportedVersion = errors.New("evio: unsupported version")

	// ErrBadFormat is returned when a header or structure is internally
	// inconsistent (e.g. index length disagrees with entry count).
	ErrBadFormat = errors.New("evio: malformed data")

	// ErrUnderflow is returned when a cursor read would pass its limit.
	ErrUnderflow = errors.New("evio: buffer underflow")

	// ErrOverflow is returned when a header write or an event copy would
	// pass the end of a fixed-size destination slice, or when a buffer
	// target is patched past its end. Cursor writes do not return it: a
	// Cursor grows its backing array instead.
	ErrOverflow = errors.New("evio: buffer overflow")

	// ErrIndexOutOfRange is returned when an event number or child index is
	// outside the legal range for the target.
	ErrIndexOutOfRange = errors.New("evio: index out of range")

	// ErrTypeMismatch is returned when a data append or child-open call
	// disagrees with the parent/structure's declared type.
	ErrTypeMismatch = errors.New("evio: type mismatch")

	// ErrRecordFull is returned when a record cannot accept another event
	// without exceeding its configured byte or index limits.
	ErrRecordFull = errors.New("evio: record is full")

	// ErrAlreadyWritten is returned when add_string_data or
	// add_composite_data is called more than once for the same frame.
	ErrAlreadyWritten = errors.New("evio: string or composite data already written for this structure")

	// ErrBadAlignment is returned when a byte-level payload's length is not
	// a multiple of 4 where word alignment is required.
	ErrBadAlignment = errors.New("evio: data is not 4-byte aligned")

	// ErrCompressedEditForbidden is returned when an in-place edit is
	// attempted on a compressed record.
	ErrCompressedEditForbidden = errors.New("evio: cannot edit a compressed record")

	// ErrWrongEndianness is returned when add_structure's input buffer byte
	// order disagrees with the target's byte order.
	ErrWrongEndianness = errors.New("evio: byte order mismatch")

	// ErrBlockNumberOutOfSequence names a record number that is not strictly
	// increasing. No function in this module returns it: Reader's optional
	// sequence check (WithCheckRecordSequence) appends a message to
	// Reader.Warnings() instead.
	ErrBlockNumberOutOfSequence = errors.New("evio: record number out of sequence")

	// ErrCompressionFailed is returned when a Compressor implementation
	// fails to compress its input.
	ErrCompressionFailed = errors.New("evio: compression failed")

	// ErrDecompressionFailed is returned when a Decompressor implementation
	// fails to decompress its input.
	ErrDecompressionFailed = errors.New("evio: decompression failed")

	// ErrIoFailed wraps a filesystem error; the underlying error is always
	// chained with %w so errors.Is/As still reach the OS-level cause.
	ErrIoFailed = errors.New("evio: I/O failure")

	// ErrStaleReference is returned when a NodeIndex descriptor is used
	// after the arena it came from has been invalidated by an edit.
	ErrStaleReference = errors.New("evio: stale node reference")

	// ErrDepthExceeded is returned when CompactBuilder's open-structure
	// stack would exceed its configured maximum depth.
	ErrDepthExceeded = errors.New("evio: structure nesting depth exceeded")

	// ErrFileExists is returned by Writer.Open when the target file already
	// exists and overwrite was not requested.
	ErrFileExists = errors.New("evio: output file already exists")

	// ErrWriterFailed is returned by every Writer method once the writer
	// has transitioned to its terminal failed state.
	ErrWriterFailed = errors.New("evio: writer is in a failed state")

	// ErrReaderNotReady is returned by a Reader's event accessors (Event,
	// EventLength, GetEventInto and the calls built on them) once the Reader
	// has been closed.
	ErrReaderNotReady = errors.New("evio: reader is not ready")

	// ErrNotEvio names an event buffer that does not parse as a legal bank.
	// No function in this module returns it; a scan marks such events with
	// scan.Entry.NotEvio instead.
	ErrNotEvio = errors.New("evio: data is not evio-formatted")

	// ErrEditRequiresBuffer is returned by Reader.GetEventNode,
	// Reader.RemoveStructure, and Reader.AddStructure when called on a
	// reader opened from a file rather than from a buffer (spec.md §4.11:
	// edit operations are "buffer-backed reader only").
	ErrEditRequiresBuffer = errors.New("evio: node-index and edit operations require a buffer-backed reader")
)
