// Package evio provides a Go implementation of the EVIO/HIPO binary
// container format used to store physics event data as a sequence of
// self-describing, tagged tree structures (banks, segments, and tag
// segments) grouped into compressible records.
//
// # Core Features
//
//   - Bank/segment/tag-segment tree structures with 12 primitive element
//     types plus a compact mini-format for heterogeneous tuples
//   - Records that batch many events together under one header, optionally
//     compressed with LZ4 or gzip
//   - A file format (header, optional embedded dictionary/first-event,
//     records, trailer with optional random-access index) and a legacy
//     v1-4 block-header format, both supported for reading
//   - Sequential and random-access event iteration, with an arena-style
//     flat node index for in-place structure edits on buffer-backed readers
//   - An XML dictionary lookup table resolving (tag, num, tag_end) to name
//
// # Basic Usage
//
// Writing events to a buffer:
//
//	import "github.com/JeffersonLab/evio-sub004/writer"
//
//	w, _ := writer.New(writer.WithBufferTarget())
//	w.Open("")
//	w.Write(eventBytes)
//	w.Close()
//	data := w.Bytes()
//
// Reading events back:
//
//	import "github.com/JeffersonLab/evio-sub004/reader"
//
//	r, _ := reader.NewFromBuffer(data)
//	for i := 0; i < r.EventCount(); i++ {
//	    ev, _ := r.Event(i)
//	    _ = ev
//	}
//
// # Package Structure
//
// This package provides thin top-level convenience wrappers around
// reader.Open/NewFromBuffer and writer.New for the most common entry
// points. For compositing trees by hand, compression codecs,
// dictionary tables, or the mutex-synchronized façade, use the
// structure, compress, writer, dictionary, and syncfacade packages
// directly.
package evio

import (
	"github.com/JeffersonLab/evio-sub004/reader"
	"github.com/JeffersonLab/evio-sub004/writer"
)

// Open opens the evio file at path for reading, autodetecting its byte
// order and falling back to the legacy v1-4 block-header format when the
// file's version is too old to carry a v6 file header.
//
// Example:
//
//	r, err := evio.Open("run001.evio")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
func Open(path string, opts ...reader.Option) (*reader.Reader, error) {
	return reader.Open(path, opts...)
}

// NewReader constructs a Reader over an in-memory buffer, either a bare
// record stream or a complete file-format buffer such as one produced by
// NewBufferWriter. This is the only construction path that supports
// Reader.GetEventNode, Reader.RemoveStructure, and Reader.AddStructure.
func NewReader(buf []byte, opts ...reader.Option) (*reader.Reader, error) {
	return reader.NewFromBuffer(buf, opts...)
}

// NewWriter builds a file-target Writer from opts. Call Open on the
// result to start writing, Write to append events, and Close to flush
// the trailer and finalize the file.
//
// Example:
//
//	w, err := evio.NewWriter(writer.WithCompression(format.CompressionLZ4Fast))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := w.Open("run001.evio"); err != nil {
//	    log.Fatal(err)
//	}
//	for _, ev := range events {
//	    w.Write(ev)
//	}
//	w.Close()
func NewWriter(opts ...writer.Option) (*writer.Writer, error) {
	return writer.New(opts...)
}

// NewBufferWriter builds an in-memory Writer, the same as NewWriter but
// with writer.WithBufferTarget already applied. Open's name_template
// argument is unused for a buffer-target Writer; call Writer.Bytes after
// Close to retrieve the finalized bytes.
func NewBufferWriter(opts ...writer.Option) (*writer.Writer, error) {
	allOpts := append([]writer.Option{writer.WithBufferTarget()}, opts...)

	return writer.New(allOpts...)
}
