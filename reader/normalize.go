package reader

import (
	"github.com/JeffersonLab/evio-sub004/endian"
	"github.com/JeffersonLab/evio-sub004/errs"
	"github.com/JeffersonLab/evio-sub004/format"
	"github.com/JeffersonLab/evio-sub004/header"
	"github.com/JeffersonLab/evio-sub004/record"
)

// normalizeBuffer rewrites buf (a back-to-back record stream, compression
// and all) into an equivalent stream with every record's payload
// uncompressed, so the rest of the buffer-backed reader — scanning, node
// indexing, and in-place edits — never has to special-case compression
// (spec.md §4.11 "edit operations ... uncompressed data only"). Trailer
// records are copied through unchanged; they carry no compressed payload.
func normalizeBuffer(buf []byte, order endian.EndianEngine) ([]byte, error) {
	out := make([]byte, 0, len(buf))
	pos := 0

	for pos < len(buf) {
		rh, err := header.Read(buf, pos)
		if err != nil {
			return nil, err
		}
		total := int(rh.RecordLengthWords) * 4
		if total <= 0 || pos+total > len(buf) {
			return nil, errs.ErrBadFormat
		}

		if rh.Info.HeaderType.IsTrailer() || !rh.IsCompressed() {
			out = append(out, buf[pos:pos+total]...)
		} else {
			rebuilt, rerr := rebuildUncompressedRecord(buf, pos, rh, order)
			if rerr != nil {
				return nil, rerr
			}
			out = append(out, rebuilt...)
		}

		pos += total
		if rh.Info.IsLastRecord {
			break
		}
	}

	return out, nil
}

// rebuildUncompressedRecord decodes the record at buf[pos:] (decompressing
// its payload via record.Read) and re-encodes it through record.Output with
// format.CompressionNone, preserving its record number, user header, and
// dictionary/first-event flags.
func rebuildUncompressedRecord(buf []byte, pos int, rh *header.Record, order endian.EndianEngine) ([]byte, error) {
	in, err := record.Read(buf, pos)
	if err != nil {
		return nil, err
	}

	userStart := pos + header.SizeBytes + int(rh.IndexLengthBytes)
	userHeader := append([]byte(nil), buf[userStart:userStart+int(rh.UserHeaderLengthBytes)]...)

	out := record.NewOutput(order, 0, 0)
	defer out.Release()
	out.SetRecordNumber(rh.RecordNumber)
	out.SetUserHeader(userHeader)
	out.SetDictionaryFlags(rh.Info.HasDictionary, rh.Info.HasFirstEvent)

	for i := 0; i < in.Entries(); i++ {
		ev, everr := in.Event(i)
		if everr != nil {
			return nil, everr
		}
		if aerr := out.AddEvent(ev); aerr != nil {
			return nil, aerr
		}
	}

	return out.Build(format.CompressionNone)
}
