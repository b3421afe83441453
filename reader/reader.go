// Package reader implements Reader (C11): drives record.Input instances
// against a file or an in-memory buffer, builds the global event-to-record
// index from whichever of a trailer index, a file-header index, or a fresh
// scan is available, and supports both sequential and random event access
// (spec.md §4.11).
package reader

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/JeffersonLab/evio-sub004/endian"
	"github.com/JeffersonLab/evio-sub004/errs"
	"github.com/JeffersonLab/evio-sub004/header"
	"github.com/JeffersonLab/evio-sub004/internal/options"
	"github.com/JeffersonLab/evio-sub004/record"
	"github.com/JeffersonLab/evio-sub004/scan"
)

// recordPos locates one data record within a Reader's backing bytes,
// resolved by whichever indexing strategy construction chose.
type recordPos struct {
	position    int
	lengthBytes uint32
	eventCount  uint32
}

// Reader drives random and sequential access over the records of a file or
// buffer. A Reader is not safe for concurrent use; see syncfacade for an
// opt-in synchronized wrapper (spec.md §5).
type Reader struct {
	cfg Config

	isFile   bool
	fileName string
	fileSize int64

	buf     []byte
	order   endian.EndianEngine
	version uint8

	fileHeader *header.File

	records    []recordPos
	cumulative []int

	idx *scan.Index

	dictionaryXML string
	firstEvent    []byte
	warnings      []string

	isLegacy     bool
	legacyEvents []legacyEvent

	seqCursor int

	cachedRecordIdx int
	cachedInput     *record.Input

	closed bool
}

// Open opens the evio file at path (spec.md §4.11 construction path 1,
// "file"). It reads the whole file into memory; record payloads are
// decompressed lazily, per record, on access.
func Open(path string, opts ...Option) (*Reader, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrIoFailed, err)
	}

	r := &Reader{cfg: *cfg, isFile: true, fileName: path, fileSize: int64(len(raw)), buf: raw, cachedRecordIdx: -1}

	fh, err := header.ReadFile(raw, 0)
	if err != nil {
		if errors.Is(err, errs.ErrUnsupportedVersion) {
			if lerr := r.initLegacy(raw); lerr != nil {
				return nil, lerr
			}

			return r, nil
		}

		return nil, err
	}

	if err := r.initFile(raw, fh); err != nil {
		return nil, err
	}

	return r, nil
}

// NewFromBuffer constructs a buffer-backed Reader over buf (spec.md §4.11
// construction path 1, "buffer"), the only construction path that supports
// GetEventNode/RemoveStructure/AddStructure. buf may be a bare record
// stream or a complete file-format buffer (as produced by a Writer
// configured with WithBufferTarget); either way buf is copied and
// normalized to all-uncompressed records before this call returns, so
// later edits never need to special-case compression.
func NewFromBuffer(buf []byte, opts ...Option) (*Reader, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	r := &Reader{cfg: *cfg, isFile: false, cachedRecordIdx: -1}
	if err := r.initBuffer(buf); err != nil {
		return nil, err
	}

	return r, nil
}

// initFile builds the event index for a file-backed Reader using whichever
// of the four strategies spec.md §4.11 step 2 selects, leaving r.buf as the
// raw (possibly compressed) file bytes; compression is handled per record
// by record.Read on access.
func (r *Reader) initFile(raw []byte, fh *header.File) error {
	r.fileHeader = fh
	r.order = fh.ByteOrder
	r.version = fh.Info.Version

	userStart := header.SizeBytes + int(fh.IndexLengthBytes)
	recordsStart := userStart + int(fh.UserHeaderLengthBytes)

	if fh.UserHeaderLengthBytes > 0 {
		if err := r.extractDictionaryAndFirstEvent(raw, userStart); err != nil {
			return err
		}
	}

	positions, err := r.buildPositions(raw, recordsStart, fh)
	if err != nil {
		return err
	}
	r.records = positions
	r.buildCumulative()

	return nil
}

// buildPositions chooses among spec.md §4.11 step 2's four strategies:
// (a) force scan, (b) trailer index, (c) file header's own index, (d)
// fallback scan, in that priority order.
func (r *Reader) buildPositions(buf []byte, recordsStart int, fh *header.File) ([]recordPos, error) {
	if r.cfg.forceScan {
		return r.scanPositions(buf, recordsStart)
	}

	if fh.Info.HasTrailerIndex && fh.TrailerPosition >= 1 {
		th, err := header.Read(buf, int(fh.TrailerPosition))
		if err != nil {
			return nil, err
		}
		n := int(th.IndexLengthBytes) / 8

		return positionsFromIndexPairs(buf, int(fh.TrailerPosition)+header.SizeBytes, recordsStart, n, r.order)
	}

	if fh.IndexLengthBytes > 0 {
		n := int(fh.IndexLengthBytes) / 8

		return positionsFromIndexPairs(buf, header.SizeBytes, recordsStart, n, r.order)
	}

	return r.scanPositions(buf, recordsStart)
}

// positionsFromIndexPairs reads n (record_length, event_count) pairs
// starting at indexStart and lays out the corresponding recordPos entries
// back to back starting at recordsStart.
func positionsFromIndexPairs(buf []byte, indexStart, recordsStart, n int, order endian.EndianEngine) ([]recordPos, error) {
	positions := make([]recordPos, 0, n)
	cur := recordsStart

	for i := 0; i < n; i++ {
		if indexStart+i*8+8 > len(buf) {
			return nil, errs.ErrBadFormat
		}
		length := order.Uint32(buf[indexStart+i*8:])
		count := order.Uint32(buf[indexStart+i*8+4:])
		positions = append(positions, recordPos{position: cur, lengthBytes: length, eventCount: count})
		cur += int(length)
	}

	return positions, nil
}

// scanPositions walks every record starting at pos end to end, collecting
// one recordPos per non-trailer record, and optionally appending a warning
// (never a fatal error, SPEC_FULL.md §7 resolution 1) when record numbers
// are not strictly increasing.
func (r *Reader) scanPositions(buf []byte, start int) ([]recordPos, error) {
	var positions []recordPos
	pos := start

	var lastRecordNumber uint32
	haveLast := false

	for pos < len(buf) {
		rh, err := header.Read(buf, pos)
		if err != nil {
			return nil, err
		}

		total := int(rh.RecordLengthWords) * 4
		if total <= 0 || pos+total > len(buf) {
			return nil, errs.ErrBadFormat
		}

		if r.cfg.checkRecordSequence && !rh.Info.HeaderType.IsTrailer() {
			if haveLast && rh.RecordNumber <= lastRecordNumber {
				r.warnings = append(r.warnings, fmt.Sprintf(
					"record number %d out of sequence after %d", rh.RecordNumber, lastRecordNumber))
			}
			lastRecordNumber = rh.RecordNumber
			haveLast = true
		}

		if !rh.Info.HeaderType.IsTrailer() {
			positions = append(positions, recordPos{position: pos, lengthBytes: uint32(total), eventCount: rh.Entries})
		}

		pos += total
		if rh.Info.IsLastRecord {
			break
		}
	}

	return positions, nil
}

// initBuffer is NewFromBuffer's construction path. If buf begins with a
// valid file header (e.g. a Writer's buffer-target output), that header
// and its embedded user-header/trailer are stripped before the remaining
// record stream is normalized and scanned; otherwise buf is treated as a
// bare record stream starting at offset 0, per spec.md §4.11.
func (r *Reader) initBuffer(buf []byte) error {
	if len(buf) == 0 {
		return errs.ErrUnderflow
	}

	recordsStart := 0

	if fh, err := header.ReadFile(buf, 0); err == nil {
		recordsStart = header.SizeBytes + int(fh.IndexLengthBytes) + int(fh.UserHeaderLengthBytes)
		if fh.UserHeaderLengthBytes > 0 {
			if derr := r.extractDictionaryAndFirstEvent(buf, header.SizeBytes+int(fh.IndexLengthBytes)); derr != nil {
				return derr
			}
		}
	}
	if recordsStart >= len(buf) {
		return errs.ErrBadFormat
	}

	first, err := header.Read(buf, recordsStart)
	if err != nil {
		return err
	}
	r.order = first.ByteOrder
	r.version = first.Info.Version

	dataStart := recordsStart
	if recordsStart == 0 && (first.Info.HasDictionary || first.Info.HasFirstEvent) {
		if derr := r.extractDictionaryAndFirstEvent(buf, 0); derr != nil {
			return derr
		}
		dataStart = int(first.RecordLengthWords) * 4
	}

	bounds, err := r.scanPositions(buf, dataStart)
	if err != nil {
		return err
	}
	end := dataStart
	if len(bounds) > 0 {
		last := bounds[len(bounds)-1]
		end = last.position + int(last.lengthBytes)
	}

	normalized, err := normalizeBuffer(buf[dataStart:end], r.order)
	if err != nil {
		return err
	}
	r.buf = normalized

	positions, err := r.scanPositions(r.buf, 0)
	if err != nil {
		return err
	}
	r.records = positions
	r.buildCumulative()

	idx, err := scan.ScanBuffer(r.buf, 0, r.order)
	if err != nil {
		return err
	}
	r.idx = idx

	return nil
}

// extractDictionaryAndFirstEvent decodes the record at buf[pos:] and caches
// its dictionary XML (event 0, if the record's bit-info flags it) and
// first-event bytes (the following event, if flagged), per spec.md §4.11
// step 3.
func (r *Reader) extractDictionaryAndFirstEvent(buf []byte, pos int) error {
	in, err := record.Read(buf, pos)
	if err != nil {
		return err
	}

	i := 0
	if in.Header().Info.HasDictionary {
		b, everr := in.Event(i)
		if everr != nil {
			return everr
		}
		r.dictionaryXML = string(b)
		i++
	}
	if in.Header().Info.HasFirstEvent {
		b, everr := in.Event(i)
		if everr != nil {
			return everr
		}
		r.firstEvent = append([]byte(nil), b...)
	}

	return nil
}

func (r *Reader) buildCumulative() {
	r.cumulative = make([]int, len(r.records)+1)
	for i, rp := range r.records {
		r.cumulative[i+1] = r.cumulative[i] + int(rp.eventCount)
	}
}

func (r *Reader) totalEvents() int {
	if r.isLegacy {
		return len(r.legacyEvents)
	}
	if len(r.cumulative) == 0 {
		return 0
	}

	return r.cumulative[len(r.cumulative)-1]
}

// findRecordForEvent resolves 0-based global event index i to a (record
// index, local index within that record) pair via binary search over the
// cumulative event-count prefix sums.
func (r *Reader) findRecordForEvent(i int) (int, int, error) {
	if i < 0 || i >= r.totalEvents() {
		return 0, 0, errs.ErrIndexOutOfRange
	}
	ri := sort.Search(len(r.records), func(k int) bool { return r.cumulative[k+1] > i })

	return ri, i - r.cumulative[ri], nil
}

// fetchInput decodes (or returns the cached decode of) the record at
// r.records[ri], the one-record lookbehind cache original_source's Reader
// keeps for sequential access patterns.
func (r *Reader) fetchInput(ri int) (*record.Input, error) {
	if r.cachedInput != nil && r.cachedRecordIdx == ri {
		return r.cachedInput, nil
	}

	in, err := record.Read(r.buf, r.records[ri].position)
	if err != nil {
		return nil, err
	}
	r.cachedInput = in
	r.cachedRecordIdx = ri

	return in, nil
}

// EventCount returns the sum of per-record event counts.
func (r *Reader) EventCount() int { return r.totalEvents() }

// RecordCount returns the number of data records (or, in legacy mode, the
// number of distinct blocks data events were found in is not tracked; use
// EventCount instead).
func (r *Reader) RecordCount() int { return len(r.records) }

// Dictionary returns the cached XML dictionary string, or "" if none was
// present.
func (r *Reader) Dictionary() string { return r.dictionaryXML }

// FirstEvent returns the cached first-event bytes, or nil if none was
// present.
func (r *Reader) FirstEvent() []byte { return r.firstEvent }

// Warnings returns any non-fatal integrity warnings accumulated during
// construction (SPEC_FULL.md §7 resolution 1).
func (r *Reader) Warnings() []string { return r.warnings }

// IsFile reports whether this Reader was opened from a file.
func (r *Reader) IsFile() bool { return r.isFile }

// IsClosed reports whether Close has been called.
func (r *Reader) IsClosed() bool { return r.closed }

// FileName returns the path Open was called with, or "" for a buffer-backed
// Reader.
func (r *Reader) FileName() string { return r.fileName }

// FileSize returns the file's byte size, or 0 for a buffer-backed Reader.
func (r *Reader) FileSize() int64 { return r.fileSize }

// ByteOrder returns the byte order detected at construction.
func (r *Reader) ByteOrder() endian.EndianEngine { return r.order }

// Version returns the decoded header version.
func (r *Reader) Version() uint8 { return r.version }

// FileHeader returns the decoded file header, or nil for a buffer-backed or
// legacy-format Reader.
func (r *Reader) FileHeader() *header.File { return r.fileHeader }

// Bytes returns the Reader's backing bytes: the normalized record stream
// for a buffer-backed Reader (reflecting any edits applied so far), or the
// raw file bytes for a file-backed Reader.
func (r *Reader) Bytes() []byte { return r.buf }

// Event returns the 0-based i-th event's bytes (spec.md §4.11 "event(i),
// 0-based when in the v6 API"). The returned slice views the Reader's
// internal buffer and is invalidated by a later edit. Event also updates
// the sequential cursor so a subsequent NextEvent continues from i+1,
// letting random and sequential access interleave freely.
func (r *Reader) Event(i int) ([]byte, error) {
	ev, err := r.eventAt(i)
	if err != nil {
		return nil, err
	}

	r.seqCursor = i + 1

	return ev, nil
}

// eventAt reads the 0-based i-th event without touching the sequential
// cursor, so callers that land on a specific index (PreviousEvent) can set
// seqCursor to that index rather than to i+1.
func (r *Reader) eventAt(i int) ([]byte, error) {
	if r.closed {
		return nil, errs.ErrReaderNotReady
	}
	if r.isLegacy {
		return r.legacyEvent(i)
	}

	ri, local, err := r.findRecordForEvent(i)
	if err != nil {
		return nil, err
	}

	in, err := r.fetchInput(ri)
	if err != nil {
		return nil, err
	}

	return in.Event(local)
}

// EventOneBased is the legacy 1-based accessor spec.md §4.11 requires
// alongside the 0-based v6 Event.
func (r *Reader) EventOneBased(i int) ([]byte, error) {
	if i < 1 {
		return nil, errs.ErrIndexOutOfRange
	}

	return r.Event(i - 1)
}

// EventLength returns the byte length of the 0-based i-th event without
// copying it.
func (r *Reader) EventLength(i int) (int, error) {
	if r.closed {
		return 0, errs.ErrReaderNotReady
	}
	if r.isLegacy {
		if i < 0 || i >= len(r.legacyEvents) {
			return 0, errs.ErrIndexOutOfRange
		}

		return r.legacyEvents[i].length, nil
	}

	ri, local, err := r.findRecordForEvent(i)
	if err != nil {
		return 0, err
	}

	in, err := r.fetchInput(ri)
	if err != nil {
		return 0, err
	}

	return in.EventLength(local)
}

// GetEventInto copies the 0-based i-th event into out.
func (r *Reader) GetEventInto(i int, out []byte) (int, error) {
	if r.closed {
		return 0, errs.ErrReaderNotReady
	}
	if r.isLegacy {
		ev, err := r.legacyEvent(i)
		if err != nil {
			return 0, err
		}
		if len(out) < len(ev) {
			return 0, errs.ErrOverflow
		}

		return copy(out, ev), nil
	}

	ri, local, err := r.findRecordForEvent(i)
	if err != nil {
		return 0, err
	}

	in, err := r.fetchInput(ri)
	if err != nil {
		return 0, err
	}

	return in.GetEventInto(local, out)
}

// HasNext reports whether NextEvent would succeed.
func (r *Reader) HasNext() bool { return r.seqCursor < r.totalEvents() }

// NextEvent advances the sequential cursor and returns the event at its new
// position.
func (r *Reader) NextEvent() ([]byte, error) {
	if !r.HasNext() {
		return nil, errs.ErrIndexOutOfRange
	}

	return r.Event(r.seqCursor)
}

// HasPrevious reports whether PreviousEvent would succeed.
func (r *Reader) HasPrevious() bool { return r.seqCursor > 0 }

// PreviousEvent retreats the sequential cursor and returns the event at its
// new position. Unlike Event (which leaves the cursor at i+1 so NextEvent
// continues forward), PreviousEvent must leave the cursor at the index it
// just returned so successive calls walk backward: target, target-1,
// target-2, ... rather than getting reset forward by one on every call.
func (r *Reader) PreviousEvent() ([]byte, error) {
	if !r.HasPrevious() {
		return nil, errs.ErrIndexOutOfRange
	}

	target := r.seqCursor - 1

	ev, err := r.eventAt(target)
	if err != nil {
		return nil, err
	}

	r.seqCursor = target

	return ev, nil
}

// Close releases the Reader's resources. It is safe to call more than
// once.
func (r *Reader) Close() error {
	r.closed = true
	r.buf = nil
	r.cachedInput = nil

	return nil
}
