// Package scan builds the flat, position-addressed NodeIndex described in
// spec.md §4.6: one Entry per structure, holding positions into the
// scanned record or file buffer plus header fields, used by reader.Reader
// for node access and in-place edits. Each event is parsed once with
// structure.ParseBank and the resulting Node tree (payload values
// included) is flattened into entries, so a scan allocates a temporary
// tree per event; the entries do not refer to it afterwards.
package scan

import (
	"github.com/JeffersonLab/evio-sub004/errs"
	"github.com/JeffersonLab/evio-sub004/format"
)

// Entry is one flat descriptor produced by a scan. Position/DataPosition are
// absolute byte offsets into the scanned buffer; ChildIndices/ParentIndex
// reference other entries in the same Index by slice position, not pointer,
// so the whole table can be copied or invalidated as a unit.
type Entry struct {
	Position        int
	LengthWords     uint32
	DataPosition    int
	DataLengthWords uint32
	Tag             uint16
	Num             uint8
	Type            format.DataType
	Pad             uint8
	Kind            format.Kind
	RecordPosition  int
	EventPlace      int
	ParentIndex     int // -1 for a top-level event
	ChildIndices    []int

	// NotEvio marks an event that failed bank validation; its only
	// trustworthy field is DataLengthWords, recovered from the record's
	// index array rather than from parsing (spec.md §4.6).
	NotEvio bool
}

// IsEventRoot reports whether e is a top-level event rather than a nested
// structure.
func (e Entry) IsEventRoot() bool { return e.ParentIndex == -1 }

// Index is the arena-style table a scan builds. Generation increments every
// time Invalidate is called, so EntryRef holders from before an edit can
// detect staleness (spec.md §4.11: edit operations "invalidate every
// previously returned node descriptor").
type Index struct {
	Entries    []Entry
	Generation uint64
}

// Invalidate bumps the generation counter, marking every EntryRef issued
// before this call stale.
func (idx *Index) Invalidate() { idx.Generation++ }

// EventRoots returns the indices of every top-level event entry, in scan
// order.
func (idx *Index) EventRoots() []int {
	roots := make([]int, 0)
	for i, e := range idx.Entries {
		if e.IsEventRoot() {
			roots = append(roots, i)
		}
	}

	return roots
}

// Children resolves e's ChildIndices into Entry values.
func (idx *Index) Children(e Entry) []Entry {
	out := make([]Entry, len(e.ChildIndices))
	for i, ci := range e.ChildIndices {
		out[i] = idx.Entries[ci]
	}

	return out
}

// EntryRef is a generation-checked handle to one Index entry. Readers hand
// these out instead of raw indices so a later edit's Invalidate call is
// visible to every previously issued reference.
type EntryRef struct {
	idx        *Index
	generation uint64
	entryIndex int
}

// Ref returns a generation-checked reference to idx.Entries[i].
func (idx *Index) Ref(i int) EntryRef {
	return EntryRef{idx: idx, generation: idx.Generation, entryIndex: i}
}

// Get dereferences r, failing with ErrStaleReference if idx has been
// invalidated since r was issued.
func (r EntryRef) Get() (*Entry, error) {
	if r.generation != r.idx.Generation {
		return nil, errs.ErrStaleReference
	}

	return &r.idx.Entries[r.entryIndex], nil
}
