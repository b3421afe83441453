package reader_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JeffersonLab/evio-sub004/errs"
	"github.com/JeffersonLab/evio-sub004/reader"
	"github.com/JeffersonLab/evio-sub004/scan"
	"github.com/JeffersonLab/evio-sub004/writer"
)

// buildEvent constructs a minimal top-level bank holding words as its
// uint32 payload: word 0 is the bank's length in words (the length word
// itself excluded), word 1 packs tag (bits 16-31), pad (bits 14-15, always 0
// here), type (bits 8-13, TypeInt32 == 0x1), and num (bits 0-7).
func buildEvent(tag uint16, num uint8, words ...uint32) []byte {
	buf := make([]byte, 8+4*len(words))
	lengthWords := uint32(1 + len(words))
	binary.LittleEndian.PutUint32(buf[0:], lengthWords)

	const typeInt32 = 0x1
	word2 := uint32(tag)<<16 | typeInt32<<8 | uint32(num)
	binary.LittleEndian.PutUint32(buf[4:], word2)

	for i, w := range words {
		binary.LittleEndian.PutUint32(buf[8+4*i:], w)
	}

	return buf
}

func newBufferWriter(t *testing.T, opts ...writer.Option) *writer.Writer {
	t.Helper()

	allOpts := append([]writer.Option{writer.WithBufferTarget()}, opts...)
	w, err := writer.New(allOpts...)
	require.NoError(t, err)
	require.NoError(t, w.Open(""))

	return w
}

func TestReaderRoundTripBufferTargetWriter(t *testing.T) {
	w := newBufferWriter(t)

	e0 := buildEvent(1, 1, 0xAAAAAAAA)
	e1 := buildEvent(2, 2, 0xBBBBBBBB, 0xCCCCCCCC)
	require.NoError(t, w.Write(e0))
	require.NoError(t, w.Write(e1))
	require.NoError(t, w.Close())

	r, err := reader.NewFromBuffer(w.Bytes())
	require.NoError(t, err)

	assert.Equal(t, 2, r.EventCount())

	got0, err := r.Event(0)
	require.NoError(t, err)
	assert.Equal(t, e0, got0)

	got1, err := r.Event(1)
	require.NoError(t, err)
	assert.Equal(t, e1, got1)
}

func TestReaderRoundTripDictionaryAndFirstEvent(t *testing.T) {
	first := buildEvent(9, 9, 0xDEADBEEF)
	w := newBufferWriter(t,
		writer.WithDictionary("<dict/>"),
		writer.WithFirstEvent(first),
	)

	ev := buildEvent(3, 3, 0x11111111)
	require.NoError(t, w.Write(ev))
	require.NoError(t, w.Close())

	r, err := reader.NewFromBuffer(w.Bytes())
	require.NoError(t, err)

	assert.Equal(t, "<dict/>", r.Dictionary())
	assert.Equal(t, first, r.FirstEvent())
	assert.Equal(t, 1, r.EventCount())
}

func TestReaderSequentialAccessInterleavesWithRandom(t *testing.T) {
	w := newBufferWriter(t)
	events := [][]byte{
		buildEvent(1, 1, 1),
		buildEvent(1, 2, 2),
		buildEvent(1, 3, 3),
	}
	for _, e := range events {
		require.NoError(t, w.Write(e))
	}
	require.NoError(t, w.Close())

	r, err := reader.NewFromBuffer(w.Bytes())
	require.NoError(t, err)

	assert.True(t, r.HasNext())
	assert.False(t, r.HasPrevious())

	first, err := r.NextEvent()
	require.NoError(t, err)
	assert.Equal(t, events[0], first)

	// Random jump to event 2, then sequential should continue from 3.
	jumped, err := r.Event(2)
	require.NoError(t, err)
	assert.Equal(t, events[2], jumped)
	assert.False(t, r.HasNext())

	// PreviousEvent must walk backward (2 -> 1 -> 0) on repeated calls, not
	// keep returning event 2 forever.
	prev, err := r.PreviousEvent()
	require.NoError(t, err)
	assert.Equal(t, events[2], prev)

	prev, err = r.PreviousEvent()
	require.NoError(t, err)
	assert.Equal(t, events[1], prev)

	prev, err = r.PreviousEvent()
	require.NoError(t, err)
	assert.Equal(t, events[0], prev)

	assert.False(t, r.HasPrevious())
}

func TestReaderEventOneBased(t *testing.T) {
	w := newBufferWriter(t)
	ev := buildEvent(5, 5, 42)
	require.NoError(t, w.Write(ev))
	require.NoError(t, w.Close())

	r, err := reader.NewFromBuffer(w.Bytes())
	require.NoError(t, err)

	got, err := r.EventOneBased(1)
	require.NoError(t, err)
	assert.Equal(t, ev, got)

	_, err = r.EventOneBased(0)
	assert.ErrorIs(t, err, errs.ErrIndexOutOfRange)
}

func TestReaderGetEventIntoAndLength(t *testing.T) {
	w := newBufferWriter(t)
	ev := buildEvent(7, 7, 1, 2, 3)
	require.NoError(t, w.Write(ev))
	require.NoError(t, w.Close())

	r, err := reader.NewFromBuffer(w.Bytes())
	require.NoError(t, err)

	n, err := r.EventLength(0)
	require.NoError(t, err)
	assert.Equal(t, len(ev), n)

	out := make([]byte, len(ev))
	copied, err := r.GetEventInto(0, out)
	require.NoError(t, err)
	assert.Equal(t, len(ev), copied)
	assert.Equal(t, ev, out)
}

func TestReaderRemoveStructureDropsEventRoot(t *testing.T) {
	w := newBufferWriter(t)
	ev := buildEvent(1, 1, 0x1, 0x2)
	require.NoError(t, w.Write(ev))
	require.NoError(t, w.Close())

	r, err := reader.NewFromBuffer(w.Bytes())
	require.NoError(t, err)

	ref, err := r.GetEventNode(0)
	require.NoError(t, err)

	require.NoError(t, r.RemoveStructure(ref))

	_, err = ref.Get()
	assert.ErrorIs(t, err, errs.ErrStaleReference)

	assert.Equal(t, 0, r.EventCount())
}

func TestReaderAddStructureGrowsEventRoot(t *testing.T) {
	w := newBufferWriter(t)
	ev := buildEvent(1, 1, 0x1)
	require.NoError(t, w.Write(ev))
	require.NoError(t, w.Close())

	r, err := reader.NewFromBuffer(w.Bytes())
	require.NoError(t, err)

	lenBefore, err := r.EventLength(0)
	require.NoError(t, err)

	extra := []byte{0xAA, 0xBB, 0xCC, 0xDD}
	require.NoError(t, r.AddStructure(0, extra, r.ByteOrder()))

	lenAfter, err := r.EventLength(0)
	require.NoError(t, err)
	assert.Equal(t, lenBefore+len(extra), lenAfter)
}

func TestReaderEditRequiresBufferOnFileReader(t *testing.T) {
	path := t.TempDir() + "/round-trip.evio"

	w, err := writer.New()
	require.NoError(t, err)
	require.NoError(t, w.Open(path))
	require.NoError(t, w.Write(buildEvent(1, 1, 0x1)))
	require.NoError(t, w.Close())

	r, err := reader.Open(path)
	require.NoError(t, err)

	assert.True(t, r.IsFile())
	assert.Equal(t, 1, r.EventCount())

	_, err = r.GetEventNode(0)
	assert.ErrorIs(t, err, errs.ErrEditRequiresBuffer)

	err = r.RemoveStructure(scan.EntryRef{})
	assert.ErrorIs(t, err, errs.ErrEditRequiresBuffer)

	err = r.AddStructure(0, nil, r.ByteOrder())
	assert.ErrorIs(t, err, errs.ErrEditRequiresBuffer)
}

func TestReaderForceScanMatchesIndexedCounts(t *testing.T) {
	// A file-backed Reader resolves records from the trailer index unless
	// force-scanning; a buffer-backed Reader always scans.
	path := t.TempDir() + "/force-scan.evio"
	w, err := writer.New(writer.WithMaxRecordEvents(1))
	require.NoError(t, err)
	require.NoError(t, w.Open(path))
	e0 := buildEvent(1, 1, 1)
	e1 := buildEvent(1, 2, 2)
	require.NoError(t, w.Write(e0))
	require.NoError(t, w.Write(e1))
	require.NoError(t, w.Close())

	indexed, err := reader.Open(path)
	require.NoError(t, err)

	scanned, err := reader.Open(path, reader.WithForceScan(true))
	require.NoError(t, err)

	assert.Equal(t, indexed.EventCount(), scanned.EventCount())
	assert.Equal(t, indexed.RecordCount(), scanned.RecordCount())
}

func TestReaderEmptyBufferRejected(t *testing.T) {
	_, err := reader.NewFromBuffer(nil)
	assert.Error(t, err)
}

func TestReaderIndexOutOfRange(t *testing.T) {
	w := newBufferWriter(t)
	require.NoError(t, w.Write(buildEvent(1, 1, 1)))
	require.NoError(t, w.Close())

	r, err := reader.NewFromBuffer(w.Bytes())
	require.NoError(t, err)

	_, err = r.Event(5)
	assert.ErrorIs(t, err, errs.ErrIndexOutOfRange)
}
