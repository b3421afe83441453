package builder

import (
	"github.com/JeffersonLab/evio-sub004/bytesio"
	"github.com/JeffersonLab/evio-sub004/endian"
	"github.com/JeffersonLab/evio-sub004/errs"
	"github.com/JeffersonLab/evio-sub004/format"
	"github.com/JeffersonLab/evio-sub004/structure"
)

// frame is one open structure on the builder's stack, mirroring
// CompactEventBuilder.cpp's StructureContext: the header's start offset (for
// the length/pad backfill on close), its declared kind/type/tag/num, a
// running total of words contributed by this structure and everything
// nested under it (totalWords, CompactEventBuilder's totalLengths[level]),
// the raw byte length of primitive data written so far (dataLen, used only
// to recompute pad on repeated add_*_data calls), the current pad, and
// whether a single-shot (string/composite) payload has already been
// written.
type frame struct {
	headerPos int
	kind      format.Kind
	dataType  format.DataType
	tag       uint16
	num       uint8

	totalWords uint32
	dataLen    int
	pad        uint8
	written    bool
}

// Builder streams structures directly into a cursor, backfilling each
// structure's length and pad fields when it closes (CompactEventBuilder).
type Builder struct {
	cur   *bytesio.Cursor
	order endian.EndianEngine
	stack []frame
}

// New returns a Builder writing into cur at cur's current byte order.
func New(cur *bytesio.Cursor) *Builder {
	return &Builder{cur: cur, order: cur.Order()}
}

// Depth reports the number of currently open structures.
func (b *Builder) Depth() int { return len(b.stack) }

// checkChildKind validates kind against the currently open frame's declared
// child type, if any; an empty stack (the event root) accepts any kind.
func (b *Builder) checkChildKind(kind format.Kind) error {
	if len(b.stack) == 0 {
		return nil
	}

	want := b.stack[len(b.stack)-1].dataType.Canonical()

	var ok bool
	switch kind {
	case format.KindBank:
		ok = want == format.TypeBank
	case format.KindSegment:
		ok = want == format.TypeSegment
	case format.KindTagSegment:
		ok = want == format.TypeTagSegment
	}
	if !ok {
		return errs.ErrTypeMismatch
	}

	return nil
}

// addToAllLengths adds words to the running total of the current structure
// and every open ancestor (CompactEventBuilder's addToAllLengths), the
// ancestor-backfill behavior spec.md §9 Open Question 2 requires.
func (b *Builder) addToAllLengths(words uint32) {
	for i := range b.stack {
		b.stack[i].totalWords += words
	}
}

// OpenBank writes a placeholder bank header and pushes a frame for it.
func (b *Builder) OpenBank(tag uint16, num uint8, dataType format.DataType) error {
	if err := b.checkChildKind(format.KindBank); err != nil {
		return err
	}
	if len(b.stack) >= MaxDepth {
		return errs.ErrDepthExceeded
	}

	pos := b.cur.Position()
	if err := b.cur.PutUint32(1); err != nil {
		return err
	}
	word2 := (uint32(tag)<<bankTagShift)&bankTagMask |
		(uint32(dataType)<<bankTypeShift)&bankTypeMask |
		uint32(num)&bankNumMask
	if err := b.cur.PutUint32(word2); err != nil {
		return err
	}

	b.stack = append(b.stack, frame{headerPos: pos, kind: format.KindBank, dataType: dataType, tag: tag, num: num})
	b.addToAllLengths(2)

	return nil
}

// OpenSegment writes a placeholder segment header and pushes a frame for it.
func (b *Builder) OpenSegment(tag uint16, dataType format.DataType) error {
	if err := b.checkChildKind(format.KindSegment); err != nil {
		return err
	}
	if len(b.stack) >= MaxDepth {
		return errs.ErrDepthExceeded
	}

	pos := b.cur.Position()
	word := (uint32(tag)<<segTagShift)&segTagMask | (uint32(dataType)<<segTypeShift)&segTypeMask
	if err := b.cur.PutUint32(word); err != nil {
		return err
	}

	b.stack = append(b.stack, frame{headerPos: pos, kind: format.KindSegment, dataType: dataType, tag: tag})
	b.addToAllLengths(1)

	return nil
}

// OpenTagSegment writes a placeholder tag-segment header and pushes a frame
// for it.
func (b *Builder) OpenTagSegment(tag uint16, dataType format.DataType) error {
	if err := b.checkChildKind(format.KindTagSegment); err != nil {
		return err
	}
	if len(b.stack) >= MaxDepth {
		return errs.ErrDepthExceeded
	}

	pos := b.cur.Position()
	word := (uint32(tag)<<tsegTagShift)&tsegTagMask | (uint32(dataType)<<tsegTypeShift)&tsegTypeMask
	if err := b.cur.PutUint32(word); err != nil {
		return err
	}

	b.stack = append(b.stack, frame{headerPos: pos, kind: format.KindTagSegment, dataType: dataType, tag: tag})
	b.addToAllLengths(1)

	return nil
}

// CloseStructure pops the top frame, backfilling its length (and, for
// Bank/Segment, pad bits) at the header offset recorded when it was opened.
// It is a no-op if nothing is open, matching CompactEventBuilder's
// closeStructure returning success immediately when currentLevel < 0.
func (b *Builder) CloseStructure() error {
	if len(b.stack) == 0 {
		return nil
	}

	f := b.stack[len(b.stack)-1]

	// totalWords counts this structure's own header plus everything
	// nested in it; subtracting 1 yields the header's length field for
	// every kind at once: Bank excludes only its own length word (one of
	// its two header words), while Segment/TagSegment's single header
	// word is entirely excluded from their data-only length field.
	length := f.totalWords - 1

	switch f.kind {
	case format.KindBank:
		if err := b.cur.PutUint32At(f.headerPos, length); err != nil {
			return err
		}
		word2 := (uint32(f.tag)<<bankTagShift)&bankTagMask |
			(uint32(f.pad)<<bankPadShift)&bankPadMask |
			(uint32(f.dataType)<<bankTypeShift)&bankTypeMask |
			uint32(f.num)&bankNumMask
		if err := b.cur.PutUint32At(f.headerPos+4, word2); err != nil {
			return err
		}
	case format.KindSegment:
		word := (uint32(f.tag)<<segTagShift)&segTagMask |
			(uint32(f.pad)<<segPadShift)&segPadMask |
			(uint32(f.dataType)<<segTypeShift)&segTypeMask |
			length&segLengthMask
		if err := b.cur.PutUint32At(f.headerPos, word); err != nil {
			return err
		}
	default:
		// TagSegment carries no pad bits in its header (spec.md §3);
		// its length field already implies any trailing data padding.
		word := (uint32(f.tag)<<tsegTagShift)&tsegTagMask |
			(uint32(f.dataType)<<tsegTypeShift)&tsegTypeMask |
			length&tsegLengthMask
		if err := b.cur.PutUint32At(f.headerPos, word); err != nil {
			return err
		}
	}

	b.stack = b.stack[:len(b.stack)-1]

	return nil
}

// CloseAll closes every open structure down to the root.
func (b *Builder) CloseAll() error {
	for len(b.stack) > 0 {
		if err := b.CloseStructure(); err != nil {
			return err
		}
	}

	return nil
}

// kindHeaderBytes returns the fixed header width for a parsed structure's
// kind, used by AddEvioNode to size the source region it copies or rewrites.
func kindHeaderBytes(k format.Kind) int {
	switch k {
	case format.KindBank:
		return bankHeaderBytes
	case format.KindSegment:
		return segmentHeaderBytes
	default:
		return tagSegHeaderBytes
	}
}

// AddEvioNode bulk-appends a structure already parsed from srcBuf at pos
// (srcOrder its byte order) as a child of the currently open frame. If
// srcOrder matches the builder's target order, the bytes are copied
// verbatim; otherwise every header in the copied subtree is rewritten into
// the target order while primitive payload bytes are copied unswapped,
// leaving a same-endian re-swap for a later consumer (spec.md §4.9).
func (b *Builder) AddEvioNode(srcBuf []byte, pos int, srcOrder endian.EndianEngine) error {
	if len(b.stack) == 0 {
		return errs.ErrTypeMismatch
	}

	childKind := childKindFor(b.stack[len(b.stack)-1].dataType.Canonical())
	if err := b.checkChildKind(childKind); err != nil {
		return err
	}

	var (
		n    *structure.Node
		used int
		err  error
	)
	switch childKind {
	case format.KindBank:
		n, used, err = structure.ParseBank(srcBuf, pos, srcOrder)
	case format.KindSegment:
		n, used, err = structure.ParseSegment(srcBuf, pos, srcOrder)
	default:
		n, used, err = structure.ParseTagSegment(srcBuf, pos, srcOrder)
	}
	if err != nil {
		return err
	}

	if srcOrder == b.order {
		if err := b.cur.PutBytes(srcBuf[pos : pos+used]); err != nil {
			return err
		}
	} else if err := b.rewriteNode(n, srcBuf, pos, kindHeaderBytes(childKind)); err != nil {
		return err
	}

	b.addToAllLengths(uint32(used) / 4)

	return nil
}

// rewriteNode writes n's header in the builder's target order, recursing
// into children by re-deriving each one's source byte offset (structure.Node
// carries no position of its own); leaf payload bytes are copied verbatim
// from srcBuf, deliberately left un-byte-swapped per spec.md §4.9.
func (b *Builder) rewriteNode(n *structure.Node, srcBuf []byte, srcPos, headerBytes int) error {
	if err := b.writeNodeHeader(n); err != nil {
		return err
	}

	if n.IsContainer() {
		childPos := srcPos + headerBytes
		for _, c := range n.Children {
			if err := b.rewriteNode(c, srcBuf, childPos, kindHeaderBytes(c.Kind)); err != nil {
				return err
			}
			childPos += nodeTotalBytes(c)
		}

		return nil
	}

	payloadStart := srcPos + headerBytes
	payloadLen := nodeTotalBytes(n) - headerBytes

	return b.cur.PutBytes(srcBuf[payloadStart : payloadStart+payloadLen])
}

// writeNodeHeader writes n's header word(s) at the builder's current
// position using its decoded Tag/Pad/Type/Num/LengthWords fields.
func (b *Builder) writeNodeHeader(n *structure.Node) error {
	switch n.Kind {
	case format.KindBank:
		if err := b.cur.PutUint32(n.LengthWords); err != nil {
			return err
		}
		word2 := (uint32(n.Tag)<<bankTagShift)&bankTagMask |
			(uint32(n.Pad)<<bankPadShift)&bankPadMask |
			(uint32(n.Type)<<bankTypeShift)&bankTypeMask |
			uint32(n.Num)&bankNumMask

		return b.cur.PutUint32(word2)
	case format.KindSegment:
		word := (uint32(n.Tag)<<segTagShift)&segTagMask |
			(uint32(n.Pad)<<segPadShift)&segPadMask |
			(uint32(n.Type)<<segTypeShift)&segTypeMask |
			n.LengthWords&segLengthMask

		return b.cur.PutUint32(word)
	default:
		word := (uint32(n.Tag)<<tsegTagShift)&tsegTagMask |
			(uint32(n.Type)<<tsegTypeShift)&tsegTypeMask |
			n.LengthWords&tsegLengthMask

		return b.cur.PutUint32(word)
	}
}

// nodeTotalBytes returns n's total byte footprint (header plus payload),
// the same 1+LengthWords-per-kind arithmetic used throughout this
// repository (structure.Node.dataWords, scan.totalBytes).
func nodeTotalBytes(n *structure.Node) int {
	switch n.Kind {
	case format.KindBank:
		// Matches structure.ParseBank: the length word itself plus
		// LengthWords more words (LengthWords already counts the tag/num
		// word and everything nested under it).
		return 4 + int(n.LengthWords)*4
	case format.KindSegment:
		return segmentHeaderBytes + int(n.LengthWords)*4
	default:
		return tagSegHeaderBytes + int(n.LengthWords)*4
	}
}

// childKindFor maps a container's declared data type to the structure kind
// its children must be.
func childKindFor(t format.DataType) format.Kind {
	switch t {
	case format.TypeSegment:
		return format.KindSegment
	case format.TypeTagSegment:
		return format.KindTagSegment
	default:
		return format.KindBank
	}
}
