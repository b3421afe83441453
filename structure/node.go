package structure

import (
	"github.com/JeffersonLab/evio-sub004/errs"
	"github.com/JeffersonLab/evio-sub004/format"
)

// Node is one owned structure in the tree: a header plus exactly one
// populated payload slot (Children for container kinds, or one typed
// vector for a leaf). Tag/Num are stored at full width regardless of
// kind; Write truncates them to the kind's actual field width.
type Node struct {
	Kind format.Kind
	Tag  uint16
	Num  uint8
	Type format.DataType
	Pad  uint8

	// LengthWords is recomputed by recomputeLength after every structural
	// change; callers should not set it directly.
	LengthWords uint32

	Children []*Node

	Ints    []int32
	UInts   []uint32
	Shorts  []int16
	UShorts []uint16
	Longs   []int64
	ULongs  []uint64
	Bytes   []int8
	UBytes  []uint8
	Floats  []float32
	Doubles []float64
	Strings []string

	// CompositeFormat/CompositeData hold an already-encoded composite
	// payload (composite.Encode output) verbatim; this tree does not
	// re-interpret composite bytes itself (spec.md §4.5 keeps Composite
	// as one opaque typed vector).
	CompositeFormat string
	CompositeData   []byte

	parent *Node
}

// NewNode constructs a leaf or container Node. Callers populate exactly one
// of Children or a typed vector field after construction.
func NewNode(kind format.Kind, tag uint16, num uint8, dtype format.DataType) *Node {
	return &Node{Kind: kind, Tag: tag, Num: num, Type: dtype}
}

// Parent returns the node's parent, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// IsContainer reports whether n's declared type holds child structures.
func (n *Node) IsContainer() bool { return n.Type.Canonical().IsContainer() }

// Insert places child at position pos among n's children, failing with
// ErrTypeMismatch if n is not a container and ErrIndexOutOfRange if pos is
// out of bounds. On success, n's and every ancestor's LengthWords is
// recomputed.
func (n *Node) Insert(child *Node, pos int) error {
	if !n.IsContainer() {
		return errs.ErrTypeMismatch
	}
	if pos < 0 || pos > len(n.Children) {
		return errs.ErrIndexOutOfRange
	}

	n.Children = append(n.Children, nil)
	copy(n.Children[pos+1:], n.Children[pos:])
	n.Children[pos] = child
	child.parent = n

	// Recomputing from child rather than n also finalizes child's own
	// Pad/LengthWords, so callers need not call Recompute on a leaf before
	// attaching it.
	child.propagateLength()

	return nil
}

// Append inserts child at the end of n's children.
func (n *Node) Append(child *Node) error {
	return n.Insert(child, len(n.Children))
}

// Remove deletes the child at pos, failing with ErrIndexOutOfRange if out
// of bounds. The removed node's parent pointer is cleared.
func (n *Node) Remove(pos int) (*Node, error) {
	if !n.IsContainer() {
		return nil, errs.ErrTypeMismatch
	}
	if pos < 0 || pos >= len(n.Children) {
		return nil, errs.ErrIndexOutOfRange
	}

	removed := n.Children[pos]
	n.Children = append(n.Children[:pos], n.Children[pos+1:]...)
	removed.parent = nil

	n.propagateLength()

	return removed, nil
}

// Recompute recomputes n's own length/pad fields and those of every
// ancestor. Call it after directly assigning a leaf's typed payload slice
// (Insert/Remove call it automatically for structural changes).
func (n *Node) Recompute() { n.propagateLength() }

// propagateLength recomputes n's LengthWords and walks up through every
// ancestor doing the same, satisfying the "update every ancestor up to the
// record root" requirement (spec.md §9 Open Question 2 / §4.9 item 4).
func (n *Node) propagateLength() {
	for cur := n; cur != nil; cur = cur.parent {
		if !cur.IsContainer() {
			cur.Pad = uint8(PadForBytes(cur.payloadByteLen()))
		}
		cur.LengthWords = cur.recomputeLength()
	}
}

// recomputeLength computes the structure's length-in-words field (the
// value written into the header, which for Bank excludes only the length
// word itself and for Segment/TagSegment covers the data region only).
func (n *Node) recomputeLength() uint32 {
	dataWords := n.dataWords()

	switch n.Kind {
	case format.KindBank:
		// Excludes the length word itself but includes the tag/num word.
		return 1 + dataWords
	default:
		return dataWords
	}
}

// dataWords returns the word count of n's payload region only (children or
// primitive data, whichever is populated), including padding.
func (n *Node) dataWords() uint32 {
	if n.IsContainer() {
		var words uint32
		for _, c := range n.Children {
			// Every structure kind's own header word count plus its
			// length-words field sums to 1+LengthWords: Bank's LengthWords
			// already counts its tag/num word, Segment/TagSegment's single
			// header word is the "+1".
			words += 1 + c.recomputeLength()
		}

		return words
	}

	byteLen := n.payloadByteLen()

	return uint32(byteLen+PadForBytes(byteLen)) / 4
}

// payloadByteLen returns the unpadded byte length of n's primitive payload.
func (n *Node) payloadByteLen() int {
	switch {
	case len(n.Ints) > 0:
		return len(n.Ints) * 4
	case len(n.UInts) > 0:
		return len(n.UInts) * 4
	case len(n.Shorts) > 0:
		return len(n.Shorts) * 2
	case len(n.UShorts) > 0:
		return len(n.UShorts) * 2
	case len(n.Longs) > 0:
		return len(n.Longs) * 8
	case len(n.ULongs) > 0:
		return len(n.ULongs) * 8
	case len(n.Bytes) > 0:
		return len(n.Bytes)
	case len(n.UBytes) > 0:
		return len(n.UBytes)
	case len(n.Floats) > 0:
		return len(n.Floats) * 4
	case len(n.Doubles) > 0:
		return len(n.Doubles) * 8
	case len(n.Strings) > 0:
		return len(stringsRawBytes(n.Strings))
	case n.CompositeData != nil:
		return len(n.CompositeData)
	default:
		return 0
	}
}

// PadForBytes returns the padding needed to bring a payload up to a 4-byte
// boundary (spec.md §3 padding invariant). Expressed per element width the
// invariant reads as 8-bit data pads (4 - len%4) % 4 and 16-bit data pads
// 2*(count%2) with count = len/2; both reduce to the same byte-length
// formula below, which also correctly yields 0 for the 4- and 8-byte
// widths since their byteLen is already a multiple of 4.
func PadForBytes(byteLen int) int {
	return (4 - byteLen%4) % 4
}
