package structure

import (
	"github.com/JeffersonLab/evio-sub004/bytesio"
	"github.com/JeffersonLab/evio-sub004/format"
)

// Write serializes n (header then payload) into cur at its current byte
// order, recursing into children for container nodes. It assumes
// propagateLength has already been run (LengthWords/Pad are current).
func (n *Node) Write(cur *bytesio.Cursor) error {
	switch n.Kind {
	case format.KindBank:
		return n.writeBank(cur)
	case format.KindSegment:
		return n.writeSegment(cur)
	default:
		return n.writeTagSegment(cur)
	}
}

func (n *Node) writeHeaderWord() uint32 {
	switch n.Kind {
	case format.KindBank:
		return (uint32(n.Tag)<<bankTagShift)&bankTagMask |
			(uint32(n.Pad)<<bankPadShift)&bankPadMask |
			(uint32(n.Type)<<bankTypeShift)&bankTypeMask |
			uint32(n.Num)&bankNumMask
	case format.KindSegment:
		return (uint32(n.Tag)<<segTagShift)&segTagMask |
			(uint32(n.Pad)<<segPadShift)&segPadMask |
			(uint32(n.Type)<<segTypeShift)&segTypeMask |
			n.LengthWords&segLengthMask
	default:
		return (uint32(n.Tag)<<tsegTagShift)&tsegTagMask |
			(uint32(n.Type)<<tsegTypeShift)&tsegTypeMask |
			n.LengthWords&tsegLengthMask
	}
}

func (n *Node) writeBank(cur *bytesio.Cursor) error {
	if err := cur.PutUint32(n.LengthWords); err != nil {
		return err
	}
	if err := cur.PutUint32(n.writeHeaderWord()); err != nil {
		return err
	}

	return n.writePayload(cur)
}

func (n *Node) writeSegment(cur *bytesio.Cursor) error {
	if err := cur.PutUint32(n.writeHeaderWord()); err != nil {
		return err
	}

	return n.writePayload(cur)
}

func (n *Node) writeTagSegment(cur *bytesio.Cursor) error {
	if err := cur.PutUint32(n.writeHeaderWord()); err != nil {
		return err
	}

	return n.writePayload(cur)
}

func (n *Node) writePayload(cur *bytesio.Cursor) error {
	if n.IsContainer() {
		for _, c := range n.Children {
			if err := c.Write(cur); err != nil {
				return err
			}
		}

		return nil
	}

	if err := n.writePrimitivePayload(cur); err != nil {
		return err
	}

	for i := uint8(0); i < n.Pad; i++ {
		if err := cur.PutUint8(0); err != nil {
			return err
		}
	}

	return nil
}

func (n *Node) writePrimitivePayload(cur *bytesio.Cursor) error {
	switch {
	case len(n.Ints) > 0:
		for _, v := range n.Ints {
			if err := cur.PutInt32(v); err != nil {
				return err
			}
		}
	case len(n.UInts) > 0:
		for _, v := range n.UInts {
			if err := cur.PutUint32(v); err != nil {
				return err
			}
		}
	case len(n.Shorts) > 0:
		for _, v := range n.Shorts {
			if err := cur.PutInt16(v); err != nil {
				return err
			}
		}
	case len(n.UShorts) > 0:
		for _, v := range n.UShorts {
			if err := cur.PutUint16(v); err != nil {
				return err
			}
		}
	case len(n.Longs) > 0:
		for _, v := range n.Longs {
			if err := cur.PutInt64(v); err != nil {
				return err
			}
		}
	case len(n.ULongs) > 0:
		for _, v := range n.ULongs {
			if err := cur.PutUint64(v); err != nil {
				return err
			}
		}
	case len(n.Bytes) > 0:
		for _, v := range n.Bytes {
			if err := cur.PutInt8(v); err != nil {
				return err
			}
		}
	case len(n.UBytes) > 0:
		for _, v := range n.UBytes {
			if err := cur.PutUint8(v); err != nil {
				return err
			}
		}
	case len(n.Floats) > 0:
		for _, v := range n.Floats {
			if err := cur.PutFloat32(v); err != nil {
				return err
			}
		}
	case len(n.Doubles) > 0:
		for _, v := range n.Doubles {
			if err := cur.PutFloat64(v); err != nil {
				return err
			}
		}
	case len(n.Strings) > 0:
		return cur.PutBytes(stringsRawBytes(n.Strings))
	case n.CompositeData != nil:
		return cur.PutBytes(n.CompositeData)
	}

	return nil
}
