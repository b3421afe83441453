package structure

import (
	"github.com/JeffersonLab/evio-sub004/endian"
	"github.com/JeffersonLab/evio-sub004/errs"
	"github.com/JeffersonLab/evio-sub004/format"
)

// ParseBank reads an 8-byte bank header at buf[offset:] and recursively
// consumes its payload, returning the parsed node and the total number of
// bytes it and its payload occupy (spec.md §4.5 "parse_bank").
func ParseBank(buf []byte, offset int, order endian.EndianEngine) (*Node, int, error) {
	if offset+BankHeaderBytes > len(buf) {
		return nil, 0, errs.ErrUnderflow
	}

	length := order.Uint32(buf[offset:])
	word2 := order.Uint32(buf[offset+4:])

	n := &Node{
		Kind:        format.KindBank,
		Tag:         uint16((word2 & bankTagMask) >> bankTagShift),
		Pad:         uint8((word2 & bankPadMask) >> bankPadShift),
		Type:        format.DataType((word2 & bankTypeMask) >> bankTypeShift),
		Num:         uint8(word2 & bankNumMask),
		LengthWords: length,
	}

	total := 4 + int(length)*4
	if total < BankHeaderBytes || offset+total > len(buf) {
		return nil, 0, errs.ErrBadFormat
	}

	if err := n.parsePayload(buf, offset+BankHeaderBytes, total-BankHeaderBytes, order); err != nil {
		return nil, 0, err
	}

	return n, total, nil
}

// ParseSegment reads a 4-byte segment header at buf[offset:].
func ParseSegment(buf []byte, offset int, order endian.EndianEngine) (*Node, int, error) {
	if offset+SegmentHeaderBytes > len(buf) {
		return nil, 0, errs.ErrUnderflow
	}

	word := order.Uint32(buf[offset:])
	length := word & segLengthMask

	n := &Node{
		Kind:        format.KindSegment,
		Tag:         uint16((word & segTagMask) >> segTagShift),
		Pad:         uint8((word & segPadMask) >> segPadShift),
		Type:        format.DataType((word & segTypeMask) >> segTypeShift),
		LengthWords: length,
	}

	total := SegmentHeaderBytes + int(length)*4
	if offset+total > len(buf) {
		return nil, 0, errs.ErrBadFormat
	}

	if err := n.parsePayload(buf, offset+SegmentHeaderBytes, total-SegmentHeaderBytes, order); err != nil {
		return nil, 0, err
	}

	return n, total, nil
}

// ParseTagSegment reads a 4-byte tag-segment header at buf[offset:].
func ParseTagSegment(buf []byte, offset int, order endian.EndianEngine) (*Node, int, error) {
	if offset+TagSegmentHeaderBytes > len(buf) {
		return nil, 0, errs.ErrUnderflow
	}

	word := order.Uint32(buf[offset:])
	length := word & tsegLengthMask

	n := &Node{
		Kind:        format.KindTagSegment,
		Tag:         uint16((word & tsegTagMask) >> tsegTagShift),
		Type:        format.DataType((word & tsegTypeMask) >> tsegTypeShift),
		LengthWords: length,
	}

	total := TagSegmentHeaderBytes + int(length)*4
	if offset+total > len(buf) {
		return nil, 0, errs.ErrBadFormat
	}

	if err := n.parsePayload(buf, offset+TagSegmentHeaderBytes, total-TagSegmentHeaderBytes, order); err != nil {
		return nil, 0, err
	}

	return n, total, nil
}

// parsePayload fills n's Children or one typed vector from buf[start:start+length].
func (n *Node) parsePayload(buf []byte, start, length int, order endian.EndianEngine) error {
	if n.IsContainer() {
		return n.parseChildren(buf, start, length, order)
	}

	return n.parsePrimitive(buf, start, length, order)
}

func (n *Node) parseChildren(buf []byte, start, length int, order endian.EndianEngine) error {
	end := start + length
	pos := start
	childKind := n.Type.Canonical()

	for pos < end {
		var (
			child *Node
			used  int
			err   error
		)

		switch childKind {
		case format.TypeBank:
			child, used, err = ParseBank(buf, pos, order)
		case format.TypeSegment:
			child, used, err = ParseSegment(buf, pos, order)
		case format.TypeTagSegment:
			child, used, err = ParseTagSegment(buf, pos, order)
		default:
			return errs.ErrBadFormat
		}
		if err != nil {
			return err
		}
		if used <= 0 || pos+used > end {
			return errs.ErrBadFormat
		}

		child.parent = n
		n.Children = append(n.Children, child)
		pos += used
	}

	return nil
}

func (n *Node) parsePrimitive(buf []byte, start, length int, order endian.EndianEngine) error {
	end := start + length
	if end > len(buf) {
		return errs.ErrUnderflow
	}
	data := buf[start:end]

	usable := length - int(n.Pad)
	if usable < 0 {
		return errs.ErrBadFormat
	}

	switch n.Type.Canonical() {
	case format.TypeInt32:
		n.Ints = decodeInt32s(data[:usable], order)
	case format.TypeUint32, format.TypeUnknown32:
		n.UInts = decodeUint32s(data[:usable], order)
	case format.TypeInt16:
		n.Shorts = decodeInt16s(data[:usable], order)
	case format.TypeUint16:
		n.UShorts = decodeUint16s(data[:usable], order)
	case format.TypeInt64:
		n.Longs = decodeInt64s(data[:usable], order)
	case format.TypeUint64:
		n.ULongs = decodeUint64s(data[:usable], order)
	case format.TypeInt8:
		n.Bytes = decodeInt8s(data[:usable])
	case format.TypeUint8:
		n.UBytes = append([]uint8(nil), data[:usable]...)
	case format.TypeFloat32:
		n.Floats = decodeFloat32s(data[:usable], order)
	case format.TypeDouble64:
		n.Doubles = decodeFloat64s(data[:usable], order)
	case format.TypeCharStar8:
		n.Strings = splitRawStrings(data[:usable])
	case format.TypeComposite:
		n.CompositeData = append([]byte(nil), data[:usable]...)
	default:
		if n.Type.Canonical().IsReserved() {
			return errs.ErrUnsupportedVersion
		}
		n.CompositeData = append([]byte(nil), data[:usable]...)
	}

	return nil
}
