// Package composite implements the composite-data mini-format language: a
// format string such as "N(NS,F,D)" or "3C,3c,3S,3s,3I,3i,3L,3l" compiles
// into an instruction stream that a decoder walks alongside a byte stream
// to produce typed values, and an encoder walks in reverse to produce
// bytes. Composite data on the wire is always big-endian; this package's
// SwapAll is how a little-endian host makes it locally readable and back.
package composite

import (
	"strconv"
	"strings"

	"github.com/JeffersonLab/evio-sub004/errs"
	"github.com/JeffersonLab/evio-sub004/format"
)

// RepeatKind identifies where an Item's repeat count comes from.
type RepeatKind uint8

const (
	// RepeatLiteral uses Item.Count as a compile-time-fixed repeat count.
	RepeatLiteral RepeatKind = iota
	// RepeatN reads the next 32-bit int from the data stream as the count.
	RepeatN
	// RepeatSmallN reads the next 16-bit int from the data stream.
	RepeatSmallN
	// RepeatM reads the next 8-bit int from the data stream.
	RepeatM
)

// Item is one compiled element of a format string: either a primitive type
// repeated Count (or dynamically counted) times, or a parenthesized Group
// of sub-items repeated the same way.
type Item struct {
	Repeat RepeatKind
	Count  int // meaningful only when Repeat == RepeatLiteral
	Type   format.DataType
	Group  []Item // non-nil for a "(...)" sub-format
}

// typeLetters maps the format string's single-letter type codes to their
// DataType, grounded on the pairing visible in spec.md's own examples:
// 3C,3c,3S,3s,3I,3i,3L,3l walks CHAR8/UCHAR8, SHORT16/USHORT16,
// INT32/UINT32, LONG64/ULONG64 as uppercase/lowercase signed/unsigned
// pairs, and "N(NS,F,D)" establishes F/D as FLOAT32/DOUBLE64. Lowercase
// 'a' is the ascii-string element strings_to_format/string_to_raw_bytes
// need. Any letter outside this set is a reserved/ambiguous subtype
// (spec.md §9 Open Question 3) and is rejected at compile time.
var typeLetters = map[byte]format.DataType{
	'C': format.TypeInt8,
	'c': format.TypeUint8,
	'S': format.TypeInt16,
	's': format.TypeUint16,
	'I': format.TypeInt32,
	'i': format.TypeUint32,
	'L': format.TypeInt64,
	'l': format.TypeUint64,
	'F': format.TypeFloat32,
	'D': format.TypeDouble64,
	'a': format.TypeCharStar8,
}

// Compile parses a composite format string into an instruction stream.
func Compile(s string) ([]Item, error) {
	p := &parser{s: s}
	items, err := p.parseSequence()
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		return nil, errs.ErrBadFormat
	}

	return items, nil
}

type parser struct {
	s   string
	pos int
}

func (p *parser) atEnd() bool { return p.pos >= len(p.s) }

func (p *parser) peek() byte {
	if p.atEnd() {
		return 0
	}

	return p.s[p.pos]
}

// parseSequence parses a comma-separated list of items, stopping at ')' or
// end of string.
func (p *parser) parseSequence() ([]Item, error) {
	var items []Item
	for {
		// Allow an empty format string or a trailing comma-free group.
		if p.atEnd() || p.peek() == ')' {
			return items, nil
		}

		item, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)

		if p.atEnd() || p.peek() == ')' {
			return items, nil
		}
		if p.peek() != ',' {
			return nil, errs.ErrBadFormat
		}
		p.pos++ // consume ','
		if p.atEnd() || p.peek() == ')' {
			// A comma must be followed by another item.
			return nil, errs.ErrBadFormat
		}
	}
}

// parseItem parses one "[count](typeLetter|'(' sequence ')')" item.
func (p *parser) parseItem() (Item, error) {
	repeat, count, err := p.parseRepeatPrefix()
	if err != nil {
		return Item{}, err
	}

	if p.atEnd() {
		return Item{}, errs.ErrBadFormat
	}

	if p.peek() == '(' {
		p.pos++
		group, err := p.parseSequence()
		if err != nil {
			return Item{}, err
		}
		if p.atEnd() || p.peek() != ')' {
			return Item{}, errs.ErrBadFormat
		}
		p.pos++ // consume ')'

		return Item{Repeat: repeat, Count: count, Group: group}, nil
	}

	t, ok := typeLetters[p.peek()]
	if !ok {
		return Item{}, errs.ErrUnsupportedVersion
	}
	p.pos++

	return Item{Repeat: repeat, Count: count, Type: t}, nil
}

// parseRepeatPrefix consumes a leading digit run (a literal count) or a
// single N/n/m dynamic-count marker. Absence of any prefix means a literal
// count of 1.
func (p *parser) parseRepeatPrefix() (RepeatKind, int, error) {
	start := p.pos
	for !p.atEnd() && p.peek() >= '0' && p.peek() <= '9' {
		p.pos++
	}
	if p.pos > start {
		n, err := strconv.Atoi(p.s[start:p.pos])
		if err != nil || n <= 0 {
			return 0, 0, errs.ErrBadFormat
		}

		return RepeatLiteral, n, nil
	}

	switch p.peek() {
	case 'N':
		p.pos++
		return RepeatN, 0, nil
	case 'n':
		p.pos++
		return RepeatSmallN, 0, nil
	case 'm':
		p.pos++
		return RepeatM, 0, nil
	default:
		return RepeatLiteral, 1, nil
	}
}

// StringsToFormat builds a literal-count-driven sub-format that, used
// together with StringToRawBytes, round-trips an arbitrary list of ASCII
// strings (spec.md §4.4): the count is the byte length of the raw payload,
// so each byte is one 'a' element.
func StringsToFormat(strs []string) string {
	return strconv.Itoa(len(StringToRawBytes(strs))) + "a"
}

// StringToRawBytes concatenates strs NUL-separated, with a trailing NUL,
// matching the ascii-string payload convention StringsToFormat's format
// expects its decoder to walk over.
func StringToRawBytes(strs []string) []byte {
	joined := strings.Join(strs, "\x00")

	return append([]byte(joined), 0)
}
