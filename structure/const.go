// Package structure implements the owning structure tree (component C5):
// Bank/Segment/TagSegment nodes with typed payload slots, insert/append
// with length propagation, and header-aware serialize/parse.
package structure

// Bank header word 2 layout: tag(16) | pad(2) | type(6) | num(8), MSB first.
const (
	bankTagShift  = 16
	bankTagMask   = 0xFFFF << bankTagShift
	bankPadShift  = 14
	bankPadMask   = 0x3 << bankPadShift
	bankTypeShift = 8
	bankTypeMask  = 0x3F << bankTypeShift
	bankNumMask   = 0xFF
)

// Segment header word layout: tag(8) | pad(2) | type(6) | length(16).
const (
	segTagShift    = 24
	segTagMask     = 0xFF << segTagShift
	segPadShift    = 22
	segPadMask     = 0x3 << segPadShift
	segTypeShift   = 16
	segTypeMask    = 0x3F << segTypeShift
	segLengthMask  = 0xFFFF
)

// TagSegment header word layout: tag(12) | type(4) | length(16), no pad/num.
const (
	tsegTagShift   = 20
	tsegTagMask    = 0xFFF << tsegTagShift
	tsegTypeShift  = 16
	tsegTypeMask   = 0xF << tsegTypeShift
	tsegLengthMask = 0xFFFF
)

// BankHeaderBytes, SegmentHeaderBytes, TagSegmentHeaderBytes are the fixed
// header widths per structure kind (spec.md §3).
const (
	BankHeaderBytes       = 8
	SegmentHeaderBytes    = 4
	TagSegmentHeaderBytes = 4
)
