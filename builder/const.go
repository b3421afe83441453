// Package builder implements CompactBuilder (component C9): a streaming,
// direct-to-cursor writer for evio structures, grounded on
// original_source/src/hipo/CompactEventBuilder.cpp (there is no Go analog
// for this component anywhere in the example pack, since it is a construct
// specific to the original C++ implementation's compact-write path).
package builder

// Header word layouts duplicated from structure/const.go: builder backfills
// header fields by absolute offset into an in-flight cursor rather than
// through a Node, so it cannot reuse structure's unexported constants
// (CompactEventBuilder.cpp independently hardcodes this same layout outside
// its parser counterpart for the identical reason).
const (
	bankTagShift  = 16
	bankTagMask   = 0xFFFF << bankTagShift
	bankPadShift  = 14
	bankPadMask   = 0x3 << bankPadShift
	bankTypeShift = 8
	bankTypeMask  = 0x3F << bankTypeShift
	bankNumMask   = 0xFF
)

const (
	segTagShift   = 24
	segTagMask    = 0xFF << segTagShift
	segPadShift   = 22
	segPadMask    = 0x3 << segPadShift
	segTypeShift  = 16
	segTypeMask   = 0x3F << segTypeShift
	segLengthMask = 0xFFFF
)

const (
	tsegTagShift   = 20
	tsegTagMask    = 0xFFF << tsegTagShift
	tsegTypeShift  = 16
	tsegTypeMask   = 0xF << tsegTypeShift
	tsegLengthMask = 0xFFFF
)

const (
	bankHeaderBytes    = 8
	segmentHeaderBytes = 4
	tagSegHeaderBytes  = 4
)

// MaxDepth bounds the open-structure stack (CompactEventBuilder.h's
// MAX_LEVELS), guarding against unbounded recursion from a misbehaving
// caller that never closes a structure.
const MaxDepth = 50
