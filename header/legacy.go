package header

import (
	"github.com/JeffersonLab/evio-sub004/endian"
	"github.com/JeffersonLab/evio-sub004/errs"
	"github.com/JeffersonLab/evio-sub004/format"
)

// LegacySizeWords is the size of a v1-v4 block header in 32-bit words
// (spec.md §6 "Legacy format").
const LegacySizeWords = 8
const LegacySizeBytes = LegacySizeWords * 4

// Legacy byte offsets within an 8-word block header.
const (
	legacyOffBlockSize   = 0
	legacyOffBlockNumber = 4
	legacyOffHeaderLen   = 8
	legacyOffEventCount  = 12
	legacyOffReserved1   = 16
	legacyOffBitInfoVer  = 20
	legacyOffReserved2   = 24
	legacyOffMagic       = 28
)

// Legacy bit-info bits (spec.md §6): bit 9 dictionary, bit 10 last block,
// bits 11-14 event type, bit 15 first-event.
const (
	legacyBitDictionary  = 1 << 9
	legacyBitLastBlock   = 1 << 10
	legacyBitFirstEvent  = 1 << 15
)

// Legacy is a decoded v1-v4 block header. Readers MUST parse these when
// version < 5 and expose events through the same API as v6 records
// (spec.md §6). This repository never writes this format (SPEC_FULL.md §7
// Open Question 4).
type Legacy struct {
	BlockSizeWords  uint32
	BlockNumber     uint32
	HeaderLenWords  uint32
	EventCount      uint32
	Version         uint8
	HasDictionary   bool
	IsLastBlock     bool
	EventType       format.EventType
	HasFirstEvent   bool
	ByteOrder       endian.EndianEngine
}

// ReadLegacy decodes an 8-word block header from buf[off:], autodetecting
// byte order from the magic word at legacyOffMagic.
func ReadLegacy(buf []byte, off int) (*Legacy, error) {
	if len(buf) < off+LegacySizeBytes {
		return nil, errs.ErrUnderflow
	}

	order, err := detectOrder(buf, off+legacyOffMagic)
	if err != nil {
		return nil, err
	}

	bitWord := order.Uint32(buf[off+legacyOffBitInfoVer:])

	l := &Legacy{
		BlockSizeWords: order.Uint32(buf[off+legacyOffBlockSize:]),
		BlockNumber:    order.Uint32(buf[off+legacyOffBlockNumber:]),
		HeaderLenWords: order.Uint32(buf[off+legacyOffHeaderLen:]),
		EventCount:     order.Uint32(buf[off+legacyOffEventCount:]),
		Version:        uint8(bitWord & bitVersionMask),
		HasDictionary:  bitWord&legacyBitDictionary != 0,
		IsLastBlock:    bitWord&legacyBitLastBlock != 0,
		EventType:      format.EventType((bitWord & bitEventTypeMask) >> bitEventTypeShift),
		HasFirstEvent:  bitWord&legacyBitFirstEvent != 0,
		ByteOrder:      order,
	}

	if l.Version == 0 || l.Version >= 5 {
		return nil, errs.ErrUnsupportedVersion
	}
	if l.HeaderLenWords < LegacySizeWords {
		return nil, errs.ErrBadFormat
	}

	return l, nil
}
