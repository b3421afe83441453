// Package bytesio implements Cursor, the positioned, length-bounded view
// over bytes that every other package in this repository reads and writes
// through (component C1). It plays the role github.com/arloliu/mebo's
// internal/pool.ByteBuffer plays for blob assembly, generalized with
// java.nio.ByteBuffer-style position/limit/mark semantics and endian-aware
// typed accessors, since unlike mebo's single fixed little-endian layout,
// evio data can be big- or little-endian per file.
package bytesio

import (
	"github.com/JeffersonLab/evio-sub004/endian"
	"github.com/JeffersonLab/evio-sub004/errs"
)

// Cursor is a positioned view over a byte slice with a configurable byte
// order. position <= limit <= capacity always holds.
//
// A Cursor is not safe for concurrent use; callers needing thread safety
// should serialize access externally (spec.md §5).
type Cursor struct {
	buf      []byte
	position int
	limit    int
	mark     int
	order    endian.EndianEngine
}

// NewCursor wraps buf for reading and writing, starting at position 0 with
// limit set to len(buf).
func NewCursor(buf []byte, order endian.EndianEngine) *Cursor {
	return &Cursor{buf: buf, limit: len(buf), mark: -1, order: order}
}

// NewCursorCapacity allocates a new zero-length buffer with the given
// capacity, useful for write cursors that will grow via Expand.
func NewCursorCapacity(capacity int, order endian.EndianEngine) *Cursor {
	return &Cursor{buf: make([]byte, 0, capacity), mark: -1, order: order}
}

// Order returns the cursor's current byte order.
func (c *Cursor) Order() endian.EndianEngine { return c.order }

// SetOrder changes the cursor's byte order for subsequent typed accesses.
func (c *Cursor) SetOrder(order endian.EndianEngine) { c.order = order }

// Position returns the current read/write position.
func (c *Cursor) Position() int { return c.position }

// Limit returns the current limit.
func (c *Cursor) Limit() int { return c.limit }

// Capacity returns the underlying buffer's capacity.
func (c *Cursor) Capacity() int { return cap(c.buf) }

// Bytes returns the backing slice in full (ignoring position/limit).
func (c *Cursor) Bytes() []byte { return c.buf }

// Remaining returns the number of bytes between position and limit.
func (c *Cursor) Remaining() int { return c.limit - c.position }

// SetPosition moves the position, failing with ErrIndexOutOfRange if it
// would exceed the limit.
func (c *Cursor) SetPosition(pos int) error {
	if pos < 0 || pos > c.limit {
		return errs.ErrIndexOutOfRange
	}
	c.position = pos

	return nil
}

// SetLimit changes the limit, failing with ErrIndexOutOfRange if it would
// exceed capacity. If position is left beyond the new limit, it is clamped.
func (c *Cursor) SetLimit(limit int) error {
	if limit < 0 || limit > cap(c.buf) {
		return errs.ErrIndexOutOfRange
	}
	c.limit = limit
	if c.position > limit {
		c.position = limit
	}

	return nil
}

// Mark saves the current position for a later Reset.
func (c *Cursor) Mark() { c.mark = c.position }

// Reset restores the position saved by the most recent Mark.
func (c *Cursor) Reset() {
	if c.mark >= 0 {
		c.position = c.mark
	}
}

// Flip sets the limit to the current position and rewinds position to 0,
// preparing a just-filled write cursor for reading.
func (c *Cursor) Flip() {
	c.limit = c.position
	c.position = 0
	c.mark = -1
}

// Clear resets position to 0 and limit to capacity, discarding no data.
func (c *Cursor) Clear() {
	c.position = 0
	c.limit = cap(c.buf)
	c.mark = -1
}

// Rewind resets position to 0 without touching the limit.
func (c *Cursor) Rewind() {
	c.position = 0
	c.mark = -1
}

// Compact discards the bytes before position, shifting the remaining
// [position, limit) down to [0, limit-position) and repositioning for
// further writes.
func (c *Cursor) Compact() {
	n := copy(c.buf[:cap(c.buf)], c.buf[c.position:c.limit])
	c.position = n
	c.limit = cap(c.buf)
	c.mark = -1
}

// Duplicate returns a new Cursor sharing the same underlying array with
// independent position/limit/mark state.
func (c *Cursor) Duplicate() *Cursor {
	return &Cursor{buf: c.buf, position: c.position, limit: c.limit, mark: -1, order: c.order}
}

// Expand grows the backing array to newCapacity, preserving existing
// content and the current position/limit. It is a no-op if the array
// already has sufficient capacity.
func (c *Cursor) Expand(newCapacity int) {
	if cap(c.buf) >= newCapacity {
		return
	}
	next := make([]byte, len(c.buf), newCapacity)
	copy(next, c.buf)
	c.buf = next
}

func (c *Cursor) ensureRead(n int) error {
	if c.position+n > c.limit {
		return errs.ErrUnderflow
	}

	return nil
}

func (c *Cursor) ensureWrite(n int) error {
	if c.position+n > c.limit {
		if c.position+n > cap(c.buf) {
			c.Expand(growTo(cap(c.buf), c.position+n))
			c.limit = cap(c.buf)
		} else {
			c.limit = c.position + n
		}
	}
	if len(c.buf) < c.position+n {
		c.buf = c.buf[:c.position+n]
	}

	return nil
}

func growTo(curCap, need int) int {
	next := curCap*2 + 64
	if next < need {
		next = need
	}

	return next
}

func (c *Cursor) checkAbs(pos, n int) error {
	if pos < 0 || pos+n > c.limit {
		return errs.ErrIndexOutOfRange
	}

	return nil
}

// --- relative typed reads ---

func (c *Cursor) GetUint8() (uint8, error) {
	if err := c.ensureRead(1); err != nil {
		return 0, err
	}
	v := c.buf[c.position]
	c.position++

	return v, nil
}

func (c *Cursor) GetInt8() (int8, error) {
	v, err := c.GetUint8()
	return int8(v), err
}

func (c *Cursor) GetUint16() (uint16, error) {
	if err := c.ensureRead(2); err != nil {
		return 0, err
	}
	v := c.order.Uint16(c.buf[c.position:])
	c.position += 2

	return v, nil
}

func (c *Cursor) GetInt16() (int16, error) {
	v, err := c.GetUint16()
	return int16(v), err
}

func (c *Cursor) GetUint32() (uint32, error) {
	if err := c.ensureRead(4); err != nil {
		return 0, err
	}
	v := c.order.Uint32(c.buf[c.position:])
	c.position += 4

	return v, nil
}

func (c *Cursor) GetInt32() (int32, error) {
	v, err := c.GetUint32()
	return int32(v), err
}

func (c *Cursor) GetUint64() (uint64, error) {
	if err := c.ensureRead(8); err != nil {
		return 0, err
	}
	v := c.order.Uint64(c.buf[c.position:])
	c.position += 8

	return v, nil
}

func (c *Cursor) GetInt64() (int64, error) {
	v, err := c.GetUint64()
	return int64(v), err
}

func (c *Cursor) GetFloat32() (float32, error) {
	v, err := c.GetUint32()
	return mathFloat32(v), err
}

func (c *Cursor) GetFloat64() (float64, error) {
	v, err := c.GetUint64()
	return mathFloat64(v), err
}

// GetBytes copies n bytes starting at the current position into a new
// slice and advances position by n.
func (c *Cursor) GetBytes(n int) ([]byte, error) {
	if err := c.ensureRead(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, c.buf[c.position:c.position+n])
	c.position += n

	return out, nil
}

// Slice returns a zero-copy view of the next n bytes and advances position
// by n. The returned slice aliases the cursor's backing array.
func (c *Cursor) Slice(n int) ([]byte, error) {
	if err := c.ensureRead(n); err != nil {
		return nil, err
	}
	out := c.buf[c.position : c.position+n]
	c.position += n

	return out, nil
}

// --- relative typed writes ---

func (c *Cursor) PutUint8(v uint8) error {
	if err := c.ensureWrite(1); err != nil {
		return err
	}
	c.buf[c.position] = v
	c.position++

	return nil
}

func (c *Cursor) PutInt8(v int8) error { return c.PutUint8(uint8(v)) }

func (c *Cursor) PutUint16(v uint16) error {
	if err := c.ensureWrite(2); err != nil {
		return err
	}
	c.order.PutUint16(c.buf[c.position:], v)
	c.position += 2

	return nil
}

func (c *Cursor) PutInt16(v int16) error { return c.PutUint16(uint16(v)) }

func (c *Cursor) PutUint32(v uint32) error {
	if err := c.ensureWrite(4); err != nil {
		return err
	}
	c.order.PutUint32(c.buf[c.position:], v)
	c.position += 4

	return nil
}

func (c *Cursor) PutInt32(v int32) error { return c.PutUint32(uint32(v)) }

func (c *Cursor) PutUint64(v uint64) error {
	if err := c.ensureWrite(8); err != nil {
		return err
	}
	c.order.PutUint64(c.buf[c.position:], v)
	c.position += 8

	return nil
}

func (c *Cursor) PutInt64(v int64) error { return c.PutUint64(uint64(v)) }

func (c *Cursor) PutFloat32(v float32) error { return c.PutUint32(mathBits32(v)) }

func (c *Cursor) PutFloat64(v float64) error { return c.PutUint64(mathBits64(v)) }

// PutBytes copies data into the cursor at the current position, growing as
// needed, and advances position by len(data).
func (c *Cursor) PutBytes(data []byte) error {
	if err := c.ensureWrite(len(data)); err != nil {
		return err
	}
	copy(c.buf[c.position:], data)
	c.position += len(data)

	return nil
}

// --- absolute accessors (do not move position) ---

func (c *Cursor) GetUint32At(pos int) (uint32, error) {
	if err := c.checkAbs(pos, 4); err != nil {
		return 0, err
	}

	return c.order.Uint32(c.buf[pos:]), nil
}

func (c *Cursor) PutUint32At(pos int, v uint32) error {
	if pos < 0 || pos+4 > cap(c.buf) {
		return errs.ErrIndexOutOfRange
	}
	if pos+4 > len(c.buf) {
		c.buf = c.buf[:pos+4]
	}
	c.order.PutUint32(c.buf[pos:], v)

	return nil
}

func (c *Cursor) GetUint16At(pos int) (uint16, error) {
	if err := c.checkAbs(pos, 2); err != nil {
		return 0, err
	}

	return c.order.Uint16(c.buf[pos:]), nil
}

func (c *Cursor) PutUint16At(pos int, v uint16) error {
	if pos < 0 || pos+2 > cap(c.buf) {
		return errs.ErrIndexOutOfRange
	}
	if pos+2 > len(c.buf) {
		c.buf = c.buf[:pos+2]
	}
	c.order.PutUint16(c.buf[pos:], v)

	return nil
}

func (c *Cursor) GetUint64At(pos int) (uint64, error) {
	if err := c.checkAbs(pos, 8); err != nil {
		return 0, err
	}

	return c.order.Uint64(c.buf[pos:]), nil
}

func (c *Cursor) PutUint64At(pos int, v uint64) error {
	if pos < 0 || pos+8 > cap(c.buf) {
		return errs.ErrIndexOutOfRange
	}
	if pos+8 > len(c.buf) {
		c.buf = c.buf[:pos+8]
	}
	c.order.PutUint64(c.buf[pos:], v)

	return nil
}

// GetBytesAt copies n bytes starting at pos without moving position.
func (c *Cursor) GetBytesAt(pos, n int) ([]byte, error) {
	if err := c.checkAbs(pos, n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, c.buf[pos:pos+n])

	return out, nil
}
