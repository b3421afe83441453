// Package pool manages reusable byte buffers for record assembly and
// writer output, adapted from github.com/arloliu/mebo/internal/pool's
// blob-buffer pool. The growth strategy (linear below a threshold, 25%
// beyond it) and the sync.Pool-backed Get/Put pair are carried as-is;
// the default sizes and pool names are retargeted at evio records instead
// of mebo blobs, since a record's uncompressed event buffer is reused
// across RecordOutput.Reset() calls exactly as a mebo blob buffer is reused
// across Finish() calls.
package pool

import "sync"

// Default and maximum sizes for the record event-buffer pool. A single
// record rarely exceeds a few hundred KiB before a split or compression
// pass, so the default is sized for that common case.
const (
	RecordBufferDefaultSize  = 1024 * 16  // 16KiB
	RecordBufferMaxThreshold = 1024 * 512 // 512KiB

	// WriterBufferDefaultSize backs the Writer's pending output buffer,
	// which accumulates one or more built records before a flush.
	WriterBufferDefaultSize  = 1024 * 64
	WriterBufferMaxThreshold = 1024 * 1024 * 4
)

// Buffer is a growable byte slice wrapper with a geometric growth policy.
type Buffer struct {
	B []byte
}

// NewBuffer creates a Buffer with the given initial capacity.
func NewBuffer(defaultSize int) *Buffer {
	return &Buffer{B: make([]byte, 0, defaultSize)}
}

// Bytes returns the underlying slice.
func (b *Buffer) Bytes() []byte { return b.B }

// Len returns the number of bytes currently written.
func (b *Buffer) Len() int { return len(b.B) }

// Cap returns the buffer's current capacity.
func (b *Buffer) Cap() int { return cap(b.B) }

// Reset empties the buffer but retains its backing array.
func (b *Buffer) Reset() { b.B = b.B[:0] }

// Write appends data, growing the buffer as needed.
func (b *Buffer) Write(data []byte) (int, error) {
	b.Grow(len(data))
	b.B = append(b.B, data...)

	return len(data), nil
}

// Grow ensures the buffer can hold at least n more bytes without
// reallocating.
//
// Growth strategy:
//   - Up to a capacity of 4*RecordBufferDefaultSize, grow by
//     RecordBufferDefaultSize (writer-pool buffers included).
//   - Beyond that, grow by 25% of current capacity.
//   - Either way, grow by at least n if that is larger.
func (b *Buffer) Grow(n int) {
	if cap(b.B)-len(b.B) >= n {
		return
	}

	growBy := RecordBufferDefaultSize
	if cap(b.B) > 4*RecordBufferDefaultSize {
		growBy = cap(b.B) / 4
	}
	if growBy < n {
		growBy = n
	}

	next := make([]byte, len(b.B), len(b.B)+growBy)
	copy(next, b.B)
	b.B = next
}

// SetLength sets the buffer's logical length to n, which must not exceed
// its capacity.
func (b *Buffer) SetLength(n int) {
	if n < 0 || n > cap(b.B) {
		panic("pool: SetLength out of range")
	}
	b.B = b.B[:n]
}

// BufferPool pools Buffers of a given default size, discarding any buffer
// that has grown past maxThreshold rather than retaining it.
type BufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewBufferPool creates a pool whose buffers start at defaultSize and are
// discarded (not recycled) once they exceed maxThreshold bytes of capacity.
func NewBufferPool(defaultSize, maxThreshold int) *BufferPool {
	return &BufferPool{
		pool: sync.Pool{
			New: func() any { return NewBuffer(defaultSize) },
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a Buffer from the pool, creating one if none is available.
func (p *BufferPool) Get() *Buffer {
	buf, _ := p.pool.Get().(*Buffer)
	return buf
}

// Put returns a Buffer to the pool for reuse, or discards it if it has
// grown beyond the pool's threshold.
func (p *BufferPool) Put(buf *Buffer) {
	if buf == nil {
		return
	}
	if p.maxThreshold > 0 && buf.Cap() > p.maxThreshold {
		return
	}
	buf.Reset()
	p.pool.Put(buf)
}

var (
	recordPool = NewBufferPool(RecordBufferDefaultSize, RecordBufferMaxThreshold)
	writerPool = NewBufferPool(WriterBufferDefaultSize, WriterBufferMaxThreshold)
)

// GetRecordBuffer retrieves a Buffer from the default record-event pool.
func GetRecordBuffer() *Buffer { return recordPool.Get() }

// PutRecordBuffer returns a Buffer to the default record-event pool.
func PutRecordBuffer(buf *Buffer) { recordPool.Put(buf) }

// GetWriterBuffer retrieves a Buffer from the default writer-output pool.
func GetWriterBuffer() *Buffer { return writerPool.Get() }

// PutWriterBuffer returns a Buffer to the default writer-output pool.
func PutWriterBuffer(buf *Buffer) { writerPool.Put(buf) }
