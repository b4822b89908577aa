package wire

import (
	"encoding/binary"
	"fmt"
	"math"
)

// nativeOrder is the byte order used for every primitive written to a
// Buffer. The cluster is assumed homogeneous, so this is fixed rather than
// negotiated per connection.
var nativeOrder = binary.NativeEndian

// Buffer is a growable byte buffer with an independent write-end and
// read-cursor. Appends happen at the write-end; reads consume from the
// cursor forward. A Buffer is the unit of a message's metadata or content
// frame; each message's meta frame and content frame is built from one.
//
// A zero-value Buffer is ready to use for writing. Buffers are not
// thread-safe; callers that share one across goroutines must hold an
// external lock.
type Buffer struct {
	data   []byte
	cursor int
}

// NewBuffer wraps an existing byte slice for reading, with the cursor at
// the start and the write-end at the slice's length. Used to decode an
// inbound frame that arrived as a length-prefixed []byte.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{data: data}
}

// Bytes returns the buffer's written content. The returned slice aliases
// the buffer's internal storage; callers must not retain it across further
// writes.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Len returns the number of bytes written so far (the write-end position).
func (b *Buffer) Len() int {
	return len(b.data)
}

// Cursor returns the current read position.
func (b *Buffer) Cursor() int {
	return b.cursor
}

// Reset clears both the write-end and the read-cursor, retaining the
// underlying storage for reuse.
func (b *Buffer) Reset() {
	b.data = b.data[:0]
	b.cursor = 0
}

// ResetCursor rewinds the read-cursor to the start without discarding the
// written content, allowing the same frame to be decoded more than once.
func (b *Buffer) ResetCursor() {
	b.cursor = 0
}

// ReadFinished reports whether the cursor has reached the write-end, i.e.
// whether every written byte has been consumed. A stream of values with no
// count prefix can be decoded by looping until this returns true.
func (b *Buffer) ReadFinished() bool {
	return b.cursor >= len(b.data)
}

func (b *Buffer) grow(n int) {
	b.data = append(b.data, make([]byte, n)...)
}

func (b *Buffer) checkRead(n int) {
	if b.cursor+n > len(b.data) {
		panic(fmt.Sprintf("wire: read past write-end: cursor=%d want=%d size=%d", b.cursor, n, len(b.data)))
	}
}

// PutUint32 appends a uint32 in native layout.
func (b *Buffer) PutUint32(v uint32) {
	off := len(b.data)
	b.grow(4)
	nativeOrder.PutUint32(b.data[off:], v)
}

// GetUint32 consumes a uint32 in native layout.
func (b *Buffer) GetUint32() uint32 {
	b.checkRead(4)
	v := nativeOrder.Uint32(b.data[b.cursor:])
	b.cursor += 4
	return v
}

// PutInt32 appends an int32 in native layout.
func (b *Buffer) PutInt32(v int32) {
	b.PutUint32(uint32(v))
}

// GetInt32 consumes an int32 in native layout.
func (b *Buffer) GetInt32() int32 {
	return int32(b.GetUint32())
}

// PutUint64 appends a uint64 in native layout.
func (b *Buffer) PutUint64(v uint64) {
	off := len(b.data)
	b.grow(8)
	nativeOrder.PutUint64(b.data[off:], v)
}

// GetUint64 consumes a uint64 in native layout.
func (b *Buffer) GetUint64() uint64 {
	b.checkRead(8)
	v := nativeOrder.Uint64(b.data[b.cursor:])
	b.cursor += 8
	return v
}

// PutInt64 appends an int64 in native layout.
func (b *Buffer) PutInt64(v int64) {
	b.PutUint64(uint64(v))
}

// GetInt64 consumes an int64 in native layout.
func (b *Buffer) GetInt64() int64 {
	return int64(b.GetUint64())
}

// PutFloat32 appends a float32 in native layout.
func (b *Buffer) PutFloat32(v float32) {
	b.PutUint32(math.Float32bits(v))
}

// GetFloat32 consumes a float32 in native layout.
func (b *Buffer) GetFloat32() float32 {
	return math.Float32frombits(b.GetUint32())
}

// PutFloat64 appends a float64 in native layout.
func (b *Buffer) PutFloat64(v float64) {
	b.PutUint64(math.Float64bits(v))
}

// GetFloat64 consumes a float64 in native layout.
func (b *Buffer) GetFloat64() float64 {
	return math.Float64frombits(b.GetUint64())
}

// PutBool appends a single byte, 1 for true and 0 for false.
func (b *Buffer) PutBool(v bool) {
	if v {
		b.data = append(b.data, 1)
	} else {
		b.data = append(b.data, 0)
	}
}

// GetBool consumes a single byte written by PutBool.
func (b *Buffer) GetBool() bool {
	b.checkRead(1)
	v := b.data[b.cursor] != 0
	b.cursor++
	return v
}
