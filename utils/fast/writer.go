package fast

// Writer is the append-only counterpart of Reader. Like Reader it is not
// safe for concurrent use.
type Writer struct {
	// buf is the accumulating byte slice.
	buf []byte
}

// NewWriter creates a Writer that appends to the provided initial slice.
// Often called with `make([]byte, 0, capacity)` to pre-allocate memory.
func NewWriter(bb []byte) *Writer {
	return &Writer{
		buf: bb,
	}
}

// WriteByte appends a single byte to the buffer.
func (b *Writer) WriteByte(v byte) {
	b.buf = append(b.buf, v)
}

// Write appends a slice of bytes (bulk write) to the buffer.
func (b *Writer) Write(v []byte) {
	b.buf = append(b.buf, v...)
}

// Len returns the number of bytes written so far.
func (b *Writer) Len() int {
	return len(b.buf)
}

// Reset truncates the buffer, keeping its capacity.
func (b *Writer) Reset() {
	b.buf = b.buf[:0]
}

// Bytes returns the accumulated content of the Writer.
func (b *Writer) Bytes() []byte {
	return b.buf
}
