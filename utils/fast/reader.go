package fast

import (
	"io"

	"github.com/pkg/errors"
)

// Reader is a forward-only cursor over a caller-owned byte slice. It is
// unsynchronized; sharing one Reader between goroutines is a data race.

// EOF is returned by ReadByte and ReadInto once the cursor reaches the limit.
// It is an ordinary return value, not an error.
const EOF = -1

// ErrOutOfBounds is the panic value (wrapped) raised by ReadInto when the
// destination offset/length do not fit the destination slice.
var ErrOutOfBounds = errors.New("fast: destination offset/length out of bounds")

// Reader reads sequentially from buf[0:limit].
//
// The buffer is borrowed, never copied and never written. Bytes past limit
// may be garbage (e.g. the tail of a pooled network buffer) and are never
// returned by the read methods.
type Reader struct {
	// buf is the underlying data source.
	buf []byte
	// offset tracks the current reading position (cursor).
	offset int
	// limit is the logical end of valid data.
	limit int
}

// NewReader creates a Reader over the whole of bb.
func NewReader(bb []byte) *Reader {
	return &Reader{
		buf:   bb,
		limit: len(bb),
	}
}

// NewReaderLimit creates a Reader over the first n bytes of bb.
//
// The caller guarantees 0 <= n <= len(bb). It is not checked unless the
// package is built with the fastdebug tag.
func NewReaderLimit(bb []byte, n int) *Reader {
	assertLimit(bb, n)
	return &Reader{
		buf:   bb,
		limit: n,
	}
}

// ReadByte consumes a single byte and returns it widened to 0..255,
// or EOF if nothing is left.
func (b *Reader) ReadByte() int {
	if b.offset >= b.limit {
		return EOF
	}
	v := b.buf[b.offset]
	b.offset++
	return int(v)
}

// ReadInto copies up to n bytes into dst[off:off+n] and returns the number
// copied, or EOF if the reader is exhausted.
//
// A request for more than Remaining() bytes is clamped. An off/n pair that
// doesn't fit dst is a programming error and panics regardless of the
// reader state.
func (b *Reader) ReadInto(dst []byte, off, n int) int {
	if off < 0 || n < 0 || n > len(dst)-off {
		panic(errors.Wrapf(ErrOutOfBounds, "off=%d n=%d len=%d", off, n, len(dst)))
	}
	if b.offset >= b.limit {
		return EOF
	}
	if avail := b.limit - b.offset; n > avail {
		n = avail
	}
	if n <= 0 {
		return 0
	}
	copy(dst[off:off+n], b.buf[b.offset:b.offset+n])
	b.offset += n
	return n
}

// Skip advances the cursor by n bytes and returns how many were skipped.
// n is clamped to Remaining(), so large counts saturate at the limit.
// A negative n is a no-op that returns 0.
func (b *Reader) Skip(n int64) int64 {
	if avail := int64(b.limit - b.offset); n > avail {
		n = avail
	}
	if n < 0 {
		return 0
	}
	b.offset += int(n)
	return n
}

// Next consumes and returns the next n bytes as a view into the buffer.
//
// Unlike ReadInto it doesn't clamp: asking for more than Remaining() bytes
// panics. Decoders that trust their framing (and recover) use it to avoid
// a copy. The returned slice shares memory with the buffer.
func (b *Reader) Next(n int) []byte {
	if n > b.limit-b.offset {
		panic(errors.Wrapf(io.ErrUnexpectedEOF, "fast: next %d bytes, %d remaining", n, b.limit-b.offset))
	}
	end := b.offset + n
	res := b.buf[b.offset:end:end]
	b.offset = end
	return res
}

// Remaining returns the number of unread bytes.
func (b *Reader) Remaining() int {
	return b.limit - b.offset
}

// Empty reports whether the cursor has reached the limit.
func (b *Reader) Empty() bool {
	return b.offset == b.limit
}

// Reset rewinds the cursor to the start. There is no mark: Reset always
// goes back to position 0.
func (b *Reader) Reset() {
	b.offset = 0
}

// Position returns the current cursor index of the Reader.
func (b *Reader) Position() int {
	return b.offset
}

// Limit returns the logical end of the data.
func (b *Reader) Limit() int {
	return b.limit
}

// Bytes returns the entire underlying buffer, including anything past Limit().
func (b *Reader) Bytes() []byte {
	return b.buf
}

// Trimmed returns exactly the first Limit() bytes of the buffer.
//
// If the buffer is longer than the limit a fresh copy is returned, so stale
// bytes past the limit never leak and later reuse of the buffer can't change
// the result. Otherwise the buffer itself is returned without copying.
func (b *Reader) Trimmed() []byte {
	if len(b.buf) > b.limit {
		out := make([]byte, b.limit)
		copy(out, b.buf[:b.limit])
		return out
	}
	return b.buf
}
