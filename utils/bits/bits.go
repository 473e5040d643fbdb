// Package bits packs small integers and flags into a byte slice at bit
// granularity, least significant bit first. It backs the side channel of
// the cser format.
package bits

import (
	"github.com/pkg/errors"
)

// ErrUnderflow is the panic value raised when reading more bits than remain.
var ErrUnderflow = errors.New("bits: read past end of stream")

type (
	// Array holds the packed stream.
	Array struct {
		Bytes []byte
	}

	// Writer appends bits to an Array.
	Writer struct {
		*Array
		bitOffset int // next free bit in the last byte, 0 means a new byte is needed
	}

	// Reader consumes bits from an Array.
	Reader struct {
		*Array
		byteOffset int
		bitOffset  int
	}
)

func NewWriter(arr *Array) *Writer {
	return &Writer{
		Array: arr,
	}
}

func NewReader(arr *Array) *Reader {
	return &Reader{
		Array: arr,
	}
}

// Write appends the lowest n bits of v. Higher bits of v are ignored.
func (w *Writer) Write(n int, v uint) {
	for n > 0 {
		if w.bitOffset == 0 {
			w.Bytes = append(w.Bytes, 0)
		}
		take := 8 - w.bitOffset
		if take > n {
			take = n
		}
		w.Bytes[len(w.Bytes)-1] |= byte((v & (1<<uint(take) - 1)) << uint(w.bitOffset))
		v >>= uint(take)
		n -= take
		w.bitOffset = (w.bitOffset + take) & 7
	}
}

// Read consumes n bits and returns them as an integer.
// It panics with ErrUnderflow, without consuming anything, if fewer than n
// bits remain.
func (r *Reader) Read(n int) (v uint) {
	if n > r.NonReadBits() {
		panic(errors.Wrapf(ErrUnderflow, "want %d bits, have %d", n, r.NonReadBits()))
	}
	shift := uint(0)
	for n > 0 {
		take := 8 - r.bitOffset
		if take > n {
			take = n
		}
		cur := uint(r.Bytes[r.byteOffset]) >> uint(r.bitOffset)
		v |= (cur & (1<<uint(take) - 1)) << shift
		shift += uint(take)
		n -= take
		r.bitOffset += take
		if r.bitOffset == 8 {
			r.bitOffset = 0
			r.byteOffset++
		}
	}
	return v
}

// View returns the next n bits without consuming them.
func (r *Reader) View(n int) uint {
	cp := *r
	return cp.Read(n)
}

// NonReadBytes returns the number of bytes not yet fully consumed.
func (r *Reader) NonReadBytes() int {
	return len(r.Bytes) - r.byteOffset
}

// NonReadBits returns the number of unread bits, including padding in the
// last byte.
func (r *Reader) NonReadBits() int {
	return r.NonReadBytes()*8 - r.bitOffset
}
