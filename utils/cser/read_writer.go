// Package cser implements the compact split-stream serialization used for
// response bodies.
//
// Values are split over two streams: sizes and flags go to a bit stream,
// payload bytes go to a byte stream. Integers are stored little endian in
// the fewest bytes possible, and the decoder rejects anything that isn't
// minimal.
package cser

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/rony4d/go-bytecursor/utils/bits"
	"github.com/rony4d/go-bytecursor/utils/fast"
)

var (
	ErrNonCanonicalEncoding = errors.New("non canonical encoding")
	ErrMalformedEncoding    = errors.New("malformed encoding")
	ErrTooLargeAlloc        = errors.New("too large allocation")
)

// MaxAlloc bounds slice sizes accepted by callers that don't pass their own limit.
const MaxAlloc = 100 * 1024

// Writer produces the two streams.
type Writer struct {
	BitsW  *bits.Writer
	BytesW *fast.Writer
}

// Reader consumes the two streams. Reads panic on malformed input; use
// UnmarshalBinaryAdapter to turn those panics into errors.
type Reader struct {
	BitsR  *bits.Reader
	BytesR *fast.Reader
}

func NewWriter() *Writer {
	bbits := &bits.Array{Bytes: make([]byte, 0, 32)}
	bbytes := make([]byte, 0, 200)
	return &Writer{
		BitsW:  bits.NewWriter(bbits),
		BytesW: fast.NewWriter(bbytes),
	}
}

// writeUint64Compact writes v as a base-128 varint where a set high bit
// marks the LAST byte (the reverse of the usual convention).
func writeUint64Compact(bytesW *fast.Writer, v uint64) {
	for {
		chunk := byte(v & 0x7F)
		v >>= 7
		if v == 0 {
			bytesW.WriteByte(chunk | 0x80)
			return
		}
		bytesW.WriteByte(chunk)
	}
}

func readUint64Compact(bytesR *fast.Reader) uint64 {
	var v uint64
	for i := 0; ; i++ {
		c := bytesR.ReadByte()
		if c == fast.EOF || i > 9 {
			panic(ErrMalformedEncoding)
		}
		word := uint64(c & 0x7F)
		v |= word << uint(7*i)
		if c&0x80 != 0 {
			// a zero top group means the value was padded
			if i > 0 && word == 0 {
				panic(ErrNonCanonicalEncoding)
			}
			return v
		}
	}
}

// writeUint64BitCompact writes v little endian using at least minSize bytes
// and no more than needed. It returns the number of bytes written.
func writeUint64BitCompact(bytesW *fast.Writer, v uint64, minSize int) (size int) {
	for size < minSize || v != 0 {
		bytesW.WriteByte(byte(v))
		size++
		v >>= 8
	}
	return
}

func readUint64BitCompact(bytesR *fast.Reader, size int) uint64 {
	buf := bytesR.Next(size)
	var v uint64
	for i, b := range buf {
		v |= uint64(b) << uint(8*i)
	}
	if size > 1 && buf[size-1] == 0 {
		panic(ErrNonCanonicalEncoding)
	}
	return v
}

// readU64_bits reads an integer whose extra length (over minSize) is stored
// in bitsForSize bits of the bit stream.
func (r *Reader) readU64_bits(minSize int, bitsForSize int) uint64 {
	size := int(r.BitsR.Read(bitsForSize)) + minSize
	return readUint64BitCompact(r.BytesR, size)
}

func (w *Writer) writeU64_bits(minSize int, bitsForSize int, v uint64) {
	size := writeUint64BitCompact(w.BytesW, v, minSize)
	w.BitsW.Write(bitsForSize, uint(size-minSize))
}

func (w *Writer) U8(v uint8) {
	w.BytesW.WriteByte(v)
}

func (r *Reader) U8() uint8 {
	v := r.BytesR.ReadByte()
	if v == fast.EOF {
		panic(ErrMalformedEncoding)
	}
	return uint8(v)
}

func (w *Writer) U16(v uint16) {
	w.writeU64_bits(1, 1, uint64(v))
}

func (r *Reader) U16() uint16 {
	return uint16(r.readU64_bits(1, 1))
}

func (w *Writer) U32(v uint32) {
	w.writeU64_bits(1, 2, uint64(v))
}

func (r *Reader) U32() uint32 {
	return uint32(r.readU64_bits(1, 2))
}

func (w *Writer) U64(v uint64) {
	w.writeU64_bits(1, 3, v)
}

func (r *Reader) U64() uint64 {
	return r.readU64_bits(1, 3)
}

// VarUint is used for counts; it shares the U64 layout.
func (w *Writer) VarUint(v uint64) {
	w.writeU64_bits(1, 3, v)
}

func (r *Reader) VarUint() uint64 {
	return r.readU64_bits(1, 3)
}

// I64 is stored as a sign bit plus the magnitude as U64.
func (w *Writer) I64(v int64) {
	w.Bool(v < 0)
	if v < 0 {
		w.U64(uint64(-v))
	} else {
		w.U64(uint64(v))
	}
}

func (r *Reader) I64() int64 {
	neg := r.Bool()
	abs := r.U64()
	if neg && abs == 0 {
		panic(ErrNonCanonicalEncoding)
	}
	if neg {
		return -int64(abs)
	}
	return int64(abs)
}

// U56 is used for lengths. Zero takes no bytes at all.
func (w *Writer) U56(v uint64) {
	const max = 1<<(8*7) - 1
	if v > max {
		panic("Value too big")
	}
	w.writeU64_bits(0, 3, v)
}

func (r *Reader) U56() uint64 {
	return r.readU64_bits(0, 3)
}

func (w *Writer) Bool(v bool) {
	u := uint(0)
	if v {
		u = 1
	}
	w.BitsW.Write(1, u)
}

func (r *Reader) Bool() bool {
	return r.BitsR.Read(1) != 0
}

func (w *Writer) FixedBytes(v []byte) {
	w.BytesW.Write(v)
}

// FixedBytes fills v completely or panics.
func (r *Reader) FixedBytes(v []byte) {
	if len(v) == 0 {
		return
	}
	if n := r.BytesR.ReadInto(v, 0, len(v)); n != len(v) {
		panic(errors.Wrapf(ErrMalformedEncoding, "want %d bytes, got %d", len(v), n))
	}
}

// SliceBytes writes a U56 length followed by the bytes.
func (w *Writer) SliceBytes(v []byte) {
	w.U56(uint64(len(v)))
	w.FixedBytes(v)
}

func (r *Reader) SliceBytes(maxLen int) []byte {
	size := r.U56()
	if size > uint64(maxLen) {
		panic(ErrTooLargeAlloc)
	}
	if size > uint64(r.BytesR.Remaining()) {
		panic(ErrMalformedEncoding)
	}
	buf := make([]byte, size)
	r.FixedBytes(buf)
	return buf
}

func (w *Writer) String(v string) {
	w.SliceBytes([]byte(v))
}

func (r *Reader) String(maxLen int) string {
	return string(r.SliceBytes(maxLen))
}

// PaddedBytes left-pads b with zeros up to n bytes.
func PaddedBytes(b []byte, n int) []byte {
	if len(b) >= n {
		return b
	}
	padding := make([]byte, n-len(b))
	return append(padding, b...)
}

// BigInt stores the magnitude only; the sign is dropped.
func (w *Writer) BigInt(v *big.Int) {
	bigBytes := []byte{}
	if v.Sign() != 0 {
		bigBytes = v.Bytes()
	}
	w.SliceBytes(bigBytes)
}

func (r *Reader) BigInt() *big.Int {
	buf := r.SliceBytes(512)
	if len(buf) == 0 {
		return new(big.Int)
	}
	return new(big.Int).SetBytes(buf)
}
