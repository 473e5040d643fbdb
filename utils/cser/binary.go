package cser

import (
	"github.com/pkg/errors"

	"github.com/rony4d/go-bytecursor/utils/bits"
	"github.com/rony4d/go-bytecursor/utils/fast"
)

// Wire layout:
//
//	[body bytes][bit stream bytes][reversed compact varint of len(bit stream)]
//
// The trailing size is reversed so it can be decoded from the end of the
// buffer without knowing where the body stops.

// MarshalBinaryAdapter runs marshalCser against a fresh Writer and packs
// both streams into a single slice.
func MarshalBinaryAdapter(marshalCser func(*Writer) error) ([]byte, error) {
	w := NewWriter()
	if err := marshalCser(w); err != nil {
		return nil, err
	}
	return binaryFromCSER(w.BitsW.Array, w.BytesW.Bytes())
}

func binaryFromCSER(bbits *bits.Array, bbytes []byte) (raw []byte, err error) {
	body := fast.NewWriter(bbytes)
	body.Write(bbits.Bytes)

	size := fast.NewWriter(make([]byte, 0, 4))
	writeUint64Compact(size, uint64(len(bbits.Bytes)))
	body.Write(reversed(size.Bytes()))

	return body.Bytes(), nil
}

// binaryToCSER splits raw into the bit stream and a reader limited to the
// body. The body reader is bounded by its limit rather than by re-slicing
// raw, so the bit stream bytes that follow it are unreachable.
func binaryToCSER(raw []byte) (bbits *bits.Array, body *fast.Reader, err error) {
	suffix := fast.NewReader(reversed(tail(raw, 9)))
	bitsSize := readUint64Compact(suffix)

	rest := len(raw) - suffix.Position()
	if uint64(rest) < bitsSize {
		return nil, nil, ErrMalformedEncoding
	}
	bodyLen := rest - int(bitsSize)

	bbits = &bits.Array{Bytes: raw[bodyLen:rest]}
	body = fast.NewReaderLimit(raw, bodyLen)
	return bbits, body, nil
}

// UnmarshalBinaryAdapter splits raw, runs unmarshalCser over it and then
// requires that every byte and bit was consumed and that padding bits are
// zero.
//
// Panics raised by the primitive readers are converted to errors: known
// cser errors are returned as is, anything else as ErrMalformedEncoding.
func UnmarshalBinaryAdapter(raw []byte, unmarshalCser func(reader *Reader) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recoveredErr(r)
		}
	}()

	bbits, body, err := binaryToCSER(raw)
	if err != nil {
		return err
	}

	r := &Reader{
		BitsR:  bits.NewReader(bbits),
		BytesR: body,
	}
	if err = unmarshalCser(r); err != nil {
		return err
	}

	if r.BitsR.NonReadBytes() > 1 {
		return ErrNonCanonicalEncoding
	}
	if r.BitsR.Read(r.BitsR.NonReadBits()) != 0 {
		return ErrNonCanonicalEncoding
	}
	if !r.BytesR.Empty() {
		return ErrNonCanonicalEncoding
	}
	return nil
}

func recoveredErr(r interface{}) error {
	if e, ok := r.(error); ok {
		switch errors.Cause(e) {
		case ErrNonCanonicalEncoding, ErrTooLargeAlloc:
			return errors.Cause(e)
		}
	}
	return ErrMalformedEncoding
}

// tail returns the last n bytes of b, or b itself if shorter.
func tail(b []byte, n int) []byte {
	if len(b) > n {
		return b[len(b)-n:]
	}
	return b
}

func reversed(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}
