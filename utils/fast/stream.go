package fast

import (
	"io"
)

// Stream exposes a Reader through the standard io interfaces.
//
// It shares the cursor with the Reader it was created from, so reads through
// either advance both. Exhaustion is reported as io.EOF instead of the EOF
// sentinel.
type Stream struct {
	r *Reader
}

var (
	_ io.Reader     = (*Stream)(nil)
	_ io.ByteReader = (*Stream)(nil)
	_ io.WriterTo   = (*Stream)(nil)
)

// Stream returns an io adapter bound to b.
func (b *Reader) Stream() *Stream {
	return &Stream{r: b}
}

func (s *Stream) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n := s.r.ReadInto(p, 0, len(p))
	if n == EOF {
		return 0, io.EOF
	}
	return n, nil
}

func (s *Stream) ReadByte() (byte, error) {
	v := s.r.ReadByte()
	if v == EOF {
		return 0, io.EOF
	}
	return byte(v), nil
}

// WriteTo writes all remaining bytes to w and advances past what was written.
func (s *Stream) WriteTo(w io.Writer) (int64, error) {
	r := s.r
	if r.Empty() {
		return 0, nil
	}
	n, err := w.Write(r.buf[r.offset:r.limit])
	if n > r.Remaining() {
		panic("fast: invalid Write count")
	}
	r.offset += n
	if err == nil && r.offset != r.limit {
		err = io.ErrShortWrite
	}
	return int64(n), err
}
