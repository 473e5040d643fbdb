// Package wire frames query responses for transport and decodes them
// straight out of the receive buffer.
//
// A frame is
//
//	[kind:1][request id:4][body length:4][body]
//
// with integers in big endian. A response is a run of row frames closed by
// a single complete or error frame, all with the same request id.
package wire

import (
	"io"

	"github.com/Fantom-foundation/lachesis-base/common/bigendian"
	"github.com/pkg/errors"

	"github.com/rony4d/go-bytecursor/utils/fast"
)

// Kind identifies the frame type.
type Kind byte

const (
	KindRow      Kind = 'D'
	KindError    Kind = 'E'
	KindComplete Kind = 'C'
)

const (
	// HeaderSize is the fixed frame header length.
	HeaderSize = 9
	// MaxBodySize bounds a single frame body.
	MaxBodySize = 16 << 20
)

var (
	ErrTruncated    = errors.New("wire: truncated frame")
	ErrUnknownKind  = errors.New("wire: unknown frame kind")
	ErrBodyTooLarge = errors.New("wire: frame body too large")
)

func (k Kind) valid() bool {
	switch k {
	case KindRow, KindError, KindComplete:
		return true
	}
	return false
}

func (k Kind) String() string {
	switch k {
	case KindRow:
		return "row"
	case KindError:
		return "error"
	case KindComplete:
		return "complete"
	}
	return "unknown"
}

// Frame is a decoded frame. Body aliases the decoder's buffer.
type Frame struct {
	Kind      Kind
	RequestID uint32
	Body      []byte
}

// Decoder reads frames from a buffer filled by the caller. Like the
// underlying fast.Reader it must not be shared between goroutines.
//
// After an error the decoder position is unspecified; Reset starts over.
type Decoder struct {
	r   *fast.Reader
	hdr [HeaderSize]byte
}

// NewDecoder decodes frames from the whole of buf.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{r: fast.NewReader(buf)}
}

// NewDecoderLimit decodes frames from buf[:n], for receive buffers that are
// only partly filled.
func NewDecoderLimit(buf []byte, n int) *Decoder {
	return &Decoder{r: fast.NewReaderLimit(buf, n)}
}

// readHeader returns io.EOF if no bytes are left at all.
func (d *Decoder) readHeader() (Kind, uint32, int, error) {
	at := d.r.Position()
	n := d.r.ReadInto(d.hdr[:], 0, HeaderSize)
	if n == fast.EOF {
		return 0, 0, 0, io.EOF
	}
	if n < HeaderSize {
		return 0, 0, 0, errors.Wrapf(ErrTruncated, "header at %d: %d of %d bytes", at, n, HeaderSize)
	}
	kind := Kind(d.hdr[0])
	if !kind.valid() {
		return 0, 0, 0, errors.Wrapf(ErrUnknownKind, "0x%02x at %d", d.hdr[0], at)
	}
	size := bigendian.BytesToUint32(d.hdr[5:9])
	if size > MaxBodySize {
		return 0, 0, 0, errors.Wrapf(ErrBodyTooLarge, "%d bytes at %d", size, at)
	}
	return kind, bigendian.BytesToUint32(d.hdr[1:5]), int(size), nil
}

// Next returns the next frame, or io.EOF once the buffer is exhausted at a
// frame boundary.
func (d *Decoder) Next() (Frame, error) {
	kind, id, size, err := d.readHeader()
	if err != nil {
		return Frame{}, err
	}
	if size > d.r.Remaining() {
		return Frame{}, errors.Wrapf(ErrTruncated, "body wants %d bytes, %d left", size, d.r.Remaining())
	}
	return Frame{
		Kind:      kind,
		RequestID: id,
		Body:      d.r.Next(size),
	}, nil
}

// SkipFrames skips up to n frames without looking at their bodies. It
// returns the number skipped, which is less than n only at the end of the
// buffer or on error.
func (d *Decoder) SkipFrames(n int) (int, error) {
	for i := 0; i < n; i++ {
		_, _, size, err := d.readHeader()
		if err == io.EOF {
			return i, nil
		}
		if err != nil {
			return i, err
		}
		if skipped := d.r.Skip(int64(size)); skipped != int64(size) {
			return i, errors.Wrapf(ErrTruncated, "body wants %d bytes, %d left", size, skipped)
		}
	}
	return n, nil
}

// Position is the offset of the next unread byte.
func (d *Decoder) Position() int {
	return d.r.Position()
}

// Remaining is the number of unread bytes.
func (d *Decoder) Remaining() int {
	return d.r.Remaining()
}

// Reset rewinds to the first frame.
func (d *Decoder) Reset() {
	d.r.Reset()
}

// Data returns the valid part of the buffer, copied if the buffer extends
// past it.
func (d *Decoder) Data() []byte {
	return d.r.Trimmed()
}

// Encoder appends frames to a buffer.
type Encoder struct {
	w *fast.Writer
}

// NewEncoder appends to buf, which may be nil.
func NewEncoder(buf []byte) *Encoder {
	return &Encoder{w: fast.NewWriter(buf)}
}

// WriteFrame appends one frame. It panics if body exceeds MaxBodySize.
func (e *Encoder) WriteFrame(kind Kind, id uint32, body []byte) {
	if len(body) > MaxBodySize {
		panic(errors.Wrapf(ErrBodyTooLarge, "%d bytes", len(body)))
	}
	e.w.WriteByte(byte(kind))
	e.w.Write(bigendian.Uint32ToBytes(id))
	e.w.Write(bigendian.Uint32ToBytes(uint32(len(body))))
	e.w.Write(body)
}

// Bytes returns everything encoded so far.
func (e *Encoder) Bytes() []byte {
	return e.w.Bytes()
}

func (e *Encoder) Len() int {
	return e.w.Len()
}
