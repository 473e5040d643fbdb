package wire

import (
	"io"

	"github.com/Fantom-foundation/lachesis-base/hash"
	"github.com/pkg/errors"
)

var (
	ErrIncomplete      = errors.New("wire: response not terminated")
	ErrRequestMismatch = errors.New("wire: frame for another request")
	ErrRowCount        = errors.New("wire: row count mismatch")
	ErrDigest          = errors.New("wire: digest mismatch")
)

// Response is a fully decoded, verified response.
type Response struct {
	RequestID uint32
	Rows      [][][]byte
	Digest    hash.Hash
}

// ReadResponse decodes the first response held in buf[:n].
func ReadResponse(buf []byte, n int) (*Response, error) {
	return NewDecoderLimit(buf, n).ReadResponse()
}

// ReadResponse decodes the next response. It returns io.EOF if the buffer
// is exhausted before the first frame, and a *ServerError if the server
// terminated the response with an error frame.
func (d *Decoder) ReadResponse() (*Response, error) {
	var (
		resp   *Response
		bodies [][]byte
	)
	for {
		f, err := d.Next()
		if err == io.EOF {
			if resp == nil {
				return nil, io.EOF
			}
			return nil, errors.Wrapf(ErrIncomplete, "request %d after %d rows", resp.RequestID, len(resp.Rows))
		}
		if err != nil {
			return nil, err
		}

		if resp == nil {
			resp = &Response{RequestID: f.RequestID}
		} else if f.RequestID != resp.RequestID {
			return nil, errors.Wrapf(ErrRequestMismatch, "want %d, got %d", resp.RequestID, f.RequestID)
		}

		switch f.Kind {
		case KindRow:
			cols, err := DecodeRow(f.Body)
			if err != nil {
				return nil, errors.Wrapf(err, "request %d row %d", resp.RequestID, len(resp.Rows))
			}
			resp.Rows = append(resp.Rows, cols)
			bodies = append(bodies, f.Body)

		case KindError:
			serr, err := decodeError(f.RequestID, f.Body)
			if err != nil {
				return nil, errors.Wrapf(err, "request %d error frame", resp.RequestID)
			}
			return nil, serr

		case KindComplete:
			sum, err := decodeSummary(f.Body)
			if err != nil {
				return nil, errors.Wrapf(err, "request %d complete frame", resp.RequestID)
			}
			if sum.Rows != uint64(len(resp.Rows)) {
				return nil, errors.Wrapf(ErrRowCount, "request %d: declared %d, got %d", resp.RequestID, sum.Rows, len(resp.Rows))
			}
			if got := hash.Of(bodies...); got != sum.Digest {
				return nil, errors.Wrapf(ErrDigest, "request %d: declared %s, got %s", resp.RequestID, sum.Digest.Hex(), got.Hex())
			}
			resp.Digest = sum.Digest
			return resp, nil
		}
	}
}

// WriteResponse encodes rows as a complete response for request id.
func (e *Encoder) WriteResponse(id uint32, rows [][][]byte) error {
	bodies := make([][]byte, 0, len(rows))
	for i, cols := range rows {
		body, err := EncodeRow(cols)
		if err != nil {
			return errors.Wrapf(err, "encode row %d", i)
		}
		e.WriteFrame(KindRow, id, body)
		bodies = append(bodies, body)
	}
	body, err := encodeSummary(Summary{
		Rows:   uint64(len(rows)),
		Digest: hash.Of(bodies...),
	})
	if err != nil {
		return err
	}
	e.WriteFrame(KindComplete, id, body)
	return nil
}

// WriteError encodes an error frame terminating request id.
func (e *Encoder) WriteError(id uint32, code uint32, msg string) error {
	body, err := encodeError(code, msg)
	if err != nil {
		return err
	}
	e.WriteFrame(KindError, id, body)
	return nil
}
