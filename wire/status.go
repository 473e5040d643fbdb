package wire

import (
	"fmt"

	"github.com/Fantom-foundation/lachesis-base/hash"

	"github.com/rony4d/go-bytecursor/utils/cser"
)

// MaxMessageSize bounds the text of an error frame.
const MaxMessageSize = 4096

// ServerError is the content of an error frame.
type ServerError struct {
	RequestID uint32
	Code      uint32
	Message   string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("wire: request %d failed with code %d: %s", e.RequestID, e.Code, e.Message)
}

// Summary is the content of a complete frame.
type Summary struct {
	Rows uint64
	// Digest is hash.Of over every row body of the response, in order.
	Digest hash.Hash
}

func encodeError(code uint32, msg string) ([]byte, error) {
	return cser.MarshalBinaryAdapter(func(w *cser.Writer) error {
		w.U32(code)
		w.String(msg)
		return nil
	})
}

func decodeError(id uint32, body []byte) (*ServerError, error) {
	e := &ServerError{RequestID: id}
	err := cser.UnmarshalBinaryAdapter(body, func(r *cser.Reader) error {
		e.Code = r.U32()
		e.Message = r.String(MaxMessageSize)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

func encodeSummary(s Summary) ([]byte, error) {
	return cser.MarshalBinaryAdapter(func(w *cser.Writer) error {
		w.U64(s.Rows)
		w.FixedBytes(s.Digest.Bytes())
		return nil
	})
}

func decodeSummary(body []byte) (Summary, error) {
	var s Summary
	err := cser.UnmarshalBinaryAdapter(body, func(r *cser.Reader) error {
		s.Rows = r.U64()
		r.FixedBytes(s.Digest[:])
		return nil
	})
	return s, err
}
