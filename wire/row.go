package wire

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/rony4d/go-bytecursor/utils/fast"
)

// ErrTrailingData is returned when a row body has bytes after its RLP list.
var ErrTrailingData = errors.New("wire: trailing data after row")

// EncodeRow encodes row columns as an RLP list of byte strings.
func EncodeRow(cols [][]byte) ([]byte, error) {
	return rlp.EncodeToBytes(cols)
}

// DecodeRow decodes a row body. The returned columns are fresh copies and
// don't alias body.
func DecodeRow(body []byte) ([][]byte, error) {
	r := fast.NewReader(body)
	s := rlp.NewStream(r.Stream(), uint64(len(body)))

	var cols [][]byte
	if err := s.Decode(&cols); err != nil {
		return nil, errors.Wrap(err, "wire: decode row")
	}
	if !r.Empty() {
		return nil, errors.Wrapf(ErrTrailingData, "%d bytes", r.Remaining())
	}
	return cols, nil
}
