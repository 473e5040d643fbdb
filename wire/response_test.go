package wire

import (
	"io"
	"testing"

	"github.com/Fantom-foundation/lachesis-base/hash"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

var testRows = [][][]byte{
	{[]byte("1"), []byte("alice")},
	{[]byte("2"), []byte("bob")},
	{[]byte("3"), []byte{0x00, 0xFF}},
}

func TestResponse_RoundTrip(t *testing.T) {
	e := NewEncoder(nil)
	require.NoError(t, e.WriteResponse(42, testRows))
	require.NoError(t, e.WriteResponse(43, nil))

	d := NewDecoder(e.Bytes())
	resp, err := d.ReadResponse()
	require.NoError(t, err)
	require.Equal(t, uint32(42), resp.RequestID)
	require.Equal(t, testRows, resp.Rows)
	require.NotEqual(t, hash.Hash{}, resp.Digest)

	resp, err = d.ReadResponse()
	require.NoError(t, err)
	require.Equal(t, uint32(43), resp.RequestID)
	require.Empty(t, resp.Rows)
	require.Equal(t, hash.Of(), resp.Digest)

	_, err = d.ReadResponse()
	require.Equal(t, io.EOF, err)
}

func TestReadResponse_PartialBuffer(t *testing.T) {
	e := NewEncoder(nil)
	require.NoError(t, e.WriteResponse(1, testRows))

	buf := make([]byte, e.Len()+100)
	copy(buf, e.Bytes())

	resp, err := ReadResponse(buf, e.Len())
	require.NoError(t, err)
	require.Len(t, resp.Rows, len(testRows))

	_, err = ReadResponse(buf, e.Len()-1)
	require.Equal(t, ErrTruncated, errors.Cause(err))

	// cut cleanly after the first row frame
	_, err = ReadResponse(buf, HeaderSize+len(mustRow(t, testRows[0])))
	require.Equal(t, ErrIncomplete, errors.Cause(err))
}

func TestReadResponse_ServerError(t *testing.T) {
	e := NewEncoder(nil)
	e.WriteFrame(KindRow, 5, mustRow(t, testRows[0]))
	require.NoError(t, e.WriteError(5, 1064, "syntax error near 'FORM'"))

	_, err := ReadResponse(e.Bytes(), e.Len())
	serr, ok := err.(*ServerError)
	require.True(t, ok, "got %v", err)
	require.Equal(t, &ServerError{RequestID: 5, Code: 1064, Message: "syntax error near 'FORM'"}, serr)
	require.Contains(t, serr.Error(), "code 1064")
}

func TestReadResponse_Verification(t *testing.T) {
	summary := func(t *testing.T, rows uint64, bodies ...[]byte) []byte {
		b, err := encodeSummary(Summary{Rows: rows, Digest: hash.Of(bodies...)})
		require.NoError(t, err)
		return b
	}
	row := mustRow(t, testRows[0])

	t.Run("request mismatch", func(t *testing.T) {
		e := NewEncoder(nil)
		e.WriteFrame(KindRow, 1, row)
		e.WriteFrame(KindComplete, 2, summary(t, 1, row))
		_, err := ReadResponse(e.Bytes(), e.Len())
		require.Equal(t, ErrRequestMismatch, errors.Cause(err))
	})

	t.Run("row count", func(t *testing.T) {
		e := NewEncoder(nil)
		e.WriteFrame(KindRow, 1, row)
		e.WriteFrame(KindComplete, 1, summary(t, 2, row))
		_, err := ReadResponse(e.Bytes(), e.Len())
		require.Equal(t, ErrRowCount, errors.Cause(err))
	})

	t.Run("digest", func(t *testing.T) {
		e := NewEncoder(nil)
		e.WriteFrame(KindRow, 1, row)
		e.WriteFrame(KindComplete, 1, summary(t, 1, []byte("something else")))
		_, err := ReadResponse(e.Bytes(), e.Len())
		require.Equal(t, ErrDigest, errors.Cause(err))
	})

	t.Run("trailing row data", func(t *testing.T) {
		bad := append(append([]byte(nil), row...), 0x01)
		e := NewEncoder(nil)
		e.WriteFrame(KindRow, 1, bad)
		e.WriteFrame(KindComplete, 1, summary(t, 1, bad))
		_, err := ReadResponse(e.Bytes(), e.Len())
		require.Equal(t, ErrTrailingData, errors.Cause(err))
	})
}

func TestDecodeRow(t *testing.T) {
	body := mustRow(t, testRows[1])
	cols, err := DecodeRow(body)
	require.NoError(t, err)
	require.Equal(t, testRows[1], cols)

	cols[0][0] = 'X'
	again, err := DecodeRow(body)
	require.NoError(t, err)
	require.Equal(t, testRows[1], again, "columns must not alias the body")

	_, err = DecodeRow(body[:len(body)-1])
	require.Error(t, err)
}

func mustRow(t *testing.T, cols [][]byte) []byte {
	body, err := EncodeRow(cols)
	require.NoError(t, err)
	return body
}
