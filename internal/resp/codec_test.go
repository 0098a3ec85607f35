package resp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckIncomplete(t *testing.T) {
	status, _, err := Check([]byte("$5\r\nhel"))
	require.NoError(t, err)
	assert.Equal(t, StatusIncomplete, status)
}

func TestCheckCompleteSimple(t *testing.T) {
	status, n, err := Check([]byte("+OK\r\n"))
	require.NoError(t, err)
	assert.Equal(t, StatusComplete, status)
	assert.Equal(t, 5, n)
}

func TestCheckMonotone(t *testing.T) {
	buf := []byte("*2\r\n$3\r\nfoo\r\n$3\r\nbar\r\n")
	status, n, err := Check(buf)
	require.NoError(t, err)
	require.Equal(t, StatusComplete, status)

	status2, n2, err2 := Check(buf[:n])
	require.NoError(t, err2)
	assert.Equal(t, StatusComplete, status2)
	assert.Equal(t, n, n2)
}

func TestParseNullBulk(t *testing.T) {
	f, n, err := Parse([]byte("$-1\r\n"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.True(t, f.IsNull())
	assert.Equal(t, KindBulk, f.Kind)
}

func TestParseNullArray(t *testing.T) {
	f, _, err := Parse([]byte("*-1\r\n"))
	require.NoError(t, err)
	assert.True(t, f.IsNull())
	assert.Equal(t, KindArray, f.Kind)
}

func TestParseArrayOfBulks(t *testing.T) {
	f, n, err := Parse([]byte("*2\r\n$3\r\nfoo\r\n$3\r\nbar\r\n"))
	require.NoError(t, err)
	assert.Equal(t, 22, n)
	require.Len(t, f.Array, 2)
	assert.Equal(t, []byte("foo"), f.Array[0].Bulk)
	assert.Equal(t, []byte("bar"), f.Array[1].Bulk)
}

func TestParseInteger(t *testing.T) {
	f, _, err := Parse([]byte(":-42\r\n"))
	require.NoError(t, err)
	assert.Equal(t, int64(-42), f.Int)
}

func TestInvalidNegativeBulkLength(t *testing.T) {
	status, _, err := Check([]byte("$-2\r\n"))
	assert.Equal(t, StatusInvalid, status)
	assert.True(t, IsProtocolError(err))
}

func TestInvalidUnknownType(t *testing.T) {
	status, _, err := Check([]byte("!oops\r\n"))
	assert.Equal(t, StatusInvalid, status)
	assert.True(t, IsProtocolError(err))
}

func TestRoundTrip(t *testing.T) {
	frames := []Frame{
		Simple("PONG"),
		Err("ERR bad"),
		Integer(42),
		Bulk([]byte("hello")),
		BulkString(""),
		NullBulk(),
		Array([]Frame{Integer(1), BulkString("x")}),
		NullArray(),
	}
	for _, f := range frames {
		encoded := Encode(f)
		status, n, err := Check(encoded)
		require.NoError(t, err)
		require.Equal(t, StatusComplete, status)
		require.Equal(t, len(encoded), n)

		decoded, _, err := Parse(encoded)
		require.NoError(t, err)
		assert.Equal(t, f, decoded)
	}
}

func TestIncrementalFeed(t *testing.T) {
	full := Encode(Array([]Frame{BulkString("SET"), BulkString("k"), BulkString("v")}))
	for split := 1; split < len(full); split++ {
		status, _, err := Check(full[:split])
		require.NoError(t, err)
		assert.NotEqual(t, StatusInvalid, status)
	}
}
