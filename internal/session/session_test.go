package session

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redikv/internal/command"
	"redikv/internal/pubsub"
	"redikv/internal/resp"
	"redikv/internal/store"
)

func TestSessionAppliesAndReplies(t *testing.T) {
	serverSide, clientSide := net.Pipe()
	db := store.New()
	broker := pubsub.New()

	done := make(chan error, 1)
	go func() {
		done <- Run(resp.NewConn(serverSide), db, broker, nil, nil)
	}()

	clientConn := resp.NewConn(clientSide)
	require.NoError(t, clientConn.WriteFrame(resp.Array([]resp.Frame{
		resp.BulkString("SET"), resp.BulkString("k"), resp.BulkString("v"),
	})))
	reply, ok, err := clientConn.ReadFrame()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, resp.Simple("OK"), reply)

	val, exists, err := db.Get("k")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, []byte("v"), val)

	clientSide.Close()
	<-done
}

func TestSessionWritesSyntaxErrorOnNonArrayCommand(t *testing.T) {
	serverSide, clientSide := net.Pipe()
	db := store.New()
	broker := pubsub.New()

	go Run(resp.NewConn(serverSide), db, broker, nil, nil)

	clientConn := resp.NewConn(clientSide)
	// A bulk string is a well-formed Frame but not a command: the
	// session must reply with a syntax error and keep the connection
	// open rather than tearing it down.
	require.NoError(t, clientConn.WriteFrame(resp.BulkString("GET")))

	reply, ok, err := clientConn.ReadFrame()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, resp.KindError, reply.Kind)

	clientSide.Close()
}

func TestIsWriteStillAgreesWithSessionPersistDecision(t *testing.T) {
	assert.True(t, command.IsWrite("SET"))
	assert.False(t, command.IsWrite("GET"))
}
