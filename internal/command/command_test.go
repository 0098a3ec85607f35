package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redikv/internal/pubsub"
	"redikv/internal/resp"
	"redikv/internal/store"
)

func mustParse(t *testing.T, parts ...string) Command {
	t.Helper()
	items := make([]resp.Frame, len(parts))
	for i, p := range parts {
		items[i] = resp.BulkString(p)
	}
	cmd, err := Parse(resp.Array(items))
	require.NoError(t, err)
	return cmd
}

func TestParseUppercasesVerb(t *testing.T) {
	cmd := mustParse(t, "set", "k", "v")
	assert.Equal(t, "SET", cmd.Name)
	assert.Equal(t, [][]byte{[]byte("k"), []byte("v")}, cmd.Args)
}

func TestApplyUnknownCommand(t *testing.T) {
	db := store.New()
	b := pubsub.New()
	cmd := mustParse(t, "NOPE")

	reply, mutated := Apply(cmd, db, b)
	assert.False(t, mutated)
	assert.Equal(t, resp.KindError, reply.Kind)
	assert.Contains(t, reply.Str, "unknown command")
}

func TestApplyWrongArity(t *testing.T) {
	db := store.New()
	b := pubsub.New()
	cmd := mustParse(t, "GET")

	reply, mutated := Apply(cmd, db, b)
	assert.False(t, mutated)
	assert.Equal(t, resp.KindError, reply.Kind)
}

func TestSetWithExClause(t *testing.T) {
	db := store.New()
	b := pubsub.New()
	cmd := mustParse(t, "SET", "k", "v", "EX", "10")

	reply, mutated := Apply(cmd, db, b)
	assert.True(t, mutated)
	assert.Equal(t, resp.Simple("OK"), reply)
}

func TestSetWithZeroExRejected(t *testing.T) {
	db := store.New()
	b := pubsub.New()
	cmd := mustParse(t, "SET", "k", "v", "EX", "0")

	reply, mutated := Apply(cmd, db, b)
	assert.False(t, mutated)
	assert.Equal(t, resp.KindError, reply.Kind)
}

func TestSetWithNonIntegerEx(t *testing.T) {
	db := store.New()
	b := pubsub.New()
	cmd := mustParse(t, "SET", "k", "v", "EX", "nope")

	reply, _ := Apply(cmd, db, b)
	assert.Contains(t, reply.Str, "not an integer")
}

func TestGetWrongType(t *testing.T) {
	db := store.New()
	b := pubsub.New()
	Apply(mustParse(t, "LPUSH", "k", "a"), db, b)

	reply, mutated := Apply(mustParse(t, "GET", "k"), db, b)
	assert.False(t, mutated)
	assert.Equal(t, resp.KindError, reply.Kind)
	assert.Contains(t, reply.Str, "WRONGTYPE")
}

func TestPublishWithNoSubscribersReturnsZero(t *testing.T) {
	db := store.New()
	b := pubsub.New()
	reply, mutated := Apply(mustParse(t, "PUBLISH", "ch", "hi"), db, b)
	assert.False(t, mutated)
	assert.Equal(t, resp.Integer(0), reply)
}

func TestPingVariants(t *testing.T) {
	db := store.New()
	b := pubsub.New()

	reply, _ := Apply(mustParse(t, "PING"), db, b)
	assert.Equal(t, resp.Simple("PONG"), reply)

	reply, _ = Apply(mustParse(t, "PING", "hi"), db, b)
	assert.Equal(t, resp.Bulk([]byte("hi")), reply)
}

func TestIsWrite(t *testing.T) {
	assert.True(t, IsWrite("SET"))
	assert.True(t, IsWrite("DEL"))
	assert.False(t, IsWrite("GET"))
	assert.False(t, IsWrite("PUBLISH"))
	assert.False(t, IsWrite("NOPE"))
}
