package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchLiteral(t *testing.T) {
	assert.True(t, match("hello", "hello"))
	assert.False(t, match("hello", "hellox"))
}

func TestMatchStar(t *testing.T) {
	assert.True(t, match("user:*", "user:123"))
	assert.True(t, match("user:*", "user:"))
	assert.True(t, match("*", ""))
	assert.True(t, match("a*b*c", "aXbYc"))
	assert.False(t, match("a*b", "ac"))
}

func TestMatchQuestion(t *testing.T) {
	assert.True(t, match("h?llo", "hello"))
	assert.False(t, match("h?llo", "hllo"))
}

func TestMatchClass(t *testing.T) {
	assert.True(t, match("[abc]", "a"))
	assert.False(t, match("[abc]", "d"))
	assert.True(t, match("[a-z]", "m"))
	assert.False(t, match("[^a-z]", "m"))
	assert.True(t, match("[^a-z]", "M"))
}

func TestLiteralPrefix(t *testing.T) {
	assert.Equal(t, "user:", literalPrefix("user:*"))
	assert.Equal(t, "", literalPrefix("*"))
	assert.Equal(t, "abc", literalPrefix("abc"))
}

func TestPrefixIndexCandidates(t *testing.T) {
	p := newPrefixIndex()
	p.insert("user:1")
	p.insert("user:2")
	p.insert("other")

	var got []string
	p.candidates("user:*", func(key string) { got = append(got, key) })
	assert.ElementsMatch(t, []string{"user:1", "user:2"}, got)

	p.remove("user:1")
	got = nil
	p.candidates("user:*", func(key string) { got = append(got, key) })
	assert.ElementsMatch(t, []string{"user:2"}, got)
}
