package pubsub

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishNoSubscribers(t *testing.T) {
	b := New()
	assert.Equal(t, int64(0), b.Publish("ch", []byte("hi")))
}

func TestPublishCountsSubscribers(t *testing.T) {
	b := New()
	b.Subscribe("ch")
	b.Subscribe("ch")
	assert.Equal(t, int64(2), b.Publish("ch", []byte("hi")))
}

func TestUnsubscribeDropsEmptyChannel(t *testing.T) {
	b := New()
	b.Subscribe("ch")
	b.Unsubscribe("ch")
	assert.Equal(t, 0, b.ChannelCount())
	assert.Equal(t, int64(0), b.Publish("ch", []byte("hi")))
}
