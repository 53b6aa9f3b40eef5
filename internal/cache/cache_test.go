package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetGet(t *testing.T) {
	c := New(true)
	defer c.Close()

	c.Set("forecast:41.57,2.26", []byte(`{"list":[]}`), time.Minute)
	data, ok := c.Get("forecast:41.57,2.26")
	require.True(t, ok)
	assert.Equal(t, `{"list":[]}`, string(data))

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestCache_Expired(t *testing.T) {
	c := New(true)
	defer c.Close()

	c.Set("k", []byte("v"), -time.Second)
	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Stats()["expired_keys"])

	c.evict()
	assert.Equal(t, 0, c.Stats()["total_keys"])
}

func TestCache_Disabled(t *testing.T) {
	c := New(false)
	defer c.Close()

	c.Set("k", []byte("v"), time.Minute)
	_, ok := c.Get("k")
	assert.False(t, ok)

	st := c.Stats()
	assert.Equal(t, false, st["enabled"])
	assert.Equal(t, 0, st["total_keys"])
}

func TestCheckETagMatch(t *testing.T) {
	etag := ComputeETag([]byte("payload"))
	assert.True(t, CheckETagMatch(etag, etag))
	assert.True(t, CheckETagMatch("*", etag))
	assert.False(t, CheckETagMatch("", etag))
	assert.False(t, CheckETagMatch(`W/"other"`, etag))
	assert.NotEqual(t, etag, ComputeETag([]byte("payload2")))
}

func TestCache_CloseTwice(t *testing.T) {
	c := New(true)
	c.Close()
	assert.NotPanics(t, c.Close)
}
