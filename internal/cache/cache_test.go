package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetGetRoundTrip(t *testing.T) {
	c := New(true)
	data := []byte(`{"rank":1}`)

	etag := c.Set("lb:1:1:50", data, time.Minute)

	got, gotETag, ok := c.Get("lb:1:1:50")
	require.True(t, ok)
	assert.Equal(t, data, got)
	assert.Equal(t, etag, gotETag)
}

func TestCache_MissOnUnknownKey(t *testing.T) {
	c := New(true)

	_, _, ok := c.Get("nope")
	assert.False(t, ok)
}

func TestCache_ExpiredEntryIsAMiss(t *testing.T) {
	c := New(true)
	c.Set("short", []byte("x"), -time.Second)

	_, _, ok := c.Get("short")
	assert.False(t, ok)
}

func TestCache_DisabledNeverStores(t *testing.T) {
	c := New(false)

	etag := c.Set("k", []byte("v"), time.Minute)
	assert.NotEmpty(t, etag)

	_, _, ok := c.Get("k")
	assert.False(t, ok)
}

func TestCache_StatsCountsActiveAndExpired(t *testing.T) {
	c := New(true)
	c.Set("live", []byte("a"), time.Minute)
	c.Set("dead", []byte("b"), -time.Second)

	stats := c.Stats()
	assert.Equal(t, 2, stats["total_keys"])
	assert.Equal(t, 1, stats["active_keys"])
	assert.Equal(t, 1, stats["expired_keys"])
}

func TestComputeETag(t *testing.T) {
	a := ComputeETag([]byte("payload"))
	b := ComputeETag([]byte("payload"))
	other := ComputeETag([]byte("different"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, other)
	assert.Contains(t, a, `W/"`)
}

func TestCheckETagMatch(t *testing.T) {
	etag := ComputeETag([]byte("x"))

	assert.True(t, CheckETagMatch(etag, etag))
	assert.True(t, CheckETagMatch("*", etag))
	assert.False(t, CheckETagMatch("", etag))
	assert.False(t, CheckETagMatch(`W/"stale"`, etag))
}
