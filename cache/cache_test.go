package cache

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rustyjsonserver/rjs/jsonval"
)

func TestCacheLaw(t *testing.T) {
	c := New()
	v := jsonval.String("hello")

	_, ok := c.Get("k")
	require.False(t, ok)

	c.Set("k", v)
	got, ok := c.Get("k")
	require.True(t, ok)
	require.True(t, jsonval.DeepEqual(v, got))

	require.True(t, c.Delete("k"))
	_, ok = c.Get("k")
	require.False(t, ok)
}

func TestCacheClearRemovesEverything(t *testing.T) {
	c := New()
	c.Set("a", jsonval.Number(1))
	c.Set("b", jsonval.Number(2))
	c.Clear()
	_, ok := c.Get("a")
	require.False(t, ok)
	_, ok = c.Get("b")
	require.False(t, ok)
}

func TestCacheDeleteMissingKeyReturnsFalse(t *testing.T) {
	c := New()
	require.False(t, c.Delete("nope"))
}
