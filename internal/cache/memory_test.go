package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTokenCache(t *testing.T) {
	ctx := context.Background()

	t.Run("save then get", func(t *testing.T) {
		c := NewMemoryTokenCache()

		require.NoError(t, c.Save(ctx, "u1", "d1", "tok-1", time.Minute))

		got, ok, err := c.Get(ctx, "u1", "d1")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "tok-1", got)
	})

	t.Run("save displaces the previous entry", func(t *testing.T) {
		c := NewMemoryTokenCache()

		require.NoError(t, c.Save(ctx, "u1", "d1", "tok-1", time.Minute))
		require.NoError(t, c.Save(ctx, "u1", "d1", "tok-2", time.Minute))

		got, ok, _ := c.Get(ctx, "u1", "d1")
		require.True(t, ok)
		assert.Equal(t, "tok-2", got)
	})

	t.Run("entries are scoped per device", func(t *testing.T) {
		c := NewMemoryTokenCache()

		require.NoError(t, c.Save(ctx, "u1", "d1", "tok-d1", time.Minute))
		require.NoError(t, c.Save(ctx, "u1", "d2", "tok-d2", time.Minute))

		got, ok, _ := c.Get(ctx, "u1", "d1")
		require.True(t, ok)
		assert.Equal(t, "tok-d1", got)
		got, ok, _ = c.Get(ctx, "u1", "d2")
		require.True(t, ok)
		assert.Equal(t, "tok-d2", got)
	})

	t.Run("remove is idempotent", func(t *testing.T) {
		c := NewMemoryTokenCache()

		require.NoError(t, c.Save(ctx, "u1", "d1", "tok-1", time.Minute))
		require.NoError(t, c.Remove(ctx, "u1", "d1"))
		require.NoError(t, c.Remove(ctx, "u1", "d1"))

		_, ok, _ := c.Get(ctx, "u1", "d1")
		assert.False(t, ok)
	})

	t.Run("expired entries are invisible", func(t *testing.T) {
		c := NewMemoryTokenCache()

		require.NoError(t, c.Save(ctx, "u1", "d1", "tok-1", -time.Second))

		_, ok, _ := c.Get(ctx, "u1", "d1")
		assert.False(t, ok)
	})

	t.Run("sweep drops only expired entries", func(t *testing.T) {
		c := NewMemoryTokenCache()

		require.NoError(t, c.Save(ctx, "u1", "d1", "tok-1", -time.Second))
		require.NoError(t, c.Save(ctx, "u2", "d1", "tok-2", time.Minute))

		removed := c.sweep(time.Now())
		assert.Equal(t, 1, removed)

		_, ok, _ := c.Get(ctx, "u2", "d1")
		assert.True(t, ok)
	})
}
