package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUCache_GetSetOverwrite(t *testing.T) {
	c := NewLRUCache(4, 0)

	_, ok := c.Get("account:1")
	assert.False(t, ok)

	c.Set("account:1", `{"name":"Ada"}`)
	c.Set("account:1", `{"name":"Grace"}`)

	v, ok := c.Get("account:1")
	require.True(t, ok)
	assert.Equal(t, `{"name":"Grace"}`, v)
	assert.Equal(t, 1, c.Len())
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache(2, 0)
	c.Set("a", "1")
	c.Set("b", "2")

	// touching a makes b the eviction candidate
	_, _ = c.Get("a")
	c.Set("c", "3")

	_, okA := c.Get("a")
	_, okB := c.Get("b")
	_, okC := c.Get("c")
	assert.True(t, okA)
	assert.False(t, okB)
	assert.True(t, okC)
	assert.Equal(t, 2, c.Len())
}

func TestLRUCache_EntriesExpire(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewLRUCache(4, 30*time.Second)
	c.now = func() time.Time { return now }

	c.Set("k", "v")

	now = now.Add(29 * time.Second)
	_, ok := c.Get("k")
	assert.True(t, ok)

	now = now.Add(time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "expired entries are dropped on read")
}

func TestLRUCache_SetRefreshesExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewLRUCache(4, 10*time.Second)
	c.now = func() time.Time { return now }

	c.Set("k", "old")
	now = now.Add(8 * time.Second)
	c.Set("k", "new")
	now = now.Add(8 * time.Second)

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "new", v)
}

func TestLRUCache_DeleteAndClear(t *testing.T) {
	c := NewLRUCache(4, 0)
	c.Set("a", "1")
	c.Set("b", "2")

	c.Delete("a")
	c.Delete("missing")
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestLRUCache_ZeroCapacityStoresNothing(t *testing.T) {
	c := NewLRUCache(0, 0)
	c.Set("a", "1")

	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestLRUCache_ConcurrentAccess(t *testing.T) {
	c := NewLRUCache(50, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("account:%d", (i*100+j)%80)
				c.Set(key, "v")
				c.Get(key)
				if j%10 == 0 {
					c.Delete(key)
				}
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 50)
}
