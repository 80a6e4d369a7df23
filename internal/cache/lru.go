package cache

import (
	"container/list"
	"sync"
	"time"
)

// LRUCache is a bounded in-process cache whose entries also expire after ttl
// (ttl <= 0 disables expiry). The short ttl bounds how long one instance can
// serve a value another instance has already changed.
type LRUCache struct {
	capacity int
	ttl      time.Duration
	now      func() time.Time
	cache    map[string]*list.Element
	lruList  *list.List
	mu       sync.Mutex
}

type entry struct {
	key       string
	value     string
	expiresAt time.Time
}

func NewLRUCache(capacity int, ttl time.Duration) *LRUCache {
	return &LRUCache{
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
		cache:    make(map[string]*list.Element),
		lruList:  list.New(),
	}
}

func (c *LRUCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, found := c.cache[key]
	if !found {
		return "", false
	}

	e := elem.Value.(*entry)
	if c.expired(e) {
		c.remove(elem)
		return "", false
	}

	c.lruList.MoveToFront(elem)
	return e.value, true
}

func (c *LRUCache) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capacity <= 0 {
		return
	}

	expiresAt := time.Time{}
	if c.ttl > 0 {
		expiresAt = c.now().Add(c.ttl)
	}

	if elem, found := c.cache[key]; found {
		c.lruList.MoveToFront(elem)
		e := elem.Value.(*entry)
		e.value = value
		e.expiresAt = expiresAt
		return
	}

	elem := c.lruList.PushFront(&entry{key: key, value: value, expiresAt: expiresAt})
	c.cache[key] = elem

	if c.lruList.Len() > c.capacity {
		c.remove(c.lruList.Back())
	}
}

func (c *LRUCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, found := c.cache[key]; found {
		c.remove(elem)
	}
}

func (c *LRUCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lruList.Len()
}

func (c *LRUCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]*list.Element)
	c.lruList = list.New()
}

func (c *LRUCache) expired(e *entry) bool {
	return !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt)
}

func (c *LRUCache) remove(elem *list.Element) {
	if elem == nil {
		return
	}
	c.lruList.Remove(elem)
	delete(c.cache, elem.Value.(*entry).key)
}
