package place

import "container/list"

// aliasCache is a fixed-capacity LRU cache for (PlaceID,PlaceID) -> bool
// may_alias results. No LRU library appears anywhere in the retrieval pack
// (see DESIGN.md), so this is hand-rolled on top of container/list, the
// same approach the standard library's own documentation recommends for
// building an LRU and the only list-backed eviction primitive available
// without adding an unvalidated dependency.
type aliasCache struct {
	cap   int
	ll    *list.List
	items map[cacheKey]*list.Element
}

type cacheKey struct {
	a, b PlaceID
}

type cacheEntry struct {
	key   cacheKey
	value bool
}

func newAliasCache(capacity int) *aliasCache {
	return &aliasCache{
		cap:   capacity,
		ll:    list.New(),
		items: make(map[cacheKey]*list.Element, capacity),
	}
}

// normKey orders the pair so (a,b) and (b,a) share one cache slot.
func normKey(a, b PlaceID) cacheKey {
	if a <= b {
		return cacheKey{a, b}
	}
	return cacheKey{b, a}
}

func (c *aliasCache) get(a, b PlaceID) (bool, bool) {
	key := normKey(a, b)
	el, ok := c.items[key]
	if !ok {
		return false, false
	}
	c.ll.MoveToFront(el)
	return el.Value.(*cacheEntry).value, true
}

func (c *aliasCache) put(a, b PlaceID, value bool) {
	key := normKey(a, b)
	if el, ok := c.items[key]; ok {
		el.Value.(*cacheEntry).value = value
		c.ll.MoveToFront(el)
		return
	}
	el := c.ll.PushFront(&cacheEntry{key: key, value: value})
	c.items[key] = el
	if c.ll.Len() > c.cap {
		oldest := c.ll.Back()
		if oldest != nil {
			c.ll.Remove(oldest)
			delete(c.items, oldest.Value.(*cacheEntry).key)
		}
	}
}
