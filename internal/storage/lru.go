package storage

import "container/list"

// LRUCache tracks page access order for eviction. The least recently
// used page that is not excluded (pinned) is the eviction victim.
type LRUCache struct {
	list    *list.List               // Doubly linked list for LRU ordering
	entries map[PageID]*list.Element // Map for O(1) lookup
}

// lruEntry represents an entry in the LRU cache.
type lruEntry struct {
	pageID PageID
}

// NewLRUCache creates a new LRU cache.
func NewLRUCache() *LRUCache {
	return &LRUCache{
		list:    list.New(),
		entries: make(map[PageID]*list.Element),
	}
}

// Access marks a page as recently accessed, moving it to the front of
// the list. If the page is not in the cache, it is added.
func (c *LRUCache) Access(pageID PageID) {
	if elem, exists := c.entries[pageID]; exists {
		c.list.MoveToFront(elem)
		return
	}

	entry := &lruEntry{pageID: pageID}
	elem := c.list.PushFront(entry)
	c.entries[pageID] = elem
}

// Remove removes a page from the LRU cache.
func (c *LRUCache) Remove(pageID PageID) {
	if elem, exists := c.entries[pageID]; exists {
		c.list.Remove(elem)
		delete(c.entries, pageID)
	}
}

// GetLRUExcluding returns the least recently used page id that is not in
// the excluded set. This is how the buffer pool finds an eviction victim
// while skipping pinned pages.
func (c *LRUCache) GetLRUExcluding(excluded map[PageID]bool) (PageID, bool) {
	for elem := c.list.Back(); elem != nil; elem = elem.Prev() {
		entry := elem.Value.(*lruEntry)
		if !excluded[entry.pageID] {
			return entry.pageID, true
		}
	}
	return InvalidPageID, false
}

// Contains checks if a page is in the LRU cache.
func (c *LRUCache) Contains(pageID PageID) bool {
	_, exists := c.entries[pageID]
	return exists
}

// Len returns the number of entries in the LRU cache.
func (c *LRUCache) Len() int {
	return c.list.Len()
}

// Clear removes all entries from the LRU cache.
func (c *LRUCache) Clear() {
	c.list.Init()
	c.entries = make(map[PageID]*list.Element)
}
