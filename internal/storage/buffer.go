package storage

import (
	"errors"
	"sync"
)

// Buffer pool errors.
var (
	ErrBufferPoolFull   = errors.New("buffer pool is full and no pages can be evicted")
	ErrPageNotFound     = errors.New("page not found in buffer pool")
	ErrPagePinned       = errors.New("page is pinned and cannot be evicted")
	ErrInvalidCapacity  = errors.New("buffer pool capacity must be positive")
	ErrNegativePinCount = errors.New("pin count cannot be negative")
)

// BufferPool caches page frames with LRU eviction. Pages are handed out
// pinned; a pinned page is never evicted. Dirty pages are written back
// through the disk manager before their frame is reused.
type BufferPool struct {
	capacity int
	disk     *DiskManager
	pages    map[PageID]*Page
	lru      *LRUCache
	mu       sync.Mutex
}

// NewBufferPool creates a buffer pool with the given frame capacity.
func NewBufferPool(capacity int, disk *DiskManager) *BufferPool {
	if capacity <= 0 {
		capacity = 16 // Default capacity
	}

	return &BufferPool{
		capacity: capacity,
		disk:     disk,
		pages:    make(map[PageID]*Page),
		lru:      NewLRUCache(),
	}
}

// NewPage allocates a new page on disk and returns its frame pinned.
// The frame is zeroed. Returns ErrBufferPoolFull if every frame is
// pinned.
func (bp *BufferPool) NewPage() (*Page, error) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if err := bp.ensureFrameLocked(); err != nil {
		return nil, err
	}

	id, err := bp.disk.AllocatePage()
	if err != nil {
		return nil, err
	}

	page := newFrame(id)
	page.pinCount = 1
	bp.pages[id] = page
	bp.lru.Access(id)

	return page, nil
}

// FetchPage returns the frame for an existing page, pinned. The page is
// read from disk on a cache miss. Returns ErrBufferPoolFull if every
// frame is pinned.
func (bp *BufferPool) FetchPage(id PageID) (*Page, error) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if id <= InvalidPageID {
		return nil, ErrInvalidPageID
	}

	if page, exists := bp.pages[id]; exists {
		page.pinCount++
		bp.lru.Access(id)
		return page, nil
	}

	if err := bp.ensureFrameLocked(); err != nil {
		return nil, err
	}

	page := newFrame(id)
	if err := bp.disk.ReadPage(id, page.data); err != nil {
		return nil, err
	}

	page.pinCount = 1
	bp.pages[id] = page
	bp.lru.Access(id)

	return page, nil
}

// UnpinPage drops one pin on the page. dirty records that the caller
// modified the frame.
func (bp *BufferPool) UnpinPage(id PageID, dirty bool) error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	page, exists := bp.pages[id]
	if !exists {
		return ErrPageNotFound
	}

	if page.pinCount <= 0 {
		return ErrNegativePinCount
	}

	page.pinCount--
	if dirty {
		page.dirty = true
	}

	return nil
}

// DeletePage removes the page from the pool and returns it to the disk
// manager's free list. The page must be unpinned; its contents are
// discarded, not flushed.
func (bp *BufferPool) DeletePage(id PageID) error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if page, exists := bp.pages[id]; exists {
		if page.pinCount > 0 {
			return ErrPagePinned
		}
		delete(bp.pages, id)
		bp.lru.Remove(id)
	}

	return bp.disk.DeallocatePage(id)
}

// FlushPage writes the page to disk if it is dirty.
func (bp *BufferPool) FlushPage(id PageID) error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	page, exists := bp.pages[id]
	if !exists {
		return ErrPageNotFound
	}

	return bp.flushLocked(page)
}

// FlushAll writes every dirty page to disk.
func (bp *BufferPool) FlushAll() error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	for _, page := range bp.pages {
		if err := bp.flushLocked(page); err != nil {
			return err
		}
	}
	return nil
}

// flushLocked writes one page if dirty. Must be called with lock held.
func (bp *BufferPool) flushLocked(page *Page) error {
	if !page.dirty {
		return nil
	}
	if err := bp.disk.WritePage(page.id, page.data); err != nil {
		return err
	}
	page.dirty = false
	return nil
}

// ensureFrameLocked makes room for one more frame, evicting the LRU
// unpinned page if the pool is at capacity. Must be called with lock
// held.
func (bp *BufferPool) ensureFrameLocked() error {
	if len(bp.pages) < bp.capacity {
		return nil
	}

	pinned := make(map[PageID]bool)
	for id, page := range bp.pages {
		if page.pinCount > 0 {
			pinned[id] = true
		}
	}

	victimID, found := bp.lru.GetLRUExcluding(pinned)
	if !found {
		return ErrBufferPoolFull
	}

	victim := bp.pages[victimID]
	if err := bp.flushLocked(victim); err != nil {
		return err
	}

	delete(bp.pages, victimID)
	bp.lru.Remove(victimID)

	return nil
}

// Contains checks if a page is resident in the pool.
func (bp *BufferPool) Contains(id PageID) bool {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	_, exists := bp.pages[id]
	return exists
}

// Capacity returns the maximum number of frames.
func (bp *BufferPool) Capacity() int {
	return bp.capacity
}

// PinCount returns the pin count of a resident page, or zero if the
// page is not resident.
func (bp *BufferPool) PinCount(id PageID) int {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if page, exists := bp.pages[id]; exists {
		return page.pinCount
	}
	return 0
}

// BufferPoolStats contains statistics about the buffer pool.
type BufferPoolStats struct {
	Capacity    int
	Size        int
	DirtyPages  int
	PinnedPages int
}

// Stats returns current statistics about the buffer pool.
func (bp *BufferPool) Stats() BufferPoolStats {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	stats := BufferPoolStats{
		Capacity: bp.capacity,
		Size:     len(bp.pages),
	}
	for _, page := range bp.pages {
		if page.dirty {
			stats.DirtyPages++
		}
		if page.pinCount > 0 {
			stats.PinnedPages++
		}
	}
	return stats
}
