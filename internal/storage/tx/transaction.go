// Package tx provides the per-operation token threaded through the
// index's public entry points.
package tx

import (
	"sync"

	"github.com/wanderingj/db/internal/storage"
)

// Transaction carries the bookkeeping for one index operation: the set
// of pages currently pinned on its behalf and the pages deleted while it
// ran. The tree registers every fetch and unpin against the token; a
// non-empty pinned set when the operation returns is a pin leak.
type Transaction struct {
	// ID is the unique transaction identifier.
	ID uint64

	mu      sync.Mutex
	pinned  map[storage.PageID]int
	deleted []storage.PageID
}

// NewTransaction creates a new transaction with the given id.
func NewTransaction(id uint64) *Transaction {
	return &Transaction{
		ID:     id,
		pinned: make(map[storage.PageID]int),
	}
}

// AddPinned records one pin on the page.
func (t *Transaction) AddPinned(id storage.PageID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pinned[id]++
}

// RemovePinned records one unpin of the page.
func (t *Transaction) RemovePinned(id storage.PageID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.pinned[id] <= 1 {
		delete(t.pinned, id)
		return
	}
	t.pinned[id]--
}

// PinnedCount returns the number of pins currently held.
func (t *Transaction) PinnedCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for _, c := range t.pinned {
		n += c
	}
	return n
}

// PinnedPages returns the ids of pages with outstanding pins.
func (t *Transaction) PinnedPages() []storage.PageID {
	t.mu.Lock()
	defer t.mu.Unlock()

	ids := make([]storage.PageID, 0, len(t.pinned))
	for id := range t.pinned {
		ids = append(ids, id)
	}
	return ids
}

// AddDeleted records a page deleted during the operation.
func (t *Transaction) AddDeleted(id storage.PageID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.deleted = append(t.deleted, id)
}

// DeletedPages returns the pages deleted during the operation.
func (t *Transaction) DeletedPages() []storage.PageID {
	t.mu.Lock()
	defer t.mu.Unlock()

	result := make([]storage.PageID, len(t.deleted))
	copy(result, t.deleted)
	return result
}
