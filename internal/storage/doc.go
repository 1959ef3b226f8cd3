// Package storage implements the disk-backed page layer of the index
// engine: fixed-size 4096-byte page frames addressed by PageID, a disk
// manager that allocates and persists pages in a single file (with an
// optional memory-mapped read path), a pin-counted buffer pool with LRU
// eviction, and the header page that maps index names to root pages.
//
// The buffer pool contract is strict: every FetchPage or NewPage must be
// balanced by exactly one UnpinPage, pinned pages are never evicted, and
// a page handed to DeletePage must already be unpinned. Higher layers
// (internal/storage/btree) mutate frames in place and report the
// mutation through the unpin dirty flag.
package storage
