// Package btree implements a disk-backed B+ tree index over the buffer
// pool in internal/storage.
//
// Keys are fixed-width opaque byte strings ordered by an injected
// comparator. Leaf pages map keys to record ids; internal pages map
// separator keys to child pages. Pages are typed views over pinned
// buffer-pool frames and are mutated in place with a canonical
// little-endian layout, so a page is always in a readable state when it
// is unpinned.
//
// The tree maintains, after every completed operation: sorted unique
// keys, balanced leaf depth, minimum occupancy on non-root pages,
// parent pointers consistent with the parents' child arrays, and a
// strictly ordered forward leaf chain.
package btree
