package btree

import (
	"github.com/wanderingj/db/internal/storage"
	"github.com/wanderingj/db/internal/storage/tx"
)

// Iterator walks the leaf chain in key order. It pins at most one leaf
// at a time and unpins it when it advances past it or is closed. An
// iterator is invalidated by any structural change to the tree; it must
// not be used across a concurrent Insert or Remove.
type Iterator struct {
	tree  *BPlusTree
	txn   *tx.Transaction
	leaf  *LeafPage
	index int
}

// Begin returns an iterator positioned at the first key of the tree.
// On an empty tree the iterator is immediately exhausted.
func (t *BPlusTree) Begin(txn *tx.Transaction) (*Iterator, error) {
	txn = t.ensureTxn(txn)

	t.mu.RLock()
	defer t.mu.RUnlock()

	it := &Iterator{tree: t, txn: txn}
	if t.root == storage.InvalidPageID {
		return it, nil
	}

	leaf, err := t.findLeaf(nil, true, txn)
	if err != nil {
		return nil, err
	}

	it.leaf = leaf
	return it, it.skipExhaustedLeaf()
}

// BeginAt returns an iterator positioned at the first key >= key.
func (t *BPlusTree) BeginAt(key []byte, txn *tx.Transaction) (*Iterator, error) {
	if err := t.checkKey(key); err != nil {
		return nil, err
	}
	txn = t.ensureTxn(txn)

	t.mu.RLock()
	defer t.mu.RUnlock()

	it := &Iterator{tree: t, txn: txn}
	if t.root == storage.InvalidPageID {
		return it, nil
	}

	leaf, err := t.findLeaf(key, false, txn)
	if err != nil {
		return nil, err
	}

	it.leaf = leaf
	it.index = leaf.KeyIndex(key, t.cmp)
	return it, it.skipExhaustedLeaf()
}

// IsEnd reports whether the iterator has moved past the last key.
func (it *Iterator) IsEnd() bool {
	return it.leaf == nil
}

// Key returns a copy of the current key.
func (it *Iterator) Key() []byte {
	return copyKey(it.leaf.KeyAt(it.index))
}

// RID returns the record id stored under the current key.
func (it *Iterator) RID() RID {
	return it.leaf.RIDAt(it.index)
}

// Next advances to the following key, crossing to the next leaf in the
// chain when the current one is exhausted.
func (it *Iterator) Next() error {
	if it.leaf == nil {
		return nil
	}
	it.index++
	return it.skipExhaustedLeaf()
}

// skipExhaustedLeaf moves to the next leaf while the cursor sits past
// the current leaf's last slot.
func (it *Iterator) skipExhaustedLeaf() error {
	for it.leaf != nil && it.index >= it.leaf.Size() {
		next := it.leaf.Next()
		if err := it.tree.unpinPage(it.leaf.PageID(), false, it.txn); err != nil {
			return err
		}
		it.leaf = nil
		it.index = 0

		if next == storage.InvalidPageID {
			return nil
		}

		frame, err := it.tree.fetchPage(next, it.txn)
		if err != nil {
			return err
		}
		leaf, err := asLeafPage(frame, it.tree.keySize)
		if err != nil {
			it.tree.unpinPage(next, false, it.txn)
			return err
		}
		it.leaf = leaf
	}
	return nil
}

// Close releases the pinned leaf, if any. Closing an exhausted iterator
// is a no-op.
func (it *Iterator) Close() error {
	if it.leaf == nil {
		return nil
	}
	err := it.tree.unpinPage(it.leaf.PageID(), false, it.txn)
	it.leaf = nil
	return err
}
