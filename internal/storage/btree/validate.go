package btree

import (
	"fmt"

	"github.com/wanderingj/db/internal/storage"
	"github.com/wanderingj/db/internal/storage/tx"
)

// Validate walks the whole tree and checks its structural invariants:
// sorted slot arrays, globally unique ascending keys, uniform leaf
// depth, minimum occupancy on non-root pages, parent pointers that
// agree with the parents' child arrays, and a forward leaf chain in key
// order terminated by InvalidPageID. It is intended for tests and
// debugging; it fetches every page in the tree.
func (t *BPlusTree) Validate(txn *tx.Transaction) error {
	txn = t.ensureTxn(txn)

	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.root == storage.InvalidPageID {
		return nil
	}

	v := &validator{tree: t, txn: txn, leafDepth: -1}
	if err := v.checkSubtree(t.root, storage.InvalidPageID, 0, nil, nil); err != nil {
		return err
	}
	if err := v.checkLeafChain(); err != nil {
		return err
	}
	return t.checkPinLeak(txn)
}

// validator accumulates traversal state for Validate.
type validator struct {
	tree      *BPlusTree
	txn       *tx.Transaction
	leafDepth int
	leaves    []storage.PageID
}

// checkSubtree validates the page and everything below it. low and
// high bound the keys the subtree may contain: low inclusive, high
// exclusive, nil for unbounded.
func (v *validator) checkSubtree(id, parent storage.PageID, depth int, low, high []byte) error {
	t := v.tree

	frame, err := t.fetchPage(id, v.txn)
	if err != nil {
		return err
	}
	defer t.unpinPage(id, false, v.txn)

	if got := pageParentOf(frame); got != parent {
		return fmt.Errorf("%w: page %d records parent %d, reached from %d", ErrCorrupted, id, got, parent)
	}

	isRoot := parent == storage.InvalidPageID

	switch pageTypeOf(frame) {
	case pageTypeLeaf:
		leaf, err := asLeafPage(frame, t.keySize)
		if err != nil {
			return err
		}
		if v.leafDepth == -1 {
			v.leafDepth = depth
		} else if depth != v.leafDepth {
			return fmt.Errorf("%w: leaf %d at depth %d, expected %d", ErrCorrupted, id, depth, v.leafDepth)
		}
		if !isRoot && leaf.Size() < t.minLeafSize() {
			return fmt.Errorf("%w: leaf %d below minimum occupancy: %d < %d",
				ErrCorrupted, id, leaf.Size(), t.minLeafSize())
		}
		if isRoot && leaf.Size() < 1 {
			return fmt.Errorf("%w: root leaf %d is empty", ErrCorrupted, id)
		}
		for i := 0; i < leaf.Size(); i++ {
			key := leaf.KeyAt(i)
			if i > 0 && t.cmp(leaf.KeyAt(i-1), key) >= 0 {
				return fmt.Errorf("%w: leaf %d slots out of order at %d", ErrCorrupted, id, i)
			}
			if low != nil && t.cmp(key, low) < 0 {
				return fmt.Errorf("%w: leaf %d key below separator bound", ErrCorrupted, id)
			}
			if high != nil && t.cmp(key, high) >= 0 {
				return fmt.Errorf("%w: leaf %d key above separator bound", ErrCorrupted, id)
			}
		}
		v.leaves = append(v.leaves, id)
		return nil

	case pageTypeInternal:
		node, err := asInternalPage(frame, t.keySize)
		if err != nil {
			return err
		}
		if isRoot && node.Size() < 2 {
			return fmt.Errorf("%w: root %d has %d slots", ErrCorrupted, id, node.Size())
		}
		if !isRoot && node.Size() < t.minInternalSize() {
			return fmt.Errorf("%w: internal %d below minimum occupancy: %d < %d",
				ErrCorrupted, id, node.Size(), t.minInternalSize())
		}
		for i := 2; i < node.Size(); i++ {
			if t.cmp(node.KeyAt(i-1), node.KeyAt(i)) >= 0 {
				return fmt.Errorf("%w: internal %d separators out of order at %d", ErrCorrupted, id, i)
			}
		}
		for i := 0; i < node.Size(); i++ {
			childLow := low
			if i > 0 {
				childLow = copyKey(node.KeyAt(i))
			}
			childHigh := high
			if i+1 < node.Size() {
				childHigh = copyKey(node.KeyAt(i + 1))
			}
			if err := v.checkSubtree(node.ValueAt(i), id, depth+1, childLow, childHigh); err != nil {
				return err
			}
		}
		return nil

	default:
		return fmt.Errorf("%w: page %d has invalid type", ErrCorrupted, id)
	}
}

// checkLeafChain verifies the forward sibling pointers visit the leaves
// in traversal order and terminate with InvalidPageID.
func (v *validator) checkLeafChain() error {
	t := v.tree

	for i, id := range v.leaves {
		frame, err := t.fetchPage(id, v.txn)
		if err != nil {
			return err
		}
		leaf, err := asLeafPage(frame, t.keySize)
		if err != nil {
			t.unpinPage(id, false, v.txn)
			return err
		}

		next := leaf.Next()
		if err := t.unpinPage(id, false, v.txn); err != nil {
			return err
		}

		if i == len(v.leaves)-1 {
			if next != storage.InvalidPageID {
				return fmt.Errorf("%w: last leaf %d has next %d", ErrCorrupted, id, next)
			}
		} else if next != v.leaves[i+1] {
			return fmt.Errorf("%w: leaf %d links to %d, expected %d", ErrCorrupted, id, next, v.leaves[i+1])
		}
	}
	return nil
}
