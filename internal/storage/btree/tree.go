package btree

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/wanderingj/db/internal/storage"
	"github.com/wanderingj/db/internal/storage/tx"
)

// Tree errors.
var (
	ErrNilBufferPool  = errors.New("buffer pool is required")
	ErrNilComparator  = errors.New("comparator is required")
	ErrEmptyName      = errors.New("index name is required")
	ErrNameTooLong    = errors.New("index name is too long")
	ErrKeySize        = errors.New("key has wrong size")
	ErrHeaderFull     = errors.New("header page has no room for the index record")
	ErrPinLeak        = errors.New("operation finished with pages still pinned")
	ErrInvalidMaxSize = errors.New("max size out of range for the page size")
)

// Options configures a BPlusTree.
type Options struct {
	// KeySize is the fixed key width in bytes. Defaults to
	// DefaultKeySize.
	KeySize int

	// LeafMaxSize and InternalMaxSize override the slot capacities
	// derived from the page size. Zero means derive. Tests use small
	// values to force splits and merges on few keys.
	LeafMaxSize     int
	InternalMaxSize int

	// DebugChecks enables the pin-leak contract check after every
	// public operation.
	DebugChecks bool
}

// BPlusTree is a disk-backed B+ tree index. All access goes through the
// buffer pool; the tree itself holds no page memory. Mutating
// operations must be serialized by the tree's own lock; readers may run
// concurrently with each other but not with writers.
type BPlusTree struct {
	name            string
	bpm             *storage.BufferPool
	cmp             Comparator
	keySize         int
	leafMaxSize     int
	internalMaxSize int
	root            storage.PageID
	debugChecks     bool
	txnSeq          atomic.Uint64
	mu              sync.RWMutex
}

// Open returns the tree named name, reading its root from the header
// page. An index that has never been written opens empty.
func Open(name string, bpm *storage.BufferPool, cmp Comparator, opts Options) (*BPlusTree, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if len(name) > storage.HeaderNameSize {
		return nil, fmt.Errorf("%w: %q exceeds %d bytes", ErrNameTooLong, name, storage.HeaderNameSize)
	}
	if bpm == nil {
		return nil, ErrNilBufferPool
	}
	if cmp == nil {
		return nil, ErrNilComparator
	}

	keySize := opts.KeySize
	if keySize == 0 {
		keySize = DefaultKeySize
	}
	if keySize < 1 || keySize > 255 {
		return nil, fmt.Errorf("%w: key size %d", ErrKeySize, keySize)
	}

	leafMax := opts.LeafMaxSize
	if leafMax == 0 {
		leafMax = leafCapacity(keySize)
	}
	internalMax := opts.InternalMaxSize
	if internalMax == 0 {
		internalMax = internalCapacity(keySize)
	}
	if leafMax < 3 || leafMax > leafCapacity(keySize) ||
		internalMax < 3 || internalMax > internalCapacity(keySize) {
		return nil, ErrInvalidMaxSize
	}

	t := &BPlusTree{
		name:            name,
		bpm:             bpm,
		cmp:             cmp,
		keySize:         keySize,
		leafMaxSize:     leafMax,
		internalMaxSize: internalMax,
		root:            storage.InvalidPageID,
		debugChecks:     opts.DebugChecks,
	}

	header, err := bpm.FetchPage(storage.HeaderPageID)
	if err != nil {
		return nil, err
	}
	if root, ok := storage.AsHeaderPage(header).GetRecord(name); ok {
		t.root = root
	}
	if err := bpm.UnpinPage(storage.HeaderPageID, false); err != nil {
		return nil, err
	}

	return t, nil
}

// Name returns the index name.
func (t *BPlusTree) Name() string {
	return t.name
}

// IsEmpty reports whether the tree holds no keys.
func (t *BPlusTree) IsEmpty() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.root == storage.InvalidPageID
}

// ensureTxn returns txn, or a fresh token when the caller passed nil.
func (t *BPlusTree) ensureTxn(txn *tx.Transaction) *tx.Transaction {
	if txn != nil {
		return txn
	}
	return tx.NewTransaction(t.txnSeq.Add(1))
}

// checkPinLeak enforces the fetch/unpin pairing contract when debug
// checks are on.
func (t *BPlusTree) checkPinLeak(txn *tx.Transaction) error {
	if !t.debugChecks {
		return nil
	}
	if n := txn.PinnedCount(); n != 0 {
		return fmt.Errorf("%w: %d pins on pages %v", ErrPinLeak, n, txn.PinnedPages())
	}
	return nil
}

// fetchPage pins a page and records the pin on the token.
func (t *BPlusTree) fetchPage(id storage.PageID, txn *tx.Transaction) (*storage.Page, error) {
	page, err := t.bpm.FetchPage(id)
	if err != nil {
		return nil, err
	}
	txn.AddPinned(id)
	return page, nil
}

// newPage allocates a pinned page and records the pin on the token.
func (t *BPlusTree) newPage(txn *tx.Transaction) (*storage.Page, error) {
	page, err := t.bpm.NewPage()
	if err != nil {
		return nil, err
	}
	txn.AddPinned(page.ID())
	return page, nil
}

// unpinPage releases one pin and clears it from the token.
func (t *BPlusTree) unpinPage(id storage.PageID, dirty bool, txn *tx.Transaction) error {
	if err := t.bpm.UnpinPage(id, dirty); err != nil {
		return err
	}
	txn.RemovePinned(id)
	return nil
}

// deletePage returns an unpinned page to the free list and records the
// deletion on the token.
func (t *BPlusTree) deletePage(id storage.PageID, txn *tx.Transaction) error {
	if err := t.bpm.DeletePage(id); err != nil {
		return err
	}
	txn.AddDeleted(id)
	return nil
}

// checkKey validates the key width.
func (t *BPlusTree) checkKey(key []byte) error {
	if len(key) != t.keySize {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrKeySize, len(key), t.keySize)
	}
	return nil
}

// findLeaf descends from the root to the leaf that owns key, or to the
// leftmost leaf when leftMost is set. The returned leaf is pinned; each
// interior page is unpinned as soon as its child is pinned.
func (t *BPlusTree) findLeaf(key []byte, leftMost bool, txn *tx.Transaction) (*LeafPage, error) {
	id := t.root
	prev := storage.InvalidPageID
	isRoot := true

	for {
		frame, err := t.fetchPage(id, txn)
		if prev != storage.InvalidPageID {
			uerr := t.unpinPage(prev, false, txn)
			if err == nil && uerr != nil {
				t.unpinPage(id, false, txn)
				return nil, uerr
			}
		}
		if err != nil {
			return nil, err
		}

		if !isRoot && pageParentOf(frame) == storage.InvalidPageID {
			t.unpinPage(id, false, txn)
			return nil, fmt.Errorf("%w: non-root page %d has no parent", ErrCorrupted, id)
		}

		switch pageTypeOf(frame) {
		case pageTypeLeaf:
			leaf, err := asLeafPage(frame, t.keySize)
			if err != nil {
				t.unpinPage(id, false, txn)
				return nil, err
			}
			return leaf, nil

		case pageTypeInternal:
			node, err := asInternalPage(frame, t.keySize)
			if err != nil {
				t.unpinPage(id, false, txn)
				return nil, err
			}
			var next storage.PageID
			if leftMost {
				next = node.ValueAt(0)
			} else {
				next = node.Lookup(key, t.cmp)
			}
			prev = id
			id = next
			isRoot = false

		default:
			t.unpinPage(id, false, txn)
			return nil, fmt.Errorf("%w: page %d has invalid type", ErrCorrupted, id)
		}
	}
}

// GetValue returns the rid stored for key. The second return value is
// false if the key is not present.
func (t *BPlusTree) GetValue(key []byte, txn *tx.Transaction) (RID, bool, error) {
	if err := t.checkKey(key); err != nil {
		return RID{}, false, err
	}
	txn = t.ensureTxn(txn)

	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.root == storage.InvalidPageID {
		return RID{}, false, nil
	}

	leaf, err := t.findLeaf(key, false, txn)
	if err != nil {
		return RID{}, false, err
	}

	rid, found := leaf.Lookup(key, t.cmp)
	if err := t.unpinPage(leaf.PageID(), false, txn); err != nil {
		return RID{}, false, err
	}

	return rid, found, t.checkPinLeak(txn)
}

// Insert adds (key, rid) to the tree. It returns false if the key is
// already present; the stored value is left unchanged.
func (t *BPlusTree) Insert(key []byte, rid RID, txn *tx.Transaction) (bool, error) {
	if err := t.checkKey(key); err != nil {
		return false, err
	}
	txn = t.ensureTxn(txn)

	t.mu.Lock()
	defer t.mu.Unlock()

	inserted, err := t.insert(key, rid, txn)
	if err != nil {
		return inserted, err
	}
	return inserted, t.checkPinLeak(txn)
}

func (t *BPlusTree) insert(key []byte, rid RID, txn *tx.Transaction) (bool, error) {
	if t.root == storage.InvalidPageID {
		return true, t.startNewTree(key, rid, txn)
	}

	leaf, err := t.findLeaf(key, false, txn)
	if err != nil {
		return false, err
	}

	if _, exists := leaf.Lookup(key, t.cmp); exists {
		return false, t.unpinPage(leaf.PageID(), false, txn)
	}

	newSize := leaf.Insert(key, rid, t.cmp)
	if newSize < t.leafMaxSize {
		return true, t.unpinPage(leaf.PageID(), true, txn)
	}

	// The leaf is full: split it and push the separator up.
	sibFrame, err := t.newPage(txn)
	if err != nil {
		t.unpinPage(leaf.PageID(), true, txn)
		return false, err
	}
	sibling := initLeafPage(sibFrame, leaf.Parent(), t.keySize, t.leafMaxSize)
	leaf.MoveHalfTo(sibling)

	sepKey := copyKey(sibling.KeyAt(0))
	err = t.insertIntoParent(leaf.Frame(), sepKey, sibFrame, txn)

	if uerr := t.unpinPage(sibling.PageID(), true, txn); err == nil {
		err = uerr
	}
	if uerr := t.unpinPage(leaf.PageID(), true, txn); err == nil {
		err = uerr
	}
	return true, err
}

// startNewTree allocates a root leaf for the first key and publishes it
// in the header page.
func (t *BPlusTree) startNewTree(key []byte, rid RID, txn *tx.Transaction) error {
	frame, err := t.newPage(txn)
	if err != nil {
		return err
	}

	leaf := initLeafPage(frame, storage.InvalidPageID, t.keySize, t.leafMaxSize)
	leaf.Insert(key, rid, t.cmp)

	t.root = frame.ID()
	err = t.updateRootPageID(true, txn)

	if uerr := t.unpinPage(frame.ID(), true, txn); err == nil {
		err = uerr
	}
	return err
}

// insertIntoParent links newFrame, split off from oldFrame, into the
// tree under the separator key, splitting ancestors as needed. Both
// frames stay pinned by the caller.
func (t *BPlusTree) insertIntoParent(oldFrame *storage.Page, key []byte, newFrame *storage.Page, txn *tx.Transaction) error {
	if pageParentOf(oldFrame) == storage.InvalidPageID {
		// The old node was the root: grow the tree by one level.
		rootFrame, err := t.newPage(txn)
		if err != nil {
			return err
		}

		root := initInternalPage(rootFrame, storage.InvalidPageID, t.keySize, t.internalMaxSize)
		root.PopulateNewRoot(oldFrame.ID(), key, newFrame.ID())
		setPageParent(oldFrame, rootFrame.ID())
		setPageParent(newFrame, rootFrame.ID())

		t.root = rootFrame.ID()
		err = t.updateRootPageID(false, txn)

		if uerr := t.unpinPage(rootFrame.ID(), true, txn); err == nil {
			err = uerr
		}
		return err
	}

	parentFrame, err := t.fetchPage(pageParentOf(oldFrame), txn)
	if err != nil {
		return err
	}
	parent, err := asInternalPage(parentFrame, t.keySize)
	if err != nil {
		t.unpinPage(parentFrame.ID(), false, txn)
		return err
	}

	newSize := parent.InsertNodeAfter(oldFrame.ID(), key, newFrame.ID())
	if newSize <= t.internalMaxSize {
		return t.unpinPage(parent.PageID(), true, txn)
	}

	// The parent overflowed: split it and recurse.
	sibFrame, err := t.newPage(txn)
	if err != nil {
		t.unpinPage(parent.PageID(), true, txn)
		return err
	}
	sibling := initInternalPage(sibFrame, parent.Parent(), t.keySize, t.internalMaxSize)
	if err := parent.MoveHalfTo(sibling, t.bpm); err != nil {
		t.unpinPage(sibling.PageID(), true, txn)
		t.unpinPage(parent.PageID(), true, txn)
		return err
	}

	sepKey := copyKey(sibling.KeyAt(0))
	err = t.insertIntoParent(parentFrame, sepKey, sibFrame, txn)

	if uerr := t.unpinPage(sibling.PageID(), true, txn); err == nil {
		err = uerr
	}
	if uerr := t.unpinPage(parent.PageID(), true, txn); err == nil {
		err = uerr
	}
	return err
}

// Remove deletes key from the tree. Removing an absent key is a no-op.
func (t *BPlusTree) Remove(key []byte, txn *tx.Transaction) error {
	if err := t.checkKey(key); err != nil {
		return err
	}
	txn = t.ensureTxn(txn)

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.remove(key, txn); err != nil {
		return err
	}
	return t.checkPinLeak(txn)
}

func (t *BPlusTree) remove(key []byte, txn *tx.Transaction) error {
	if t.root == storage.InvalidPageID {
		return nil
	}

	leaf, err := t.findLeaf(key, false, txn)
	if err != nil {
		return err
	}

	oldSize := leaf.Size()
	newSize := leaf.RemoveAndDelete(key, t.cmp)
	if newSize == oldSize {
		return t.unpinPage(leaf.PageID(), false, txn)
	}

	if leaf.Parent() == storage.InvalidPageID {
		return t.adjustRoot(leaf.Frame(), txn)
	}

	if newSize < t.minLeafSize() {
		return t.coalesceOrRedistributeLeaf(leaf, txn)
	}

	return t.unpinPage(leaf.PageID(), true, txn)
}

// minLeafSize is the minimum occupancy of a non-root leaf.
func (t *BPlusTree) minLeafSize() int {
	return (t.leafMaxSize + 1) / 2
}

// minInternalSize is the minimum occupancy of a non-root internal page.
func (t *BPlusTree) minInternalSize() int {
	return (t.internalMaxSize + 1) / 2
}

// coalesceOrRedistributeLeaf rebalances an underflowing leaf with a
// sibling: the left sibling when one exists, otherwise the right. If
// the two pages together overflow a single page, one entry moves
// between them; otherwise they merge into the left page and the right
// one is deleted. The leaf arrives pinned and is released here.
func (t *BPlusTree) coalesceOrRedistributeLeaf(leaf *LeafPage, txn *tx.Transaction) error {
	parentFrame, err := t.fetchPage(leaf.Parent(), txn)
	if err != nil {
		t.unpinPage(leaf.PageID(), true, txn)
		return err
	}
	parent, err := asInternalPage(parentFrame, t.keySize)
	if err != nil {
		t.unpinPage(leaf.PageID(), true, txn)
		t.unpinPage(parentFrame.ID(), false, txn)
		return err
	}

	index := parent.ValueIndex(leaf.PageID())
	if index < 0 {
		t.unpinPage(leaf.PageID(), true, txn)
		t.unpinPage(parent.PageID(), false, txn)
		return fmt.Errorf("%w: page %d missing from parent %d", ErrCorrupted, leaf.PageID(), parent.PageID())
	}

	sibIndex := index - 1
	if index == 0 {
		sibIndex = 1
	}
	sibFrame, err := t.fetchPage(parent.ValueAt(sibIndex), txn)
	if err != nil {
		t.unpinPage(leaf.PageID(), true, txn)
		t.unpinPage(parent.PageID(), false, txn)
		return err
	}
	sibling, err := asLeafPage(sibFrame, t.keySize)
	if err != nil {
		t.unpinPage(sibFrame.ID(), false, txn)
		t.unpinPage(leaf.PageID(), true, txn)
		t.unpinPage(parent.PageID(), false, txn)
		return err
	}

	if sibling.Size()+leaf.Size() > t.leafMaxSize {
		// Redistribute one entry and fix the boundary separator.
		if index == 0 {
			sibling.MoveFirstToEndOf(leaf)
			parent.SetKeyAt(sibIndex, sibling.KeyAt(0))
		} else {
			sibling.MoveLastToFrontOf(leaf)
			parent.SetKeyAt(index, leaf.KeyAt(0))
		}
		if err := t.unpinPage(sibling.PageID(), true, txn); err != nil {
			return err
		}
		if err := t.unpinPage(leaf.PageID(), true, txn); err != nil {
			return err
		}
		return t.unpinPage(parent.PageID(), true, txn)
	}

	// Coalesce, always into the left of the two pages.
	left, right, rightIndex := sibling, leaf, index
	if index == 0 {
		left, right, rightIndex = leaf, sibling, sibIndex
	}
	right.MoveAllTo(left)

	rightID := right.PageID()
	if err := t.unpinPage(rightID, false, txn); err != nil {
		return err
	}
	if err := t.unpinPage(left.PageID(), true, txn); err != nil {
		return err
	}
	if err := t.deletePage(rightID, txn); err != nil {
		return err
	}

	parent.Remove(rightIndex)
	return t.finishParentUnderflow(parent, txn)
}

// coalesceOrRedistributeInternal rebalances an underflowing internal
// page, rotating entries through the parent separator on redistribution
// and pulling the separator down on a merge. The node arrives pinned
// and is released here.
func (t *BPlusTree) coalesceOrRedistributeInternal(node *InternalPage, txn *tx.Transaction) error {
	parentFrame, err := t.fetchPage(node.Parent(), txn)
	if err != nil {
		t.unpinPage(node.PageID(), true, txn)
		return err
	}
	parent, err := asInternalPage(parentFrame, t.keySize)
	if err != nil {
		t.unpinPage(node.PageID(), true, txn)
		t.unpinPage(parentFrame.ID(), false, txn)
		return err
	}

	index := parent.ValueIndex(node.PageID())
	if index < 0 {
		t.unpinPage(node.PageID(), true, txn)
		t.unpinPage(parent.PageID(), false, txn)
		return fmt.Errorf("%w: page %d missing from parent %d", ErrCorrupted, node.PageID(), parent.PageID())
	}

	sibIndex := index - 1
	if index == 0 {
		sibIndex = 1
	}
	sibFrame, err := t.fetchPage(parent.ValueAt(sibIndex), txn)
	if err != nil {
		t.unpinPage(node.PageID(), true, txn)
		t.unpinPage(parent.PageID(), false, txn)
		return err
	}
	sibling, err := asInternalPage(sibFrame, t.keySize)
	if err != nil {
		t.unpinPage(sibFrame.ID(), false, txn)
		t.unpinPage(node.PageID(), true, txn)
		t.unpinPage(parent.PageID(), false, txn)
		return err
	}

	if sibling.Size()+node.Size() > t.internalMaxSize {
		// Redistribute one entry through the parent separator.
		var newSep []byte
		if index == 0 {
			sep := copyKey(parent.KeyAt(sibIndex))
			newSep, err = sibling.MoveFirstToEndOf(node, sep, t.bpm)
			if err == nil {
				parent.SetKeyAt(sibIndex, newSep)
			}
		} else {
			sep := copyKey(parent.KeyAt(index))
			newSep, err = sibling.MoveLastToFrontOf(node, sep, t.bpm)
			if err == nil {
				parent.SetKeyAt(index, newSep)
			}
		}
		if uerr := t.unpinPage(sibling.PageID(), true, txn); err == nil {
			err = uerr
		}
		if uerr := t.unpinPage(node.PageID(), true, txn); err == nil {
			err = uerr
		}
		if uerr := t.unpinPage(parent.PageID(), true, txn); err == nil {
			err = uerr
		}
		return err
	}

	// Coalesce, always into the left of the two pages.
	left, right, rightIndex := sibling, node, index
	if index == 0 {
		left, right, rightIndex = node, sibling, sibIndex
	}
	middleKey := copyKey(parent.KeyAt(rightIndex))
	if err := right.MoveAllTo(left, middleKey, t.bpm); err != nil {
		t.unpinPage(right.PageID(), true, txn)
		t.unpinPage(left.PageID(), true, txn)
		t.unpinPage(parent.PageID(), true, txn)
		return err
	}

	rightID := right.PageID()
	if err := t.unpinPage(rightID, false, txn); err != nil {
		return err
	}
	if err := t.unpinPage(left.PageID(), true, txn); err != nil {
		return err
	}
	if err := t.deletePage(rightID, txn); err != nil {
		return err
	}

	parent.Remove(rightIndex)
	return t.finishParentUnderflow(parent, txn)
}

// finishParentUnderflow releases the parent after a child merge,
// recursing upward when the parent itself underflows and collapsing the
// root when necessary. The parent arrives pinned and dirty.
func (t *BPlusTree) finishParentUnderflow(parent *InternalPage, txn *tx.Transaction) error {
	if parent.Parent() == storage.InvalidPageID {
		return t.adjustRoot(parent.Frame(), txn)
	}
	if parent.Size() < t.minInternalSize() {
		return t.coalesceOrRedistributeInternal(parent, txn)
	}
	return t.unpinPage(parent.PageID(), true, txn)
}

// adjustRoot handles the two root special cases after a removal: an
// internal root left with a single child is replaced by that child, and
// a leaf root left empty makes the tree empty. The root frame arrives
// pinned and is released here.
func (t *BPlusTree) adjustRoot(rootFrame *storage.Page, txn *tx.Transaction) error {
	id := rootFrame.ID()

	switch pageTypeOf(rootFrame) {
	case pageTypeInternal:
		root, err := asInternalPage(rootFrame, t.keySize)
		if err != nil {
			t.unpinPage(id, true, txn)
			return err
		}
		if root.Size() > 1 {
			return t.unpinPage(id, true, txn)
		}

		// Promote the only child.
		child := root.RemoveAndReturnOnlyChild()
		childFrame, err := t.fetchPage(child, txn)
		if err != nil {
			t.unpinPage(id, true, txn)
			return err
		}
		setPageParent(childFrame, storage.InvalidPageID)
		if err := t.unpinPage(child, true, txn); err != nil {
			return err
		}

		t.root = child
		if err := t.updateRootPageID(false, txn); err != nil {
			t.unpinPage(id, false, txn)
			return err
		}
		if err := t.unpinPage(id, false, txn); err != nil {
			return err
		}
		return t.deletePage(id, txn)

	case pageTypeLeaf:
		leaf, err := asLeafPage(rootFrame, t.keySize)
		if err != nil {
			t.unpinPage(id, true, txn)
			return err
		}
		if leaf.Size() > 0 {
			return t.unpinPage(id, true, txn)
		}

		// The last key is gone: the tree is empty.
		t.root = storage.InvalidPageID
		if err := t.updateRootPageID(false, txn); err != nil {
			t.unpinPage(id, false, txn)
			return err
		}
		if err := t.unpinPage(id, false, txn); err != nil {
			return err
		}
		return t.deletePage(id, txn)

	default:
		t.unpinPage(id, false, txn)
		return fmt.Errorf("%w: root page %d has invalid type", ErrCorrupted, id)
	}
}

// updateRootPageID publishes the current root in the header page. With
// insertRecord set a new record is created for the index; an existing
// record is updated in place either way, so re-creating an index that
// was emptied earlier reuses its record.
func (t *BPlusTree) updateRootPageID(insertRecord bool, txn *tx.Transaction) error {
	frame, err := t.fetchPage(storage.HeaderPageID, txn)
	if err != nil {
		return err
	}

	header := storage.AsHeaderPage(frame)
	ok := false
	if insertRecord {
		ok = header.InsertRecord(t.name, t.root)
	}
	if !ok {
		ok = header.UpdateRecord(t.name, t.root)
	}

	if !ok {
		t.unpinPage(storage.HeaderPageID, false, txn)
		return ErrHeaderFull
	}
	return t.unpinPage(storage.HeaderPageID, true, txn)
}

// InsertFromFile bulk-loads the tree from a text file holding one
// 64-bit integer key per line. The rid for each key is synthesized from
// the key itself. Duplicate keys are skipped.
func (t *BPlusTree) InsertFromFile(path string, txn *tx.Transaction) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		v, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			return fmt.Errorf("parsing key %q: %w", line, err)
		}
		rid := RID{PageID: storage.PageID(int32(v)), Slot: uint32(v)}
		if _, err := t.Insert(Int64Key(v), rid, txn); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// RemoveFromFile removes every key listed in a text file holding one
// 64-bit integer key per line.
func (t *BPlusTree) RemoveFromFile(path string, txn *tx.Transaction) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		v, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			return fmt.Errorf("parsing key %q: %w", line, err)
		}
		if err := t.Remove(Int64Key(v), txn); err != nil {
			return err
		}
	}
	return scanner.Err()
}
