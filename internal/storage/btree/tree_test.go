package btree

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/wanderingj/db/internal/storage"
)

// Helper function to create a small-order tree over a temporary file.
// Pin-leak checking is always on.
func createTestTree(t *testing.T, leafMax, internalMax int) (*BPlusTree, *storage.BufferPool, func()) {
	t.Helper()

	bpm, cleanup := createTestPool(t, 64)

	tree, err := Open("test_index", bpm, CompareInt64Keys, Options{
		LeafMaxSize:     leafMax,
		InternalMaxSize: internalMax,
		DebugChecks:     true,
	})
	if err != nil {
		cleanup()
		t.Fatalf("failed to open tree: %v", err)
	}
	return tree, bpm, cleanup
}

// insertKey inserts one integer key with a rid derived from it.
func insertKey(t *testing.T, tree *BPlusTree, v int64) {
	t.Helper()

	ok, err := tree.Insert(Int64Key(v), RID{PageID: storage.PageID(v), Slot: uint32(v)}, nil)
	if err != nil {
		t.Fatalf("insert %d failed: %v", v, err)
	}
	if !ok {
		t.Fatalf("insert %d reported duplicate", v)
	}
}

// removeKey removes one integer key.
func removeKey(t *testing.T, tree *BPlusTree, v int64) {
	t.Helper()

	if err := tree.Remove(Int64Key(v), nil); err != nil {
		t.Fatalf("remove %d failed: %v", v, err)
	}
}

// mustValidate fails the test if the tree violates an invariant.
func mustValidate(t *testing.T, tree *BPlusTree) {
	t.Helper()

	if err := tree.Validate(nil); err != nil {
		t.Fatalf("tree invalid: %v", err)
	}
}

// collectKeys returns every key in iteration order.
func collectKeys(t *testing.T, tree *BPlusTree) []int64 {
	t.Helper()

	it, err := tree.Begin(nil)
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	defer it.Close()

	var keys []int64
	for !it.IsEnd() {
		keys = append(keys, Int64FromKey(it.Key()))
		if err := it.Next(); err != nil {
			t.Fatalf("iterator failed: %v", err)
		}
	}
	return keys
}

// treeLeaves walks the leaf chain and returns the keys per leaf.
func treeLeaves(t *testing.T, tree *BPlusTree) [][]int64 {
	t.Helper()

	if tree.root == storage.InvalidPageID {
		return nil
	}

	// Descend to the leftmost leaf.
	id := tree.root
	for {
		frame, err := tree.bpm.FetchPage(id)
		if err != nil {
			t.Fatalf("fetch %d failed: %v", id, err)
		}
		if pageTypeOf(frame) == pageTypeLeaf {
			tree.bpm.UnpinPage(id, false)
			break
		}
		node, err := asInternalPage(frame, tree.keySize)
		if err != nil {
			t.Fatalf("bad internal page %d: %v", id, err)
		}
		next := node.ValueAt(0)
		tree.bpm.UnpinPage(id, false)
		id = next
	}

	// Walk the chain.
	var leaves [][]int64
	for id != storage.InvalidPageID {
		frame, err := tree.bpm.FetchPage(id)
		if err != nil {
			t.Fatalf("fetch %d failed: %v", id, err)
		}
		leaf, err := asLeafPage(frame, tree.keySize)
		if err != nil {
			t.Fatalf("bad leaf page %d: %v", id, err)
		}
		leaves = append(leaves, leafKeys(leaf))
		next := leaf.Next()
		tree.bpm.UnpinPage(id, false)
		id = next
	}
	return leaves
}

// rootSeparators returns the root's separator keys, or nil when the
// root is a leaf.
func rootSeparators(t *testing.T, tree *BPlusTree) []int64 {
	t.Helper()

	frame, err := tree.bpm.FetchPage(tree.root)
	if err != nil {
		t.Fatalf("fetch root failed: %v", err)
	}
	defer tree.bpm.UnpinPage(tree.root, false)

	if pageTypeOf(frame) != pageTypeInternal {
		return nil
	}
	node, err := asInternalPage(frame, tree.keySize)
	if err != nil {
		t.Fatalf("bad root page: %v", err)
	}

	var seps []int64
	for i := 1; i < node.Size(); i++ {
		seps = append(seps, Int64FromKey(node.KeyAt(i)))
	}
	return seps
}

// headerRoot reads the index record straight off the header page.
func headerRoot(t *testing.T, tree *BPlusTree) (storage.PageID, bool) {
	t.Helper()

	frame, err := tree.bpm.FetchPage(storage.HeaderPageID)
	if err != nil {
		t.Fatalf("fetch header failed: %v", err)
	}
	defer tree.bpm.UnpinPage(storage.HeaderPageID, false)

	return storage.AsHeaderPage(frame).GetRecord(tree.name)
}

func equalLeaves(a, b [][]int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equalInt64(a[i], b[i]) {
			return false
		}
	}
	return true
}

// =============================================================================
// Round-Trip Laws
// =============================================================================

func TestInsertThenGet(t *testing.T) {
	tree, _, cleanup := createTestTree(t, 4, 4)
	defer cleanup()

	want := RID{PageID: 42, Slot: 7}
	ok, err := tree.Insert(Int64Key(1), want, nil)
	if err != nil || !ok {
		t.Fatalf("insert failed: %v %v", ok, err)
	}

	rid, found, err := tree.GetValue(Int64Key(1), nil)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !found || rid != want {
		t.Errorf("GetValue = %v %v, want %v", rid, found, want)
	}
}

func TestInsertDuplicateKeepsValue(t *testing.T) {
	tree, _, cleanup := createTestTree(t, 4, 4)
	defer cleanup()

	first := RID{PageID: 1, Slot: 1}
	if ok, err := tree.Insert(Int64Key(9), first, nil); err != nil || !ok {
		t.Fatalf("insert failed: %v %v", ok, err)
	}

	ok, err := tree.Insert(Int64Key(9), RID{PageID: 2, Slot: 2}, nil)
	if err != nil {
		t.Fatalf("duplicate insert errored: %v", err)
	}
	if ok {
		t.Error("duplicate insert must return false")
	}

	rid, found, _ := tree.GetValue(Int64Key(9), nil)
	if !found || rid != first {
		t.Errorf("duplicate insert changed the value: %v", rid)
	}
}

func TestInsertRemoveGet(t *testing.T) {
	tree, _, cleanup := createTestTree(t, 4, 4)
	defer cleanup()

	insertKey(t, tree, 5)
	removeKey(t, tree, 5)

	_, found, err := tree.GetValue(Int64Key(5), nil)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if found {
		t.Error("removed key still visible")
	}
}

func TestGetValueEmptyTree(t *testing.T) {
	tree, _, cleanup := createTestTree(t, 4, 4)
	defer cleanup()

	if !tree.IsEmpty() {
		t.Error("fresh tree not empty")
	}
	_, found, err := tree.GetValue(Int64Key(1), nil)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if found {
		t.Error("empty tree returned a value")
	}
}

func TestRemoveAbsentKey(t *testing.T) {
	tree, _, cleanup := createTestTree(t, 4, 4)
	defer cleanup()

	// Removing from an empty tree and removing an absent key are both
	// silent no-ops.
	removeKey(t, tree, 1)
	insertKey(t, tree, 1)
	removeKey(t, tree, 2)

	if keys := collectKeys(t, tree); !equalInt64(keys, []int64{1}) {
		t.Errorf("unexpected keys: %v", keys)
	}
}

func TestKeySizeMismatch(t *testing.T) {
	tree, _, cleanup := createTestTree(t, 4, 4)
	defer cleanup()

	if _, err := tree.Insert([]byte{1, 2, 3}, RID{}, nil); err == nil {
		t.Error("expected key size error on insert")
	}
	if _, _, err := tree.GetValue([]byte{1}, nil); err == nil {
		t.Error("expected key size error on get")
	}
	if err := tree.Remove(nil, nil); err == nil {
		t.Error("expected key size error on remove")
	}
}

func TestPermutationsReachSameKeySet(t *testing.T) {
	perms := [][]int64{
		{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12},
		{12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1},
		{6, 1, 12, 7, 3, 9, 2, 11, 5, 8, 10, 4},
	}
	want := []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}

	for i, perm := range perms {
		tree, _, cleanup := createTestTree(t, 4, 4)

		for _, v := range perm {
			insertKey(t, tree, v)
			mustValidate(t, tree)
		}
		if keys := collectKeys(t, tree); !equalInt64(keys, want) {
			t.Errorf("permutation %d: keys %v, want %v", i, keys, want)
		}

		cleanup()
	}
}

// =============================================================================
// Split Scenarios
// =============================================================================

func TestRootLeafSplitBoundary(t *testing.T) {
	tree, _, cleanup := createTestTree(t, 4, 4)
	defer cleanup()

	// Up to max_size - 1 keys the root stays a single leaf.
	for v := int64(1); v <= 3; v++ {
		insertKey(t, tree, v)
	}
	if seps := rootSeparators(t, tree); seps != nil {
		t.Fatalf("premature split: root separators %v", seps)
	}

	// The next insert fills the leaf and must split it.
	insertKey(t, tree, 4)
	mustValidate(t, tree)

	if seps := rootSeparators(t, tree); !equalInt64(seps, []int64{3}) {
		t.Errorf("root separators %v, want [3]", seps)
	}
	if leaves := treeLeaves(t, tree); !equalLeaves(leaves, [][]int64{{1, 2}, {3, 4}}) {
		t.Errorf("leaves %v", leaves)
	}
}

func TestScenarioSequentialInsertSplits(t *testing.T) {
	tree, _, cleanup := createTestTree(t, 4, 4)
	defer cleanup()

	for v := int64(1); v <= 5; v++ {
		insertKey(t, tree, v)
		mustValidate(t, tree)
	}

	if leaves := treeLeaves(t, tree); !equalLeaves(leaves, [][]int64{{1, 2}, {3, 4, 5}}) {
		t.Errorf("leaves %v, want [[1 2] [3 4 5]]", leaves)
	}
	if seps := rootSeparators(t, tree); !equalInt64(seps, []int64{3}) {
		t.Errorf("root separators %v, want [3]", seps)
	}
}

func TestScenarioContinuedInserts(t *testing.T) {
	tree, _, cleanup := createTestTree(t, 4, 4)
	defer cleanup()

	for v := int64(1); v <= 8; v++ {
		insertKey(t, tree, v)
		mustValidate(t, tree)
	}

	if leaves := treeLeaves(t, tree); !equalLeaves(leaves, [][]int64{{1, 2}, {3, 4}, {5, 6}, {7, 8}}) {
		t.Errorf("leaves %v, want [[1 2] [3 4] [5 6] [7 8]]", leaves)
	}
	if seps := rootSeparators(t, tree); !equalInt64(seps, []int64{3, 5, 7}) {
		t.Errorf("root separators %v, want [3 5 7]", seps)
	}
}

func TestRootInternalSplit(t *testing.T) {
	tree, _, cleanup := createTestTree(t, 4, 4)
	defer cleanup()

	// Enough sequential keys to split the root internal page and grow
	// the tree to three levels.
	for v := int64(1); v <= 12; v++ {
		insertKey(t, tree, v)
		mustValidate(t, tree)
	}

	want := []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	if keys := collectKeys(t, tree); !equalInt64(keys, want) {
		t.Errorf("keys %v", keys)
	}
	// Three levels: the root routes to internal pages, not leaves.
	frame, err := tree.bpm.FetchPage(tree.root)
	if err != nil {
		t.Fatalf("fetch root: %v", err)
	}
	root, err := asInternalPage(frame, tree.keySize)
	if err != nil {
		t.Fatalf("root is not internal: %v", err)
	}
	childID := root.ValueAt(0)
	tree.bpm.UnpinPage(tree.root, false)

	child, err := tree.bpm.FetchPage(childID)
	if err != nil {
		t.Fatalf("fetch child: %v", err)
	}
	if pageTypeOf(child) != pageTypeInternal {
		t.Error("expected a three-level tree")
	}
	tree.bpm.UnpinPage(childID, false)
}

// =============================================================================
// Delete Scenarios
// =============================================================================

// scenarioTree builds the four-leaf tree from the continued-insert
// scenario: leaves [1 2] [3 4] [5 6] [7 8] under root separators 3 5 7.
func scenarioTree(t *testing.T) (*BPlusTree, *storage.BufferPool, func()) {
	t.Helper()

	tree, bpm, cleanup := createTestTree(t, 4, 4)
	for v := int64(1); v <= 8; v++ {
		insertKey(t, tree, v)
	}
	return tree, bpm, cleanup
}

func TestScenarioUnderflowCoalescesLeft(t *testing.T) {
	tree, _, cleanup := scenarioTree(t)
	defer cleanup()

	// Removing 4 drops leaf [3 4] below minimum occupancy. Its left
	// sibling [1 2] cannot spare an entry (2+1 is not above max_size),
	// so the two leaves merge.
	removeKey(t, tree, 4)
	mustValidate(t, tree)

	if leaves := treeLeaves(t, tree); !equalLeaves(leaves, [][]int64{{1, 2, 3}, {5, 6}, {7, 8}}) {
		t.Errorf("leaves %v, want [[1 2 3] [5 6] [7 8]]", leaves)
	}
	if seps := rootSeparators(t, tree); !equalInt64(seps, []int64{5, 7}) {
		t.Errorf("root separators %v, want [5 7]", seps)
	}
}

func TestScenarioLeftmostCoalesce(t *testing.T) {
	tree, _, cleanup := scenarioTree(t)
	defer cleanup()

	// Emptying the leftmost leaf merges it with its right sibling.
	removeKey(t, tree, 1)
	mustValidate(t, tree)
	removeKey(t, tree, 2)
	mustValidate(t, tree)

	if leaves := treeLeaves(t, tree); !equalLeaves(leaves, [][]int64{{3, 4}, {5, 6}, {7, 8}}) {
		t.Errorf("leaves %v, want [[3 4] [5 6] [7 8]]", leaves)
	}
	if seps := rootSeparators(t, tree); !equalInt64(seps, []int64{5, 7}) {
		t.Errorf("root separators %v, want [5 7]", seps)
	}
}

func TestLeafRedistributionFromLeftSibling(t *testing.T) {
	// Leaves of max_size 6 (minimum occupancy 3): with max_size 4 a
	// sibling never holds enough entries for redistribution to apply.
	tree, _, cleanup := createTestTree(t, 6, 4)
	defer cleanup()

	// Build leaves [1 2 3 4 5] [6 7 8] so the left sibling has an entry
	// to spare, then underflow the right leaf.
	for _, v := range []int64{1, 2, 3, 6, 7, 8, 4, 5} {
		insertKey(t, tree, v)
	}
	if leaves := treeLeaves(t, tree); !equalLeaves(leaves, [][]int64{{1, 2, 3, 4, 5}, {6, 7, 8}}) {
		t.Fatalf("setup leaves %v", leaves)
	}

	removeKey(t, tree, 8)
	mustValidate(t, tree)

	// 5+2 > max_size, so the left sibling lends its last entry and the
	// separator follows the moved key.
	if leaves := treeLeaves(t, tree); !equalLeaves(leaves, [][]int64{{1, 2, 3, 4}, {5, 6, 7}}) {
		t.Errorf("leaves %v, want [[1 2 3 4] [5 6 7]]", leaves)
	}
	if seps := rootSeparators(t, tree); !equalInt64(seps, []int64{5}) {
		t.Errorf("root separators %v, want [5]", seps)
	}
}

func TestLeafRedistributionFromRightSibling(t *testing.T) {
	// Leaves of max_size 6, as in the left-sibling case.
	tree, _, cleanup := createTestTree(t, 6, 4)
	defer cleanup()

	// Build leaves [1 2 3] [4 5 6 7 8], then underflow the leftmost leaf
	// so it borrows from its right sibling (2+5 > max_size).
	for v := int64(1); v <= 8; v++ {
		insertKey(t, tree, v)
	}

	removeKey(t, tree, 2)
	mustValidate(t, tree)

	if leaves := treeLeaves(t, tree); !equalLeaves(leaves, [][]int64{{1, 3, 4}, {5, 6, 7, 8}}) {
		t.Errorf("leaves %v, want [[1 3 4] [5 6 7 8]]", leaves)
	}
	if seps := rootSeparators(t, tree); !equalInt64(seps, []int64{5}) {
		t.Errorf("root separators %v, want [5]", seps)
	}
}

func TestInternalRootCollapse(t *testing.T) {
	tree, _, cleanup := createTestTree(t, 4, 4)
	defer cleanup()

	for v := int64(1); v <= 5; v++ {
		insertKey(t, tree, v)
	}

	// Shrinking back to one leaf must replace the internal root with
	// that leaf.
	removeKey(t, tree, 5)
	removeKey(t, tree, 4)
	mustValidate(t, tree)

	frame, err := tree.bpm.FetchPage(tree.root)
	if err != nil {
		t.Fatalf("fetch root: %v", err)
	}
	if pageTypeOf(frame) != pageTypeLeaf {
		t.Error("expected the root to collapse to a leaf")
	}
	if pageParentOf(frame) != storage.InvalidPageID {
		t.Error("promoted root still has a parent")
	}
	tree.bpm.UnpinPage(tree.root, false)

	if keys := collectKeys(t, tree); !equalInt64(keys, []int64{1, 2, 3}) {
		t.Errorf("keys %v", keys)
	}
}

func TestDeleteLastKeyEmptiesTree(t *testing.T) {
	tree, bpm, cleanup := createTestTree(t, 4, 4)
	defer cleanup()

	insertKey(t, tree, 1)
	removeKey(t, tree, 1)

	if !tree.IsEmpty() {
		t.Error("tree not empty after removing the last key")
	}
	if root, ok := headerRoot(t, tree); !ok || root != storage.InvalidPageID {
		t.Errorf("header record = %d %v, want InvalidPageID", root, ok)
	}
	if stats := bpm.Stats(); stats.PinnedPages != 0 {
		t.Errorf("%d pages still pinned", stats.PinnedPages)
	}

	// The emptied index can be repopulated; its header record is
	// reused.
	insertKey(t, tree, 2)
	if keys := collectKeys(t, tree); !equalInt64(keys, []int64{2}) {
		t.Errorf("keys after repopulating: %v", keys)
	}
	if root, ok := headerRoot(t, tree); !ok || root == storage.InvalidPageID {
		t.Errorf("header record = %d %v after repopulating", root, ok)
	}
}

func TestSequentialInsertReverseRemove(t *testing.T) {
	tree, bpm, cleanup := createTestTree(t, 4, 4)
	defer cleanup()

	for v := int64(1); v <= 100; v++ {
		insertKey(t, tree, v)
	}
	mustValidate(t, tree)

	for v := int64(100); v >= 1; v-- {
		removeKey(t, tree, v)
		mustValidate(t, tree)
	}

	if !tree.IsEmpty() {
		t.Error("tree not empty")
	}
	if stats := bpm.Stats(); stats.PinnedPages != 0 {
		t.Errorf("%d pages still pinned", stats.PinnedPages)
	}
	if root, ok := headerRoot(t, tree); !ok || root != storage.InvalidPageID {
		t.Errorf("header record = %d %v, want InvalidPageID", root, ok)
	}
}

// =============================================================================
// Mixed Workloads
// =============================================================================

func TestDeepTreeDeletions(t *testing.T) {
	tree, _, cleanup := createTestTree(t, 4, 4)
	defer cleanup()

	for v := int64(1); v <= 50; v++ {
		insertKey(t, tree, v)
	}

	// Deleting the low half forces internal-page redistribution and
	// merges at depth.
	for v := int64(1); v <= 25; v++ {
		removeKey(t, tree, v)
		mustValidate(t, tree)
	}

	want := make([]int64, 0, 25)
	for v := int64(26); v <= 50; v++ {
		want = append(want, v)
	}
	if keys := collectKeys(t, tree); !equalInt64(keys, want) {
		t.Errorf("keys %v", keys)
	}
}

func TestRandomizedWorkload(t *testing.T) {
	tree, bpm, cleanup := createTestTree(t, 4, 4)
	defer cleanup()

	rng := rand.New(rand.NewSource(1))
	present := make(map[int64]bool)

	for op := 0; op < 2000; op++ {
		v := int64(rng.Intn(300))
		if rng.Intn(3) == 0 {
			removeKey(t, tree, v)
			delete(present, v)
		} else {
			ok, err := tree.Insert(Int64Key(v), RID{Slot: uint32(v)}, nil)
			if err != nil {
				t.Fatalf("insert %d failed: %v", v, err)
			}
			if ok == present[v] {
				t.Fatalf("insert %d returned %v, present %v", v, ok, present[v])
			}
			present[v] = true
		}

		if op%100 == 0 {
			mustValidate(t, tree)
		}
	}
	mustValidate(t, tree)

	// The reachable key set matches the reference exactly.
	keys := collectKeys(t, tree)
	if len(keys) != len(present) {
		t.Fatalf("tree has %d keys, reference has %d", len(keys), len(present))
	}
	for _, v := range keys {
		if !present[v] {
			t.Errorf("unexpected key %d", v)
		}
	}
	for v := range present {
		if _, found, _ := tree.GetValue(Int64Key(v), nil); !found {
			t.Errorf("missing key %d", v)
		}
	}

	if stats := bpm.Stats(); stats.PinnedPages != 0 {
		t.Errorf("%d pages still pinned", stats.PinnedPages)
	}
}

// =============================================================================
// Persistence
// =============================================================================

func TestReopenPersists(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "test.db")

	dm, err := storage.OpenDiskManager(path, storage.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open disk manager: %v", err)
	}
	bpm := storage.NewBufferPool(64, dm)

	tree, err := Open("orders", bpm, CompareInt64Keys, Options{LeafMaxSize: 4, InternalMaxSize: 4})
	if err != nil {
		t.Fatalf("failed to open tree: %v", err)
	}
	for v := int64(1); v <= 20; v++ {
		insertKey(t, tree, v)
	}
	if err := bpm.FlushAll(); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	if err := dm.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	// A fresh process finds the root through the header page.
	dm, err = storage.OpenDiskManager(path, storage.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to reopen disk manager: %v", err)
	}
	defer dm.Close()
	bpm = storage.NewBufferPool(64, dm)

	tree, err = Open("orders", bpm, CompareInt64Keys, Options{
		LeafMaxSize:     4,
		InternalMaxSize: 4,
		DebugChecks:     true,
	})
	if err != nil {
		t.Fatalf("failed to reopen tree: %v", err)
	}
	mustValidate(t, tree)

	for v := int64(1); v <= 20; v++ {
		rid, found, err := tree.GetValue(Int64Key(v), nil)
		if err != nil {
			t.Fatalf("get %d failed: %v", v, err)
		}
		if !found || rid.Slot != uint32(v) {
			t.Errorf("key %d: rid %v found %v", v, rid, found)
		}
	}
}

// =============================================================================
// Bulk Ingestion
// =============================================================================

// writeKeyFile writes one key per line, with a blank line mixed in.
func writeKeyFile(t *testing.T, keys []int64) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "keys.txt")
	content := ""
	for i, v := range keys {
		if i == len(keys)/2 {
			content += "\n"
		}
		content += fmt.Sprintf("%d\n", v)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write key file: %v", err)
	}
	return path
}

func TestInsertFromFile(t *testing.T) {
	tree, _, cleanup := createTestTree(t, 4, 4)
	defer cleanup()

	keys := []int64{10, 20, 30, 40, 50, 25, 35}
	if err := tree.InsertFromFile(writeKeyFile(t, keys), nil); err != nil {
		t.Fatalf("insert from file failed: %v", err)
	}
	mustValidate(t, tree)

	if got := collectKeys(t, tree); !equalInt64(got, []int64{10, 20, 25, 30, 35, 40, 50}) {
		t.Errorf("keys %v", got)
	}

	// The rid is synthesized from the key.
	rid, found, _ := tree.GetValue(Int64Key(25), nil)
	if !found || rid.Slot != 25 || rid.PageID != 25 {
		t.Errorf("rid for 25 = %v %v", rid, found)
	}
}

func TestRemoveFromFile(t *testing.T) {
	tree, _, cleanup := createTestTree(t, 4, 4)
	defer cleanup()

	if err := tree.InsertFromFile(writeKeyFile(t, []int64{1, 2, 3, 4, 5, 6}), nil); err != nil {
		t.Fatalf("insert from file failed: %v", err)
	}
	if err := tree.RemoveFromFile(writeKeyFile(t, []int64{2, 4, 6}), nil); err != nil {
		t.Fatalf("remove from file failed: %v", err)
	}
	mustValidate(t, tree)

	if got := collectKeys(t, tree); !equalInt64(got, []int64{1, 3, 5}) {
		t.Errorf("keys %v", got)
	}
}

func TestInsertFromFileBadKey(t *testing.T) {
	tree, _, cleanup := createTestTree(t, 4, 4)
	defer cleanup()

	path := filepath.Join(t.TempDir(), "keys.txt")
	if err := os.WriteFile(path, []byte("1\nnot-a-number\n"), 0644); err != nil {
		t.Fatalf("failed to write key file: %v", err)
	}

	if err := tree.InsertFromFile(path, nil); err == nil {
		t.Error("expected parse error")
	}
}
