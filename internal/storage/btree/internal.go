package btree

import (
	"encoding/binary"
	"fmt"

	"github.com/wanderingj/db/internal/storage"
)

// InternalPage is a typed view of an internal index page. Slot 0 holds
// only a child pointer; its key bytes are never read. For i >= 1, every
// key reachable through child i is >= the key in slot i and every key
// through child i-1 is below it.
type InternalPage struct {
	treePage
}

// childSize is the on-page size of a child pointer.
const childSize = 4

// internalCapacity derives the slot capacity of an internal page for
// the given key width. One slot is held back so an insert can
// transiently overfill the page before the split moves half of it out.
func internalCapacity(keySize int) int {
	return (storage.PageSize-headerSize)/(keySize+childSize) - 1
}

// initInternalPage formats a fresh frame as an empty internal page.
func initInternalPage(frame *storage.Page, parent storage.PageID, keySize, maxSize int) *InternalPage {
	initPageHeader(frame, pageTypeInternal, keySize, maxSize, parent)
	return &InternalPage{treePage{frame}}
}

// asInternalPage wraps a fetched frame as an internal view, validating
// its header.
func asInternalPage(frame *storage.Page, keySize int) (*InternalPage, error) {
	if err := checkPageHeader(frame, pageTypeInternal, keySize); err != nil {
		return nil, err
	}
	return &InternalPage{treePage{frame}}, nil
}

// slotSize returns the on-page size of one (key, child) slot.
func (ip *InternalPage) slotSize() int {
	return ip.KeySize() + childSize
}

// slotOffset returns the byte offset of slot i.
func (ip *InternalPage) slotOffset(i int) int {
	return headerSize + i*ip.slotSize()
}

// KeyAt returns the key in slot i. Slot 0's key is an unused sentinel.
// The slice aliases the frame; copy it before unpinning the page.
func (ip *InternalPage) KeyAt(i int) []byte {
	off := ip.slotOffset(i)
	return ip.frame.Data()[off : off+ip.KeySize()]
}

// SetKeyAt overwrites the key in slot i.
func (ip *InternalPage) SetKeyAt(i int, key []byte) {
	off := ip.slotOffset(i)
	copy(ip.frame.Data()[off:off+ip.KeySize()], key)
}

// ValueAt returns the child page id in slot i.
func (ip *InternalPage) ValueAt(i int) storage.PageID {
	off := ip.slotOffset(i) + ip.KeySize()
	return storage.PageID(binary.LittleEndian.Uint32(ip.frame.Data()[off : off+childSize]))
}

// SetValueAt overwrites the child page id in slot i.
func (ip *InternalPage) SetValueAt(i int, child storage.PageID) {
	off := ip.slotOffset(i) + ip.KeySize()
	binary.LittleEndian.PutUint32(ip.frame.Data()[off:off+childSize], uint32(child))
}

// ValueIndex returns the slot whose child pointer equals child, or -1.
func (ip *InternalPage) ValueIndex(child storage.PageID) int {
	for i := 0; i < ip.Size(); i++ {
		if ip.ValueAt(i) == child {
			return i
		}
	}
	return -1
}

// Lookup returns the child to descend into for key: the child of the
// largest slot i >= 1 whose key is <= key, or child 0 if no such slot
// exists.
func (ip *InternalPage) Lookup(key []byte, cmp Comparator) storage.PageID {
	low, high := 1, ip.Size()-1
	target := 0
	for low <= high {
		mid := (low + high) / 2
		if cmp(ip.KeyAt(mid), key) <= 0 {
			target = mid
			low = mid + 1
		} else {
			high = mid - 1
		}
	}
	return ip.ValueAt(target)
}

// PopulateNewRoot initializes this page as the root produced by a
// split: child 0 is the old root, slot 1 carries the separator and the
// new sibling.
func (ip *InternalPage) PopulateNewRoot(left storage.PageID, sepKey []byte, right storage.PageID) {
	ip.SetValueAt(0, left)
	ip.SetKeyAt(1, sepKey)
	ip.SetValueAt(1, right)
	ip.setSize(2)
}

// InsertNodeAfter places (key, newChild) immediately after the slot
// whose child is oldChild and returns the new size.
func (ip *InternalPage) InsertNodeAfter(oldChild storage.PageID, key []byte, newChild storage.PageID) int {
	size := ip.Size()
	i := ip.ValueIndex(oldChild)

	data := ip.frame.Data()
	copy(data[ip.slotOffset(i+2):ip.slotOffset(size+1)], data[ip.slotOffset(i+1):ip.slotOffset(size)])
	ip.SetKeyAt(i+1, key)
	ip.SetValueAt(i+1, newChild)
	ip.setSize(size + 1)
	return size + 1
}

// Remove deletes slot i, shifting the suffix left.
func (ip *InternalPage) Remove(i int) {
	size := ip.Size()
	data := ip.frame.Data()
	copy(data[ip.slotOffset(i):ip.slotOffset(size-1)], data[ip.slotOffset(i+1):ip.slotOffset(size)])
	ip.setSize(size - 1)
}

// RemoveAndReturnOnlyChild empties the page and returns its last
// remaining child. Used when an internal root collapses.
func (ip *InternalPage) RemoveAndReturnOnlyChild() storage.PageID {
	child := ip.ValueAt(0)
	ip.setSize(0)
	return child
}

// MoveHalfTo moves the upper half of the slots to recipient during a
// split, re-parenting every moved child through the buffer pool. The
// recipient's slot 0 ends up holding the first moved pair; its key is
// the separator the caller pushes into the parent before it becomes
// the unused sentinel.
func (ip *InternalPage) MoveHalfTo(recipient *InternalPage, bpm *storage.BufferPool) error {
	size := ip.Size()
	keep := size - size/2

	data := ip.frame.Data()
	copy(recipient.frame.Data()[recipient.slotOffset(0):recipient.slotOffset(size-keep)],
		data[ip.slotOffset(keep):ip.slotOffset(size)])
	recipient.setSize(size - keep)
	ip.setSize(keep)

	return recipient.adoptChildren(0, recipient.Size(), bpm)
}

// MoveAllTo appends every slot of this page to recipient during a
// coalesce. middleKey, the parent separator between the two pages,
// becomes the key attached to this page's first child so the merged
// page stays ordered. Moved children are re-parented. The caller
// deletes this page afterwards.
func (ip *InternalPage) MoveAllTo(recipient *InternalPage, middleKey []byte, bpm *storage.BufferPool) error {
	size := ip.Size()
	rsize := recipient.Size()

	ip.SetKeyAt(0, middleKey)
	copy(recipient.frame.Data()[recipient.slotOffset(rsize):recipient.slotOffset(rsize+size)],
		ip.frame.Data()[ip.slotOffset(0):ip.slotOffset(size)])
	recipient.setSize(rsize + size)
	ip.setSize(0)

	return recipient.adoptChildren(rsize, rsize+size, bpm)
}

// MoveFirstToEndOf moves this page's first child to the end of
// recipient during redistribution with a right sibling. sepKey is the
// current parent separator between recipient and this page; it becomes
// the key of the appended slot. The new separator, this page's old
// slot-1 key, is returned for the caller to install in the parent.
func (ip *InternalPage) MoveFirstToEndOf(recipient *InternalPage, sepKey []byte, bpm *storage.BufferPool) ([]byte, error) {
	newSep := copyKey(ip.KeyAt(1))
	child := ip.ValueAt(0)

	rsize := recipient.Size()
	recipient.SetKeyAt(rsize, sepKey)
	recipient.SetValueAt(rsize, child)
	recipient.setSize(rsize + 1)

	ip.Remove(0)

	if err := recipient.adoptChildren(rsize, rsize+1, bpm); err != nil {
		return nil, err
	}
	return newSep, nil
}

// MoveLastToFrontOf moves this page's last child to the front of
// recipient during redistribution with a left sibling. sepKey is the
// current parent separator between this page and recipient; it becomes
// the key of the recipient's old first slot. The new separator, the
// moved slot's key, is returned for the caller to install in the
// parent.
func (ip *InternalPage) MoveLastToFrontOf(recipient *InternalPage, sepKey []byte, bpm *storage.BufferPool) ([]byte, error) {
	size := ip.Size()
	newSep := copyKey(ip.KeyAt(size - 1))
	child := ip.ValueAt(size - 1)

	rsize := recipient.Size()
	rdata := recipient.frame.Data()
	copy(rdata[recipient.slotOffset(1):recipient.slotOffset(rsize+1)],
		rdata[recipient.slotOffset(0):recipient.slotOffset(rsize)])
	recipient.SetValueAt(0, child)
	recipient.SetKeyAt(1, sepKey)
	recipient.setSize(rsize + 1)

	ip.setSize(size - 1)

	if err := recipient.adoptChildren(0, 1, bpm); err != nil {
		return nil, err
	}
	return newSep, nil
}

// adoptChildren rewrites the parent pointer of the children in slots
// [from, to) to this page. Each child is fetched, patched and unpinned
// dirty; these are the only fetches the engine performs on pages it did
// not traverse into.
func (ip *InternalPage) adoptChildren(from, to int, bpm *storage.BufferPool) error {
	for i := from; i < to; i++ {
		childID := ip.ValueAt(i)
		child, err := bpm.FetchPage(childID)
		if err != nil {
			return fmt.Errorf("re-parenting child %d: %w", childID, err)
		}
		setPageParent(child, ip.PageID())
		if err := bpm.UnpinPage(childID, true); err != nil {
			return err
		}
	}
	return nil
}
