package btree

import (
	"encoding/binary"

	"github.com/wanderingj/db/internal/storage"
)

// LeafPage is a typed view of a leaf index page. Slots hold (key, rid)
// pairs sorted by key; next links leaves into a forward chain in key
// order.
type LeafPage struct {
	treePage
}

// leafCapacity derives the slot capacity of a leaf for the given key
// width. One slot is held back so an insert can transiently fill the
// page before the split moves half of it out.
func leafCapacity(keySize int) int {
	return (storage.PageSize-leafHeaderSize)/(keySize+ridSize) - 1
}

// initLeafPage formats a fresh frame as an empty leaf.
func initLeafPage(frame *storage.Page, parent storage.PageID, keySize, maxSize int) *LeafPage {
	initPageHeader(frame, pageTypeLeaf, keySize, maxSize, parent)
	lp := &LeafPage{treePage{frame}}
	lp.SetNext(storage.InvalidPageID)
	return lp
}

// asLeafPage wraps a fetched frame as a leaf view, validating its
// header.
func asLeafPage(frame *storage.Page, keySize int) (*LeafPage, error) {
	if err := checkPageHeader(frame, pageTypeLeaf, keySize); err != nil {
		return nil, err
	}
	return &LeafPage{treePage{frame}}, nil
}

// Next returns the id of the next leaf in the chain.
func (lp *LeafPage) Next() storage.PageID {
	return storage.PageID(binary.LittleEndian.Uint32(lp.frame.Data()[offNextPageID : offNextPageID+4]))
}

// SetNext updates the forward sibling pointer.
func (lp *LeafPage) SetNext(next storage.PageID) {
	binary.LittleEndian.PutUint32(lp.frame.Data()[offNextPageID:offNextPageID+4], uint32(next))
}

// slotSize returns the on-page size of one (key, rid) slot.
func (lp *LeafPage) slotSize() int {
	return lp.KeySize() + ridSize
}

// slotOffset returns the byte offset of slot i.
func (lp *LeafPage) slotOffset(i int) int {
	return leafHeaderSize + i*lp.slotSize()
}

// KeyAt returns the key in slot i. The slice aliases the frame; copy it
// before unpinning the page.
func (lp *LeafPage) KeyAt(i int) []byte {
	off := lp.slotOffset(i)
	return lp.frame.Data()[off : off+lp.KeySize()]
}

// RIDAt returns the record id in slot i.
func (lp *LeafPage) RIDAt(i int) RID {
	off := lp.slotOffset(i) + lp.KeySize()
	return readRID(lp.frame.Data()[off : off+ridSize])
}

// setSlot writes (key, rid) into slot i.
func (lp *LeafPage) setSlot(i int, key []byte, rid RID) {
	off := lp.slotOffset(i)
	copy(lp.frame.Data()[off:off+lp.KeySize()], key)
	writeRID(lp.frame.Data()[off+lp.KeySize():off+lp.slotSize()], rid)
}

// KeyIndex returns the smallest index i such that KeyAt(i) >= key, or
// Size() if every key is smaller.
func (lp *LeafPage) KeyIndex(key []byte, cmp Comparator) int {
	low, high := 0, lp.Size()
	for low < high {
		mid := (low + high) / 2
		if cmp(lp.KeyAt(mid), key) < 0 {
			low = mid + 1
		} else {
			high = mid
		}
	}
	return low
}

// Lookup returns the rid for an exact key match.
func (lp *LeafPage) Lookup(key []byte, cmp Comparator) (RID, bool) {
	i := lp.KeyIndex(key, cmp)
	if i < lp.Size() && cmp(lp.KeyAt(i), key) == 0 {
		return lp.RIDAt(i), true
	}
	return RID{}, false
}

// Insert places (key, rid) at its sorted position and returns the new
// size. If the key is already present the page is unchanged and the
// current size is returned.
func (lp *LeafPage) Insert(key []byte, rid RID, cmp Comparator) int {
	size := lp.Size()
	i := lp.KeyIndex(key, cmp)
	if i < size && cmp(lp.KeyAt(i), key) == 0 {
		return size
	}

	data := lp.frame.Data()
	copy(data[lp.slotOffset(i+1):lp.slotOffset(size+1)], data[lp.slotOffset(i):lp.slotOffset(size)])
	lp.setSlot(i, key, rid)
	lp.setSize(size + 1)
	return size + 1
}

// RemoveAndDelete removes the slot holding key, if present, and returns
// the new size. An absent key leaves the page unchanged.
func (lp *LeafPage) RemoveAndDelete(key []byte, cmp Comparator) int {
	size := lp.Size()
	i := lp.KeyIndex(key, cmp)
	if i >= size || cmp(lp.KeyAt(i), key) != 0 {
		return size
	}

	data := lp.frame.Data()
	copy(data[lp.slotOffset(i):lp.slotOffset(size-1)], data[lp.slotOffset(i+1):lp.slotOffset(size)])
	lp.setSize(size - 1)
	return size - 1
}

// MoveHalfTo moves the upper half of the slots to recipient during a
// split. The recipient receives the upper ceil(size/2) pairs and takes
// over this page's position in the leaf chain; this page keeps the
// lower floor(size/2) and points at the recipient. The recipient's
// first key is the separator the caller must push into the parent.
func (lp *LeafPage) MoveHalfTo(recipient *LeafPage) {
	size := lp.Size()
	keep := size / 2

	data := lp.frame.Data()
	copy(recipient.frame.Data()[recipient.slotOffset(0):recipient.slotOffset(size-keep)],
		data[lp.slotOffset(keep):lp.slotOffset(size)])
	recipient.setSize(size - keep)
	lp.setSize(keep)

	recipient.SetNext(lp.Next())
	lp.SetNext(recipient.PageID())
}

// MoveAllTo appends every slot of this page to recipient during a
// coalesce and hands the recipient this page's forward pointer. The
// caller deletes this page afterwards.
func (lp *LeafPage) MoveAllTo(recipient *LeafPage) {
	size := lp.Size()
	rsize := recipient.Size()

	copy(recipient.frame.Data()[recipient.slotOffset(rsize):recipient.slotOffset(rsize+size)],
		lp.frame.Data()[lp.slotOffset(0):lp.slotOffset(size)])
	recipient.setSize(rsize + size)

	recipient.SetNext(lp.Next())
	lp.setSize(0)
	lp.SetNext(storage.InvalidPageID)
}

// MoveFirstToEndOf moves this page's first slot to the end of
// recipient. Used to redistribute into a left sibling; the caller
// refreshes the parent separator to this page's new first key.
func (lp *LeafPage) MoveFirstToEndOf(recipient *LeafPage) {
	size := lp.Size()
	rsize := recipient.Size()

	recipient.setSlot(rsize, lp.KeyAt(0), lp.RIDAt(0))
	recipient.setSize(rsize + 1)

	data := lp.frame.Data()
	copy(data[lp.slotOffset(0):lp.slotOffset(size-1)], data[lp.slotOffset(1):lp.slotOffset(size)])
	lp.setSize(size - 1)
}

// MoveLastToFrontOf moves this page's last slot to the front of
// recipient. Used to redistribute into a right sibling; the caller
// refreshes the parent separator to the recipient's new first key.
func (lp *LeafPage) MoveLastToFrontOf(recipient *LeafPage) {
	size := lp.Size()
	rsize := recipient.Size()

	rdata := recipient.frame.Data()
	copy(rdata[recipient.slotOffset(1):recipient.slotOffset(rsize+1)],
		rdata[recipient.slotOffset(0):recipient.slotOffset(rsize)])
	recipient.setSlot(0, lp.KeyAt(size-1), lp.RIDAt(size-1))
	recipient.setSize(rsize + 1)

	lp.setSize(size - 1)
}
