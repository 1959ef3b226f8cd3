package btree

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/wanderingj/db/internal/storage"
)

// Page type tags stored in the first header byte.
const (
	pageTypeInvalid  byte = 0
	pageTypeLeaf     byte = 1
	pageTypeInternal byte = 2
)

// Common tree-page header layout. Every index page starts with these 16
// bytes, little-endian:
//
//   - Byte  0:      page type
//   - Byte  1:      key size
//   - Bytes 2-3:    size (occupied slots, uint16)
//   - Bytes 4-5:    max size (slot capacity, uint16)
//   - Bytes 6-7:    reserved
//   - Bytes 8-11:   page id (int32)
//   - Bytes 12-15:  parent page id (int32)
//
// Leaf pages extend the header to 24 bytes:
//
//   - Bytes 16-19:  next page id (int32)
//   - Bytes 20-23:  reserved
const (
	offPageType   = 0
	offKeySize    = 1
	offSize       = 2
	offMaxSize    = 4
	offPageID     = 8
	offParentID   = 12
	offNextPageID = 16

	headerSize     = 16
	leafHeaderSize = 24
)

// ErrCorrupted reports a structural invariant violated on a page read.
// It is fatal; the tree makes no attempt to repair the page.
var ErrCorrupted = errors.New("index page corrupted")

// pageTypeOf returns the type tag of a frame.
func pageTypeOf(p *storage.Page) byte {
	return p.Data()[offPageType]
}

// pageParentOf returns the parent page id stored in a frame's header.
func pageParentOf(p *storage.Page) storage.PageID {
	return storage.PageID(binary.LittleEndian.Uint32(p.Data()[offParentID : offParentID+4]))
}

// setPageParent updates the parent page id in a frame's header.
func setPageParent(p *storage.Page, parent storage.PageID) {
	binary.LittleEndian.PutUint32(p.Data()[offParentID:offParentID+4], uint32(parent))
}

// initPageHeader writes the common header fields of a fresh page.
func initPageHeader(p *storage.Page, pageType byte, keySize, maxSize int, parent storage.PageID) {
	data := p.Data()
	data[offPageType] = pageType
	data[offKeySize] = byte(keySize)
	binary.LittleEndian.PutUint16(data[offSize:offSize+2], 0)
	binary.LittleEndian.PutUint16(data[offMaxSize:offMaxSize+2], uint16(maxSize))
	binary.LittleEndian.PutUint32(data[offPageID:offPageID+4], uint32(p.ID()))
	setPageParent(p, parent)
}

// checkPageHeader validates the fields shared by both page kinds.
func checkPageHeader(p *storage.Page, wantType byte, wantKeySize int) error {
	data := p.Data()
	if data[offPageType] != wantType {
		return fmt.Errorf("%w: page %d has type %d, want %d",
			ErrCorrupted, p.ID(), data[offPageType], wantType)
	}
	if int(data[offKeySize]) != wantKeySize {
		return fmt.Errorf("%w: page %d has key size %d, want %d",
			ErrCorrupted, p.ID(), data[offKeySize], wantKeySize)
	}
	size := int(binary.LittleEndian.Uint16(data[offSize : offSize+2]))
	maxSize := int(binary.LittleEndian.Uint16(data[offMaxSize : offMaxSize+2]))
	if maxSize == 0 || size > maxSize {
		return fmt.Errorf("%w: page %d has size %d, max size %d",
			ErrCorrupted, p.ID(), size, maxSize)
	}
	if storage.PageID(binary.LittleEndian.Uint32(data[offPageID:offPageID+4])) != p.ID() {
		return fmt.Errorf("%w: page %d header carries wrong page id", ErrCorrupted, p.ID())
	}
	return nil
}

// treePage is the accessor base shared by leaf and internal views.
type treePage struct {
	frame *storage.Page
}

// PageID returns the page's own id.
func (tp treePage) PageID() storage.PageID {
	return storage.PageID(binary.LittleEndian.Uint32(tp.frame.Data()[offPageID : offPageID+4]))
}

// Parent returns the parent page id, or InvalidPageID for the root.
func (tp treePage) Parent() storage.PageID {
	return pageParentOf(tp.frame)
}

// SetParent updates the parent page id.
func (tp treePage) SetParent(parent storage.PageID) {
	setPageParent(tp.frame, parent)
}

// Size returns the number of occupied slots.
func (tp treePage) Size() int {
	return int(binary.LittleEndian.Uint16(tp.frame.Data()[offSize : offSize+2]))
}

func (tp treePage) setSize(n int) {
	binary.LittleEndian.PutUint16(tp.frame.Data()[offSize:offSize+2], uint16(n))
}

// MaxSize returns the slot capacity recorded in the header.
func (tp treePage) MaxSize() int {
	return int(binary.LittleEndian.Uint16(tp.frame.Data()[offMaxSize : offMaxSize+2]))
}

// KeySize returns the key width recorded in the header.
func (tp treePage) KeySize() int {
	return int(tp.frame.Data()[offKeySize])
}

// Frame returns the underlying buffer-pool frame.
func (tp treePage) Frame() *storage.Page {
	return tp.frame
}
