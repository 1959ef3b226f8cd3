// Package storage provides the page, disk and buffer-pool layers of the
// index engine.
package storage

import "errors"

// PageSize is the size of a page frame in bytes.
const PageSize = 4096

// PageID identifies a page within the index file.
type PageID int32

const (
	// InvalidPageID marks the absence of a page reference.
	InvalidPageID PageID = -1

	// HeaderPageID is the well-known id of the header page.
	HeaderPageID PageID = 0
)

// Errors for page operations.
var (
	ErrInvalidPageID  = errors.New("invalid page id")
	ErrPageOutOfRange = errors.New("page id out of range")
)

// Page is a pinnable in-memory frame holding one page of the index file.
// Frames are owned by the buffer pool; callers reference pages by id and
// must never retain the frame pointer across an unpin.
type Page struct {
	id       PageID
	data     []byte
	pinCount int
	dirty    bool
}

// newFrame creates a zeroed frame for the given page id.
func newFrame(id PageID) *Page {
	return &Page{
		id:   id,
		data: make([]byte, PageSize),
	}
}

// ID returns the page id.
func (p *Page) ID() PageID {
	return p.id
}

// Data returns the raw page frame. Mutating it requires the caller to
// unpin the page with dirty = true.
func (p *Page) Data() []byte {
	return p.data
}

// PinCount returns the current pin count.
func (p *Page) PinCount() int {
	return p.pinCount
}

// IsDirty returns true if the frame has been modified since it was last
// written to disk.
func (p *Page) IsDirty() bool {
	return p.dirty
}
