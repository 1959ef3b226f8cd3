package storage

import (
	"bytes"
	"encoding/binary"
)

// Header page constants.
const (
	// HeaderNameSize is the maximum length of an index name in bytes.
	HeaderNameSize = 32

	// headerRecordSize is the on-page size of one (name, root) record.
	headerRecordSize = HeaderNameSize + 4

	// headerRecordsOffset is where the record array starts.
	headerRecordsOffset = 4

	// MaxHeaderRecords is the record capacity of the header page.
	MaxHeaderRecords = (PageSize - headerRecordsOffset) / headerRecordSize
)

// HeaderPage is a typed view of page 0. It maps index names to their
// root page ids so an index can be reopened by name.
//
// Layout:
//   - Bytes 0-1:  record count (uint16)
//   - Bytes 2-3:  reserved
//   - Bytes 4-:   records, each HeaderNameSize name bytes (NUL padded)
//     followed by the root page id (int32)
type HeaderPage struct {
	page *Page
}

// AsHeaderPage wraps a pinned frame as a header page view.
func AsHeaderPage(p *Page) *HeaderPage {
	return &HeaderPage{page: p}
}

// RecordCount returns the number of records stored on the page.
func (h *HeaderPage) RecordCount() int {
	return int(binary.LittleEndian.Uint16(h.page.data[0:2]))
}

func (h *HeaderPage) setRecordCount(n int) {
	binary.LittleEndian.PutUint16(h.page.data[0:2], uint16(n))
}

// recordOffset returns the byte offset of record i.
func recordOffset(i int) int {
	return headerRecordsOffset + i*headerRecordSize
}

// findRecord returns the index of the record for name, or -1.
func (h *HeaderPage) findRecord(name string) int {
	count := h.RecordCount()
	for i := 0; i < count; i++ {
		off := recordOffset(i)
		stored := h.page.data[off : off+HeaderNameSize]
		if end := bytes.IndexByte(stored, 0); end >= 0 {
			stored = stored[:end]
		}
		if string(stored) == name {
			return i
		}
	}
	return -1
}

// InsertRecord adds a (name, root) record. Returns false if the name is
// empty, too long, already present, or the page is full.
func (h *HeaderPage) InsertRecord(name string, root PageID) bool {
	if len(name) == 0 || len(name) > HeaderNameSize {
		return false
	}
	if h.findRecord(name) >= 0 {
		return false
	}

	count := h.RecordCount()
	if count >= MaxHeaderRecords {
		return false
	}

	off := recordOffset(count)
	rec := h.page.data[off : off+headerRecordSize]
	for i := range rec {
		rec[i] = 0
	}
	copy(rec, name)
	binary.LittleEndian.PutUint32(rec[HeaderNameSize:], uint32(root))

	h.setRecordCount(count + 1)
	return true
}

// UpdateRecord sets the root page id for an existing record. Returns
// false if the name is not present.
func (h *HeaderPage) UpdateRecord(name string, root PageID) bool {
	i := h.findRecord(name)
	if i < 0 {
		return false
	}

	off := recordOffset(i)
	binary.LittleEndian.PutUint32(h.page.data[off+HeaderNameSize:off+headerRecordSize], uint32(root))
	return true
}

// GetRecord returns the root page id for name.
func (h *HeaderPage) GetRecord(name string) (PageID, bool) {
	i := h.findRecord(name)
	if i < 0 {
		return InvalidPageID, false
	}

	off := recordOffset(i)
	root := PageID(binary.LittleEndian.Uint32(h.page.data[off+HeaderNameSize : off+headerRecordSize]))
	return root, true
}

// DeleteRecord removes the record for name, compacting the array.
// Returns false if the name is not present.
func (h *HeaderPage) DeleteRecord(name string) bool {
	i := h.findRecord(name)
	if i < 0 {
		return false
	}

	count := h.RecordCount()
	start := recordOffset(i)
	end := recordOffset(count)
	copy(h.page.data[start:], h.page.data[start+headerRecordSize:end])

	// Zero the vacated slot.
	last := recordOffset(count - 1)
	for j := last; j < end; j++ {
		h.page.data[j] = 0
	}

	h.setRecordCount(count - 1)
	return true
}
